package usecase

import (
	"context"

	"coderr/internal/domain/entity"
)

// OrderUsecase drives the order lifecycle.
type OrderUsecase interface {
	CreateOrder(ctx context.Context, caller entity.Caller, offerDetailID int64) (*entity.Order, error)
	// ListOrdersFor returns orders where caller is the customer or the business partner.
	ListOrdersFor(ctx context.Context, caller entity.Caller) ([]*entity.Order, error)
	GetOrder(ctx context.Context, caller entity.Caller, orderID int64) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, caller entity.Caller, orderID int64, status string) (*entity.Order, error)
	// DeleteOrder always fails; orders are kept for the record.
	DeleteOrder(ctx context.Context, caller entity.Caller, orderID int64) error
	OrderCount(ctx context.Context, businessUserID int64) (int64, error)
	CompletedOrderCount(ctx context.Context, businessUserID int64) (int64, error)
}
