package repository

import (
	"context"
	"errors"

	"coderr/internal/domain/entity"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists orders. Loaded orders carry their Offer and
// OfferDetail when those still exist.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error

	FindByID(ctx context.Context, id int64) (*entity.Order, error)

	// ListForUser returns orders where userID is the customer or the creator
	// of the referenced offer, newest first.
	ListForUser(ctx context.Context, userID int64) ([]*entity.Order, error)

	// UpdateStatus saves status and completed_at.
	UpdateStatus(ctx context.Context, order *entity.Order) error

	// CountForBusiness counts orders in status whose offer was created by businessUserID.
	CountForBusiness(ctx context.Context, businessUserID int64, status entity.OrderStatus) (int64, error)
}
