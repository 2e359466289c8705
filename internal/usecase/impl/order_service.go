package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "coderr/internal/delivery/context"
	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/repository"
	"coderr/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	now       func() time.Time
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrder places a pending order for one tier. Tiers whose offer is gone cannot be ordered.
func (srv *orderService) CreateOrder(ctx context.Context, caller entity.Caller, offerDetailID int64) (*entity.Order, error) {
	srv.log(ctx).Info("Creating order", slog.Int64("customerID", caller.UserID), slog.Int64("offerDetailID", offerDetailID))

	if !caller.IsCustomer() {
		return nil, domainerrors.ErrAuthorization.WithMessage("Only customers can place orders.")
	}

	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		offerRepo := repoFactory.OfferRepo()

		detail, err := offerRepo.FindDetailByID(ctx, offerDetailID)
		if err != nil {
			if errors.Is(err, repository.ErrOfferDetailNotFound) {
				return domainerrors.ErrNotFound.WithMessage("Offer detail not found.")
			}

			return errors.Wrap(err, "failed to find offer detail")
		}

		offer, err := offerRepo.FindByID(ctx, detail.OfferID)
		if err != nil {
			if errors.Is(err, repository.ErrOfferNotFound) {
				return domainerrors.ErrValidationFailed.WithField("offer_detail_id", "The offer for this detail no longer exists.")
			}

			return errors.Wrap(err, "failed to find offer")
		}

		order = &entity.Order{
			CustomerID:    caller.UserID,
			OfferID:       &offer.ID,
			OfferDetailID: &detail.ID,
			Status:        entity.OrderStatusPending,
		}
		if err := repoFactory.OrderRepo().Create(ctx, order); err != nil {
			if errors.Is(err, repository.ErrOfferDetailNotFound) {
				return domainerrors.ErrNotFound.WithMessage("Offer detail not found.")
			}

			return errors.Wrap(err, "failed to persist order")
		}
		order.Offer = offer
		order.OfferDetail = detail

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	srv.log(ctx).Debug("Order created", slog.Int64("orderID", order.ID))

	return order, nil
}

// ListOrdersFor returns the caller's orders from both sides of the deal.
func (srv *orderService) ListOrdersFor(ctx context.Context, caller entity.Caller) ([]*entity.Order, error) {
	srv.log(ctx).Debug("Listing orders", slog.Int64("userID", caller.UserID))

	var orders []*entity.Order
	err := srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OrderRepo().ListForUser(ctx, caller.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to query orders")
		}
		orders = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// GetOrder returns an order visible to its customer or business partner.
func (srv *orderService) GetOrder(ctx context.Context, caller entity.Caller, orderID int64) (*entity.Order, error) {
	srv.log(ctx).Debug("Getting order", slog.Int64("orderID", orderID))

	var order *entity.Order
	err := srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findOrder(ctx, repoFactory.OrderRepo(), orderID)
		if err != nil {
			return err
		}

		partnerID, hasPartner := found.BusinessPartnerID()
		if found.CustomerID != caller.UserID && (!hasPartner || partnerID != caller.UserID) {
			return domainerrors.ErrAuthorization.WithMessage("You are not a party to this order.")
		}
		order = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get order")
	}

	return order, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Only the business partner may do so.
func (srv *orderService) UpdateOrderStatus(
	ctx context.Context,
	caller entity.Caller,
	orderID int64,
	status string,
) (*entity.Order, error) {
	srv.log(ctx).Info("Updating order status", slog.Int64("orderID", orderID), slog.String("status", status))

	next := entity.OrderStatus(status)
	if !next.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithField("status",
			fmt.Sprintf("Invalid status %q. Must be one of: pending, in_progress, completed, cancelled.", status))
	}

	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		found, err := findOrder(ctx, orderRepo, orderID)
		if err != nil {
			return err
		}

		partnerID, ok := found.BusinessPartnerID()
		if !ok {
			return domainerrors.ErrAuthorization.WithMessage("This order no longer has a business partner.")
		}
		if partnerID != caller.UserID {
			return domainerrors.ErrAuthorization.WithMessage("Only the business partner may update this order.")
		}

		if !found.Status.CanTransitionTo(next) {
			return domainerrors.ErrValidationFailed.WithField("status",
				fmt.Sprintf("Cannot change status from %s to %s.", found.Status, next))
		}
		order = found
		if found.Status == next {
			return nil
		}

		found.SetStatus(next, srv.now())
		if err := orderRepo.UpdateStatus(ctx, found); err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrNotFound.WithMessage("Order not found.")
			}

			return errors.Wrap(err, "failed to save order status")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}

	return order, nil
}

// DeleteOrder always fails.
func (srv *orderService) DeleteOrder(ctx context.Context, caller entity.Caller, orderID int64) error {
	srv.log(ctx).Warn("Rejected order deletion", slog.Int64("orderID", orderID), slog.Int64("callerID", caller.UserID))

	return domainerrors.ErrForbiddenOperation.WithMessage("Orders cannot be deleted once they have been created.")
}

// OrderCount counts a business user's in-progress orders.
func (srv *orderService) OrderCount(ctx context.Context, businessUserID int64) (int64, error) {
	return srv.countForBusiness(ctx, businessUserID, entity.OrderStatusInProgress)
}

// CompletedOrderCount counts a business user's completed orders.
func (srv *orderService) CompletedOrderCount(ctx context.Context, businessUserID int64) (int64, error) {
	return srv.countForBusiness(ctx, businessUserID, entity.OrderStatusCompleted)
}

func (srv *orderService) countForBusiness(ctx context.Context, businessUserID int64, status entity.OrderStatus) (int64, error) {
	srv.log(ctx).Debug("Counting orders", slog.Int64("businessUserID", businessUserID), slog.String("status", status.String()))

	var count int64
	err := srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByID(ctx, businessUserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrNotFound.WithMessage("Business user not found.")
			}

			return errors.Wrap(err, "failed to find user")
		}
		if !user.IsBusiness() {
			return domainerrors.ErrNotFound.WithMessage("Business user not found.")
		}

		count, err = repoFactory.OrderRepo().CountForBusiness(ctx, businessUserID, status)

		return errors.Wrap(err, "failed to count orders")
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count orders")
	}

	return count, nil
}

func findOrder(ctx context.Context, orderRepo repository.OrderRepository, orderID int64) (*entity.Order, error) {
	order, err := orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrNotFound.WithMessage("Order not found.")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}
