package postgres

import (
	"context"

	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/repository"
	"coderr/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository bound to db.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (repo *orderRepository) withReferences(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Offer").
		Preload("OfferDetail")
}

// Create inserts the order and reloads its references.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Omit("Customer", "Offer", "OfferDetail").Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrOfferDetailNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

func (repo *orderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.withReferences(ctx).Where("orders.id = ?", id).First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// ListForUser returns orders placed by userID or placed on offers userID created.
func (repo *orderRepository) ListForUser(ctx context.Context, userID int64) ([]*entity.Order, error) {
	var orderMs []*model.OrderModel
	if err := repo.withReferences(ctx).
		Select("orders.*").
		Joins("LEFT JOIN offers AS partner_offer ON partner_offer.id = orders.offer_id").
		Where("orders.customer_id = ? OR partner_offer.creator_id = ?", userID, userID).
		Order("orders.created_at DESC, orders.id DESC").
		Find(&orderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderMs))
	for _, orderM := range orderMs {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// UpdateStatus writes status and completed_at together.
func (repo *orderRepository) UpdateStatus(ctx context.Context, order *entity.Order) error {
	result := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":       order.Status.String(),
			"completed_at": order.CompletedAt,
		})
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WithField("status", "status and completed_at disagree.")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// CountForBusiness counts orders in status on offers created by businessUserID.
func (repo *orderRepository) CountForBusiness(ctx context.Context, businessUserID int64, status entity.OrderStatus) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Joins("JOIN offers ON offers.id = orders.offer_id").
		Where("offers.creator_id = ? AND orders.status = ?", businessUserID, status.String()).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count orders")
	}

	return count, nil
}

// --- Mapper Functions ---

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	order := &entity.Order{
		ID:            data.ID,
		CustomerID:    data.CustomerID,
		OfferID:       data.OfferID,
		OfferDetailID: data.OfferDetailID,
		Status:        entity.OrderStatus(data.Status),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
		CompletedAt:   data.CompletedAt,
	}
	if data.Offer != nil {
		order.Offer = toOfferDomain(data.Offer)
	}
	if data.OfferDetail != nil {
		order.OfferDetail = toOfferDetailDomain(data.OfferDetail)
	}

	return order
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	return &model.OrderModel{
		ID:            data.ID,
		CustomerID:    data.CustomerID,
		OfferID:       data.OfferID,
		OfferDetailID: data.OfferDetailID,
		Status:        data.Status.String(),
		CompletedAt:   data.CompletedAt,
	}
}
