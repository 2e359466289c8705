package postgres

import (
	"context"
	"time"

	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/repository"
	"coderr/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var reviewOrderClauses = map[repository.ReviewOrdering]string{
	repository.ReviewOrderingUpdatedAtDesc: "updated_at DESC, id DESC",
	repository.ReviewOrderingUpdatedAtAsc:  "updated_at ASC, id ASC",
	repository.ReviewOrderingRatingDesc:    "rating DESC, updated_at DESC, id DESC",
	repository.ReviewOrderingRatingAsc:     "rating ASC, updated_at DESC, id DESC",
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a review repository bound to db.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Omit("Customer", "Business", "Order").Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrReviewAlreadyExists
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithField("rating", "rating must be between 1 and 5.")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

func (repo *reviewRepository) FindByID(ctx context.Context, id int64) (*entity.Review, error) {
	var reviewM model.ReviewModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by id")
	}

	return toReviewDomain(&reviewM), nil
}

func (repo *reviewRepository) ExistsForPair(ctx context.Context, customerID, businessID int64) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.ReviewModel{}).
		Where("customer_id = ? AND business_id = ?", customerID, businessID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check review pair")
	}

	return count > 0, nil
}

func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	now := time.Now().UTC()
	result := repo.db.WithContext(ctx).Model(&model.ReviewModel{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":      review.Rating,
			"description": review.Description,
			"updated_at":  now,
		})
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WithField("rating", "rating must be between 1 and 5.")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}
	review.UpdatedAt = now

	return nil
}

func (repo *reviewRepository) Delete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ReviewModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

func (repo *reviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]*entity.Review, error) {
	db := repo.db.WithContext(ctx).Model(&model.ReviewModel{})
	if filter.BusinessUserID != nil {
		db = db.Where("business_id = ?", *filter.BusinessUserID)
	}
	if filter.ReviewerID != nil {
		db = db.Where("customer_id = ?", *filter.ReviewerID)
	}

	orderClause, ok := reviewOrderClauses[filter.Ordering]
	if !ok {
		orderClause = reviewOrderClauses[repository.ReviewOrderingUpdatedAtDesc]
	}

	var reviewMs []*model.ReviewModel
	if err := db.Order(orderClause).Find(&reviewMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	reviews := make([]*entity.Review, 0, len(reviewMs))
	for _, reviewM := range reviewMs {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, nil
}

// --- Mapper Functions ---

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:          data.ID,
		CustomerID:  data.CustomerID,
		BusinessID:  data.BusinessID,
		OrderID:     data.OrderID,
		Rating:      data.Rating,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:          data.ID,
		CustomerID:  data.CustomerID,
		BusinessID:  data.BusinessID,
		OrderID:     data.OrderID,
		Rating:      data.Rating,
		Description: data.Description,
	}
}
