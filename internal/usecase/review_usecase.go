package usecase

import (
	"context"
	"encoding/json"

	"coderr/internal/domain/entity"
)

// CreateReviewInput keeps Rating raw so that strings and fractions are rejected
// instead of coerced.
type CreateReviewInput struct {
	BusinessUserID *int64
	Rating         json.RawMessage
	Description    *string
	OrderID        *int64
}

// UpdateReviewInput is a partial review update. Absent fields are left unchanged.
type UpdateReviewInput struct {
	Rating      json.RawMessage
	Description *string
}

// ListReviewsInput holds untouched query-string values.
type ListReviewsInput struct {
	BusinessUserID string
	ReviewerID     string
	Ordering       string
}

// ReviewUsecase guards review integrity.
type ReviewUsecase interface {
	CreateReview(ctx context.Context, caller entity.Caller, input CreateReviewInput) (*entity.Review, error)
	UpdateReview(ctx context.Context, caller entity.Caller, reviewID int64, input UpdateReviewInput) (*entity.Review, error)
	DeleteReview(ctx context.Context, caller entity.Caller, reviewID int64) error
	GetReview(ctx context.Context, reviewID int64) (*entity.Review, error)
	ListReviews(ctx context.Context, input ListReviewsInput) ([]*entity.Review, error)
}
