package repository

import (
	"context"
	"errors"

	"coderr/internal/domain/entity"
)

var (
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrReviewAlreadyExists is returned when the (customer, business) pair already has a review.
	ErrReviewAlreadyExists = errors.New("review already exists for this business user")
)

// ReviewOrdering is a sort key for review listings.
type ReviewOrdering string

const (
	ReviewOrderingUpdatedAtDesc ReviewOrdering = "-updated_at"
	ReviewOrderingUpdatedAtAsc  ReviewOrdering = "updated_at"
	ReviewOrderingRatingDesc    ReviewOrdering = "-rating"
	ReviewOrderingRatingAsc     ReviewOrdering = "rating"
)

// ReviewFilter narrows a review listing. Nil fields do not filter.
type ReviewFilter struct {
	BusinessUserID *int64
	ReviewerID     *int64
	Ordering       ReviewOrdering
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	// Create inserts the review. A concurrent insert for the same pair that
	// slips past ExistsForPair surfaces as ErrReviewAlreadyExists.
	Create(ctx context.Context, review *entity.Review) error

	FindByID(ctx context.Context, id int64) (*entity.Review, error)

	ExistsForPair(ctx context.Context, customerID, businessID int64) (bool, error)

	// Update saves rating and description.
	Update(ctx context.Context, review *entity.Review) error

	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, filter ReviewFilter) ([]*entity.Review, error)
}

// StatsRepository serves platform-wide aggregates.
type StatsRepository interface {
	// PlatformSummary computes every counter in a single round trip.
	PlatformSummary(ctx context.Context) (*entity.PlatformSummary, error)
}
