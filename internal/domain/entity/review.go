package entity

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a business user. At most one review exists
// per (CustomerID, BusinessID) pair.
type Review struct {
	ID          int64
	CustomerID  int64
	BusinessID  int64
	OrderID     *int64
	Rating      int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy reports whether userID wrote the review.
func (r *Review) IsOwnedBy(userID int64) bool {
	return r.CustomerID == userID
}

// PlatformSummary is the public statistics block.
type PlatformSummary struct {
	ReviewCount          int64
	AverageRating        float64 // Rounded to one decimal, 0 without reviews.
	BusinessProfileCount int64
	OfferCount           int64
}
