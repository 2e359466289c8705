// Package reviewguard holds the rules a review must satisfy before it is written.
package reviewguard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
)

const (
	FieldBusinessUser = "business_user"
	FieldRating       = "rating"
	FieldDescription  = "description"
	FieldOrder        = "order"

	requiredMessage = "This field is required."
)

var ratingMessage = fmt.Sprintf("Rating must be an integer between %d and %d.", entity.MinRating, entity.MaxRating)

// ParseRating accepts only a JSON integer within the rating bounds. Strings,
// fractions and null are rejected.
func ParseRating(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, domainerrors.ErrValidationFailed.WithField(FieldRating, requiredMessage)
	}

	rating, err := strconv.Atoi(string(raw))
	if err != nil || rating < entity.MinRating || rating > entity.MaxRating {
		return 0, domainerrors.ErrValidationFailed.WithField(FieldRating, ratingMessage)
	}

	return rating, nil
}

// RequireBusinessUserID rejects a missing target.
func RequireBusinessUserID(id *int64) (int64, error) {
	if id == nil {
		return 0, domainerrors.ErrValidationFailed.WithField(FieldBusinessUser, requiredMessage)
	}

	return *id, nil
}

// RequireDescription distinguishes an absent description from an empty one.
func RequireDescription(description *string) (string, error) {
	if description == nil {
		return "", domainerrors.ErrValidationFailed.WithField(FieldDescription, requiredMessage)
	}

	return *description, nil
}

// CheckTarget ensures the reviewed user is a business.
func CheckTarget(target *entity.User) error {
	if !target.IsBusiness() {
		return domainerrors.ErrValidationFailed.WithField(FieldBusinessUser, "Reviews can only target business users.")
	}

	return nil
}

// CheckReviewer ensures only customers write reviews and never about themselves.
func CheckReviewer(caller entity.Caller, businessUserID int64) error {
	if !caller.IsCustomer() {
		return domainerrors.ErrAuthorization.WithMessage("Only customers can create reviews.")
	}
	if caller.UserID == businessUserID {
		return domainerrors.ErrValidationFailed.WithField(FieldBusinessUser, "You cannot review yourself.")
	}

	return nil
}

// CheckOrderLink ensures a linked order was placed by the reviewer with the reviewed business.
func CheckOrderLink(order *entity.Order, caller entity.Caller, businessUserID int64) error {
	if order.CustomerID != caller.UserID {
		return domainerrors.ErrValidationFailed.WithField(FieldOrder, "The order does not belong to you.")
	}

	partnerID, ok := order.BusinessPartnerID()
	if !ok || partnerID != businessUserID {
		return domainerrors.ErrValidationFailed.WithField(FieldOrder, "The order was not placed with this business user.")
	}

	return nil
}
