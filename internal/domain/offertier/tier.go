// Package offertier enforces the three-tier contract of an offer: the tier
// set, the numeric field types and ranges, and null normalization.
package offertier

import (
	"fmt"
	"math"
	"strings"

	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	FieldDetails            = "details"
	FieldOfferType          = "offer_type"
	FieldTitle              = "title"
	FieldPrice              = "price"
	FieldDeliveryTimeInDays = "delivery_time_in_days"
	FieldRevisions          = "revisions"

	// RequiredTierCount is the number of tiers every offer carries.
	RequiredTierCount = 3
)

// price is stored as NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)

// Input is one tier as received from a caller. Absent fields stay zero:
// OfferType "", Title nil, Number{} and Features nil.
type Input struct {
	OfferType          string    `json:"offer_type"`
	Title              *string   `json:"title"`
	Price              Number    `json:"price"`
	DeliveryTimeInDays Number    `json:"delivery_time_in_days"`
	Revisions          Number    `json:"revisions"`
	Features           *[]string `json:"features"`
}

// NormalizeNumerics replaces explicit nulls in the three numeric fields with 0.
// Absent fields are left absent.
func NormalizeNumerics(in Input) Input {
	out := in
	for _, field := range []*Number{&out.Price, &out.DeliveryTimeInDays, &out.Revisions} {
		if field.IsNull() {
			*field = Int(0)
		}
	}

	return out
}

// ValidateSet checks that inputs hold exactly one tier of each type.
func ValidateSet(inputs []Input) error {
	if len(inputs) != RequiredTierCount {
		return domainerrors.ErrValidationFailed.WithField(FieldDetails,
			fmt.Sprintf("An offer must contain exactly %d details.", RequiredTierCount))
	}

	seen := make(map[entity.OfferType]struct{}, RequiredTierCount)
	for _, in := range inputs {
		seen[entity.OfferType(in.OfferType)] = struct{}{}
	}
	for _, required := range entity.OfferTypes() {
		if _, ok := seen[required]; !ok {
			return domainerrors.ErrValidationFailed.WithField(FieldDetails,
				"Details must contain exactly one basic, one standard and one premium offer.")
		}
	}
	if len(seen) != RequiredTierCount {
		return domainerrors.ErrValidationFailed.WithField(FieldDetails,
			"Details must contain exactly one basic, one standard and one premium offer.")
	}

	return nil
}

// Build validates a full tier for creation. Absent numeric fields count as
// null and become 0.
func Build(in Input) (*entity.OfferDetail, error) {
	for _, field := range []*Number{&in.Price, &in.DeliveryTimeInDays, &in.Revisions} {
		if !field.Present() {
			*field = Null()
		}
	}
	in = NormalizeNumerics(in)

	offerType := entity.OfferType(in.OfferType)
	if !offerType.IsValid() {
		return nil, invalidOfferType(in.OfferType)
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, domainerrors.ErrValidationFailed.WithField(FieldTitle, "Title must not be empty.")
	}

	detail := &entity.OfferDetail{
		OfferType: offerType,
		Title:     strings.TrimSpace(*in.Title),
		Features:  []string{},
	}
	if err := applyNumerics(detail, in); err != nil {
		return nil, err
	}
	if in.Features != nil {
		detail.Features = cleanFeatures(*in.Features)
	}

	return detail, nil
}

// Apply merges a partial tier into detail. Only supplied fields change; an
// explicit null numeric becomes 0. OfferType must match the target tier.
func Apply(detail *entity.OfferDetail, patch Input) error {
	patch = NormalizeNumerics(patch)

	if patch.OfferType != "" && entity.OfferType(patch.OfferType) != detail.OfferType {
		return domainerrors.ErrValidationFailed.WithField(FieldOfferType, "Offer type cannot be changed.")
	}

	updated := *detail
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return domainerrors.ErrValidationFailed.WithField(FieldTitle, "Title must not be empty.")
		}
		updated.Title = strings.TrimSpace(*patch.Title)
	}
	if err := applyNumerics(&updated, patch); err != nil {
		return err
	}
	if patch.Features != nil {
		updated.Features = cleanFeatures(*patch.Features)
	}

	*detail = updated

	return nil
}

// IsComplete reports whether a patch carries every field a new tier needs.
func IsComplete(patch Input) bool {
	return entity.OfferType(patch.OfferType).IsValid() &&
		patch.Title != nil &&
		patch.Price.Present() &&
		patch.DeliveryTimeInDays.Present() &&
		patch.Revisions.Present()
}

// applyNumerics type-checks every supplied numeric field before range-checking
// any of them, so a wrong type is always reported as TypeValidationError.
func applyNumerics(detail *entity.OfferDetail, in Input) error {
	var (
		price               decimal.Decimal
		delivery, revisions int64
		err                 error
	)

	if in.Price.Present() {
		if price, err = in.Price.decimal(); err != nil {
			return typeError(FieldPrice, "Price", err)
		}
	}
	if in.DeliveryTimeInDays.Present() {
		if delivery, err = in.DeliveryTimeInDays.int(); err != nil {
			return typeError(FieldDeliveryTimeInDays, "Delivery time", err)
		}
	}
	if in.Revisions.Present() {
		if revisions, err = in.Revisions.int(); err != nil {
			return typeError(FieldRevisions, "Revisions", err)
		}
	}

	if in.Price.Present() {
		switch {
		case price.IsNegative():
			return domainerrors.ErrValidationFailed.WithField(FieldPrice, "Price must be a non-negative number.")
		case !price.Equal(price.Round(2)):
			return domainerrors.ErrValidationFailed.WithField(FieldPrice, "Price must have at most 2 decimal places.")
		case price.GreaterThanOrEqual(maxPrice):
			return domainerrors.ErrValidationFailed.WithField(FieldPrice, "Price must have at most 10 digits.")
		}
		detail.Price = price
	}
	if in.DeliveryTimeInDays.Present() {
		switch {
		case delivery < 0:
			return domainerrors.ErrValidationFailed.WithField(FieldDeliveryTimeInDays,
				"Delivery time must be a non-negative integer.")
		case delivery > math.MaxInt32:
			return domainerrors.ErrValidationFailed.WithField(FieldDeliveryTimeInDays, maxIntMessage("Delivery time"))
		}
		detail.DeliveryTimeInDays = int(delivery)
	}
	if in.Revisions.Present() {
		switch {
		case revisions < entity.UnlimitedRevisions:
			return domainerrors.ErrValidationFailed.WithField(FieldRevisions,
				"Revisions must be -1 (unlimited) or a non-negative integer.")
		case revisions > math.MaxInt32:
			return domainerrors.ErrValidationFailed.WithField(FieldRevisions, maxIntMessage("Revisions"))
		}
		detail.Revisions = int(revisions)
	}

	return nil
}

func maxIntMessage(label string) string {
	return fmt.Sprintf("%s must be at most %d.", label, math.MaxInt32)
}

func typeError(field, label string, cause error) error {
	switch {
	case errors.Is(cause, errStringValue):
		return domainerrors.ErrTypeValidation.WithField(field, label+" must be a number, not a string.")
	case errors.Is(cause, errNotInteger):
		return domainerrors.ErrValidationFailed.WithField(field, label+" must be an integer.")
	default:
		return domainerrors.ErrTypeValidation.WithField(field, label+" must be a number.")
	}
}

func invalidOfferType(got string) error {
	return domainerrors.ErrValidationFailed.WithField(FieldOfferType,
		fmt.Sprintf("Invalid offer type %q. Must be one of: basic, standard, premium.", got))
}

func cleanFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}

	return out
}
