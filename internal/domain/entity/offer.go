package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferType labels one of the three fixed tiers of an offer.
type OfferType string

const (
	OfferTypeBasic    OfferType = "basic"
	OfferTypeStandard OfferType = "standard"
	OfferTypePremium  OfferType = "premium"
)

// OfferTypes lists every tier an offer must carry, in display order.
func OfferTypes() []OfferType {
	return []OfferType{OfferTypeBasic, OfferTypeStandard, OfferTypePremium}
}

// String returns the string representation of the OfferType.
func (t OfferType) String() string {
	return string(t)
}

// IsValid checks if the OfferType is one of the three known tiers.
func (t OfferType) IsValid() bool {
	switch t {
	case OfferTypeBasic, OfferTypeStandard, OfferTypePremium:
		return true
	default:
		return false
	}
}

// Offer is a service published by a business user.
type Offer struct {
	ID          int64
	CreatorID   int64  // Business user that owns the offer.
	Creator     *User  // Loaded for read views, nil on writes.
	Title       string
	Description string
	Image       string // Opaque storage path, empty when no image was uploaded.
	Details     []*OfferDetail

	// Aggregates over Details, filled by the store's query layer. Nil when the offer has no details.
	MinPrice        *decimal.Decimal
	MinDeliveryTime *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail returns the tier with the given type.
func (o *Offer) Detail(offerType OfferType) (*OfferDetail, bool) {
	for _, d := range o.Details {
		if d.OfferType == offerType {
			return d, true
		}
	}

	return nil, false
}

// IsOwnedBy reports whether userID created the offer.
func (o *Offer) IsOwnedBy(userID int64) bool {
	return o.CreatorID == userID
}

// OfferDetail is one pricing tier of an offer.
type OfferDetail struct {
	ID                 int64
	OfferID            int64
	OfferType          OfferType
	Title              string
	Price              decimal.Decimal // >= 0, two decimal places.
	DeliveryTimeInDays int             // >= 0
	Revisions          int             // >= -1, where -1 means unlimited.
	Features           []string
}

// UnlimitedRevisions marks a tier without a revision cap.
const UnlimitedRevisions = -1
