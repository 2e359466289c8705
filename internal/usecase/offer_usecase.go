package usecase

import (
	"context"

	"coderr/internal/domain/entity"
	"coderr/internal/domain/offerquery"
	"coderr/internal/domain/offertier"
)

// CreateOfferInput is a new offer with its three tiers.
type CreateOfferInput struct {
	Title       string
	Description string
	Image       string
	Details     []offertier.Input
}

// UpdateOfferInput is a partial offer update. Each entry in Details names the
// tier it patches through its OfferType.
type UpdateOfferInput struct {
	Title       *string
	Description *string
	Image       *string
	Details     []offertier.Input
}

// OfferPage is one page of an offer listing.
type OfferPage struct {
	Count    int64
	Page     int
	PageSize int
	Results  []*entity.Offer
}

// OfferUsecase covers publishing and browsing offers.
type OfferUsecase interface {
	CreateOffer(ctx context.Context, caller entity.Caller, input CreateOfferInput) (*entity.Offer, error)
	ListOffers(ctx context.Context, params offerquery.Params) (*OfferPage, error)
	GetOffer(ctx context.Context, offerID int64) (*entity.Offer, error)
	UpdateOffer(ctx context.Context, caller entity.Caller, offerID int64, input UpdateOfferInput) (*entity.Offer, error)
	// UpdateOfferTier patches a single tier of an offer owned by caller.
	UpdateOfferTier(ctx context.Context, caller entity.Caller, offerID int64, patch offertier.Input) (*entity.Offer, error)
	DeleteOffer(ctx context.Context, caller entity.Caller, offerID int64) error
	GetOfferDetail(ctx context.Context, detailID int64) (*entity.OfferDetail, error)
	SetOfferImage(ctx context.Context, caller entity.Caller, offerID int64, path string) (*entity.Offer, error)
}
