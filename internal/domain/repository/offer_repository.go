package repository

import (
	"context"
	"errors"

	"coderr/internal/domain/entity"
	"coderr/internal/domain/offerquery"
)

var (
	// ErrOfferNotFound is returned when an offer is not found.
	ErrOfferNotFound = errors.New("offer not found")
	// ErrOfferDetailNotFound is returned when an offer tier is not found.
	ErrOfferDetailNotFound = errors.New("offer detail not found")
)

// OfferRepository persists offers and their tiers. Reads fill the MinPrice and
// MinDeliveryTime aggregates in the same query that loads the offers.
type OfferRepository interface {
	// Create persists the offer and all of its details, assigning IDs.
	Create(ctx context.Context, offer *entity.Offer) error

	// FindByID loads an offer with its details, creator and aggregates.
	FindByID(ctx context.Context, id int64) (*entity.Offer, error)

	// List returns one page of offers matching q and the total match count.
	List(ctx context.Context, q offerquery.Query) ([]*entity.Offer, int64, error)

	// Update saves title, description and image, and bumps updated_at.
	Update(ctx context.Context, offer *entity.Offer) error

	// Delete removes the offer and its details. Orders referencing either keep
	// existing with their references cleared.
	Delete(ctx context.Context, id int64) error

	// FindDetailByID loads a single tier.
	FindDetailByID(ctx context.Context, id int64) (*entity.OfferDetail, error)

	// CreateDetail adds a tier to an existing offer.
	CreateDetail(ctx context.Context, detail *entity.OfferDetail) error

	// UpdateDetail saves every mutable field of a tier.
	UpdateDetail(ctx context.Context, detail *entity.OfferDetail) error
}
