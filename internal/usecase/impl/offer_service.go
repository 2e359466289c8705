package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"coderr/config"
	deliverycontext "coderr/internal/delivery/context"
	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/offerquery"
	"coderr/internal/domain/offertier"
	"coderr/internal/domain/repository"
	"coderr/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// offerService implements the OfferUsecase interface.
type offerService struct {
	txManager repository.TransactionManager
	limits    offerquery.Limits
	logger    *slog.Logger
}

// OfferServiceParams holds dependencies for OfferService, injected by Fx.
type OfferServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOfferService is the constructor for offerService.
func NewOfferService(params OfferServiceParams) usecase.OfferUsecase {
	limits := offerquery.Limits{DefaultPageSize: 6, MaxPageSize: 100}
	if params.Config != nil && params.Config.Marketplace != nil {
		limits.DefaultPageSize = params.Config.Marketplace.DefaultPageSize
		limits.MaxPageSize = params.Config.Marketplace.MaxPageSize
	}

	return &offerService{
		txManager: params.TxManager,
		limits:    limits,
		logger:    params.Logger,
	}
}

func (srv *offerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOffer validates the three tiers and persists the offer with all of them atomically.
func (srv *offerService) CreateOffer(ctx context.Context, caller entity.Caller, input usecase.CreateOfferInput) (*entity.Offer, error) {
	srv.log(ctx).Info("Creating offer", slog.Int64("creatorID", caller.UserID), slog.Int("details", len(input.Details)))

	if !caller.IsBusiness() {
		return nil, domainerrors.ErrAuthorization.WithMessage("Only business users can create offers.")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainerrors.ErrValidationFailed.WithField(offertier.FieldTitle, "Title must not be empty.")
	}
	if err := offertier.ValidateSet(input.Details); err != nil {
		return nil, err
	}

	offer := &entity.Offer{
		CreatorID:   caller.UserID,
		Title:       title,
		Description: input.Description,
		Image:       input.Image,
		Details:     make([]*entity.OfferDetail, 0, len(input.Details)),
	}
	for _, in := range input.Details {
		detail, err := offertier.Build(in)
		if err != nil {
			return nil, err
		}
		offer.Details = append(offer.Details, detail)
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.OfferRepo().Create(ctx, offer); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrNotFound.WithMessage("Creator not found.")
			}

			return errors.Wrap(err, "failed to persist offer")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create offer")
	}

	srv.log(ctx).Debug("Offer created", slog.Int64("offerID", offer.ID))

	return offer, nil
}

// ListOffers parses the raw parameters and returns one page of matching offers.
func (srv *offerService) ListOffers(ctx context.Context, params offerquery.Params) (*usecase.OfferPage, error) {
	q, err := offerquery.Parse(params, srv.limits)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Listing offers",
		slog.String("ordering", string(q.Ordering)),
		slog.Int("page", q.Page),
		slog.Int("pageSize", q.PageSize),
	)

	page := &usecase.OfferPage{Page: q.Page, PageSize: q.PageSize}
	err = srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		offers, total, err := repoFactory.OfferRepo().List(ctx, q)
		if err != nil {
			return errors.Wrap(err, "failed to query offers")
		}
		page.Results = offers
		page.Count = total

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list offers")
	}

	return page, nil
}

// GetOffer loads one offer with its tiers.
func (srv *offerService) GetOffer(ctx context.Context, offerID int64) (*entity.Offer, error) {
	srv.log(ctx).Debug("Getting offer", slog.Int64("offerID", offerID))

	var offer *entity.Offer
	err := srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findOffer(ctx, repoFactory.OfferRepo(), offerID)
		if err != nil {
			return err
		}
		offer = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get offer")
	}

	return offer, nil
}

// UpdateOffer applies a partial update to the offer and any named tiers in one transaction.
func (srv *offerService) UpdateOffer(
	ctx context.Context,
	caller entity.Caller,
	offerID int64,
	input usecase.UpdateOfferInput,
) (*entity.Offer, error) {
	srv.log(ctx).Info("Updating offer", slog.Int64("offerID", offerID), slog.Int("detailPatches", len(input.Details)))

	return srv.mutateOwnedOffer(ctx, caller, offerID, func(offerRepo repository.OfferRepository, offer *entity.Offer) error {
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return domainerrors.ErrValidationFailed.WithField(offertier.FieldTitle, "Title must not be empty.")
			}
			offer.Title = title
		}
		if input.Description != nil {
			offer.Description = *input.Description
		}
		if input.Image != nil {
			offer.Image = *input.Image
		}

		for _, patch := range input.Details {
			if err := applyTierPatch(ctx, offerRepo, offer, patch); err != nil {
				return err
			}
		}

		return nil
	})
}

// UpdateOfferTier patches a single tier.
func (srv *offerService) UpdateOfferTier(
	ctx context.Context,
	caller entity.Caller,
	offerID int64,
	patch offertier.Input,
) (*entity.Offer, error) {
	srv.log(ctx).Info("Updating offer tier", slog.Int64("offerID", offerID), slog.String("offerType", patch.OfferType))

	return srv.mutateOwnedOffer(ctx, caller, offerID, func(offerRepo repository.OfferRepository, offer *entity.Offer) error {
		return applyTierPatch(ctx, offerRepo, offer, patch)
	})
}

// SetOfferImage stores the path of an uploaded image on the offer.
func (srv *offerService) SetOfferImage(ctx context.Context, caller entity.Caller, offerID int64, path string) (*entity.Offer, error) {
	srv.log(ctx).Info("Setting offer image", slog.Int64("offerID", offerID), slog.String("path", path))

	return srv.mutateOwnedOffer(ctx, caller, offerID, func(_ repository.OfferRepository, offer *entity.Offer) error {
		offer.Image = path

		return nil
	})
}

// DeleteOffer removes an offer. Orders referencing it survive as ghosts.
func (srv *offerService) DeleteOffer(ctx context.Context, caller entity.Caller, offerID int64) error {
	srv.log(ctx).Info("Deleting offer", slog.Int64("offerID", offerID), slog.Int64("callerID", caller.UserID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		offerRepo := repoFactory.OfferRepo()

		offer, err := findOffer(ctx, offerRepo, offerID)
		if err != nil {
			return err
		}
		if !offer.IsOwnedBy(caller.UserID) {
			return errNotOfferOwner
		}

		if err := offerRepo.Delete(ctx, offerID); err != nil {
			if errors.Is(err, repository.ErrOfferNotFound) {
				return domainerrors.ErrNotFound.WithMessage("Offer not found.")
			}

			return errors.Wrap(err, "failed to delete offer")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete offer")
	}

	return nil
}

// GetOfferDetail loads a single tier.
func (srv *offerService) GetOfferDetail(ctx context.Context, detailID int64) (*entity.OfferDetail, error) {
	srv.log(ctx).Debug("Getting offer detail", slog.Int64("detailID", detailID))

	var detail *entity.OfferDetail
	err := srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OfferRepo().FindDetailByID(ctx, detailID)
		if err != nil {
			if errors.Is(err, repository.ErrOfferDetailNotFound) {
				return domainerrors.ErrNotFound.WithMessage("Offer detail not found.")
			}

			return errors.Wrap(err, "failed to find offer detail")
		}
		detail = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get offer detail")
	}

	return detail, nil
}

var errNotOfferOwner = domainerrors.ErrAuthorization.WithMessage("Only the creator of this offer may change it.")

// mutateOwnedOffer loads the offer, checks ownership, runs mutate, saves the
// offer row and reloads it so the aggregates reflect the new tiers.
func (srv *offerService) mutateOwnedOffer(
	ctx context.Context,
	caller entity.Caller,
	offerID int64,
	mutate func(offerRepo repository.OfferRepository, offer *entity.Offer) error,
) (*entity.Offer, error) {
	var updated *entity.Offer
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		offerRepo := repoFactory.OfferRepo()

		offer, err := findOffer(ctx, offerRepo, offerID)
		if err != nil {
			return err
		}
		if !offer.IsOwnedBy(caller.UserID) {
			return errNotOfferOwner
		}

		if err := mutate(offerRepo, offer); err != nil {
			return err
		}

		if err := offerRepo.Update(ctx, offer); err != nil {
			return errors.Wrap(err, "failed to save offer")
		}

		updated, err = findOffer(ctx, offerRepo, offerID)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update offer")
	}

	return updated, nil
}

// applyTierPatch updates the tier named by patch.OfferType. A tier the offer
// does not have yet is created only from a complete payload.
func applyTierPatch(ctx context.Context, offerRepo repository.OfferRepository, offer *entity.Offer, patch offertier.Input) error {
	offerType := entity.OfferType(patch.OfferType)
	if !offerType.IsValid() {
		return domainerrors.ErrValidationFailed.WithField(offertier.FieldOfferType,
			"Each detail update must name its offer_type: basic, standard or premium.")
	}

	detail, ok := offer.Detail(offerType)
	if !ok {
		if !offertier.IsComplete(patch) {
			return domainerrors.ErrNotFound.WithMessage(
				fmt.Sprintf("Offer %d has no %s detail.", offer.ID, offerType))
		}

		created, err := offertier.Build(patch)
		if err != nil {
			return err
		}
		created.OfferID = offer.ID
		if err := offerRepo.CreateDetail(ctx, created); err != nil {
			return errors.Wrap(err, "failed to create offer detail")
		}
		offer.Details = append(offer.Details, created)

		return nil
	}

	if err := offertier.Apply(detail, patch); err != nil {
		return err
	}
	if err := offerRepo.UpdateDetail(ctx, detail); err != nil {
		if errors.Is(err, repository.ErrOfferDetailNotFound) {
			return domainerrors.ErrNotFound.WithMessage("Offer detail not found.")
		}

		return errors.Wrap(err, "failed to update offer detail")
	}

	return nil
}

func findOffer(ctx context.Context, offerRepo repository.OfferRepository, offerID int64) (*entity.Offer, error) {
	offer, err := offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, domainerrors.ErrNotFound.WithMessage("Offer not found.")
		}

		return nil, errors.Wrap(err, "failed to find offer")
	}

	return offer, nil
}
