package impl

import (
	"context"
	"log/slog"

	deliverycontext "coderr/internal/delivery/context"
	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/repository"
	"coderr/internal/domain/reviewguard"
	"coderr/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var errDuplicateReview = domainerrors.ErrConflict.WithMessage("You have already reviewed this business user.")

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateReview records a customer's single review of a business user.
// The existence check and insert share one transaction, and the unique index
// on (customer, business) rejects any concurrent insert that slips past it.
func (srv *reviewService) CreateReview(
	ctx context.Context,
	caller entity.Caller,
	input usecase.CreateReviewInput,
) (*entity.Review, error) {
	srv.log(ctx).Info("Creating review", slog.Int64("reviewerID", caller.UserID))

	businessID, err := reviewguard.RequireBusinessUserID(input.BusinessUserID)
	if err != nil {
		return nil, err
	}
	if err := reviewguard.CheckReviewer(caller, businessID); err != nil {
		return nil, err
	}
	rating, err := reviewguard.ParseRating(input.Rating)
	if err != nil {
		return nil, err
	}
	description, err := reviewguard.RequireDescription(input.Description)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		CustomerID:  caller.UserID,
		BusinessID:  businessID,
		OrderID:     input.OrderID,
		Rating:      rating,
		Description: description,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		target, err := repoFactory.UserRepo().FindByID(ctx, businessID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrNotFound.WithMessage("Business user not found.")
			}

			return errors.Wrap(err, "failed to find business user")
		}
		if err := reviewguard.CheckTarget(target); err != nil {
			return err
		}

		if input.OrderID != nil {
			order, err := findOrder(ctx, repoFactory.OrderRepo(), *input.OrderID)
			if err != nil {
				return err
			}
			if err := reviewguard.CheckOrderLink(order, caller, businessID); err != nil {
				return err
			}
		}

		reviewRepo := repoFactory.ReviewRepo()
		exists, err := reviewRepo.ExistsForPair(ctx, caller.UserID, businessID)
		if err != nil {
			return errors.Wrap(err, "failed to check existing review")
		}
		if exists {
			return errDuplicateReview
		}

		if err := reviewRepo.Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrReviewAlreadyExists) {
				return errDuplicateReview
			}

			return errors.Wrap(err, "failed to persist review")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Debug("Review created", slog.Int64("reviewID", review.ID))

	return review, nil
}

// UpdateReview changes rating and/or description. Only the author may do so.
func (srv *reviewService) UpdateReview(
	ctx context.Context,
	caller entity.Caller,
	reviewID int64,
	input usecase.UpdateReviewInput,
) (*entity.Review, error) {
	srv.log(ctx).Info("Updating review", slog.Int64("reviewID", reviewID))

	var rating *int
	if input.Rating != nil {
		parsed, err := reviewguard.ParseRating(input.Rating)
		if err != nil {
			return nil, err
		}
		rating = &parsed
	}

	var review *entity.Review
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		found, err := findReview(ctx, reviewRepo, reviewID)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(caller.UserID) {
			return domainerrors.ErrAuthorization.WithMessage("Only the author of this review may change it.")
		}

		if rating != nil {
			found.Rating = *rating
		}
		if input.Description != nil {
			found.Description = *input.Description
		}

		if err := reviewRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to save review")
		}
		review = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update review")
	}

	return review, nil
}

// DeleteReview removes a review. Only the author may do so.
func (srv *reviewService) DeleteReview(ctx context.Context, caller entity.Caller, reviewID int64) error {
	srv.log(ctx).Info("Deleting review", slog.Int64("reviewID", reviewID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		found, err := findReview(ctx, reviewRepo, reviewID)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(caller.UserID) {
			return domainerrors.ErrAuthorization.WithMessage("Only the author of this review may delete it.")
		}

		if err := reviewRepo.Delete(ctx, reviewID); err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return domainerrors.ErrNotFound.WithMessage("Review not found.")
			}

			return errors.Wrap(err, "failed to delete review")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete review")
	}

	return nil
}

// GetReview loads one review.
func (srv *reviewService) GetReview(ctx context.Context, reviewID int64) (*entity.Review, error) {
	var review *entity.Review
	err := srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findReview(ctx, repoFactory.ReviewRepo(), reviewID)
		if err != nil {
			return err
		}
		review = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get review")
	}

	return review, nil
}

// ListReviews filters by business user and/or reviewer.
func (srv *reviewService) ListReviews(ctx context.Context, input usecase.ListReviewsInput) ([]*entity.Review, error) {
	filter, err := reviewguard.ParseFilter(input.BusinessUserID, input.ReviewerID, input.Ordering)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Listing reviews", slog.String("ordering", string(filter.Ordering)))

	var reviews []*entity.Review
	err = srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ReviewRepo().List(ctx, filter)
		if err != nil {
			return errors.Wrap(err, "failed to query reviews")
		}
		reviews = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return reviews, nil
}

func findReview(ctx context.Context, reviewRepo repository.ReviewRepository, reviewID int64) (*entity.Review, error) {
	review, err := reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrNotFound.WithMessage("Review not found.")
		}

		return nil, errors.Wrap(err, "failed to find review")
	}

	return review, nil
}
