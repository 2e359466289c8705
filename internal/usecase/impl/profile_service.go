package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "coderr/internal/delivery/context"
	"coderr/internal/domain/entity"
	domainerrors "coderr/internal/domain/errors"
	"coderr/internal/domain/repository"
	"coderr/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile retrieves a user together with its profile variant.
func (srv *profileService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	srv.log(ctx).Debug("Getting user profile", slog.Int64("userID", userID))

	var user *entity.User
	err := srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findUser(ctx, repoFactory.UserRepo(), userID)
		if err != nil {
			return err
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user profile")
	}

	return user, nil
}

// UpdateProfile applies a partial update. Only the owner may change a profile.
func (srv *profileService) UpdateProfile(
	ctx context.Context,
	caller entity.Caller,
	userID int64,
	patch usecase.ProfilePatch,
) (*entity.User, error) {
	srv.log(ctx).Info("Updating user profile", slog.Int64("userID", userID), slog.Int64("callerID", caller.UserID))

	if caller.UserID != userID {
		return nil, domainerrors.ErrAuthorization.WithMessage("You can only edit your own profile.")
	}

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		found, err := findUser(ctx, userRepo, userID)
		if err != nil {
			return err
		}

		if patch.Email != nil {
			email := strings.TrimSpace(*patch.Email)
			if !strings.EqualFold(email, found.Email) {
				taken, err := userRepo.ExistsByEmail(ctx, email)
				if err != nil {
					return errors.Wrap(err, "failed to check email")
				}
				if taken {
					return domainerrors.ErrConflict.WithField("email", "A user with this email already exists.")
				}
			}
			found.Email = email
		}
		if err := applyProfilePatch(found, patch); err != nil {
			return err
		}

		if err := userRepo.Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrUserAlreadyExists) {
				return domainerrors.ErrConflict.WithField("email", "A user with this email already exists.")
			}

			return errors.Wrap(err, "failed to update user profile")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update user profile")
	}

	return user, nil
}

// SetProfilePicture stores the path of an uploaded picture on the caller's profile.
func (srv *profileService) SetProfilePicture(ctx context.Context, caller entity.Caller, userID int64, path string) (*entity.User, error) {
	srv.log(ctx).Info("Setting profile picture", slog.Int64("userID", userID), slog.String("path", path))

	if caller.UserID != userID {
		return nil, domainerrors.ErrAuthorization.WithMessage("You can only edit your own profile.")
	}

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		found, err := findUser(ctx, userRepo, userID)
		if err != nil {
			return err
		}

		switch p := found.Profile.(type) {
		case *entity.BusinessProfile:
			p.ProfilePicture = path
		case *entity.CustomerProfile:
			p.ProfilePicture = path
		}

		if err := userRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to save profile picture")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to set profile picture")
	}

	return user, nil
}

// ListBusinessProfiles returns every business user.
func (srv *profileService) ListBusinessProfiles(ctx context.Context) ([]*entity.User, error) {
	return srv.listByType(ctx, entity.UserTypeBusiness)
}

// ListCustomerProfiles returns every customer user.
func (srv *profileService) ListCustomerProfiles(ctx context.Context) ([]*entity.User, error) {
	return srv.listByType(ctx, entity.UserTypeCustomer)
}

func (srv *profileService) listByType(ctx context.Context, userType entity.UserType) ([]*entity.User, error) {
	srv.log(ctx).Debug("Listing profiles", slog.String("type", userType.String()))

	var users []*entity.User
	err := srv.txManager.Query(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().ListByType(ctx, userType)
		if err != nil {
			return errors.Wrap(err, "failed to list users")
		}
		users = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s profiles", userType)
	}

	return users, nil
}

func applyProfilePatch(user *entity.User, patch usecase.ProfilePatch) error {
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}

	switch p := user.Profile.(type) {
	case *entity.BusinessProfile:
		setIfPresent(&p.Location, patch.Location)
		setIfPresent(&p.Phone, patch.Tel)
		setIfPresent(&p.Description, patch.Description)
		setIfPresent(&p.WorkingHours, patch.WorkingHours)
	case *entity.CustomerProfile:
		if patch.WorkingHours != nil {
			return domainerrors.ErrValidationFailed.WithField("working_hours", "Only business profiles have working hours.")
		}
		setIfPresent(&p.Location, patch.Location)
		setIfPresent(&p.Phone, patch.Tel)
		setIfPresent(&p.Bio, patch.Description)
	default:
		return errors.Errorf("user %d has no profile", user.ID)
	}

	return nil
}

func setIfPresent(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

// findUser maps a missing user to the NotFound kind.
func findUser(ctx context.Context, userRepo repository.UserRepository, userID int64) (*entity.User, error) {
	user, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrNotFound.WithMessage("User not found.")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}
