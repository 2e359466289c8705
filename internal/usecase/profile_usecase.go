package usecase

import (
	"context"

	"coderr/internal/domain/entity"
)

// ProfilePatch carries the profile fields a user may change. Nil means unchanged.
type ProfilePatch struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Location     *string
	Tel          *string
	Description  *string
	WorkingHours *string // Business profiles only.
}

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID int64) (*entity.User, error)
	UpdateProfile(ctx context.Context, caller entity.Caller, userID int64, patch ProfilePatch) (*entity.User, error)
	SetProfilePicture(ctx context.Context, caller entity.Caller, userID int64, path string) (*entity.User, error)
	ListBusinessProfiles(ctx context.Context) ([]*entity.User, error)
	ListCustomerProfiles(ctx context.Context) ([]*entity.User, error)
}
