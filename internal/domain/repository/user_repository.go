// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"coderr/internal/domain/entity"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository defines the standard operations for user persistence.
// Users are always loaded together with their profile variant.
type UserRepository interface {
	// FindByID retrieves a single user by their ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByUsername retrieves a single user by their login name.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// ExistsByUsername reports whether the username is taken.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether the email is taken.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create persists the user and its profile variant, assigning their IDs.
	Create(ctx context.Context, user *entity.User) error

	// Update saves the user's identity fields and its profile variant.
	Update(ctx context.Context, user *entity.User) error

	// ListByType returns every user of the given type, oldest first.
	ListByType(ctx context.Context, userType entity.UserType) ([]*entity.User, error)
}
