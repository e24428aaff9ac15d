// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
//
// Find methods report a missing row as a nil entity with a nil error and leave the
// not-found decision to the caller. Updates and deletes of a missing row fail with
// the table's NotFound error.
package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound signals a required user that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when the username is already taken, ignoring case.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail is returned when the email is already registered, ignoring case.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the standard operations for user persistence.
type UserRepository interface {
	// FindByID retrieves a single user by id, or nil.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByUsername retrieves a user by username, case-insensitively.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail retrieves a user by email, case-insensitively.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create assigns an id and persists the user.
	Create(ctx context.Context, user *entity.User) error
}
