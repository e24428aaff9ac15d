package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// ErrAddressNotFound is returned when an address is not found.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepository stores shipping addresses and keeps at most one default per user.
type AddressRepository interface {
	// FindByID retrieves an address by id, or nil.
	FindByID(ctx context.Context, id int64) (*entity.Address, error)

	// ListByUser retrieves every address owned by the user, in creation order.
	ListByUser(ctx context.Context, userID int64) ([]*entity.Address, error)

	// Create persists the address. When it is marked default, siblings lose the flag.
	// A user's first address always becomes default.
	Create(ctx context.Context, address *entity.Address) error

	// Update applies the patch. When the patch sets the default flag, siblings lose it.
	Update(ctx context.Context, id int64, patch entity.AddressPatch) (*entity.Address, error)

	// Delete removes the address. Deleting the default promotes a remaining address, if any.
	Delete(ctx context.Context, id int64) error
}
