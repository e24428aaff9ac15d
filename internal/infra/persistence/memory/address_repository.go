package memory

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type addressRepository struct {
	acc access
}

// NewAddressRepository is the constructor for the address repository.
func NewAddressRepository(store *Store) repository.AddressRepository {
	return &addressRepository{access{store: store}}
}

func (r *addressRepository) FindByID(ctx context.Context, id int64) (*entity.Address, error) {
	defer r.acc.rlock()()

	return rowByID(r.acc.db().addresses, id), nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID int64) ([]*entity.Address, error) {
	defer r.acc.rlock()()

	return sortedByID(r.acc.db().addresses, func(a *entity.Address) bool {
		return a.UserID == userID
	}), nil
}

func (r *addressRepository) Create(ctx context.Context, address *entity.Address) error {
	defer r.acc.lock()()

	if !r.hasAny(address.UserID) {
		address.IsDefault = true
	}

	address.ID = r.acc.store.nextID(TableAddresses)
	r.acc.db().addresses[address.ID] = *address

	if address.IsDefault {
		r.clearDefaultExcept(address.UserID, address.ID)
	}

	return nil
}

func (r *addressRepository) Update(ctx context.Context, id int64, patch entity.AddressPatch) (*entity.Address, error) {
	defer r.acc.lock()()

	address, ok := r.acc.db().addresses[id]
	if !ok {
		return nil, repository.ErrAddressNotFound
	}

	patch.Apply(&address)
	r.acc.db().addresses[id] = address

	if patch.IsDefault != nil && *patch.IsDefault {
		r.clearDefaultExcept(address.UserID, id)
	}

	return &address, nil
}

func (r *addressRepository) Delete(ctx context.Context, id int64) error {
	defer r.acc.lock()()

	address, ok := r.acc.db().addresses[id]
	if !ok {
		return repository.ErrAddressNotFound
	}

	delete(r.acc.db().addresses, id)

	if !address.IsDefault {
		return nil
	}

	// Promote the oldest remaining address of the same user.
	remaining := sortedByID(r.acc.db().addresses, func(a *entity.Address) bool {
		return a.UserID == address.UserID
	})
	if len(remaining) > 0 {
		promoted := *remaining[0]
		promoted.IsDefault = true
		r.acc.db().addresses[promoted.ID] = promoted
	}

	return nil
}

func (r *addressRepository) hasAny(userID int64) bool {
	for _, a := range r.acc.db().addresses {
		if a.UserID == userID {
			return true
		}
	}

	return false
}

func (r *addressRepository) clearDefaultExcept(userID, keepID int64) {
	for id, a := range r.acc.db().addresses {
		if a.UserID == userID && id != keepID && a.IsDefault {
			a.IsDefault = false
			r.acc.db().addresses[id] = a
		}
	}
}
