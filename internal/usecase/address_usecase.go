package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CreateAddressInput defines the data required to add a shipping address.
type CreateAddressInput struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// AddressUsecase defines the interface for a user's address book.
// Callers may only touch their own addresses.
type AddressUsecase interface {
	ListAddresses(ctx context.Context, userID int64) ([]*entity.Address, error)
	CreateAddress(ctx context.Context, userID int64, input *CreateAddressInput) (*entity.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID int64, patch entity.AddressPatch) (*entity.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID int64) error
}
