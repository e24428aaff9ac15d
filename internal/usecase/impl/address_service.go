package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"
)

// addressService implements the AddressUsecase interface.
type addressService struct {
	txManager   repository.TransactionManager
	addressRepo repository.AddressRepository
	logger      *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(
	txManager repository.TransactionManager,
	addressRepo repository.AddressRepository,
	logger *slog.Logger,
) usecase.AddressUsecase {
	return &addressService{
		txManager:   txManager,
		addressRepo: addressRepo,
		logger:      logger,
	}
}

func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *addressService) ListAddresses(ctx context.Context, userID int64) ([]*entity.Address, error) {
	addresses, err := srv.addressRepo.ListByUser(ctx, userID)

	return addresses, translate(err, "failed to list addresses")
}

// CreateAddress adds an address. The user's first address always becomes the default.
func (srv *addressService) CreateAddress(ctx context.Context, userID int64, input *usecase.CreateAddressInput) (*entity.Address, error) {
	address := &entity.Address{
		UserID:     userID,
		Street:     input.Street,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		IsDefault:  input.IsDefault,
	}
	if err := srv.addressRepo.Create(ctx, address); err != nil {
		return nil, translate(err, "failed to create address")
	}

	srv.log(ctx).Info("Address created", slog.Int64("userID", userID), slog.Int64("addressID", address.ID))

	return address, nil
}

func (srv *addressService) UpdateAddress(ctx context.Context, userID, addressID int64, patch entity.AddressPatch) (*entity.Address, error) {
	var updated *entity.Address

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()
		if err := srv.checkOwnership(ctx, addressRepo, userID, addressID); err != nil {
			return err
		}

		address, err := addressRepo.Update(ctx, addressID, patch)
		if err != nil {
			return translate(err, "failed to update address")
		}
		updated = address

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteAddress removes an address. Deleting the default promotes another one.
func (srv *addressService) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewAddressRepository()
		if err := srv.checkOwnership(ctx, addressRepo, userID, addressID); err != nil {
			return err
		}

		return translate(addressRepo.Delete(ctx, addressID), "failed to delete address")
	})
}

func (srv *addressService) checkOwnership(ctx context.Context, addressRepo repository.AddressRepository, userID, addressID int64) error {
	address, err := addressRepo.FindByID(ctx, addressID)
	if err := exists(address, err, repository.ErrAddressNotFound); err != nil {
		return translate(err, "failed to find address")
	}
	if address.UserID != userID {
		srv.log(ctx).Warn("Address ownership violation", slog.Int64("userID", userID), slog.Int64("addressID", addressID))

		return errors.WithStack(domainerrors.ErrAddressOwnershipViolation)
	}

	return nil
}
