// Package impl contains the implementation of the application's business logic.
package impl

import (
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// repositoryErrors maps repository sentinels onto the errors shown to clients.
var repositoryErrors = []struct {
	sentinel error
	appErr   domainerrors.AppError
}{
	{repository.ErrUserNotFound, domainerrors.ErrUserNotFound},
	{repository.ErrDuplicateUsername, domainerrors.ErrUsernameTaken},
	{repository.ErrDuplicateEmail, domainerrors.ErrEmailTaken},
	{repository.ErrAddressNotFound, domainerrors.ErrAddressNotFound},
	{repository.ErrCategoryNotFound, domainerrors.ErrCategoryNotFound},
	{repository.ErrProductNotFound, domainerrors.ErrProductNotFound},
	{repository.ErrDuplicateSKU, domainerrors.ErrSKUConflict},
	{repository.ErrVariantNotFound, domainerrors.ErrInvalidVariant},
	{repository.ErrDuplicateVariant, domainerrors.ErrVariantConflict},
	{repository.ErrCartNotFound, domainerrors.ErrCartNotFound},
	{repository.ErrCartItemNotFound, domainerrors.ErrCartItemNotFound},
	{repository.ErrInvalidQuantity, domainerrors.ErrInvalidQuantity},
	{repository.ErrOrderNotFound, domainerrors.ErrOrderNotFound},
	{repository.ErrDuplicateReview, domainerrors.ErrReviewAlreadyExists},
}

// exists reports a repository read that matched nothing as missing.
func exists[T any](row *T, err error, missing error) error {
	if err == nil && row == nil {
		return missing
	}

	return err
}

// translate wraps err with msg, replacing repository sentinels with their AppError.
// Errors that are neither become a storage failure.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return errors.Wrap(err, msg)
	}

	for _, m := range repositoryErrors {
		if errors.Is(err, m.sentinel) {
			return errors.Wrap(m.appErr, msg)
		}
	}

	return domainerrors.NewStoreExecuteError(err, msg)
}
