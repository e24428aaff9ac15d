package impl

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// ResolveCart returns the one cart for a (user, session) pair, creating it when none exists.
//
// A signed-in user's own cart always wins. Otherwise the session's cart is used, and an
// anonymous session cart is adopted by the user on first sight, keeping its items.
// When the user already owns a cart, a separate anonymous session cart is left as is.
// A session cart owned by a different user is never handed over; the user gets a new cart.
func ResolveCart(ctx context.Context, carts repository.CartRepository, userID *int64, sessionID string) (*entity.Cart, error) {
	if userID == nil && sessionID == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "a cart needs a user or a session")
	}

	if userID != nil {
		cart, err := carts.FindByUserID(ctx, *userID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to find user cart")
		}
		if cart != nil {
			return cart, nil
		}
	}

	if sessionID != "" {
		cart, err := carts.FindBySessionID(ctx, sessionID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to find session cart")
		}
		if cart != nil {
			switch {
			case userID == nil:
				return cart, nil
			case cart.UserID == nil:
				return carts.AssignUser(ctx, cart.ID, *userID)
			case *cart.UserID == *userID:
				return cart, nil
			}
		}
	}

	cart := &entity.Cart{UserID: userID, SessionID: sessionID}
	if err := carts.Create(ctx, cart); err != nil {
		return nil, errors.Wrap(err, "failed to create cart")
	}

	return cart, nil
}
