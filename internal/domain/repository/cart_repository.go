package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// Domain-specific errors for cart persistence.
var (
	// ErrCartNotFound is returned when a cart is not found.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound is returned when a cart item is not found.
	ErrCartItemNotFound = errors.New("cart item not found")
	// ErrInvalidQuantity is returned when a cart item quantity is below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// CartRepository stores carts.
type CartRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Cart, error)

	// FindByUserID retrieves the cart associated with the user, or nil.
	FindByUserID(ctx context.Context, userID int64) (*entity.Cart, error)

	// FindBySessionID retrieves the cart created for the browser session, or nil.
	FindBySessionID(ctx context.Context, sessionID string) (*entity.Cart, error)

	// Create persists a new cart with both timestamps set to now.
	Create(ctx context.Context, cart *entity.Cart) error

	// AssignUser ties an anonymous cart to a user and bumps UpdatedAt.
	AssignUser(ctx context.Context, id, userID int64) (*entity.Cart, error)
}

// CartItemRepository stores cart rows. Every mutation bumps the owning cart's UpdatedAt.
type CartItemRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.CartItem, error)
	ListByCart(ctx context.Context, cartID int64) ([]*entity.CartItem, error)

	// ListViews joins the cart's rows with their product and variant.
	ListViews(ctx context.Context, cartID int64) ([]entity.CartItemView, error)

	// Add inserts the item, or increases the quantity of the row holding the same
	// (cart, product, variant) selection.
	Add(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error)

	// UpdateQuantity sets the quantity of a row. Quantities below one are rejected.
	UpdateQuantity(ctx context.Context, id int64, quantity int) (*entity.CartItem, error)

	Remove(ctx context.Context, id int64) error

	// Clear removes every row of the cart. The cart itself is kept.
	Clear(ctx context.Context, cartID int64) error
}
