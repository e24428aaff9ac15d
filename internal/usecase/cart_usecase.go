package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/pricing"
)

// CartIdentity identifies the shopper: an optional signed-in user and the browser session.
type CartIdentity struct {
	UserID    *int64
	SessionID string
}

// AddCartItemInput defines the selection to put in the cart.
type AddCartItemInput struct {
	ProductID int64
	VariantID *int64
	Quantity  int
}

// CartView is a resolved cart with priced item views.
type CartView struct {
	Cart    *entity.Cart           `json:"cart"`
	Items   []entity.CartItemView  `json:"items"`
	Summary pricing.Summary        `json:"summary"`
	Display pricing.DisplaySummary `json:"display"`
}

// CartUsecase defines the interface for cart operations.
// Every call resolves the shopper's cart first, creating it when needed.
type CartUsecase interface {
	GetCart(ctx context.Context, identity CartIdentity) (*CartView, error)
	AddItem(ctx context.Context, identity CartIdentity, input *AddCartItemInput) (*CartView, error)
	UpdateItemQuantity(ctx context.Context, identity CartIdentity, itemID int64, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, identity CartIdentity, itemID int64) (*CartView, error)
}
