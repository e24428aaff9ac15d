package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a pre-checkout collection of selections tied to a user and/or a browser session.
type Cart struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId,omitempty"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartItem is a stored cart row. (CartID, ProductID, VariantID) is unique.
type CartItem struct {
	ID        int64  `json:"id"`
	CartID    int64  `json:"cartId"`
	ProductID int64  `json:"productId"`
	VariantID *int64 `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// SameSelection reports whether the item refers to the given product/variant pair.
func (i *CartItem) SameSelection(productID int64, variantID *int64) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil || variantID == nil {
		return i.VariantID == nil && variantID == nil
	}

	return *i.VariantID == *variantID
}

// CartItemView is a cart row joined with its product and variant at read time.
// Product is nil when the referenced product no longer exists.
type CartItemView struct {
	CartItem
	Product   *Product        `json:"product,omitempty"`
	Variant   *ProductVariant `json:"variant,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}
