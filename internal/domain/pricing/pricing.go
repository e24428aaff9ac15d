// Package pricing derives unit prices, line totals and cart summaries.
// Every function here is pure; money is carried as decimal.Decimal.
package pricing

import (
	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/shopspring/decimal"
)

// Rules holds the store-wide tax and shipping parameters.
type Rules struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShipping          decimal.Decimal
}

// DefaultRules is a flat 6% tax with 9.99 shipping, free strictly above 100.
func DefaultRules() Rules {
	return Rules{
		TaxRate:               decimal.RequireFromString("0.06"),
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShipping:          decimal.RequireFromString("9.99"),
	}
}

// ParseRules builds rules from decimal strings as found in configuration.
func ParseRules(taxRate, freeShippingThreshold, flatShipping string) (Rules, error) {
	rate, err := decimal.NewFromString(taxRate)
	if err != nil {
		return Rules{}, errors.Wrapf(err, "invalid tax rate %q", taxRate)
	}
	threshold, err := decimal.NewFromString(freeShippingThreshold)
	if err != nil {
		return Rules{}, errors.Wrapf(err, "invalid free shipping threshold %q", freeShippingThreshold)
	}
	flat, err := decimal.NewFromString(flatShipping)
	if err != nil {
		return Rules{}, errors.Wrapf(err, "invalid flat shipping %q", flatShipping)
	}
	if rate.IsNegative() || threshold.IsNegative() || flat.IsNegative() {
		return Rules{}, errors.New("pricing rules must not be negative")
	}

	return Rules{TaxRate: rate, FreeShippingThreshold: threshold, FlatShipping: flat}, nil
}

// Summary is the aggregate price of a set of lines.
type Summary struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Taxes      decimal.Decimal `json:"taxes"`
	Shipping   decimal.Decimal `json:"shipping"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	ItemCount  int             `json:"itemCount"`
}

// UnitPrice is price minus discount plus the variant modifier.
// The result is not clamped and may be negative when discount exceeds price.
func UnitPrice(product *entity.Product, variant *entity.ProductVariant) decimal.Decimal {
	unit := product.Price.Sub(product.Discount)
	if variant != nil {
		unit = unit.Add(variant.PriceModifier)
	}

	return unit
}

// LineTotal multiplies a unit price by a quantity. Quantities below one price at zero.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	if quantity < 1 {
		return decimal.Zero
	}

	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// Price fills UnitPrice and LineTotal of a cart item view from its joined product and variant.
// Views whose product is gone are left at zero.
func Price(view *entity.CartItemView) {
	if view.Product == nil {
		view.UnitPrice = decimal.Zero
		view.LineTotal = decimal.Zero

		return
	}

	view.UnitPrice = UnitPrice(view.Product, view.Variant)
	view.LineTotal = LineTotal(view.UnitPrice, view.Quantity)
}

// Summarize prices every view and aggregates the cart.
func (r Rules) Summarize(views []entity.CartItemView) Summary {
	subtotal := decimal.Zero
	count := 0
	for i := range views {
		Price(&views[i])
		subtotal = subtotal.Add(views[i].LineTotal)
		count += views[i].Quantity
	}

	summary := r.ForSubtotal(subtotal)
	summary.ItemCount = count

	return summary
}

// ForSubtotal applies tax and shipping to a subtotal.
func (r Rules) ForSubtotal(subtotal decimal.Decimal) Summary {
	taxes := subtotal.Mul(r.TaxRate).Round(2)
	shipping := r.FlatShipping
	if subtotal.GreaterThan(r.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Summary{
		Subtotal:   subtotal,
		Taxes:      taxes,
		Shipping:   shipping,
		GrandTotal: subtotal.Add(taxes).Add(shipping),
	}
}
