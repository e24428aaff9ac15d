package pricing

import (
	"testing"

	"storefront/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Sub(dec(want)).Abs().LessThan(dec("0.01")), "want %s, got %s", want, got)
}

func TestUnitPrice(t *testing.T) {
	product := &entity.Product{Price: dec("100"), Discount: dec("20")}

	tests := []struct {
		name    string
		variant *entity.ProductVariant
		want    string
	}{
		{"No variant", nil, "80"},
		{"Positive modifier", &entity.ProductVariant{PriceModifier: dec("5")}, "85"},
		{"Negative modifier", &entity.ProductVariant{PriceModifier: dec("-10.50")}, "69.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.want, UnitPrice(product, tt.variant))
		})
	}
}

func TestUnitPrice_DiscountAbovePriceIsNotClamped(t *testing.T) {
	product := &entity.Product{Price: dec("10"), Discount: dec("15")}

	assertMoney(t, "-5", UnitPrice(product, nil))
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     string
	}{
		{"Single unit", 1, "12.50"},
		{"Several units", 4, "50"},
		{"Zero quantity", 0, "0"},
		{"Negative quantity", -3, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMoney(t, tt.want, LineTotal(dec("12.50"), tt.quantity))
		})
	}
}

func TestSummarize_DiscountVariantAndFreeShipping(t *testing.T) {
	product := &entity.Product{ID: 1, Price: dec("100"), Discount: dec("20")}
	variant := &entity.ProductVariant{ID: 1, ProductID: 1, PriceModifier: dec("5")}
	views := []entity.CartItemView{
		{CartItem: entity.CartItem{ProductID: 1, Quantity: 3}, Product: product, Variant: variant},
	}

	summary := DefaultRules().Summarize(views)

	assertMoney(t, "255", views[0].LineTotal)
	assertMoney(t, "85", views[0].UnitPrice)
	assertMoney(t, "255", summary.Subtotal)
	assertMoney(t, "15.30", summary.Taxes)
	assertMoney(t, "0", summary.Shipping)
	assertMoney(t, "270.30", summary.GrandTotal)
	assert.Equal(t, 3, summary.ItemCount)
}

func TestForSubtotal_ShippingThreshold(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		shipping string
	}{
		{"Below threshold", "50", "9.99"},
		{"Exactly threshold", "100", "9.99"},
		{"Just above threshold", "100.01", "0"},
		{"Empty cart", "0", "9.99"},
	}

	rules := DefaultRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := rules.ForSubtotal(dec(tt.subtotal))
			assertMoney(t, tt.shipping, summary.Shipping)
			assertMoney(t, tt.subtotal, summary.Subtotal)
		})
	}
}

func TestForSubtotal_GrandTotal(t *testing.T) {
	summary := DefaultRules().ForSubtotal(dec("50"))

	assertMoney(t, "3", summary.Taxes)
	assertMoney(t, "62.99", summary.GrandTotal)
}

func TestSummarize_MissingProductContributesNothing(t *testing.T) {
	views := []entity.CartItemView{
		{CartItem: entity.CartItem{ProductID: 9, Quantity: 2}},
		{CartItem: entity.CartItem{ProductID: 1, Quantity: 1}, Product: &entity.Product{Price: dec("40")}},
	}

	summary := DefaultRules().Summarize(views)

	assertMoney(t, "40", summary.Subtotal)
	assert.True(t, views[0].LineTotal.IsZero())
}

func TestFormatter_Display(t *testing.T) {
	f := NewFormatter("$", 2)

	display := f.Display(DefaultRules().ForSubtotal(dec("1234.5")))

	assert.Equal(t, "$1,234.50", display.Subtotal)
	assert.Equal(t, "$74.07", display.Taxes)
	assert.Equal(t, "$0.00", display.Shipping)
	assert.Equal(t, "$1,308.57", display.GrandTotal)
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules("0.06", "100", "9.99")
	assert.NoError(t, err)
	assert.True(t, rules.TaxRate.Equal(DefaultRules().TaxRate))
	assert.True(t, rules.FlatShipping.Equal(DefaultRules().FlatShipping))

	tests := []struct {
		name                      string
		tax, threshold, flatPrice string
	}{
		{"bad tax", "six", "100", "9.99"},
		{"bad threshold", "0.06", "", "9.99"},
		{"bad shipping", "0.06", "100", "x"},
		{"negative", "-0.06", "100", "9.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules(tt.tax, tt.threshold, tt.flatPrice)
			assert.Error(t, err)
		})
	}
}
