package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item.
// Discount is an absolute amount subtracted from Price.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Stock       int             `json:"stock"`
	SKU         string          `json:"sku"`
	CategoryID  *int64          `json:"categoryId,omitempty"`
	Image       *string         `json:"image,omitempty"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProductPatch holds the optional fields of a product update.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Discount    *decimal.Decimal
	Stock       *int
	SKU         *string
	CategoryID  *int64
	Image       *string
	Featured    *bool
}

// Apply copies every non-nil field of the patch onto the product.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Discount != nil {
		product.Discount = *p.Discount
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.SKU != nil {
		product.SKU = *p.SKU
	}
	if p.CategoryID != nil {
		product.CategoryID = p.CategoryID
	}
	if p.Image != nil {
		product.Image = p.Image
	}
	if p.Featured != nil {
		product.Featured = *p.Featured
	}
}

// ProductVariant is a named option of a product, e.g. Color/Red.
// (Name, Value) is unique per product.
type ProductVariant struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"productId"`
	Name          string          `json:"name"`
	Value         string          `json:"value"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	StockModifier int             `json:"stockModifier"`
}

// ProductDetail is a product together with its variants.
type ProductDetail struct {
	Product
	Variants []ProductVariant `json:"variants"`
}
