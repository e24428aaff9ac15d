package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/shopspring/decimal"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateSKU is returned when another product already uses the SKU.
	ErrDuplicateSKU = errors.New("sku already exists")
	// ErrVariantNotFound is returned when a product variant is not found.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrDuplicateVariant is returned when the product already has a variant with the same name and value.
	ErrDuplicateVariant = errors.New("variant already exists")
)

// ProductSort orders a product listing.
type ProductSort string

const (
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortNewest    ProductSort = "newest"
)

// ProductFilter narrows a product listing. Nil or empty fields impose no constraint.
type ProductFilter struct {
	CategoryID *int64
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Featured   *bool
}

// ListOptions sorts and paginates a listing. A zero Limit returns everything after Offset.
type ListOptions struct {
	Sort   ProductSort
	Limit  int
	Offset int
}

// CategoryRepository stores product categories.
type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
}

// ProductRepository stores products and serves filtered listings.
type ProductRepository interface {
	// FindByID retrieves a product by id, or nil.
	FindByID(ctx context.Context, id int64) (*entity.Product, error)

	// List filters, sorts and paginates products. The count is taken before pagination.
	List(ctx context.Context, filter ProductFilter, opts ListOptions) ([]*entity.Product, int, error)

	// Create persists the product. The SKU must be unique.
	Create(ctx context.Context, product *entity.Product) error

	// Update applies the patch. A changed SKU must stay unique.
	Update(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error)

	// DecrementStock lowers stock by quantity, flooring at zero.
	DecrementStock(ctx context.Context, id int64, quantity int) (*entity.Product, error)
}

// VariantRepository stores product variants.
type VariantRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.ProductVariant, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductVariant, error)

	// Create persists the variant. (ProductID, Name, Value) must be unique.
	Create(ctx context.Context, variant *entity.ProductVariant) error
}
