package usecase

import (
	"context"
	"io"

	"storefront/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// CreateCategoryInput defines the data required to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	ParentID    *int64
	Image       *string
}

// ProductQuery carries listing filters and paging. Page starts at 1.
type ProductQuery struct {
	CategoryID *int64
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Featured   *bool
	Sort       string
	Page       int
	Limit      int
}

// CreateProductInput defines the data required to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Stock       int
	SKU         string
	CategoryID  *int64
	Image       *string
	Featured    bool
}

// CreateVariantInput defines the data required to add a variant to a product.
type CreateVariantInput struct {
	Name          string
	Value         string
	PriceModifier decimal.Decimal
	StockModifier int
}

// --- Output DTOs ---

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ProductPage is one page of products.
type ProductPage struct {
	Products   []*entity.Product `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

// ImportResult summarises a spreadsheet import.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// CatalogUsecase defines the interface for browsing and managing the catalog.
type CatalogUsecase interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategory(ctx context.Context, id int64) (*entity.Category, error)
	CreateCategory(ctx context.Context, input *CreateCategoryInput) (*entity.Category, error)

	ListProducts(ctx context.Context, query *ProductQuery) (*ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*entity.ProductDetail, error)
	CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error)

	ListVariants(ctx context.Context, productID int64) ([]*entity.ProductVariant, error)
	CreateVariant(ctx context.Context, productID int64, input *CreateVariantInput) (*entity.ProductVariant, error)

	// ExportProducts writes the whole catalog as a spreadsheet and returns its content type
	ExportProducts(ctx context.Context, w io.Writer) (string, error)
	ImportProducts(ctx context.Context, r io.ReaderAt, size int64) (*ImportResult, error)
}
