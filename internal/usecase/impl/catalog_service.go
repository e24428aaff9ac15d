package impl

import (
	"context"
	"io"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager    repository.TransactionManager
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	spreadsheet  service.ProductSpreadsheet
	pageSize     int
	maxPageSize  int
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	VariantRepo  repository.VariantRepository
	Spreadsheet  service.ProductSpreadsheet
	Config       *config.Config
	Logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	pageSize, maxSize := defaultPageSize, maxPageSize
	if params.Config != nil && params.Config.Catalog != nil {
		if params.Config.Catalog.DefaultPageSize > 0 {
			pageSize = params.Config.Catalog.DefaultPageSize
		}
		if params.Config.Catalog.MaxPageSize > 0 {
			maxSize = params.Config.Catalog.MaxPageSize
		}
	}

	return &catalogService{
		txManager:    params.TxManager,
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		variantRepo:  params.VariantRepo,
		spreadsheet:  params.Spreadsheet,
		pageSize:     pageSize,
		maxPageSize:  maxSize,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx)

	return categories, translate(err, "failed to list categories")
}

func (srv *catalogService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err := exists(category, err, repository.ErrCategoryNotFound); err != nil {
		return nil, translate(err, "failed to get category")
	}

	return category, nil
}

// CreateCategory stores a category. ParentID is not checked, cycles included.
func (srv *catalogService) CreateCategory(ctx context.Context, input *usecase.CreateCategoryInput) (*entity.Category, error) {
	category := &entity.Category{
		Name:        input.Name,
		Description: input.Description,
		ParentID:    input.ParentID,
		Image:       input.Image,
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, translate(err, "failed to create category")
	}

	srv.log(ctx).Info("Category created", slog.Int64("categoryID", category.ID), slog.String("name", category.Name))

	return category, nil
}

// ListProducts filters, sorts and paginates the catalog.
func (srv *catalogService) ListProducts(ctx context.Context, query *usecase.ProductQuery) (*usecase.ProductPage, error) {
	page := max(query.Page, 1)
	limit := query.Limit
	if limit <= 0 {
		limit = srv.pageSize
	}
	limit = min(limit, srv.maxPageSize)

	filter := repository.ProductFilter{
		CategoryID: query.CategoryID,
		Search:     query.Search,
		MinPrice:   query.MinPrice,
		MaxPrice:   query.MaxPrice,
		Featured:   query.Featured,
	}
	opts := repository.ListOptions{
		Sort:   repository.ProductSort(query.Sort),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	products, total, err := srv.productRepo.List(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, "failed to list products")
	}

	return &usecase.ProductPage{
		Products: products,
		Pagination: usecase.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: util.PageCount(total, limit),
		},
	}, nil
}

// GetProduct returns a product with its variants.
func (srv *catalogService) GetProduct(ctx context.Context, id int64) (*entity.ProductDetail, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err := exists(product, err, repository.ErrProductNotFound); err != nil {
		return nil, translate(err, "failed to get product")
	}

	variants, err := srv.variantRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to list variants")
	}

	detail := &entity.ProductDetail{Product: *product, Variants: make([]entity.ProductVariant, 0, len(variants))}
	for _, v := range variants {
		detail.Variants = append(detail.Variants, *v)
	}

	return detail, nil
}

func (srv *catalogService) CreateProduct(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	if err := validateAmounts(input.Price, input.Discount, input.Stock); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Discount:    input.Discount,
		Stock:       input.Stock,
		SKU:         input.SKU,
		CategoryID:  input.CategoryID,
		Image:       input.Image,
		Featured:    input.Featured,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if product.CategoryID != nil {
			category, err := repoFactory.NewCategoryRepository().FindByID(ctx, *product.CategoryID)
			if err := exists(category, err, repository.ErrCategoryNotFound); err != nil {
				return translate(err, "failed to find category")
			}
		}

		return translate(repoFactory.NewProductRepository().Create(ctx, product), "failed to create product")
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Product created", slog.Int64("productID", product.ID), slog.String("sku", product.SKU))

	return product, nil
}

func (srv *catalogService) UpdateProduct(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	if err := validatePatchAmounts(patch); err != nil {
		return nil, err
	}

	var updated *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if patch.CategoryID != nil {
			category, err := repoFactory.NewCategoryRepository().FindByID(ctx, *patch.CategoryID)
			if err := exists(category, err, repository.ErrCategoryNotFound); err != nil {
				return translate(err, "failed to find category")
			}
		}

		product, err := repoFactory.NewProductRepository().Update(ctx, id, patch)
		if err != nil {
			return translate(err, "failed to update product")
		}
		updated = product

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (srv *catalogService) ListVariants(ctx context.Context, productID int64) ([]*entity.ProductVariant, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err := exists(product, err, repository.ErrProductNotFound); err != nil {
		return nil, translate(err, "failed to get product")
	}

	variants, err := srv.variantRepo.ListByProduct(ctx, productID)

	return variants, translate(err, "failed to list variants")
}

// CreateVariant adds a variant; (name, value) must be new for the product.
func (srv *catalogService) CreateVariant(ctx context.Context, productID int64, input *usecase.CreateVariantInput) (*entity.ProductVariant, error) {
	variant := &entity.ProductVariant{
		ProductID:     productID,
		Name:          input.Name,
		Value:         input.Value,
		PriceModifier: input.PriceModifier,
		StockModifier: input.StockModifier,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		product, err := repoFactory.NewProductRepository().FindByID(ctx, productID)
		if err := exists(product, err, repository.ErrProductNotFound); err != nil {
			return translate(err, "failed to find product")
		}

		return translate(repoFactory.NewVariantRepository().Create(ctx, variant), "failed to create variant")
	})
	if err != nil {
		return nil, err
	}

	return variant, nil
}

// ExportProducts writes every product, in id order, as a spreadsheet.
func (srv *catalogService) ExportProducts(ctx context.Context, w io.Writer) (string, error) {
	products, _, err := srv.productRepo.List(ctx, repository.ProductFilter{}, repository.ListOptions{})
	if err != nil {
		return "", translate(err, "failed to list products")
	}

	if err := srv.spreadsheet.WriteProducts(w, products); err != nil {
		return "", errors.Wrap(err, "failed to export products")
	}

	srv.log(ctx).Info("Products exported", slog.Int("count", len(products)))

	return srv.spreadsheet.ContentType(), nil
}

// ImportProducts applies a spreadsheet to the catalog. Rows naming an existing product
// update it, other rows create a product. Rows that fail are skipped, not fatal.
func (srv *catalogService) ImportProducts(ctx context.Context, r io.ReaderAt, size int64) (*usecase.ImportResult, error) {
	rows, skipped, err := srv.spreadsheet.ReadProducts(r, size)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	result := &usecase.ImportResult{Skipped: skipped}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		categoryRepo := repoFactory.NewCategoryRepository()

		for _, row := range rows {
			product := row.Product
			if product.CategoryID != nil {
				if category, err := categoryRepo.FindByID(ctx, *product.CategoryID); err != nil || category == nil {
					product.CategoryID = nil
				}
			}

			if row.ID != nil {
				_, err := productRepo.Update(ctx, *row.ID, patchFromProduct(&product))
				if err == nil {
					result.Updated++

					continue
				}
				if !errors.Is(err, repository.ErrProductNotFound) {
					srv.log(ctx).Warn("Import row skipped", slog.Int("line", row.Line), slog.Any("error", err))
					result.Skipped++

					continue
				}
			}

			if err := productRepo.Create(ctx, &product); err != nil {
				srv.log(ctx).Warn("Import row skipped", slog.Int("line", row.Line), slog.Any("error", err))
				result.Skipped++

				continue
			}
			result.Created++
		}

		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to import products")
	}

	srv.log(ctx).Info("Products imported",
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped),
	)

	return result, nil
}

func patchFromProduct(p *entity.Product) entity.ProductPatch {
	return entity.ProductPatch{
		Name:        &p.Name,
		Description: p.Description,
		Price:       &p.Price,
		Discount:    &p.Discount,
		Stock:       &p.Stock,
		SKU:         &p.SKU,
		CategoryID:  p.CategoryID,
		Image:       p.Image,
		Featured:    &p.Featured,
	}
}

func validateAmounts(price, discount decimal.Decimal, stock int) error {
	switch {
	case price.IsNegative():
		return errors.Wrap(domainerrors.ErrValidationFailed, "price must not be negative")
	case discount.IsNegative():
		return errors.Wrap(domainerrors.ErrValidationFailed, "discount must not be negative")
	case stock < 0:
		return errors.Wrap(domainerrors.ErrValidationFailed, "stock must not be negative")
	}

	return nil
}

func validatePatchAmounts(patch entity.ProductPatch) error {
	return validateAmounts(
		util.Deref(patch.Price),
		util.Deref(patch.Discount),
		util.Deref(patch.Stock),
	)
}
