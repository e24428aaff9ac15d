package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// CatalogHandler serves categories, products and variants.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler.
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	ParentID    *int64  `json:"parentId" validate:"omitempty,gt=0"`
	Image       *string `json:"image" validate:"omitempty,url"`
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Stock       int             `json:"stock" validate:"gte=0"`
	SKU         string          `json:"sku" validate:"required,max=64"`
	CategoryID  *int64          `json:"categoryId" validate:"omitempty,gt=0"`
	Image       *string         `json:"image" validate:"omitempty,url"`
	Featured    bool            `json:"featured"`
}

// UpdateProductRequest represents the request body for a partial product update
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *decimal.Decimal `json:"discount"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=64"`
	CategoryID  *int64           `json:"categoryId" validate:"omitempty,gt=0"`
	Image       *string          `json:"image" validate:"omitempty,url"`
	Featured    *bool            `json:"featured"`
}

// CreateVariantRequest represents the request body for creating a product variant
type CreateVariantRequest struct {
	Name          string          `json:"name" validate:"required,max=50"`
	Value         string          `json:"value" validate:"required,max=50"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	StockModifier int             `json:"stockModifier"`
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogUC.ListCategories(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid category ID")
	}

	category, err := h.catalogUC.GetCategory(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, category)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	category, err := h.catalogUC.CreateCategory(c.Request().Context(), &usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Image:       req.Image,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, category)
}

// ListProducts handles the filtered, paginated catalog listing.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	query, err := parseProductQuery(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_QUERY", err.Error())
	}

	page, err := h.catalogUC.ListProducts(c.Request().Context(), query)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, page)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	product, err := h.catalogUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	product, err := h.catalogUC.CreateProduct(c.Request().Context(), &usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Stock:       req.Stock,
		SKU:         req.SKU,
		CategoryID:  req.CategoryID,
		Image:       req.Image,
		Featured:    req.Featured,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	var req UpdateProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	product, err := h.catalogUC.UpdateProduct(c.Request().Context(), id, entity.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Stock:       req.Stock,
		SKU:         req.SKU,
		CategoryID:  req.CategoryID,
		Image:       req.Image,
		Featured:    req.Featured,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, product)
}

func (h *CatalogHandler) ListVariants(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	variants, err := h.catalogUC.ListVariants(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, variants)
}

func (h *CatalogHandler) CreateVariant(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	var req CreateVariantRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	variant, err := h.catalogUC.CreateVariant(c.Request().Context(), id, &usecase.CreateVariantInput{
		Name:          req.Name,
		Value:         req.Value,
		PriceModifier: req.PriceModifier,
		StockModifier: req.StockModifier,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, variant)
}

// parseProductQuery reads ?category&search&minPrice&maxPrice&featured&sort&page&limit.
// Empty parameters are ignored.
func parseProductQuery(c echo.Context) (*usecase.ProductQuery, error) {
	query := &usecase.ProductQuery{
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
	}

	err := echo.QueryParamsBinder(c).
		Int("page", &query.Page).
		Int("limit", &query.Limit).
		BindError()
	if err != nil {
		return nil, errors.New("page and limit must be integers")
	}

	if raw := c.QueryParam("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("category must be an integer")
		}
		query.CategoryID = &id
	}
	if query.MinPrice, err = decimalParam(c, "minPrice"); err != nil {
		return nil, err
	}
	if query.MaxPrice, err = decimalParam(c, "maxPrice"); err != nil {
		return nil, err
	}
	if raw := c.QueryParam("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("featured must be a boolean")
		}
		query.Featured = &featured
	}

	return query, nil
}

func decimalParam(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.New(name+" must be a number")
	}

	return &value, nil
}
