package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"storefront/internal/delivery/api/response"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/errors"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const exportFilename = "products.xlsx"

// AdminHandlerParams holds dependencies for AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// AdminHandler serves bulk catalog maintenance for administrators.
type AdminHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler.
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// ExportProducts downloads the whole catalog as a spreadsheet.
func (h *AdminHandler) ExportProducts(c echo.Context) error {
	var buf bytes.Buffer
	contentType, err := h.catalogUC.ExportProducts(c.Request().Context(), &buf)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportFilename+`"`)

	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

// ImportProducts applies an uploaded spreadsheet, sent as the "file" form field.
func (h *AdminHandler) ImportProducts(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "MISSING_FILE", "A spreadsheet must be uploaded in the 'file' field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()

	ctx := c.Request().Context()
	result, err := h.catalogUC.ImportProducts(ctx, file, fileHeader.Size)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("Catalog spreadsheet imported",
		slog.String("filename", fileHeader.Filename),
		slog.String("size", util.FormatBytes(fileHeader.Size)),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped),
	)

	return response.Success(c, http.StatusOK, result)
}
