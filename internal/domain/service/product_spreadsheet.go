package service

import (
	"io"

	"storefront/internal/domain/entity"
)

// ProductSheetRow is one parsed catalog row. ID is set when the row names an existing product.
type ProductSheetRow struct {
	Line    int
	ID      *int64
	Product entity.Product
}

// ProductSpreadsheet converts the catalog to and from a spreadsheet workbook.
type ProductSpreadsheet interface {
	// ContentType is the MIME type of the written workbook
	ContentType() string

	// WriteProducts renders products as a workbook
	WriteProducts(w io.Writer, products []*entity.Product) error

	// ReadProducts parses a workbook, returning the valid rows and the number of skipped rows
	ReadProducts(r io.ReaderAt, size int64) ([]ProductSheetRow, int, error)
}
