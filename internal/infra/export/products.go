// Package export reads and writes the product catalog as xlsx workbooks.
package export

import (
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

// SheetName is the worksheet holding the product rows.
const SheetName = "Products"

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	colID = iota
	colName
	colDescription
	colPrice
	colDiscount
	colStock
	colSKU
	colCategoryID
	colImage
	colFeatured
	columnCount
)

// Header lists the column titles in workbook order.
func Header() []string {
	return []string{"ID", "Name", "Description", "Price", "Discount", "Stock", "SKU", "CategoryID", "Image", "Featured"}
}

type xlsxSpreadsheet struct{}

// New returns the xlsx implementation of the product spreadsheet service.
func New() service.ProductSpreadsheet {
	return xlsxSpreadsheet{}
}

func (xlsxSpreadsheet) ContentType() string {
	return ContentType
}

func (xlsxSpreadsheet) WriteProducts(w io.Writer, products []*entity.Product) error {
	return WriteProducts(w, products)
}

func (xlsxSpreadsheet) ReadProducts(r io.ReaderAt, size int64) ([]service.ProductSheetRow, int, error) {
	return ReadProducts(r, size)
}

// WriteProducts renders the products as a single-sheet workbook.
func WriteProducts(w io.Writer, products []*entity.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return errors.Wrap(err, "failed to create sheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range Header() {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(deref(p.Description))
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.Discount.StringFixed(2))
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.SKU)
		if p.CategoryID != nil {
			row.AddCell().SetValue(*p.CategoryID)
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(deref(p.Image))
		row.AddCell().SetValue(strconv.FormatBool(p.Featured))
	}

	return errors.Wrap(file.Write(w), "failed to write workbook")
}

// ReadProducts parses the first sheet of a workbook. The first row is the header.
// Rows without a name, sku or valid price are counted as skipped.
func ReadProducts(r io.ReaderAt, size int64) ([]service.ProductSheetRow, int, error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to parse workbook")
	}

	if len(file.Sheets) == 0 || file.Sheets[0].MaxRow < 2 {
		return nil, 0, errors.New("workbook is empty or missing header row")
	}

	sheet := file.Sheets[0]
	rows := make([]service.ProductSheetRow, 0, sheet.MaxRow-1)
	skipped := 0

	for i := 1; i < sheet.MaxRow && i < len(sheet.Rows); i++ {
		row, ok := parseRow(sheet.Rows[i])
		if !ok {
			skipped++

			continue
		}
		row.Line = i + 1
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

func parseRow(row *xlsx.Row) (service.ProductSheetRow, bool) {
	if row == nil || len(row.Cells) < colSKU+1 {
		return service.ProductSheetRow{}, false
	}

	get := func(index int) string {
		if index < len(row.Cells) && index < columnCount {
			return strings.TrimSpace(row.Cells[index].String())
		}

		return ""
	}

	name, sku := get(colName), get(colSKU)
	price, err := decimal.NewFromString(get(colPrice))
	if name == "" || sku == "" || err != nil || price.IsNegative() {
		return service.ProductSheetRow{}, false
	}

	discount := decimal.Zero
	if raw := get(colDiscount); raw != "" {
		if discount, err = decimal.NewFromString(raw); err != nil || discount.IsNegative() {
			return service.ProductSheetRow{}, false
		}
	}

	stock := 0
	if raw := get(colStock); raw != "" {
		if stock, err = strconv.Atoi(raw); err != nil || stock < 0 {
			return service.ProductSheetRow{}, false
		}
	}

	parsed := service.ProductSheetRow{
		Product: entity.Product{
			Name:        name,
			Description: optional(get(colDescription)),
			Price:       price,
			Discount:    discount,
			Stock:       stock,
			SKU:         sku,
			CategoryID:  optionalID(get(colCategoryID)),
			Image:       optional(get(colImage)),
		},
	}
	parsed.Product.Featured, _ = strconv.ParseBool(get(colFeatured))
	parsed.ID = optionalID(get(colID))

	return parsed, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func optionalID(s string) *int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}

	return &id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
