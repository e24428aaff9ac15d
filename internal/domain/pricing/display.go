package pricing

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Formatter renders money amounts for display.
type Formatter struct {
	ac *accounting.Accounting
}

// NewFormatter builds a formatter for the given currency symbol and precision.
func NewFormatter(symbol string, precision int) *Formatter {
	return &Formatter{
		ac: &accounting.Accounting{Symbol: symbol, Precision: precision, Thousand: ",", Decimal: "."},
	}
}

// Format renders a single amount, e.g. "$1,234.50".
func (f *Formatter) Format(amount decimal.Decimal) string {
	return f.ac.FormatMoneyDecimal(amount)
}

// DisplaySummary is the formatted counterpart of Summary.
type DisplaySummary struct {
	Subtotal   string `json:"subtotal"`
	Taxes      string `json:"taxes"`
	Shipping   string `json:"shipping"`
	GrandTotal string `json:"grandTotal"`
}

// Display formats every amount of a summary.
func (f *Formatter) Display(s Summary) DisplaySummary {
	return DisplaySummary{
		Subtotal:   f.Format(s.Subtotal),
		Taxes:      f.Format(s.Taxes),
		Shipping:   f.Format(s.Shipping),
		GrandTotal: f.Format(s.GrandTotal),
	}
}
