// Package report renders the ledger into downloadable documents: CSV
// summaries, Excel workbooks and the printable PDF report.
package report

import (
	"bytes"
	"encoding/csv"

	"rentledger/internal/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodeSummaryCSV renders the category subtotals, Grand Total row included,
// as BOM-prefixed CSV for spreadsheet import.
func EncodeSummaryCSV(subtotals []core.CategorySubtotal) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Apartment", "Type", "Category", "Subtotal"})
	for _, s := range subtotals {
		_ = w.Write([]string{s.Apartment, string(s.Kind), s.Category, s.Subtotal.Fixed2()})
	}
	w.Flush()
	return buf.Bytes()
}
