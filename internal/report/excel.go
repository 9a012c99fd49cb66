package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"rentledger/internal/core"
)

const transactionsSheet = "Transactions"

var excelHeader = []string{"Date", "Apartment", "Description", "Type", "Category", "Value"}

// EncodeTransactionsXLSX renders the (possibly filtered) transactions as a
// single-sheet workbook. Amounts are written as numbers so spreadsheet sums
// work out of the box.
func EncodeTransactionsXLSX(rows []core.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(transactionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, name := range excelHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(transactionsSheet, cell, name); err != nil {
			return nil, err
		}
	}
	for i, tx := range rows {
		amount, _ := tx.Amount.Float64()
		values := []any{
			tx.Date.String(),
			tx.Apartment,
			tx.Description,
			string(tx.Kind),
			tx.Category,
			amount,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(transactionsSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetColWidth(transactionsSheet, "A", "F", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
