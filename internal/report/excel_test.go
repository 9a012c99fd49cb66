package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rentledger/internal/core"
)

func TestEncodeTransactionsXLSX(t *testing.T) {
	date, err := core.ParseDate("2025-03-10")
	require.NoError(t, err)
	rows := []core.Transaction{
		{Date: date, Apartment: "Unit 3", Description: "March rent", Kind: core.Income, Category: "Rent", Amount: money(t, "850.00")},
		{Date: date, Apartment: core.Common, Description: "Hallway bulbs", Kind: core.Expense, Category: "Maintenance", Amount: money(t, "12.30")},
	}

	out, err := EncodeTransactionsXLSX(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{transactionsSheet}, f.GetSheetList())

	got, err := f.GetRows(transactionsSheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, excelHeader, got[0])
	assert.Equal(t, "2025-03-10", got[1][0])
	assert.Equal(t, "Unit 3", got[1][1])
	assert.Equal(t, "Income", got[1][3])
	assert.Equal(t, "Common", got[2][1])
	assert.Equal(t, "Maintenance", got[2][4])
}

func TestEncodeTransactionsXLSXEmpty(t *testing.T) {
	out, err := EncodeTransactionsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(transactionsSheet)
	require.NoError(t, err)
	require.Len(t, got, 1, "header row only")
}
