package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentledger/internal/core"
)

func money(t *testing.T, s string) core.Money {
	t.Helper()
	m, err := core.ParseMoney(s)
	require.NoError(t, err)
	return m
}

func TestEncodeSummaryCSV(t *testing.T) {
	subtotals := []core.CategorySubtotal{
		{Apartment: "Unit 1", Kind: core.Income, Category: "Rent", Subtotal: money(t, "850.00")},
		{Apartment: "Unit 1", Kind: core.Expense, Category: "Water", Subtotal: money(t, "40.50")},
		{Apartment: core.GrandTotalLabel, Subtotal: money(t, "809.50")},
	}

	out := EncodeSummaryCSV(subtotals)

	require.True(t, bytes.HasPrefix(out, utf8BOM), "summary CSV must carry the UTF-8 BOM")
	lines := bytes.Split(bytes.TrimRight(out[len(utf8BOM):], "\n"), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Equal(t, "Apartment,Type,Category,Subtotal", string(lines[0]))
	assert.Equal(t, "Unit 1,Income,Rent,850.00", string(lines[1]))
	assert.Equal(t, "Unit 1,Expense,Water,40.50", string(lines[2]))
	assert.Equal(t, "Grand Total,,,809.50", string(lines[3]))
}

func TestEncodeSummaryCSVEmpty(t *testing.T) {
	out := EncodeSummaryCSV(nil)
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "Apartment,Type,Category,Subtotal\n", string(out[len(utf8BOM):]))
}
