// Package ledger moves the two tables between their in-memory form and the
// remote blob store: CSV encoding on the way out, tolerant parsing on the
// way in, whole-file round-trips with retry and conflict detection.
package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"rentledger/internal/core"
)

// utf8BOM prefixes every CSV we write so spreadsheet tools that default to
// legacy encodings pick up UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrMissingStatusColumn is the fatal load error for an occupancy file that
// carries neither an Occupied nor a Status column.
var ErrMissingStatusColumn = errors.New("occupancy table has neither an Occupied nor a Status column")

// transactionHeader is the exact column order of the transaction file.
var transactionHeader = []string{"Date", "Apartment", "Description", "Type", "Category", "Value"}

// occupancyHeader is the exact column order the occupancy file is saved
// with. Loading is more lenient, see DecodeOccupancy.
var occupancyHeader = []string{"Date", "Apartment", "Status"}

// EncodeTransactions renders the table as BOM-prefixed CSV in the fixed
// column order Date, Apartment, Description, Type, Category, Value.
func EncodeTransactions(rows []core.Transaction) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	_ = w.Write(transactionHeader)
	for _, t := range rows {
		_ = w.Write([]string{
			t.Date.String(),
			t.Apartment,
			t.Description,
			string(t.Kind),
			t.Category,
			t.Amount.Fixed2(),
		})
	}
	w.Flush()
	return buf.Bytes()
}

// DecodeTransactions parses a transaction CSV. Empty input yields an empty
// table. Column order is fixed; the header row is required on non-empty
// input.
func DecodeTransactions(data []byte) ([]core.Transaction, error) {
	records, err := readCSV(data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	if err := checkHeader(records[0], transactionHeader); err != nil {
		return nil, fmt.Errorf("transaction table: %w", err)
	}
	var out []core.Transaction
	for i, rec := range records[1:] {
		if len(rec) < len(transactionHeader) {
			return nil, fmt.Errorf("transaction table row %d: expected %d columns, got %d", i+1, len(transactionHeader), len(rec))
		}
		date, err := core.ParseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("transaction table row %d: %w", i+1, err)
		}
		amount, err := core.ParseMoney(rec[5])
		if err != nil {
			return nil, fmt.Errorf("transaction table row %d: %w", i+1, err)
		}
		out = append(out, core.Transaction{
			Date:        date,
			Apartment:   strings.TrimSpace(rec[1]),
			Description: rec[2],
			Kind:        core.Kind(strings.TrimSpace(rec[3])),
			Category:    strings.TrimSpace(rec[4]),
			Amount:      amount,
		})
	}
	return out, nil
}

// EncodeOccupancy renders the table as BOM-prefixed CSV with columns Date,
// Apartment, Status; the boolean flag becomes Occupied/Vacant.
func EncodeOccupancy(rows []core.OccupancyRecord) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	_ = w.Write(occupancyHeader)
	for _, o := range rows {
		_ = w.Write([]string{o.LastChanged.String(), o.Apartment, o.StatusString()})
	}
	w.Flush()
	return buf.Bytes()
}

// DecodeOccupancy parses an occupancy CSV. A boolean Occupied column is
// taken as-is; otherwise a Status column is interpreted by lower-casing and
// comparing against "occupied"; a file with neither column fails with
// ErrMissingStatusColumn. Empty input yields an empty table (seeding is an
// explicit step, not a decode fallback).
func DecodeOccupancy(data []byte) ([]core.OccupancyRecord, error) {
	records, err := readCSV(data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := records[0]
	dateCol := columnIndex(header, "Date")
	aptCol := columnIndex(header, "Apartment")
	occCol := columnIndex(header, "Occupied")
	statusCol := columnIndex(header, "Status")
	if aptCol < 0 || dateCol < 0 {
		return nil, fmt.Errorf("occupancy table: missing Date or Apartment column, got header %v", header)
	}
	if occCol < 0 && statusCol < 0 {
		return nil, ErrMissingStatusColumn
	}
	var out []core.OccupancyRecord
	for i, rec := range records[1:] {
		if len(rec) <= aptCol || len(rec) <= dateCol {
			return nil, fmt.Errorf("occupancy table row %d: too few columns", i+1)
		}
		date, err := core.ParseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("occupancy table row %d: %w", i+1, err)
		}
		occupied := false
		if occCol >= 0 && occCol < len(rec) {
			occupied = parseBoolish(rec[occCol])
		} else if statusCol >= 0 && statusCol < len(rec) {
			occupied = strings.ToLower(strings.TrimSpace(rec[statusCol])) == "occupied"
		}
		out = append(out, core.OccupancyRecord{
			Apartment:   strings.TrimSpace(rec[aptCol]),
			Occupied:    occupied,
			LastChanged: date,
		})
	}
	return out, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

func checkHeader(got, want []string) error {
	if len(got) < len(want) {
		return fmt.Errorf("unexpected header %v", got)
	}
	for i, col := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), col) {
			return fmt.Errorf("unexpected header %v", got)
		}
	}
	return nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// parseBoolish accepts the spellings boolean columns show up with after a
// spreadsheet round-trip (true/True/TRUE/1).
func parseBoolish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
