package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rentledger/internal/core"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// parseFilter reads the month/year/apartment filter from query parameters.
// Missing dimensions default to the wildcard.
func parseFilter(r *http.Request) core.Filter {
	f := core.Filter{
		Month:     core.FilterAll,
		Year:      core.FilterAll,
		Apartment: core.FilterAll,
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		f.Month = v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		f.Year = v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("apartment")); v != "" {
		f.Apartment = v
	}
	return f
}

// parseTransactionForm builds a transaction from form fields. Validation is
// left to the caller so invalid rows produce one consistent error path.
func parseTransactionForm(r *http.Request) (core.Transaction, error) {
	date, err := core.ParseDate(strings.TrimSpace(r.Form.Get("date")))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date: %w", err)
	}
	amount, err := core.ParseMoney(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}
	return core.Transaction{
		Date:        date,
		Apartment:   sanitizeInput(r.Form.Get("apartment")),
		Description: sanitizeInput(r.Form.Get("description")),
		Kind:        core.Kind(sanitizeInput(r.Form.Get("kind"))),
		Category:    sanitizeInput(r.Form.Get("category")),
		Amount:      amount,
	}, nil
}

// parseRowID reads the row identifier from a form field.
func parseRowID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid row id: %w", err)
	}
	return id, nil
}
