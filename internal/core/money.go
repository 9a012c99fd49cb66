// Package core holds the ledger domain: transactions, occupancy records,
// money handling and the pure aggregation functions derived from them.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a non-negative decimal amount. Arithmetic goes through
// shopspring/decimal so sums and balances stay exact; float64 appears
// only at rendering boundaries.
type Money struct {
	decimal.Decimal
}

// ParseMoney parses a decimal amount from user or table input. It accepts
// both dot (12.34) and comma (12,34) decimal separators. Negative values
// are rejected; zero is allowed (the entry form permits amount >= 0).
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return Money{d}, nil
}

func (m Money) Validate() error {
	if m.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// Sub returns m minus o. The result may be negative: balances are
// ordinary signed amounts even though stored values are not.
func (m Money) Sub(o Money) Money {
	return Money{m.Decimal.Sub(o.Decimal)}
}

func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// Fixed2 renders the amount with exactly two decimal places, the format
// used by the totals block and the PDF report.
func (m Money) Fixed2() string {
	return m.Decimal.StringFixed(2)
}
