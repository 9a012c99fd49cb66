package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"

	// Common covers building-wide income and expenses not tied to a unit.
	Common = "Common"

	// UnitCount is the fixed size of the building. Several aggregates
	// (vacancy rate above all) divide by this constant, never by the
	// observed occupancy row count.
	UnitCount = 16
)

type (
	Kind string

	Date struct {
		time.Time
	}

	Transaction struct {
		Date        Date
		Apartment   string
		Description string
		Kind        Kind
		Category    string
		Amount      Money
	}

	OccupancyRecord struct {
		Apartment   string
		Occupied    bool
		LastChanged Date
	}
)

var (
	ErrInvalidApartment = errors.New("invalid apartment")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidCategory  = errors.New("invalid category for kind")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
)

// IncomeCategories and ExpenseCategories are the closed category sets per kind.
var (
	IncomeCategories  = []string{"Rent", "Other"}
	ExpenseCategories = []string{"Internet", "Administration", "Electricity", "Water", "PropertyTax", "Maintenance", "Other"}
)

// Units returns the 16 unit names in building order.
func Units() []string {
	out := make([]string, 0, UnitCount)
	for i := 1; i <= UnitCount; i++ {
		out = append(out, UnitName(i))
	}
	return out
}

// UnitName returns the canonical name for a unit number (1-based).
func UnitName(n int) string {
	return fmt.Sprintf("Unit %d", n)
}

// Apartments returns the full apartment list in the fixed aggregation
// order: Common first, then Unit 1..16.
func Apartments() []string {
	return append([]string{Common}, Units()...)
}

// IsApartment reports whether name is Common or one of the 16 units.
func IsApartment(name string) bool {
	if name == Common {
		return true
	}
	return IsUnit(name)
}

// IsUnit reports whether name is one of the 16 units (Common excluded).
func IsUnit(name string) bool {
	for _, u := range Units() {
		if name == u {
			return true
		}
	}
	return false
}

// CategoriesFor returns the valid categories for a kind, nil for an unknown kind.
func CategoriesFor(k Kind) []string {
	switch k {
	case Income:
		return IncomeCategories
	case Expense:
		return ExpenseCategories
	default:
		return nil
	}
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates a wall-clock time to its calendar date.
func Today(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date in the table serialization form (YYYY-MM-DD).
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// DaysUntil returns the number of whole days from d to later.
func (d Date) DaysUntil(later Date) int {
	return int(later.Sub(d.Time) / (24 * time.Hour))
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !IsApartment(t.Apartment) {
		return ErrInvalidApartment
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	valid := false
	for _, c := range CategoriesFor(t.Kind) {
		if c == t.Category {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (o OccupancyRecord) Validate() error {
	if !IsUnit(o.Apartment) {
		return ErrInvalidApartment
	}
	return o.LastChanged.Validate()
}

// StatusString renders the occupancy flag the way the occupancy table
// serializes it.
func (o OccupancyRecord) StatusString() string {
	if o.Occupied {
		return "Occupied"
	}
	return "Vacant"
}
