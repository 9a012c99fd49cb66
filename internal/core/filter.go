package core

import "strconv"

// FilterAll is the wildcard value for every filter dimension.
const FilterAll = "All"

// Filter selects transactions by month, year and apartment. Each field is
// either FilterAll or a concrete value ("03", "2024", "Unit 5"). Filtering
// produces a new view; the backing table is never touched.
type Filter struct {
	Month     string
	Year      string
	Apartment string
}

// FilterMonths lists the month filter options offered by the UI.
func FilterMonths() []string {
	out := []string{FilterAll}
	for m := 1; m <= 12; m++ {
		out = append(out, twoDigit(m))
	}
	return out
}

// FilterYears lists the year filter options offered by the UI.
func FilterYears() []string {
	out := []string{FilterAll}
	for y := 2020; y <= 2025; y++ {
		out = append(out, strconv.Itoa(y))
	}
	return out
}

// IsAll reports whether the filter selects everything.
func (f Filter) IsAll() bool {
	return f.monthAll() && f.yearAll() && (f.Apartment == "" || f.Apartment == FilterAll)
}

// HasPeriod reports whether both a month and a year are selected. The PDF
// report prints its period line only in that case.
func (f Filter) HasPeriod() bool {
	return !f.monthAll() && !f.yearAll()
}

// HasApartment reports whether a single apartment is selected.
func (f Filter) HasApartment() bool {
	return f.Apartment != "" && f.Apartment != FilterAll
}

func (f Filter) monthAll() bool { return f.Month == "" || f.Month == FilterAll }
func (f Filter) yearAll() bool  { return f.Year == "" || f.Year == FilterAll }

// Matches reports whether a transaction passes the filter.
func (f Filter) Matches(t Transaction) bool {
	if !f.monthAll() {
		m, err := strconv.Atoi(f.Month)
		if err != nil || int(t.Date.Month()) != m {
			return false
		}
	}
	if !f.yearAll() {
		y, err := strconv.Atoi(f.Year)
		if err != nil || t.Date.Year() != y {
			return false
		}
	}
	if f.HasApartment() && t.Apartment != f.Apartment {
		return false
	}
	return true
}

// Apply returns the matching rows as a new slice, preserving table order.
func (f Filter) Apply(transactions []Transaction) []Transaction {
	if f.IsAll() {
		return append([]Transaction(nil), transactions...)
	}
	var out []Transaction
	for _, t := range transactions {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func twoDigit(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
