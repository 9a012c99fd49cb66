package core

// GrandTotalLabel is the apartment name of the closing row emitted by
// CategorySubtotals.
const GrandTotalLabel = "Grand Total"

// DefaultVacancyThresholdDays is the notification cutoff: units vacant
// strictly longer than this many days are flagged.
const DefaultVacancyThresholdDays = 30

type (
	// Totals is the top-line income/expense/balance block.
	Totals struct {
		Income  Money
		Expense Money
		Balance Money
	}

	// CategorySubtotal is one row of the summary export. The closing
	// Grand Total row leaves Kind and Category empty.
	CategorySubtotal struct {
		Apartment string
		Kind      Kind
		Category  string
		Subtotal  Money
	}

	// ApartmentSummary is one per-unit row of the report table.
	ApartmentSummary struct {
		Apartment string
		Income    Money
		Expense   Money
		Balance   Money
		Status    string
	}

	// VacancyAlert flags a unit vacant beyond the notification threshold.
	VacancyAlert struct {
		Apartment  string
		DaysVacant int
	}
)

// ComputeTotals sums amounts by kind over the given rows.
// Balance is income minus expense, decimal-exact.
func ComputeTotals(transactions []Transaction) Totals {
	var t Totals
	for _, tx := range transactions {
		switch tx.Kind {
		case Income:
			t.Income = t.Income.Add(tx.Amount)
		case Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// CategorySubtotals groups amounts by (apartment, kind, category) in a fixed,
// reproducible order: apartments as Common, Unit 1..16; kinds as Income then
// Expense; categories in first-observed row order within each pair. Apartments
// with no rows are skipped. The final row is the overall balance labeled
// Grand Total.
func CategorySubtotals(transactions []Transaction) []CategorySubtotal {
	var out []CategorySubtotal
	for _, apt := range Apartments() {
		for _, kind := range []Kind{Income, Expense} {
			var order []string
			sums := map[string]Money{}
			for _, tx := range transactions {
				if tx.Apartment != apt || tx.Kind != kind {
					continue
				}
				if _, seen := sums[tx.Category]; !seen {
					order = append(order, tx.Category)
				}
				sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
			}
			for _, cat := range order {
				out = append(out, CategorySubtotal{Apartment: apt, Kind: kind, Category: cat, Subtotal: sums[cat]})
			}
		}
	}
	out = append(out, CategorySubtotal{Apartment: GrandTotalLabel, Subtotal: ComputeTotals(transactions).Balance})
	return out
}

// VacancyRate returns the share of vacant units as a percentage. The divisor
// is the fixed building size, not the occupancy row count: a table with 20
// rows of which 3 are vacant still yields 3/16.
func VacancyRate(occupancy []OccupancyRecord) float64 {
	vacant := 0
	for _, o := range occupancy {
		if !o.Occupied {
			vacant++
		}
	}
	return float64(vacant) / UnitCount * 100
}

// VacantCount returns the number of rows marked vacant.
func VacantCount(occupancy []OccupancyRecord) int {
	n := 0
	for _, o := range occupancy {
		if !o.Occupied {
			n++
		}
	}
	return n
}

// PerApartmentSummary returns exactly one row per unit, Unit 1..16 in order,
// whatever apartments the data mentions. Status is Occupied only when an
// occupancy record for the unit exists and is marked occupied; a missing
// record counts as vacant.
func PerApartmentSummary(transactions []Transaction, occupancy []OccupancyRecord) []ApartmentSummary {
	out := make([]ApartmentSummary, 0, UnitCount)
	for _, unit := range Units() {
		row := ApartmentSummary{Apartment: unit, Status: "Vacant"}
		for _, tx := range transactions {
			if tx.Apartment != unit {
				continue
			}
			switch tx.Kind {
			case Income:
				row.Income = row.Income.Add(tx.Amount)
			case Expense:
				row.Expense = row.Expense.Add(tx.Amount)
			}
		}
		row.Balance = row.Income.Sub(row.Expense)
		for _, o := range occupancy {
			if o.Apartment == unit {
				if o.Occupied {
					row.Status = "Occupied"
				}
				break
			}
		}
		out = append(out, row)
	}
	return out
}

// ProlongedVacancies returns units vacant strictly longer than thresholdDays
// as of the given date. Exactly thresholdDays is not an alert; one day more is.
func ProlongedVacancies(occupancy []OccupancyRecord, asOf Date, thresholdDays int) []VacancyAlert {
	var out []VacancyAlert
	for _, o := range occupancy {
		if o.Occupied {
			continue
		}
		days := o.LastChanged.DaysUntil(asOf)
		if days > thresholdDays {
			out = append(out, VacancyAlert{Apartment: o.Apartment, DaysVacant: days})
		}
	}
	return out
}
