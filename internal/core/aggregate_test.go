package core

import "testing"

func sampleTransactions(t *testing.T) []Transaction {
	t.Helper()
	return []Transaction{
		{Date: NewDate(2024, 3, 1), Apartment: "Unit 1", Description: "Rent", Kind: Income, Category: "Rent", Amount: mustMoney(t, "1500.00")},
		{Date: NewDate(2024, 3, 5), Apartment: "Unit 1", Description: "Electricity", Kind: Expense, Category: "Electricity", Amount: mustMoney(t, "200.00")},
	}
}

func TestComputeTotals(t *testing.T) {
	tot := ComputeTotals(sampleTransactions(t))
	if tot.Income.Fixed2() != "1500.00" || tot.Expense.Fixed2() != "200.00" || tot.Balance.Fixed2() != "1300.00" {
		t.Fatalf("totals = %s / %s / %s", tot.Income.Fixed2(), tot.Expense.Fixed2(), tot.Balance.Fixed2())
	}
	if !tot.Income.Sub(tot.Expense).Equal(tot.Balance) {
		t.Fatalf("balance identity violated")
	}

	empty := ComputeTotals(nil)
	if empty.Balance.Fixed2() != "0.00" {
		t.Fatalf("empty balance = %s", empty.Balance.Fixed2())
	}
}

func TestCategorySubtotalsOrderAndGrandTotal(t *testing.T) {
	txs := []Transaction{
		{Date: NewDate(2024, 2, 1), Apartment: "Unit 2", Kind: Expense, Category: "Water", Amount: mustMoney(t, "40")},
		{Date: NewDate(2024, 1, 1), Apartment: "Common", Kind: Expense, Category: "Internet", Amount: mustMoney(t, "80")},
		{Date: NewDate(2024, 1, 5), Apartment: "Unit 2", Kind: Income, Category: "Rent", Amount: mustMoney(t, "900")},
		{Date: NewDate(2024, 2, 5), Apartment: "Unit 2", Kind: Income, Category: "Rent", Amount: mustMoney(t, "900")},
	}
	rows := CategorySubtotals(txs)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	// Common comes before Unit 2, Income before Expense within an apartment.
	if rows[0].Apartment != "Common" || rows[0].Category != "Internet" {
		t.Fatalf("row 0 = %+v", rows[0])
	}
	if rows[1].Apartment != "Unit 2" || rows[1].Kind != Income || rows[1].Subtotal.Fixed2() != "1800.00" {
		t.Fatalf("row 1 = %+v", rows[1])
	}
	if rows[2].Apartment != "Unit 2" || rows[2].Category != "Water" {
		t.Fatalf("row 2 = %+v", rows[2])
	}
	last := rows[len(rows)-1]
	if last.Apartment != GrandTotalLabel {
		t.Fatalf("last row = %+v", last)
	}
	if last.Subtotal.Fixed2() != "1680.00" { // 1800 - 120
		t.Fatalf("grand total = %s", last.Subtotal.Fixed2())
	}
	for _, r := range rows[:len(rows)-1] {
		if !IsApartment(r.Apartment) {
			t.Fatalf("non-apartment row before grand total: %+v", r)
		}
	}
}

func TestCategorySubtotalsEmptyTable(t *testing.T) {
	rows := CategorySubtotals(nil)
	if len(rows) != 1 || rows[0].Apartment != GrandTotalLabel || rows[0].Subtotal.Fixed2() != "0.00" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestVacancyRateFixedDivisor(t *testing.T) {
	// Even with 20 rows the divisor stays 16.
	var occ []OccupancyRecord
	for i := 0; i < 20; i++ {
		occ = append(occ, OccupancyRecord{Apartment: UnitName(i%16 + 1), Occupied: i >= 3, LastChanged: NewDate(2024, 1, 1)})
	}
	if got := VacancyRate(occ); got != 18.75 {
		t.Fatalf("rate = %v, want 18.75", got)
	}
	if got := VacancyRate(nil); got != 0 {
		t.Fatalf("empty rate = %v", got)
	}
	if got := VacantCount(occ); got != 3 {
		t.Fatalf("vacant count = %d", got)
	}
}

func TestPerApartmentSummary(t *testing.T) {
	occ := []OccupancyRecord{
		{Apartment: "Unit 1", Occupied: true, LastChanged: NewDate(2024, 1, 1)},
		{Apartment: "Unit 3", Occupied: false, LastChanged: NewDate(2024, 1, 1)},
	}
	rows := PerApartmentSummary(sampleTransactions(t), occ)
	if len(rows) != UnitCount {
		t.Fatalf("expected %d rows, got %d", UnitCount, len(rows))
	}
	for i, r := range rows {
		if r.Apartment != UnitName(i+1) {
			t.Fatalf("row %d apartment %q", i, r.Apartment)
		}
	}
	u1 := rows[0]
	if u1.Income.Fixed2() != "1500.00" || u1.Expense.Fixed2() != "200.00" || u1.Balance.Fixed2() != "1300.00" {
		t.Fatalf("unit 1 = %+v", u1)
	}
	if u1.Status != "Occupied" {
		t.Fatalf("unit 1 status = %q", u1.Status)
	}
	if rows[2].Status != "Vacant" {
		t.Fatalf("unit 3 status = %q", rows[2].Status)
	}
	// No record at all also reads as vacant.
	if rows[4].Status != "Vacant" {
		t.Fatalf("unit 5 status = %q", rows[4].Status)
	}
}

func TestProlongedVacanciesBoundary(t *testing.T) {
	asOf := NewDate(2024, 3, 1)
	cases := []struct {
		since   Date
		alerted bool
		days    int
	}{
		{NewDate(2024, 1, 1), true, 60},
		{NewDate(2024, 1, 16), true, 45},
		{NewDate(2024, 1, 30), true, 31},
		{NewDate(2024, 1, 31), false, 30}, // exactly 30 days: no alert
		{NewDate(2024, 2, 15), false, 15},
	}
	for _, tc := range cases {
		occ := []OccupancyRecord{{Apartment: "Unit 3", Occupied: false, LastChanged: tc.since}}
		got := ProlongedVacancies(occ, asOf, DefaultVacancyThresholdDays)
		if tc.alerted {
			if len(got) != 1 || got[0].Apartment != "Unit 3" || got[0].DaysVacant != tc.days {
				t.Errorf("since %v: got %+v, want %d days", tc.since, got, tc.days)
			}
		} else if len(got) != 0 {
			t.Errorf("since %v: unexpected alert %+v", tc.since, got)
		}
	}

	// Occupied units never alert no matter how old the record is.
	occ := []OccupancyRecord{{Apartment: "Unit 1", Occupied: true, LastChanged: NewDate(2020, 1, 1)}}
	if got := ProlongedVacancies(occ, asOf, DefaultVacancyThresholdDays); len(got) != 0 {
		t.Fatalf("occupied unit alerted: %+v", got)
	}
}
