package core

import "testing"

func mustMoney(t *testing.T, s string) Money {
	t.Helper()
	m, err := ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0", "0.00", true},
		{"0.00", "0.00", true},
		{" 2.50 ", "2.50", true},
		{"1500.00", "1500.00", true},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("%q: unexpected error %v", tc.in, err)
				continue
			}
			if got.Fixed2() != tc.out {
				t.Errorf("%q: got %s, want %s", tc.in, got.Fixed2(), tc.out)
			}
		} else if err == nil {
			t.Errorf("%q: expected error", tc.in)
		}
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	// The classic float trap: 0.1 + 0.2 must be exactly 0.3.
	a := mustMoney(t, "0.1")
	b := mustMoney(t, "0.2")
	if got := a.Add(b); !got.Equal(mustMoney(t, "0.3")) {
		t.Fatalf("0.1 + 0.2 = %s", got)
	}

	income := mustMoney(t, "1500.00")
	expense := mustMoney(t, "200.00")
	if got := income.Sub(expense); got.Fixed2() != "1300.00" {
		t.Fatalf("balance = %s", got.Fixed2())
	}
	// Balances may go negative even though stored amounts cannot.
	if got := expense.Sub(income); got.Fixed2() != "-1300.00" {
		t.Fatalf("negative balance = %s", got.Fixed2())
	}
}
