package services

import (
	"context"
	"errors"
	"testing"

	"rentledger/internal/core"
	"rentledger/internal/ledger"
	"rentledger/internal/ledger/memory"
)

const (
	txFile  = "tx-file"
	occFile = "occ-file"
)

func newTestService(t *testing.T) (*LedgerService, *ledger.Store) {
	t.Helper()
	store := ledger.NewStore(memory.New(), txFile, occFile)
	return NewLedgerService(store, nil), store
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func mustMoney(t *testing.T, s string) core.Money {
	t.Helper()
	m, err := core.ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func sampleTransaction(t *testing.T, apartment, desc string) core.Transaction {
	t.Helper()
	return core.Transaction{
		Date:        mustDate(t, "2025-03-10"),
		Apartment:   apartment,
		Description: desc,
		Kind:        core.Income,
		Category:    "Rent",
		Amount:      mustMoney(t, "850.00"),
	}
}

func TestSnapshotLoadsBothTables(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if err := svc.AddTransaction(ctx, sampleTransaction(t, "Unit 3", "March rent")); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := store.EnsureOccupancySeeded(ctx, mustDate(t, "2025-01-01")); err != nil {
		t.Fatalf("EnsureOccupancySeeded: %v", err)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Transactions.Len() != 1 {
		t.Errorf("transactions len = %d, want 1", snap.Transactions.Len())
	}
	if snap.Occupancy.Len() != core.UnitCount {
		t.Errorf("occupancy len = %d, want %d", snap.Occupancy.Len(), core.UnitCount)
	}
	if snap.TransactionsVersion == "" || snap.OccupancyVersion == "" {
		t.Error("snapshot versions should be populated")
	}
}

func TestAddTransactionRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t)

	tx := sampleTransaction(t, "Unit 3", "typo'd")
	tx.Category = "Electricity" // expense category on an income row
	err := svc.AddTransaction(context.Background(), tx)
	if !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestUpdateTransactionReplacesSelectedRow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, desc := range []string{"first", "second", "third"} {
		if err := svc.AddTransaction(ctx, sampleTransaction(t, "Unit 1", desc)); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	target := snap.Transactions.Rows()[1]

	updated := sampleTransaction(t, "Unit 2", "second, corrected")
	if err := svc.UpdateTransaction(ctx, snap.TransactionsVersion, target.ID, updated); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}

	after, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	rows := after.Transactions.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	// An edited row re-enters at the bottom of the table.
	last := rows[len(rows)-1]
	if last.Description != "second, corrected" || last.Apartment != "Unit 2" {
		t.Errorf("last row = %q/%q, want updated row at end", last.Apartment, last.Description)
	}
	for _, r := range rows {
		if r.Description == "second" {
			t.Error("original row should have been replaced")
		}
	}
}

func TestUpdateTransactionStaleViewConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.AddTransaction(ctx, sampleTransaction(t, "Unit 1", "first")); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	target := snap.Transactions.Rows()[0]

	// Another session writes between our render and our submit.
	if err := svc.AddTransaction(ctx, sampleTransaction(t, "Unit 2", "concurrent")); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	err = svc.UpdateTransaction(ctx, snap.TransactionsVersion, target.ID, sampleTransaction(t, "Unit 1", "edited"))
	if !errors.Is(err, ledger.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestDeleteTransactionUnknownID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.AddTransaction(ctx, sampleTransaction(t, "Unit 1", "only")); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	err = svc.DeleteTransaction(ctx, snap.TransactionsVersion, 999)
	if !errors.Is(err, ledger.ErrStaleReference) {
		t.Fatalf("err = %v, want ErrStaleReference", err)
	}
}

func TestDeleteTransactionRemovesRow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.AddTransaction(ctx, sampleTransaction(t, "Unit 1", "keep")); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if err := svc.AddTransaction(ctx, sampleTransaction(t, "Unit 2", "drop")); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	target := snap.Transactions.Rows()[1]

	if err := svc.DeleteTransaction(ctx, snap.TransactionsVersion, target.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	after, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if after.Transactions.Len() != 1 {
		t.Fatalf("len = %d, want 1", after.Transactions.Len())
	}
	if after.Transactions.Rows()[0].Description != "keep" {
		t.Error("wrong row deleted")
	}
}

func TestSetOccupancy(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if err := store.EnsureOccupancySeeded(ctx, mustDate(t, "2025-01-01")); err != nil {
		t.Fatalf("EnsureOccupancySeeded: %v", err)
	}
	if err := svc.SetOccupancy(ctx, "Unit 5", false, mustDate(t, "2025-02-01")); err != nil {
		t.Fatalf("SetOccupancy: %v", err)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	rec, ok := snap.Occupancy.Get("Unit 5")
	if !ok {
		t.Fatal("Unit 5 missing from occupancy table")
	}
	if rec.Occupied {
		t.Error("Unit 5 should be vacant")
	}
	if got := rec.LastChanged.String(); got != "2025-02-01" {
		t.Errorf("LastChanged = %s, want 2025-02-01", got)
	}
	if snap.Occupancy.Len() != core.UnitCount {
		t.Errorf("occupancy len = %d, want %d (no duplicate rows)", snap.Occupancy.Len(), core.UnitCount)
	}
}

func TestSetOccupancyRejectsCommonArea(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.SetOccupancy(context.Background(), core.Common, true, mustDate(t, "2025-02-01"))
	if !errors.Is(err, core.ErrInvalidApartment) {
		t.Fatalf("err = %v, want ErrInvalidApartment", err)
	}
}
