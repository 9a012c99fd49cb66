package ledger

import (
	"context"
	"errors"
	"testing"

	"rentledger/internal/core"
	"rentledger/internal/ledger/memory"
)

func newTestStore() (*Store, *memory.Store) {
	blobs := memory.New()
	s := NewStore(blobs, "tx-file", "occ-file")
	s.backoff = 0 // no sleeping in tests
	return s, blobs
}

func TestStoreSaveThenLoadTransactions(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	table, version, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", table.Len())
	}

	table.Append(tx(t, 1, "Unit 1", "rent"))
	table.Append(tx(t, 5, "Common", "internet"))
	if err := store.SaveTransactions(ctx, table, version); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, _, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("reloaded %d rows", reloaded.Len())
	}
	got := reloaded.Transactions()
	want := table.Transactions()
	for i := range want {
		if got[i].Description != want[i].Description || !got[i].Amount.Equal(want[i].Amount) {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, got[i], want[i])
		}
	}
}

func TestStoreConflictDetection(t *testing.T) {
	ctx := context.Background()
	store, blobs := newTestStore()

	table, version, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	table.Append(tx(t, 1, "Unit 1", "mine"))

	// Another session writes between our load and save.
	other := NewTransactionTable(nil)
	other.Append(tx(t, 2, "Unit 2", "theirs"))
	blobs.Put("tx-file", EncodeTransactions(other.Transactions()))

	if err := store.SaveTransactions(ctx, table, version); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// The concurrent write survived.
	reloaded, _, _ := store.LoadTransactions(ctx)
	if reloaded.Len() != 1 || reloaded.Rows()[0].Description != "theirs" {
		t.Fatalf("concurrent write clobbered: %+v", reloaded.Rows())
	}
}

func TestStoreRetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	store, blobs := newTestStore()
	blobs.Err = errors.New("quota exceeded")

	blobs.FailFetches = 2 // third attempt succeeds
	if _, _, err := store.LoadTransactions(ctx); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}

	blobs.FailFetches = 3 // more failures than attempts
	if _, _, err := store.LoadTransactions(ctx); err == nil {
		t.Fatalf("expected failure after exhausting retries")
	}
}

func TestEnsureOccupancySeeded(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	asOf := core.NewDate(2024, 3, 1)

	if err := store.EnsureOccupancySeeded(ctx, asOf); err != nil {
		t.Fatalf("seed: %v", err)
	}
	table, version, err := store.LoadOccupancy(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Len() != core.UnitCount {
		t.Fatalf("seeded %d rows", table.Len())
	}
	for _, r := range table.Records() {
		if !r.Occupied || r.LastChanged != asOf {
			t.Fatalf("unexpected seed row %+v", r)
		}
	}

	// A second call must not overwrite user changes.
	table.Upsert("Unit 3", false, core.NewDate(2024, 3, 2))
	if err := store.SaveOccupancy(ctx, table, version); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.EnsureOccupancySeeded(ctx, asOf); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	reloaded, _, _ := store.LoadOccupancy(ctx)
	got, _ := reloaded.Get("Unit 3")
	if got.Occupied {
		t.Fatalf("seeding clobbered the table: %+v", got)
	}
}

func TestContentVersion(t *testing.T) {
	if contentVersion(nil) != contentVersion([]byte{}) {
		t.Fatalf("nil and empty must share a version")
	}
	a := contentVersion([]byte("one"))
	b := contentVersion([]byte("two"))
	if a == b {
		t.Fatalf("distinct content shares a version")
	}
	if a != contentVersion([]byte("one")) {
		t.Fatalf("version not deterministic")
	}
}
