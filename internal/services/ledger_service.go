// Package services orchestrates interaction turns: load the tables, apply
// one mutation, persist and reload, publish a change event.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"rentledger/internal/amqp"
	"rentledger/internal/core"
	"rentledger/internal/ledger"
)

// Snapshot is one interaction's view of both tables. The versions pin the
// remote content the snapshot was loaded from; mutations made against a
// snapshot fail with ErrConflict once the remote has moved on.
type Snapshot struct {
	Transactions        *ledger.TransactionTable
	TransactionsVersion string
	Occupancy           *ledger.OccupancyTable
	OccupancyVersion    string
}

// LedgerService runs one synchronous turn per user interaction. The events
// client may be nil; publishing is best-effort and never fails a mutation
// that already persisted.
type LedgerService struct {
	store  *ledger.Store
	events *amqp.Client
}

func NewLedgerService(store *ledger.Store, events *amqp.Client) *LedgerService {
	return &LedgerService{store: store, events: events}
}

// Snapshot loads both tables, concurrently since they are independent files.
func (s *LedgerService) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Transactions, snap.TransactionsVersion, err = s.store.LoadTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Occupancy, snap.OccupancyVersion, err = s.store.LoadOccupancy(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// AddTransaction appends against the current remote state and saves. No
// stale-view check: an append cannot corrupt neighbouring rows, so it works
// on a fresh load the way the entry form always has.
func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	table, version, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return err
	}
	table.Append(tx)
	if err := s.store.SaveTransactions(ctx, table, version); err != nil {
		return err
	}
	s.publish(ctx, amqp.EventTransactionCreated, tx.Apartment, tx.Amount.Fixed2(), tx.Description)
	return nil
}

// UpdateTransaction replaces the row the user selected in a snapshot whose
// version is viewVersion. A moved-on remote or an already-deleted row fails
// with ErrConflict / ErrStaleReference instead of touching the wrong row.
func (s *LedgerService) UpdateTransaction(ctx context.Context, viewVersion string, id int64, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	table, version, err := s.loadCheckedTransactions(ctx, viewVersion)
	if err != nil {
		return err
	}
	if _, err := table.Replace(id, tx); err != nil {
		return err
	}
	if err := s.store.SaveTransactions(ctx, table, version); err != nil {
		return err
	}
	s.publish(ctx, amqp.EventTransactionUpdated, tx.Apartment, tx.Amount.Fixed2(), tx.Description)
	return nil
}

// DeleteTransaction removes the row the user selected, with the same
// stale-view guards as UpdateTransaction.
func (s *LedgerService) DeleteTransaction(ctx context.Context, viewVersion string, id int64) error {
	table, version, err := s.loadCheckedTransactions(ctx, viewVersion)
	if err != nil {
		return err
	}
	row, err := table.Get(id)
	if err != nil {
		return err
	}
	if err := table.Delete(id); err != nil {
		return err
	}
	if err := s.store.SaveTransactions(ctx, table, version); err != nil {
		return err
	}
	s.publish(ctx, amqp.EventTransactionDeleted, row.Apartment, row.Amount.Fixed2(), row.Description)
	return nil
}

// SetOccupancy upserts a unit's occupancy flag, stamping the change date.
func (s *LedgerService) SetOccupancy(ctx context.Context, apartment string, occupied bool, changed core.Date) error {
	if !core.IsUnit(apartment) {
		return core.ErrInvalidApartment
	}
	table, version, err := s.store.LoadOccupancy(ctx)
	if err != nil {
		return err
	}
	table.Upsert(apartment, occupied, changed)
	if err := s.store.SaveOccupancy(ctx, table, version); err != nil {
		return err
	}
	status := core.OccupancyRecord{Occupied: occupied}.StatusString()
	s.publish(ctx, amqp.EventOccupancyChanged, apartment, "", status)
	return nil
}

// loadCheckedTransactions loads the table and rejects a view that went
// stale between render and submit.
func (s *LedgerService) loadCheckedTransactions(ctx context.Context, viewVersion string) (*ledger.TransactionTable, string, error) {
	table, version, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return nil, "", err
	}
	if viewVersion != "" && viewVersion != version {
		return nil, "", fmt.Errorf("submitted view is outdated: %w", ledger.ErrConflict)
	}
	return table, version, nil
}

func (s *LedgerService) publish(ctx context.Context, kind, apartment, amount, details string) {
	if err := s.events.PublishEvent(ctx, amqp.NewLedgerEvent(kind, apartment, amount, details)); err != nil {
		// The table is already saved; a lost event is log-worthy, not fatal.
		slog.ErrorContext(ctx, "Failed to publish ledger event", "error", err, "kind", kind, "apartment", apartment)
	}
}
