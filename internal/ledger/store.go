package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rentledger/internal/core"
)

const csvMimeType = "text/csv"

// ErrConflict means the remote file changed between load and save: another
// session wrote in the meantime and a blind save would have clobbered it.
var ErrConflict = errors.New("remote table changed since it was loaded")

// emptyVersion marks a snapshot loaded from an absent or empty file.
const emptyVersion = "empty"

// Store performs whole-file round-trips for the two tables against a blob
// store. Remote I/O is retried with exponential backoff before giving up.
type Store struct {
	blobs             BlobStore
	transactionFileID string
	occupancyFileID   string

	// retry policy for blob I/O
	attempts int
	backoff  time.Duration
}

func NewStore(blobs BlobStore, transactionFileID, occupancyFileID string) *Store {
	return &Store{
		blobs:             blobs,
		transactionFileID: transactionFileID,
		occupancyFileID:   occupancyFileID,
		attempts:          3,
		backoff:           200 * time.Millisecond,
	}
}

// LoadTransactions fetches and decodes the transaction table. The returned
// version is a content hash used by SaveTransactions to detect concurrent
// writers.
func (s *Store) LoadTransactions(ctx context.Context) (*TransactionTable, string, error) {
	data, err := s.fetch(ctx, s.transactionFileID)
	if err != nil {
		return nil, "", fmt.Errorf("load transactions: %w", err)
	}
	txs, err := DecodeTransactions(data)
	if err != nil {
		return nil, "", fmt.Errorf("load transactions: %w", err)
	}
	return NewTransactionTable(txs), contentVersion(data), nil
}

// LoadOccupancy fetches and decodes the occupancy table. An empty file
// yields an empty table; seeding is explicit via EnsureOccupancySeeded.
func (s *Store) LoadOccupancy(ctx context.Context) (*OccupancyTable, string, error) {
	data, err := s.fetch(ctx, s.occupancyFileID)
	if err != nil {
		return nil, "", fmt.Errorf("load occupancy: %w", err)
	}
	rows, err := DecodeOccupancy(data)
	if err != nil {
		return nil, "", fmt.Errorf("load occupancy: %w", err)
	}
	return NewOccupancyTable(rows), contentVersion(data), nil
}

// SaveTransactions writes the whole table back. loadedVersion must be the
// version returned by the load this mutation started from; if the remote
// content has moved on since, the save fails with ErrConflict instead of
// silently winning the race. The window between check and write remains;
// the store has no transactional primitive to close it.
func (s *Store) SaveTransactions(ctx context.Context, t *TransactionTable, loadedVersion string) error {
	if err := s.checkVersion(ctx, s.transactionFileID, loadedVersion); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	if err := s.update(ctx, s.transactionFileID, EncodeTransactions(t.Transactions())); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	slog.InfoContext(ctx, "Transaction table saved", "rows", t.Len(), "file_id", s.transactionFileID)
	return nil
}

// SaveOccupancy writes the whole occupancy table back, with the same
// version check as SaveTransactions.
func (s *Store) SaveOccupancy(ctx context.Context, t *OccupancyTable, loadedVersion string) error {
	if err := s.checkVersion(ctx, s.occupancyFileID, loadedVersion); err != nil {
		return fmt.Errorf("save occupancy: %w", err)
	}
	if err := s.update(ctx, s.occupancyFileID, EncodeOccupancy(t.Records())); err != nil {
		return fmt.Errorf("save occupancy: %w", err)
	}
	slog.InfoContext(ctx, "Occupancy table saved", "rows", t.Len(), "file_id", s.occupancyFileID)
	return nil
}

// EnsureOccupancySeeded writes the all-occupied 16-unit default when the
// remote occupancy file is absent or empty. Called once at startup; loads
// never re-materialize the default.
func (s *Store) EnsureOccupancySeeded(ctx context.Context, now core.Date) error {
	data, err := s.fetch(ctx, s.occupancyFileID)
	if err != nil {
		return fmt.Errorf("seed occupancy: %w", err)
	}
	if contentVersion(data) != emptyVersion {
		return nil
	}
	seeded := SeedOccupancy(now)
	if err := s.update(ctx, s.occupancyFileID, EncodeOccupancy(seeded.Records())); err != nil {
		return fmt.Errorf("seed occupancy: %w", err)
	}
	slog.InfoContext(ctx, "Occupancy table seeded", "units", seeded.Len(), "as_of", now.String())
	return nil
}

func (s *Store) checkVersion(ctx context.Context, fileID, loadedVersion string) error {
	data, err := s.fetch(ctx, fileID)
	if err != nil {
		return err
	}
	if contentVersion(data) != loadedVersion {
		return ErrConflict
	}
	return nil
}

func (s *Store) fetch(ctx context.Context, fileID string) ([]byte, error) {
	var data []byte
	err := s.withRetry(ctx, "fetch", fileID, func() error {
		var err error
		data, err = s.blobs.Fetch(ctx, fileID)
		return err
	})
	return data, err
}

func (s *Store) update(ctx context.Context, fileID string, data []byte) error {
	return s.withRetry(ctx, "update", fileID, func() error {
		return s.blobs.Update(ctx, fileID, data, csvMimeType)
	})
}

// withRetry runs op up to s.attempts times with exponential backoff,
// honouring context cancellation between attempts.
func (s *Store) withRetry(ctx context.Context, op, fileID string, fn func() error) error {
	var err error
	delay := s.backoff
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == s.attempts {
			break
		}
		slog.WarnContext(ctx, "Blob store operation failed, retrying",
			"operation", op, "file_id", fileID, "attempt", attempt, "error", err, "retry_in", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("%s %s after %d attempts: %w", op, fileID, s.attempts, err)
}

// contentVersion hashes file content into the opaque version string used
// for conflict checks. Absent and empty files share a version so a seed
// following an empty load is not itself a conflict.
func contentVersion(data []byte) string {
	if len(data) == 0 {
		return emptyVersion
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
