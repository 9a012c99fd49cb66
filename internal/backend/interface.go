// Package backend selects and constructs the blob store the ledger
// persists into, based on configuration.
package backend

import (
	"context"

	"rentledger/internal/ledger"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the blob store, the file IDs the two tables live under,
// and an optional cleanup function.
type Result struct {
	Blobs              ledger.BlobStore
	TransactionsFileID string
	OccupancyFileID    string
	Cleanup            CleanupFunc
}

// Factory creates blob stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// BackendType represents the type of backend
type BackendType string

const (
	DriveBackend  BackendType = "drive"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case DriveBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
