package backend

import (
	"context"
	"fmt"
	"log/slog"

	"rentledger/internal/ledger/drive"
	"rentledger/internal/ledger/memory"
	"rentledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case DriveBackend:
		return f.createDriveBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createDriveBackend(ctx context.Context, config Config) (*Result, error) {
	cli, err := drive.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Drive client: %w", err)
	}

	f.logger.Info("Initialized Google Drive backend",
		"transactions_file", config.DriveTransactionsFileID,
		"occupancy_file", config.DriveOccupancyFileID)

	return &Result{
		Blobs:              cli,
		TransactionsFileID: config.DriveTransactionsFileID,
		OccupancyFileID:    config.DriveOccupancyFileID,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	store, err := storage.NewSQLiteBlobStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite blob store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Blobs:              store,
		TransactionsFileID: localTransactionsID,
		OccupancyFileID:    localOccupancyID,
		Cleanup:            store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	f.logger.Info("Initialized memory backend")

	return &Result{
		Blobs:              memory.New(),
		TransactionsFileID: localTransactionsID,
		OccupancyFileID:    localOccupancyID,
	}, nil
}
