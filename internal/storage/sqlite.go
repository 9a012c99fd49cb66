// Package storage is the local, SQLite-backed blob store used when the
// ledger runs without Google Drive. File content is stored wholesale per
// file ID, preserving the remote store's whole-file semantics.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type SQLiteBlobStore struct {
	db *sql.DB
}

func NewSQLiteBlobStore(dbPath string) (*SQLiteBlobStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteBlobStore{db: db}, nil
}

func (s *SQLiteBlobStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Fetch implements ledger.BlobStore. Absent files return empty bytes, the
// same contract the remote store has for missing or empty files.
func (s *SQLiteBlobStore) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM files WHERE id = ?`, fileID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch file %s: %w", fileID, err)
	}
	return data, nil
}

// Update implements ledger.BlobStore with an upsert per file ID.
func (s *SQLiteBlobStore) Update(ctx context.Context, fileID string, data []byte, mimeType string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (id, data, mime_type, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			mime_type = excluded.mime_type,
			updated_at = CURRENT_TIMESTAMP`,
		fileID, data, mimeType)
	if err != nil {
		return fmt.Errorf("update file %s: %w", fileID, err)
	}
	slog.InfoContext(ctx, "File saved to SQLite", "file_id", fileID, "bytes", len(data), "mime_type", mimeType)
	return nil
}
