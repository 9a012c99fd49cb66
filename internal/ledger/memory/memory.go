// Package memory is an in-memory blob store for tests and local
// development, mirroring the remote store's whole-file contract.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	mu    sync.Mutex
	files map[string][]byte

	// FailFetches and FailUpdates make the next n calls fail; tests use
	// them to exercise the retry path.
	FailFetches int
	FailUpdates int
	Err         error
}

func New() *Store {
	return &Store{files: make(map[string][]byte)}
}

// Fetch returns the stored bytes. Absent files return empty bytes, not an
// error, matching the remote store's behaviour for empty files.
func (s *Store) Fetch(_ context.Context, fileID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFetches > 0 {
		s.FailFetches--
		return nil, s.Err
	}
	return append([]byte(nil), s.files[fileID]...), nil
}

func (s *Store) Update(_ context.Context, fileID string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdates > 0 {
		s.FailUpdates--
		return s.Err
	}
	s.files[fileID] = append([]byte(nil), data...)
	return nil
}

// Put stores bytes directly, bypassing the failure counters.
func (s *Store) Put(fileID string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileID] = append([]byte(nil), data...)
}
