package ledger

import "context"

// BlobStore is the whole-file surface of the remote storage service.
// Fetch returns empty bytes (not an error) when the file exists but is
// empty; Update replaces the file's content wholesale.
type BlobStore interface {
	Fetch(ctx context.Context, fileID string) ([]byte, error)
	Update(ctx context.Context, fileID string, data []byte, mimeType string) error
}
