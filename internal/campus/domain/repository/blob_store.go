package repository

import "context"

// BlobStore is the object-storage boundary. Upload stores one file and
// returns a publicly dereferenceable URL. Input-side validation (size
// ceiling, MIME prefix) is the caller's job; the boundary only surfaces
// the store's own failure reasons.
type BlobStore interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}
