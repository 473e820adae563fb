package storage

import (
	"context"
	"io"
)

// Storage is the publish target for finished videos. The local backend is
// the default so the pipeline runs with no cloud account; OSS serves the
// case where videos are shared from a bucket.
type Storage interface {
	// Upload stores the object under key and returns its access URL.
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)

	// Download opens the object for reading.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing object is not an
	// error.
	Delete(ctx context.Context, key string) error

	// GetURL returns an access URL for the object: presigned for
	// backends that support it, a plain public URL otherwise.
	GetURL(ctx context.Context, key string) (string, error)

	// Exists reports whether the object is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Type identifies the backend ("local", "oss").
	Type() string
}
