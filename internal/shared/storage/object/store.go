package object

import (
	"context"
	"errors"
	"io"
)

// ErrMissingCredentials indicates the remote store is not configured.
var ErrMissingCredentials = errors.New("object storage credentials are missing")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	// Save uploads the reader contents under a generated storage key and
	// returns the key, size written, and sniffed MIME type.
	Save(ctx context.Context, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// Open downloads a stored object for reading.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// URL returns a stable reference URL for a stored object.
	URL(storageKey string) string
	// Provider names the backing storage provider.
	Provider() string
}
