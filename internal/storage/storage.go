// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup;
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrObjectExists is returned by Upload when the key is already taken.
// Keys from NewObjectKey make this practically unreachable.
var ErrObjectExists = errors.New("object already exists")

// Storage is the interface for uploading and removing objects.
type Storage interface {
	// Upload streams data to the store under the given key. An existing
	// object under the same key is never overwritten; the call fails instead.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Remove deletes the named objects, returning a per-key result.
	// A nil map value means the object was removed.
	Remove(ctx context.Context, keys []string) map[string]error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

// NewObjectKey generates a collision-resistant object name with the given
// extension by combining the current Unix-millis timestamp with random bits.
func NewObjectKey(ext string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}
