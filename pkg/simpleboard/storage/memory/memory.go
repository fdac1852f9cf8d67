// Package memory provides an in-memory simpleboard.BlobStore for tests and
// the default standalone-server mode.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tendant/simple-board/pkg/simpleboard"
)

// Backend is an in-memory implementation of the simpleboard.BlobStore interface
type Backend struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	urlPrefix string
}

// New creates a new in-memory storage backend. urlPrefix is prepended when
// deriving download URLs; it may be empty when the server serves objects
// itself.
func New(urlPrefix string) *Backend {
	return &Backend{
		objects:   make(map[string][]byte),
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}
}

var _ simpleboard.BlobStore = (*Backend)(nil)

// Upload stores the object in memory
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return &simpleboard.StorageError{Backend: "memory", Key: objectKey, Op: "upload", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectKey] = data
	return nil
}

// Download retrieves the object from memory
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, &simpleboard.StorageError{Backend: "memory", Key: objectKey, Op: "download", Err: fmt.Errorf("object not found")}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object from memory
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return &simpleboard.StorageError{Backend: "memory", Key: objectKey, Op: "delete", Err: fmt.Errorf("object not found")}
	}
	delete(b.objects, objectKey)
	return nil
}

// GetDownloadURL returns the object's URL under the configured prefix
func (b *Backend) GetDownloadURL(ctx context.Context, objectKey string) (string, error) {
	return b.urlPrefix + "/" + strings.TrimPrefix(objectKey, "/"), nil
}
