// Package fs provides a filesystem simpleboard.BlobStore. Objects live
// under a base directory; download URLs are derived from a configured
// prefix served by the file host.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-board/pkg/simpleboard"
)

// Backend is a filesystem implementation of the simpleboard.BlobStore interface
type Backend struct {
	baseDir   string
	urlPrefix string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir   string // Base directory for storing files
	URLPrefix string // URL prefix for derived download URLs
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: strings.TrimSuffix(config.URLPrefix, "/"),
	}, nil
}

var _ simpleboard.BlobStore = (*Backend)(nil)

// Upload writes the object under the base directory
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	filePath, err := b.path(objectKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return &simpleboard.StorageError{Backend: "fs", Key: objectKey, Op: "upload", Err: err}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return &simpleboard.StorageError{Backend: "fs", Key: objectKey, Op: "upload", Err: err}
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return &simpleboard.StorageError{Backend: "fs", Key: objectKey, Op: "upload", Err: err}
	}
	return nil
}

// Download opens the object file
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	filePath, err := b.path(objectKey)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, &simpleboard.StorageError{Backend: "fs", Key: objectKey, Op: "download", Err: errors.New("object not found")}
	} else if err != nil {
		return nil, &simpleboard.StorageError{Backend: "fs", Key: objectKey, Op: "download", Err: err}
	}
	return file, nil
}

// Delete removes the object file and any directories it leaves empty
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath, err := b.path(objectKey)
	if err != nil {
		return err
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return &simpleboard.StorageError{Backend: "fs", Key: objectKey, Op: "delete", Err: errors.New("object not found")}
	}
	if err := os.Remove(filePath); err != nil {
		return &simpleboard.StorageError{Backend: "fs", Key: objectKey, Op: "delete", Err: err}
	}
	b.cleanupEmptyDirectories(filepath.Dir(filePath))
	return nil
}

// GetDownloadURL returns the object's URL under the configured prefix
func (b *Backend) GetDownloadURL(ctx context.Context, objectKey string) (string, error) {
	return b.urlPrefix + "/" + strings.TrimPrefix(objectKey, "/"), nil
}

// path resolves an object key inside the base directory, rejecting keys
// that escape it.
func (b *Backend) path(objectKey string) (string, error) {
	cleaned := filepath.Clean("/" + objectKey)
	if cleaned == "/" {
		return "", &simpleboard.StorageError{Backend: "fs", Key: objectKey, Op: "resolve", Err: errors.New("empty object key")}
	}
	return filepath.Join(b.baseDir, cleaned), nil
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir {
		return
	}
	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
