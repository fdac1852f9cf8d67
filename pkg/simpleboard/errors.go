package simpleboard

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrBoardNotFound indicates no active board matched the requested code or id
	ErrBoardNotFound = errors.New("board not found")

	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentNotFound indicates a comment was not found
	ErrCommentNotFound = errors.New("comment not found")

	// ErrContentNotFound indicates a content page was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrUploadFailed indicates an editor-image upload failed
	ErrUploadFailed = errors.New("upload failed")

	// ErrNotConfirmed indicates a destructive operation was declined at the
	// confirmation step and nothing was changed
	ErrNotConfirmed = errors.New("operation not confirmed")

	// ErrStorageBackendNotFound indicates a blob storage backend was not configured
	ErrStorageBackendNotFound = errors.New("storage backend not found")
)

// RequestError represents a transport-level failure talking to the
// persistence API. Status is zero when the request never produced a response.
type RequestError struct {
	Method string
	Path   string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s failed with status %d: %v", e.Method, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// CommentError represents an error related to a comment operation
type CommentError struct {
	CommentID int64
	Op        string
	Err       error
}

func (e *CommentError) Error() string {
	return fmt.Sprintf("comment operation %s failed for comment %d: %v", e.Op, e.CommentID, e.Err)
}

func (e *CommentError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
