package simpleboard

import (
	"context"
	"io"
)

// ReaderClient is the end-user identity context over the persistence API.
// All operations are reads plus comment creation, which the upstream allows
// for authenticated end users.
type ReaderClient interface {
	// ListBoards returns the full board list, active and inactive
	ListBoards(ctx context.Context) ([]Board, error)

	// ListPosts returns one page of posts for a board (page is 1-based)
	ListPosts(ctx context.Context, boardID int64, page, size int) ([]Post, error)

	// GetPost returns a single post
	GetPost(ctx context.Context, boardID, postID int64) (*Post, error)

	// ListComments returns all comments for a post, newest first
	ListComments(ctx context.Context, boardID, postID int64) ([]Comment, error)

	// CreateComment creates a comment on a post
	CreateComment(ctx context.Context, boardID, postID int64, c NewComment) (*Comment, error)

	// GetContent returns an informational page by (type, ordinal)
	GetContent(ctx context.Context, contentType string, contentNum int) (*Content, error)
}

// ModeratorClient is the privileged identity context. Moderation is layered
// over otherwise end-user-facing resources, so this interface carries only
// the operations the administrative surface adds: authoring and deletion.
type ModeratorClient interface {
	// CreatePost submits an authored post (serialized markup body)
	CreatePost(ctx context.Context, boardID int64, p NewPost) (*Post, error)

	// GetPost returns a single post without affecting its view count
	GetPost(ctx context.Context, boardID, postID int64) (*Post, error)

	// DeleteComment removes a comment from a post
	DeleteComment(ctx context.Context, boardID, postID, commentID int64) error

	// GetContentByID returns an informational page by primary key
	GetContentByID(ctx context.Context, contentID int64) (*Content, error)

	// DeleteContent removes an informational page
	DeleteContent(ctx context.Context, contentID int64) error
}

// Confirmer gates destructive operations behind an explicit confirmation
// step. Implementations prompt the operator; tests substitute a canned
// answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Repository defines persistence for boards, posts, comments and content
// pages. It backs the built-in API server; the client interfaces above talk
// to that server over HTTP.
type Repository interface {
	// Board operations
	ListBoards(ctx context.Context) ([]Board, error)
	CreateBoard(ctx context.Context, b *Board) error

	// Post operations
	ListPosts(ctx context.Context, boardID int64, page, size int) ([]Post, int, error)
	GetPost(ctx context.Context, boardID, postID int64) (*Post, error)
	CreatePost(ctx context.Context, p *Post) error
	IncrementPostViews(ctx context.Context, postID int64) error

	// Comment operations
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
	CreateComment(ctx context.Context, c *Comment) error
	DeleteComment(ctx context.Context, postID, commentID int64) error

	// Content operations
	GetContent(ctx context.Context, contentType string, contentNum int) (*Content, error)
	GetContentByID(ctx context.Context, contentID int64) (*Content, error)
	CreateContent(ctx context.Context, c *Content) error
	DeleteContent(ctx context.Context, contentID int64) error
}

// BlobStore defines the interface for attachment and editor-image storage
// backends.
type BlobStore interface {
	// Upload stores an object
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download retrieves an object
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes an object
	Delete(ctx context.Context, objectKey string) error

	// GetDownloadURL returns a URL for fetching the object
	GetDownloadURL(ctx context.Context, objectKey string) (string, error)
}
