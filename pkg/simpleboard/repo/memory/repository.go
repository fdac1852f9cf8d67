// Package memory implements simpleboard.Repository with in-memory maps.
// It backs the standalone server's default mode and the package tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tendant/simple-board/pkg/simpleboard"
)

// Repository implements simpleboard.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	boards   map[int64]*simpleboard.Board
	posts    map[int64]*simpleboard.Post
	comments map[int64]*simpleboard.Comment
	contents map[int64]*simpleboard.Content

	nextBoardID   int64
	nextPostID    int64
	nextCommentID int64
	nextContentID int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		boards:   make(map[int64]*simpleboard.Board),
		posts:    make(map[int64]*simpleboard.Post),
		comments: make(map[int64]*simpleboard.Comment),
		contents: make(map[int64]*simpleboard.Content),
	}
}

var _ simpleboard.Repository = (*Repository)(nil)

// Board operations

func (r *Repository) ListBoards(ctx context.Context) ([]simpleboard.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]simpleboard.Board, 0, len(r.boards))
	for _, b := range r.boards {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) CreateBoard(ctx context.Context, b *simpleboard.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == 0 {
		r.nextBoardID++
		b.ID = r.nextBoardID
	} else if b.ID > r.nextBoardID {
		r.nextBoardID = b.ID
	}
	boardCopy := *b
	r.boards[b.ID] = &boardCopy
	return nil
}

// Post operations

func (r *Repository) ListPosts(ctx context.Context, boardID int64, page, size int) ([]simpleboard.Post, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []simpleboard.Post
	for _, p := range r.posts {
		if p.BoardID == boardID {
			all = append(all, *p)
		}
	}
	// Newest first
	sort.Slice(all, func(i, j int) bool {
		if all[i].RegDate.Equal(all[j].RegDate) {
			return all[i].ID > all[j].ID
		}
		return all[i].RegDate.After(all[j].RegDate)
	})

	total := len(all)
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	start := (page - 1) * size
	if start >= total {
		return []simpleboard.Post{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *Repository) GetPost(ctx context.Context, boardID, postID int64) (*simpleboard.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.posts[postID]
	if !exists || p.BoardID != boardID {
		return nil, simpleboard.ErrPostNotFound
	}
	postCopy := *p
	return &postCopy, nil
}

func (r *Repository) CreatePost(ctx context.Context, p *simpleboard.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		r.nextPostID++
		p.ID = r.nextPostID
	} else if p.ID > r.nextPostID {
		r.nextPostID = p.ID
	}
	if p.RegDate.IsZero() {
		p.RegDate = time.Now().UTC()
	}
	postCopy := *p
	r.posts[p.ID] = &postCopy
	return nil
}

func (r *Repository) IncrementPostViews(ctx context.Context, postID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.posts[postID]
	if !exists {
		return simpleboard.ErrPostNotFound
	}
	p.ViewCount++
	return nil
}

// Comment operations

func (r *Repository) ListComments(ctx context.Context, postID int64) ([]simpleboard.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []simpleboard.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			result = append(result, *c)
		}
	}
	// Newest first, matching the upstream ORDER BY comment_reg_date DESC
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) CreateComment(ctx context.Context, c *simpleboard.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[c.PostID]; !exists {
		return simpleboard.ErrPostNotFound
	}
	if c.ID == 0 {
		r.nextCommentID++
		c.ID = r.nextCommentID
	} else if c.ID > r.nextCommentID {
		r.nextCommentID = c.ID
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	commentCopy := *c
	r.comments[c.ID] = &commentCopy
	return nil
}

func (r *Repository) DeleteComment(ctx context.Context, postID, commentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.comments[commentID]
	if !exists || c.PostID != postID {
		return simpleboard.ErrCommentNotFound
	}
	delete(r.comments, commentID)
	return nil
}

// Content operations

func (r *Repository) GetContent(ctx context.Context, contentType string, contentNum int) (*simpleboard.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.contents {
		if c.Type == contentType && c.Num == contentNum && c.Use == simpleboard.UseYes {
			contentCopy := *c
			return &contentCopy, nil
		}
	}
	return nil, simpleboard.ErrContentNotFound
}

func (r *Repository) GetContentByID(ctx context.Context, contentID int64) (*simpleboard.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.contents[contentID]
	if !exists {
		return nil, simpleboard.ErrContentNotFound
	}
	contentCopy := *c
	return &contentCopy, nil
}

func (r *Repository) CreateContent(ctx context.Context, c *simpleboard.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == 0 {
		r.nextContentID++
		c.ID = r.nextContentID
	} else if c.ID > r.nextContentID {
		r.nextContentID = c.ID
	}
	if c.RegDate.IsZero() {
		c.RegDate = time.Now().UTC()
	}
	if c.Use == "" {
		c.Use = simpleboard.UseYes
	}
	contentCopy := *c
	r.contents[c.ID] = &contentCopy
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, contentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[contentID]; !exists {
		return simpleboard.ErrContentNotFound
	}
	delete(r.contents, contentID)
	return nil
}
