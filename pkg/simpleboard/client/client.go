// Package client provides HTTP implementations of the simpleboard client
// interfaces against the persistence API.
//
// The two identity contexts are separate types constructed separately: a
// Reader carries end-user credentials (or none) and can only read and
// comment; a Moderator carries a privileged token and adds authoring and
// deletion. Nothing is ambient — a component that needs both contexts is
// handed both clients explicitly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tendant/simple-board/pkg/simpleboard"
)

// Option configures a Reader or Moderator.
type Option func(*base)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(b *base) { b.hc = hc }
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(b *base) { b.token = token }
}

type base struct {
	hc    *http.Client
	url   string
	token string
}

func newBase(baseURL string, opts ...Option) base {
	b := base{hc: http.DefaultClient, url: trimSlash(baseURL)}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// do issues a request and returns the raw response body. Any non-2xx status
// or transport failure is a RequestError; there is no retry.
func (b *base) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &simpleboard.RequestError{Method: method, Path: path, Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.url+path, reader)
	if err != nil {
		return nil, &simpleboard.RequestError{Method: method, Path: path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.hc.Do(req)
	if err != nil {
		return nil, &simpleboard.RequestError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &simpleboard.RequestError{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &simpleboard.RequestError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}
	return payload, nil
}

// Reader is the end-user identity context.
type Reader struct {
	base
}

var _ simpleboard.ReaderClient = (*Reader)(nil)

// NewReader creates a reader client for the persistence API at baseURL.
func NewReader(baseURL string, opts ...Option) *Reader {
	return &Reader{base: newBase(baseURL, opts...)}
}

func (r *Reader) ListBoards(ctx context.Context) ([]simpleboard.Board, error) {
	body, err := r.do(ctx, http.MethodGet, "/api/boards", nil)
	if err != nil {
		return nil, err
	}
	return simpleboard.DecodeList[simpleboard.Board](body), nil
}

func (r *Reader) ListPosts(ctx context.Context, boardID int64, page, size int) ([]simpleboard.Post, error) {
	path := fmt.Sprintf("/api/boards/%d/posts?page=%d&size=%d", boardID, page, size)
	body, err := r.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return simpleboard.DecodePage[simpleboard.Post](body), nil
}

func (r *Reader) GetPost(ctx context.Context, boardID, postID int64) (*simpleboard.Post, error) {
	body, err := r.do(ctx, http.MethodGet, fmt.Sprintf("/api/boards/%d/posts/%d", boardID, postID), nil)
	if err != nil {
		return nil, err
	}
	post, ok := simpleboard.DecodeItem[simpleboard.Post](body)
	if !ok {
		return nil, simpleboard.ErrPostNotFound
	}
	return &post, nil
}

func (r *Reader) ListComments(ctx context.Context, boardID, postID int64) ([]simpleboard.Comment, error) {
	path := fmt.Sprintf("/api/boards/%d/posts/%d/comments", boardID, postID)
	body, err := r.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return simpleboard.DecodeList[simpleboard.Comment](body), nil
}

func (r *Reader) CreateComment(ctx context.Context, boardID, postID int64, c simpleboard.NewComment) (*simpleboard.Comment, error) {
	path := fmt.Sprintf("/api/boards/%d/posts/%d/comments", boardID, postID)
	body, err := r.do(ctx, http.MethodPost, path, c)
	if err != nil {
		return nil, err
	}
	created, ok := simpleboard.DecodeItem[simpleboard.Comment](body)
	if !ok {
		return nil, simpleboard.ErrCommentNotFound
	}
	return &created, nil
}

func (r *Reader) GetContent(ctx context.Context, contentType string, contentNum int) (*simpleboard.Content, error) {
	path := fmt.Sprintf("/api/contents/%s/%d", url.PathEscape(contentType), contentNum)
	body, err := r.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	content, ok := simpleboard.DecodeItem[simpleboard.Content](body)
	if !ok {
		return nil, simpleboard.ErrContentNotFound
	}
	return &content, nil
}

// Moderator is the privileged identity context. The token is required; the
// server rejects moderation calls without a valid admin credential.
type Moderator struct {
	base
}

var _ simpleboard.ModeratorClient = (*Moderator)(nil)

// NewModerator creates a moderation client with the given admin token.
func NewModerator(baseURL, token string, opts ...Option) *Moderator {
	opts = append([]Option{WithToken(token)}, opts...)
	return &Moderator{base: newBase(baseURL, opts...)}
}

func (m *Moderator) CreatePost(ctx context.Context, boardID int64, p simpleboard.NewPost) (*simpleboard.Post, error) {
	body, err := m.do(ctx, http.MethodPost, fmt.Sprintf("/api/cms/boards/%d/posts", boardID), p)
	if err != nil {
		return nil, err
	}
	created, ok := simpleboard.DecodeItem[simpleboard.Post](body)
	if !ok {
		return nil, simpleboard.ErrPostNotFound
	}
	return &created, nil
}

func (m *Moderator) GetPost(ctx context.Context, boardID, postID int64) (*simpleboard.Post, error) {
	body, err := m.do(ctx, http.MethodGet, fmt.Sprintf("/api/cms/boards/%d/posts/%d", boardID, postID), nil)
	if err != nil {
		return nil, err
	}
	post, ok := simpleboard.DecodeItem[simpleboard.Post](body)
	if !ok {
		return nil, simpleboard.ErrPostNotFound
	}
	return &post, nil
}

func (m *Moderator) DeleteComment(ctx context.Context, boardID, postID, commentID int64) error {
	path := fmt.Sprintf("/api/cms/boards/%d/posts/%d/comments/%d", boardID, postID, commentID)
	_, err := m.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (m *Moderator) GetContentByID(ctx context.Context, contentID int64) (*simpleboard.Content, error) {
	body, err := m.do(ctx, http.MethodGet, fmt.Sprintf("/api/cms/contents/%d", contentID), nil)
	if err != nil {
		return nil, err
	}
	content, ok := simpleboard.DecodeItem[simpleboard.Content](body)
	if !ok {
		return nil, simpleboard.ErrContentNotFound
	}
	return &content, nil
}

func (m *Moderator) DeleteContent(ctx context.Context, contentID int64) error {
	_, err := m.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cms/contents/%d", contentID), nil)
	return err
}
