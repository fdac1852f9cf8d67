// Package api exposes the persistence API over HTTP with chi. The user
// surface serves reads and comment creation; the cms surface layers
// moderation and authoring on top, gated by an admin JWT.
//
// Response envelopes intentionally differ by endpoint generation: board and
// comment lists are wrapped in {"data": ...}, paged post lists use
// {"content": ...}, and single posts are returned bare. Clients decode all
// of them through the simpleboard envelope helpers.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-board/pkg/simpleboard"
)

// BoardHandler handles the end-user board endpoints.
type BoardHandler struct {
	repo simpleboard.Repository
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(repo simpleboard.Repository) *BoardHandler {
	return &BoardHandler{repo: repo}
}

// Routes returns the routes for the end-user board surface
func (h *BoardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListBoards)
	r.Route("/{boardID}/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/{postID}", h.GetPost)
		r.Get("/{postID}/comments", h.ListComments)
		r.Post("/{postID}/comments", h.CreateComment)
	})

	return r
}

// PostPageResponse is the paged post-list envelope.
type PostPageResponse struct {
	Content       []simpleboard.Post `json:"content"`
	Page          int                `json:"page"`
	Size          int                `json:"size"`
	TotalElements int                `json:"totalElements"`
}

// ListBoards returns the full board list, active and inactive. Clients
// filter on the use flag themselves when resolving codes.
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.repo.ListBoards(r.Context())
	if err != nil {
		slog.Error("Failed to list boards", "error", err)
		http.Error(w, "failed to list boards", http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, map[string]interface{}{"data": boards})
}

// ListPosts returns one page of a board's posts
func (h *BoardHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		http.Error(w, "invalid board id", http.StatusBadRequest)
		return
	}
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 10)

	posts, total, err := h.repo.ListPosts(r.Context(), boardID, page, size)
	if err != nil {
		slog.Error("Failed to list posts", "board_id", boardID, "error", err)
		http.Error(w, "failed to list posts", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, PostPageResponse{
		Content:       posts,
		Page:          page,
		Size:          size,
		TotalElements: total,
	})
}

// GetPost returns a single post and counts the view. The response is a
// bare post object (the oldest envelope generation still served).
func (h *BoardHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		http.Error(w, "invalid board id", http.StatusBadRequest)
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.repo.GetPost(r.Context(), boardID, postID)
	if err != nil {
		if errors.Is(err, simpleboard.ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get post", "board_id", boardID, "post_id", postID, "error", err)
		http.Error(w, "failed to get post", http.StatusInternalServerError)
		return
	}

	if err := h.repo.IncrementPostViews(r.Context(), postID); err != nil {
		// View counting must never break the read path.
		slog.Error("Failed to increment view count", "post_id", postID, "error", err)
	} else {
		post.ViewCount++
	}

	render.JSON(w, r, post)
}

// ListComments returns all comments for a post, newest first
func (h *BoardHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID")
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	comments, err := h.repo.ListComments(r.Context(), postID)
	if err != nil {
		slog.Error("Failed to list comments", "post_id", postID, "error", err)
		http.Error(w, "failed to list comments", http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, map[string]interface{}{"data": comments})
}

// CreateComment creates a comment on a post
func (h *BoardHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID")
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var req simpleboard.NewComment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}

	comment := &simpleboard.Comment{
		PostID:     postID,
		MemberID:   req.MemberID,
		MemberName: req.MemberName,
		Content:    req.Content,
	}
	if err := h.repo.CreateComment(r.Context(), comment); err != nil {
		if errors.Is(err, simpleboard.ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to create comment", "post_id", postID, "error", err)
		http.Error(w, "failed to create comment", http.StatusInternalServerError)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{"data": comment})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
