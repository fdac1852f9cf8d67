package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/tendant/simple-board/pkg/simpleboard"
)

// CmsHandler handles the moderation and authoring surface. Every route
// requires a verified JWT whose role claim is ADMIN.
type CmsHandler struct {
	repo simpleboard.Repository
	auth *jwtauth.JWTAuth
}

// NewCmsHandler creates a new cms handler
func NewCmsHandler(repo simpleboard.Repository, auth *jwtauth.JWTAuth) *CmsHandler {
	return &CmsHandler{repo: repo, auth: auth}
}

// Routes returns the routes for the cms surface
func (h *CmsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(jwtauth.Verifier(h.auth))
	r.Use(jwtauth.Authenticator)
	r.Use(RequireAdmin)

	r.Route("/boards/{boardID}/posts", func(r chi.Router) {
		r.Post("/", h.CreatePost)
		r.Get("/{postID}", h.GetPost)
		r.Delete("/{postID}/comments/{commentID}", h.DeleteComment)
	})
	r.Route("/contents", func(r chi.Router) {
		r.Get("/{contentID}", h.GetContent)
		r.Delete("/{contentID}", h.DeleteContent)
	})

	return r
}

// RequireAdmin rejects verified tokens that do not carry the ADMIN role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		role, _ := claims["role"].(string)
		if role != "ADMIN" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreatePost creates a post on a board
func (h *CmsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		http.Error(w, "invalid board id", http.StatusBadRequest)
		return
	}

	var req simpleboard.NewPost
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	post := &simpleboard.Post{
		BoardID:  boardID,
		Title:    req.Title,
		Content:  req.Content,
		FilePath: req.FilePath,
		MemberID: req.MemberID,
	}
	if err := h.repo.CreatePost(r.Context(), post); err != nil {
		if errors.Is(err, simpleboard.ErrBoardNotFound) {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to create post", "board_id", boardID, "error", err)
		http.Error(w, "failed to create post", http.StatusInternalServerError)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{"data": post})
}

// GetPost returns a post without counting a view. Moderators previewing a
// post must not inflate its view count.
func (h *CmsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
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

	render.JSON(w, r, post)
}

// DeleteComment removes a comment from a post
func (h *CmsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID")
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	commentID, err := pathID(r, "commentID")
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	if err := h.repo.DeleteComment(r.Context(), postID, commentID); err != nil {
		if errors.Is(err, simpleboard.ErrCommentNotFound) {
			http.Error(w, "comment not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to delete comment", "post_id", postID, "comment_id", commentID, "error", err)
		http.Error(w, "failed to delete comment", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// GetContent returns a content page by id, regardless of its use flag
func (h *CmsHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	contentID, err := pathID(r, "contentID")
	if err != nil {
		http.Error(w, "invalid content id", http.StatusBadRequest)
		return
	}

	content, err := h.repo.GetContentByID(r.Context(), contentID)
	if err != nil {
		if errors.Is(err, simpleboard.ErrContentNotFound) {
			http.Error(w, "content not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get content", "content_id", contentID, "error", err)
		http.Error(w, "failed to get content", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, map[string]interface{}{"data": content})
}

// DeleteContent removes a content page
func (h *CmsHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	contentID, err := pathID(r, "contentID")
	if err != nil {
		http.Error(w, "invalid content id", http.StatusBadRequest)
		return
	}

	if err := h.repo.DeleteContent(r.Context(), contentID); err != nil {
		if errors.Is(err, simpleboard.ErrContentNotFound) {
			http.Error(w, "content not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to delete content", "content_id", contentID, "error", err)
		http.Error(w, "failed to delete content", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, map[string]string{"status": "deleted"})
}
