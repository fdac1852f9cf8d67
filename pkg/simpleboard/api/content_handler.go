package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-board/pkg/simpleboard"
)

// ContentHandler handles the end-user content page endpoints.
type ContentHandler struct {
	repo simpleboard.Repository
}

// NewContentHandler creates a new content handler
func NewContentHandler(repo simpleboard.Repository) *ContentHandler {
	return &ContentHandler{repo: repo}
}

// Routes returns the routes for the end-user content surface
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{contentType}/{contentNum}", h.GetContent)

	return r
}

// GetContent returns an active content page by type and ordinal. Pages
// whose use flag is N are absent from this surface.
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	contentType := chi.URLParam(r, "contentType")
	contentNum, err := strconv.Atoi(chi.URLParam(r, "contentNum"))
	if err != nil {
		http.Error(w, "invalid content number", http.StatusBadRequest)
		return
	}

	content, err := h.repo.GetContent(r.Context(), contentType, contentNum)
	if err != nil {
		if errors.Is(err, simpleboard.ErrContentNotFound) {
			http.Error(w, "content not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get content", "content_type", contentType, "content_num", contentNum, "error", err)
		http.Error(w, "failed to get content", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, map[string]interface{}{"data": content})
}
