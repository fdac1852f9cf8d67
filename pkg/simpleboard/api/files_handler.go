package api

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-board/pkg/simpleboard"
)

// maxUploadSize bounds editor image uploads (10 MB).
const maxUploadSize = 10 << 20

// allowedImageExtensions is the editor upload allow-list.
var allowedImageExtensions = map[string]bool{
	".gif":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".svg":  true,
}

// FilesHandler handles editor image uploads and serves stored images for
// backends without their own URL surface.
type FilesHandler struct {
	store simpleboard.BlobStore
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(store simpleboard.BlobStore) *FilesHandler {
	return &FilesHandler{store: store}
}

// Routes returns the routes for the files surface
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload/editor", h.UploadEditorImage)
	r.Get("/images/*", h.ServeImage)

	return r
}

// uploadResponse is the editor upload envelope. The link field is the only
// thing upload callers read.
type uploadResponse struct {
	Data struct {
		Link string `json:"link"`
	} `json:"data"`
}

// UploadEditorImage accepts a multipart image upload from the post editor
// and responds with the URL to embed.
func (h *FilesHandler) UploadEditorImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		http.Error(w, "unsupported image type", http.StatusBadRequest)
		return
	}

	objectKey := "images/editor/" + uuid.New().String() + ext
	if err := h.store.Upload(r.Context(), objectKey, file); err != nil {
		slog.Error("Failed to upload editor image", "object_key", objectKey, "error", err)
		http.Error(w, "failed to store image", http.StatusInternalServerError)
		return
	}

	link, err := h.store.GetDownloadURL(r.Context(), objectKey)
	if err != nil {
		slog.Error("Failed to resolve image URL", "object_key", objectKey, "error", err)
		http.Error(w, "failed to resolve image url", http.StatusInternalServerError)
		return
	}

	var resp uploadResponse
	resp.Data.Link = link
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// ServeImage streams a stored image. S3-backed deployments serve presigned
// URLs directly and never hit this route.
func (h *FilesHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || strings.Contains(key, "..") {
		http.Error(w, "invalid object key", http.StatusBadRequest)
		return
	}

	reader, err := h.store.Download(r.Context(), "images/"+key)
	if err != nil {
		var serr *simpleboard.StorageError
		if errors.As(err, &serr) {
			http.Error(w, "image not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to read image", "object_key", key, "error", err)
		http.Error(w, "failed to read image", http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("Failed to stream image", "object_key", key, "error", err)
	}
}
