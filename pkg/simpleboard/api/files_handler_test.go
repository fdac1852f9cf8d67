package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	memorystorage "github.com/tendant/simple-board/pkg/simpleboard/storage/memory"
)

func setupFilesHandlerTest(t *testing.T) (*chi.Mux, *memorystorage.Backend) {
	t.Helper()
	store := memorystorage.New("http://localhost:8181/api/files")
	router := chi.NewRouter()
	router.Mount("/api/files", NewFilesHandler(store).Routes())
	return router, store
}

func multipartImage(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestFilesHandler_UploadEditorImage(t *testing.T) {
	router, store := setupFilesHandlerTest(t)

	body, contentType := multipartImage(t, "image", "photo.png", "png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload/editor", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Link)
	assert.True(t, strings.HasPrefix(resp.Data.Link, "http://localhost:8181/api/files/images/editor/"))
	assert.True(t, strings.HasSuffix(resp.Data.Link, ".png"))

	// The stored object is retrievable under the key embedded in the link.
	key := strings.TrimPrefix(resp.Data.Link, "http://localhost:8181/api/files/")
	rc, err := store.Download(context.Background(), key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestFilesHandler_UploadRejectsDisallowedExtension(t *testing.T) {
	router, _ := setupFilesHandlerTest(t)

	for _, filename := range []string{"script.exe", "page.html", "noext"} {
		body, contentType := multipartImage(t, "image", filename, "x")
		req := httptest.NewRequest(http.MethodPost, "/api/files/upload/editor", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "filename %s", filename)
	}
}

func TestFilesHandler_UploadRequiresImageField(t *testing.T) {
	router, _ := setupFilesHandlerTest(t)

	body, contentType := multipartImage(t, "file", "photo.png", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload/editor", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilesHandler_ServeImage(t *testing.T) {
	router, store := setupFilesHandlerTest(t)
	require.NoError(t, store.Upload(context.Background(), "images/editor/x.png", strings.NewReader("png-bytes")))

	req := httptest.NewRequest(http.MethodGet, "/api/files/images/editor/x.png", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestFilesHandler_ServeImage_NotFound(t *testing.T) {
	router, _ := setupFilesHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/files/images/editor/missing.png", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
