package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-board/pkg/simpleboard"
)

func TestImageUploader_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/files/upload/editor", r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.png", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "image-bytes", string(data))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"link":"http://files.example.com/images/editor/abc.png"}}`))
	}))
	defer srv.Close()

	up := NewImageUploader(srv.URL, "admin-token")
	url, err := up.UploadImage(context.Background(), "photo.png", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://files.example.com/images/editor/abc.png", url)
}

func TestImageUploader_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	up := NewImageUploader(srv.URL, "admin-token")
	_, err := up.UploadImage(context.Background(), "photo.png", strings.NewReader("x"))
	require.ErrorIs(t, err, simpleboard.ErrUploadFailed)
}

func TestImageUploader_MissingLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	up := NewImageUploader(srv.URL, "admin-token")
	_, err := up.UploadImage(context.Background(), "photo.png", strings.NewReader("x"))
	require.ErrorIs(t, err, simpleboard.ErrUploadFailed)
}

func TestImageUploader_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	up := NewImageUploader(srv.URL, "admin-token")
	_, err := up.UploadImage(context.Background(), "photo.png", strings.NewReader("x"))
	require.ErrorIs(t, err, simpleboard.ErrUploadFailed)
}
