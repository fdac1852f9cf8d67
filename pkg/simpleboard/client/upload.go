package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/tendant/simple-board/pkg/simpleboard"
)

// editorUploadPath is where the persistence API accepts editor images.
const editorUploadPath = "/api/files/upload/editor"

// ImageUploader uploads editor images out of band. It implements
// document.Uploader; the privileged token is the moderation context's, since
// only authors upload inline images.
type ImageUploader struct {
	base
}

// NewImageUploader creates an uploader against the persistence API at
// baseURL with the given admin token.
func NewImageUploader(baseURL, token string, opts ...Option) *ImageUploader {
	opts = append([]Option{WithToken(token)}, opts...)
	return &ImageUploader{base: newBase(baseURL, opts...)}
}

type uploadEnvelope struct {
	Data struct {
		Link string `json:"link"`
	} `json:"data"`
}

// UploadImage posts the image as multipart form data and returns the remote
// URL from the { "data": { "link": ... } } response envelope. Any non-2xx
// status or malformed response is an upload failure; the caller decides
// whether to retry.
func (u *ImageUploader) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", simpleboard.ErrUploadFailed, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("%w: %v", simpleboard.ErrUploadFailed, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", simpleboard.ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url+editorUploadPath, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", simpleboard.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if u.token != "" {
		req.Header.Set("Authorization", "Bearer "+u.token)
	}

	resp, err := u.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", simpleboard.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status %s", simpleboard.ErrUploadFailed, resp.Status)
	}

	var env uploadEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", simpleboard.ErrUploadFailed, err)
	}
	if env.Data.Link == "" {
		return "", fmt.Errorf("%w: response missing link", simpleboard.ErrUploadFailed)
	}
	return env.Data.Link, nil
}
