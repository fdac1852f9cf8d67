package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-board/pkg/simpleboard"
)

func TestReader_ListBoards_EnvelopeVariants(t *testing.T) {
	bodies := map[string]string{
		"bare array": `[{"boardId":1,"boardNum":"01","boardUse":"Y"}]`,
		"data wrap":  `{"data":[{"boardId":1,"boardNum":"01","boardUse":"Y"}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/boards", r.URL.Path)
				w.Write([]byte(body))
			}))
			defer srv.Close()

			boards, err := NewReader(srv.URL).ListBoards(context.Background())
			require.NoError(t, err)
			require.Len(t, boards, 1)
			assert.Equal(t, "01", boards[0].Num)
		})
	}
}

func TestReader_ListPosts_PagedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/boards/3/posts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("size"))
		w.Write([]byte(`{"content":[{"postId":9,"postTitle":"t"}],"totalElements":11}`))
	}))
	defer srv.Close()

	posts, err := NewReader(srv.URL).ListPosts(context.Background(), 3, 2, 5)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(9), posts[0].ID)
}

func TestReader_GetPost_NotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "post not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewReader(srv.URL).GetPost(context.Background(), 1, 99)
	require.Error(t, err)
	var rerr *simpleboard.RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusNotFound, rerr.Status)
}

func TestReader_GetPost_NullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	_, err := NewReader(srv.URL).GetPost(context.Background(), 1, 99)
	require.ErrorIs(t, err, simpleboard.ErrPostNotFound)
}

func TestReader_CreateComment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/boards/1/posts/2/comments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req simpleboard.NewComment
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nice post", req.Content)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"commentsId":5,"postId":2,"content":"nice post"}}`))
	}))
	defer srv.Close()

	c, err := NewReader(srv.URL).CreateComment(context.Background(), 1, 2, simpleboard.NewComment{Content: "nice post"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), c.ID)
}

func TestReader_GetContent_PathEscaping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contents/gym/2", r.URL.Path)
		w.Write([]byte(`{"data":{"contentId":1,"contentType":"gym","contentNum":2,"contentUse":"Y"}}`))
	}))
	defer srv.Close()

	c, err := NewReader(srv.URL).GetContent(context.Background(), "gym", 2)
	require.NoError(t, err)
	assert.Equal(t, "gym", c.Type)
}

func TestReader_TokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewReader(srv.URL, WithToken("user-token")).ListBoards(context.Background())
	require.NoError(t, err)
}

func TestModerator_CreatePost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cms/boards/4/posts", r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"postId":12,"boardId":4,"postTitle":"t"}}`))
	}))
	defer srv.Close()

	p, err := NewModerator(srv.URL, "admin-token").CreatePost(context.Background(), 4, simpleboard.NewPost{Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.ID)
}

func TestModerator_DeleteComment(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"status":"deleted"}`))
	}))
	defer srv.Close()

	err := NewModerator(srv.URL, "admin-token").DeleteComment(context.Background(), 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/cms/boards/1/posts/2/comments/3", gotPath)
}

func TestModerator_DeleteContent_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewModerator(srv.URL, "stale-token").DeleteContent(context.Background(), 7)
	var rerr *simpleboard.RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusForbidden, rerr.Status)
}

func TestClient_TrailingSlashBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/boards", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewReader(srv.URL + "/").ListBoards(context.Background())
	require.NoError(t, err)
}
