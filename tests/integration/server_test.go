package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-board/pkg/simpleboard"
	"github.com/tendant/simple-board/pkg/simpleboard/api"
	"github.com/tendant/simple-board/pkg/simpleboard/client"
	"github.com/tendant/simple-board/pkg/simpleboard/document"
	"github.com/tendant/simple-board/pkg/simpleboard/repo/memory"
	memorystorage "github.com/tendant/simple-board/pkg/simpleboard/storage/memory"
)

type env struct {
	server    *httptest.Server
	repo      *memory.Repository
	tokenAuth *jwtauth.JWTAuth
	boardID   int64
}

// setupEnv wires the full server the way cmd/server does, backed by the
// in-memory repository and blob store.
func setupEnv(t *testing.T) *env {
	t.Helper()

	repo := memory.New()
	store := memorystorage.New("/api/files")
	tokenAuth := jwtauth.New("HS256", []byte("integration-secret"), nil)

	board := &simpleboard.Board{Num: "01", Title: "Notice", Use: simpleboard.UseYes}
	require.NoError(t, repo.CreateBoard(context.Background(), board))

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Mount("/boards", api.NewBoardHandler(repo).Routes())
		r.Mount("/contents", api.NewContentHandler(repo).Routes())
		r.Mount("/files", api.NewFilesHandler(store).Routes())
		r.Mount("/cms", api.NewCmsHandler(repo, tokenAuth).Routes())
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &env{server: srv, repo: repo, tokenAuth: tokenAuth, boardID: board.ID}
}

func (e *env) token(t *testing.T, role string) string {
	t.Helper()
	_, tokenString, err := e.tokenAuth.Encode(map[string]interface{}{"sub": "it-admin", "role": role})
	require.NoError(t, err)
	return tokenString
}

func TestAuthorPublishReadFlow(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	reader := client.NewReader(e.server.URL)
	moderator := client.NewModerator(e.server.URL, e.token(t, "ADMIN"))
	uploader := client.NewImageUploader(e.server.URL, e.token(t, "ADMIN"))

	// Resolve the board by code against live server state.
	resolver := simpleboard.NewBoardResolver(reader)
	boardID, found, err := resolver.Resolve(ctx, "01")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, e.boardID, boardID)

	// Author a post with an inline image uploaded through the editor.
	editor := document.NewEditor(document.WithUploader(uploader))
	editor.InsertHeading(2, "Holiday schedule")
	editor.InsertParagraph("Closed Friday.")

	_, done := editor.InsertImageAsync(ctx, "schedule.png", "schedule", strings.NewReader("image-bytes"))
	res := <-done
	require.NoError(t, res.Err)
	require.NotEmpty(t, res.URL)

	// The uploaded image is fetchable at the returned link.
	resp, err := http.Get(e.server.URL + res.URL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image-bytes", string(body))

	markup := editor.Markup()
	assert.Contains(t, markup, "<h2>Holiday schedule</h2>")
	assert.Contains(t, markup, res.URL)

	post, err := moderator.CreatePost(ctx, boardID, simpleboard.NewPost{
		Title:   "Holiday schedule",
		Content: markup,
	})
	require.NoError(t, err)
	require.NotZero(t, post.ID)

	// Stored markup survives the round trip byte for byte.
	got, err := reader.GetPost(ctx, boardID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, markup, got.Content)
	assert.Equal(t, 1, got.ViewCount)

	// Reading through the cms surface does not count views.
	_, err = moderator.GetPost(ctx, boardID, post.ID)
	require.NoError(t, err)
	again, err := reader.GetPost(ctx, boardID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.ViewCount)

	posts, err := reader.ListPosts(ctx, boardID, 1, 5)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestCommentModerationFlow(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	reader := client.NewReader(e.server.URL)
	moderator := client.NewModerator(e.server.URL, e.token(t, "ADMIN"))

	post, err := moderator.CreatePost(ctx, e.boardID, simpleboard.NewPost{Title: "t", Content: "<p>b</p>"})
	require.NoError(t, err)

	first, err := reader.CreateComment(ctx, e.boardID, post.ID, simpleboard.NewComment{MemberID: "m1", Content: "first"})
	require.NoError(t, err)
	_, err = reader.CreateComment(ctx, e.boardID, post.ID, simpleboard.NewComment{MemberID: "m2", Content: "spam"})
	require.NoError(t, err)

	detail := simpleboard.NewDetailService(reader,
		simpleboard.WithModerator(moderator),
		simpleboard.WithConfirmer(simpleboard.ConfirmFunc(func(string) bool { return true })),
	)

	d := detail.LoadPost(ctx, e.boardID, post.ID)
	require.NoError(t, d.PostErr)
	require.NoError(t, d.CommentsErr)
	require.Len(t, d.Comments, 2)

	spamID := d.Comments[0].ID
	if d.Comments[0].Content != "spam" {
		spamID = d.Comments[1].ID
	}
	remaining, err := detail.DeleteComment(ctx, e.boardID, post.ID, spamID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, first.ID, remaining[0].ID)
}

func TestModerationRequiresAdminToken(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	cases := map[string]*client.Moderator{
		"no token":       client.NewModerator(e.server.URL, ""),
		"non-admin role": client.NewModerator(e.server.URL, e.token(t, "USER")),
		"garbage token":  client.NewModerator(e.server.URL, "not-a-jwt"),
	}
	for name, mod := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := mod.CreatePost(ctx, e.boardID, simpleboard.NewPost{Title: "x"})
			require.Error(t, err)
			var rerr *simpleboard.RequestError
			require.ErrorAs(t, err, &rerr)
			assert.Contains(t, []int{http.StatusUnauthorized, http.StatusForbidden}, rerr.Status)
		})
	}
}

func TestHomeScreenSkipsInactiveBoards(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	require.NoError(t, e.repo.CreateBoard(ctx, &simpleboard.Board{Num: "02", Title: "Retired", Use: simpleboard.UseNo}))
	require.NoError(t, e.repo.CreatePost(ctx, &simpleboard.Post{BoardID: e.boardID, Title: "p", RegDate: time.Now().UTC()}))

	reader := client.NewReader(e.server.URL)
	detail := simpleboard.NewDetailService(reader)

	sections, err := detail.LoadHome(ctx, "01", "02")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Notice", sections[0].Board.Title)
	require.Len(t, sections[0].Posts, 1)
}
