package simpleboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// DetailService retrieves content items and their comments through two
// capability-scoped clients: the reader (end-user context) for fetches and
// the moderator (administrative context) for destructive operations. Both
// are passed in explicitly so tests can fake each context independently.
type DetailService struct {
	reader    ReaderClient
	moderator ModeratorClient
	confirm   Confirmer
	fileBase  string
}

// DetailOption configures a DetailService.
type DetailOption func(*DetailService)

// WithModerator attaches the privileged client. Without it every moderation
// call fails; read paths are unaffected.
func WithModerator(m ModeratorClient) DetailOption {
	return func(s *DetailService) { s.moderator = m }
}

// WithConfirmer gates destructive operations behind the given confirmation
// step. Without one, destructive calls proceed unprompted.
func WithConfirmer(c Confirmer) DetailOption {
	return func(s *DetailService) { s.confirm = c }
}

// WithFileBaseURL sets the static file host used to derive attachment
// download URLs.
func WithFileBaseURL(base string) DetailOption {
	return func(s *DetailService) { s.fileBase = base }
}

// NewDetailService creates a detail service over the given reader client.
func NewDetailService(reader ReaderClient, opts ...DetailOption) *DetailService {
	s := &DetailService{reader: reader}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PostDetail is the reconciled result of one page-load sequence. The post
// fetch and the comment fetch run independently; each half carries its own
// error so a failed comment fetch never voids an already-resolved post.
type PostDetail struct {
	Post        *Post
	PostErr     error
	Comments    []Comment
	CommentsErr error

	// AttachmentURL is derived from the post's stored file path, empty when
	// the post has no attachment or the post fetch failed.
	AttachmentURL string
}

// LoadPost fetches a post and its comments concurrently. Neither fetch
// blocks the other; the call returns when both have settled.
func (s *DetailService) LoadPost(ctx context.Context, boardID, postID int64) PostDetail {
	var d PostDetail
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		d.Post, d.PostErr = s.reader.GetPost(ctx, boardID, postID)
	}()
	go func() {
		defer wg.Done()
		d.Comments, d.CommentsErr = s.reader.ListComments(ctx, boardID, postID)
	}()
	wg.Wait()

	if d.PostErr != nil {
		slog.Error("post fetch failed", "board_id", boardID, "post_id", postID, "error", d.PostErr)
	}
	if d.CommentsErr != nil {
		slog.Error("comment fetch failed", "board_id", boardID, "post_id", postID, "error", d.CommentsErr)
	}
	if d.Comments == nil {
		d.Comments = []Comment{}
	}
	if d.Post != nil && d.Post.FilePath != "" {
		d.AttachmentURL = ResolveDownloadURL(d.Post.FilePath, s.fileBase)
	}
	return d
}

// DeleteComment removes a comment through the moderation context, gated by
// the confirmation step, then re-fetches the full comment list through the
// reader. The returned list always reflects server state; the caller must
// replace its local list with it rather than splicing the deleted entry out.
func (s *DetailService) DeleteComment(ctx context.Context, boardID, postID, commentID int64) ([]Comment, error) {
	if s.moderator == nil {
		return nil, &CommentError{CommentID: commentID, Op: "delete", Err: fmt.Errorf("no moderator context")}
	}
	if s.confirm != nil && !s.confirm.Confirm(fmt.Sprintf("delete comment %d?", commentID)) {
		return nil, ErrNotConfirmed
	}

	if err := s.moderator.DeleteComment(ctx, boardID, postID, commentID); err != nil {
		return nil, &CommentError{CommentID: commentID, Op: "delete", Err: err}
	}

	comments, err := s.reader.ListComments(ctx, boardID, postID)
	if err != nil {
		// The deletion itself succeeded; surface the refresh failure so the
		// caller can retry the fetch without repeating the delete.
		return nil, &CommentError{CommentID: commentID, Op: "refresh after delete", Err: err}
	}
	return comments, nil
}

// ContentDetail is a resolved informational page plus its derived
// attachment link.
type ContentDetail struct {
	Content       *Content
	AttachmentURL string
}

// LoadContent fetches an informational page through the end-user surface,
// addressed by (type, ordinal).
func (s *DetailService) LoadContent(ctx context.Context, contentType string, contentNum int) (*ContentDetail, error) {
	c, err := s.reader.GetContent(ctx, contentType, contentNum)
	if err != nil {
		return nil, err
	}
	return s.contentDetail(c), nil
}

// LoadContentByID fetches an informational page through the administrative
// surface, addressed by primary key. The attachment URL it derives is
// byte-identical to the one LoadContent derives for the same stored path.
func (s *DetailService) LoadContentByID(ctx context.Context, contentID int64) (*ContentDetail, error) {
	if s.moderator == nil {
		return nil, fmt.Errorf("no moderator context")
	}
	c, err := s.moderator.GetContentByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	return s.contentDetail(c), nil
}

func (s *DetailService) contentDetail(c *Content) *ContentDetail {
	d := &ContentDetail{Content: c}
	if c != nil && c.FilePath != "" {
		d.AttachmentURL = ResolveDownloadURL(c.FilePath, s.fileBase)
	}
	return d
}

// DeleteContent removes an informational page through the moderation
// context, gated by the confirmation step.
func (s *DetailService) DeleteContent(ctx context.Context, contentID int64) error {
	if s.moderator == nil {
		return fmt.Errorf("no moderator context")
	}
	if s.confirm != nil && !s.confirm.Confirm(fmt.Sprintf("delete content %d?", contentID)) {
		return ErrNotConfirmed
	}
	return s.moderator.DeleteContent(ctx, contentID)
}

// HomeSection is one board's slice of the home screen: the resolved board
// and the first page of its posts.
type HomeSection struct {
	Board Board
	Posts []Post
}

const homePageSize = 5

// LoadHome builds the home screen for the given board codes. The board list
// is fetched once per call; codes that resolve to no active board are
// skipped entirely, so no post request is ever issued with an unresolved
// board id. A failed post fetch for one section logs and skips that section
// without voiding the others.
func (s *DetailService) LoadHome(ctx context.Context, codes ...string) ([]HomeSection, error) {
	boards, err := s.reader.ListBoards(ctx)
	if err != nil {
		return nil, err
	}

	sections := make([]HomeSection, 0, len(codes))
	for _, code := range codes {
		id, ok := ResolveBoardID(code, boards)
		if !ok {
			slog.Info("no active board for code, skipping section", "code", code)
			continue
		}
		var board Board
		for _, b := range boards {
			if b.ID == id {
				board = b
				break
			}
		}
		posts, err := s.reader.ListPosts(ctx, id, 1, homePageSize)
		if err != nil {
			slog.Error("post list fetch failed", "board_id", id, "code", code, "error", err)
			continue
		}
		sections = append(sections, HomeSection{Board: board, Posts: posts})
	}
	return sections, nil
}
