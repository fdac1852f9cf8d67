package simpleboard

import "time"

// UseFlag marks whether a board or content page is currently active.
// The upstream schema stores this as a Y/N column.
type UseFlag string

const (
	UseYes UseFlag = "Y"
	UseNo  UseFlag = "N"
)

// Board is a named grouping of posts. It is addressed internally by a
// numeric id and externally by a stable two-digit code (Num). The id a code
// maps to can change over time as boards are recreated; see ResolveBoardID.
type Board struct {
	ID    int64   `json:"boardId"`
	Num   string  `json:"boardNum"`
	Title string  `json:"boardTitle"`
	Use   UseFlag `json:"boardUse"`
}

// Post is a single authored unit belonging to one board. Content holds the
// serialized markup produced by the document converter and is rendered
// verbatim by reading surfaces.
type Post struct {
	ID         int64      `json:"postId"`
	BoardID    int64      `json:"boardId"`
	Title      string     `json:"postTitle"`
	Content    string     `json:"postContent"`
	MemberID   string     `json:"memberId,omitempty"`
	MemberName string     `json:"memberName,omitempty"`
	FilePath   string     `json:"postFilePath,omitempty"`
	ViewCount  int        `json:"postViewCount"`
	RegDate    time.Time  `json:"postRegDate"`
	ModDate    *time.Time `json:"postModDate,omitempty"`
}

// Comment is scoped to one post. Comments are created through the end-user
// identity context and deletable through the moderation context.
type Comment struct {
	ID         int64      `json:"commentsId"`
	PostID     int64      `json:"postId"`
	MemberID   string     `json:"memberId"`
	MemberName string     `json:"memberName,omitempty"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// Content is an informational page (usage guide, facility info). It is
// addressed by numeric id on the administrative surface and by
// (type, ordinal) on the end-user surface.
type Content struct {
	ID       int64      `json:"contentId"`
	Title    string     `json:"contentTitle"`
	Body     string     `json:"contentContent"`
	Type     string     `json:"contentType"`
	Num      int        `json:"contentNum"`
	Use      UseFlag    `json:"contentUse"`
	FilePath string     `json:"contentFilePath,omitempty"`
	RegDate  time.Time  `json:"contentRegDate"`
	ModDate  *time.Time `json:"contentModDate,omitempty"`
}

// NewPost carries the fields an authoring surface submits when creating a
// post. Content is the serialized markup string from the editor.
type NewPost struct {
	Title    string `json:"postTitle"`
	Content  string `json:"postContent"`
	FilePath string `json:"postFilePath,omitempty"`
	MemberID string `json:"memberId,omitempty"`
}

// NewComment carries the fields submitted when creating a comment.
type NewComment struct {
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName,omitempty"`
	Content    string `json:"content"`
}

// DateOnly formats a timestamp the way listing screens display it
// (yyyy-mm-dd, dropping the time component). A zero time yields "".
func DateOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
