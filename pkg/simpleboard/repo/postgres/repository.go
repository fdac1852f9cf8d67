// Package postgres implements simpleboard.Repository using PostgreSQL.
//
// The schema (migrations/schema.sql) mirrors the upstream column naming:
// board_tbl, post_tbl, comment_tbl and content_tbl.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-board/pkg/simpleboard"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpleboard.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

var _ simpleboard.Repository = (*Repository)(nil)

func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Board operations

func (r *Repository) ListBoards(ctx context.Context) ([]simpleboard.Board, error) {
	query := `
		SELECT board_id, board_num, board_title, board_use
		FROM board_tbl ORDER BY board_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list boards", err)
	}
	defer rows.Close()

	var boards []simpleboard.Board
	for rows.Next() {
		var b simpleboard.Board
		var use string
		if err := rows.Scan(&b.ID, &b.Num, &b.Title, &use); err != nil {
			return nil, r.handlePostgresError("list boards", err)
		}
		b.Use = simpleboard.UseFlag(use)
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list boards", err)
	}
	return boards, nil
}

func (r *Repository) CreateBoard(ctx context.Context, b *simpleboard.Board) error {
	query := `
		INSERT INTO board_tbl (board_num, board_title, board_use)
		VALUES ($1, $2, $3)
		RETURNING board_id`

	err := r.db.QueryRow(ctx, query, b.Num, b.Title, string(b.Use)).Scan(&b.ID)
	if err != nil {
		return r.handlePostgresError("create board", err)
	}
	return nil
}

// Post operations

const postColumns = `post_id, board_id, post_title, post_content, member_id,
	member_name, post_file_path, post_view_count, post_reg_date, post_mod_date`

func scanPost(row pgx.Row) (*simpleboard.Post, error) {
	var p simpleboard.Post
	var memberID, memberName, filePath *string
	err := row.Scan(&p.ID, &p.BoardID, &p.Title, &p.Content, &memberID,
		&memberName, &filePath, &p.ViewCount, &p.RegDate, &p.ModDate)
	if err != nil {
		return nil, err
	}
	if memberID != nil {
		p.MemberID = *memberID
	}
	if memberName != nil {
		p.MemberName = *memberName
	}
	if filePath != nil {
		p.FilePath = *filePath
	}
	return &p, nil
}

func (r *Repository) ListPosts(ctx context.Context, boardID int64, page, size int) ([]simpleboard.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	var total int
	countQuery := `SELECT count(*) FROM post_tbl WHERE board_id = $1`
	if err := r.db.QueryRow(ctx, countQuery, boardID).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count posts", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM post_tbl
		WHERE board_id = $1
		ORDER BY post_reg_date DESC, post_id DESC
		LIMIT $2 OFFSET $3`, postColumns)

	rows, err := r.db.Query(ctx, query, boardID, size, (page-1)*size)
	if err != nil {
		return nil, 0, r.handlePostgresError("list posts", err)
	}
	defer rows.Close()

	posts := []simpleboard.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("list posts", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.handlePostgresError("list posts", err)
	}
	return posts, total, nil
}

func (r *Repository) GetPost(ctx context.Context, boardID, postID int64) (*simpleboard.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM post_tbl
		WHERE board_id = $1 AND post_id = $2`, postColumns)

	p, err := scanPost(r.db.QueryRow(ctx, query, boardID, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleboard.ErrPostNotFound
		}
		return nil, r.handlePostgresError("get post", err)
	}
	return p, nil
}

func (r *Repository) CreatePost(ctx context.Context, p *simpleboard.Post) error {
	query := `
		INSERT INTO post_tbl (
			board_id, post_title, post_content, member_id, member_name,
			post_file_path, post_view_count, post_reg_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
		RETURNING post_id, post_reg_date`

	var regDate interface{}
	if !p.RegDate.IsZero() {
		regDate = p.RegDate
	}
	err := r.db.QueryRow(ctx, query,
		p.BoardID, p.Title, p.Content, nullable(p.MemberID), nullable(p.MemberName),
		nullable(p.FilePath), p.ViewCount, regDate).Scan(&p.ID, &p.RegDate)
	if err != nil {
		return r.handlePostgresError("create post", err)
	}
	return nil
}

func (r *Repository) IncrementPostViews(ctx context.Context, postID int64) error {
	query := `UPDATE post_tbl SET post_view_count = post_view_count + 1 WHERE post_id = $1`

	tag, err := r.db.Exec(ctx, query, postID)
	if err != nil {
		return r.handlePostgresError("increment post views", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleboard.ErrPostNotFound
	}
	return nil
}

// Comment operations

func (r *Repository) ListComments(ctx context.Context, postID int64) ([]simpleboard.Comment, error) {
	query := `
		SELECT comments_id, post_id, member_id, member_name, content,
			created_at, updated_at
		FROM comment_tbl
		WHERE post_id = $1
		ORDER BY created_at DESC, comments_id DESC`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, r.handlePostgresError("list comments", err)
	}
	defer rows.Close()

	comments := []simpleboard.Comment{}
	for rows.Next() {
		var c simpleboard.Comment
		var memberName *string
		if err := rows.Scan(&c.ID, &c.PostID, &c.MemberID, &memberName,
			&c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, r.handlePostgresError("list comments", err)
		}
		if memberName != nil {
			c.MemberName = *memberName
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list comments", err)
	}
	return comments, nil
}

func (r *Repository) CreateComment(ctx context.Context, c *simpleboard.Comment) error {
	query := `
		INSERT INTO comment_tbl (post_id, member_id, member_name, content, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING comments_id, created_at`

	err := r.db.QueryRow(ctx, query,
		c.PostID, c.MemberID, nullable(c.MemberName), c.Content).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create comment", err)
	}
	return nil
}

func (r *Repository) DeleteComment(ctx context.Context, postID, commentID int64) error {
	query := `DELETE FROM comment_tbl WHERE post_id = $1 AND comments_id = $2`

	tag, err := r.db.Exec(ctx, query, postID, commentID)
	if err != nil {
		return r.handlePostgresError("delete comment", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleboard.ErrCommentNotFound
	}
	return nil
}

// Content operations

const contentColumns = `content_id, content_title, content_content, content_type,
	content_num, content_use, content_file_path, content_reg_date, content_mod_date`

func scanContent(row pgx.Row) (*simpleboard.Content, error) {
	var c simpleboard.Content
	var use string
	var filePath *string
	err := row.Scan(&c.ID, &c.Title, &c.Body, &c.Type, &c.Num, &use,
		&filePath, &c.RegDate, &c.ModDate)
	if err != nil {
		return nil, err
	}
	c.Use = simpleboard.UseFlag(use)
	if filePath != nil {
		c.FilePath = *filePath
	}
	return &c, nil
}

func (r *Repository) GetContent(ctx context.Context, contentType string, contentNum int) (*simpleboard.Content, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM content_tbl
		WHERE content_type = $1 AND content_num = $2 AND content_use = 'Y'`, contentColumns)

	c, err := scanContent(r.db.QueryRow(ctx, query, contentType, contentNum))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleboard.ErrContentNotFound
		}
		return nil, r.handlePostgresError("get content", err)
	}
	return c, nil
}

func (r *Repository) GetContentByID(ctx context.Context, contentID int64) (*simpleboard.Content, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_tbl WHERE content_id = $1`, contentColumns)

	c, err := scanContent(r.db.QueryRow(ctx, query, contentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleboard.ErrContentNotFound
		}
		return nil, r.handlePostgresError("get content by id", err)
	}
	return c, nil
}

func (r *Repository) CreateContent(ctx context.Context, c *simpleboard.Content) error {
	if c.Use == "" {
		c.Use = simpleboard.UseYes
	}
	query := `
		INSERT INTO content_tbl (
			content_title, content_content, content_type, content_num,
			content_use, content_file_path, content_reg_date
		) VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING content_id, content_reg_date`

	err := r.db.QueryRow(ctx, query,
		c.Title, c.Body, c.Type, c.Num, string(c.Use), nullable(c.FilePath)).
		Scan(&c.ID, &c.RegDate)
	if err != nil {
		return r.handlePostgresError("create content", err)
	}
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, contentID int64) error {
	query := `DELETE FROM content_tbl WHERE content_id = $1`

	tag, err := r.db.Exec(ctx, query, contentID)
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleboard.ErrContentNotFound
	}
	return nil
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
