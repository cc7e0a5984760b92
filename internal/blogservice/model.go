package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sushihentaime/quillpost/internal/common"
)

var (
	ErrRecordNotFound = common.ErrRecordNotFound
	ErrUserForeignKey = errors.New("author_id does not exist")
)

const blogColumns = "id, title, content, feature_image, author_id, author_name, created_at, updated_at"

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*Blog, error) {
	var blog Blog
	err := row.Scan(&blog.ID, &blog.Title, &blog.Content, &blog.FeatureImage, &blog.AuthorID, &blog.AuthorName, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &blog, nil
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, content, feature_image, author_id, author_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	args := []any{blog.Title, blog.Content, blog.FeatureImage, blog.AuthorID, blog.AuthorName}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.ID, &blog.CreatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyError(err, "blogs_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getBlogById(ctx context.Context, id string) (*Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	blog, err := scanBlog(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), common.InvalidTextRepresentation(err):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

// updateBlog overwrites title, content and feature image unconditionally. The last writer wins.
func (m *BlogModel) updateBlog(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, content = $2, feature_image = $3, updated_at = clock_timestamp()
		WHERE id = $4
		RETURNING created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, blog.Title, blog.Content, blog.FeatureImage, blog.ID).Scan(&blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), common.InvalidTextRepresentation(err):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) deleteBlog(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, "DELETE FROM blogs WHERE id = $1", id)
	if err != nil {
		if common.InvalidTextRepresentation(err) {
			return ErrRecordNotFound
		}
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *BlogModel) queryBlogs(ctx context.Context, query string, args ...any) ([]Blog, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *BlogModel) getBlogs(ctx context.Context) ([]Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs ORDER BY created_at DESC`
	return m.queryBlogs(ctx, query)
}

func (m *BlogModel) getBlogsByUserId(ctx context.Context, authorID string) ([]Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE author_id = $1 ORDER BY created_at DESC`
	return m.queryBlogs(ctx, query, authorID)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// getBlogsByTitle matches title as a case-insensitive substring.
func (m *BlogModel) getBlogsByTitle(ctx context.Context, title string) ([]Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE title ILIKE $1 ORDER BY created_at DESC`
	return m.queryBlogs(ctx, query, "%"+likeEscaper.Replace(title)+"%")
}
