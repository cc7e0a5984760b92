package commentservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/quillpost/internal/common"
)

var ErrRecordNotFound = common.ErrRecordNotFound

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

func (m *CommentModel) insert(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (blog_id, text, author_id, author_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, c.BlogID, c.Text, c.AuthorID, c.AuthorName).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyError(err, "comments_blog_id_fkey"), common.InvalidTextRepresentation(err):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *CommentModel) getCommentsByBlogId(ctx context.Context, blogID string) ([]Comment, error) {
	query := `
		SELECT id, blog_id, text, author_id, author_name, created_at
		FROM comments
		WHERE blog_id = $1
		ORDER BY created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.BlogID, &c.Text, &c.AuthorID, &c.AuthorName, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
