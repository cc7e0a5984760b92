package commentservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/quillpost/internal/common"
)

// Comment is append-only. Comments go away together with their post.
type Comment struct {
	ID         string    `json:"id"`
	BlogID     string    `json:"blog_id"`
	Text       string    `json:"text"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m *CommentModel
	c *common.Cache
}

type CreateCommentRequest struct {
	BlogID      string `json:"-"`
	Text        string `json:"text"`
	AuthorID    string `json:"-"`
	AuthorName  string `json:"-"`
	AuthorEmail string `json:"-"`
}
