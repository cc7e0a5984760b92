package blogservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/quillpost/internal/common"
)

type Blog struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Content is sanitized HTML.
	Content      string     `json:"content"`
	FeatureImage string     `json:"feature_image"`
	AuthorID     string     `json:"author_id"`
	AuthorName   string     `json:"author_name"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type BlogModel struct {
	db *sql.DB
}

// ImageRemover removes blobs referenced by a post's inline images.
type ImageRemover interface {
	// ObjectPath reports the storage path of url, or false when the url is not served by the store.
	ObjectPath(url string) (string, bool)
	DeleteObject(ctx context.Context, path string) error
}

type BlogService struct {
	m      *BlogModel
	c      *common.Cache
	images ImageRemover
	logger *slog.Logger
}

type CreateBlogRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	AuthorID   string `json:"-"`
	AuthorName string `json:"-"`
}

type UpdateBlogRequest struct {
	ID      string `json:"-"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DeleteResult reports the outcome of a cascading delete. Image failures never abort the delete.
type DeleteResult struct {
	MainDeleted      bool     `json:"main_deleted"`
	FailedImagePaths []string `json:"failed_image_paths"`
}
