package commentservice

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/sushihentaime/quillpost/internal/common"
)

func NewCommentService(db *sql.DB, cache *common.Cache) *CommentService {
	return &CommentService{m: newCommentModel(db), c: cache}
}

// CreateComment appends a comment to a post. The author name falls back to the author's e-mail.
func (s *CommentService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*Comment, error) {
	if req.AuthorID == "" {
		return nil, common.ErrAuthenticationRequired
	}

	text := strings.TrimSpace(req.Text)

	v := common.NewValidator()
	v.Check(text != "", "text", "comment cannot be empty")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if _, err := uuid.Parse(req.BlogID); err != nil {
		return nil, ErrRecordNotFound
	}

	name := strings.TrimSpace(req.AuthorName)
	if name == "" {
		name = req.AuthorEmail
	}

	c := &Comment{
		BlogID:     req.BlogID,
		Text:       text,
		AuthorID:   req.AuthorID,
		AuthorName: name,
	}

	if err := s.m.insert(ctx, c); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyCommentsByBlogId(c.BlogID))

	return c, nil
}

// GetCommentsByBlogId lists the comments of a post, newest first.
func (s *CommentService) GetCommentsByBlogId(ctx context.Context, blogID string) ([]Comment, error) {
	if _, err := uuid.Parse(blogID); err != nil {
		return []Comment{}, nil
	}

	key := common.CacheKeyCommentsByBlogId(blogID)
	if cached, ok := s.c.Get(key); ok {
		comments := cached.([]Comment)
		out := make([]Comment, len(comments))
		copy(out, comments)
		return out, nil
	}

	comments, err := s.m.getCommentsByBlogId(ctx, blogID)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, comments)

	out := make([]Comment, len(comments))
	copy(out, comments)
	return out, nil
}
