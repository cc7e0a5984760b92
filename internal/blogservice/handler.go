package blogservice

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

// NewBlogService wires the blog model. images may be nil, in which case deletes leave inline images in place.
func NewBlogService(db *sql.DB, cache *common.Cache, images ImageRemover, logger *slog.Logger) *BlogService {
	return &BlogService{
		m:      newBlogModel(db),
		c:      cache,
		images: images,
		logger: logger,
	}
}

func (s *BlogService) invalidate(blog *Blog) {
	s.c.Delete(common.CacheKeyBlogs, common.CacheKeyBlog(blog.ID), common.CacheKeyBlogsByUserId(blog.AuthorID))
}

// CreateBlog sanitizes the content, derives the feature image and stores a new post. It returns the new post id.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (string, error) {
	if req.AuthorID == "" {
		return "", common.ErrAuthenticationRequired
	}

	title := strings.TrimSpace(req.Title)
	content := sanitizeContent(req.Content)

	v := common.NewValidator()
	validateTitle(v, title)
	validateContent(v, content)
	if !v.Valid() {
		return "", v.ValidationError()
	}

	blog := &Blog{
		Title:        title,
		Content:      content,
		FeatureImage: FeatureImage(content),
		AuthorID:     req.AuthorID,
		AuthorName:   req.AuthorName,
	}

	if err := s.m.insert(ctx, blog); err != nil {
		return "", err
	}

	s.invalidate(blog)

	return blog.ID, nil
}

// GetBlogByID returns a blog post by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id string) (*Blog, error) {
	if !validID(id) {
		return nil, ErrRecordNotFound
	}

	if cached, ok := s.c.Get(common.CacheKeyBlog(id)); ok {
		blog := cached.(Blog)
		return &blog, nil
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlog(id), *blog)

	return blog, nil
}

// UpdateBlog replaces title and content of a post. Only the author may edit it.
func (s *BlogService) UpdateBlog(ctx context.Context, req *UpdateBlogRequest, editor *userservice.User) (*Blog, error) {
	if editor.IsAnonymous() {
		return nil, common.ErrAuthenticationRequired
	}

	title := strings.TrimSpace(req.Title)
	content := sanitizeContent(req.Content)

	v := common.NewValidator()
	validateTitle(v, title)
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if !validID(req.ID) {
		return nil, ErrRecordNotFound
	}

	blog, err := s.m.getBlogById(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := CanEdit(editor, blog); err != nil {
		return nil, err
	}

	blog.Title = title
	blog.Content = content
	blog.FeatureImage = FeatureImage(content)

	if err := s.m.updateBlog(ctx, blog); err != nil {
		return nil, err
	}

	s.invalidate(blog)

	return blog, nil
}

// DeleteBlog removes the inline images of a post from object storage, then the post itself.
// Image failures are logged and reported in the result; they never stop the post from being deleted.
func (s *BlogService) DeleteBlog(ctx context.Context, id string, user *userservice.User) (*DeleteResult, error) {
	if user.IsAnonymous() {
		return nil, common.ErrAuthenticationRequired
	}

	if !validID(id) {
		return nil, ErrRecordNotFound
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CanDelete(user, blog); err != nil {
		return nil, err
	}

	result := &DeleteResult{FailedImagePaths: []string{}}

	for _, path := range s.imagePaths(blog.Content) {
		if err := s.images.DeleteObject(ctx, path); err != nil {
			s.logger.Warn("could not delete blog image", slog.String("blog_id", blog.ID), slog.String("path", path), slog.String("error", err.Error()))
			result.FailedImagePaths = append(result.FailedImagePaths, path)
		}
	}

	if err := s.m.deleteBlog(ctx, blog.ID); err != nil {
		return result, err
	}

	result.MainDeleted = true

	s.invalidate(blog)
	s.c.Delete(common.CacheKeyCommentsByBlogId(blog.ID))

	return result, nil
}

// imagePaths returns the distinct storage paths of the images in content that live in the object store.
func (s *BlogService) imagePaths(content string) []string {
	if s.images == nil {
		return nil
	}

	seen := make(map[string]bool)
	var paths []string
	for _, src := range ImageSources(content) {
		path, ok := s.images.ObjectPath(src)
		if !ok || seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}

	return paths
}

// copyBlogs keeps callers from mutating cached slices.
func copyBlogs(blogs []Blog) []Blog {
	out := make([]Blog, len(blogs))
	copy(out, blogs)
	return out
}

// GetBlogs returns all blog posts, newest first.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	if cached, ok := s.c.Get(common.CacheKeyBlogs); ok {
		return copyBlogs(cached.([]Blog)), nil
	}

	blogs, err := s.m.getBlogs(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlogs, blogs)

	return copyBlogs(blogs), nil
}

// GetBlogsByUserId returns the posts of one author. An author without posts gets an empty list.
func (s *BlogService) GetBlogsByUserId(ctx context.Context, authorID string) ([]Blog, error) {
	if !validID(authorID) {
		return []Blog{}, nil
	}

	if cached, ok := s.c.Get(common.CacheKeyBlogsByUserId(authorID)); ok {
		return copyBlogs(cached.([]Blog)), nil
	}

	blogs, err := s.m.getBlogsByUserId(ctx, authorID)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlogsByUserId(authorID), blogs)

	return copyBlogs(blogs), nil
}

func (s *BlogService) GetBlogsByTitle(ctx context.Context, title string) ([]Blog, error) {
	title = strings.TrimSpace(title)

	v := common.NewValidator()
	v.Check(title != "", "q", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogsByTitle(ctx, title)
}
