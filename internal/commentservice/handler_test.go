package commentservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/quillpost/internal/common"
)

func setupTestEnvironment(t *testing.T) (*CommentService, *sql.DB, string, string) {
	db := common.TestDB("file://../../migrations", t)

	userID := common.InsertTestUser(t, db, "Alice", "alice@x.com")

	var blogID string
	err := db.QueryRow("INSERT INTO blogs (title, content, author_id, author_name) VALUES ($1, $2, $3, $4) RETURNING id", "Post", "<p>body</p>", userID, "Alice").Scan(&blogID)
	if err != nil {
		t.Fatalf("could not insert test blog: %v", err)
	}

	return NewCommentService(db, common.NewCache(5*time.Minute, 10*time.Minute)), db, userID, blogID
}

func TestCreateComment(t *testing.T) {
	s, db, userID, blogID := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		req         *CreateCommentRequest
		expectedErr error
	}{
		{
			name:        "valid comment",
			req:         &CreateCommentRequest{BlogID: blogID, Text: " Nice post ", AuthorID: userID, AuthorName: "Alice"},
			expectedErr: nil,
		},
		{
			name:        "empty text",
			req:         &CreateCommentRequest{BlogID: blogID, Text: "   ", AuthorID: userID},
			expectedErr: common.ValidationError{Errors: map[string]string{"text": "comment cannot be empty"}},
		},
		{
			name:        "signed out",
			req:         &CreateCommentRequest{BlogID: blogID, Text: "hello"},
			expectedErr: common.ErrAuthenticationRequired,
		},
		{
			name:        "unknown blog",
			req:         &CreateCommentRequest{BlogID: "6b1f4f0e-8a55-4d6c-9a0e-3f2b8d1c2a11", Text: "hello", AuthorID: userID},
			expectedErr: ErrRecordNotFound,
		},
		{
			name:        "malformed blog id",
			req:         &CreateCommentRequest{BlogID: "nope", Text: "hello", AuthorID: userID},
			expectedErr: ErrRecordNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := s.CreateComment(context.Background(), tc.req)
			assert.Equal(t, tc.expectedErr, err)
			if err == nil {
				assert.NotEmpty(t, c.ID)
				assert.Equal(t, "Nice post", c.Text)
				assert.False(t, c.CreatedAt.IsZero())
			}
		})
	}

	var count int
	assert.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestCreateCommentAuthorNameFallback(t *testing.T) {
	s, _, userID, blogID := setupTestEnvironment(t)

	c, err := s.CreateComment(context.Background(), &CreateCommentRequest{BlogID: blogID, Text: "hi", AuthorID: userID, AuthorEmail: "alice@x.com"})
	assert.NoError(t, err)
	assert.Equal(t, "alice@x.com", c.AuthorName)
}

func TestGetCommentsByBlogId(t *testing.T) {
	s, _, userID, blogID := setupTestEnvironment(t)
	ctx := context.Background()

	comments, err := s.GetCommentsByBlogId(ctx, blogID)
	assert.NoError(t, err)
	assert.Empty(t, comments)

	for _, text := range []string{"first", "second", "third"} {
		_, err := s.CreateComment(ctx, &CreateCommentRequest{BlogID: blogID, Text: text, AuthorID: userID, AuthorName: "Alice"})
		assert.NoError(t, err)

		// a listing right after a create starts with the new comment
		comments, err := s.GetCommentsByBlogId(ctx, blogID)
		assert.NoError(t, err)
		assert.Equal(t, text, comments[0].Text)
	}

	comments, err = s.GetCommentsByBlogId(ctx, blogID)
	assert.NoError(t, err)
	assert.Len(t, comments, 3)
	for i := 1; i < len(comments); i++ {
		assert.False(t, comments[i].CreatedAt.After(comments[i-1].CreatedAt))
	}

	none, err := s.GetCommentsByBlogId(ctx, "not-a-uuid")
	assert.NoError(t, err)
	assert.Empty(t, none)
}
