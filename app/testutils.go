package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/quillpost/internal/blogservice"
	"github.com/sushihentaime/quillpost/internal/commentservice"
	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/mediaservice"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

const testMediaBase = "http://localhost:4000"

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

// newTestApplication wires every service against a fresh database. Events go to a mock producer
// and uploads stay in memory.
func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	producer := new(common.MockMessageProducer)
	producer.On("Publish", mock.Anything, mock.Anything, common.UserCreatedKey, common.UserExchange).Return(nil)

	store := mediaservice.NewMemoryStore(testMediaBase, "media")
	media := mediaservice.NewMediaService(store)

	app := &application{
		config: &Config{
			Port:           "4000",
			Environment:    "development",
			Version:        "test",
			TrustedOrigins: []string{"http://localhost:3000"},
		},
		logger:         logger,
		db:             db,
		userService:    userservice.NewUserService(db, producer, cache, logger),
		blogService:    blogservice.NewBlogService(db, cache, media, logger),
		commentService: commentservice.NewCommentService(db, cache),
		mediaService:   media,
		memoryStore:    store,
	}

	return app, db
}

func (ts *testServer) do(t *testing.T, method, path string, token *string, body io.Reader, contentType string) (int, http.Header, envelope) {
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) send(t *testing.T, method, path string, token *string, payload any) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	return ts.do(t, method, path, token, bytes.NewReader(jsonPayload), "application/json")
}

func (ts *testServer) post(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.send(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) put(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.send(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil, "")
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil, "")
}

// upload sends data as the "image" field of a multipart form.
func (ts *testServer) upload(t *testing.T, method, path string, token *string, filename string, data []byte) (int, http.Header, envelope) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	return ts.do(t, method, path, token, &body, mw.FormDataContentType())
}

// registerAndLogin creates an account through the API and returns its access token and user id.
func (ts *testServer) registerAndLogin(t *testing.T, name, email string) (*string, string) {
	t.Helper()

	status, _, _ := ts.post(t, "/v1/users/register", nil, map[string]any{
		"name":             name,
		"email":            email,
		"password":         "pw1",
		"confirm_password": "pw1",
	})
	if status != http.StatusCreated {
		t.Fatalf("could not register %s: status %d", email, status)
	}

	status, _, body := ts.post(t, "/v1/users/login", nil, map[string]any{"email": email, "password": "pw1"})
	if status != http.StatusOK {
		t.Fatalf("could not log in %s: status %d", email, status)
	}

	token := body["token"].(map[string]any)["access_token"].(string)
	id := body["user"].(map[string]any)["id"].(string)

	return &token, id
}

func strptr(s string) *string {
	return &s
}

// fakePNG returns size bytes that sniff as a PNG image.
func fakePNG(size int) []byte {
	data := make([]byte, size)
	copy(data, "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	return data
}
