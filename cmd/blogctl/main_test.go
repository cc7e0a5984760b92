package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:4000", cfg.APIURL)
		assert.Equal(t, "session.json", filepath.Base(cfg.SessionFile))
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("BLOGCTL_API_URL", "http://api.test")
		t.Setenv("BLOGCTL_SESSION_FILE", "/tmp/s.json")

		cfg, err := loadConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, "http://api.test", cfg.APIURL)
		assert.Equal(t, "/tmp/s.json", cfg.SessionFile)
	})

	t.Run("flags win over environment", func(t *testing.T) {
		t.Setenv("BLOGCTL_API_URL", "http://api.test")

		fs := newGlobalFlags()
		require.NoError(t, fs.Parse([]string{"--api", "http://flag.test", "blogs"}))

		cfg, err := loadConfig(fs)
		require.NoError(t, err)
		assert.Equal(t, "http://flag.test", cfg.APIURL)
		assert.Equal(t, []string{"blogs"}, fs.Args())
	})
}

func testAPI(t *testing.T) *httptest.Server {
	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	r := httprouter.New()
	r.HandlerFunc(http.MethodPost, "/v1/users/login", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{
			"token": map[string]string{"access_token": "tok"},
			"user":  map[string]string{"id": "u-1", "name": "Alice", "email": "alice@example.com"},
		})
	})
	r.HandlerFunc(http.MethodPost, "/v1/users/logout", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"message": "user logged out"})
	})
	r.HandlerFunc(http.MethodGet, "/v1/blogs", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"blogs": []map[string]any{
			{"id": "b-1", "title": "Hello", "author_name": "Alice", "content": "<p>hi</p>", "created_at": time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		}})
	})
	r.HandlerFunc(http.MethodGet, "/v1/blogs/:id", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusNotFound, map[string]any{"error": "resource not found"})
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func TestRun(t *testing.T) {
	ts := testAPI(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Setenv("BLOGCTL_API_URL", ts.URL)
	t.Setenv("BLOGCTL_SESSION_FILE", filepath.Join(t.TempDir(), "nested", "session.json"))

	exec := func(args ...string) (string, error) {
		var out bytes.Buffer
		err := run(ctx, args, &out, logger)
		return out.String(), err
	}

	out, err := exec()
	require.NoError(t, err)
	assert.Contains(t, out, "usage: blogctl")

	out, err = exec("whoami")
	require.NoError(t, err)
	assert.Equal(t, "not signed in\n", out)

	out, err = exec("login", "--email", "alice@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Equal(t, "signed in as Alice\n-> /blogs\n", out)

	// The session survives between invocations.
	out, err = exec("whoami")
	require.NoError(t, err)
	assert.Equal(t, "Alice <alice@example.com> u-1\n", out)

	out, err = exec("blogs")
	require.NoError(t, err)
	assert.Contains(t, out, "b-1")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "2024-05-01 10:00")

	_, err = exec("show", "b-404")
	assert.EqualError(t, err, "Blog not found")

	_, err = exec("comment", "b-1", "   ")
	assert.EqualError(t, err, "comment cannot be empty")

	out, err = exec("logout")
	require.NoError(t, err)
	assert.Equal(t, "signed out\n-> /\n", out)

	_, err = exec("comment", "b-1", "hello")
	assert.EqualError(t, err, "You must be logged in to post a comment!")

	_, err = exec("register", "--name", "Bob", "--email", "bob@example.com", "--password", "a", "--confirm", "b")
	assert.EqualError(t, err, "Passwords do not match.")

	_, err = exec("frobnicate")
	assert.EqualError(t, err, `unknown command "frobnicate"`)
}

func TestRunCorruptSessionFile(t *testing.T) {
	ts := testAPI(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	var out bytes.Buffer
	err := run(context.Background(), []string{"--api", ts.URL, "--session", path, "whoami"}, &out, logger)
	require.NoError(t, err)
	assert.Equal(t, "not signed in\n", out.String())

	out.Reset()
	err = run(context.Background(), []string{"--api", ts.URL, "--session", path, "login", "--email", "alice@example.com", "--password", "pw"}, &out, logger)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "signed in as Alice")
}
