package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage keeps all items as one JSON object in a file. Writes replace the file atomically.
type FileStorage struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

// NewFileStorage loads path. A missing or corrupt file is an empty storage; the next write replaces it.
func NewFileStorage(path string, logger *slog.Logger) (*FileStorage, error) {
	f := &FileStorage{path: path, items: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("could not read session file: %w", err)
	}

	if len(data) == 0 {
		return f, nil
	}

	if err := json.Unmarshal(data, &f.items); err != nil {
		logger.Warn("corrupt session file, starting signed out", slog.String("path", path), slog.String("error", err.Error()))
		f.items = make(map[string]string)
	}

	return f, nil
}

func (f *FileStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.items[key]
	return v, ok, nil
}

func (f *FileStorage) SetItem(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.items[key]
	f.items[key] = value

	if err := f.flush(); err != nil {
		if existed {
			f.items[key] = prev
		} else {
			delete(f.items, key)
		}
		return err
	}

	return nil
}

func (f *FileStorage) RemoveItem(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.items[key]
	if !existed {
		return nil
	}
	delete(f.items, key)

	if err := f.flush(); err != nil {
		f.items[key] = prev
		return err
	}

	return nil
}

// flush must be called with f.mu held.
func (f *FileStorage) flush() error {
	data, err := json.MarshalIndent(f.items, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("could not create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not write session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write session file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("could not replace session file: %w", err)
	}

	return nil
}
