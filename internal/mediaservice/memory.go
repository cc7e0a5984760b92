package mediaservice

import (
	"context"
	"errors"
	"sync"
)

var ErrObjectNotFound = errors.New("object not found")

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps objects in process memory. It serves development setups without an object store, and tests.
type MemoryStore struct {
	urlMapper
	mu      sync.RWMutex
	objects map[string]memoryObject
}

func NewMemoryStore(publicBase, bucket string) *MemoryStore {
	return &MemoryStore{
		urlMapper: newURLMapper(publicBase, bucket),
		objects:   make(map[string]memoryObject),
	}
}

func (s *MemoryStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[path] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[path]; !ok {
		return ErrObjectNotFound
	}

	delete(s.objects, path)
	return nil
}

// Get returns a copy of the stored object.
func (s *MemoryStore) Get(path string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[path]
	if !ok {
		return nil, "", false
	}

	return append([]byte(nil), obj.data...), obj.contentType, true
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}
