package common

import (
	"testing"
	"time"
)

func setupTestEnvironment(t *testing.T) (*Cache, func()) {
	t.Helper()

	// Set up the test environment
	cache := NewCache(0, 0)

	cleanup := func() {
		cache.Flush()
	}

	return cache, cleanup
}

func TestCache_Set(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set("key", "value")

	if _, ok := cache.Get("key"); !ok {
		t.Error("expected key to be set")
	}
}

func TestCache_SetWithExpiration(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set("key", "value", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := cache.Get("key"); ok {
		t.Error("expected key to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set(CacheKeyBlog("a"), "a")
	cache.Set(CacheKeyBlogs, "all")
	cache.Set("other", "value")

	cache.Delete(CacheKeyBlog("a"), CacheKeyBlogs)

	if _, ok := cache.Get(CacheKeyBlog("a")); ok {
		t.Error("expected blog key to be deleted")
	}
	if _, ok := cache.Get(CacheKeyBlogs); ok {
		t.Error("expected blogs key to be deleted")
	}
	if _, ok := cache.Get("other"); !ok {
		t.Error("expected unrelated key to survive")
	}
}

func TestCache_Flush(t *testing.T) {
	cache, cleanup := setupTestEnvironment(t)
	defer cleanup()

	cache.Set("key", "value")
	cache.Flush()

	if _, ok := cache.Get("key"); ok {
		t.Error("expected cache to be flushed")
	}
}
