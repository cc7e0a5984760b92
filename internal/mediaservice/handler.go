package mediaservice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/quillpost/internal/common"
)

func NewMediaService(store ObjectStore) *MediaService {
	src := &rand.LockedSource{}
	src.Seed(uint64(time.Now().UnixNano()))
	rnd := rand.New(src)

	return &MediaService{
		store: store,
		now:   time.Now,
		rnd:   func() int { return rnd.Intn(1000000) },
	}
}

// detectImage returns the sniffed content type, or ErrNotAnImage.
func detectImage(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotAnImage
	}

	return mtype.String(), nil
}

func (s *MediaService) put(ctx context.Context, path string, data []byte) (string, error) {
	contentType, err := detectImage(data)
	if err != nil {
		return "", err
	}

	if err := s.store.Put(ctx, path, data, contentType); err != nil {
		return "", err
	}

	return s.store.URL(path), nil
}

// UploadBlogImage stores an inline editor image and returns its public URL. There is no size limit.
func (s *MediaService) UploadBlogImage(ctx context.Context, r io.Reader, originalName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("could not read image: %w", err)
	}

	path := BlogImagePrefix + UniqueFilename(originalName, s.now(), s.rnd())

	return s.put(ctx, path, data)
}

// UploadProfileImage stores a profile picture under users/{uid}/ and returns its public URL.
func (s *MediaService) UploadProfileImage(ctx context.Context, uid string, r io.Reader, originalName string) (string, error) {
	if uid == "" {
		return "", common.ErrAuthenticationRequired
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxProfileImageSize+1))
	if err != nil {
		return "", fmt.Errorf("could not read image: %w", err)
	}

	if n > MaxProfileImageSize {
		return "", ErrFileTooLarge
	}

	path := "users/" + uid + "/" + profileFilename(originalName, s.now(), s.rnd())

	return s.put(ctx, path, buf.Bytes())
}

// ObjectPath maps a public URL back to its storage path when the URL belongs to the store.
func (s *MediaService) ObjectPath(url string) (string, bool) {
	return s.store.PathFromURL(url)
}

func (s *MediaService) DeleteObject(ctx context.Context, path string) error {
	return s.store.Delete(ctx, path)
}
