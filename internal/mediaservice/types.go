package mediaservice

import (
	"errors"
	"time"
)

const (
	BlogImagePrefix = "images/blog_posts/"

	MaxProfileImageSize = 500 * 1024
)

var (
	ErrFileTooLarge = errors.New("File size exceeds 500 kB. Please choose a smaller image.")
	ErrNotAnImage   = errors.New("file is not an image")
)

type MediaService struct {
	store ObjectStore
	now   func() time.Time
	rnd   func() int
}
