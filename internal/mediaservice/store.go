package mediaservice

import (
	"context"
	"net/url"
	"strings"
)

// ObjectStore keeps blobs under slash separated paths and serves them from public URLs.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
	// PathFromURL is the inverse of URL. It reports false for URLs the store does not serve.
	PathFromURL(u string) (string, bool)
}

// urlMapper builds URLs of the form {publicBase}/{bucket}/{escaped path}.
type urlMapper struct {
	prefix string
}

func newURLMapper(publicBase, bucket string) urlMapper {
	return urlMapper{prefix: strings.TrimRight(publicBase, "/") + "/" + bucket + "/"}
}

func (m urlMapper) URL(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	return m.prefix + strings.Join(segments, "/")
}

func (m urlMapper) PathFromURL(u string) (string, bool) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", false
	}

	// Only scheme, host and path identify an object.
	parsed.RawQuery = ""
	parsed.ForceQuery = false
	parsed.Fragment = ""
	parsed.RawFragment = ""

	escaped, ok := strings.CutPrefix(parsed.String(), m.prefix)
	if !ok || escaped == "" {
		return "", false
	}

	path, err := url.PathUnescape(escaped)
	if err != nil {
		return "", false
	}

	return path, true
}
