package blogservice

import "github.com/microcosm-cc/bluemonday"

// policy is safe for concurrent use once built.
var policy = bluemonday.UGCPolicy()

func sanitizeContent(content string) string {
	return policy.Sanitize(content)
}
