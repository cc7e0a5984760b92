package mediaservice

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// UniqueFilename returns {basename}_{unixMillis}_{rnd}.{ext}. An empty name is first replaced with
// image_{unixMillis}.png. A name without extension keeps no extension.
func UniqueFilename(original string, now time.Time, rnd int) string {
	ms := now.UnixMilli()

	if original == "" {
		original = fmt.Sprintf("image_%d.png", ms)
	} else {
		original = path.Base(strings.ReplaceAll(original, `\`, "/"))
	}

	ext := path.Ext(original)
	base := strings.TrimSuffix(original, ext)

	return fmt.Sprintf("%s_%d_%d%s", base, ms, rnd, ext)
}

func profileFilename(original string, now time.Time, rnd int) string {
	ext := ""
	if original != "" {
		ext = path.Ext(path.Base(strings.ReplaceAll(original, `\`, "/")))
	}

	return fmt.Sprintf("profile_%d_%d%s", now.UnixMilli(), rnd, ext)
}
