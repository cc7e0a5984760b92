package blogservice

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func parseContent(content string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

// FeatureImage returns the src of the first <img> in content. It is "" when there is no image or the first one has no src.
func FeatureImage(content string) string {
	doc, err := parseContent(content)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(doc.Find("img").First().AttrOr("src", ""))
}

// PlainText returns the text of content with all markup removed.
func PlainText(content string) string {
	doc, err := parseContent(content)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(doc.Text())
}

// ImageSources lists the src of every <img> in content in document order.
func ImageSources(content string) []string {
	doc, err := parseContent(content)
	if err != nil {
		return nil
	}

	var srcs []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src := strings.TrimSpace(s.AttrOr("src", "")); src != "" {
			srcs = append(srcs, src)
		}
	})

	return srcs
}
