package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// SourceURLs extracts the src of every <source> element in document order.
// Values that do not parse as URLs are dropped. A nil base leaves relative links as they are.
func SourceURLs(r io.Reader, base *url.URL) ([]*url.URL, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	srcs := doc.Find("source[src]").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.AttrOr("src", ""))
	})

	return lo.FilterMap(srcs, func(src string, _ int) (*url.URL, bool) {
		if src == "" {
			return nil, false
		}
		u, err := url.Parse(src)
		if err != nil {
			return nil, false
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		return u, true
	}), nil
}
