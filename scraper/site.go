// Package scraper knows the layout of the episode site: where pages live,
// how a missing page looks and where the media links are.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/network"
)

// Site builds episode page URLs and fetches them.
type Site struct {
	base   string
	client *network.Client
}

// NewSite accepts a bare host ("jut.su") or a base URL with a scheme.
func NewSite(host string, client *network.Client) *Site {
	base := strings.TrimRight(host, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &Site{base: base, client: client}
}

// EpisodeURL is the page of episode n of anime.
func (s *Site) EpisodeURL(anime string, n int) string {
	return fmt.Sprintf("%s/%s/episode-%d.html", s.base, url.PathEscape(anime), n)
}

// Page is a fetched episode page.
type Page struct {
	Episode int
	URL     string
	Status  int
	Body    []byte
}

// Probe fetches the page of episode n. A page that does not exist is not an error;
// check Page.Exists. Transport failures are returned as is, with no retry.
func (s *Site) Probe(ctx context.Context, anime string, n int) (*Page, error) {
	pageURL := s.EpisodeURL(anime, n)
	resp, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		log.Debugf("episode page %s answered %d, relying on the page text", pageURL, resp.Status)
	}
	return &Page{Episode: n, URL: pageURL, Status: resp.Status, Body: resp.Body}, nil
}

// Exists reports whether the page is a real episode.
func (p *Page) Exists() bool {
	return Exists(p.Body)
}

// MediaURLs returns the page's media links, highest quality first.
// Relative links are resolved against the page URL.
func (p *Page) MediaURLs() []*url.URL {
	base, _ := url.Parse(p.URL)
	urls, _ := SourceURLs(bytes.NewReader(p.Body), base)
	return urls
}

// Exists applies the site's rule: a body carrying the not-found marker is a missing page,
// whatever else it contains.
func Exists(body []byte) bool {
	return !bytes.Contains(body, []byte(constant.NotFoundMarker))
}
