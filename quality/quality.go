// Package quality maps requested resolutions to positions in an episode's media list.
package quality

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

// ErrUnknownTier is returned by Parse for resolutions the site does not publish.
var ErrUnknownTier = errors.New("unknown resolution")

// ErrUnavailable is returned by Select when the episode lacks the requested tier.
var ErrUnavailable = errors.New("resolution unavailable")

// Tier is a video quality level. Lower values are higher quality.
type Tier int

// The site lists media highest quality first, so a tier's value is its index.
const (
	FullHD Tier = iota
	HD
	SD
	LD
)

type tierInfo struct {
	tier    Tier
	name    string
	height  int
	aliases []string
}

var tiers = []tierInfo{
	{FullHD, "FullHD", 1080, []string{"1080", "1080p", "fullhd", "fhd"}},
	{HD, "HD", 720, []string{"720", "720p", "hd"}},
	{SD, "SD", 480, []string{"480", "480p", "sd"}},
	{LD, "LD", 360, []string{"360", "360p", "ld"}},
}

// Tiers returns every tier from highest to lowest quality.
func Tiers() []Tier {
	return lo.Map(tiers, func(t tierInfo, _ int) Tier {
		return t.tier
	})
}

// Parse resolves a user supplied resolution such as "720", "720p" or "hd".
func Parse(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range tiers {
		if lo.Contains(t.aliases, s) {
			return t.tier, nil
		}
	}
	return 0, fmt.Errorf("%w %q, pick one of: 1080, 720, 480, 360", ErrUnknownTier, s)
}

// Index is the tier's position in a media list. It does not depend on the list.
func (t Tier) Index() int {
	return int(t)
}

// Height is the vertical resolution in pixels.
func (t Tier) Height() int {
	if !t.valid() {
		return 0
	}
	return tiers[t].height
}

func (t Tier) valid() bool {
	return t >= 0 && int(t) < len(tiers)
}

func (t Tier) String() string {
	if !t.valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tiers[t].name
}

// Select picks the URL for tier from a list ordered highest quality first.
func Select(urls []*url.URL, t Tier) (*url.URL, error) {
	i := t.Index()
	if i < 0 || i >= len(urls) {
		return nil, fmt.Errorf("%w: %s needs %d links, found %d", ErrUnavailable, t, i+1, len(urls))
	}
	return urls[i], nil
}
