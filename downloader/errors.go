package downloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jutdl/jutdl/quality"
	"github.com/samber/mo"
)

// Failure kinds. Match them with errors.Is; recover the episode with errors.As on *EpisodeError.
var (
	ErrEpisodeProbeFailed    = errors.New("episode probe failed")
	ErrNoVideoLinksFound     = errors.New("no video links found")
	ErrResolutionUnavailable = errors.New("resolution unavailable")
	ErrFetchFailed           = errors.New("fetch failed")
	ErrPersistFailed         = errors.New("persist failed")
	ErrDirectoryCreateFailed = errors.New("directory create failed")
	ErrAnimeNotFound         = errors.New("anime not found")
)

// EpisodeError is a failure scoped to one episode.
type EpisodeError struct {
	Kind    error
	Episode int
	Tier    mo.Option[quality.Tier]
	Err     error
}

func (e *EpisodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "episode %d: %s", e.Episode, e.Kind)
	if tier, ok := e.Tier.Get(); ok {
		fmt.Fprintf(&b, " (%s)", tier)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err)
	}
	return b.String()
}

func (e *EpisodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func episodeError(kind error, episode int, err error) *EpisodeError {
	return &EpisodeError{Kind: kind, Episode: episode, Err: err}
}
