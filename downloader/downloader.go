// Package downloader drives a run: it walks the episode sequence, stops at the first
// page the site reports as missing and downloads every episode found before it.
//
// Probing is sequential because the stop condition depends on each answer. Every
// existing episode is then located, resolved and fetched in its own task. Tasks are
// never cancelled because a sibling failed: all of them finish, and the run reports the
// first error returned by any task (first error wins). Files written by successful
// tasks stay on disk.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/episode"
	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/network"
	"github.com/jutdl/jutdl/quality"
	"github.com/jutdl/jutdl/scraper"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options is the configuration of one run. It is read-only once the run starts.
type Options struct {
	// Anime is both the URL path segment on the site and the output directory name.
	Anime    string
	Episodes episode.Spec
	Tier     quality.Tier

	// Site is a host or a base URL. Defaults to constant.DefaultSite.
	Site string
	// Output is the parent of the anime directory. Defaults to the working directory.
	Output string
	// Workers limits concurrent episode tasks. Zero or less means no limit.
	Workers   int
	Retry     Retry
	Extension string

	// Client is shared by all tasks. A default client is built when nil.
	Client *network.Client

	// OnEpisode is called once per dispatched episode when its task ends.
	// It may be called from several goroutines at once.
	OnEpisode func(Report)
}

// Report describes how one episode ended.
type Report struct {
	Episode int
	Path    string
	Err     error
}

// Summary describes a successful run.
type Summary struct {
	Anime    string
	Dir      string
	Episodes int
	Files    []string
}

// Downloader runs the download described by its Options.
type Downloader struct {
	options Options
	dir     string
	site    *scraper.Site
	fetcher *Fetcher
}

// New validates options and prepares a Downloader. No network or filesystem access happens here.
func New(options Options) (*Downloader, error) {
	if err := validateAnime(options.Anime); err != nil {
		return nil, err
	}

	if options.Client == nil {
		options.Client = network.NewClient(network.Options{})
	}
	if options.Site == "" {
		options.Site = constant.DefaultSite
	}

	dir := options.Anime
	if options.Output != "" {
		dir = filepath.Join(options.Output, options.Anime)
	}

	return &Downloader{
		options: options,
		dir:     dir,
		site:    scraper.NewSite(options.Site, options.Client),
		fetcher: NewFetcher(options.Client, dir, options.Extension, options.Retry),
	}, nil
}

func validateAnime(anime string) error {
	switch {
	case strings.TrimSpace(anime) == "":
		return errors.New("anime name is empty")
	case anime == "." || anime == "..", strings.ContainsAny(anime, `/\`):
		return fmt.Errorf("anime name %q must be a single path segment", anime)
	}
	return nil
}

// Dir is the directory episodes are written to.
func (d *Downloader) Dir() string {
	return d.dir
}

// Run downloads every selected episode up to the first missing one.
//
// A transport failure while probing ends the loop; tasks already dispatched are still
// awaited and the probe failure is returned. A missing page is never an error, unless
// it is episode 1: then the anime itself does not exist.
func (d *Downloader) Run(ctx context.Context) (*Summary, error) {
	var (
		anime  = d.options.Anime
		spec   = d.options.Episodes
		logger = log.WithFields(logrus.Fields{
			"anime":      anime,
			"episodes":   spec.String(),
			"resolution": d.options.Tier.String(),
		})
	)

	logger.Info("starting download")

	if err := filesystem.API().MkdirAll(d.dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDirectoryCreateFailed, d.dir, err)
	}

	var (
		group    errgroup.Group
		mu       sync.Mutex
		files    = make(map[int]string)
		probeErr error
	)
	group.SetLimit(d.limit())

	for n := range spec.Episodes() {
		page, err := d.site.Probe(ctx, anime, n)
		if err != nil {
			probeErr = episodeError(ErrEpisodeProbeFailed, n, err)
			logger.WithError(err).Errorf("probing episode %d failed", n)
			break
		}

		if !page.Exists() {
			if n == 1 {
				probeErr = fmt.Errorf("%w: %q has no episode 1", ErrAnimeNotFound, anime)
			}
			logger.Infof("episode %d does not exist, stopping here", n)
			break
		}

		logger.Debugf("dispatching episode %d", n)
		group.Go(func() error {
			path, err := d.download(ctx, page)
			if d.options.OnEpisode != nil {
				d.options.OnEpisode(Report{Episode: n, Path: path, Err: err})
			}
			if err != nil {
				logger.WithError(err).Errorf("episode %d failed", n)
				return err
			}

			mu.Lock()
			files[n] = path
			mu.Unlock()
			return nil
		})
	}

	taskErr := group.Wait()
	if probeErr != nil {
		return nil, probeErr
	}
	if taskErr != nil {
		return nil, taskErr
	}

	summary := &Summary{
		Anime:    anime,
		Dir:      d.dir,
		Episodes: len(files),
		Files:    make([]string, 0, len(files)),
	}
	for _, n := range slices.Sorted(maps.Keys(files)) {
		summary.Files = append(summary.Files, files[n])
	}

	logger.Infof("successfully downloaded %d episodes", summary.Episodes)
	return summary, nil
}

func (d *Downloader) limit() int {
	if d.options.Workers <= 0 {
		return -1
	}
	return d.options.Workers
}

// download locates the media of an existing page, picks the requested tier and fetches it.
func (d *Downloader) download(ctx context.Context, page *scraper.Page) (string, error) {
	urls := page.MediaURLs()
	if len(urls) == 0 {
		return "", episodeError(ErrNoVideoLinksFound, page.Episode, nil)
	}

	tier := d.options.Tier
	u, err := quality.Select(urls, tier)
	if err != nil {
		return "", &EpisodeError{
			Kind:    ErrResolutionUnavailable,
			Episode: page.Episode,
			Tier:    mo.Some(tier),
			Err:     fmt.Errorf("%d links published", len(urls)),
		}
	}

	log.WithFields(logrus.Fields{"anime": d.options.Anime, "episode": page.Episode}).
		Infof("downloading episode #%d", page.Episode)

	return d.fetcher.Fetch(ctx, Job{Anime: d.options.Anime, Episode: page.Episode, URL: u})
}
