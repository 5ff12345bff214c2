package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/network"
	"github.com/sirupsen/logrus"
)

// Retry bounds how often a media request is attempted.
type Retry struct {
	// Attempts is the total number of requests, at least 1.
	Attempts int
	// Backoff is the fixed pause between attempts.
	Backoff time.Duration
}

// Job is one episode's resolved download.
type Job struct {
	Anime   string
	Episode int
	URL     *url.URL
}

// Fetcher streams media into the anime's directory.
type Fetcher struct {
	client    *network.Client
	dir       string
	extension string
	retry     Retry
}

// NewFetcher writes into dir. extension is used for URLs without one.
func NewFetcher(client *network.Client, dir, extension string, retry Retry) *Fetcher {
	if extension == "" {
		extension = constant.DefaultExtension
	}
	return &Fetcher{
		client:    client,
		dir:       dir,
		extension: strings.TrimPrefix(extension, "."),
		retry:     retry,
	}
}

var extensionPattern = regexp.MustCompile(`^[a-z0-9]{1,5}$`)

// Path is where the job's file ends up: {dir}/episode-{n}.{ext}.
func (f *Fetcher) Path(job Job) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(job.URL.Path), "."))
	if !extensionPattern.MatchString(ext) {
		ext = f.extension
	}
	return filepath.Join(f.dir, fmt.Sprintf("episode-%d.%s", job.Episode, ext))
}

// Fetch downloads the job and returns the written path. The body is streamed to a
// temporary file that replaces the final path only once complete, so a failed fetch
// leaves nothing at the final path.
func (f *Fetcher) Fetch(ctx context.Context, job Job) (string, error) {
	resp, err := f.open(ctx, job)
	if err != nil {
		return "", episodeError(ErrFetchFailed, job.Episode, err)
	}
	defer resp.Body.Close()

	target := f.Path(job)
	partial := target + ".part"
	fs := filesystem.API()

	file, err := fs.Create(partial)
	if err != nil {
		return "", episodeError(ErrPersistFailed, job.Episode, err)
	}

	body := &sourceReader{r: resp.Body}
	_, copyErr := io.Copy(file, body)
	closeErr := file.Close()

	switch {
	case body.err != nil:
		err = episodeError(ErrFetchFailed, job.Episode, body.err)
	case copyErr != nil:
		err = episodeError(ErrPersistFailed, job.Episode, copyErr)
	case closeErr != nil:
		err = episodeError(ErrPersistFailed, job.Episode, closeErr)
	}
	if err != nil {
		_ = fs.Remove(partial)
		return "", err
	}

	if err := fs.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = fs.Remove(partial)
		return "", episodeError(ErrPersistFailed, job.Episode, err)
	}
	if err := fs.Rename(partial, target); err != nil {
		_ = fs.Remove(partial)
		return "", episodeError(ErrPersistFailed, job.Episode, err)
	}

	return target, nil
}

// open requests the media until it gets a 2xx response or runs out of attempts.
func (f *Fetcher) open(ctx context.Context, job Job) (*http.Response, error) {
	logger := log.WithFields(logrus.Fields{"anime": job.Anime, "episode": job.Episode})
	attempts := max(f.retry.Attempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			logger.WithError(lastErr).Warnf("retrying media request (%d/%d)", attempt, attempts)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.retry.Backoff):
			}
		}

		resp, err := f.client.Stream(ctx, job.URL.String())
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %s", resp.Status)
			continue
		}

		logger.Debugf("media response %s, %d bytes", resp.Status, resp.ContentLength)
		return resp, nil
	}

	return nil, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// sourceReader remembers read failures so they can be told apart from write failures.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}
