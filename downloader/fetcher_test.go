package downloader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/network"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

var errDiskFull = errors.New("no space left on device")

// faultyFs fails renames, or writes to the files it creates.
type faultyFs struct {
	afero.Fs
	failRename bool
	failWrite  bool
}

func (f *faultyFs) Create(name string) (afero.File, error) {
	file, err := f.Fs.Create(name)
	if err != nil || !f.failWrite {
		return file, err
	}
	return faultyFile{file}, nil
}

func (f *faultyFs) Rename(oldname, newname string) error {
	if f.failRename {
		return errDiskFull
	}
	return f.Fs.Rename(oldname, newname)
}

type faultyFile struct {
	afero.File
}

func (faultyFile) Write([]byte) (int, error) {
	return 0, errDiskFull
}

func job(raw string) Job {
	return Job{Anime: "demo", Episode: 4, URL: lo.Must(url.Parse(raw))}
}

func TestFetcherPath(t *testing.T) {
	Convey("Given a fetcher writing into demo", t, func() {
		f := NewFetcher(network.NewClient(network.Options{}), "demo", "", Retry{})

		Convey("The extension comes from the media URL", func() {
			So(f.Path(job("https://cdn.example/v/4.1080.MKV?hash=abc")), ShouldEqual, "demo/episode-4.mkv")
		})

		Convey("URLs without a usable extension fall back to mp4", func() {
			So(f.Path(job("https://cdn.example/stream?id=4")), ShouldEqual, "demo/episode-4.mp4")
			So(f.Path(job("https://cdn.example/v/4.not-an-ext")), ShouldEqual, "demo/episode-4.mp4")
		})

		Convey("A configured fallback extension is honoured", func() {
			f := NewFetcher(network.NewClient(network.Options{}), "demo", ".webm", Retry{})
			So(f.Path(job("https://cdn.example/stream")), ShouldEqual, "demo/episode-4.webm")
		})
	})
}

func TestFetch(t *testing.T) {
	Convey("Given a media server", t, func() {
		filesystem.SetMemMapFs()
		lo.Must0(filesystem.API().MkdirAll("demo", 0o755))

		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			if r.URL.Path == "/gone.mp4" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte("frames"))
		}))
		defer server.Close()

		f := NewFetcher(network.NewClient(network.Options{}), "demo", "", Retry{Attempts: 3})

		Convey("The body is written verbatim", func() {
			path, err := f.Fetch(context.Background(), job(server.URL+"/ok.mp4"))
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "demo/episode-4.mp4")
			So(string(lo.Must(filesystem.API().ReadFile(path))), ShouldEqual, "frames")
		})

		Convey("A persistent failure stops after the configured attempts", func() {
			_, err := f.Fetch(context.Background(), job(server.URL+"/gone.mp4"))
			So(errors.Is(err, ErrFetchFailed), ShouldBeTrue)
			So(atomic.LoadInt32(&hits), ShouldEqual, 3)
		})

		Convey("A cancelled context ends the retry loop", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := f.Fetch(ctx, job(server.URL+"/ok.mp4"))
			So(errors.Is(err, ErrFetchFailed), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestFetchPersistFailures(t *testing.T) {
	Convey("Given a media server", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("frames"))
		}))
		defer server.Close()
		defer filesystem.SetMemMapFs()

		f := NewFetcher(network.NewClient(network.Options{}), "demo", "", Retry{Attempts: 1})
		fetch := func() error {
			_, err := f.Fetch(context.Background(), job(server.URL+"/4.mp4"))
			return err
		}
		assertPersistFailed := func(err error) {
			So(errors.Is(err, ErrPersistFailed), ShouldBeTrue)
			So(errors.Is(err, ErrFetchFailed), ShouldBeFalse)

			var episodeErr *EpisodeError
			So(errors.As(err, &episodeErr), ShouldBeTrue)
			So(episodeErr.Episode, ShouldEqual, 4)

			So(exists("demo/episode-4.mp4"), ShouldBeFalse)
			So(exists("demo/episode-4.mp4.part"), ShouldBeFalse)
		}

		Convey("A read-only filesystem fails the create", func() {
			filesystem.SetFs(afero.NewReadOnlyFs(afero.NewMemMapFs()))
			err := fetch()
			assertPersistFailed(err)
			So(errors.Is(err, syscall.EPERM), ShouldBeTrue)
		})

		Convey("A failing write removes the partial file", func() {
			filesystem.SetFs(&faultyFs{Fs: afero.NewMemMapFs(), failWrite: true})
			lo.Must0(filesystem.API().MkdirAll("demo", 0o755))
			err := fetch()
			assertPersistFailed(err)
			So(errors.Is(err, errDiskFull), ShouldBeTrue)
		})

		Convey("A failing rename removes the partial file", func() {
			filesystem.SetFs(&faultyFs{Fs: afero.NewMemMapFs(), failRename: true})
			lo.Must0(filesystem.API().MkdirAll("demo", 0o755))
			err := fetch()
			assertPersistFailed(err)
			So(errors.Is(err, errDiskFull), ShouldBeTrue)
		})
	})
}
