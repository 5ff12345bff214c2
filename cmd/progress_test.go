package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jutdl/jutdl/downloader"
	"github.com/jutdl/jutdl/episode"
	"github.com/jutdl/jutdl/key"
	"github.com/jutdl/jutdl/quality"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestProgress(t *testing.T) {
	Convey("Given progress written to a buffer", t, func() {
		viper.Set(key.IconsVariant, "plain")
		var buf bytes.Buffer
		p := newProgress(&buf, "demo", episode.All(), quality.HD)

		Convey("No status line is drawn outside a terminal", func() {
			p.Start()
			p.Stop()
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("Each report prints one line", func() {
			p.Report(downloader.Report{Episode: 1, Path: "demo/episode-1.mp4"})
			p.Report(downloader.Report{Episode: 2, Err: errors.New("episode 2: fetch failed")})

			So(buf.String(), ShouldContainSubstring, "✓ # episode 1")
			So(buf.String(), ShouldContainSubstring, "demo/episode-1.mp4")
			So(buf.String(), ShouldContainSubstring, "episode 2: fetch failed")
			So(bytes.Count(buf.Bytes(), []byte("\n")), ShouldEqual, 2)
			So(p.done, ShouldEqual, 1)
		})
	})
}
