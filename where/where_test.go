package where

import (
	"testing"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Downloads()", func() {
			viper.Set(key.DownloaderOutput, "")
			So(Downloads(), ShouldEqual, ".")

			viper.Set(key.DownloaderOutput, "/media/anime")
			So(Downloads(), ShouldEqual, "/media/anime")
			viper.Set(key.DownloaderOutput, "")
		})
	})
}
