package log

import (
	"testing"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/key"
	"github.com/jutdl/jutdl/where"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)

		Convey("Setup should succeed without touching the log directory", func() {
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeFalse)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		Convey("Setup should create a log file and apply the level", func() {
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeTrue)
			So(logrus.GetLevel(), ShouldEqual, logrus.DebugLevel)

			files := lo.Must(filesystem.API().ReadDir(where.Logs()))
			So(files, ShouldNotBeEmpty)
		})

		Convey("An unknown level should fall back to info", func() {
			viper.Set(key.LogsLevel, "loud")
			So(Setup(), ShouldBeNil)
			So(logrus.GetLevel(), ShouldEqual, logrus.InfoLevel)
		})
	})
}
