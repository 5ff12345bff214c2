package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/icon"
	"github.com/jutdl/jutdl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetDuration(key.DownloaderRetryBackoff), ShouldEqual, 2*time.Second)
			So(viper.GetInt(key.DownloaderWorkers), ShouldEqual, 4)
		})

		Convey("Environment variables should override defaults", func() {
			t.Setenv("JUTDL_DOWNLOADER_WORKERS", "9")
			_ = Setup()
			So(viper.GetInt(key.DownloaderWorkers), ShouldEqual, 9)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("downloader.retry_backoff")
			So(result, ShouldEqual, "downloader_retry_backoff")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given the retry backoff field", t, func() {
		field := Default[key.DownloaderRetryBackoff]

		Convey("Env should carry the application prefix", func() {
			So(field.Env(), ShouldEqual, "JUTDL_DOWNLOADER_RETRY_BACKOFF")
		})

		Convey("JSON output should report the value type", func() {
			data, err := json.Marshal(&field)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(data, &decoded), ShouldBeNil)
			So(decoded["key"], ShouldEqual, key.DownloaderRetryBackoff)
			So(decoded["type"], ShouldEqual, "duration")
		})
	})
}

func TestIconsVariantDescription(t *testing.T) {
	Convey("The icons variant description lists every variant", t, func() {
		description := Default[key.IconsVariant].Description
		for _, variant := range icon.AvailableVariants() {
			So(description, ShouldContainSubstring, variant)
		}
	})
}
