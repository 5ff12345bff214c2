package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jutdl/jutdl/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Given a server that echoes the user agent", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(r.UserAgent()))
		}))
		defer server.Close()

		client := NewClient(Options{})

		Convey("Get should send the browser user agent", func() {
			resp, err := client.Get(context.Background(), server.URL)
			So(err, ShouldBeNil)
			So(resp.OK(), ShouldBeTrue)
			So(string(resp.Body), ShouldEqual, constant.UserAgent)
		})

		Convey("A non-success status is reported, not returned as an error", func() {
			resp, err := client.Get(context.Background(), server.URL+"/missing")
			So(err, ShouldBeNil)
			So(resp.OK(), ShouldBeFalse)
			So(resp.Status, ShouldEqual, http.StatusNotFound)
		})

		Convey("A custom user agent overrides the default", func() {
			resp, err := NewClient(Options{UserAgent: "jutdl-test/1.0"}).Get(context.Background(), server.URL)
			So(err, ShouldBeNil)
			So(string(resp.Body), ShouldEqual, "jutdl-test/1.0")
		})

		Convey("The fingerprint transport serves plain http through the regular transport", func() {
			resp, err := NewClient(Options{Fingerprint: true}).Get(context.Background(), server.URL)
			So(err, ShouldBeNil)
			So(string(resp.Body), ShouldEqual, constant.UserAgent)
		})
	})

	Convey("Given an unreachable host", t, func() {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		Convey("Get should return a transport error", func() {
			_, err := NewClient(Options{}).Get(context.Background(), url)
			So(err, ShouldNotBeNil)
		})
	})
}
