package episode

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func collect(s Spec, limit int) []int {
	var out []int
	for n := range s.Episodes() {
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out
}

func TestParseSpec(t *testing.T) {
	Convey("ParseSpec", t, func() {
		Convey("Should accept all", func() {
			for _, in := range []string{"", "all", "ALL", "all episodes"} {
				s, err := ParseSpec(in)
				So(err, ShouldBeNil)
				So(s.IsAll(), ShouldBeTrue)
			}
		})

		Convey("Should accept a range", func() {
			s, err := ParseSpec("2-5")
			So(err, ShouldBeNil)
			So(s.IsAll(), ShouldBeFalse)
			So(s.String(), ShouldEqual, "2-5")
		})

		Convey("Should normalize a reversed range", func() {
			s, err := ParseSpec("3-1")
			So(err, ShouldBeNil)
			So(collect(s, 10), ShouldResemble, []int{1, 2, 3})
		})

		Convey("Should accept a single episode", func() {
			s, err := ParseSpec("7")
			So(err, ShouldBeNil)
			So(collect(s, 10), ShouldResemble, []int{7})
			So(s.String(), ShouldEqual, "7")
		})

		Convey("Should reject garbage", func() {
			for _, in := range []string{"one-two", "1-", "-3", "0-4", "1-2-3"} {
				_, err := ParseSpec(in)
				So(errors.Is(err, ErrInvalidSpec), ShouldBeTrue)
			}
		})
	})
}

func TestEpisodes(t *testing.T) {
	Convey("Given an unbounded selection", t, func() {
		s := All()

		Convey("It should start at 1 and never skip", func() {
			So(collect(s, 5), ShouldResemble, []int{1, 2, 3, 4, 5})
		})

		Convey("It should restart on every call", func() {
			So(collect(s, 3), ShouldResemble, collect(s, 3))
		})
	})

	Convey("Given the zero value", t, func() {
		var s Spec

		Convey("It should behave like All", func() {
			So(s.IsAll(), ShouldBeTrue)
			So(collect(s, 2), ShouldResemble, []int{1, 2})
			So(s.String(), ShouldEqual, "all")
		})
	})

	Convey("Given a closed range", t, func() {
		s, err := Range(4, 6)
		So(err, ShouldBeNil)

		Convey("It should stop after the end", func() {
			So(collect(s, 100), ShouldResemble, []int{4, 5, 6})
			So(s.End().MustGet(), ShouldEqual, 6)
		})
	})

	Convey("Ranges below 1 are rejected", t, func() {
		_, err := Range(0, 3)
		So(err, ShouldNotBeNil)
	})
}
