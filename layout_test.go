package mapwork

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBucketSortLayoutTracker(t *testing.T) {
	Convey("Given a descriptor", t, func() {
		w := New("")

		Convey("Absence of an entry is the default, not an error", func() {
			cols, ok := w.BucketColumns("/never-written")
			So(ok, ShouldBeFalse)
			So(cols, ShouldBeEmpty)
			So(w.BucketedLocations(), ShouldBeEmpty)
		})

		Convey("Last write wins per location", func() {
			So(w.SetBucketColumns("/out", []BucketCol{{Names: []string{"a"}, Index: 0}}), ShouldBeNil)
			So(w.SetBucketColumns("/out", []BucketCol{{Names: []string{"b"}, Index: 1}}), ShouldBeNil)

			cols, ok := w.BucketColumns("/out")
			So(ok, ShouldBeTrue)
			So(cols, ShouldResemble, []BucketCol{{Names: []string{"b"}, Index: 1}})
			So(w.BucketedLocations(), ShouldResemble, []string{"/out"})
		})

		Convey("Sort layout is tracked independently", func() {
			So(w.SetSortColumns("/out", []SortCol{{Names: []string{"ts"}, Index: 2, Ascending: true}}), ShouldBeNil)

			_, bucketed := w.BucketColumns("/out")
			So(bucketed, ShouldBeFalse)
			cols, ok := w.SortColumns("/out")
			So(ok, ShouldBeTrue)
			So(cols[0].Ascending, ShouldBeTrue)
			So(w.SortedLocations(), ShouldResemble, []string{"/out"})
		})

		Convey("Returned layouts are copies", func() {
			So(w.SetBucketColumns("/out", []BucketCol{{Names: []string{"a"}, Index: 0}}), ShouldBeNil)
			cols, _ := w.BucketColumns("/out")
			cols[0].Index = 99
			again, _ := w.BucketColumns("/out")
			So(again[0].Index, ShouldEqual, 0)
		})

		Convey("The caller's slice is copied on set", func() {
			in := []SortCol{{Names: []string{"x"}, Index: 0}}
			So(w.SetSortColumns("/out", in), ShouldBeNil)
			in[0].Index = 42
			cols, _ := w.SortColumns("/out")
			So(cols[0].Index, ShouldEqual, 0)
		})
	})
}
