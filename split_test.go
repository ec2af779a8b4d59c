package mapwork

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

func TestSamplingTypeString(t *testing.T) {
	require.Equal(t, "", SamplingNone.String())
	require.Equal(t, "SampleOnPriorStage", SamplingOnPreviousStage.String())
	require.Equal(t, "SampleOnStageStart", SamplingOnStageStart.String())
}

func TestSplitSamples(t *testing.T) {
	Convey("Given registered split samples", t, func() {
		w := New("")
		total := int64(1 << 20)
		So(w.SetSplitSample("src1", &SplitSample{Percent: 10, TotalLength: &total}), ShouldBeNil)
		So(w.SetSplitSample("src2", &SplitSample{RowCount: 500, SeedNum: 3}), ShouldBeNil)

		Convey("Lookup by name works", func() {
			s, ok := w.SplitSampleFor("src2")
			So(ok, ShouldBeTrue)
			So(s.RowCount, ShouldEqual, 500)
		})

		Convey("NameToSplitSample returns a deep copy", func() {
			m := w.NameToSplitSample()
			So(m, ShouldHaveLength, 2)

			m["src1"].Percent = 99
			*m["src1"].TotalLength = 1

			orig, _ := w.SplitSampleFor("src1")
			So(orig.Percent, ShouldEqual, 10)
			So(*orig.TotalLength, ShouldEqual, int64(1<<20))
		})
	})
}
