package mapwork

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/ab180/mapwork/iocache"
	"github.com/ab180/mapwork/partition"
)

func buildFinalizedWork(t *testing.T) *Work {
	t.Helper()
	w := New("stage-7")
	w.Flags.Vectorized = true
	w.Flags.MapperCannotSpanPartitions = true
	maxSize := int64(256 << 20)
	w.Split.MaxSize = &maxSize
	w.Split.Sampling = SamplingOnPreviousStage
	w.InputFormat = "combinefile"
	w.TmpPath = "/tmp/stage-7"

	require.NoError(t, w.AddEntry("/a", "t1", &TestScanOperator{Cols: []string{"id"}}, orcPart("t1")))
	require.NoError(t, w.AddEntry("/b", "t2", &TestScanOperator{Cols: []string{"name"}}, orcPart("t2")))
	require.NoError(t, w.MergeAlias("t3", "/a", nil))
	require.NoError(t, w.SetPartitionForAlias("t1", orcPart("t1")))
	require.NoError(t, w.SetSplitSample("s1", &SplitSample{Percent: 12.5, SeedNum: 42}))
	require.NoError(t, w.SetBucketColumns("/out", []BucketCol{{Names: []string{"id"}, Index: 0}}))
	require.NoError(t, w.SetSortColumns("/out", []SortCol{{Names: []string{"ts"}, Index: 2, Ascending: true}}))
	require.NoError(t, w.AddEventSource("t1", EventSource{
		Table:            &partition.TableDescriptor{Name: "dim", InputFormat: "orc"},
		ColumnName:       "dim_id",
		ColumnType:       "bigint",
		PartitionKeyExpr: "dim.id",
	}))

	w.DeriveCacheEligibility(iocache.DefaultOptions())
	w.Intern(partition.NewInterner())
	return w
}

func TestWireRoundTrip(t *testing.T) {
	Convey("Given a finalized descriptor", t, func() {
		w := buildFinalizedWork(t)

		data, err := Marshal(w)
		So(err, ShouldBeNil)

		Convey("A worker decodes an independent, equivalent copy", func() {
			got, err := Unmarshal(data)
			So(err, ShouldBeNil)

			So(got.Name, ShouldEqual, "stage-7")
			So(got.Flags, ShouldResemble, w.Flags)
			So(*got.Split.MaxSize, ShouldEqual, int64(256<<20))
			So(got.Split.Sampling, ShouldEqual, SamplingOnPreviousStage)
			So(got.InputFormat, ShouldEqual, "combinefile")

			So(got.Locations(), ShouldResemble, []string{"/a", "/b"})
			So(got.AliasesForLocation("/a"), ShouldResemble, []string{"t1", "t3"})
			So(got.Aliases(), ShouldResemble, []string{"t1", "t2"})

			p, ok := got.PipelineForAlias("t1")
			So(ok, ShouldBeTrue)
			scan, ok := p.(*TestScanOperator)
			So(ok, ShouldBeTrue)
			So(scan.NeededColumns(), ShouldResemble, []string{"id"})

			part, ok := got.PartitionForLocation("/a")
			So(ok, ShouldBeTrue)
			So(part.InputFormat, ShouldEqual, "orc")

			sample, ok := got.SplitSampleFor("s1")
			So(ok, ShouldBeTrue)
			So(sample.Percent, ShouldEqual, 12.5)

			cols, ok := got.BucketColumns("/out")
			So(ok, ShouldBeTrue)
			So(cols, ShouldResemble, []BucketCol{{Names: []string{"id"}, Index: 0}})

			So(got.EventSourceColumnNames("t1"), ShouldResemble, []string{"dim_id"})

			Convey("The copy arrives finalized with the derived verdict", func() {
				verdict, derived := got.CacheEligibility()
				So(derived, ShouldBeTrue)
				So(verdict, ShouldEqual, iocache.AllEligible)
			})

			Convey("The driver tags pipeline roots on its own copy", func() {
				got.Initialize()
				p, _ := got.PipelineForAlias("t2")
				So(p.Alias(), ShouldEqual, "t2")
			})
		})

		Convey("Encoding is deterministic", func() {
			again, err := Marshal(w)
			So(err, ShouldBeNil)
			So(string(again), ShouldEqual, string(data))
		})
	})
}

func TestWireDefaultsSurviveSparsePayload(t *testing.T) {
	// a payload that never mentions doSplitsGrouping keeps the default
	w, err := Unmarshal([]byte(`{"name":"sparse","locationToAliases":[],"locationToPartition":[],"aliasToPipeline":[],"aliasToPartition":[]}`))
	require.NoError(t, err)
	require.True(t, w.Flags.DoSplitsGrouping)
	require.False(t, w.Finalized())

	// an explicit false is honored
	w, err = Unmarshal([]byte(`{"flags":{"doSplitsGrouping":false},"locationToAliases":[],"locationToPartition":[],"aliasToPipeline":[],"aliasToPartition":[]}`))
	require.NoError(t, err)
	require.False(t, w.Flags.DoSplitsGrouping)
}
