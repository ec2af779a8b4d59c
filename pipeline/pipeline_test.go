package pipeline

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

// FilterOperator is a stand-in engine operator root.
type FilterOperator struct {
	Predicate   string `json:"predicate"`
	TaggedAlias string `json:"taggedAlias,omitempty"`
}

func (f *FilterOperator) SetAlias(a string) { f.TaggedAlias = a }
func (f *FilterOperator) Alias() string     { return f.TaggedAlias }

// ScanOperator additionally reports the columns it reads.
type ScanOperator struct {
	Cols        []string `json:"cols"`
	TaggedAlias string   `json:"taggedAlias,omitempty"`
}

func (s *ScanOperator) SetAlias(a string)       { s.TaggedAlias = a }
func (s *ScanOperator) Alias() string           { return s.TaggedAlias }
func (s *ScanOperator) NeededColumns() []string { return s.Cols }

func TestSerializableRoundTrip(t *testing.T) {
	Convey("Given a wrapped pipeline root", t, func() {
		root := &FilterOperator{Predicate: "id > 10"}
		wrapped := Wrap(root)

		data, err := jsoniter.Marshal(wrapped)
		So(err, ShouldBeNil)

		Convey("The concrete type is restored on decode", func() {
			var got Serializable
			So(jsoniter.Unmarshal(data, &got), ShouldBeNil)

			decoded, ok := got.Node.(*FilterOperator)
			So(ok, ShouldBeTrue)
			So(decoded.Predicate, ShouldEqual, "id > 10")
		})
	})
}

func TestTableScanAssertion(t *testing.T) {
	var n Node = &ScanOperator{Cols: []string{"a", "b"}}
	ts, ok := n.(TableScan)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, ts.NeededColumns())

	n = &FilterOperator{}
	_, ok = n.(TableScan)
	require.False(t, ok)
}

func TestAliasTagging(t *testing.T) {
	root := &ScanOperator{}
	require.Empty(t, root.Alias())
	root.SetAlias("t1")
	require.Equal(t, "t1", root.Alias())
}
