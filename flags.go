package mapwork

import (
	"strings"

	"github.com/creasty/defaults"
)

// Flags are the boolean execution-mode switches of a map stage. Defaults are
// applied by New; the zero value of DoSplitsGrouping is not the default.
type Flags struct {
	// Vectorized runs the stage's pipelines in vectorized (batch) mode.
	Vectorized bool `json:"vectorized"`

	// CacheResident runs the stage inside the IO acceleration/cache daemon.
	CacheResident bool `json:"cacheResident"`

	// Uber co-locates the stage with its coordinator.
	Uber bool `json:"uber"`

	// InputFormatSorted marks the input as pre-sorted, enabling binary-search
	// record readers.
	InputFormatSorted bool `json:"inputFormatSorted"`

	// MapperCannotSpanPartitions restricts each mapper to a single partition.
	MapperCannotSpanPartitions bool `json:"mapperCannotSpanPartitions"`

	// DoSplitsGrouping lets the submission layer group small splits.
	DoSplitsGrouping bool `json:"doSplitsGrouping" default:"true"`

	// DummyScan marks a synthetic stage reading a one-row dummy input.
	DummyScan bool `json:"dummyScan"`

	// UseBucketizedInputFormat requires the bucket-aware input format wrapper.
	// This is the only flag propagated by Work.MergeInto.
	UseBucketizedInputFormat bool `json:"useBucketizedInputFormat"`
}

func defaultsForFlags(f *Flags) error {
	return defaults.Set(f)
}

// ExecutionMode renders the mode flags for display. Empty when the stage runs
// in the plain row-mode path.
func (f Flags) ExecutionMode() string {
	var parts []string
	if f.Vectorized {
		parts = append(parts, "vectorized")
	}
	if f.CacheResident {
		if f.Uber {
			parts = append(parts, "uber")
		} else {
			parts = append(parts, "cached")
		}
	}
	return strings.Join(parts, ", ")
}
