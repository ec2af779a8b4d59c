package mapwork

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// SamplingType selects how input sampling drives the stage's partitioning.
type SamplingType int

const (
	// SamplingNone disables sampled partitioning.
	SamplingNone SamplingType = iota

	// SamplingOnPreviousStage uses samples collected by the prior stage.
	SamplingOnPreviousStage

	// SamplingOnStageStart samples when the stage's tasks start.
	SamplingOnStageStart
)

// String renders the sampling mode for display. Empty for SamplingNone.
func (s SamplingType) String() string {
	switch s {
	case SamplingOnPreviousStage:
		return "SampleOnPriorStage"
	case SamplingOnStageStart:
		return "SampleOnStageStart"
	}
	return ""
}

// SplitConfig carries the input split sizing knobs read by the job-submission
// layer. Nil means the knob is unset and cluster defaults apply; zero is a
// legal explicit value, so absence is modeled with pointers.
type SplitConfig struct {
	MaxSize        *int64 `json:"maxSize,omitempty"`
	MinSize        *int64 `json:"minSize,omitempty"`
	MinSizePerNode *int64 `json:"minSizePerNode,omitempty"`
	MinSizePerRack *int64 `json:"minSizePerRack,omitempty"`

	// NumMapTasks is a hint, not a bound; the submission layer may ignore it.
	NumMapTasks *int32 `json:"numMapTasks,omitempty"`

	Sampling SamplingType `json:"sampling,omitempty"`
}

// SplitSample describes a sampling spec over one named input source.
type SplitSample struct {
	// Percent of the input to read, in (0, 100].
	Percent float64 `json:"percent,omitempty"`

	// TotalLength caps the sampled bytes when set.
	TotalLength *int64 `json:"totalLength,omitempty"`

	// SeedNum seeds the split shuffle so sampling is reproducible.
	SeedNum int `json:"seedNum,omitempty"`

	// RowCount caps the sampled rows when set (> 0).
	RowCount int `json:"rowCount,omitempty"`
}

// SetSplitSample registers a sampling spec under an arbitrary name. Names are
// unrelated to aliases or locations.
func (w *Work) SetSplitSample(name string, s *SplitSample) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "set split sample %s", name)
	}
	w.splitSamples.Set(name, s)
	return nil
}

// SplitSampleFor returns the sampling spec registered under name.
func (w *Work) SplitSampleFor(name string) (*SplitSample, bool) {
	return w.splitSamples.Get(name)
}

// NameToSplitSample returns a deep copy of the sampling specs, keyed by name.
// Mutating the returned specs does not affect the descriptor.
func (w *Work) NameToSplitSample() map[string]*SplitSample {
	out := make(map[string]*SplitSample, w.splitSamples.Len())
	for _, name := range w.splitSamples.keys {
		src, _ := w.splitSamples.Get(name)
		if src == nil {
			out[name] = nil
			continue
		}
		dup := new(SplitSample)
		if err := copier.Copy(dup, src); err != nil {
			// copier only fails on invalid destinations; ours is a struct pointer
			panic(err)
		}
		if src.TotalLength != nil {
			// copier shares same-typed pointer fields; detach the cap
			capBytes := *src.TotalLength
			dup.TotalLength = &capBytes
		}
		out[name] = dup
	}
	return out
}
