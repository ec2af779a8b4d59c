package mapwork

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/ab180/mapwork/iocache"
	"github.com/ab180/mapwork/partition"
	"github.com/ab180/mapwork/pipeline"
)

// json sorts map keys, keeping the encoded descriptor byte-stable across runs.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// workWire is the serialized form of Work. The descriptor travels as one
// opaque unit; no sub-field is versioned independently.
type workWire struct {
	Name                       string                                `json:"name,omitempty"`
	Flags                      Flags                                 `json:"flags"`
	Split                      SplitConfig                           `json:"split"`
	InputFormat                string                                `json:"inputFormat,omitempty"`
	IndexIntermediateFile      string                                `json:"indexIntermediateFile,omitempty"`
	TmpPath                    string                                `json:"tmpPath,omitempty"`
	TmpPathForPartitionPruning string                                `json:"tmpPathForPartitionPruning,omitempty"`
	LeftInputJoin              bool                                  `json:"leftInputJoin,omitempty"`
	BaseSrc                    []string                              `json:"baseSrc,omitempty"`
	MapAliases                 []string                              `json:"mapAliases,omitempty"`
	LocationAliases            *orderedMap[[]string]                 `json:"locationToAliases"`
	LocationPartition          *orderedMap[*partition.Descriptor]    `json:"locationToPartition"`
	AliasPipeline              *orderedMap[pipeline.Serializable]    `json:"aliasToPipeline"`
	AliasPartition             *orderedMap[*partition.Descriptor]    `json:"aliasToPartition"`
	SplitSamples               *orderedMap[*SplitSample]             `json:"splitSamples,omitempty"`
	BucketCols                 *orderedMap[[]BucketCol]              `json:"bucketColumns,omitempty"`
	SortCols                   *orderedMap[[]SortCol]                `json:"sortColumns,omitempty"`
	EventSources               *orderedMap[[]EventSource]            `json:"eventSources,omitempty"`
	IncludedBuckets            []byte                                `json:"includedBuckets,omitempty"`
	Finalized                  bool                                  `json:"finalized"`
	CacheEligibility           iocache.Verdict                       `json:"cacheEligibility"`
}

func (w *Work) MarshalJSON() ([]byte, error) {
	verdict, finalized := w.CacheEligibility()
	return json.Marshal(workWire{
		Name:                       w.Name,
		Flags:                      w.Flags,
		Split:                      w.Split,
		InputFormat:                w.InputFormat,
		IndexIntermediateFile:      w.IndexIntermediateFile,
		TmpPath:                    w.TmpPath,
		TmpPathForPartitionPruning: w.TmpPathForPartitionPruning,
		LeftInputJoin:              w.LeftInputJoin,
		BaseSrc:                    w.BaseSrc,
		MapAliases:                 w.MapAliases,
		LocationAliases:            w.locationAliases,
		LocationPartition:          w.locationPartition,
		AliasPipeline:              w.aliasPipeline,
		AliasPartition:             w.aliasPartition,
		SplitSamples:               w.splitSamples,
		BucketCols:                 w.bucketCols,
		SortCols:                   w.sortCols,
		EventSources:               w.eventSources,
		IncludedBuckets:            w.includedBuckets,
		Finalized:                  finalized,
		CacheEligibility:           verdict,
	})
}

func (w *Work) UnmarshalJSON(data []byte) error {
	ww := workWire{
		LocationAliases:   newOrderedMap[[]string](),
		LocationPartition: newOrderedMap[*partition.Descriptor](),
		AliasPipeline:     newOrderedMap[pipeline.Serializable](),
		AliasPartition:    newOrderedMap[*partition.Descriptor](),
		SplitSamples:      newOrderedMap[*SplitSample](),
		BucketCols:        newOrderedMap[[]BucketCol](),
		SortCols:          newOrderedMap[[]SortCol](),
		EventSources:      newOrderedMap[[]EventSource](),
	}
	// fields absent on the wire keep their constructor defaults
	if err := defaultsForFlags(&ww.Flags); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &ww); err != nil {
		return errors.Wrap(err, "decode work descriptor")
	}
	w.Name = ww.Name
	w.Flags = ww.Flags
	w.Split = ww.Split
	w.InputFormat = ww.InputFormat
	w.IndexIntermediateFile = ww.IndexIntermediateFile
	w.TmpPath = ww.TmpPath
	w.TmpPathForPartitionPruning = ww.TmpPathForPartitionPruning
	w.LeftInputJoin = ww.LeftInputJoin
	w.BaseSrc = ww.BaseSrc
	w.MapAliases = ww.MapAliases
	w.locationAliases = ww.LocationAliases
	w.locationPartition = ww.LocationPartition
	w.aliasPipeline = ww.AliasPipeline
	w.aliasPartition = ww.AliasPartition
	w.splitSamples = ww.SplitSamples
	w.bucketCols = ww.BucketCols
	w.sortCols = ww.SortCols
	w.eventSources = ww.EventSources
	w.includedBuckets = ww.IncludedBuckets
	w.verdict = ww.CacheEligibility
	w.finalized.Store(ww.Finalized)
	return nil
}

// Marshal encodes a finalized descriptor for transmission to workers.
func Marshal(w *Work) ([]byte, error) {
	return json.Marshal(w)
}

// Unmarshal decodes a descriptor received from the compiler into an
// independent copy. Pipeline roots resolve by registered concrete type;
// the worker binary must import the packages declaring them.
func Unmarshal(data []byte) (*Work, error) {
	w := New("")
	if err := json.Unmarshal(data, w); err != nil {
		return nil, err
	}
	return w, nil
}
