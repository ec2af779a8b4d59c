// Package mapwork holds the descriptor of the data-parallel (map-side) stage
// of a distributed query plan: which locations each worker reads, which table
// aliases those locations serve, the operator pipeline bound to each alias,
// and the split/sampling/layout metadata the job-submission layer needs.
//
// The compiler builds a Work through the mutation API while lowering the
// logical plan, physical-optimization passes fill in the auxiliary metadata,
// and DeriveCacheEligibility finalizes it. The finalized descriptor is then
// serialized and shipped; each worker deserializes its own read-only copy and
// drives the per-alias pipelines from it.
//
// Construction is single-threaded by design: none of the mutation operations
// are synchronized, and the compiler owns the descriptor until finalization.
package mapwork

import (
	"fmt"
	"strings"

	"github.com/airbloc/logger"
	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	funk "github.com/thoas/go-funk"
	"go.uber.org/atomic"

	"github.com/ab180/mapwork/iocache"
	"github.com/ab180/mapwork/partition"
	"github.com/ab180/mapwork/pipeline"
)

var log = logger.New("mapwork")

// Work describes one map stage. Create it with New; the zero value is unusable.
type Work struct {
	Name string

	// Flags are the execution-mode switches of the stage.
	Flags Flags

	// Split configures input split sizing and sampling for the submission layer.
	Split SplitConfig

	// InputFormat overrides the stage-level input format identifier, when set.
	InputFormat string

	// IndexIntermediateFile accumulates index intermediate file names,
	// comma-joined. Use AddIndexIntermediateFile.
	IndexIntermediateFile string

	// TmpPath is the scratch location of the stage, if any.
	TmpPath string

	// TmpPathForPartitionPruning is the scratch location runtime pruning
	// events are written to.
	TmpPathForPartitionPruning string

	// Join bookkeeping carried for the compiler; opaque to workers.
	LeftInputJoin bool
	BaseSrc       []string
	MapAliases    []string

	// The paired location registry. A location key must exist in both maps or
	// in neither; every mutation below preserves this.
	locationAliases   *orderedMap[[]string]
	locationPartition *orderedMap[*partition.Descriptor]

	// Per-alias pipeline binding and the independent per-alias partition view.
	aliasPipeline  *orderedMap[pipeline.Serializable]
	aliasPartition *orderedMap[*partition.Descriptor]

	splitSamples *orderedMap[*SplitSample]
	bucketCols   *orderedMap[[]BucketCol]
	sortCols     *orderedMap[[]SortCol]
	eventSources *orderedMap[[]EventSource]

	// Canonical byte form of the bucket inclusion set; see buckets.go.
	includedBuckets []byte

	finalized   atomic.Bool
	verdict     iocache.Verdict
	initialized bool
}

// New creates an empty descriptor for one map stage.
func New(name string) *Work {
	w := &Work{
		Name:              name,
		locationAliases:   newOrderedMap[[]string](),
		locationPartition: newOrderedMap[*partition.Descriptor](),
		aliasPipeline:     newOrderedMap[pipeline.Serializable](),
		aliasPartition:    newOrderedMap[*partition.Descriptor](),
		splitSamples:      newOrderedMap[*SplitSample](),
		bucketCols:        newOrderedMap[[]BucketCol](),
		sortCols:          newOrderedMap[[]SortCol](),
		eventSources:      newOrderedMap[[]EventSource](),
	}
	if err := defaults.Set(&w.Flags); err != nil {
		panic(err)
	}
	return w
}

// AddEntry registers alias as a reader of location with the given partition
// metadata, and binds the operator pipeline root to the alias. Registering the
// same alias twice under one location fails with ErrDuplicateAlias; binding a
// second pipeline to an alias fails with ErrAliasBound. Both indicate a bug in
// the lowering pass and must abort compilation.
func (w *Work) AddEntry(location, alias string, root pipeline.Node, part *partition.Descriptor) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "add entry %s", alias)
	}
	aliases, seen := w.locationAliases.Get(location)
	if seen != w.locationPartition.Has(location) {
		log.Error("pairing violation on location {}: registry is corrupted", location)
		return errors.Wrapf(ErrPairingViolation, "location %s", location)
	}
	if seen && funk.ContainsString(aliases, alias) {
		return errors.Wrapf(ErrDuplicateAlias, "alias %s for location %s", alias, location)
	}
	if !seen {
		w.locationPartition.Set(location, part)
	}
	w.locationAliases.Set(location, append(aliases, alias))

	if w.aliasPipeline.Has(alias) {
		return errors.Wrapf(ErrAliasBound, "alias %s", alias)
	}
	w.aliasPipeline.Set(alias, pipeline.Wrap(root))
	return nil
}

// MergeAlias adds alias to the location's alias set, creating the location
// with the given partition metadata if it is unseen. Unlike AddEntry it binds
// no pipeline and accepts duplicate aliases; it is used when merging inputs
// that already share a pipeline.
func (w *Work) MergeAlias(alias, location string, part *partition.Descriptor) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "merge alias %s", alias)
	}
	aliases, seen := w.locationAliases.Get(location)
	if !seen {
		w.locationPartition.Set(location, part)
	}
	w.locationAliases.Set(location, append(aliases, alias))
	return nil
}

// OverwriteForDynamicPartitionMerge unconditionally replaces both registry
// mappings for location. This bypasses the AddEntry uniqueness checks on
// purpose: dynamic-partition resolution determines the final location-to-alias
// grouping only after lowering has run.
func (w *Work) OverwriteForDynamicPartitionMerge(location string, aliases []string, part *partition.Descriptor) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "overwrite location %s", location)
	}
	w.locationAliases.Set(location, append([]string(nil), aliases...))
	w.locationPartition.Set(location, part)
	return nil
}

// SetPartitionForAlias records the per-alias partition view consumed by
// per-alias lookups such as the eligibility derivation. It may share
// descriptor instances with the per-location map.
func (w *Work) SetPartitionForAlias(alias string, part *partition.Descriptor) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "set partition for alias %s", alias)
	}
	w.aliasPartition.Set(alias, part)
	return nil
}

// Rebind replaces every bound pipeline root with its image under replacement.
// Used when an optimization pass substitutes operator nodes in place. Fails
// without mutating anything if a current root has no replacement.
func (w *Work) Rebind(replacement map[pipeline.Node]pipeline.Node) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "rebind")
	}
	for _, alias := range w.aliasPipeline.keys {
		cur, _ := w.aliasPipeline.Get(alias)
		if _, ok := replacement[cur.Node]; !ok {
			return errors.Wrapf(ErrMissingReplacement, "alias %s", alias)
		}
	}
	for _, alias := range w.aliasPipeline.keys {
		cur, _ := w.aliasPipeline.Get(alias)
		w.aliasPipeline.Set(alias, pipeline.Wrap(replacement[cur.Node]))
	}
	return nil
}

// Aliases returns the aliases with a bound pipeline, in binding order.
func (w *Work) Aliases() []string {
	return w.aliasPipeline.Keys()
}

// Pipelines returns the bound pipeline roots, in binding order.
func (w *Work) Pipelines() []pipeline.Node {
	pp := make([]pipeline.Node, 0, w.aliasPipeline.Len())
	for _, s := range w.aliasPipeline.Values() {
		pp = append(pp, s.Node)
	}
	return pp
}

// Locations returns the registered locations, in registration order.
func (w *Work) Locations() []string {
	return w.locationAliases.Keys()
}

// PartitionDescriptors returns the per-alias partition descriptors, in order.
// The descriptor instances are shared, not copied.
func (w *Work) PartitionDescriptors() []*partition.Descriptor {
	return w.aliasPartition.Values()
}

// LocationPartitions returns the per-location partition descriptors, in
// location registration order.
func (w *Work) LocationPartitions() []*partition.Descriptor {
	return w.locationPartition.Values()
}

// AliasesForLocation returns a copy of the alias set registered for location.
func (w *Work) AliasesForLocation(location string) []string {
	aliases, _ := w.locationAliases.Get(location)
	return append([]string(nil), aliases...)
}

func (w *Work) PartitionForLocation(location string) (*partition.Descriptor, bool) {
	return w.locationPartition.Get(location)
}

func (w *Work) PipelineForAlias(alias string) (pipeline.Node, bool) {
	s, ok := w.aliasPipeline.Get(alias)
	if !ok {
		return nil, false
	}
	return s.Node, true
}

func (w *Work) PartitionForAlias(alias string) (*partition.Descriptor, bool) {
	return w.aliasPartition.Get(alias)
}

// AllRootPipelines returns the distinct pipeline roots in binding order.
// Multiple aliases may share one root after merges.
func (w *Work) AllRootPipelines() []pipeline.Node {
	var roots []pipeline.Node
	seen := map[pipeline.Node]struct{}{}
	for _, s := range w.aliasPipeline.Values() {
		if _, dup := seen[s.Node]; dup {
			continue
		}
		seen[s.Node] = struct{}{}
		roots = append(roots, s.Node)
	}
	return roots
}

// AnyRootPipeline returns an arbitrary bound root, or nil if none are bound.
func (w *Work) AnyRootPipeline() pipeline.Node {
	if w.aliasPipeline.Len() == 0 {
		return nil
	}
	s, _ := w.aliasPipeline.Get(w.aliasPipeline.keys[0])
	return s.Node
}

// Initialize tags each pipeline root with its owning alias. The worker-side
// driver calls this exactly once on its deserialized copy before first use;
// repeated calls are no-ops.
func (w *Work) Initialize() {
	if w.initialized {
		return
	}
	w.initialized = true
	for _, alias := range w.aliasPipeline.keys {
		s, _ := w.aliasPipeline.Get(alias)
		s.SetAlias(alias)
	}
}

// Intern canonicalizes every partition descriptor reachable from the two
// partition maps, so structurally identical descriptors are encoded once on
// the wire. Runs after finalization; interned descriptors are read-only.
func (w *Work) Intern(in *partition.Interner) {
	for _, loc := range w.locationPartition.keys {
		d, _ := w.locationPartition.Get(loc)
		w.locationPartition.Set(loc, in.Intern(d))
	}
	for _, alias := range w.aliasPartition.keys {
		d, _ := w.aliasPartition.Get(alias)
		w.aliasPartition.Set(alias, in.Intern(d))
	}
}

// MergeInto propagates stage-fusion state from w into the surviving
// descriptor dst. The only field affecting the survivor is whether the
// bucketized input format wrapper is required; everything else stays as-is.
func (w *Work) MergeInto(dst *Work) {
	dst.Flags.UseBucketizedInputFormat = dst.Flags.UseBucketizedInputFormat || w.Flags.UseBucketizedInputFormat
}

// DeriveCacheEligibility runs the IO-cache eligibility derivation and
// finalizes the descriptor: registry mutations fail with ErrFinalized
// afterwards. Only the first call derives; later calls return the cached
// verdict.
func (w *Work) DeriveCacheEligibility(opt iocache.Options) iocache.Verdict {
	if !w.finalized.CAS(false, true) {
		return w.verdict
	}
	in := iocache.Input{
		Vectorized: w.Flags.Vectorized,
		Partitions: w.locationPartition.Values(),
	}
	for _, alias := range w.aliasPipeline.keys {
		s, _ := w.aliasPipeline.Get(alias)
		part, _ := w.aliasPartition.Get(alias)
		in.Aliases = append(in.Aliases, iocache.AliasInput{
			Alias:     alias,
			Pipeline:  s.Node,
			Partition: part,
		})
	}
	w.verdict = iocache.Derive(opt, in)
	return w.verdict
}

// CacheEligibility returns the derived verdict. The second return is false
// until DeriveCacheEligibility has run.
func (w *Work) CacheEligibility() (iocache.Verdict, bool) {
	return w.verdict, w.finalized.Load()
}

// Finalized reports whether the descriptor has been finalized.
func (w *Work) Finalized() bool {
	return w.finalized.Load()
}

// DeriveExplainAttributes fills display-only attributes derived from the
// registry, such as each partition descriptor's base file name.
func (w *Work) DeriveExplainAttributes() {
	for _, loc := range w.locationPartition.keys {
		if d, _ := w.locationPartition.Get(loc); d != nil {
			d.DeriveBaseFileName(loc)
		}
	}
}

// AddIndexIntermediateFile appends an index intermediate file name to the
// comma-joined accumulator.
func (w *Work) AddIndexIntermediateFile(fileName string) {
	if w.IndexIntermediateFile == "" {
		w.IndexIntermediateFile = fileName
		return
	}
	w.IndexIntermediateFile += "," + fileName
}

// TruncatedLocationToAliases returns the alias sets keyed by locations with
// the given warehouse prefix stripped. Display only; intermediate locations
// outside the prefix are returned unchanged.
func (w *Work) TruncatedLocationToAliases(prefix string) ([]string, [][]string) {
	locs := make([]string, 0, w.locationAliases.Len())
	aliases := make([][]string, 0, w.locationAliases.Len())
	for _, loc := range w.locationAliases.keys {
		aa, _ := w.locationAliases.Get(loc)
		locs = append(locs, strings.TrimPrefix(loc, prefix))
		aliases = append(aliases, append([]string(nil), aa...))
	}
	return locs, aliases
}

// Pretty returns a short human-readable rendering of the location registry.
func (w *Work) Pretty() (s string) {
	for _, loc := range w.locationAliases.keys {
		aliases, _ := w.locationAliases.Get(loc)
		s += fmt.Sprintf("  %s: %s\n", loc, strings.Join(ellipsis(append([]string(nil), aliases...), 50, 500), ", "))
	}
	return
}

func ellipsis(ss []string, maxElemLen, maxLen int) []string {
	lenSum := 0
	for i, s := range ss {
		if len(s) > maxElemLen {
			s = s[:maxElemLen] + "…"
			ss[i] = s
		}
		lenSum += len(s)
		if lenSum+len(s) > maxLen {
			return append(ss[:i], "…")
		}
	}
	return ss
}
