package iocache

import (
	"github.com/creasty/defaults"

	"github.com/ab180/mapwork/partition"
	"github.com/ab180/mapwork/pipeline"
)

// Options are the global configuration inputs of the derivation.
type Options struct {
	// Enabled turns the acceleration layer on. Assumed on by default; whether
	// the daemon actually runs it cannot be checked at compile time.
	Enabled bool `default:"true"`

	// NonVectorWrapperEnabled allows wrapping inputs of non-vectorized plans
	// through a row-to-batch wrapper. Forces a stricter input format check.
	NonVectorWrapperEnabled bool
}

func DefaultOptions() (o Options) {
	if err := defaults.Set(&o); err != nil {
		panic(err)
	}
	return
}

// AliasInput is one alias's pipeline root paired with its partition metadata.
type AliasInput struct {
	Alias     string
	Pipeline  pipeline.Node
	Partition *partition.Descriptor
}

// Input is the registry snapshot the derivation runs over.
type Input struct {
	// Vectorized reports whether the stage runs in vectorized execution mode.
	Vectorized bool

	// Partitions are the per-location partition descriptors, in registry order.
	Partitions []*partition.Descriptor

	// Aliases are the per-alias pipeline/partition pairs, in registry order.
	Aliases []AliasInput
}

// Derive computes the eligibility verdict for one map stage. It is total:
// anomalies (unknown formats, unresolvable column types) degrade the affected
// input to ineligible instead of failing.
func Derive(opt Options, in Input) Verdict {
	if !opt.Enabled {
		return Off
	}

	canWrap := in.Vectorized
	strictFormats := false
	if !canWrap && opt.NonVectorWrapperEnabled {
		canWrap = true
		strictFormats = true
	}
	if !canWrap {
		return NoEligibleInputs
	}
	if len(in.Partitions) == 0 {
		return Unknown
	}

	var hasEligible, hasIneligible, hasTransactional bool
	for _, part := range in.Partitions {
		if part == nil {
			hasIneligible = true
			continue
		}
		if partition.CanWrap(part.EffectiveInputFormat(), strictFormats) {
			if part.Table.IsTransactional() {
				hasTransactional = true
			} else {
				hasEligible = true
			}
		} else {
			hasIneligible = true
		}
	}

	// Check that the column types actually read are supported by the layer.
	// An unsupported or unresolvable type downgrades the whole eligible set,
	// matching the conservative single-verdict contract.
	for _, a := range in.Aliases {
		if !hasEligible {
			break
		}
		ts, ok := a.Pipeline.(pipeline.TableScan)
		if !ok || a.Partition == nil || a.Partition.Table == nil {
			continue
		}
		hasEligible = supportsReadColumns(
			ts.NeededColumns(),
			a.Partition.Table.ColumnNames(),
			a.Partition.Table.ColumnTypes(),
		)
	}

	if hasTransactional {
		return TransactionalMayApply
	}
	if hasEligible {
		if hasIneligible {
			return SomeEligible
		}
		return AllEligible
	}
	return NoEligibleInputs
}
