// Package iocache derives whether a map stage's inputs can be served through
// the optional IO acceleration/caching layer. The derivation is a read-only
// finalization pass over the stage's partition and pipeline registry: it never
// fails, degrading to the most conservative verdict instead, so a compile can
// always proceed without the layer.
package iocache

// Verdict is the single summary produced by Derive. Verdicts are mutually
// exclusive; TransactionalMayApply takes precedence over the
// eligible/ineligible split.
type Verdict int

const (
	// Off means the acceleration layer is disabled.
	Off Verdict = iota

	// NoEligibleInputs means no input can go through the layer.
	NoEligibleInputs

	// Unknown means there was no partition metadata to judge from.
	Unknown

	// TransactionalMayApply means at least one wrappable input belongs to a
	// transactional table; the layer may apply subject to transaction state.
	TransactionalMayApply

	// AllEligible means every input can go through the layer.
	AllEligible

	// SomeEligible means some inputs can go through the layer and some cannot.
	SomeEligible
)

func (v Verdict) String() string {
	switch v {
	case Off:
		return "off"
	case NoEligibleInputs:
		return "no inputs"
	case Unknown:
		return "unknown"
	case TransactionalMayApply:
		return "may be used (transactional table)"
	case AllEligible:
		return "all inputs"
	case SomeEligible:
		return "some inputs"
	}
	return "invalid"
}
