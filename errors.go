package mapwork

import "github.com/pkg/errors"

var (
	// ErrDuplicateAlias is returned by AddEntry when an alias is registered
	// twice under the same location. Always a compiler bug; compilation must
	// stop on it.
	ErrDuplicateAlias = errors.New("duplicate alias for location")

	// ErrAliasBound is returned when a second pipeline is bound to an alias.
	// Same severity as ErrDuplicateAlias.
	ErrAliasBound = errors.New("alias already bound to a pipeline")

	// ErrPairingViolation signals that a location exists in only one of the
	// paired alias/partition maps. It cannot be produced by the mutation API
	// itself; observing it means internal state was corrupted.
	ErrPairingViolation = errors.New("location registry pairing violation")

	// ErrMissingReplacement is returned by Rebind when a currently bound
	// pipeline root has no image in the replacement map.
	ErrMissingReplacement = errors.New("no replacement for pipeline root")

	// ErrFinalized is returned by mutation operations after the descriptor
	// has been finalized by DeriveCacheEligibility.
	ErrFinalized = errors.New("descriptor is already finalized")
)
