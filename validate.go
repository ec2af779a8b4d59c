package mapwork

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Validate checks the descriptor's internal consistency and returns every
// breach found, aggregated. The mutation API preserves these invariants on
// its own; Validate exists for tests and for diagnosing state after the
// bypassing operations (OverwriteForDynamicPartitionMerge, wire decode of a
// foreign payload).
func (w *Work) Validate() error {
	var result *multierror.Error

	for _, loc := range w.locationAliases.keys {
		if !w.locationPartition.Has(loc) {
			result = multierror.Append(result, errors.Wrapf(
				ErrPairingViolation, "location %s has aliases but no partition", loc))
		}
	}
	for _, loc := range w.locationPartition.keys {
		if !w.locationAliases.Has(loc) {
			result = multierror.Append(result, errors.Wrapf(
				ErrPairingViolation, "location %s has a partition but no aliases", loc))
		}
	}

	for _, loc := range w.locationAliases.keys {
		aliases, _ := w.locationAliases.Get(loc)
		seen := make(map[string]struct{}, len(aliases))
		for _, a := range aliases {
			if _, dup := seen[a]; dup {
				result = multierror.Append(result, errors.Wrapf(
					ErrDuplicateAlias, "alias %s appears twice for location %s", a, loc))
			}
			seen[a] = struct{}{}
		}
	}

	return result.ErrorOrNil()
}
