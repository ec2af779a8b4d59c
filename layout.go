package mapwork

import "github.com/pkg/errors"

// BucketCol names the columns a pipeline's write target is bucketed by.
// Names holds every alias of the column observed through the operator tree;
// Index is the column's position in the written schema.
type BucketCol struct {
	Names []string `json:"names"`
	Index int      `json:"index"`
}

// SortCol names a column the write target is sorted by.
type SortCol struct {
	Names     []string `json:"names"`
	Index     int      `json:"index"`
	Ascending bool     `json:"ascending"`
}

// SetBucketColumns records the inferred bucket layout of data written to
// location. Called by the physical-optimization pass once inference succeeds;
// last write wins.
func (w *Work) SetBucketColumns(location string, cols []BucketCol) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "set bucket columns for %s", location)
	}
	w.bucketCols.Set(location, append([]BucketCol(nil), cols...))
	return nil
}

// BucketColumns returns the inferred bucket layout for location. A missing
// entry means no inference was possible, not that the data is unbucketed.
func (w *Work) BucketColumns(location string) ([]BucketCol, bool) {
	cols, ok := w.bucketCols.Get(location)
	return append([]BucketCol(nil), cols...), ok
}

// SetSortColumns records the inferred sort layout of data written to location.
// Last write wins.
func (w *Work) SetSortColumns(location string, cols []SortCol) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "set sort columns for %s", location)
	}
	w.sortCols.Set(location, append([]SortCol(nil), cols...))
	return nil
}

// SortColumns returns the inferred sort layout for location. Absence means no
// inference, as with BucketColumns.
func (w *Work) SortColumns(location string) ([]SortCol, bool) {
	cols, ok := w.sortCols.Get(location)
	return append([]SortCol(nil), cols...), ok
}

// BucketedLocations returns the write locations with an inferred bucket
// layout, in insertion order.
func (w *Work) BucketedLocations() []string {
	return w.bucketCols.Keys()
}

// SortedLocations returns the write locations with an inferred sort layout,
// in insertion order.
func (w *Work) SortedLocations() []string {
	return w.sortCols.Keys()
}
