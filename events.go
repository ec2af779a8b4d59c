package mapwork

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/ab180/mapwork/partition"
)

// EventSource describes one runtime partition-pruning source observed while
// scanning an alias: values of the named column, read while scanning this
// stage, prune partitions of the target table whose partition key expression
// matches them.
//
// Keeping the four facts in one struct makes their correlation structural;
// the per-fact list views below always have equal lengths by construction.
type EventSource struct {
	Table            *partition.TableDescriptor `json:"table,omitempty"`
	ColumnName       string                     `json:"columnName"`
	ColumnType       string                     `json:"columnType"`
	PartitionKeyExpr string                     `json:"partitionKeyExpr"`
}

// AddEventSource appends a pruning source for alias.
func (w *Work) AddEventSource(alias string, src EventSource) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "add event source for alias %s", alias)
	}
	cur, _ := w.eventSources.Get(alias)
	w.eventSources.Set(alias, append(cur, src))
	return nil
}

// SetEventSources replaces the pruning sources of alias.
func (w *Work) SetEventSources(alias string, srcs []EventSource) error {
	if w.finalized.Load() {
		return errors.Wrapf(ErrFinalized, "set event sources for alias %s", alias)
	}
	w.eventSources.Set(alias, append([]EventSource(nil), srcs...))
	return nil
}

// EventSources returns a copy of the pruning sources recorded for alias.
func (w *Work) EventSources(alias string) []EventSource {
	srcs, _ := w.eventSources.Get(alias)
	return append([]EventSource(nil), srcs...)
}

// EventSourceAliases returns the aliases with recorded pruning sources,
// in insertion order.
func (w *Work) EventSourceAliases() []string {
	return w.eventSources.Keys()
}

// EventSourceTables is the per-alias target-table list view.
func (w *Work) EventSourceTables(alias string) []*partition.TableDescriptor {
	srcs, _ := w.eventSources.Get(alias)
	return lo.Map(srcs, func(s EventSource, _ int) *partition.TableDescriptor {
		return s.Table
	})
}

// EventSourceColumnNames is the per-alias source-column-name list view.
func (w *Work) EventSourceColumnNames(alias string) []string {
	srcs, _ := w.eventSources.Get(alias)
	return lo.Map(srcs, func(s EventSource, _ int) string { return s.ColumnName })
}

// EventSourceColumnTypes is the per-alias source-column-type list view.
func (w *Work) EventSourceColumnTypes(alias string) []string {
	srcs, _ := w.eventSources.Get(alias)
	return lo.Map(srcs, func(s EventSource, _ int) string { return s.ColumnType })
}

// EventSourcePartitionKeyExprs is the per-alias partition-key-expression
// list view.
func (w *Work) EventSourcePartitionKeyExprs(alias string) []string {
	srcs, _ := w.eventSources.Get(alias)
	return lo.Map(srcs, func(s EventSource, _ int) string { return s.PartitionKeyExpr })
}
