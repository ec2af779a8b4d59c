// Package partition holds the metadata describing how a single input or
// output location is read and written: its format, serialization schema and
// free-form properties. Descriptors are owned by the catalog layer; the work
// descriptor only references them.
package partition

import (
	"strings"
)

// Well-known property keys.
const (
	PropColumns       = "columns"
	PropColumnTypes   = "columns.types"
	PropTransactional = "transactional"
)

// Properties is a free-form string property bag attached to tables and partitions.
type Properties map[string]string

func (p Properties) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}

// TableDescriptor describes the table a partition belongs to.
type TableDescriptor struct {
	Name        string     `json:"name"`
	InputFormat string     `json:"inputFormat"`
	SerdeClass  string     `json:"serdeClass,omitempty"`
	Properties  Properties `json:"properties,omitempty"`
}

// IsTransactional reports whether the table is marked transactional,
// which restricts how an IO acceleration layer may be applied to it.
func (t *TableDescriptor) IsTransactional() bool {
	if t == nil {
		return false
	}
	return strings.EqualFold(t.Properties.Get(PropTransactional), "true")
}

// ColumnNames returns the declared column names, parsed from the comma-joined
// columns property.
func (t *TableDescriptor) ColumnNames() []string {
	return splitNonEmpty(t.Properties.Get(PropColumns), ",")
}

// ColumnTypes returns the declared column type strings, parsed from the
// colon-joined column-types property. Index-correlated with ColumnNames.
func (t *TableDescriptor) ColumnTypes() []string {
	return splitNonEmpty(t.Properties.Get(PropColumnTypes), ":")
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Descriptor describes how one location's data is read: the input format,
// the serialization schema and properties, and the owning table.
type Descriptor struct {
	InputFormat  string           `json:"inputFormat"`
	SerdeClass   string           `json:"serdeClass,omitempty"`
	Properties   Properties       `json:"properties,omitempty"`
	Table        *TableDescriptor `json:"table,omitempty"`
	BaseFileName string           `json:"baseFileName,omitempty"`
}

// EffectiveInputFormat is the partition's input format, falling back to the
// table's when the partition does not override it.
func (d *Descriptor) EffectiveInputFormat() string {
	if d.InputFormat != "" {
		return d.InputFormat
	}
	if d.Table != nil {
		return d.Table.InputFormat
	}
	return ""
}

// DeriveBaseFileName fills BaseFileName from the last segment of the
// location this descriptor was registered under. Used for display only.
func (d *Descriptor) DeriveBaseFileName(location string) {
	trimmed := strings.TrimRight(location, "/")
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	d.BaseFileName = trimmed
}
