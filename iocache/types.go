package iocache

import "strings"

// supportedTypes are the primitive type categories the acceleration layer can
// decode into column batches. Parameterized types (char(n), decimal(p,s))
// resolve to their base category.
var supportedTypes = map[string]struct{}{
	"boolean":   {},
	"tinyint":   {},
	"smallint":  {},
	"int":       {},
	"bigint":    {},
	"float":     {},
	"double":    {},
	"decimal":   {},
	"string":    {},
	"char":      {},
	"varchar":   {},
	"binary":    {},
	"date":      {},
	"timestamp": {},
}

// supportsReadColumns reports whether the columns a table scan actually reads,
// intersected with the table's declared columns, all carry supported types.
// Read columns the table never declared are outside the intersection and do
// not count. A declared column whose type entry is missing cannot be resolved
// and counts as unsupported; the derivation must stay total, so this degrades
// eligibility rather than raising an error.
func supportsReadColumns(readColumns, allNames, allTypes []string) bool {
	for _, col := range readColumns {
		idx := -1
		for i, name := range allNames {
			if name == col {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		if idx >= len(allTypes) {
			return false
		}
		if _, ok := supportedTypes[baseTypeName(allTypes[idx])]; !ok {
			return false
		}
	}
	return true
}

func baseTypeName(typeString string) string {
	t := strings.ToLower(strings.TrimSpace(typeString))
	if idx := strings.IndexByte(t, '('); idx >= 0 {
		t = t[:idx]
	}
	return t
}
