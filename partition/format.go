package partition

import "sync"

// FormatTraits describes how an input format interacts with the IO
// acceleration layer.
type FormatTraits struct {
	// Wrappable marks formats whose readers the acceleration layer can wrap.
	Wrappable bool

	// SelfDescribing marks formats that carry enough schema information to be
	// wrapped even without a vectorized execution plan. Required when wrapping
	// is only possible through the non-vectorized wrapper.
	SelfDescribing bool
}

var (
	formatMu sync.RWMutex
	formats  = map[string]FormatTraits{
		"orc":     {Wrappable: true, SelfDescribing: true},
		"parquet": {Wrappable: true, SelfDescribing: false},
		"text":    {Wrappable: false},
		"seqfile": {Wrappable: false},
	}
)

// RegisterFormat registers or overrides the acceleration traits of an input
// format. Intended for storage handlers providing their own formats.
func RegisterFormat(name string, traits FormatTraits) {
	formatMu.Lock()
	defer formatMu.Unlock()
	formats[name] = traits
}

// CanWrap reports whether the acceleration layer can wrap readers of the given
// input format. With strict set, only self-describing formats qualify; this is
// required when the execution plan is not vectorized. Unknown formats are
// never wrappable.
func CanWrap(format string, strict bool) bool {
	formatMu.RLock()
	traits, ok := formats[format]
	formatMu.RUnlock()
	if !ok || !traits.Wrappable {
		return false
	}
	if strict {
		return traits.SelfDescribing
	}
	return true
}
