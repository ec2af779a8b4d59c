package partition

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/fasthash/fnv1a"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Interner deduplicates structurally identical descriptors so that a
// descriptor shared by many locations is encoded once on the wire.
// Interned descriptors must be treated as read-only by all holders.
type Interner struct {
	buckets map[uint64][]internEntry
}

type internEntry struct {
	key  []byte
	desc *Descriptor
}

func NewInterner() *Interner {
	return &Interner{buckets: make(map[uint64][]internEntry)}
}

// Intern returns the canonical instance for d. The first descriptor seen for
// a given structure becomes canonical; later structurally equal descriptors
// resolve to it.
func (in *Interner) Intern(d *Descriptor) *Descriptor {
	if d == nil {
		return nil
	}
	key, err := json.Marshal(d)
	if err != nil {
		// not canonicalizable; keep the instance as-is
		return d
	}
	h := fnv1a.HashBytes64(key)
	for _, e := range in.buckets[h] {
		if bytes.Equal(e.key, key) {
			return e.desc
		}
	}
	in.buckets[h] = append(in.buckets[h], internEntry{key: key, desc: d})
	return d
}

// Len returns the number of canonical descriptors held.
func (in *Interner) Len() (n int) {
	for _, b := range in.buckets {
		n += len(b)
	}
	return n
}
