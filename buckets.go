package mapwork

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// The bucket inclusion set is kept as a little-endian byte encoding rather
// than an in-memory bitset: the bitset's word layout is an implementation
// detail and not safe to ship across process boundaries. The bytes are the
// source of truth; the structured view is rebuilt on demand.

// SetIncludedBuckets stores the set of bucket ordinals this stage reads.
// Passing nil clears the set.
func (w *Work) SetIncludedBuckets(b *bitset.BitSet) error {
	if w.finalized.Load() {
		return errors.Wrap(ErrFinalized, "set included buckets")
	}
	w.includedBuckets = encodeBucketSet(b)
	return nil
}

// IncludedBuckets rebuilds the bucket inclusion set from its byte form.
// Returns nil when no set was stored.
func (w *Work) IncludedBuckets() *bitset.BitSet {
	return decodeBucketSet(w.includedBuckets)
}

// encodeBucketSet lays the set out as bytes where byte i holds ordinals
// 8*i .. 8*i+7, lowest ordinal in the lowest bit. Trailing zero bytes are
// trimmed so equal sets always encode to equal bytes.
func encodeBucketSet(b *bitset.BitSet) []byte {
	if b == nil {
		return nil
	}
	words := b.Bytes()
	buf := make([]byte, len(words)*8)
	for i, word := range words {
		for j := 0; j < 8; j++ {
			buf[i*8+j] = byte(word >> (8 * j))
		}
	}
	end := len(buf)
	for end > 0 && buf[end-1] == 0 {
		end--
	}
	if end == 0 {
		return nil
	}
	return buf[:end]
}

func decodeBucketSet(raw []byte) *bitset.BitSet {
	if len(raw) == 0 {
		return nil
	}
	b := bitset.New(uint(len(raw) * 8))
	for i, by := range raw {
		for j := 0; j < 8; j++ {
			if by&(1<<j) != 0 {
				b.Set(uint(i*8 + j))
			}
		}
	}
	return b
}
