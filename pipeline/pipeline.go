// Package pipeline defines the opaque handle to per-alias operator trees.
// The descriptor only stores the root of a tree and tags it with its owning
// alias; the shape of the tree and its execution belong to the engine.
package pipeline

import (
	"github.com/ab180/mapwork/internal/serialization"
)

// Node is the root of an operator tree executed on a worker for a single alias.
// Implementations are owned by the execution engine and must be registered
// (imported) on the worker side to survive a wire round trip.
type Node interface {
	// SetAlias stores the alias this tree works on behalf of in the
	// operator runtime state. Called exactly once, before first use.
	SetAlias(alias string)

	// Alias returns the alias set by SetAlias, or an empty string.
	Alias() string
}

// TableScan is implemented by roots that read a table directly. The needed
// column list drives the cache-eligibility type check.
type TableScan interface {
	Node
	NeededColumns() []string
}

// Serializable wraps a Node so it can cross process boundaries even though
// its concrete type is unknown to this package.
type Serializable struct {
	Node
}

func Wrap(n Node) Serializable {
	return Serializable{n}
}

func (s Serializable) MarshalJSON() ([]byte, error) {
	return serialization.SerializeStruct(s.Node)
}

func (s *Serializable) UnmarshalJSON(data []byte) error {
	v, err := serialization.DeserializeStruct(data)
	if err != nil {
		return err
	}
	s.Node = v.(Node)
	return nil
}
