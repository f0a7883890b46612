package model

import "github.com/teranos/umlconf/errors"

// Error kinds raised while building or compiling a model.
// All are terminal for the current invocation; match them with errors.Is.
var (
	// ErrNoRoot indicates no class is marked isRoot
	ErrNoRoot = errors.New("no root class")

	// ErrMultipleRoots indicates more than one class is marked isRoot
	ErrMultipleRoots = errors.New("multiple root classes")

	// ErrCyclicAggregation indicates a class is its own ancestor through aggregations
	ErrCyclicAggregation = errors.New("cyclic aggregation")

	// ErrDuplicateClass indicates two classes share a name
	ErrDuplicateClass = errors.New("duplicate class")

	// ErrUnresolvedReference indicates an aggregation names a class that does not exist
	ErrUnresolvedReference = errors.New("unresolved class reference")
)
