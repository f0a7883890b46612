package model

import (
	"github.com/teranos/umlconf/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DuplicatePolicy decides what AddClass does with a name that already exists.
type DuplicatePolicy string

const (
	// DuplicateError rejects the second class with ErrDuplicateClass
	DuplicateError DuplicatePolicy = "error"
	// DuplicateOverwrite replaces the earlier class in place, keeping its position
	DuplicateOverwrite DuplicatePolicy = "overwrite"
)

// Valid reports whether p is a known policy.
func (p DuplicatePolicy) Valid() bool {
	return p == DuplicateError || p == DuplicateOverwrite
}

// Repository holds the classes and aggregations of one model.
// It is not safe for concurrent mutation; compile and render only read it.
type Repository struct {
	policy       DuplicatePolicy
	classes      *orderedmap.OrderedMap[string, *ClassElement]
	aggregations []Aggregation
}

// NewRepository creates an empty repository. An empty policy means DuplicateError.
func NewRepository(policy DuplicatePolicy) *Repository {
	if policy == "" {
		policy = DuplicateError
	}
	return &Repository{
		policy:  policy,
		classes: orderedmap.New[string, *ClassElement](),
	}
}

// AddClass stores a class under its name.
func (r *Repository) AddClass(c *ClassElement) error {
	if c == nil {
		return errors.New("cannot add nil class")
	}
	if _, exists := r.classes.Get(c.Name); exists && r.policy != DuplicateOverwrite {
		return errors.WithHint(
			errors.Wrapf(ErrDuplicateClass, "class %q", c.Name),
			"class names must be unique; set compile.duplicate_classes = \"overwrite\" to keep the last definition",
		)
	}
	r.classes.Set(c.Name, c)
	return nil
}

// AddAggregation appends an edge. Self-loops and parallel edges are accepted.
func (r *Repository) AddAggregation(a Aggregation) {
	r.aggregations = append(r.aggregations, a)
}

// Class looks up a class by name.
func (r *Repository) Class(name string) (*ClassElement, bool) {
	return r.classes.Get(name)
}

// Classes returns all classes in insertion order.
func (r *Repository) Classes() []*ClassElement {
	out := make([]*ClassElement, 0, r.classes.Len())
	for pair := r.classes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Aggregations returns the edges in insertion order. The slice is a copy.
func (r *Repository) Aggregations() []Aggregation {
	out := make([]Aggregation, len(r.aggregations))
	copy(out, r.aggregations)
	return out
}

// ClassCount returns the number of classes.
func (r *Repository) ClassCount() int {
	return r.classes.Len()
}

// AggregationCount returns the number of edges.
func (r *Repository) AggregationCount() int {
	return len(r.aggregations)
}

// Roots returns every class marked isRoot, in insertion order.
func (r *Repository) Roots() []*ClassElement {
	var roots []*ClassElement
	for pair := r.classes.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsRoot {
			roots = append(roots, pair.Value)
		}
	}
	return roots
}

// Validate checks that every aggregation endpoint names an existing class.
// The compiler only checks edges it reaches from the root; this checks all of them.
func (r *Repository) Validate() error {
	for i, a := range r.aggregations {
		for _, name := range []string{a.Source, a.Target} {
			if _, ok := r.classes.Get(name); !ok {
				return errors.WithDetailf(
					errors.Wrapf(ErrUnresolvedReference, "aggregation #%d references %q", i+1, name),
					"source=%q target=%q", a.Source, a.Target,
				)
			}
		}
	}
	return nil
}
