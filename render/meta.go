// Package render serializes a compiled model.
//
// XML works from the compiled containment tree. Meta works from the flat
// repository instead: its multiplicity table is keyed by aggregation source
// rather than tree position, so nesting is re-derived from the edge list.
package render

import (
	"github.com/teranos/umlconf/compile"
	"github.com/teranos/umlconf/model"
)

// ParameterTypeClass is the parameter type of a nested (contained) class.
const ParameterTypeClass = "class"

// ClassDescriptor is one entry of the metadata list.
type ClassDescriptor struct {
	Class         string      `json:"class"`
	Documentation string      `json:"documentation"`
	IsRoot        bool        `json:"isRoot"`
	Min           *string     `json:"min,omitempty"`
	Max           *string     `json:"max,omitempty"`
	Parameters    []Parameter `json:"parameters"`
}

// Parameter is an attribute or a nested class of a descriptor.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MetaOptions configures Meta.
type MetaOptions struct {
	// Reachable, when non-nil, restricts output to classes present in this tree.
	Reachable *compile.Node
}

// Meta builds one descriptor per class in repository order.
func Meta(repo *model.Repository, opts MetaOptions) []ClassDescriptor {
	aggs := repo.Aggregations()

	nestedBy := make(map[string][]string)
	multiplicityOf := make(map[string]model.Multiplicity)
	for _, a := range aggs {
		nestedBy[a.Target] = append(nestedBy[a.Target], a.Source)
		// last edge with a given source wins
		multiplicityOf[a.Source] = model.ParseMultiplicity(a.SourceMultiplicity)
	}

	var keep map[string]bool
	if opts.Reachable != nil {
		keep = make(map[string]bool)
		for _, name := range opts.Reachable.ClassNames() {
			keep[name] = true
		}
	}

	descriptors := make([]ClassDescriptor, 0, repo.ClassCount())
	for _, cls := range repo.Classes() {
		if keep != nil && !keep[cls.Name] {
			continue
		}

		d := ClassDescriptor{
			Class:         cls.Name,
			Documentation: cls.Documentation,
			IsRoot:        cls.IsRoot,
			Parameters:    make([]Parameter, 0, cls.AttributeCount()+len(nestedBy[cls.Name])),
		}
		if m, ok := multiplicityOf[cls.Name]; ok {
			d.Min, d.Max = &m.Min, &m.Max
		}
		for _, attr := range cls.Attributes() {
			d.Parameters = append(d.Parameters, Parameter{Name: attr.Name, Type: attr.Type})
		}
		for _, nested := range nestedBy[cls.Name] {
			d.Parameters = append(d.Parameters, Parameter{Name: nested, Type: ParameterTypeClass})
		}
		descriptors = append(descriptors, d)
	}
	return descriptors
}
