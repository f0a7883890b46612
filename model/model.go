// Package model holds the parsed class/aggregation model: classes keyed by
// name in declaration order, and the ordered list of aggregation edges between
// them. It carries no behaviour beyond storage and accessors; tree building
// lives in package compile and serialization in package render.
package model

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// UnboundedMax is the literal multiplicity upper bound meaning "no limit".
const UnboundedMax = "*"

// ClassElement is a single <Class> of the source model.
type ClassElement struct {
	Name          string
	IsRoot        bool
	Documentation string

	// attributes maps attribute name to its type string, in declaration order
	attributes *orderedmap.OrderedMap[string, string]
}

// NewClassElement creates a class with no attributes.
func NewClassElement(name string, isRoot bool, documentation string) *ClassElement {
	return &ClassElement{
		Name:          name,
		IsRoot:        isRoot,
		Documentation: documentation,
		attributes:    orderedmap.New[string, string](),
	}
}

// AddAttribute records an attribute. Re-adding a name replaces its type and
// keeps the original position.
func (c *ClassElement) AddAttribute(name, typ string) {
	c.attributes.Set(name, typ)
}

// Attribute returns the type of the named attribute.
func (c *ClassElement) Attribute(name string) (string, bool) {
	return c.attributes.Get(name)
}

// Attributes returns the attributes in declaration order.
func (c *ClassElement) Attributes() []Attribute {
	attrs := make([]Attribute, 0, c.attributes.Len())
	for pair := c.attributes.Oldest(); pair != nil; pair = pair.Next() {
		attrs = append(attrs, Attribute{Name: pair.Key, Type: pair.Value})
	}
	return attrs
}

// AttributeCount returns the number of attributes.
func (c *ClassElement) AttributeCount() int {
	return c.attributes.Len()
}

// Attribute is one name/type pair of a class.
type Attribute struct {
	Name string
	Type string
}

// Aggregation is a directed containment edge: Source is contained in Target.
type Aggregation struct {
	Source             string
	Target             string
	SourceMultiplicity string
	TargetMultiplicity string
}

// Multiplicity is a parsed cardinality bound pair.
type Multiplicity struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// ParseMultiplicity splits "N..M" into its bounds. A value without ".." is
// both bounds. Only the first ".." separates; anything after it is Max.
func ParseMultiplicity(s string) Multiplicity {
	if lo, hi, ok := strings.Cut(s, ".."); ok {
		return Multiplicity{Min: lo, Max: hi}
	}
	return Multiplicity{Min: s, Max: s}
}

// Unbounded reports whether the upper bound is "*".
func (m Multiplicity) Unbounded() bool {
	return m.Max == UnboundedMax
}

// String renders the multiplicity in its source form.
func (m Multiplicity) String() string {
	if m.Min == m.Max {
		return m.Min
	}
	return m.Min + ".." + m.Max
}
