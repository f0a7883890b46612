// Package load reads the inputs of the compiler and the delta engine from
// disk: the XML class model and flat configurations in JSON, YAML or TOML.
package load

import (
	"io"

	"github.com/beevik/etree"
	"github.com/teranos/umlconf/errors"
	"github.com/teranos/umlconf/model"
)

// Element and attribute names of the model document.
const (
	tagClass       = "Class"
	tagAttribute   = "Attribute"
	tagAggregation = "Aggregation"
)

// ModelOptions configures how a model document is read.
type ModelOptions struct {
	DuplicateClasses model.DuplicatePolicy
}

// ModelFile reads a model document from path.
func ModelFile(path string, opts ModelOptions) (*model.Repository, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, errors.Wrapf(err, "failed to read model %s", path)
	}
	repo, err := modelFromDocument(doc, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}
	return repo, nil
}

// Model reads a model document from r.
func Model(r io.Reader, opts ModelOptions) (*model.Repository, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "failed to parse model")
	}
	return modelFromDocument(doc, opts)
}

// modelFromDocument walks the direct children of the document root. <Class>
// and <Aggregation> elements are read in order; anything else is ignored.
func modelFromDocument(doc *etree.Document, opts ModelOptions) (*model.Repository, error) {
	root := doc.Root()
	if root == nil {
		return nil, errors.NewInvalidInputError("model document has no root element")
	}

	repo := model.NewRepository(opts.DuplicateClasses)
	for _, el := range root.ChildElements() {
		switch el.Tag {
		case tagClass:
			cls, err := readClass(el)
			if err != nil {
				return nil, err
			}
			if err := repo.AddClass(cls); err != nil {
				return nil, err
			}
		case tagAggregation:
			a, err := readAggregation(el)
			if err != nil {
				return nil, err
			}
			repo.AddAggregation(a)
		}
	}
	return repo, nil
}

func readClass(el *etree.Element) (*model.ClassElement, error) {
	name, err := requiredAttr(el, "name")
	if err != nil {
		return nil, err
	}
	isRoot, err := requiredAttr(el, "isRoot")
	if err != nil {
		return nil, err
	}

	cls := model.NewClassElement(name, isRoot == "true", el.SelectAttrValue("documentation", ""))
	for _, attr := range el.SelectElements(tagAttribute) {
		attrName, err := requiredAttr(attr, "name")
		if err != nil {
			return nil, errors.Wrapf(err, "class %q", name)
		}
		attrType, err := requiredAttr(attr, "type")
		if err != nil {
			return nil, errors.Wrapf(err, "class %q", name)
		}
		cls.AddAttribute(attrName, attrType)
	}
	return cls, nil
}

func readAggregation(el *etree.Element) (model.Aggregation, error) {
	var a model.Aggregation
	fields := []struct {
		attr string
		dst  *string
	}{
		{"source", &a.Source},
		{"target", &a.Target},
		{"sourceMultiplicity", &a.SourceMultiplicity},
		{"targetMultiplicity", &a.TargetMultiplicity},
	}
	for _, f := range fields {
		v, err := requiredAttr(el, f.attr)
		if err != nil {
			return model.Aggregation{}, err
		}
		*f.dst = v
	}
	return a, nil
}

func requiredAttr(el *etree.Element, key string) (string, error) {
	attr := el.SelectAttr(key)
	if attr == nil {
		return "", errors.NewInvalidInputError("<%s> is missing required attribute %q", el.Tag, key)
	}
	return attr.Value, nil
}
