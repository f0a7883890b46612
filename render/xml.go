package render

import (
	"io"

	"github.com/beevik/etree"
	"github.com/teranos/umlconf/compile"
	"github.com/teranos/umlconf/errors"
)

// XML renders a containment tree as a document. Each node becomes an element
// named after its class; each attribute becomes a child element whose text is
// the attribute's type string; contained classes follow as nested elements in
// aggregation order. The document is tab-indented and has no XML declaration.
func XML(tree *compile.Node) *etree.Document {
	doc := etree.NewDocument()
	if tree == nil {
		return doc
	}
	appendNode(&doc.Element, tree)
	doc.IndentTabs()
	return doc
}

func appendNode(parent *etree.Element, node *compile.Node) {
	el := parent.CreateElement(node.Name())
	for _, attr := range node.Class.Attributes() {
		el.CreateElement(attr.Name).SetText(attr.Type)
	}
	for _, child := range node.Children {
		appendNode(el, child)
	}
}

// WriteXML writes the rendered tree to w.
func WriteXML(w io.Writer, tree *compile.Node) error {
	if _, err := XML(tree).WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write XML document")
	}
	return nil
}

// XMLString renders the tree to a string.
func XMLString(tree *compile.Node) (string, error) {
	s, err := XML(tree).WriteToString()
	if err != nil {
		return "", errors.Wrap(err, "failed to render XML document")
	}
	return s, nil
}
