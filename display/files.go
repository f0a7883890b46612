package display

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/teranos/umlconf/errors"
)

// WriteJSONFile writes v as indented JSON to path, creating parent
// directories as needed.
func WriteJSONFile(path string, v interface{}, indent int) error {
	data, err := MarshalJSONIndent(v, indent)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return writeFile(path, data)
}

// WriteXMLFile writes doc to path, creating parent directories as needed.
// The document is written as built; no XML declaration is added.
func WriteXMLFile(path string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
