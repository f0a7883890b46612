package load

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/teranos/umlconf/delta"
	"github.com/teranos/umlconf/errors"
)

// Changeset reads a changeset previously written by the diff stage. Missing
// lists are treated as empty; unknown fields are rejected.
func Changeset(path string) (*delta.Changeset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read changeset %s", path)
	}

	cs := delta.NewChangeset()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cs); err != nil {
		return nil, errors.Wrapf(errors.MarkInvalidInput(err), "changeset %s", path)
	}
	return cs, nil
}
