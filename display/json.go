package display

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/teranos/umlconf/errors"
)

// DefaultIndent is the number of spaces per nesting level in JSON output.
const DefaultIndent = 4

// MarshalJSON renders v with DefaultIndent.
func MarshalJSON(v interface{}) ([]byte, error) {
	return MarshalJSONIndent(v, DefaultIndent)
}

// MarshalJSONIndent renders v indented by the given number of spaces, with a
// trailing newline. HTML characters and non-ASCII text are written as-is.
func MarshalJSONIndent(v interface{}, indent int) ([]byte, error) {
	if indent < 0 {
		indent = 0
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "failed to marshal JSON")
	}
	return buf.Bytes(), nil
}
