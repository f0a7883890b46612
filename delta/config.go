package delta

import (
	"bytes"
	"encoding/json"

	"github.com/teranos/umlconf/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Config is a flat configuration: string keys in document order mapped to
// JSON values. Loaded configurations hold nil, bool, string, json.Number,
// []any and *Config for nested objects. The zero value is not usable; call
// NewConfig.
type Config struct {
	values *orderedmap.OrderedMap[string, any]
}

// Entry is one key/value pair of a Config.
type Entry struct {
	Key   string
	Value any
}

// NewConfig creates a configuration holding entries in the given order.
func NewConfig(entries ...Entry) *Config {
	c := &Config{values: orderedmap.New[string, any]()}
	for _, e := range entries {
		c.values.Set(e.Key, e.Value)
	}
	return c
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (any, bool) {
	return c.values.Get(key)
}

// Has reports whether key is present.
func (c *Config) Has(key string) bool {
	_, ok := c.values.Get(key)
	return ok
}

// Set stores value under key. An existing key keeps its position.
func (c *Config) Set(key string, value any) {
	c.values.Set(key, value)
}

// Delete removes key. Deleting an absent key is a no-op.
func (c *Config) Delete(key string) {
	c.values.Delete(key)
}

// Len returns the number of keys.
func (c *Config) Len() int {
	return c.values.Len()
}

// Keys returns the keys in order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, c.values.Len())
	for pair := c.values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Entries returns the key/value pairs in order.
func (c *Config) Entries() []Entry {
	entries := make([]Entry, 0, c.values.Len())
	for pair := c.values.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, Entry{Key: pair.Key, Value: pair.Value})
	}
	return entries
}

// Clone returns a copy with the same order. Values are shared, not deep-copied;
// nothing in this package mutates a value in place.
func (c *Config) Clone() *Config {
	return NewConfig(c.Entries()...)
}

// Map returns the top level as a plain map, dropping order. Nested objects
// stay *Config.
func (c *Config) Map() map[string]any {
	m := make(map[string]any, c.values.Len())
	for pair := c.values.Oldest(); pair != nil; pair = pair.Next() {
		m[pair.Key] = pair.Value
	}
	return m
}

// Equal reports whether both configurations hold the same keys with deeply
// equal values. Key order is ignored.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Len() != other.Len() {
		return false
	}
	for pair := c.values.Oldest(); pair != nil; pair = pair.Next() {
		v, ok := other.Get(pair.Key)
		if !ok || !ValuesEqual(pair.Value, v) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the keys in order. Strings are written as they are,
// without escaping <, > and &.
func (c *Config) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := c.values.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := encodeValue(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := encodeValue(pair.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", pair.Key)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object. Key order is kept at every level and
// numbers keep their literal form.
func (c *Config) UnmarshalJSON(data []byte) error {
	dec := newDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("configuration must be a JSON object")
	}
	obj, err := decodeObject(dec)
	if err != nil {
		return err
	}
	if err := expectEOF(dec); err != nil {
		return err
	}
	c.values = obj.values
	return nil
}
