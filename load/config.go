package load

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/teranos/umlconf/delta"
	"github.com/teranos/umlconf/errors"
	"gopkg.in/yaml.v3"
)

// Config reads a flat configuration from path. The format follows the file
// extension: .json, .yaml, .yml or .toml. Values are converted to the shape
// delta works with, so configurations in different formats compare equal.
func Config(path string) (*delta.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var cfg *delta.Config
	switch ext {
	case ".json":
		cfg, err = ConfigJSON(data)
	case ".yaml", ".yml":
		cfg, err = ConfigYAML(data)
	case ".toml":
		cfg, err = ConfigTOML(data)
	default:
		return nil, errors.NewUnsupportedFormatError(ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "configuration %s", path)
	}
	return cfg, nil
}

// ConfigJSON parses a JSON object.
func ConfigJSON(data []byte) (*delta.Config, error) {
	cfg := delta.NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.MarkInvalidInput(err)
	}
	return cfg, nil
}

// ConfigYAML parses a YAML document whose top level is a mapping. An empty
// document yields an empty configuration. Mappings keep document order.
func ConfigYAML(data []byte) (*delta.Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.MarkInvalidInput(err)
	}
	if len(doc.Content) == 0 {
		return delta.NewConfig(), nil
	}

	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, errors.NewInvalidInputError("configuration must be a mapping at the top level")
	}
	v, err := yamlValue(top)
	if err != nil {
		return nil, err
	}
	return v.(*delta.Config), nil
}

func yamlValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlValue(node.Content[0])
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		obj := delta.NewConfig()
		// Content alternates key and value nodes
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, errors.NewInvalidInputError("line %d: configuration keys must be scalars", keyNode.Line)
			}
			v, err := yamlValue(valueNode)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", keyNode.Value)
			}
			obj.Set(keyNode.Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, errors.Wrapf(errors.MarkInvalidInput(err), "line %d", node.Line)
		}
		return delta.Normalize(v), nil
	}
}

// ConfigTOML parses a TOML document. Tables keep their document order at
// every level, including tables only named through dotted keys or
// [a.b] headers.
func ConfigTOML(data []byte) (*delta.Config, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.MarkInvalidInput(err)
	}
	return tomlTable(raw, nil, md.Keys()), nil
}

// tomlTable orders the entries of table, found at path prefix, by the first
// appearance of each name in the document's key list.
func tomlTable(table map[string]any, prefix []string, keys []toml.Key) *delta.Config {
	obj := delta.NewConfig()
	for _, name := range tomlChildNames(table, prefix, keys) {
		path := append(prefix[:len(prefix):len(prefix)], name)
		obj.Set(name, tomlValue(table[name], path, keys))
	}
	return obj
}

func tomlValue(v any, path []string, keys []toml.Key) any {
	switch val := v.(type) {
	case map[string]any:
		return tomlTable(val, path, keys)
	case []map[string]any:
		// array of tables: key paths carry no index
		list := make([]any, len(val))
		for i, item := range val {
			list[i] = tomlTable(item, path, keys)
		}
		return list
	case []any:
		list := make([]any, len(val))
		for i, item := range val {
			list[i] = tomlValue(item, path, keys)
		}
		return list
	default:
		return delta.Normalize(val)
	}
}

func tomlChildNames(table map[string]any, prefix []string, keys []toml.Key) []string {
	seen := make(map[string]bool, len(table))
	names := make([]string, 0, len(table))
	for _, key := range keys {
		if len(key) <= len(prefix) || !hasPrefix(key, prefix) {
			continue
		}
		name := key[len(prefix)]
		if _, ok := table[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	// Anything the key list did not mention goes last, sorted
	var rest []string
	for name := range table {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func hasPrefix(key toml.Key, prefix []string) bool {
	for i, part := range prefix {
		if key[i] != part {
			return false
		}
	}
	return true
}
