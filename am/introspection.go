package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/umlconf/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.umlconf/umlconf.toml
	SourceProject     ConfigSource = "project"     // umlconf.toml found upwards from cwd
	SourceFile        ConfigSource = "file"        // --config
	SourceEnvironment ConfigSource = "environment" // UMLCONF_* env vars
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	Settings []SettingInfo `json:"settings"`
}

// GetConfigIntrospection returns every effective setting with its source,
// sorted by key
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}
	v, err := GetViper()
	if err != nil {
		return nil, err
	}

	intro := &ConfigIntrospection{Settings: make([]SettingInfo, 0)}

	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		intro.Settings = append(intro.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     sourceOf(key).Source,
			SourcePath: sourceOf(key).Path,
		})
	}
	return intro, nil
}

// sourceOf resolves the highest-precedence source of key
func sourceOf(key string) SourceInfo {
	for _, envKey := range envKeysFor(key) {
		if _, ok := os.LookupEnv(envKey); ok {
			return SourceInfo{Source: SourceEnvironment, Path: envKey}
		}
	}
	if si, ok := ConfigSources[key]; ok {
		return si
	}
	return SourceInfo{Source: SourceDefault}
}

func envKeysFor(key string) []string {
	keys := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	if alias, ok := envAliases[key]; ok {
		keys = append(keys, alias)
	}
	return keys
}

// CountBySource returns how many settings each source contributes
func (ci *ConfigIntrospection) CountBySource() map[ConfigSource]int {
	counts := make(map[ConfigSource]int)
	for _, s := range ci.Settings {
		counts[s.Source]++
	}
	return counts
}
