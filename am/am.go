package am

import (
	"path/filepath"

	"github.com/teranos/umlconf/compile"
	"github.com/teranos/umlconf/model"
)

// Config represents the umlconf configuration
type Config struct {
	Input   InputConfig   `mapstructure:"input" toml:"input" yaml:"input" json:"input"`
	Output  OutputConfig  `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Compile CompileConfig `mapstructure:"compile" toml:"compile" yaml:"compile" json:"compile"`
	Log     LogConfig     `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	Watch   WatchConfig   `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
}

// InputConfig names the files a run reads
type InputConfig struct {
	// XML class model
	Model     string `mapstructure:"model" toml:"model" yaml:"model" json:"model"`
	// configuration before the change
	OldConfig string `mapstructure:"old_config" toml:"old_config" yaml:"old_config" json:"old_config"`
	// configuration after the change
	NewConfig string `mapstructure:"new_config" toml:"new_config" yaml:"new_config" json:"new_config"`
}

// OutputConfig names the files a run writes. Relative file names are
// resolved against Dir.
type OutputConfig struct {
	Dir        string `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`
	XML        string `mapstructure:"xml" toml:"xml" yaml:"xml" json:"xml"`
	Meta       string `mapstructure:"meta" toml:"meta" yaml:"meta" json:"meta"`
	Delta      string `mapstructure:"delta" toml:"delta" yaml:"delta" json:"delta"`
	Patched    string `mapstructure:"patched" toml:"patched" yaml:"patched" json:"patched"`
	JSONIndent int    `mapstructure:"json_indent" toml:"json_indent" yaml:"json_indent" json:"json_indent"`
}

// CompileConfig tunes how the model is read and compiled
type CompileConfig struct {
	// strict | first
	RootPolicy        string `mapstructure:"root_policy" toml:"root_policy" yaml:"root_policy" json:"root_policy"`
	// error | overwrite
	DuplicateClasses  string `mapstructure:"duplicate_classes" toml:"duplicate_classes" yaml:"duplicate_classes" json:"duplicate_classes"`
	// check every edge before compiling
	StrictReferences  bool   `mapstructure:"strict_references" toml:"strict_references" yaml:"strict_references" json:"strict_references"`
	// describe only classes in the tree
	MetaReachableOnly bool   `mapstructure:"meta_reachable_only" toml:"meta_reachable_only" yaml:"meta_reachable_only" json:"meta_reachable_only"`
}

// LogConfig configures logging output
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"`
}

// WatchConfig configures the input watcher
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// OutputPath resolves an output file name against the output directory.
// Absolute names are returned unchanged.
func (c *Config) OutputPath(name string) string {
	if filepath.IsAbs(name) || c.Output.Dir == "" {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}

// XMLPath returns the resolved path of the compiled XML document
func (c *Config) XMLPath() string { return c.OutputPath(c.Output.XML) }

// MetaPath returns the resolved path of the class descriptors
func (c *Config) MetaPath() string { return c.OutputPath(c.Output.Meta) }

// DeltaPath returns the resolved path of the changeset
func (c *Config) DeltaPath() string { return c.OutputPath(c.Output.Delta) }

// PatchedPath returns the resolved path of the patched configuration
func (c *Config) PatchedPath() string { return c.OutputPath(c.Output.Patched) }

// InputPaths returns every input file a run reads, in a stable order
func (c *Config) InputPaths() []string {
	return []string{c.Input.Model, c.Input.OldConfig, c.Input.NewConfig}
}

// CompileOptions converts the compile section into compiler options
func (c *Config) CompileOptions() compile.Options {
	return compile.Options{RootPolicy: compile.RootPolicy(c.Compile.RootPolicy)}
}

// DuplicatePolicy returns the configured duplicate-class policy
func (c *Config) DuplicatePolicy() model.DuplicatePolicy {
	return model.DuplicatePolicy(c.Compile.DuplicateClasses)
}
