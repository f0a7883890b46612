package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default file layout of a run
const (
	DefaultModelPath     = "input/impulse_test_input.xml"
	DefaultOldConfigPath = "input/config.json"
	DefaultNewConfigPath = "input/patched_config.json"
	DefaultOutputDir     = "out"
	DefaultXMLFile       = "config.xml"
	DefaultMetaFile      = "meta.json"
	DefaultDeltaFile     = "delta.json"
	DefaultPatchedFile   = "res_patched_config.json"
	DefaultJSONIndent    = 4
	DefaultDebounceMS    = 300
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Inputs
	v.SetDefault("input.model", DefaultModelPath)
	v.SetDefault("input.old_config", DefaultOldConfigPath)
	v.SetDefault("input.new_config", DefaultNewConfigPath)

	// Outputs
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.xml", DefaultXMLFile)
	v.SetDefault("output.meta", DefaultMetaFile)
	v.SetDefault("output.delta", DefaultDeltaFile)
	v.SetDefault("output.patched", DefaultPatchedFile)
	v.SetDefault("output.json_indent", DefaultJSONIndent)

	// Compiler
	v.SetDefault("compile.root_policy", "strict")
	v.SetDefault("compile.duplicate_classes", "error")
	v.SetDefault("compile.strict_references", false)
	v.SetDefault("compile.meta_reachable_only", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// envAliases are short environment variables accepted in addition to the
// UMLCONF_SECTION_KEY form AutomaticEnv provides
var envAliases = map[string]string{
	"input.model": "UMLCONF_MODEL",
	"output.dir":  "UMLCONF_OUT",
}

// BindEnvVars binds the short environment variable aliases
func BindEnvVars(v *viper.Viper) {
	for key, env := range envAliases {
		v.BindEnv(key, env)
	}
}

// DefaultConfig returns the built-in defaults without reading any file or
// environment variable
func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Model: %s, Out: %s, RootPolicy: %s}",
		c.Input.Model, c.Output.Dir, c.Compile.RootPolicy)
}
