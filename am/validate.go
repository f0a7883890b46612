package am

import (
	"github.com/teranos/umlconf/compile"
	"github.com/teranos/umlconf/errors"
	"github.com/teranos/umlconf/model"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	required := []struct {
		key, value string
	}{
		{"input.model", c.Input.Model},
		{"input.old_config", c.Input.OldConfig},
		{"input.new_config", c.Input.NewConfig},
		{"output.xml", c.Output.XML},
		{"output.meta", c.Output.Meta},
		{"output.delta", c.Output.Delta},
		{"output.patched", c.Output.Patched},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.Newf("%s cannot be empty", r.key)
		}
	}

	// output.dir may be empty: outputs are then relative to the working directory

	if c.Output.JSONIndent <= 0 {
		return errors.Newf("output.json_indent must be > 0, got %d", c.Output.JSONIndent)
	}

	if !compile.RootPolicy(c.Compile.RootPolicy).Valid() {
		return errors.WithHint(
			errors.Newf("compile.root_policy %q is not supported", c.Compile.RootPolicy),
			"use \"strict\" or \"first\"",
		)
	}
	if !model.DuplicatePolicy(c.Compile.DuplicateClasses).Valid() {
		return errors.WithHint(
			errors.Newf("compile.duplicate_classes %q is not supported", c.Compile.DuplicateClasses),
			"use \"error\" or \"overwrite\"",
		)
	}

	// Verbosity: 0 = warnings only, negative = invalid
	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
