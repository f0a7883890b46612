package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/umlconf/am"
	"github.com/teranos/umlconf/display"
	"github.com/teranos/umlconf/errors"
	"github.com/teranos/umlconf/logger"
)

// loadConfig returns a validated copy of the active configuration. The copy
// may be modified by flag overrides without touching the cached one.
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	var (
		cfg *am.Config
		err error
	)
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err = am.LoadFromFile(path)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	// Settings from the file raise, never lower, what the flags asked for
	verbosity := verbosityOf(cmd)
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	if cfg.Log.Verbosity > verbosity || (cfg.Log.JSON && !jsonLogs) {
		if err := logger.Initialize(jsonLogs || cfg.Log.JSON, max(verbosity, cfg.Log.Verbosity)); err != nil {
			return nil, errors.Wrap(err, "failed to initialize logger")
		}
	}

	effective := max(verbosity, cfg.Log.Verbosity)
	if !display.ShouldOutputJSON(cmd) {
		if logger.ShouldOutput(effective, logger.OutputConfig) {
			printConfigFiles(path)
		}
		if logger.ShouldOutput(effective, logger.OutputInternalOp) {
			pterm.Info.Printfln("Verbosity %d: %s", effective, logger.VerbosityDescription(effective))
		}
	}

	copied := *cfg
	return &copied, nil
}

// verbosityOf returns the -v count of the invocation
func verbosityOf(cmd *cobra.Command) int {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	return verbosity
}

func printConfigFiles(explicit string) {
	if explicit != "" {
		pterm.Info.Printfln("Configuration: %s", explicit)
		return
	}
	found := false
	for _, candidate := range am.CandidateFiles() {
		if _, err := os.Stat(candidate.Path); err == nil {
			pterm.Info.Printfln("Configuration (%s): %s", candidate.Source, candidate.Path)
			found = true
		}
	}
	if !found {
		pterm.Info.Println("Configuration: built-in defaults")
	}
}

// overrideString replaces *dst with the flag value when the flag was set
func overrideString(cmd *cobra.Command, flag string, dst *string) {
	if cmd.Flags().Changed(flag) {
		*dst, _ = cmd.Flags().GetString(flag)
	}
}
