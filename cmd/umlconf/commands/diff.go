package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/umlconf/display"
	"github.com/teranos/umlconf/errors"
	"github.com/teranos/umlconf/logger"
	"github.com/teranos/umlconf/pipeline"
)

// DiffCmd compares two configurations
var DiffCmd = &cobra.Command{
	Use:   "diff [old] [new]",
	Short: "Compare two configurations into a changeset",
	Long: `Compare two flat configurations (JSON, YAML or TOML) and write the changeset:
keys only in NEW are additions, keys only in OLD are deletions, and keys in
both with different values are updates. Values are compared structurally.

Without arguments, input.old_config and input.new_config are used.

Examples:
  umlconf diff                               # Use configured inputs
  umlconf diff old.json new.json             # Write output.delta
  umlconf diff old.yaml new.toml -o d.json   # Mixed formats, explicit output
  umlconf diff old.json new.json --json      # Also print the changeset`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return errors.Newf("diff takes both configurations or neither, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: runDiff,
}

func init() {
	DiffCmd.Flags().StringP("output", "o", "", "Changeset file (default: output.delta)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 2 {
		cfg.Input.OldConfig, cfg.Input.NewConfig = args[0], args[1]
	}
	out := cfg.DeltaPath()
	overrideString(cmd, "output", &out)

	runner := pipeline.NewRunner(cfg, logger.ComponentLogger("cli"))
	d, err := runner.DiffConfigs(cmd.Context(), cfg.Input.OldConfig, cfg.Input.NewConfig)
	if err != nil {
		return err
	}
	if err := display.WriteJSONFile(out, d.Changeset, cfg.Output.JSONIndent); err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(d.Changeset)
	}

	stats := d.Changeset.Stats()
	if d.Changeset.IsEmpty() {
		pterm.Info.Printfln("No differences between %s and %s", cfg.Input.OldConfig, cfg.Input.NewConfig)
	} else {
		pterm.Success.Printfln("%d additions, %d deletions, %d updates", stats.Additions, stats.Deletions, stats.Updates)
	}
	pterm.Printfln("  Wrote %s", out)
	return nil
}
