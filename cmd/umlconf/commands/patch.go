package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/umlconf/display"
	"github.com/teranos/umlconf/logger"
	"github.com/teranos/umlconf/pipeline"
)

// PatchCmd applies a changeset to a configuration
var PatchCmd = &cobra.Command{
	Use:   "patch <base> <changeset>",
	Short: "Apply a changeset to a configuration",
	Long: `Apply a changeset written by 'umlconf diff' to a base configuration.

Deletions run first, then updates, then additions. Deleting a key the base
does not have is not an error. The base file is never modified.

Examples:
  umlconf patch old.json delta.json               # Write output.patched
  umlconf patch old.json delta.json -o new.json`,
	Args: cobra.ExactArgs(2),
	RunE: runPatch,
}

func init() {
	PatchCmd.Flags().StringP("output", "o", "", "Patched configuration file (default: output.patched)")
}

func runPatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cfg.PatchedPath()
	overrideString(cmd, "output", &out)

	runner := pipeline.NewRunner(cfg, logger.ComponentLogger("cli"))
	patched, err := runner.PatchConfig(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if err := display.WriteJSONFile(out, patched, cfg.Output.JSONIndent); err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(patched)
	}

	pterm.Success.Printfln("Patched %s (%d keys)", args[0], patched.Len())
	pterm.Printfln("  Wrote %s", out)
	return nil
}
