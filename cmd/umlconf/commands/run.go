package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/umlconf/display"
	"github.com/teranos/umlconf/logger"
	"github.com/teranos/umlconf/pipeline"
)

// RunCmd runs the full batch
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full batch using the configured paths",
	Long: `Run the full batch: compile input.model into output.xml and output.meta,
diff input.old_config against input.new_config into output.delta, and write
the old configuration with the changeset applied to output.patched.

Nothing is written unless every stage succeeds.

Examples:
  umlconf run                       # Defaults: input/ -> out/
  umlconf run --config ci.toml      # Explicit configuration file
  umlconf run --json                # Print the run summary as JSON`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	result, err := pipeline.NewRunner(cfg, logger.ComponentLogger("cli")).Run(cmd.Context())
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(result)
	}
	printRunSummary(result, verbosityOf(cmd))
	return nil
}

func printRunSummary(result *pipeline.Result, verbosity int) {
	pterm.Success.Printfln("Run %s finished", result.RunID[:8])
	pterm.Printfln("  Root:        %s", result.Root)
	pterm.Printfln("  Classes:     %d (%d aggregations, %d tree nodes)", result.Classes, result.Aggregations, result.TreeNodes)
	pterm.Printfln("  Changes:     %d additions, %d deletions, %d updates",
		result.Changes.Additions, result.Changes.Deletions, result.Changes.Updates)
	if logger.ShouldOutput(verbosity, logger.OutputFiles) {
		for _, out := range result.Outputs {
			pterm.Printfln("  Wrote %s", out)
		}
	}
	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		pterm.Printfln("  Duration:    %dms", result.DurationMS)
	}
}
