package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/umlconf/cmd/umlconf/commands"
	"github.com/teranos/umlconf/errors"
	"github.com/teranos/umlconf/logger"
)

var rootCmd = &cobra.Command{
	Use:   "umlconf",
	Short: "umlconf - compile UML class models into configuration documents",
	Long: `umlconf - compile UML class models into configuration documents.

A class model (classes, attributes and aggregations) is compiled into a
containment tree rooted at the single root class, and rendered as a nested
XML configuration document plus a JSON description of every class. Two
configurations can be compared into a changeset of additions, deletions and
updates, and a changeset can be replayed onto a base configuration.

Available commands:
  compile - Compile the model into config.xml and meta.json
  diff    - Compare two configurations into a changeset
  patch   - Apply a changeset to a configuration
  run     - Run the full batch using the configured paths
  watch   - Re-run the full batch whenever an input changes
  am      - Manage umlconf configuration ("I am")

Examples:
  umlconf run                                # Full batch with umlconf.toml settings
  umlconf compile --model model.xml          # Compile one model
  umlconf diff old.json new.json -o d.json   # Write a changeset
  umlconf patch old.json d.json -o out.json  # Replay it`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON to stderr")
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default: umlconf.toml searched upwards from the working directory)")

	rootCmd.AddCommand(commands.CompileCmd)
	rootCmd.AddCommand(commands.DiffCmd)
	rootCmd.AddCommand(commands.PatchCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
		os.Exit(1)
	}
}
