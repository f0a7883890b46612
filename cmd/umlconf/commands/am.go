package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/umlconf/am"
	"github.com/teranos/umlconf/display"
	"github.com/teranos/umlconf/errors"
	"gopkg.in/yaml.v3"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage umlconf configuration",
	Long: `am - Manage umlconf configuration ("I am")

Display and manage umlconf settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (UMLCONF_* prefix, e.g. UMLCONF_INPUT_MODEL;
   UMLCONF_MODEL and UMLCONF_OUT are short aliases)
3. --config file, or project umlconf.toml (searched upwards from the working directory)
4. User config (~/.umlconf/umlconf.toml)
5. Default values

Examples:
  umlconf am show                    # Show current configuration
  umlconf am show --format json      # Show configuration in JSON format
  umlconf am get input.model         # Get a specific value
  umlconf am where                   # Show where each value comes from
  umlconf am validate                # Validate current configuration
  umlconf am init                    # Write ./umlconf.toml with defaults`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., input.model, compile.root_policy)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each configuration value comes from",
	Args:  cobra.NoArgs,
	RunE:  runAmWhere,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the built-in defaults",
	Long: `Write a configuration file with the built-in defaults (default: ./umlconf.toml).

An existing file is kept as path.back1; older backups rotate to .back2 and .back3.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmInit,
}

func init() {
	amShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amInitCmd)
}

func loadUnvalidated(cmd *cobra.Command) (*am.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return am.LoadFromFile(path)
	}
	return am.Load()
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadUnvalidated(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		return display.OutputJSON(cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# umlconf configuration\n%s", data)

	case "toml":
		data, err := am.MarshalTOML(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# umlconf configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}

	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	if _, err := loadUnvalidated(cmd); err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	value, ok := am.Get(args[0])
	if !ok {
		return errors.Newf("configuration key %q not found", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadUnvalidated(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	if _, err := loadUnvalidated(cmd); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(intro)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(cmd.OutOrStdout(), "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(cmd.OutOrStdout(), "  2. [USER]     ~/.umlconf/umlconf.toml")
	fmt.Fprintln(cmd.OutOrStdout(), "  3. [PROJECT]  ./umlconf.toml (searches up directories)")
	fmt.Fprintln(cmd.OutOrStdout(), "  4. [ENV]      UMLCONF_* environment variables")
	fmt.Fprintln(cmd.OutOrStdout())

	rows := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range intro.Settings {
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.ProjectFileName
	if len(args) == 1 {
		path = args[0]
	}

	_, statErr := os.Stat(path)
	if err := am.WriteDefault(path); err != nil {
		return err
	}

	abs, _ := filepath.Abs(path)
	pterm.Success.Printfln("Wrote %s", abs)
	if statErr == nil {
		pterm.Info.Printfln("Previous file kept as %s.back1", path)
	}
	return nil
}
