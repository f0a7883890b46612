package display

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// EnvJSON forces JSON output for every command when set to a non-empty value.
const EnvJSON = "UMLCONF_JSON"

// ShouldOutputJSON determines if a command should print JSON instead of
// human-readable summaries.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return os.Getenv(EnvJSON) != ""
	}

	// An explicit --json on the command wins in both directions
	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return os.Getenv(EnvJSON) != ""
}

// OutputJSON marshals and prints JSON using display.MarshalJSON
func OutputJSON(v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, string(data))
	return err
}
