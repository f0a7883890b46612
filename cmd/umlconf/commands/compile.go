package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/umlconf/display"
	"github.com/teranos/umlconf/logger"
	"github.com/teranos/umlconf/pipeline"
)

// CompileCmd compiles the class model into the XML document and class descriptors
var CompileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the class model into config.xml and meta.json",
	Long: `Compile the class model into a nested XML configuration document and a
JSON description of every class.

The model must declare exactly one root class (see compile.root_policy).
Every aggregation whose target is a class nests its source class inside it;
a class that contains itself, directly or indirectly, is rejected.

Examples:
  umlconf compile                            # Use input.model and output.dir from config
  umlconf compile --model model.xml          # Compile a specific model
  umlconf compile --model model.xml --out build`,
	Args: cobra.NoArgs,
	RunE: runCompile,
}

func init() {
	CompileCmd.Flags().String("model", "", "Model XML file (default: input.model)")
	CompileCmd.Flags().String("out", "", "Output directory (default: output.dir)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	overrideString(cmd, "model", &cfg.Input.Model)
	overrideString(cmd, "out", &cfg.Output.Dir)

	runner := pipeline.NewRunner(cfg, logger.ComponentLogger("cli"))
	compiled, err := runner.CompileModel(cmd.Context(), cfg.Input.Model)
	if err != nil {
		return err
	}
	if err := runner.WriteCompiled(compiled, cfg.XMLPath(), cfg.MetaPath()); err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]interface{}{
			"root":       compiled.Tree.Name(),
			"classes":    compiled.Repository.ClassCount(),
			"tree_nodes": compiled.Tree.Size(),
			"outputs":    []string{cfg.XMLPath(), cfg.MetaPath()},
		})
	}

	pterm.Success.Printfln("Compiled %s (root %s)", cfg.Input.Model, compiled.Tree.Name())
	pterm.Printfln("  Classes:     %d", compiled.Repository.ClassCount())
	pterm.Printfln("  Tree nodes:  %d", compiled.Tree.Size())
	pterm.Printfln("  Descriptors: %d", len(compiled.Meta))
	if logger.ShouldOutput(verbosityOf(cmd), logger.OutputFiles) {
		pterm.Printfln("  Wrote %s", cfg.XMLPath())
		pterm.Printfln("  Wrote %s", cfg.MetaPath())
	}
	return nil
}
