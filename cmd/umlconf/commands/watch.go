package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/umlconf/am"
	"github.com/teranos/umlconf/errors"
	"github.com/teranos/umlconf/logger"
	"github.com/teranos/umlconf/pipeline"
)

// WatchCmd re-runs the batch whenever an input file changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the full batch whenever an input changes",
	Long: `Run the full batch once, then watch input.model, input.old_config and
input.new_config and run it again after each change. Changes arriving within
watch.debounce_ms of each other trigger a single run. A failing run is
reported and watching continues.

Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.ComponentLogger("cli")
	runner := pipeline.NewRunner(cfg, log)

	runOnce := func() error {
		result, err := runner.Run(ctx)
		if err != nil {
			pterm.Error.Println(errors.UserMessage(err))
			return err
		}
		printRunSummary(result, verbosityOf(cmd))
		return nil
	}
	_ = runOnce()

	watcher, err := am.NewInputWatcher(cfg.InputPaths(), time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, log)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watcher.OnChange(func(changed []string) error {
		pterm.Info.Printfln("Changed: %v", changed)
		return runOnce()
	})
	watcher.Start()

	pterm.Info.Printfln("Watching %d input files", len(watcher.Files()))
	<-ctx.Done()
	pterm.Info.Println("Stopped")
	return nil
}
