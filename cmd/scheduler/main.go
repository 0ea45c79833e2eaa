package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-scheduler-api/pkg/config"
	"github.com/noah-isme/sma-scheduler-api/pkg/logger"
)

// cli holds state shared by subcommands.
type cli struct {
	cfg     *config.Config
	logger  *zap.Logger
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(&cli{}).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(app *cli) *cobra.Command {
	root := &cobra.Command{
		Use:          "scheduler",
		Short:        "Generate timetables for academic plans",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			level := cfg.Log.Level
			if app.verbose {
				level = "debug"
			}
			logr, err := logger.NewConsole(level)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			app.cfg = cfg
			app.logger = logr
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log engine progress at debug level")

	root.AddCommand(newRunCmd(app), newStrategiesCmd(app))
	return root
}
