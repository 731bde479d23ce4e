// Command resident-scheduler generates resident shift schedules over
// a configurable date horizon (spec.md §6).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edwisdom/resident-scheduler/cmd/resident-scheduler/commands"
	"github.com/edwisdom/resident-scheduler/internal/config"
	"github.com/edwisdom/resident-scheduler/pkg/logger"
)

func main() {
	var (
		logLevel  string
		logFormat string
	)

	defaultCfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("loading config: %w", err))
		os.Exit(1)
	}
	app := commands.NewAppContext(defaultCfg)

	root := &cobra.Command{
		Use:   "resident-scheduler",
		Short: "Generate and inspect resident physician shift schedules",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.App.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.App.LogFormat = logFormat
			}
			logger.Init(logger.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})
			app.Cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug/info/warn/error/fatal")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console/json")

	root.AddCommand(commands.GenerateCmd(app))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
