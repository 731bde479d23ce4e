package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/edwisdom/resident-scheduler/pkg/emitter"
	"github.com/edwisdom/resident-scheduler/pkg/expander"
	"github.com/edwisdom/resident-scheduler/pkg/roster"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/optimizer"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/parallel"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/scorer"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/solver"
	"github.com/edwisdom/resident-scheduler/pkg/stats"
	"github.com/edwisdom/resident-scheduler/pkg/validator"
)

// GenerateCmd builds the "generate" subcommand: load a roster and
// template, race N seeded solves, and emit the winning schedule as
// CSV (spec.md §6).
func GenerateCmd(app *AppContext) *cobra.Command {
	var (
		startFlag    string
		days         int
		rosterPath   string
		templatePath string
		seedFlag     int64
		parallelRuns int
		iterations   int
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a resident shift schedule over a date horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse("2006-01-02", startFlag)
			if err != nil {
				return fmt.Errorf("--start must be YYYY-MM-DD: %w", err)
			}

			rosterFile, err := os.Open(rosterPath)
			if err != nil {
				return fmt.Errorf("opening roster: %w", err)
			}
			defer rosterFile.Close()

			residents, err := roster.Load(rosterFile, start.Year(), start.Month())
			if err != nil {
				return err
			}

			template := expander.DefaultTemplate()
			if templatePath != "" {
				templateFile, err := os.Open(templatePath)
				if err != nil {
					return fmt.Errorf("opening template override: %w", err)
				}
				defer templateFile.Close()
				template, err = expander.LoadTemplateOverride(templateFile)
				if err != nil {
					return err
				}
			}

			shifts, err := expander.Expand(start, days, template)
			if err != nil {
				return err
			}

			seed := seedFlag
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			seeds := make([]int64, parallelRuns)
			for i := range seeds {
				seeds[i] = seed + int64(i)
			}

			optCfg := optimizer.DefaultConfig()
			if app.Cfg.Scheduler.MaxIterations > 0 {
				optCfg.MaxIterations = app.Cfg.Scheduler.MaxIterations
			}
			if app.Cfg.Scheduler.DefaultTimeout > 0 {
				optCfg.MaxTime = app.Cfg.Scheduler.DefaultTimeout
			}
			if iterations > 0 {
				optCfg.MaxIterations = iterations
			}

			solverOpts := solver.DefaultOptions()
			if app.Cfg.Scheduler.MaxBacktrackPerDay > 0 {
				solverOpts.MaxBacktrackPerDay = app.Cfg.Scheduler.MaxBacktrackPerDay
			}

			opts := parallel.Options{
				Seeds:           seeds,
				SolverOptions:   solverOpts,
				OptimizerConfig: optCfg,
				Weights:         scorer.DefaultWeights(),
			}

			best, err := parallel.Race(context.Background(), start, residents, shifts, opts)
			if err != nil {
				return err
			}

			if violations := validator.CheckAll(best.Context); len(violations) > 0 {
				for _, v := range violations {
					fmt.Fprintf(os.Stderr, "invariant violation [%s] %s %s: %s\n", v.Kind, v.Resident, v.Date, v.Message)
				}
				return fmt.Errorf("winning schedule failed %d invariant checks", len(violations))
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := emitter.Write(out, best.Context); err != nil {
				return err
			}

			report := stats.Summarize(best.Context)
			fmt.Fprintf(os.Stderr, "schedule score %.2f, fill rate %.1f%%, hour-deviation gini %.3f\n",
				best.Score, report.OverallFillRate*100, report.HourDeviationGini)
			return nil
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "horizon start date, YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&days, "days", 28, "horizon length in days")
	cmd.Flags().StringVar(&rosterPath, "roster", "", "path to the resident table CSV (required)")
	cmd.Flags().StringVar(&templatePath, "template", "", "path to a shift-template override (YAML)")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "RNG seed; 0 derives one from the current time")
	cmd.Flags().IntVar(&parallelRuns, "parallel-runs", app.Cfg.Scheduler.ParallelRuns, "number of independent seeded solves to race")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Phase-B iteration budget override; 0 uses the default")
	cmd.Flags().StringVar(&outPath, "out", "", "output CSV path; empty writes to stdout")

	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("roster")

	return cmd
}
