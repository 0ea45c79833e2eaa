package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-scheduler-api/internal/app"
	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
)

const (
	reportAssignments = 10
	reportConflicts   = 5
	reportUnassigned  = 5
)

type runOptions struct {
	planID         string
	strategy       string
	save           bool
	dryRun         bool
	populationSize int
	generations    int
	seed           int64
}

func newRunCmd(a *cli) *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scheduling strategy against an academic plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := app.New(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer container.Close()

			req := dto.RunSchedulingRequest{
				Strategy:       opts.strategy,
				Commit:         opts.save,
				DryRun:         opts.dryRun,
				PopulationSize: opts.populationSize,
				Generations:    opts.generations,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &opts.seed
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan: %s\n", opts.planID)
			run, err := container.Scheduling.Run(ctx, opts.planID, req, "cli")
			if err != nil {
				return err
			}
			printReport(out, run)
			if !run.Success {
				return appErrors.Clone(appErrors.ErrSchedulingFailed, run.Error)
			}

			switch {
			case opts.dryRun:
				fmt.Fprintln(out, "Dry run finished, nothing was saved")
			case opts.save && run.Committed:
				fmt.Fprintln(out, "Timetable saved")
			case opts.save:
				return fmt.Errorf("timetable for plan %s was not saved", opts.planID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.planID, "plan", "", "Academic plan ID")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "Strategy key (see `scheduler strategies`)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Replace the stored timetable with the result")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Run without saving even when --save is set")
	cmd.Flags().IntVar(&opts.populationSize, "population-size", 0, "Genetic algorithm population size")
	cmd.Flags().IntVar(&opts.generations, "generations", 0, "Genetic algorithm generations")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed for reproducible genetic runs")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func printReport(w io.Writer, run *dto.SchedulingRunResponse) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SCHEDULING RESULT")
	fmt.Fprintln(w, rule)

	status := "SUCCESS"
	if !run.Success {
		status = "FAILED"
	}
	fmt.Fprintf(w, "Status: %s\n", status)
	fmt.Fprintf(w, "Run: %s\n", run.RunID)
	fmt.Fprintf(w, "Strategy: %s\n", run.Strategy)
	fmt.Fprintf(w, "Elapsed: %.2fs\n", float64(run.ElapsedMs)/1000)
	fmt.Fprintf(w, "Score: %.2f\n", run.Score)
	fmt.Fprintf(w, "\nAssignments: %d created, %d unassigned\n", len(run.Assignments), len(run.Unassigned))

	for i, a := range run.Assignments {
		if i == reportAssignments {
			fmt.Fprintf(w, "   ... and %d more\n", len(run.Assignments)-reportAssignments)
			break
		}
		fmt.Fprintf(w, "   %2d. %-30s | %-20s | %s %s | %s | Score: %.1f\n",
			i+1, truncate(a.SubjectName, 30), truncate(a.TeacherName, 20), a.DayOfWeek, a.StartTime, a.RoomCode, a.Score)
	}

	if len(run.Conflicts) > 0 {
		fmt.Fprintf(w, "\nConflicts: %d\n", len(run.Conflicts))
		for i, c := range run.Conflicts {
			if i == reportConflicts {
				fmt.Fprintf(w, "   ... and %d more conflicts\n", len(run.Conflicts)-reportConflicts)
				break
			}
			fmt.Fprintf(w, "   %d. %s\n", i+1, truncate(c.Description, 80))
		}
	}

	if len(run.Unassigned) > 0 {
		fmt.Fprintf(w, "\nUnassigned: %d\n", len(run.Unassigned))
		for i, u := range run.Unassigned {
			if i == reportUnassigned {
				fmt.Fprintf(w, "   ... and %d more\n", len(run.Unassigned)-reportUnassigned)
				break
			}
			fmt.Fprintf(w, "   %d. %s - %s\n", i+1, u.SubjectName, u.TeacherName)
		}
	}

	if run.Message != "" {
		fmt.Fprintf(w, "\n%s\n", run.Message)
	}
	if run.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", run.Error)
	}
	fmt.Fprintln(w, rule)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
