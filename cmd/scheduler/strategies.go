package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
)

func newStrategiesCmd(a *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List available scheduling strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			printStrategies(cmd.OutOrStdout(), scheduler.Strategies(), a.cfg.Scheduler.DefaultStrategy)
			return nil
		},
	}
}

func printStrategies(w io.Writer, strategies []scheduler.Descriptor, defaultKey string) {
	fmt.Fprintln(w, "Available scheduling strategies:")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, s := range strategies {
		marker := ""
		if string(s.Key) == defaultKey {
			marker = " (default)"
		}
		fmt.Fprintf(w, "- %s%s\n", s.Key, marker)
		fmt.Fprintf(w, "   Name: %s\n", s.Name)
		fmt.Fprintf(w, "   Description: %s\n\n", s.Description)
	}
}
