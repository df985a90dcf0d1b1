package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/config"
	"github.com/abdulachik/replyguy/internal/db"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show feedback and template statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	active, err := a.Store.ListPatterns(ctx, db.PatternFilter{})
	if err != nil {
		return fmt.Errorf("list patterns: %w", err)
	}
	all, err := a.Store.ListPatterns(ctx, db.PatternFilter{IncludeInactive: true})
	if err != nil {
		return fmt.Errorf("list patterns: %w", err)
	}
	byCategory := make(map[string]int)
	for _, p := range active {
		byCategory[p.Category]++
	}

	reports, err := a.Store.CountReports(ctx)
	if err != nil {
		return fmt.Errorf("count reports: %w", err)
	}

	outcomes, err := a.Store.OutcomeStatsByTemplate(ctx)
	if err != nil {
		return fmt.Errorf("outcome stats: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== replyguy statistics ===")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Database: %s\n", a.Config.DatabasePath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Dynamic patterns:")
	fmt.Fprintf(out, "  Active: %d\n", len(active))
	fmt.Fprintf(out, "  Inactive: %d\n", len(all)-len(active))
	for _, cat := range []string{"transition", "opening", "cliche", "word", "pattern"} {
		if n := byCategory[cat]; n > 0 {
			fmt.Fprintf(out, "    %s: %d\n", cat, n)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Phrase reports:")
	fmt.Fprintf(out, "  Pending: %d\n", reports.Pending)
	fmt.Fprintf(out, "  Confirmed: %d\n", reports.Confirmed)
	fmt.Fprintf(out, "  Rejected: %d\n", reports.Rejected)
	fmt.Fprintln(out)

	if len(outcomes) > 0 {
		fmt.Fprintln(out, "Template outcomes:")
		for _, st := range outcomes {
			name, rate := st.TemplateID, 0.0
			if t, err := a.Templates.Get(st.TemplateID); err == nil {
				name, rate = t.Name, t.Usage.SuccessRate
			}
			fmt.Fprintf(out, "  %s: %d ok / %d failed (rate %.1f)\n", name, st.Successes, st.Failures, rate)
		}
		fmt.Fprintln(out)
	}

	return nil
}
