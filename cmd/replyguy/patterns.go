package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/analyzer"
	"github.com/abdulachik/replyguy/internal/config"
	"github.com/abdulachik/replyguy/internal/db"
	"github.com/abdulachik/replyguy/internal/humanizer"
)

var (
	patternsCategory    string
	patternsType        string
	patternsAll         bool
	patternsLimit       int
	patternsReplacement string
	patternsSeverity    int
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage dynamic AI-phrase patterns",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dynamic patterns, most severe first",
	RunE:  runPatternsList,
}

var patternsAddCmd = &cobra.Command{
	Use:   "add <pattern>",
	Short: "Add or reactivate a dynamic pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatternsAdd,
}

var patternsRemoveCmd = &cobra.Command{
	Use:   "remove <pattern>",
	Short: "Deactivate a dynamic pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatternsRemove,
}

var patternsPromptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print active patterns as a generation prompt block",
	RunE:  runPatternsPrompt,
}

func init() {
	patternsListCmd.Flags().StringVar(&patternsCategory, "category", "", "filter by category")
	patternsListCmd.Flags().StringVar(&patternsType, "type", "", "filter by pattern type")
	patternsListCmd.Flags().BoolVar(&patternsAll, "all", false, "include inactive patterns")
	patternsListCmd.Flags().IntVar(&patternsLimit, "limit", 0, "maximum rows (0 = no limit)")

	patternsAddCmd.Flags().StringVar(&patternsType, "type", "exact", "match type: exact, partial or regex")
	patternsAddCmd.Flags().StringVar(&patternsCategory, "category", "pattern", "transition, opening, cliche, word or pattern")
	patternsAddCmd.Flags().StringVar(&patternsReplacement, "replacement", "", "replacement text (empty deletes the match)")
	patternsAddCmd.Flags().IntVar(&patternsSeverity, "severity", 3, "severity from 1 to 5")

	patternsCmd.AddCommand(patternsListCmd, patternsAddCmd, patternsRemoveCmd, patternsPromptCmd)
	rootCmd.AddCommand(patternsCmd)
}

func runPatternsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	patterns, err := a.Store.ListPatterns(ctx, db.PatternFilter{
		Category:        patternsCategory,
		PatternType:     patternsType,
		IncludeInactive: patternsAll,
		Limit:           patternsLimit,
	})
	if err != nil {
		return fmt.Errorf("list patterns: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATTERN\tTYPE\tCATEGORY\tREPLACEMENT\tSEVERITY\tREPORTS\tACTIVE")
	for _, p := range patterns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%q\t%d\t%d\t%t\n",
			p.Pattern, p.PatternType, p.Category, p.Replacement, p.Severity, p.ReportCount, p.Active)
	}
	return w.Flush()
}

func runPatternsAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Reject rows the humanizer would skip at load time.
	if _, err := humanizer.CompileRow(humanizer.PatternRow{
		Pattern:     args[0],
		PatternType: patternsType,
		Category:    patternsCategory,
		Replacement: patternsReplacement,
	}); err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Store.UpsertPattern(ctx, db.Pattern{
		Pattern:     args[0],
		PatternType: patternsType,
		Category:    patternsCategory,
		Replacement: patternsReplacement,
		Severity:    patternsSeverity,
	}); err != nil {
		return fmt.Errorf("add pattern: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pattern %q active.\n", args[0])
	return nil
}

func runPatternsRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Store.DeactivatePattern(ctx, args[0]); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("no pattern %q", args[0])
		}
		return fmt.Errorf("remove pattern: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pattern %q deactivated.\n", args[0])
	return nil
}

func runPatternsPrompt(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	patterns, err := a.Store.ActivePatterns(ctx, db.MaxActivePatterns)
	if err != nil {
		return fmt.Errorf("list patterns: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), analyzer.AntiAIPrompt(patterns))
	return nil
}
