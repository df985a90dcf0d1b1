package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/config"
)

var analyzeMinReports int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Review reported phrases with an LLM",
	Long: `Ask the configured LLM whether each phrase with enough reports sounds
machine-written. Confirmed phrases become dynamic humanizer patterns.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeMinReports, "min-reports", 0, "reports needed before review (default ANALYZE_MIN_REPORTS)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).ValidateForAnalysis)
	if err != nil {
		return err
	}
	defer a.Close()

	minReports := a.Config.AnalyzeMinReports
	if analyzeMinReports > 0 {
		minReports = analyzeMinReports
	}

	res, err := a.Analyzer.AnalyzeReported(ctx, minReports)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reviewed %d phrases: %d confirmed, %d rejected, %d failed.\n",
		res.Reviewed, res.Confirmed, res.Rejected, res.Failed)
	return nil
}
