package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/config"
	"github.com/abdulachik/replyguy/internal/db"
)

var (
	reportReply    string
	reportUser     string
	reportFeedback string
)

var reportCmd = &cobra.Command{
	Use:   "report <phrase>",
	Short: "Report a phrase that still sounds machine-written",
	Long: `Record a user report for a phrase. Phrases that collect enough reports
are reviewed by the analyze command.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportReply, "reply", "", "the reply the phrase appeared in")
	reportCmd.Flags().StringVar(&reportUser, "user", "", "reporting user ID")
	reportCmd.Flags().StringVar(&reportFeedback, "feedback", "", "free-form feedback")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	pending, err := a.Store.ReportPhrase(ctx, db.Report{
		Phrase:    args[0],
		ReplyText: reportReply,
		UserID:    reportUser,
		Feedback:  reportFeedback,
	})
	if err != nil {
		return fmt.Errorf("report phrase: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reported %q (%d pending, review at %d).\n",
		args[0], pending, a.Config.AnalyzeMinReports)
	return nil
}
