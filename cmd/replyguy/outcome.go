package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/config"
)

var outcomeUser string

var outcomeCmd = &cobra.Command{
	Use:   "outcome <template-id> success|failure",
	Short: "Record whether a meme built on a template worked",
	Args:  cobra.ExactArgs(2),
	RunE:  runOutcome,
}

func init() {
	outcomeCmd.Flags().StringVar(&outcomeUser, "user", "", "user the meme was made for")
	rootCmd.AddCommand(outcomeCmd)
}

func runOutcome(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var success bool
	switch args[1] {
	case "success":
		success = true
	case "failure":
	default:
		return fmt.Errorf("outcome must be success or failure, got %q", args[1])
	}

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	rate, err := a.RecordOutcome(ctx, args[0], outcomeUser, success)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Template %s success rate: %.1f\n", args[0], rate)
	return nil
}
