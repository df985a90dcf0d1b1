package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/config"
	"github.com/abdulachik/replyguy/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background daemon",
	Long: `Run the replyguy daemon that keeps dynamic humanizer patterns fresh,
reviews reported phrases on a schedule and prunes template usage history.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := openApp(ctx, (*config.Config).ValidateForServe)
	if err != nil {
		return err
	}
	defer a.Close()

	schedCfg := scheduler.Config{
		Patterns:        a.Patterns,
		Usage:           a.Tracker,
		RefreshInterval: a.Config.PatternCacheTTL,
		AnalyzeInterval: a.Config.AnalyzeInterval,
		MinReports:      a.Config.AnalyzeMinReports,
	}
	if a.Analyzer != nil {
		schedCfg.Analyzer = a.Analyzer
	} else {
		slog.Warn("phrase analysis disabled", "provider", a.Config.AnalyzerProvider)
	}

	slog.Info("starting replyguy daemon", "database", a.Config.DatabasePath)
	sched := scheduler.New(schedCfg)

	// Run scheduler in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- sched.Run(ctx)
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
		slog.Info("shutting down...")
		cancel()
		// let the current cycle finish before the store closes
		<-errCh
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler error: %w", err)
		}
	}

	for _, st := range sched.Health().Statuses() {
		slog.Info("component status", "component", st.Component, "healthy", st.Healthy, "message", st.Message)
	}
	return nil
}
