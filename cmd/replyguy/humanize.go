package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/config"
	"github.com/abdulachik/replyguy/internal/humanizer"
	"github.com/abdulachik/replyguy/internal/textutil"
)

var (
	humanizeSync bool
	humanizeSeed int64
	humanizeMax  int
)

var humanizeCmd = &cobra.Command{
	Use:   "humanize [text|-]",
	Short: "Rewrite a reply so it reads as written by a person",
	Long: `Run the full humanizer pipeline: dynamic patterns from user feedback,
static rewrites, natural variations and the emoji limit. Reads stdin when no
text is given.`,
	RunE: runHumanize,
}

func init() {
	humanizeCmd.Flags().BoolVar(&humanizeSync, "sync", false, "skip dynamic patterns (no database access)")
	humanizeCmd.Flags().Int64Var(&humanizeSeed, "seed", 0, "seed for natural variations (0 = random)")
	humanizeCmd.Flags().IntVar(&humanizeMax, "max-chars", textutil.TweetMaxLength, "truncate output to this many characters (0 = no limit)")
	rootCmd.AddCommand(humanizeCmd)
}

func runHumanize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	text, err := inputText(cmd, args)
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if humanizeSeed != 0 {
		rng = rand.New(rand.NewSource(humanizeSeed))
	}

	if humanizeSync {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		h := humanizer.New(humanizer.Options{Rand: rng, Intensity: cfg.VariationIntensity})
		fmt.Fprintln(cmd.OutOrStdout(), fit(h.ProcessSync(text)))
		return nil
	}

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	h := a.Humanizer
	if rng != nil {
		h = humanizer.New(humanizer.Options{
			Cache:     a.Patterns,
			Rand:      rng,
			Intensity: a.Config.VariationIntensity,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), fit(h.Process(ctx, text)))
	return nil
}

func fit(reply string) string {
	if humanizeMax <= 0 {
		return reply
	}
	return textutil.Truncate(reply, humanizeMax)
}
