package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/quality"
	"github.com/abdulachik/replyguy/internal/templates"
)

var (
	scoreTweet    string
	scoreReply    string
	scoreTone     string
	scoreTemplate string
)

var scoreCmd = &cobra.Command{
	Use:   "score [flags] text...",
	Short: "Score a finished meme against the tweet it replies to",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreTweet, "tweet", "", "original tweet text")
	scoreCmd.Flags().StringVar(&scoreReply, "reply", "", "generated reply text")
	scoreCmd.Flags().StringVar(&scoreTone, "tone", string(quality.ToneHumorous), "reply tone")
	scoreCmd.Flags().StringVar(&scoreTemplate, "template", "", "meme template name")
	_ = scoreCmd.MarkFlagRequired("tweet")
	rootCmd.AddCommand(scoreCmd)
}

type scoreOutput struct {
	quality.Score
	MeetsMinimum bool `json:"meets_minimum"`

	// Idioms are the well-known caption patterns the texts follow.
	Idioms []string `json:"idioms,omitempty"`
}

func runScore(cmd *cobra.Command, args []string) error {
	tone, err := quality.ParseTone(scoreTone)
	if err != nil {
		return err
	}

	c := quality.Content{
		OriginalTweet: scoreTweet,
		Reply:         scoreReply,
		Tone:          tone,
		TemplateName:  scoreTemplate,
		MemeTexts:     args,
	}

	catalog, err := templates.LoadDefaultCatalog()
	if err != nil {
		return fmt.Errorf("load meme catalog: %w", err)
	}

	s := quality.New()
	out := scoreOutput{
		Score:        s.AssessQuality(c),
		MeetsMinimum: s.MeetsMinimumQuality(c),
	}
	for _, text := range args {
		if p, ok := catalog.MatchPattern(text); ok {
			out.Idioms = append(out.Idioms, p.Pattern)
		}
	}
	return printJSON(cmd.OutOrStdout(), out)
}
