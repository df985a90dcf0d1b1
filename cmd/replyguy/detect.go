package main

import (
	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/humanizer"
)

var detectCmd = &cobra.Command{
	Use:   "detect [text|-]",
	Short: "Report the AI tells found in a text",
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

type detectReport struct {
	HasAIPatterns         bool                    `json:"has_ai_patterns"`
	HasStructuredPatterns bool                    `json:"has_structured_patterns"`
	HasAIDisclaimers      bool                    `json:"has_ai_disclaimers"`
	Grammar               humanizer.GrammarReport `json:"perfect_grammar"`
	Emojis                int                     `json:"emojis"`
	Findings              []humanizer.Finding     `json:"findings"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	text, err := inputText(cmd, args)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), detectReport{
		HasAIPatterns:         humanizer.HasAIPatterns(text),
		HasStructuredPatterns: humanizer.HasStructuredPatterns(text),
		HasAIDisclaimers:      humanizer.HasAIDisclaimers(text),
		Grammar:               humanizer.HasPerfectGrammar(text),
		Emojis:                humanizer.CountEmojis(text),
		Findings:              humanizer.Findings(text),
	})
}
