package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/app"
	"github.com/abdulachik/replyguy/internal/config"
	"github.com/abdulachik/replyguy/internal/validator"
)

var (
	validateTemplateID   string
	validateTemplateName string
	validateBoxCount     int
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] text...",
	Short: "Check meme captions against template constraints",
	Long: `Validate one caption per box, in order. The template is identified by
--template-id (full metadata), --template-name (built-in constraints) or
--box-count (generic defaults). Prints the validation result and, when a
retry is advised, the tightened limits.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateTemplateID, "template-id", "", "template ID in the metadata store")
	validateCmd.Flags().StringVar(&validateTemplateName, "template-name", "", "template name")
	validateCmd.Flags().IntVar(&validateBoxCount, "box-count", 0, "number of text boxes")
	rootCmd.AddCommand(validateCmd)
}

type validateOutput struct {
	validator.Result
	Retry *validator.RetryParameters `json:"retry,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := app.LoadTemplates(cfg)
	if err != nil {
		return err
	}
	v := validator.New(store)

	opts := validator.Options{
		TemplateID:   validateTemplateID,
		TemplateName: validateTemplateName,
		BoxCount:     validateBoxCount,
		TopText:      args[0],
	}
	if len(args) > 1 {
		opts.BottomText = args[1]
		opts.AdditionalTexts = args[2:]
	}

	out := validateOutput{Result: v.Validate(opts)}
	if v.ShouldRetry(opts) {
		retry := v.RetryParameters(opts)
		out.Retry = &retry
	}
	return printJSON(cmd.OutOrStdout(), out)
}
