package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/replyguy/internal/app"
	"github.com/abdulachik/replyguy/internal/config"
	"github.com/abdulachik/replyguy/internal/templates"
)

var (
	templatesCategory      string
	templatesMaxComplexity int
	templatesUser          string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the meme template table",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates with their track record",
	RunE:  runTemplatesList,
}

var templatesRecommendCmd = &cobra.Command{
	Use:   "recommend <context>",
	Short: "Recommend templates for a conversation context",
	Long: `Recommend templates whose recommended contexts match, ranked by success
rate and popularity, then ordered by variety for --user.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplatesRecommend,
}

var templatesFallbackCmd = &cobra.Command{
	Use:   "fallback [tone]",
	Short: "Print a fallback caption for a tone",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplatesFallback,
}

func init() {
	templatesListCmd.Flags().StringVar(&templatesCategory, "category", "", "only list this category")
	templatesRecommendCmd.Flags().IntVar(&templatesMaxComplexity, "max-complexity", 5, "highest template complexity to consider")
	templatesRecommendCmd.Flags().StringVar(&templatesUser, "user", "", "user to diversify for")

	templatesCmd.AddCommand(templatesListCmd, templatesRecommendCmd, templatesFallbackCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	list := a.Templates.All()
	if templatesCategory != "" {
		list = a.Templates.ByCategory(templatesCategory)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tBOXES\tCOMPLEXITY\tSUCCESS")
	for _, t := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1f\n",
			t.ID, t.Name, t.Category, t.BoxCount, t.Usage.Complexity, t.Usage.SuccessRate)
	}
	return w.Flush()
}

type recommendation struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	RankScore float64 `json:"rank_score"`
	Diversity float64 `json:"diversity_score"`
}

func runTemplatesRecommend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	recs := recommend(a, args[0], templatesMaxComplexity, templatesUser)
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No templates match that context.")
		return nil
	}
	return printJSON(cmd.OutOrStdout(), recs)
}

func recommend(a *app.App, topic string, maxComplexity int, user string) []recommendation {
	matched := a.Templates.Recommend(topic, maxComplexity)
	if len(matched) == 0 {
		return nil
	}

	byID := make(map[string]templates.Template, len(matched))
	candidates := make([]templates.Candidate, len(matched))
	for i, t := range matched {
		byID[t.ID] = t
		candidates[i] = templates.Candidate{ID: t.ID, Name: t.Name}
	}

	scored := a.Tracker.ScoreByDiversity(candidates, user)
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	out := make([]recommendation, len(scored))
	for i, sc := range scored {
		t := byID[sc.Candidate.ID]
		out[i] = recommendation{ID: t.ID, Name: t.Name, RankScore: t.RankScore(), Diversity: sc.Score}
	}
	return out
}

func runTemplatesFallback(cmd *cobra.Command, args []string) error {
	catalog, err := templates.LoadDefaultCatalog()
	if err != nil {
		return fmt.Errorf("load meme catalog: %w", err)
	}

	tone := templates.DefaultTone
	if len(args) == 1 {
		tone = args[0]
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	fmt.Fprintln(cmd.OutOrStdout(), catalog.FallbackByTone(tone, rng))
	return nil
}
