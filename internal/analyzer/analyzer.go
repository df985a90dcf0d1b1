// Package analyzer reviews phrases users reported as machine-sounding with an
// LLM and promotes confirmed ones to dynamic humanizer patterns.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/abdulachik/replyguy/internal/db"
)

// DefaultMinReports is how many reports a phrase needs before review.
const DefaultMinReports = 5

// Completer sends a prompt to a language model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Store is the persistence the analyzer reads reports from and writes
// patterns to.
type Store interface {
	ReportedPhraseSummaries(ctx context.Context, minReports int) ([]db.PhraseSummary, error)
	MarkPhraseValidated(ctx context.Context, phrase string, aiSounding bool, reason string) (int64, error)
	UpsertPattern(ctx context.Context, p db.Pattern) error
}

// Verdict is the model's judgement on one phrase.
type Verdict struct {
	IsAISounding bool    `json:"is_ai_sounding"`
	Reason       string  `json:"reason"`
	Category     string  `json:"category"`
	Replacement  *string `json:"replacement"`
}

// Result summarizes one analysis run.
type Result struct {
	Reviewed  int `json:"reviewed"`
	Confirmed int `json:"confirmed"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`
}

// Analyzer reviews reported phrases.
type Analyzer struct {
	llm   Completer
	store Store
}

// New creates an Analyzer.
func New(llm Completer, store Store) *Analyzer {
	return &Analyzer{llm: llm, store: store}
}

// AnalyzeReported reviews every unreviewed phrase with at least minReports
// reports. A failure on one phrase is logged and the run continues; only a
// failure to list the phrases is returned.
func (a *Analyzer) AnalyzeReported(ctx context.Context, minReports int) (Result, error) {
	summaries, err := a.store.ReportedPhraseSummaries(ctx, minReports)
	if err != nil {
		return Result{}, fmt.Errorf("list reported phrases: %w", err)
	}
	if len(summaries) == 0 {
		slog.Info("no phrases meet the report threshold", "min_reports", minReports)
		return Result{}, nil
	}

	var res Result
	for _, s := range summaries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		verdict, err := a.AnalyzePhrase(ctx, s)
		if err != nil {
			slog.Warn("phrase analysis failed", "phrase", s.Phrase, "error", err)
			res.Failed++
			continue
		}
		res.Reviewed++

		if verdict.IsAISounding {
			res.Confirmed++
		} else {
			res.Rejected++
		}
		slog.Info("phrase analyzed",
			"phrase", s.Phrase,
			"ai_sounding", verdict.IsAISounding,
			"category", verdict.Category,
			"reports", s.TotalReports,
		)
	}
	return res, nil
}

// AnalyzePhrase asks the model about one phrase, records the verdict on its
// reports and, if confirmed, upserts the phrase as a pattern.
func (a *Analyzer) AnalyzePhrase(ctx context.Context, s db.PhraseSummary) (Verdict, error) {
	response, err := a.llm.Complete(ctx, SystemPrompt, phrasePrompt(s))
	if err != nil {
		return Verdict{}, fmt.Errorf("complete: %w", err)
	}

	verdict, err := parseVerdict(response)
	if err != nil {
		return Verdict{}, err
	}

	if _, err := a.store.MarkPhraseValidated(ctx, s.Phrase, verdict.IsAISounding, verdict.Reason); err != nil {
		return Verdict{}, fmt.Errorf("mark validated: %w", err)
	}

	if verdict.IsAISounding {
		if err := a.store.UpsertPattern(ctx, patternFor(s, verdict)); err != nil {
			return Verdict{}, fmt.Errorf("add pattern: %w", err)
		}
	}
	return verdict, nil
}

func phrasePrompt(s db.PhraseSummary) string {
	var samples strings.Builder
	for i, c := range s.SampleContexts {
		fmt.Fprintf(&samples, "%d. %q\n", i+1, c)
	}
	if len(s.SampleContexts) == 0 {
		samples.WriteString("(none)\n")
	}
	return fmt.Sprintf(PhrasePrompt, s.Phrase, s.TotalReports, s.UniqueUsers, strings.TrimRight(samples.String(), "\n"))
}

func parseVerdict(response string) (Verdict, error) {
	raw, err := extractJSON(response)
	if err != nil {
		return Verdict{}, err
	}
	var v Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Verdict{}, fmt.Errorf("parse verdict: %w", err)
	}
	return v, nil
}

var categories = map[string]bool{
	"transition": true, "opening": true, "cliche": true, "word": true, "pattern": true,
}

// patternFor turns a confirmed phrase into an exact rule. The humanizer
// bounds exact rules on word sides only and accepts either apostrophe, and
// applies the replacement literally.
func patternFor(s db.PhraseSummary, v Verdict) db.Pattern {
	p := db.Pattern{
		Pattern:     s.Phrase,
		PatternType: "exact",
		Category:    strings.ToLower(strings.TrimSpace(v.Category)),
		Severity:    int(math.Min(5, math.Ceil(float64(s.TotalReports)/10))),
		ReportCount: s.TotalReports,
	}
	if !categories[p.Category] {
		p.Category = "pattern"
	}
	if v.Replacement != nil && !strings.EqualFold(strings.TrimSpace(*v.Replacement), "remove") {
		p.Replacement = *v.Replacement
	}
	return p
}

// AntiAIPrompt renders active patterns as an instruction block for a
// generation prompt, grouped by category with at most ten per group. It
// returns "" when there are no patterns.
func AntiAIPrompt(patterns []db.Pattern) string {
	if len(patterns) == 0 {
		return ""
	}

	grouped := make(map[string][]db.Pattern)
	for _, p := range patterns {
		grouped[p.Category] = append(grouped[p.Category], p)
	}
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("\n\nADDITIONAL PATTERNS TO AVOID (from user feedback):\n")
	for _, name := range names {
		fmt.Fprintf(&b, "\n%sS TO AVOID:\n", strings.ToUpper(name))
		group := grouped[name]
		for _, p := range group[:min(len(group), 10)] {
			if p.Replacement != "" {
				fmt.Fprintf(&b, "- %q -> use %q instead\n", p.Pattern, p.Replacement)
			} else {
				fmt.Fprintf(&b, "- Avoid: %q\n", p.Pattern)
			}
		}
	}
	return b.String()
}
