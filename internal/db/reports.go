package db

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/oklog/ulid/v2"
)

const (
	// contextRadius is how many characters around a reported phrase are kept
	// as its context.
	contextRadius = 50

	maxSampleContexts = 5
)

// Report is a user's claim that a phrase in a reply still sounds
// machine-written.
type Report struct {
	ReplyText string `json:"reply_text"`
	Phrase    string `json:"phrase"`
	UserID    string `json:"user_id,omitempty"`
	Feedback  string `json:"feedback,omitempty"`
}

// PhraseSummary aggregates the pending reports for one phrase.
type PhraseSummary struct {
	Phrase         string   `json:"phrase"`
	TotalReports   int      `json:"total_reports"`
	UniqueUsers    int      `json:"unique_users"`
	SampleContexts []string `json:"sample_contexts"`
}

// ReportCounts splits all reports by review state.
type ReportCounts struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Rejected  int `json:"rejected"`
}

// ReportPhrase stores r and returns how many unreviewed reports the phrase
// now has.
func (s *Store) ReportPhrase(ctx context.Context, r Report) (int, error) {
	r.Phrase = strings.TrimSpace(r.Phrase)
	if r.Phrase == "" {
		return 0, fmt.Errorf("report phrase: empty phrase")
	}

	query, args, err := sq.Insert("reported_phrases").
		Columns("id", "phrase", "reply_text", "context", "user_id", "feedback", "created_at").
		Values(ulid.Make().String(), r.Phrase, r.ReplyText, phraseContext(r.ReplyText, r.Phrase), r.UserID, r.Feedback, s.timestamp()).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build report insert: %w", err)
	}
	if _, err := s.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}

	var count int
	if err := s.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reported_phrases WHERE phrase = ? AND validated IS NULL", r.Phrase,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return count, nil
}

// phraseContext returns the phrase with up to contextRadius characters on
// each side, or "" if the reply does not contain it.
func phraseContext(reply, phrase string) string {
	idx := strings.Index(reply, phrase)
	if idx < 0 {
		return ""
	}
	runes := []rune(reply)
	start := utf8.RuneCountInString(reply[:idx])
	end := start + utf8.RuneCountInString(phrase)
	return string(runes[max(0, start-contextRadius):min(len(runes), end+contextRadius)])
}

// ReportedPhraseSummaries returns unreviewed phrases with at least
// minReports reports, most reported first.
func (s *Store) ReportedPhraseSummaries(ctx context.Context, minReports int) ([]PhraseSummary, error) {
	query, args, err := sq.Select("phrase", "COUNT(*)", "COUNT(DISTINCT NULLIF(user_id, ''))").
		From("reported_phrases").
		Where(sq.Eq{"validated": nil}).
		GroupBy("phrase").
		Having("COUNT(*) >= ?", max(minReports, 1)).
		OrderBy("COUNT(*) DESC", "phrase").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary query: %w", err)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}

	var summaries []PhraseSummary
	for rows.Next() {
		var ps PhraseSummary
		if err := rows.Scan(&ps.Phrase, &ps.TotalReports, &ps.UniqueUsers); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, ps)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	// the connection is shared, so samples are fetched after rows is released
	rows.Close()

	for i := range summaries {
		samples, err := s.sampleContexts(ctx, summaries[i].Phrase)
		if err != nil {
			return nil, err
		}
		summaries[i].SampleContexts = samples
	}
	return summaries, nil
}

func (s *Store) sampleContexts(ctx context.Context, phrase string) ([]string, error) {
	query, args, err := sq.Select("context").
		From("reported_phrases").
		Where(sq.Eq{"phrase": phrase, "validated": nil}).
		Where(sq.NotEq{"context": ""}).
		OrderBy("created_at DESC").
		Limit(maxSampleContexts).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sample query: %w", err)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	samples := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, c)
	}
	return samples, rows.Err()
}

// MarkPhraseValidated records the review verdict on every unreviewed report
// of phrase and returns how many reports were updated.
func (s *Store) MarkPhraseValidated(ctx context.Context, phrase string, aiSounding bool, reason string) (int64, error) {
	verdict := 0
	if aiSounding {
		verdict = 1
	}

	query, args, err := sq.Update("reported_phrases").
		Set("validated", verdict).
		Set("validation_reason", reason).
		Set("validated_at", s.timestamp()).
		Where(sq.Eq{"phrase": phrase, "validated": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build validate update: %w", err)
	}

	res, err := s.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark phrase %q: %w", phrase, err)
	}
	return res.RowsAffected()
}

// CountReports tallies reports by review state.
func (s *Store) CountReports(ctx context.Context) (ReportCounts, error) {
	var c ReportCounts
	err := s.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN validated IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN validated = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN validated = 0 THEN 1 ELSE 0 END), 0)
		FROM reported_phrases
	`).Scan(&c.Pending, &c.Confirmed, &c.Rejected)
	if err != nil {
		return ReportCounts{}, fmt.Errorf("count reports: %w", err)
	}
	return c, nil
}
