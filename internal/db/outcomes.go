package db

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/oklog/ulid/v2"
)

// Outcome is whether a meme built on a template was used successfully.
type Outcome struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	UserID     string    `json:"user_id,omitempty"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"created_at"`
}

// OutcomeStats aggregates outcomes for one template.
type OutcomeStats struct {
	TemplateID string `json:"template_id"`
	Successes  int    `json:"successes"`
	Failures   int    `json:"failures"`
}

// Total is Successes plus Failures.
func (o OutcomeStats) Total() int {
	return o.Successes + o.Failures
}

// RecordOutcome stores an outcome and returns its ID. userID may be empty.
func (s *Store) RecordOutcome(ctx context.Context, templateID, userID string, success bool) (string, error) {
	if templateID == "" {
		return "", fmt.Errorf("record outcome: empty template id")
	}

	id := ulid.Make().String()
	ok := 0
	if success {
		ok = 1
	}

	query, args, err := sq.Insert("template_outcomes").
		Columns("id", "template_id", "user_id", "success", "created_at").
		Values(id, templateID, userID, ok, s.timestamp()).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build outcome insert: %w", err)
	}
	if _, err := s.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert outcome: %w", err)
	}
	return id, nil
}

// Outcomes returns outcomes recorded at or after since, oldest first. ULIDs
// sort by creation time, so id is the tiebreaker.
func (s *Store) Outcomes(ctx context.Context, since time.Time) ([]Outcome, error) {
	q := sq.Select("id", "template_id", "user_id", "success", "created_at").
		From("template_outcomes").
		OrderBy("created_at", "id")
	if !since.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": formatTime(since)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outcome query: %w", err)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var (
			o       Outcome
			success int
			created string
		)
		if err := rows.Scan(&o.ID, &o.TemplateID, &o.UserID, &success, &created); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Success = success == 1
		o.CreatedAt = parseTimestamp(created)
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// OutcomeStatsByTemplate returns per-template success and failure counts,
// busiest template first.
func (s *Store) OutcomeStatsByTemplate(ctx context.Context) ([]OutcomeStats, error) {
	query, args, err := sq.Select(
		"template_id",
		"SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)",
	).
		From("template_outcomes").
		GroupBy("template_id").
		OrderBy("COUNT(*) DESC", "template_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outcome stats: %w", err)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcome stats: %w", err)
	}
	defer rows.Close()

	var stats []OutcomeStats
	for rows.Next() {
		var st OutcomeStats
		if err := rows.Scan(&st.TemplateID, &st.Successes, &st.Failures); err != nil {
			return nil, fmt.Errorf("scan outcome stats: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome stats: %w", err)
	}
	return stats, nil
}
