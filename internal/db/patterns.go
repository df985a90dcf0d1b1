package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// MaxActivePatterns caps how many dynamic patterns are served to the
// humanizer per load.
const MaxActivePatterns = 100

// Pattern is a dynamic AI-phrase rule.
type Pattern struct {
	ID          int64     `json:"id"`
	Pattern     string    `json:"pattern"`
	PatternType string    `json:"pattern_type"`
	Category    string    `json:"category"`
	Replacement string    `json:"replacement"`
	Severity    int       `json:"severity"`
	ReportCount int       `json:"report_count"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PatternFilter narrows ListPatterns. Zero values match everything active.
type PatternFilter struct {
	Category        string
	PatternType     string
	IncludeInactive bool
	Limit           int
}

var patternColumns = []string{
	"id", "pattern", "pattern_type", "category", "replacement",
	"severity", "report_count", "active", "created_at", "updated_at",
}

// ActivePatterns returns up to limit active patterns, most severe first.
// A limit outside (0, MaxActivePatterns] means MaxActivePatterns.
func (s *Store) ActivePatterns(ctx context.Context, limit int) ([]Pattern, error) {
	if limit <= 0 || limit > MaxActivePatterns {
		limit = MaxActivePatterns
	}
	return s.ListPatterns(ctx, PatternFilter{Limit: limit})
}

// ListPatterns returns patterns matching f ordered by severity, then by
// most recent update.
func (s *Store) ListPatterns(ctx context.Context, f PatternFilter) ([]Pattern, error) {
	q := sq.Select(patternColumns...).
		From("ai_phrase_patterns").
		OrderBy("severity DESC", "updated_at DESC", "id")

	if !f.IncludeInactive {
		q = q.Where(sq.Eq{"active": 1})
	}
	if f.Category != "" {
		q = q.Where(sq.Eq{"category": f.Category})
	}
	if f.PatternType != "" {
		q = q.Where(sq.Eq{"pattern_type": f.PatternType})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pattern query: %w", err)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer rows.Close()

	var patterns []Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patterns: %w", err)
	}
	return patterns, nil
}

// GetPattern looks a pattern up by its text.
func (s *Store) GetPattern(ctx context.Context, pattern string) (Pattern, error) {
	query, args, err := sq.Select(patternColumns...).
		From("ai_phrase_patterns").
		Where(sq.Eq{"pattern": pattern}).
		ToSql()
	if err != nil {
		return Pattern{}, fmt.Errorf("build pattern query: %w", err)
	}

	p, err := scanPattern(s.QueryRowContext(ctx, query, args...))
	if err != nil {
		return Pattern{}, err
	}
	return p, nil
}

// UpsertPattern inserts p, or updates the existing row with the same pattern
// text and reactivates it. Severity is clamped to 1..5.
func (s *Store) UpsertPattern(ctx context.Context, p Pattern) error {
	if p.Pattern == "" {
		return fmt.Errorf("upsert pattern: empty pattern")
	}
	if p.PatternType == "" {
		p.PatternType = "exact"
	}
	switch p.PatternType {
	case "exact", "regex", "partial":
	default:
		return fmt.Errorf("upsert pattern: unknown pattern type %q", p.PatternType)
	}
	if p.Category == "" {
		p.Category = "pattern"
	}
	p.Severity = min(max(p.Severity, 1), 5)

	now := s.timestamp()
	query, args, err := sq.Insert("ai_phrase_patterns").
		Columns("pattern", "pattern_type", "category", "replacement", "severity", "report_count", "active", "created_at", "updated_at").
		Values(p.Pattern, p.PatternType, p.Category, p.Replacement, p.Severity, p.ReportCount, 1, now, now).
		Suffix(`ON CONFLICT(pattern) DO UPDATE SET
			pattern_type = excluded.pattern_type,
			category = excluded.category,
			replacement = excluded.replacement,
			severity = excluded.severity,
			report_count = excluded.report_count,
			active = 1,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert pattern %q: %w", p.Pattern, err)
	}
	return nil
}

// DeactivatePattern stops a pattern from being served without deleting it.
func (s *Store) DeactivatePattern(ctx context.Context, pattern string) error {
	query, args, err := sq.Update("ai_phrase_patterns").
		Set("active", 0).
		Set("updated_at", s.timestamp()).
		Where(sq.Eq{"pattern": pattern}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate: %w", err)
	}

	res, err := s.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate pattern %q: %w", pattern, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate pattern %q: %w", pattern, err)
	}
	if n == 0 {
		return fmt.Errorf("deactivate pattern %q: %w", pattern, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPattern(row rowScanner) (Pattern, error) {
	var (
		p                Pattern
		active           int
		created, updated string
	)
	err := row.Scan(&p.ID, &p.Pattern, &p.PatternType, &p.Category, &p.Replacement,
		&p.Severity, &p.ReportCount, &active, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Pattern{}, ErrNotFound
	}
	if err != nil {
		return Pattern{}, fmt.Errorf("scan pattern: %w", err)
	}
	p.Active = active == 1
	p.CreatedAt = parseTimestamp(created)
	p.UpdatedAt = parseTimestamp(updated)
	return p, nil
}
