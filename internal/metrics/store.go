package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cozinha-magica/internal/llm"

	"github.com/jmoiron/sqlx"
)

const timestampLayout = "2006-01-02 15:04:05"

// ExecutionMetric records metadata for a single backend call.
type ExecutionMetric struct {
	AgentName        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db         *sqlx.DB
	collectors *Collectors
	now        func() time.Time
}

// NewStore initializes the Store with an existing, migrated database.
// collectors may be nil.
func NewStore(db *sqlx.DB, collectors *Collectors) *Store {
	return &Store{db: db, collectors: collectors, now: time.Now}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO execution_metrics (agent_name, model, prompt_tokens, completion_tokens, latency_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.AgentName, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS, ts.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert execution metric: %w", err)
	}
	return nil
}

// RecordMeta records a backend call. Calls that report no tokens are skipped.
func (s *Store) RecordMeta(ctx context.Context, meta llm.AgentMeta) error {
	if s.collectors != nil {
		s.collectors.Observe(meta)
	}
	if meta.Usage.PromptTokens == 0 && meta.Usage.CompletionTokens == 0 {
		return nil
	}
	return s.Record(ctx, MapUsage(meta.AgentName, meta.Usage, meta.Latency))
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string `db:"day"`
	TotalPrompt     int    `db:"prompt"`
	TotalCompletion int    `db:"completion"`
	TotalExecution  int    `db:"executions"`
}

// GetDailyUsage retrieves usage for the last N days, newest day first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := s.now().UTC().AddDate(0, 0, -days).Format(timestampLayout)

	var rows []struct {
		Day        sql.NullString `db:"day"`
		Prompt     int            `db:"prompt"`
		Completion int            `db:"completion"`
		Executions int            `db:"executions"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT date(timestamp) AS day,
		       COALESCE(SUM(prompt_tokens), 0) AS prompt,
		       COALESCE(SUM(completion_tokens), 0) AS completion,
		       COUNT(*) AS executions
		FROM execution_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}

	results := make([]DailyUsage, 0, len(rows))
	for _, r := range rows {
		u := DailyUsage{
			Date:            "Unknown",
			TotalPrompt:     r.Prompt,
			TotalCompletion: r.Completion,
			TotalExecution:  r.Executions,
		}
		if r.Day.Valid {
			u.Date = r.Day.String
		}
		results = append(results, u)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := s.now().UTC().AddDate(0, 0, -olderThanDays).Format(timestampLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM execution_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up execution metrics: %w", err)
	}
	return res.RowsAffected()
}

// MapUsage converts token usage into an ExecutionMetric stamped now.
func MapUsage(agentName string, usage llm.TokenUsage, latency time.Duration) ExecutionMetric {
	return ExecutionMetric{
		AgentName:        agentName,
		Model:            usage.Model,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
		Timestamp:        time.Now().UTC(),
	}
}
