package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cozinha-magica/internal/database"
	"cozinha-magica/internal/llm"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, c *Collectors) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL, c)
}

func TestDailyUsageAndCleanup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)
	now := time.Date(2024, 7, 10, 15, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	records := []ExecutionMetric{
		{AgentName: "Generator", Model: "m", PromptTokens: 100, CompletionTokens: 50, Timestamp: now.Add(-time.Hour)},
		{AgentName: "Rewriter", Model: "m", PromptTokens: 10, CompletionTokens: 5, Timestamp: now.Add(-2 * time.Hour)},
		{AgentName: "Eraser", Model: "m", PromptTokens: 7, CompletionTokens: 3, Timestamp: now.AddDate(0, 0, -2)},
		{AgentName: "Generator", Model: "m", PromptTokens: 1000, CompletionTokens: 1000, Timestamp: now.AddDate(0, 0, -40)},
	}
	for _, r := range records {
		require.NoError(t, store.Record(ctx, r))
	}

	usage, err := store.GetDailyUsage(ctx, 7)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, DailyUsage{Date: "2024-07-10", TotalPrompt: 110, TotalCompletion: 55, TotalExecution: 2}, usage[0])
	assert.Equal(t, DailyUsage{Date: "2024-07-08", TotalPrompt: 7, TotalCompletion: 3, TotalExecution: 1}, usage[1])

	removed, err := store.Cleanup(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestRecordMeta(t *testing.T) {
	ctx := context.Background()
	c := NewCollectors()
	store := newTestStore(t, c)

	require.NoError(t, store.RecordMeta(ctx, llm.AgentMeta{AgentName: "Generator"}))
	require.NoError(t, store.RecordMeta(ctx, llm.AgentMeta{
		AgentName: "Generator",
		Usage:     llm.TokenUsage{PromptTokens: 20, CompletionTokens: 30, Model: "gemini"},
		Latency:   1500 * time.Millisecond,
	}))

	var count int
	require.NoError(t, store.db.Get(&count, `SELECT COUNT(*) FROM execution_metrics`))
	assert.Equal(t, 1, count, "calls without token usage are not stored")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.AgentCalls.WithLabelValues("Generator")))
	assert.Equal(t, 30.0, testutil.ToFloat64(c.Tokens.WithLabelValues("Generator", "completion")))
}

func TestCollectorsHandler(t *testing.T) {
	c := NewCollectors()
	require.NoError(t, c.RegisterGaugeFunc("cozinha_recipes", "Saved recipes", func() float64 { return 3 }))

	n, err := testutil.GatherAndCount(c.registry, "cozinha_recipes")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotNil(t, c.Handler())
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.db"), make([]byte, 2048), 0644))

	h := GetSysHealth(dir)
	assert.Equal(t, "2.0 KiB", h.DataDiskSize)
	assert.Positive(t, h.Goroutines)
	assert.NotEmpty(t, h.Alloc)
}
