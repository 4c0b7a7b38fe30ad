package generate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLLMStatsSnapshotPercentiles(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, ms != 500)
	}

	snap := stats.Snapshot()
	assert.Equal(t, 5, snap.Count)
	assert.Equal(t, 1, snap.Failures)
	assert.Equal(t, int64(100), snap.MinMs)
	assert.Equal(t, int64(500), snap.MaxMs)
	assert.Equal(t, 300.0, snap.AvgMs)
	assert.Equal(t, 300.0, snap.P50Ms)
	assert.InDelta(t, 480.0, snap.P95Ms, 1e-9)
	assert.InDelta(t, 496.0, snap.P99Ms, 1e-9)
}

func TestLLMStatsPrunesOutsideWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	stats := NewLLMStats(time.Minute)
	stats.now = func() time.Time { return now }

	stats.Record(100*time.Millisecond, true)
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 0, stats.Snapshot().Count)

	stats.Record(200*time.Millisecond, true)
	snap := stats.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(200), snap.MinMs)
	assert.Equal(t, int64(200), snap.MaxMs)
}

func TestLLMStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	stats.Record(-time.Second, true)
	snap := stats.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(0), snap.MaxMs)
}

func TestLLMStatsEmpty(t *testing.T) {
	assert.Equal(t, StatsSnapshot{}, NewLLMStats(0).Snapshot())
}
