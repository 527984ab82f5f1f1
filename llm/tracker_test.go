package llm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageTrackerAdd(t *testing.T) {
	tracker := NewUsageTracker()

	tracker.Add(TaskScore, TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150})
	tracker.Add(TaskScore, TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15})
	tracker.Add(TaskRewrite, TokenUsage{InputTokens: 200, OutputTokens: 300, TotalTokens: 500})

	score := tracker.ByTask(TaskScore)
	assert.Equal(t, 110, score.InputTokens)
	assert.Equal(t, 55, score.OutputTokens)
	assert.Equal(t, 165, score.TotalTokens)

	total := tracker.Total()
	assert.Equal(t, 310, total.InputTokens)
	assert.Equal(t, 355, total.OutputTokens)
	assert.Equal(t, 665, total.TotalTokens)

	assert.ElementsMatch(t, []Task{TaskScore, TaskRewrite}, tracker.Tasks())
}

func TestUsageTrackerUnknownTask(t *testing.T) {
	tracker := NewUsageTracker()
	assert.Equal(t, TokenUsage{}, tracker.ByTask(TaskAnalyze))
}

func TestUsageTrackerReset(t *testing.T) {
	tracker := NewUsageTracker()
	tracker.Add(TaskScore, TokenUsage{InputTokens: 1, OutputTokens: 1, TotalTokens: 2})

	tracker.Reset()
	assert.Equal(t, TokenUsage{}, tracker.Total())
	assert.Empty(t, tracker.Tasks())
}

func TestUsageTrackerSnapshot(t *testing.T) {
	tracker := NewUsageTracker()
	tracker.Add(TaskAnalyze, TokenUsage{InputTokens: 5, OutputTokens: 7, TotalTokens: 12})

	snap := tracker.Snapshot()
	assert.Equal(t, 12, snap.Total.TotalTokens)
	assert.Equal(t, 12, snap.Tasks[TaskAnalyze].TotalTokens)

	// Mutating the snapshot must not affect the tracker.
	snap.Tasks[TaskAnalyze] = TokenUsage{}
	assert.Equal(t, 12, tracker.ByTask(TaskAnalyze).TotalTokens)
}

func TestUsageTrackerConcurrent(t *testing.T) {
	tracker := NewUsageTracker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.Add(TaskScore, TokenUsage{InputTokens: 1, OutputTokens: 1, TotalTokens: 2})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2000, tracker.Total().TotalTokens)
}
