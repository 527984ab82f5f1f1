package llm

import "sync"

// UsageTracker tracks token usage across card-review tasks.
type UsageTracker interface {
	// Add records token usage for a specific task.
	Add(task Task, usage TokenUsage)

	// Total returns the aggregate token usage across all tasks.
	Total() TokenUsage

	// ByTask returns the token usage for a specific task.
	ByTask(task Task) TokenUsage

	// Reset clears all tracked token usage.
	Reset()

	// Tasks returns a list of all tracked tasks.
	Tasks() []Task
}

// DefaultUsageTracker is a thread-safe implementation of UsageTracker.
type DefaultUsageTracker struct {
	mu    sync.RWMutex
	tasks map[Task]TokenUsage
	total TokenUsage
}

// NewUsageTracker creates a new DefaultUsageTracker.
func NewUsageTracker() *DefaultUsageTracker {
	return &DefaultUsageTracker{
		tasks: make(map[Task]TokenUsage),
	}
}

// Add records token usage for a specific task.
func (t *DefaultUsageTracker) Add(task Task, usage TokenUsage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.tasks[task]
	t.tasks[task] = current.Add(usage)
	t.total = t.total.Add(usage)
}

// Total returns the aggregate token usage across all tasks.
func (t *DefaultUsageTracker) Total() TokenUsage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

// ByTask returns the token usage for a specific task.
// Returns an empty TokenUsage if the task has not been used.
func (t *DefaultUsageTracker) ByTask(task Task) TokenUsage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tasks[task]
}

// Reset clears all tracked token usage.
func (t *DefaultUsageTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tasks = make(map[Task]TokenUsage)
	t.total = TokenUsage{}
}

// Tasks returns a list of all tracked tasks.
func (t *DefaultUsageTracker) Tasks() []Task {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tasks := make([]Task, 0, len(t.tasks))
	for task := range t.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// Snapshot is a read-only copy of the current token usage state.
type Snapshot struct {
	// Tasks contains token usage by task.
	Tasks map[Task]TokenUsage

	// Total contains aggregate token usage.
	Total TokenUsage
}

// Snapshot returns a snapshot of the current token usage state.
func (t *DefaultUsageTracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tasks := make(map[Task]TokenUsage, len(t.tasks))
	for task, usage := range t.tasks {
		tasks[task] = usage
	}

	return Snapshot{
		Tasks: tasks,
		Total: t.total,
	}
}
