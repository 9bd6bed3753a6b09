package annotate

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/neighbourann/logger"
	"github.com/yumyai/neighbourann/pkg/model"
)

// TaskStatus represents the lifecycle of one sequence annotation.
type TaskStatus string

const (
	TaskQueued    TaskStatus = "queued"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

type TaskState struct {
	Ordinal     int
	Description string
	Status      TaskStatus
	Genes       int
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskTracker stores task states indexed by ordinal. Safe for concurrent use.
type TaskTracker struct {
	mu    sync.RWMutex
	tasks map[int]*TaskState
}

func NewTaskTracker() *TaskTracker {
	return &TaskTracker{
		tasks: make(map[int]*TaskState),
	}
}

// Queue registers tasks as queued.
func (t *TaskTracker) Queue(tasks ...model.SequenceTask) {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, task := range tasks {
		t.tasks[task.Ordinal] = &TaskState{
			Ordinal:     task.Ordinal,
			Description: model.Description(task.Ordinal),
			Status:      TaskQueued,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
}

func (t *TaskTracker) SetRunning(ordinal int) {
	t.update(ordinal, func(s *TaskState) {
		s.Status = TaskRunning
	})
}

func (t *TaskTracker) Complete(ordinal int, genes int) {
	t.update(ordinal, func(s *TaskState) {
		s.Status = TaskCompleted
		s.Genes = genes
	})
}

func (t *TaskTracker) Fail(ordinal int, err error) {
	t.update(ordinal, func(s *TaskState) {
		s.Status = TaskFailed
		s.Error = err.Error()
	})
}

// Get returns a copy of the task state.
func (t *TaskTracker) Get(ordinal int) (TaskState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.tasks[ordinal]
	if !ok {
		return TaskState{}, false
	}
	return *s, true
}

func (t *TaskTracker) Counts() map[TaskStatus]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	counts := make(map[TaskStatus]int, 4)
	for _, s := range t.tasks {
		counts[s.Status]++
	}
	return counts
}

func (t *TaskTracker) update(ordinal int, update func(s *TaskState)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.tasks[ordinal]
	if !ok {
		return
	}

	update(s)
	s.UpdatedAt = time.Now()
	logger.Debug("Task state", zap.Int("ordinal", ordinal), zap.String("status", string(s.Status)))
}
