package ui

import (
	"errors"
	"sync"
)

// Task is a unit of work executed on the UI loop
type Task func()

var (
	ErrQueueFull = errors.New("ui: task queue full")
	ErrClosed    = errors.New("ui: loop closed")
)

// Scheduler posts tasks to the UI execution context.
// Post must not block and must not run the task on the caller's goroutine.
type Scheduler interface {
	Post(task Task) error
}

// ManualScheduler queues tasks until Drain is called.
// Tests use it to decide exactly when UI work happens.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []Task

	// Reject, when set, is returned by Post instead of queueing
	Reject error
}

// NewManualScheduler creates an empty manual scheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Post queues a task
func (s *ManualScheduler) Post(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Reject != nil {
		return s.Reject
	}
	if task != nil {
		s.queue = append(s.queue, task)
	}
	return nil
}

// Drain runs queued tasks in FIFO order on the calling goroutine, including
// tasks posted while draining, and returns how many ran.
func (s *ManualScheduler) Drain() int {
	ran := 0
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return ran
		}
		task := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		task()
		ran++
	}
}

// Len returns the number of queued tasks
func (s *ManualScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
