package view

import "sync"

// Scheduler is an explicit FIFO event queue standing in for the host's
// cooperative main loop. Deferred work (stray-view disposal, async query
// results) is posted here and runs only when the host, or a test, steps
// the queue; nothing runs re-entrantly inside the call that posted it.
type Scheduler struct {
	mu    sync.Mutex
	queue []func()
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Post appends fn to the queue.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, fn)
}

// Step runs the oldest pending event. It reports false when the queue is
// idle.
func (s *Scheduler) Step() bool {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return false
	}
	fn := s.queue[0]
	s.queue = s.queue[1:]
	s.mu.Unlock()
	fn()
	return true
}

// Drain steps until the queue is idle, including events posted while
// draining, and returns how many events ran.
func (s *Scheduler) Drain() int {
	ran := 0
	for s.Step() {
		ran++
	}
	return ran
}

// Len returns the number of pending events.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
