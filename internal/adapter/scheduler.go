package adapter

import (
	"sync"

	"github.com/atomloop/sweep/internal/model"
)

// Scheduler is the external pause/termination authority a scan cooperates
// with. CheckPause is a cheap poll; Pause blocks until the scan may resume,
// or returns model.ErrTerminationRequested if the run should shut down.
type Scheduler interface {
	CheckPause() bool
	Pause() error
}

// NeverPause is a Scheduler that never interrupts the scan.
type NeverPause struct{}

func (NeverPause) CheckPause() bool { return false }
func (NeverPause) Pause() error     { return nil }

// ManualScheduler is a Scheduler driven from outside the scan, e.g. by UI
// keypresses. Safe for use from a goroutine other than the scanning one.
type ManualScheduler struct {
	mu         sync.Mutex
	cond       *sync.Cond
	paused     bool
	terminated bool
}

// NewManualScheduler creates a scheduler in the running state.
func NewManualScheduler() *ManualScheduler {
	s := &ManualScheduler{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// RequestPause makes the scan stop at the next check point.
func (s *ManualScheduler) RequestPause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume lets a paused scan continue.
func (s *ManualScheduler) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.cond.Broadcast()
}

// RequestTermination makes the scan shut down at the next check point, or
// immediately if it is currently paused.
func (s *ManualScheduler) RequestTermination() {
	s.mu.Lock()
	s.terminated = true
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *ManualScheduler) CheckPause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused || s.terminated
}

func (s *ManualScheduler) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.paused && !s.terminated {
		s.cond.Wait()
	}
	if s.terminated {
		return model.ErrTerminationRequested
	}
	return nil
}
