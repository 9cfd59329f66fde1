package testutils

import (
	"sort"
	"sync"
	"time"

	"github.com/aretw0/walkthrough/pkg/ports"
)

// ManualScheduler is a ports.Scheduler driven by virtual time.
// Callbacks only run inside Advance, on the caller's goroutine, in due order.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
	armed  int
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements ports.Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) ports.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.armed++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Stop implements ports.Timer.
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.s.removeLocked(t)
	return true
}

func (s *ManualScheduler) removeLocked(t *manualTimer) {
	for i, candidate := range s.timers {
		if candidate == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Advance moves virtual time forward by d, firing every callback that becomes due.
// Callbacks armed while advancing fire too if they fall inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	for {
		next := s.nextDueLocked(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		s.removeLocked(next)

		s.mu.Unlock()
		next.f()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

func (s *ManualScheduler) nextDueLocked(limit time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if t.at <= limit {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	return due[0]
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of armed, unfired, unstopped callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Armed returns how many callbacks were ever scheduled.
func (s *ManualScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Callbacks returns the functions of pending timers without firing or removing them.
// Tests use it to simulate a tick that was already in flight when its timer was stopped.
func (s *ManualScheduler) Callbacks() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]func(), len(s.timers))
	for i, t := range s.timers {
		out[i] = t.f
	}
	return out
}
