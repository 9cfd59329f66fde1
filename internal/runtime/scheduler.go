package runtime

import (
	"time"

	"github.com/aretw0/walkthrough/pkg/ports"
)

// SystemScheduler arms callbacks on the wall clock.
type SystemScheduler struct{}

// AfterFunc implements ports.Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

// ScaledScheduler stretches or compresses every delay by Factor.
// Factor 2 plays twice as fast; values <= 0 are treated as 1.
type ScaledScheduler struct {
	Inner  ports.Scheduler
	Factor float64
}

// AfterFunc implements ports.Scheduler.
func (s ScaledScheduler) AfterFunc(d time.Duration, f func()) ports.Timer {
	inner := s.Inner
	if inner == nil {
		inner = SystemScheduler{}
	}
	if s.Factor > 0 {
		d = time.Duration(float64(d) / s.Factor)
	}
	return inner.AfterFunc(d, f)
}
