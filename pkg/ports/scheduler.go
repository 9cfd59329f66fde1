package ports

import "time"

// Timer is a handle to one pending callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler arms one-shot callbacks. *time.Timer satisfies Timer, so the
// wall-clock implementation is a thin wrapper over time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}
