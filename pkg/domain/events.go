package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter        EventType = "step_enter"
	EventEffectApplied    EventType = "effect_applied"
	EventRejected         EventType = "rejected"
	EventPlaybackStart    EventType = "playback_start"
	EventPlaybackComplete EventType = "playback_complete"
	EventReset            EventType = "reset"
)

// Cause tells how a step was reached.
type Cause string

const (
	CauseTimer  Cause = "timer"
	CauseManual Cause = "manual"
)

// RejectReason explains why an operation was a no-op.
type RejectReason string

const (
	ReasonAlreadyPlaying RejectReason = "already_playing"
	ReasonAutoplayActive RejectReason = "autoplay_active"
	ReasonOutOfRange     RejectReason = "out_of_range"
	ReasonBoundary       RejectReason = "boundary"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Module    string    `json:"module"`
	Session   uint64    `json:"session"`
}

// StepEvent is emitted whenever the current index changes.
type StepEvent struct {
	EventBase
	From      int       `json:"from"`
	To        int       `json:"to"`
	Label     string    `json:"label"`
	Cause     Cause     `json:"cause"`
	Highlight Highlight `json:"highlight"`
}

// EffectEvent is emitted the first time a step's effect runs in a session.
type EffectEvent struct {
	EventBase
	Step   int    `json:"step"`
	Effect string `json:"effect"`
	Err    error  `json:"-"`
}

// RejectEvent is emitted when an operation is ignored.
type RejectEvent struct {
	EventBase
	Op     string       `json:"op"`
	Index  int          `json:"index,omitempty"`
	Reason RejectReason `json:"reason"`
}

// PlaybackEvent marks autoplay start, completion and resets.
type PlaybackEvent struct {
	EventBase
	Index int  `json:"index"`
	Auto  bool `json:"auto,omitempty"` // reset triggered by the post-completion cooldown
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run after the controller has released its lock and may read its state.
type LifecycleHooks struct {
	OnStepEnter        func(*StepEvent)
	OnEffectApplied    func(*EffectEvent)
	OnRejected         func(*RejectEvent)
	OnPlaybackStart    func(*PlaybackEvent)
	OnPlaybackComplete func(*PlaybackEvent)
	OnReset            func(*PlaybackEvent)
	OnChange           func(Snapshot)
}

// MergeHooks returns hooks that fan out to every non-nil callback, in order.
func MergeHooks(all ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range all {
		out.OnStepEnter = chain(out.OnStepEnter, h.OnStepEnter)
		out.OnEffectApplied = chain(out.OnEffectApplied, h.OnEffectApplied)
		out.OnRejected = chain(out.OnRejected, h.OnRejected)
		out.OnPlaybackStart = chain(out.OnPlaybackStart, h.OnPlaybackStart)
		out.OnPlaybackComplete = chain(out.OnPlaybackComplete, h.OnPlaybackComplete)
		out.OnReset = chain(out.OnReset, h.OnReset)
		out.OnChange = chain(out.OnChange, h.OnChange)
	}
	return out
}

func chain[T any](a, b func(T)) func(T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(v T) {
		a(v)
		b(v)
	}
}
