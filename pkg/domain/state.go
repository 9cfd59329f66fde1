package domain

// Mode is the playback controller state.
type Mode string

const (
	ModeIdle    Mode = "idle"    // No session activity, or autoplay finished
	ModePlaying Mode = "playing" // Timer-driven traversal in progress
	ModeManual  Mode = "manual"  // Learner is clicking through steps
)

// Snapshot is the read-only render model of a mounted module.
type Snapshot struct {
	Module      string    `json:"module"`
	Index       int       `json:"index"`
	Label       string    `json:"label,omitempty"`
	Mode        Mode      `json:"mode"`
	AutoPlaying bool      `json:"auto_playing"`
	Session     uint64    `json:"session"`
	Highlight   Highlight `json:"highlight"`
	Items       []Item    `json:"items"`
}

// IsIdle reports whether no step is active.
func (s Snapshot) IsIdle() bool { return s.Index == IdleIndex }

// Values returns the item values in order.
func (s Snapshot) Values() []string {
	out := make([]string, len(s.Items))
	for i, it := range s.Items {
		out[i] = it.Value
	}
	return out
}
