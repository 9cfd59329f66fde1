package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/domain"
)

// streamEvent is one snapshot pushed to SSE subscribers together with what
// changed since the previous one.
type streamEvent struct {
	Snapshot []byte
	Diff     *domain.SnapshotDiff
}

// StreamManager handles active SSE connections, keyed by mount id.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan streamEvent]struct{}
	last        map[string]domain.Snapshot
	closed      map[string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager. A nil logger discards output.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan streamEvent]struct{}),
		last:        make(map[string]domain.Snapshot),
		closed:      make(map[string]struct{}),
		logger:      logger,
	}
}

// Hooks returns an OnChange hook that broadcasts every snapshot of mountID.
// Its signature matches session.HooksFactory.
func (sm *StreamManager) Hooks(mountID string, _ domain.Module) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChange: func(s domain.Snapshot) {
			sm.Publish(mountID, s)
		},
	}
}

// Subscribe registers a listener for mountID. The returned func unsubscribes.
// A closed mount yields an already closed channel.
func (sm *StreamManager) Subscribe(mountID string) (<-chan streamEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan streamEvent, 16)
	if _, gone := sm.closed[mountID]; gone {
		close(ch)
		return ch, func() {}
	}
	if _, ok := sm.subscribers[mountID]; !ok {
		sm.subscribers[mountID] = make(map[chan streamEvent]struct{})
	}
	sm.subscribers[mountID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[mountID]; ok {
			if _, live := subs[ch]; !live {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, mountID)
			}
		}
	}
}

// Publish diffs s against the previous snapshot of the mount and broadcasts it.
func (sm *StreamManager) Publish(mountID string, s domain.Snapshot) {
	payload, err := json.Marshal(s)
	if err != nil {
		sm.logger.Error("SSE: failed to encode snapshot", "mount_id", mountID, "err", err)
		return
	}

	sm.mu.Lock()
	// Unmount resets the player after the stream is closed; that last
	// OnChange must not bring the mount back.
	if _, gone := sm.closed[mountID]; gone {
		sm.mu.Unlock()
		return
	}
	var prev *domain.Snapshot
	if old, ok := sm.last[mountID]; ok {
		prev = &old
	}
	sm.last[mountID] = s
	diff := domain.Diff(prev, s)
	if diff == nil {
		sm.mu.Unlock()
		return
	}

	ev := streamEvent{Snapshot: payload, Diff: diff}
	for ch := range sm.subscribers[mountID] {
		select {
		case ch <- ev:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: client buffer full, dropping event", "mount_id", mountID)
		}
	}
	sm.mu.Unlock()
}

// Close disconnects every subscriber of mountID and forgets its history.
// Later publishes for mountID are ignored; mount ids are never reused.
func (sm *StreamManager) Close(mountID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for ch := range sm.subscribers[mountID] {
		close(ch)
	}
	delete(sm.subscribers, mountID)
	delete(sm.last, mountID)
	sm.closed[mountID] = struct{}{}
}

// Subscribers returns the number of listeners of mountID.
func (sm *StreamManager) Subscribers(mountID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[mountID])
}

// matches reports whether a diff touches any of the watched fields.
// An empty watch list matches everything.
func matches(diff *domain.SnapshotDiff, watch []string) bool {
	if len(watch) == 0 || diff == nil {
		return true
	}
	for _, field := range watch {
		switch field {
		case "index":
			if diff.Index != nil {
				return true
			}
		case "mode":
			if diff.Mode != nil || diff.AutoPlaying != nil {
				return true
			}
		case "session":
			if diff.Session != nil {
				return true
			}
		case "highlight":
			if diff.Highlight != nil {
				return true
			}
		case "items":
			if diff.Items != nil {
				return true
			}
		}
	}
	return false
}
