package domain

import (
	"errors"
	"fmt"
	"time"
)

// Module is the complete configuration of one walkthrough instantiation.
type Module struct {
	ID          string
	Title       string
	Description string

	Timeline   Timeline
	Highlights HighlightTable

	// Interval is the spacing between autoplay ticks.
	Interval time.Duration
	// Cooldown, when positive, resets the module that long after autoplay completes.
	Cooldown time.Duration

	// InitialItems is the demo data a session starts from.
	InitialItems []Item
}

// Validate checks the cross-field invariants of the module.
func (m Module) Validate() error {
	if m.ID == "" {
		return errors.New("module id is required")
	}
	if m.Timeline.Len() == 0 {
		return fmt.Errorf("module %s: %w", m.ID, ErrEmptyTimeline)
	}
	if m.Interval <= 0 {
		return fmt.Errorf("module %s: %w: interval must be positive, got %s", m.ID, ErrInvalidInterval, m.Interval)
	}
	if m.Cooldown < 0 {
		return fmt.Errorf("module %s: %w: cooldown must not be negative, got %s", m.ID, ErrInvalidInterval, m.Cooldown)
	}
	if m.Highlights.Len() != m.Timeline.Len() {
		return fmt.Errorf("module %s: %w: %d tags for %d steps", m.ID, ErrHighlightIncomplete, m.Highlights.Len(), m.Timeline.Len())
	}
	return nil
}

// InitialSnapshot returns a deep copy of the seed items.
func (m Module) InitialSnapshot() []Item {
	out := make([]Item, len(m.InitialItems))
	for i, it := range m.InitialItems {
		out[i] = it.Clone()
	}
	return out
}
