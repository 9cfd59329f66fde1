package domain

import "fmt"

// IdleIndex is the index reported when no step is active.
const IdleIndex = -1

// Timeline is the ordered, immutable list of steps of one module.
// Indices are always exactly 0..Len()-1.
type Timeline struct {
	steps []Step
}

// NewTimeline validates steps and returns a timeline owning a private copy.
func NewTimeline(steps ...Step) (Timeline, error) {
	if len(steps) == 0 {
		return Timeline{}, ErrEmptyTimeline
	}
	owned := make([]Step, len(steps))
	for i, s := range steps {
		if s.Index != i {
			return Timeline{}, fmt.Errorf("%w: position %d has index %d", ErrNonContiguousIndex, i, s.Index)
		}
		if err := s.Effect.validate(); err != nil {
			return Timeline{}, fmt.Errorf("step %d: %w", i, err)
		}
		s.Effect.Item = s.Effect.Item.Clone()
		owned[i] = s
	}
	return Timeline{steps: owned}, nil
}

// Len returns the number of steps.
func (t Timeline) Len() int { return len(t.steps) }

// Last returns the index of the final step.
func (t Timeline) Last() int { return len(t.steps) - 1 }

// Contains reports whether i is a valid step index.
func (t Timeline) Contains(i int) bool { return i >= 0 && i < len(t.steps) }

// Step returns the step at index i.
func (t Timeline) Step(i int) (Step, bool) {
	if !t.Contains(i) {
		return Step{}, false
	}
	return t.steps[i].clone(), true
}

// Steps returns a deep copy of all steps.
func (t Timeline) Steps() []Step {
	out := make([]Step, len(t.steps))
	for i, s := range t.steps {
		out[i] = s.clone()
	}
	return out
}
