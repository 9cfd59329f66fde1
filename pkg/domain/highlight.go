package domain

import (
	"fmt"
	"slices"
)

// Highlight is the visual classification of which side of a diagram is active.
type Highlight string

// Default palette used when a module does not declare its own.
const (
	HighlightNone  Highlight = "none"
	HighlightSideA Highlight = "sideA"
	HighlightSideB Highlight = "sideB"
	HighlightBoth  Highlight = "both"
)

// DefaultPalette returns the none/sideA/sideB/both palette.
func DefaultPalette() []Highlight {
	return []Highlight{HighlightNone, HighlightSideA, HighlightSideB, HighlightBoth}
}

// HighlightTable is the static index -> tag lookup of one module.
type HighlightTable struct {
	palette []Highlight
	idle    Highlight
	tags    []Highlight
}

// NewHighlightTable builds a table for a timeline of n steps.
// Every tag, including idle, must belong to palette; len(tags) must equal n.
func NewHighlightTable(palette []Highlight, idle Highlight, tags []Highlight, n int) (HighlightTable, error) {
	if len(palette) == 0 {
		palette = DefaultPalette()
	}
	if idle == "" {
		idle = palette[0]
	}
	if !slices.Contains(palette, idle) {
		return HighlightTable{}, fmt.Errorf("%w: idle %q", ErrUnknownHighlight, idle)
	}
	if len(tags) != n {
		return HighlightTable{}, fmt.Errorf("%w: %d tags for %d steps", ErrHighlightIncomplete, len(tags), n)
	}
	for i, tag := range tags {
		if !slices.Contains(palette, tag) {
			return HighlightTable{}, fmt.Errorf("%w: step %d uses %q", ErrUnknownHighlight, i, tag)
		}
	}
	return HighlightTable{
		palette: slices.Clone(palette),
		idle:    idle,
		tags:    slices.Clone(tags),
	}, nil
}

// UniformHighlights returns a table where every step uses the idle tag.
func UniformHighlights(n int) HighlightTable {
	tags := make([]Highlight, n)
	for i := range tags {
		tags[i] = HighlightNone
	}
	return HighlightTable{palette: DefaultPalette(), idle: HighlightNone, tags: tags}
}

// Palette returns the closed set of tags.
func (h HighlightTable) Palette() []Highlight { return slices.Clone(h.palette) }

// Idle returns the tag projected when no step is active.
func (h HighlightTable) Idle() Highlight { return h.idle }

// Len returns the number of step entries.
func (h HighlightTable) Len() int { return len(h.tags) }

// Tag returns the tag for index i, or the idle tag when i is not a step.
func (h HighlightTable) Tag(i int) Highlight {
	if i < 0 || i >= len(h.tags) {
		return h.idle
	}
	return h.tags[i]
}
