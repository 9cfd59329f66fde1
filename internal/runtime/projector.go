package runtime

import "github.com/aretw0/walkthrough/pkg/domain"

// Projector derives the highlight state from the current index.
// It holds no mutable state, so equal inputs always give equal outputs.
type Projector struct {
	table domain.HighlightTable
}

// NewProjector wraps a validated highlight table.
func NewProjector(table domain.HighlightTable) Projector {
	return Projector{table: table}
}

// Project returns the tag for index, or the idle tag for IdleIndex and out-of-range values.
func (p Projector) Project(index int) domain.Highlight {
	return p.table.Tag(index)
}
