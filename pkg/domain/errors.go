package domain

import "errors"

// ErrEmptyTimeline is returned when a module declares no steps.
var ErrEmptyTimeline = errors.New("timeline has no steps")

// ErrNonContiguousIndex is returned when step indices are not exactly 0..N-1.
var ErrNonContiguousIndex = errors.New("step indices are not contiguous")

// ErrInvalidInterval is returned when the autoplay interval or cooldown is not usable.
var ErrInvalidInterval = errors.New("invalid interval")

// ErrHighlightIncomplete is returned when the highlight table does not cover every step.
var ErrHighlightIncomplete = errors.New("highlight table does not cover every step")

// ErrUnknownHighlight is returned when a highlight tag is outside the declared palette.
var ErrUnknownHighlight = errors.New("highlight tag not in palette")

// ErrUnknownEffect is returned when an effect cannot be resolved.
var ErrUnknownEffect = errors.New("unknown effect")

// ErrModuleNotFound is returned when a loader has no definition for an ID.
var ErrModuleNotFound = errors.New("module not found")

// ErrMountNotFound is returned when a mount ID is not active.
var ErrMountNotFound = errors.New("mount not found")
