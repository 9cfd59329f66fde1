/*
Package domain contains the core models of the walkthrough engine.

It defines the immutable description of a guided module (steps, effects and the
highlight lookup table) and the read-only values the engine hands back to views
(snapshots, diffs and lifecycle events). The package is kept free of I/O, timers
and persistence so that every other layer can depend on it.

# Key Entities

  - Step: one discrete stop of a walkthrough, with a label and an optional effect.
  - Timeline: the ordered, contiguous sequence of steps for one module.
  - HighlightTable: the closed palette plus the index to tag lookup table.
  - Module: the full per-instantiation configuration (timeline, highlights, timing, seed data).
  - Snapshot: what a view reads on every render cycle.
*/
package domain
