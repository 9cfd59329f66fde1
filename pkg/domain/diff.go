package domain

import "reflect"

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// Module is always present to identify the target.
	Module string `json:"module"`

	Index       *int       `json:"index,omitempty"`
	Mode        *Mode      `json:"mode,omitempty"`
	AutoPlaying *bool      `json:"auto_playing,omitempty"`
	Session     *uint64    `json:"session,omitempty"`
	Highlight   *Highlight `json:"highlight,omitempty"`

	// Items describes demo data changes. Appends are sent incrementally;
	// anything else (a reset) replaces the whole list.
	Items *ItemsDelta `json:"items,omitempty"`
}

// ItemsDelta represents changes to the demo data list.
type ItemsDelta struct {
	Appended []Item `json:"appended,omitempty"`
	Replaced []Item `json:"replaced,omitempty"`
	Reset    bool   `json:"reset,omitempty"`
}

// Diff calculates the difference between old and new.
// If old is nil, it returns a diff representing the entire new snapshot.
// It returns nil if nothing changed.
func Diff(old *Snapshot, new Snapshot) *SnapshotDiff {
	diff := &SnapshotDiff{Module: new.Module}

	if old == nil || old.Index != new.Index {
		diff.Index = &new.Index
	}
	if old == nil || old.Mode != new.Mode {
		diff.Mode = &new.Mode
	}
	if old == nil || old.AutoPlaying != new.AutoPlaying {
		diff.AutoPlaying = &new.AutoPlaying
	}
	if old == nil || old.Session != new.Session {
		diff.Session = &new.Session
	}
	if old == nil || old.Highlight != new.Highlight {
		diff.Highlight = &new.Highlight
	}
	diff.Items = diffItems(old, new)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffItems(old *Snapshot, new Snapshot) *ItemsDelta {
	if old == nil {
		if len(new.Items) == 0 {
			return nil
		}
		return &ItemsDelta{Appended: new.Items}
	}

	oldLen := len(old.Items)
	if len(new.Items) >= oldLen && sameItems(old.Items, new.Items[:oldLen]) {
		if len(new.Items) == oldLen {
			return nil
		}
		return &ItemsDelta{Appended: new.Items[oldLen:]}
	}

	return &ItemsDelta{Replaced: new.Items, Reset: true}
}

func sameItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Index == nil &&
		d.Mode == nil &&
		d.AutoPlaying == nil &&
		d.Session == nil &&
		d.Highlight == nil &&
		d.Items == nil
}
