package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Overview builds the markdown summary printed by inspect.
func Overview(m domain.Module) string {
	var sb strings.Builder

	title := m.Title
	if title == "" {
		title = m.ID
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if m.Description != "" {
		sb.WriteString(strings.TrimSpace(m.Description))
		sb.WriteString("\n\n")
	}

	sb.WriteString(fmt.Sprintf("- **id**: `%s`\n", m.ID))
	sb.WriteString(fmt.Sprintf("- **interval**: %s\n", m.Interval))
	cooldown := "disabled"
	if m.Cooldown > 0 {
		cooldown = m.Cooldown.String()
	}
	sb.WriteString(fmt.Sprintf("- **cooldown**: %s\n", cooldown))
	sb.WriteString(fmt.Sprintf("- **autoplay length**: %s\n", playLength(m)))
	sb.WriteString(fmt.Sprintf("- **palette**: %s (idle `%s`)\n", joinTags(m.Highlights.Palette()), m.Highlights.Idle()))
	if len(m.InitialItems) > 0 {
		values := make([]string, len(m.InitialItems))
		for i, it := range m.InitialItems {
			values[i] = it.Value
		}
		sb.WriteString(fmt.Sprintf("- **initial items**: %s\n", strings.Join(values, ", ")))
	}

	sb.WriteString("\n| # | Step | Highlight | Effect |\n|---|------|-----------|--------|\n")
	for _, s := range m.Timeline.Steps() {
		effect := "-"
		if !s.Effect.IsZero() {
			effect = "`" + s.Effect.String() + "`"
		}
		label := strings.ReplaceAll(s.Label, "|", `\|`)
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", s.Index, label, m.Highlights.Tag(s.Index), effect))
	}
	return sb.String()
}

// playLength is the time from play() to the last transition.
func playLength(m domain.Module) time.Duration {
	return time.Duration(m.Timeline.Len()-1) * m.Interval
}

func joinTags(tags []domain.Highlight) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "`" + string(t) + "`"
	}
	return strings.Join(out, ", ")
}
