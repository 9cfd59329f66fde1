package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// TimelineOverlay contains live playback data to visualize on the diagram.
type TimelineOverlay struct {
	Current int   // domain.IdleIndex for none
	Applied []int // steps whose effect already ran this session
}

// GenerateMermaid produces a Mermaid flowchart of a module timeline.
// It applies semantic styling:
// - Plain step: [Rectangle]
// - Append effect: [[Subroutine]]
// - Custom effect: {{Hexagon}}
// Every step also gets a class named after its highlight tag, and the
// overlay styles (applied/current) when provided.
func GenerateMermaid(m domain.Module, overlay *TimelineOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	steps := m.Timeline.Steps()
	for _, step := range steps {
		id := stepID(step.Index)

		opener, closer := "[", "]"
		switch step.Effect.Kind {
		case domain.EffectAppend:
			opener, closer = "[[", "]]"
		case domain.EffectCustom:
			opener, closer = "{{", "}}"
		}

		label := fmt.Sprintf("%d. %s", step.Index, escapeLabel(step.Label))
		if !step.Effect.IsZero() {
			label = fmt.Sprintf("%s <br/> %s", label, escapeLabel(step.Effect.String()))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

		if step.Index > 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", stepID(step.Index-1), id))
		}
	}

	// Highlight classes, one per palette tag in use.
	sb.WriteString("\n    %% Highlights\n")
	for i, tag := range m.Highlights.Palette() {
		sb.WriteString(fmt.Sprintf("    classDef %s %s;\n", highlightClass(tag), paletteStyle(i)))
	}
	for _, step := range steps {
		sb.WriteString(fmt.Sprintf("    class %s %s;\n", stepID(step.Index), highlightClass(m.Highlights.Tag(step.Index))))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef applied stroke:#01579b,stroke-width:2px,stroke-dasharray:4 2,color:#000;\n")
		sb.WriteString("    classDef current stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, i := range overlay.Applied {
			if !seen[i] && m.Timeline.Contains(i) {
				seen[i] = true
				sb.WriteString(fmt.Sprintf("    class %s applied;\n", stepID(i)))
			}
		}
		if m.Timeline.Contains(overlay.Current) {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", stepID(overlay.Current)))
		}
	}

	return sb.String()
}

func stepID(i int) string {
	return fmt.Sprintf("s%d", i)
}

func highlightClass(tag domain.Highlight) string {
	return "hl_" + sanitizeMermaidID(string(tag))
}

var paletteFills = []string{"#eceff1", "#e1f5fe", "#fce4ec", "#ede7f6", "#e8f5e9", "#fff3e0"}

func paletteStyle(i int) string {
	return fmt.Sprintf("fill:%s,color:#000", paletteFills[i%len(paletteFills)])
}

func escapeLabel(s string) string {
	// Escape double quotes for Mermaid labels
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
