package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/muesli/termenv"
)

// highlightColors is assigned to palette tags in declaration order.
var highlightColors = []string{"#9ca3af", "#38bdf8", "#f472b6", "#a78bfa", "#34d399", "#fbbf24"}

// Presenter prints snapshots as one coloured line per transition.
type Presenter struct {
	out     io.Writer
	profile termenv.Profile
	colors  map[domain.Highlight]string
	total   int
}

// NewPresenter creates a presenter for m. Use termenv.Ascii to disable colour.
func NewPresenter(out io.Writer, profile termenv.Profile, m domain.Module) *Presenter {
	colors := make(map[domain.Highlight]string)
	for i, tag := range m.Highlights.Palette() {
		colors[tag] = highlightColors[i%len(highlightColors)]
	}
	return &Presenter{
		out:     out,
		profile: profile,
		colors:  colors,
		total:   m.Timeline.Len(),
	}
}

// Format renders a snapshot without writing it.
func (p *Presenter) Format(s domain.Snapshot) string {
	var sb strings.Builder

	if s.IsIdle() {
		sb.WriteString(fmt.Sprintf("[ -/%d] %-28s", p.total, "(idle)"))
	} else {
		sb.WriteString(fmt.Sprintf("[%2d/%d] %-28s", s.Index+1, p.total, s.Label))
	}

	tag := p.profile.String(fmt.Sprintf("%-8s", s.Highlight))
	if c, ok := p.colors[s.Highlight]; ok {
		tag = tag.Foreground(p.profile.Color(c))
	}
	sb.WriteString(" ")
	sb.WriteString(tag.Bold().String())

	sb.WriteString(fmt.Sprintf(" %-7s", s.Mode))
	if len(s.Items) > 0 {
		sb.WriteString(" ")
		sb.WriteString(p.profile.String(strings.Join(s.Values(), " | ")).Faint().String())
	}
	return sb.String()
}

// Present writes one snapshot line.
func (p *Presenter) Present(s domain.Snapshot) {
	fmt.Fprintln(p.out, p.Format(s))
}

// Hooks returns lifecycle hooks that present every snapshot change.
func (p *Presenter) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChange: p.Present,
	}
}
