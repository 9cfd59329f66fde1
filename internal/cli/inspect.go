package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/presentation/graph"
	"github.com/aretw0/walkthrough/internal/presentation/tui"
	"github.com/aretw0/walkthrough/pkg/adapters/file"
)

// InspectFormat selects the inspect output.
type InspectFormat string

const (
	FormatMarkdown InspectFormat = "markdown"
	FormatMermaid  InspectFormat = "mermaid"
)

// RunInspect prints the overview of a module. Markdown goes through glamour
// when out is a terminal.
func RunInspect(out io.Writer, dir, id string, format InspectFormat) error {
	loader := file.New(dir)
	id, err := resolveModuleID(loader, id)
	if err != nil {
		return err
	}
	m, err := walkthrough.Load(loader, id, nil)
	if err != nil {
		return err
	}

	switch format {
	case FormatMermaid:
		_, err = fmt.Fprint(out, graph.GenerateMermaid(m, nil))
		return err
	case FormatMarkdown, "":
		render := tui.PlainRenderer
		if IsTerminal(out) {
			render = tui.NewRenderer()
		}
		text, err := render(tui.Overview(m))
		if err != nil {
			return fmt.Errorf("failed to render overview: %w", err)
		}
		_, err = fmt.Fprint(out, text)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
