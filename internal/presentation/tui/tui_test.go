package tui_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/walkthrough/internal/presentation/tui"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/dsl"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pollingModule(t *testing.T) domain.Module {
	t.Helper()
	m, err := dsl.New("polling").
		Title("Short polling").
		Description("The client keeps asking.").
		Interval(1500 * time.Millisecond).
		Cooldown(3 * time.Second).
		Palette("none", "client", "server").
		Seed("Welcome").
		Step("Client asks").Highlight("client").
		Step("Server | answers").Highlight("server").Append("X").
		Build()
	require.NoError(t, err)
	return m
}

func TestPresenter_Format(t *testing.T) {
	m := pollingModule(t)
	var buf bytes.Buffer
	p := tui.NewPresenter(&buf, termenv.Ascii, m)

	p.Present(domain.Snapshot{Module: "polling", Index: domain.IdleIndex, Mode: domain.ModeIdle, Highlight: "none"})
	p.Present(domain.Snapshot{
		Module:    "polling",
		Index:     1,
		Label:     "Server answers",
		Mode:      domain.ModeManual,
		Highlight: "server",
		Items:     []domain.Item{{Value: "Welcome"}, {Value: "X"}},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[ -/2]")
	assert.Contains(t, lines[0], "(idle)")
	assert.Contains(t, lines[1], "[ 2/2] Server answers")
	assert.Contains(t, lines[1], "server")
	assert.Contains(t, lines[1], "manual")
	assert.Contains(t, lines[1], "Welcome | X")
	assert.NotContains(t, buf.String(), "\x1b[", "ascii profile must not emit escapes")
}

func TestPresenter_Hooks(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewPresenter(&buf, termenv.Ascii, pollingModule(t))
	p.Hooks().OnChange(domain.Snapshot{Index: 0, Label: "Client asks", Highlight: "client", Mode: domain.ModePlaying})
	assert.Contains(t, buf.String(), "Client asks")
}

func TestOverview(t *testing.T) {
	md := tui.Overview(pollingModule(t))

	assert.True(t, strings.HasPrefix(md, "# Short polling\n"))
	assert.Contains(t, md, "The client keeps asking.")
	assert.Contains(t, md, "- **interval**: 1.5s")
	assert.Contains(t, md, "- **cooldown**: 3s")
	assert.Contains(t, md, "- **autoplay length**: 1.5s")
	assert.Contains(t, md, "`none`, `client`, `server` (idle `none`)")
	assert.Contains(t, md, "- **initial items**: Welcome")
	assert.Contains(t, md, "| 0 | Client asks | client | - |")
	assert.Contains(t, md, "| 1 | Server \\| answers | server | `append(\"X\")` |")
}

func TestPlainRenderer(t *testing.T) {
	out, err := tui.PlainRenderer("# hi")
	require.NoError(t, err)
	assert.Equal(t, "# hi", out)
}
