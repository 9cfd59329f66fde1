package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/walkthrough/internal/presentation/tui"
)

// OpKind is a scripted manual operation.
type OpKind string

const (
	OpNext  OpKind = "next"
	OpPrev  OpKind = "prev"
	OpGoTo  OpKind = "goto"
	OpReset OpKind = "reset"
)

// Op is one parsed step of a script such as "next next goto:3 reset".
type Op struct {
	Kind  OpKind
	Index int
}

func (o Op) String() string {
	if o.Kind == OpGoTo {
		return fmt.Sprintf("goto:%d", o.Index)
	}
	return string(o.Kind)
}

// ParseOps parses the step command arguments.
func ParseOps(args []string) ([]Op, error) {
	ops := make([]Op, 0, len(args))
	for _, arg := range args {
		name, value, hasValue := strings.Cut(strings.ToLower(strings.TrimSpace(arg)), ":")
		switch OpKind(name) {
		case OpNext, OpPrev, OpReset:
			if hasValue {
				return nil, fmt.Errorf("operation %q takes no argument", name)
			}
			ops = append(ops, Op{Kind: OpKind(name)})
		case OpGoTo:
			i, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid goto index %q: %w", value, err)
			}
			ops = append(ops, Op{Kind: OpGoTo, Index: i})
		default:
			return nil, fmt.Errorf("unknown operation %q (want next, prev, goto:N or reset)", arg)
		}
	}
	return ops, nil
}

// RunSteps applies ops one by one and prints the snapshot after each.
func RunSteps(out io.Writer, opts Options, ops []Op) error {
	player, err := createPlayer(opts)
	if err != nil {
		return err
	}
	defer player.Reset()

	presenter := tui.NewPresenter(out, colorProfile(out), player.Module())
	presenter.Present(player.Snapshot())

	for _, op := range ops {
		var accepted bool
		switch op.Kind {
		case OpNext:
			accepted = player.Next()
		case OpPrev:
			accepted = player.Prev()
		case OpGoTo:
			accepted = player.GoTo(op.Index)
		case OpReset:
			accepted = player.Reset()
		}

		mark := "ok"
		if !accepted {
			mark = "ignored"
		}
		fmt.Fprintf(out, "%-9s %-7s ", op, mark)
		presenter.Present(player.Snapshot())
	}
	return nil
}
