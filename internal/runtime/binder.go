package runtime

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/walkthrough/pkg/demo"
	"github.com/aretw0/walkthrough/pkg/domain"
)

// EffectBinder maps step-entry events to demo data mutations.
// Each tagged step fires at most once between two calls to Reset.
// It is not safe for concurrent use; the Controller serializes access.
type EffectBinder struct {
	module  string
	store   *demo.Store
	applied map[int]struct{}
	logger  *slog.Logger
}

// NewEffectBinder creates a binder writing into store.
func NewEffectBinder(module string, store *demo.Store, logger *slog.Logger) *EffectBinder {
	return &EffectBinder{
		module:  module,
		store:   store,
		applied: make(map[int]struct{}),
		logger:  logger,
	}
}

// Enter is called for the destination of every transition.
// It returns true if the step's effect ran now, and any error a custom effect reported.
// A failing effect still counts as applied.
func (b *EffectBinder) Enter(step domain.Step, session uint64) (fired bool, err error) {
	if step.Effect.IsZero() {
		return false, nil
	}
	if _, done := b.applied[step.Index]; done {
		return false, nil
	}
	b.applied[step.Index] = struct{}{}

	switch step.Effect.Kind {
	case domain.EffectAppend:
		b.store.Append(step.Effect.Item)
	case domain.EffectCustom:
		err = b.runCustom(step, session)
		if err != nil {
			b.logger.Warn("custom effect failed",
				"module", b.module,
				"step", step.Index,
				"effect", step.Effect.Name,
				"err", err,
			)
		}
	}
	return true, err
}

func (b *EffectBinder) runCustom(step domain.Step, session uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("effect %s panicked: %v", step.Effect.Name, r)
		}
	}()
	return step.Effect.Func(domain.EffectContext{
		Module:  b.module,
		Step:    step,
		Session: session,
		Data:    b.store,
	})
}

// Applied reports whether the effect of step i already ran this session.
func (b *EffectBinder) Applied(i int) bool {
	_, ok := b.applied[i]
	return ok
}

// Reset forgets every applied mark, starting a new session.
func (b *EffectBinder) Reset() {
	clear(b.applied)
}
