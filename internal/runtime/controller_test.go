package runtime_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/walkthrough/internal/runtime"
	"github.com/aretw0/walkthrough/internal/testutils"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fiveSteps builds the canonical scenario: 5 steps, step 3 appends "X".
func fiveSteps(t *testing.T, cooldown time.Duration, initial ...domain.Item) domain.Module {
	t.Helper()

	steps := make([]domain.Step, 5)
	for i := range steps {
		steps[i] = domain.Step{Index: i, Label: fmt.Sprintf("step %d", i)}
	}
	steps[3].Effect = domain.AppendValue("X")

	tl, err := domain.NewTimeline(steps...)
	require.NoError(t, err)

	hl, err := domain.NewHighlightTable(nil, domain.HighlightNone, []domain.Highlight{
		domain.HighlightSideA,
		domain.HighlightSideB,
		domain.HighlightSideA,
		domain.HighlightBoth,
		domain.HighlightNone,
	}, 5)
	require.NoError(t, err)

	return domain.Module{
		ID:           "demo",
		Timeline:     tl,
		Highlights:   hl,
		Interval:     time.Second,
		Cooldown:     cooldown,
		InitialItems: initial,
	}
}

type recorder struct {
	mu       sync.Mutex
	steps    []domain.StepEvent
	at       []time.Duration
	effects  []domain.EffectEvent
	rejects  []domain.RejectEvent
	resets   []domain.PlaybackEvent
	complete int
	changes  int
}

func (r *recorder) hooks(sched *testutils.ManualScheduler) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(e *domain.StepEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.steps = append(r.steps, *e)
			if sched != nil {
				r.at = append(r.at, sched.Now())
			}
		},
		OnEffectApplied: func(e *domain.EffectEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.effects = append(r.effects, *e)
		},
		OnRejected: func(e *domain.RejectEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.rejects = append(r.rejects, *e)
		},
		OnReset: func(e *domain.PlaybackEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.resets = append(r.resets, *e)
		},
		OnPlaybackComplete: func(e *domain.PlaybackEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.complete++
		},
		OnChange: func(domain.Snapshot) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.changes++
		},
	}
}

func setup(t *testing.T, m domain.Module) (*runtime.Controller, *testutils.ManualScheduler, *recorder) {
	t.Helper()
	sched := testutils.NewManualScheduler()
	rec := &recorder{}
	c, err := runtime.NewController(m,
		runtime.WithScheduler(sched),
		runtime.WithLifecycleHooks(rec.hooks(sched)),
	)
	require.NoError(t, err)
	return c, sched, rec
}

func values(c *runtime.Controller) []string {
	return c.Snapshot().Values()
}

func TestController_InitialState(t *testing.T) {
	c, sched, _ := setup(t, fiveSteps(t, 0, domain.Item{Value: "seed"}))

	snap := c.Snapshot()
	assert.Equal(t, domain.IdleIndex, snap.Index)
	assert.Equal(t, domain.ModeIdle, snap.Mode)
	assert.False(t, snap.AutoPlaying)
	assert.Equal(t, domain.HighlightNone, snap.Highlight)
	assert.Equal(t, []string{"seed"}, snap.Values())
	assert.Equal(t, uint64(1), snap.Session)
	assert.Zero(t, sched.Pending())
}

func TestController_PlayTraversesTimeline(t *testing.T) {
	c, sched, rec := setup(t, fiveSteps(t, 0))

	require.True(t, c.Play())
	assert.Equal(t, 0, c.Index())
	assert.True(t, c.AutoPlaying())
	assert.Equal(t, domain.ModePlaying, c.Mode())
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(4 * time.Second)

	require.Len(t, rec.steps, 5, "an N-step timeline yields exactly N transitions")
	assert.Equal(t, []time.Duration{0, time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second}, rec.at)
	for i, ev := range rec.steps {
		assert.Equal(t, i, ev.To)
		assert.Equal(t, domain.CauseTimer, ev.Cause)
	}

	assert.Equal(t, 4, c.Index())
	assert.False(t, c.AutoPlaying())
	assert.Equal(t, domain.ModeIdle, c.Mode())
	assert.Equal(t, []string{"X"}, values(c))
	assert.Equal(t, 1, rec.complete)
	assert.Zero(t, sched.Pending(), "timer must be cancelled on completion")

	// Nothing else happens afterwards
	sched.Advance(time.Minute)
	assert.Len(t, rec.steps, 5)
}

func TestController_PlayTwiceCreatesOneTimer(t *testing.T) {
	c, sched, rec := setup(t, fiveSteps(t, 0))

	require.True(t, c.Play())
	assert.False(t, c.Play(), "second play while playing is a no-op")
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(10 * time.Second)

	assert.Len(t, rec.steps, 5, "N transitions, not 2N")
	assert.Equal(t, 4, sched.Armed(), "one tick per remaining step")
	require.Len(t, rec.rejects, 1)
	assert.Equal(t, domain.ReasonAlreadyPlaying, rec.rejects[0].Reason)
	assert.Equal(t, []string{"X"}, values(c))
}

func TestController_ManualRevisitDoesNotReapply(t *testing.T) {
	c, _, rec := setup(t, fiveSteps(t, 0))

	assert.True(t, c.GoTo(3))
	assert.True(t, c.GoTo(1))
	assert.True(t, c.GoTo(3))

	assert.Equal(t, []string{"X"}, values(c))
	assert.Len(t, rec.effects, 1)
	assert.Equal(t, 3, rec.effects[0].Step)
}

func TestController_GoToSkipsIntermediateEffects(t *testing.T) {
	m := fiveSteps(t, 0)
	steps := m.Timeline.Steps()
	steps[1].Effect = domain.AppendValue("one")
	tl, err := domain.NewTimeline(steps...)
	require.NoError(t, err)
	m.Timeline = tl

	c, _, _ := setup(t, m)

	require.True(t, c.GoTo(4))
	assert.Empty(t, values(c), "jumping over steps 1 and 3 fires nothing")

	require.True(t, c.GoTo(3))
	assert.Equal(t, []string{"X"}, values(c))
}

func TestController_EffectOncePerSessionAcrossChannels(t *testing.T) {
	c, sched, rec := setup(t, fiveSteps(t, 0))

	require.True(t, c.GoTo(3))
	require.True(t, c.Play())
	sched.Advance(4 * time.Second)

	require.True(t, c.Play())
	sched.Advance(4 * time.Second)

	assert.Equal(t, []string{"X"}, values(c))
	assert.Len(t, rec.effects, 1)
}

func TestController_Reset(t *testing.T) {
	seed := domain.Item{Value: "seed"}
	c, sched, rec := setup(t, fiveSteps(t, 0, seed))

	require.True(t, c.Play())
	sched.Advance(4 * time.Second)
	require.Equal(t, []string{"seed", "X"}, values(c))

	require.True(t, c.Reset())

	snap := c.Snapshot()
	assert.Equal(t, domain.IdleIndex, snap.Index)
	assert.False(t, snap.AutoPlaying)
	assert.Equal(t, domain.ModeIdle, snap.Mode)
	assert.Equal(t, []string{"seed"}, snap.Values())
	assert.Equal(t, uint64(2), snap.Session)
	require.Len(t, rec.resets, 1)
	assert.False(t, rec.resets[0].Auto)

	// New session: the effect may fire once more
	require.True(t, c.GoTo(3))
	require.True(t, c.GoTo(0))
	require.True(t, c.GoTo(3))
	assert.Equal(t, []string{"seed", "X"}, values(c))
}

func TestController_SeedIsCopiedAtConstruction(t *testing.T) {
	seed := []domain.Item{{Value: "seed", Attrs: map[string]string{"from": "server"}}}
	c, _, _ := setup(t, fiveSteps(t, 0, seed...))

	seed[0].Value = "mutated"
	seed[0].Attrs["from"] = "client"
	m := c.Module()
	m.InitialItems[0].Value = "also mutated"

	require.True(t, c.GoTo(3))
	require.True(t, c.Reset())

	snap := c.Snapshot()
	assert.Equal(t, []string{"seed"}, snap.Values())
	assert.Equal(t, "server", snap.Items[0].Attrs["from"])
}

func TestController_ResetFromEveryState(t *testing.T) {
	c, sched, _ := setup(t, fiveSteps(t, 0))

	assert.True(t, c.Reset(), "idle")

	c.Next()
	assert.True(t, c.Reset(), "manual")

	c.Play()
	sched.Advance(time.Second)
	assert.True(t, c.Reset(), "playing")
	assert.Zero(t, sched.Pending())

	assert.True(t, c.Reset(), "twice in a row")
	assert.Equal(t, domain.IdleIndex, c.Index())
}

func TestController_ResetNeutralisesInFlightTick(t *testing.T) {
	c, sched, rec := setup(t, fiveSteps(t, 0))

	require.True(t, c.Play())
	sched.Advance(2 * time.Second)
	require.Equal(t, 2, c.Index())

	inflight := sched.Callbacks()
	require.Len(t, inflight, 1)

	require.True(t, c.Reset())
	assert.Zero(t, sched.Pending())
	stepsBefore := len(rec.steps)

	// The tick slipped past Stop and fires anyway
	inflight[0]()

	assert.Equal(t, domain.IdleIndex, c.Index())
	assert.False(t, c.AutoPlaying())
	assert.Empty(t, values(c))
	assert.Len(t, rec.steps, stepsBefore, "stale tick must not resurrect the session")
	assert.Zero(t, sched.Pending(), "stale tick must not arm a new timer")
}

func TestController_ManualRejectedWhileAutoplaying(t *testing.T) {
	c, sched, rec := setup(t, fiveSteps(t, 0))

	require.True(t, c.Play())
	sched.Advance(time.Second)
	before := c.Snapshot()

	assert.False(t, c.GoTo(3))
	assert.False(t, c.Next())
	assert.False(t, c.Prev())

	assert.Equal(t, before, c.Snapshot())
	require.Len(t, rec.rejects, 3)
	for _, r := range rec.rejects {
		assert.Equal(t, domain.ReasonAutoplayActive, r.Reason)
	}
	assert.Equal(t, "goto", rec.rejects[0].Op)
	assert.Equal(t, "next", rec.rejects[1].Op)
	assert.Equal(t, "prev", rec.rejects[2].Op)
}

func TestController_GoToOutOfRange(t *testing.T) {
	c, _, rec := setup(t, fiveSteps(t, 0))
	before := c.Snapshot()

	assert.False(t, c.GoTo(-1))
	assert.False(t, c.GoTo(5))
	assert.False(t, c.GoTo(100))

	assert.Equal(t, before, c.Snapshot())
	require.Len(t, rec.rejects, 3)
	assert.Equal(t, domain.ReasonOutOfRange, rec.rejects[1].Reason)
	assert.Zero(t, rec.changes, "rejected operations publish no snapshot")
}

func TestController_NextPrevBoundaries(t *testing.T) {
	c, _, rec := setup(t, fiveSteps(t, 0))

	assert.False(t, c.Prev(), "prev from idle")
	assert.True(t, c.Next(), "next from idle enters step 0")
	assert.Equal(t, 0, c.Index())
	assert.False(t, c.Prev(), "prev at first step")
	assert.Equal(t, 0, c.Index())

	require.True(t, c.GoTo(4))
	assert.False(t, c.Next(), "next at last step")
	assert.Equal(t, 4, c.Index())

	assert.True(t, c.Prev())
	assert.Equal(t, 3, c.Index())
	assert.Equal(t, []string{"X"}, values(c))

	for _, r := range rec.rejects {
		assert.Equal(t, domain.ReasonBoundary, r.Reason)
	}
}

func TestController_ModeTransitions(t *testing.T) {
	c, sched, rec := setup(t, fiveSteps(t, 0))

	assert.Equal(t, domain.ModeIdle, c.Mode())

	c.Next()
	c.Next()
	assert.Equal(t, domain.ModeManual, c.Mode())
	assert.Equal(t, 1, c.Index())

	require.True(t, c.Play(), "play from manual restarts")
	assert.Equal(t, domain.ModePlaying, c.Mode())
	assert.Equal(t, 0, c.Index())
	last := rec.steps[len(rec.steps)-1]
	assert.Equal(t, 1, last.From)
	assert.Equal(t, 0, last.To)

	sched.Advance(4 * time.Second)
	assert.Equal(t, domain.ModeIdle, c.Mode())

	require.True(t, c.GoTo(2))
	assert.Equal(t, domain.ModeManual, c.Mode())
}

func TestController_GoToCurrentIndex(t *testing.T) {
	c, _, rec := setup(t, fiveSteps(t, 0))

	require.True(t, c.GoTo(2))
	stepsBefore := len(rec.steps)

	assert.True(t, c.GoTo(2))
	assert.Len(t, rec.steps, stepsBefore, "no transition when already there")
}

func TestController_AutoResetCooldown(t *testing.T) {
	seed := domain.Item{Value: "seed"}
	c, sched, rec := setup(t, fiveSteps(t, 3*time.Second, seed))

	require.True(t, c.Play())
	sched.Advance(4 * time.Second)
	assert.Equal(t, 4, c.Index())
	assert.Equal(t, []string{"seed", "X"}, values(c))
	assert.True(t, c.Pending(), "cooldown armed")
	assert.Equal(t, 1, sched.Pending())

	sched.Advance(3 * time.Second)

	assert.Equal(t, domain.IdleIndex, c.Index())
	assert.Equal(t, []string{"seed"}, values(c))
	require.Len(t, rec.resets, 1)
	assert.True(t, rec.resets[0].Auto)
	assert.Zero(t, sched.Pending())
}

func TestController_ManualNavigationCancelsCooldown(t *testing.T) {
	c, sched, _ := setup(t, fiveSteps(t, 3*time.Second))

	require.True(t, c.Play())
	sched.Advance(4 * time.Second)
	require.True(t, c.Pending())

	require.True(t, c.GoTo(2))
	assert.False(t, c.Pending())

	sched.Advance(time.Minute)
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, []string{"X"}, values(c))
}

func TestController_ReplayDuringCooldown(t *testing.T) {
	c, sched, rec := setup(t, fiveSteps(t, 3*time.Second))

	require.True(t, c.Play())
	sched.Advance(4 * time.Second)
	require.True(t, c.Play())
	assert.Equal(t, 1, sched.Pending(), "cooldown replaced by the new tick chain")

	sched.Advance(4 * time.Second)
	assert.Empty(t, rec.resets, "old cooldown never fired")
	assert.Equal(t, 2, rec.complete)
}

func TestController_SingleStepTimeline(t *testing.T) {
	tl, err := domain.NewTimeline(domain.Step{Index: 0, Label: "only", Effect: domain.AppendValue("once")})
	require.NoError(t, err)
	m := domain.Module{ID: "one", Timeline: tl, Highlights: domain.UniformHighlights(1), Interval: time.Second}

	c, sched, rec := setup(t, m)
	require.True(t, c.Play())

	assert.False(t, c.AutoPlaying())
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 1, rec.complete)
	assert.Zero(t, sched.Pending())
	assert.Equal(t, []string{"once"}, values(c))
}

func TestController_CustomEffects(t *testing.T) {
	var sessions []uint64
	steps := []domain.Step{
		{Index: 0, Effect: domain.Custom("greet", func(ec domain.EffectContext) error {
			sessions = append(sessions, ec.Session)
			ec.Data.Append(domain.Item{Value: "hello from " + ec.Module})
			return nil
		})},
		{Index: 1, Effect: domain.Custom("broken", func(domain.EffectContext) error {
			return errors.New("boom")
		})},
		{Index: 2, Effect: domain.Custom("panicky", func(domain.EffectContext) error {
			panic("kaboom")
		})},
	}
	tl, err := domain.NewTimeline(steps...)
	require.NoError(t, err)
	m := domain.Module{ID: "custom", Timeline: tl, Highlights: domain.UniformHighlights(3), Interval: time.Second}

	c, _, rec := setup(t, m)

	require.True(t, c.Next())
	require.True(t, c.Next())
	require.True(t, c.Next())
	c.GoTo(0)
	c.GoTo(1)
	c.GoTo(2)

	assert.Equal(t, []string{"hello from custom"}, values(c))
	require.Len(t, rec.effects, 3, "failing effects still count as applied")
	assert.NoError(t, rec.effects[0].Err)
	assert.EqualError(t, rec.effects[1].Err, "boom")
	assert.ErrorContains(t, rec.effects[2].Err, "panicked")
	assert.Equal(t, []uint64{1}, sessions)

	c.Reset()
	c.GoTo(0)
	assert.Equal(t, []uint64{1, 2}, sessions)
}

func TestController_HooksMayCallBack(t *testing.T) {
	sched := testutils.NewManualScheduler()
	var c *runtime.Controller
	var seen []domain.Snapshot

	hooks := domain.LifecycleHooks{
		OnPlaybackComplete: func(*domain.PlaybackEvent) {
			c.Reset()
		},
		OnChange: func(s domain.Snapshot) {
			seen = append(seen, c.Snapshot())
		},
	}

	var err error
	c, err = runtime.NewController(fiveSteps(t, 0),
		runtime.WithScheduler(sched),
		runtime.WithLifecycleHooks(hooks),
	)
	require.NoError(t, err)

	require.True(t, c.Play())
	sched.Advance(4 * time.Second)

	assert.Equal(t, domain.IdleIndex, c.Index())
	assert.Empty(t, values(c))
	assert.NotEmpty(t, seen)
}

func TestController_OnChangeCarriesSnapshot(t *testing.T) {
	sched := testutils.NewManualScheduler()
	var snaps []domain.Snapshot
	c, err := runtime.NewController(fiveSteps(t, 0),
		runtime.WithScheduler(sched),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnChange: func(s domain.Snapshot) { snaps = append(snaps, s) },
		}),
	)
	require.NoError(t, err)

	c.GoTo(3)
	c.GoTo(9) // rejected

	require.Len(t, snaps, 1)
	assert.Equal(t, 3, snaps[0].Index)
	assert.Equal(t, "step 3", snaps[0].Label)
	assert.Equal(t, domain.HighlightBoth, snaps[0].Highlight)
	assert.Equal(t, []string{"X"}, snaps[0].Values())
}

func TestController_InvalidModule(t *testing.T) {
	_, err := runtime.NewController(domain.Module{ID: "broken"})
	assert.ErrorIs(t, err, domain.ErrEmptyTimeline)
}

func TestController_WallClockConcurrency(t *testing.T) {
	m := fiveSteps(t, 0)
	m.Interval = 2 * time.Millisecond

	c, err := runtime.NewController(m)
	require.NoError(t, err)

	require.True(t, c.Play())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.GoTo(i % 5)
			c.Next()
			c.Play()
			_ = c.Snapshot()
		}(i)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return !c.AutoPlaying() && !c.Pending()
	}, 2*time.Second, time.Millisecond, "autoplay did not settle")

	// Whatever interleaving happened, the effect fired exactly once
	assert.Equal(t, []string{"X"}, values(c))
}
