package runtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/demo"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// Controller is the playback state machine of one mounted module.
//
// States are Idle, Playing and Manual. It owns the current index, the autoplay
// flag and at most one outstanding timer. Rejected operations are silent
// no-ops that return false.
type Controller struct {
	mu sync.Mutex

	module    domain.Module
	store     *demo.Store
	binder    *EffectBinder
	projector Projector
	scheduler ports.Scheduler
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	now       func() time.Time

	index       int
	mode        domain.Mode
	autoPlaying bool
	timer       ports.Timer
	// run is bumped whenever the timer is cancelled; callbacks carrying an
	// older value are stale and must not touch state.
	run     uint64
	session uint64

	emitMu   sync.Mutex
	queue    []func()
	draining bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithScheduler sets the timer source (default: wall clock).
func WithScheduler(s ports.Scheduler) ControllerOption {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ControllerOption {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithClock sets the function used to timestamp events.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// NewController validates the module and creates an idle controller for it.
func NewController(m domain.Module, opts ...ControllerOption) (*Controller, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	// The seed must not follow later edits to the caller's slice.
	m.InitialItems = m.InitialSnapshot()

	c := &Controller{
		module:    m,
		projector: NewProjector(m.Highlights),
		scheduler: SystemScheduler{},
		logger:    logging.NewNop(),
		now:       time.Now,
		index:     domain.IdleIndex,
		mode:      domain.ModeIdle,
		session:   1,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("module", m.ID)
	c.store = demo.NewStore(m.InitialItems)
	c.binder = NewEffectBinder(m.ID, c.store, c.logger)
	return c, nil
}

// Play starts autoplay from step 0. It is rejected while autoplay is running,
// so there is never a second timer chain.
func (c *Controller) Play() bool {
	return c.do(func(out *outbox) bool {
		if c.autoPlaying {
			c.rejectLocked(out, "play", domain.IdleIndex, domain.ReasonAlreadyPlaying)
			return false
		}
		c.cancelTimerLocked()
		c.autoPlaying = true
		c.mode = domain.ModePlaying
		c.emitPlaybackLocked(out, domain.EventPlaybackStart, false)

		c.enterLocked(out, 0, domain.CauseTimer)
		c.advanceOrCompleteLocked(out)
		return true
	})
}

// Reset cancels any pending timer, then returns the controller to idle and
// starts a new session with the initial demo data. It is always accepted.
func (c *Controller) Reset() bool {
	return c.do(func(out *outbox) bool {
		c.resetLocked(out, false)
		return true
	})
}

// GoTo jumps to index without traversing intermediate steps.
func (c *Controller) GoTo(index int) bool {
	return c.do(func(out *outbox) bool {
		return c.navigateLocked(out, "goto", index, domain.ReasonOutOfRange)
	})
}

// Next moves one step forward. From idle it enters step 0.
func (c *Controller) Next() bool {
	return c.do(func(out *outbox) bool {
		return c.navigateLocked(out, "next", c.index+1, domain.ReasonBoundary)
	})
}

// Prev moves one step back. It is a no-op at step 0 and while idle.
func (c *Controller) Prev() bool {
	return c.do(func(out *outbox) bool {
		return c.navigateLocked(out, "prev", c.index-1, domain.ReasonBoundary)
	})
}

func (c *Controller) navigateLocked(out *outbox, op string, target int, invalid domain.RejectReason) bool {
	if c.autoPlaying {
		c.rejectLocked(out, op, target, domain.ReasonAutoplayActive)
		return false
	}
	if !c.module.Timeline.Contains(target) {
		c.rejectLocked(out, op, target, invalid)
		return false
	}

	// A pending post-completion reset would wipe what the learner is looking at.
	c.cancelTimerLocked()
	c.mode = domain.ModeManual
	if target != c.index {
		c.enterLocked(out, target, domain.CauseManual)
	}
	return true
}

func (c *Controller) tick(run uint64) {
	c.do(func(out *outbox) bool {
		if run != c.run || !c.autoPlaying {
			c.logger.Debug("stale tick ignored", "run", run, "current_run", c.run)
			return false
		}
		c.timer = nil
		c.enterLocked(out, c.index+1, domain.CauseTimer)
		c.advanceOrCompleteLocked(out)
		return true
	})
}

func (c *Controller) autoReset(run uint64) {
	c.do(func(out *outbox) bool {
		if run != c.run {
			c.logger.Debug("stale cooldown ignored", "run", run, "current_run", c.run)
			return false
		}
		c.timer = nil
		c.resetLocked(out, true)
		return true
	})
}

func (c *Controller) advanceOrCompleteLocked(out *outbox) {
	if c.index < c.module.Timeline.Last() {
		c.scheduleLocked(c.module.Interval, c.tick)
		return
	}

	c.autoPlaying = false
	c.mode = domain.ModeIdle
	c.emitPlaybackLocked(out, domain.EventPlaybackComplete, false)
	if c.module.Cooldown > 0 {
		c.scheduleLocked(c.module.Cooldown, c.autoReset)
	}
}

func (c *Controller) resetLocked(out *outbox, auto bool) {
	// The timer goes first: once run is bumped, an in-flight callback is inert.
	c.cancelTimerLocked()

	c.index = domain.IdleIndex
	c.mode = domain.ModeIdle
	c.autoPlaying = false
	c.session++
	c.binder.Reset()
	c.store.ResetTo(c.module.InitialItems)

	c.logger.Debug("session reset", "session", c.session, "auto", auto)
	c.emitPlaybackLocked(out, domain.EventReset, auto)
}

func (c *Controller) enterLocked(out *outbox, index int, cause domain.Cause) {
	from := c.index
	c.index = index
	step, _ := c.module.Timeline.Step(index)

	if h := c.hooks.OnStepEnter; h != nil {
		ev := &domain.StepEvent{
			EventBase: c.baseLocked(domain.EventStepEnter),
			From:      from,
			To:        index,
			Label:     step.Label,
			Cause:     cause,
			Highlight: c.projector.Project(index),
		}
		out.add(func() { h(ev) })
	}

	fired, err := c.binder.Enter(step, c.session)
	if !fired {
		return
	}
	if h := c.hooks.OnEffectApplied; h != nil {
		ev := &domain.EffectEvent{
			EventBase: c.baseLocked(domain.EventEffectApplied),
			Step:      index,
			Effect:    step.Effect.String(),
			Err:       err,
		}
		out.add(func() { h(ev) })
	}
}

func (c *Controller) scheduleLocked(d time.Duration, fn func(run uint64)) {
	if c.timer != nil {
		c.timer.Stop()
	}
	run := c.run
	c.timer = c.scheduler.AfterFunc(d, func() { fn(run) })
}

func (c *Controller) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.run++
}

func (c *Controller) rejectLocked(out *outbox, op string, index int, reason domain.RejectReason) {
	c.logger.Debug("operation rejected", "op", op, "index", index, "reason", reason)
	if h := c.hooks.OnRejected; h != nil {
		ev := &domain.RejectEvent{
			EventBase: c.baseLocked(domain.EventRejected),
			Op:        op,
			Index:     index,
			Reason:    reason,
		}
		out.add(func() { h(ev) })
	}
}

func (c *Controller) emitPlaybackLocked(out *outbox, typ domain.EventType, auto bool) {
	var h func(*domain.PlaybackEvent)
	switch typ {
	case domain.EventPlaybackStart:
		h = c.hooks.OnPlaybackStart
	case domain.EventPlaybackComplete:
		h = c.hooks.OnPlaybackComplete
	case domain.EventReset:
		h = c.hooks.OnReset
	}
	if h == nil {
		return
	}
	ev := &domain.PlaybackEvent{
		EventBase: c.baseLocked(typ),
		Index:     c.index,
		Auto:      auto,
	}
	out.add(func() { h(ev) })
}

func (c *Controller) baseLocked(typ domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: c.now(),
		Type:      typ,
		Module:    c.module.ID,
		Session:   c.session,
	}
}

// Snapshot returns the current render model.
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() domain.Snapshot {
	step, _ := c.module.Timeline.Step(c.index)
	return domain.Snapshot{
		Module:      c.module.ID,
		Index:       c.index,
		Label:       step.Label,
		Mode:        c.mode,
		AutoPlaying: c.autoPlaying,
		Session:     c.session,
		Highlight:   c.projector.Project(c.index),
		Items:       c.store.Snapshot(),
	}
}

// Index returns the current step index, or domain.IdleIndex.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// AutoPlaying reports whether the timer is driving the timeline.
func (c *Controller) AutoPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoPlaying
}

// Mode returns the current state machine state.
func (c *Controller) Mode() domain.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Highlight returns the projection of the current index.
func (c *Controller) Highlight() domain.Highlight {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projector.Project(c.index)
}

// Items returns a copy of the demo data.
func (c *Controller) Items() []domain.Item {
	return c.store.Snapshot()
}

// Pending reports whether a timer (tick or cooldown) is armed.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Module returns the configuration the controller was built from.
func (c *Controller) Module() domain.Module {
	m := c.module
	m.InitialItems = m.InitialSnapshot()
	return m
}

// Projector returns the highlight projector of the module.
func (c *Controller) Projector() Projector {
	return c.projector
}

// outbox collects hook invocations while the state lock is held.
type outbox []func()

func (o *outbox) add(f func()) { *o = append(*o, f) }

// do runs fn under the state lock and dispatches the resulting events after
// releasing it. Accepted mutations also publish a snapshot to OnChange.
func (c *Controller) do(fn func(out *outbox) bool) bool {
	var out outbox

	c.mu.Lock()
	ok := fn(&out)
	if ok {
		if h := c.hooks.OnChange; h != nil {
			snap := c.snapshotLocked()
			out.add(func() { h(snap) })
		}
	}
	c.mu.Unlock()

	c.dispatch(out)
	return ok
}

// dispatch delivers events in order. Hooks may call back into the controller;
// nested events are queued and drained by the outermost dispatcher.
func (c *Controller) dispatch(out outbox) {
	if len(out) == 0 {
		return
	}

	c.emitMu.Lock()
	c.queue = append(c.queue, out...)
	if c.draining {
		c.emitMu.Unlock()
		return
	}
	c.draining = true
	for len(c.queue) > 0 {
		f := c.queue[0]
		c.queue = c.queue[1:]
		c.emitMu.Unlock()
		f()
		c.emitMu.Lock()
	}
	c.draining = false
	c.emitMu.Unlock()
}
