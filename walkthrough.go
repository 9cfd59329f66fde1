package walkthrough

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/walkthrough/internal/compiler"
	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/internal/runtime"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
	"github.com/aretw0/walkthrough/pkg/registry"
)

// Player is the high-level entry point for the walkthrough library.
// It wraps the internal playback controller of one mounted module.
type Player struct {
	controller *runtime.Controller
	module     domain.Module
}

type config struct {
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	scheduler ports.Scheduler
	effects   *registry.Registry
	speed     float64
	clock     func() time.Time
}

// Option defines a functional option for configuring the Player.
type Option func(*config)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = domain.MergeHooks(c.hooks, hooks)
	}
}

// WithLogger sets a custom structured logger for the player.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithScheduler replaces the wall-clock timer source.
func WithScheduler(s ports.Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

// WithRegistry sets the registry used to resolve custom effects in Open.
func WithRegistry(r *registry.Registry) Option {
	return func(c *config) {
		c.effects = r
	}
}

// WithSpeed scales every delay; 2 plays twice as fast.
func WithSpeed(factor float64) Option {
	return func(c *config) {
		c.speed = factor
	}
}

// WithClock sets the function used to timestamp events.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.clock = now
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.effects == nil {
		cfg.effects = registry.Default()
	}
	return cfg
}

// New mounts a module that was already built, e.g. with the dsl package.
func New(m domain.Module, opts ...Option) (*Player, error) {
	return newPlayer(m, newConfig(opts))
}

// Open loads, compiles and mounts the module id from loader.
func Open(loader ports.ModuleLoader, id string, opts ...Option) (*Player, error) {
	cfg := newConfig(opts)
	m, err := load(loader, id, cfg.effects)
	if err != nil {
		return nil, err
	}
	return newPlayer(m, cfg)
}

// Load compiles the module id from loader without mounting it.
// A nil registry means the built-in effects only.
func Load(loader ports.ModuleLoader, id string, effects *registry.Registry) (domain.Module, error) {
	return load(loader, id, effects)
}

func load(loader ports.ModuleLoader, id string, effects *registry.Registry) (domain.Module, error) {
	data, err := loader.GetModule(id)
	if err != nil {
		return domain.Module{}, err
	}
	m, err := compiler.NewParser(effects).Parse(data)
	if err != nil {
		return domain.Module{}, fmt.Errorf("failed to compile module %s: %w", id, err)
	}
	return m, nil
}

func newPlayer(m domain.Module, cfg *config) (*Player, error) {
	var sched ports.Scheduler = runtime.SystemScheduler{}
	if cfg.scheduler != nil {
		sched = cfg.scheduler
	}
	if cfg.speed > 0 && cfg.speed != 1 {
		sched = runtime.ScaledScheduler{Inner: sched, Factor: cfg.speed}
	}

	ctrl, err := runtime.NewController(m,
		runtime.WithScheduler(sched),
		runtime.WithLogger(cfg.logger),
		runtime.WithLifecycleHooks(cfg.hooks),
		runtime.WithClock(cfg.clock),
	)
	if err != nil {
		return nil, err
	}
	return &Player{
		controller: ctrl,
		module:     m,
	}, nil
}

// Play starts autoplay from step 0. It returns false while autoplay already runs.
func (p *Player) Play() bool { return p.controller.Play() }

// Reset cancels pending timers and restores the initial state. It is always accepted.
func (p *Player) Reset() bool { return p.controller.Reset() }

// Next moves one step forward; from idle it enters step 0.
func (p *Player) Next() bool { return p.controller.Next() }

// Prev moves one step back.
func (p *Player) Prev() bool { return p.controller.Prev() }

// GoTo jumps directly to index.
func (p *Player) GoTo(index int) bool { return p.controller.GoTo(index) }

// Snapshot returns the current render model.
func (p *Player) Snapshot() domain.Snapshot { return p.controller.Snapshot() }

// Module returns the mounted module.
func (p *Player) Module() domain.Module { return p.module }

// Pending reports whether a tick or cooldown timer is armed.
func (p *Player) Pending() bool { return p.controller.Pending() }
