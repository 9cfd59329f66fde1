package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
	"github.com/aretw0/walkthrough/pkg/registry"
	"github.com/google/uuid"
)

// Mount is one live instantiation of a module.
type Mount struct {
	ID        string
	Module    string
	CreatedAt time.Time
	Player    *walkthrough.Player
}

// HooksFactory returns extra lifecycle hooks for a new mount.
type HooksFactory func(mountID string, m domain.Module) domain.LifecycleHooks

// Manager orchestrates mounts, ensuring safe concurrent operations.
type Manager struct {
	loader  ports.ModuleLoader
	effects *registry.Registry

	mu     sync.RWMutex
	mounts map[string]*Mount

	hooks      []HooksFactory
	playerOpts []walkthrough.Option
	onMount    func(*Mount)
	onUnmount  func(*Mount)
	newID      func() string
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRegistry sets the registry used to resolve custom effects.
func WithRegistry(r *registry.Registry) Option {
	return func(m *Manager) {
		m.effects = r
	}
}

// WithHooks adds a per-mount hooks factory. Factories are merged in order.
func WithHooks(f HooksFactory) Option {
	return func(m *Manager) {
		m.hooks = append(m.hooks, f)
	}
}

// WithPlayerOptions passes options to every Player the manager creates.
func WithPlayerOptions(opts ...walkthrough.Option) Option {
	return func(m *Manager) {
		m.playerOpts = append(m.playerOpts, opts...)
	}
}

// WithMountCallbacks registers callbacks run after a mount is added or removed.
func WithMountCallbacks(onMount, onUnmount func(*Mount)) Option {
	return func(m *Manager) {
		m.onMount = onMount
		m.onUnmount = onUnmount
	}
}

// WithIDGenerator replaces the uuid mount ids.
func WithIDGenerator(f func() string) Option {
	return func(m *Manager) {
		m.newID = f
	}
}

// NewManager creates a new Manager reading definitions from loader.
func NewManager(loader ports.ModuleLoader, opts ...Option) *Manager {
	m := &Manager{
		loader: loader,
		mounts: make(map[string]*Mount),
		newID:  uuid.NewString,
		logger: logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Loader returns the underlying module loader.
func (m *Manager) Loader() ports.ModuleLoader {
	return m.loader
}

// Mount compiles moduleID and creates a fresh, idle Player for it.
func (m *Manager) Mount(moduleID string) (*Mount, error) {
	mod, err := walkthrough.Load(m.loader, moduleID, m.effects)
	if err != nil {
		return nil, err
	}

	id := m.newID()
	opts := append([]walkthrough.Option{walkthrough.WithLogger(m.logger.With("mount_id", id))}, m.playerOpts...)
	for _, f := range m.hooks {
		opts = append(opts, walkthrough.WithLifecycleHooks(f(id, mod)))
	}

	player, err := walkthrough.New(mod, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to mount %s: %w", moduleID, err)
	}

	mt := &Mount{ID: id, Module: moduleID, CreatedAt: time.Now(), Player: player}
	m.mu.Lock()
	m.mounts[id] = mt
	m.mu.Unlock()

	m.logger.Info("module mounted", "module", moduleID, "mount_id", id)
	if m.onMount != nil {
		m.onMount(mt)
	}
	return mt, nil
}

// Get returns the mount with the given id.
func (m *Manager) Get(id string) (*Mount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mt, ok := m.mounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMountNotFound, id)
	}
	return mt, nil
}

// List returns the active mounts ordered by creation time.
func (m *Manager) List() []*Mount {
	m.mu.RLock()
	out := make([]*Mount, 0, len(m.mounts))
	for _, mt := range m.mounts {
		out = append(out, mt)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Unmount resets the player, cancelling any pending timer, then forgets it.
func (m *Manager) Unmount(id string) error {
	m.mu.Lock()
	mt, ok := m.mounts[id]
	delete(m.mounts, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrMountNotFound, id)
	}

	mt.Player.Reset()
	m.logger.Info("module unmounted", "module", mt.Module, "mount_id", id)
	if m.onUnmount != nil {
		m.onUnmount(mt)
	}
	return nil
}

// Close unmounts everything.
func (m *Manager) Close() {
	for _, mt := range m.List() {
		_ = m.Unmount(mt.ID)
	}
}
