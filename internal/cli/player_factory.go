package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/pkg/adapters/file"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/observability"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// Options are the settings shared by the player commands.
type Options struct {
	Dir      string
	ModuleID string
	Speed    float64
	Logger   *slog.Logger
	// Scheduler overrides the wall clock, mainly for tests.
	Scheduler ports.Scheduler
}

// createPlayer loads the module and wires the CLI conventions around it.
func createPlayer(opts Options, hooks ...domain.LifecycleHooks) (*walkthrough.Player, error) {
	loader := file.New(opts.Dir)

	id, err := resolveModuleID(loader, opts.ModuleID)
	if err != nil {
		return nil, err
	}

	playerOpts := []walkthrough.Option{
		walkthrough.WithLogger(opts.Logger),
		walkthrough.WithSpeed(opts.Speed),
	}
	if opts.Scheduler != nil {
		playerOpts = append(playerOpts, walkthrough.WithScheduler(opts.Scheduler))
	}
	// Event lines would duplicate the presenter output unless debugging.
	if opts.Logger != nil && opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		playerOpts = append(playerOpts, walkthrough.WithLifecycleHooks(observability.LoggingHooks(opts.Logger)))
	}
	for _, h := range hooks {
		playerOpts = append(playerOpts, walkthrough.WithLifecycleHooks(h))
	}

	player, err := walkthrough.Open(loader, id, playerOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing player: %w", err)
	}
	return player, nil
}

// resolveModuleID returns id, or the only module in the directory when id is empty.
func resolveModuleID(loader ports.ModuleLoader, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	ids, err := loader.ListModules()
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: directory has no module definitions", domain.ErrModuleNotFound)
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("several modules found, pick one of %v", ids)
}
