package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/walkthrough/internal/presentation/tui"
	"github.com/aretw0/walkthrough/pkg/domain"
)

// RunPlay autoplays a module in real time, printing every transition to out.
// It returns when playback completes or ctx is cancelled; either way the
// player is reset so no timer outlives the call.
func RunPlay(ctx context.Context, out io.Writer, opts Options) error {
	var (
		mu        sync.Mutex
		closed    bool
		presenter *tui.Presenter
		last      int
		finish    sync.Once
	)
	done := make(chan struct{})

	player, err := createPlayer(opts, domain.LifecycleHooks{
		// Completion is taken from OnChange, which the controller dispatches
		// after OnPlaybackComplete, so the final frame is printed first.
		OnChange: func(s domain.Snapshot) {
			mu.Lock()
			if !closed && presenter != nil {
				presenter.Present(s)
			}
			mu.Unlock()
			if !s.AutoPlaying && s.Mode == domain.ModeIdle && s.Index == last {
				finish.Do(func() { close(done) })
			}
		},
	})
	if err != nil {
		return err
	}

	m := player.Module()
	mu.Lock()
	last = m.Timeline.Last()
	presenter = tui.NewPresenter(out, colorProfile(out), m)
	printSystemMessage(out, "Playing '%s' (%d steps, every %s)", m.ID, m.Timeline.Len(), m.Interval)
	mu.Unlock()

	defer func() {
		mu.Lock()
		closed = true
		mu.Unlock()
		player.Reset()
	}()

	player.Play()

	select {
	case <-done:
		mu.Lock()
		printSystemMessage(out, "Finished '%s'.", m.ID)
		mu.Unlock()
	case <-ctx.Done():
		mu.Lock()
		fmt.Fprintln(out)
		printSystemMessage(out, "Interrupted at step %d.", player.Snapshot().Index)
		mu.Unlock()
	}
	return nil
}
