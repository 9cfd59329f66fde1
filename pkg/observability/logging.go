package observability

import (
	"log/slog"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write one structured line per event.
// Transitions log at INFO, rejections at DEBUG and failed effects at WARN.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(e *domain.StepEvent) {
			logger.Info("step_enter",
				"module", e.Module,
				"from", e.From,
				"to", e.To,
				"label", e.Label,
				"cause", e.Cause,
				"highlight", e.Highlight,
			)
		},
		OnEffectApplied: func(e *domain.EffectEvent) {
			if e.Err != nil {
				logger.Warn("effect_failed", "module", e.Module, "step", e.Step, "effect", e.Effect, "err", e.Err)
				return
			}
			logger.Info("effect_applied", "module", e.Module, "step", e.Step, "effect", e.Effect)
		},
		OnRejected: func(e *domain.RejectEvent) {
			logger.Debug("rejected", "module", e.Module, "op", e.Op, "index", e.Index, "reason", e.Reason)
		},
		OnPlaybackStart: func(e *domain.PlaybackEvent) {
			logger.Info("playback_start", "module", e.Module, "session", e.Session)
		},
		OnPlaybackComplete: func(e *domain.PlaybackEvent) {
			logger.Info("playback_complete", "module", e.Module, "session", e.Session)
		},
		OnReset: func(e *domain.PlaybackEvent) {
			logger.Info("reset", "module", e.Module, "session", e.Session, "auto", e.Auto)
		},
	}
}
