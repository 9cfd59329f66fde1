package observability

import (
	"strconv"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	StepTransitions    *prometheus.CounterVec
	EffectsApplied     *prometheus.CounterVec
	EffectFailures     *prometheus.CounterVec
	Rejected           *prometheus.CounterVec
	PlaybacksCompleted *prometheus.CounterVec
	Resets             *prometheus.CounterVec
	MountsActive       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walkthrough_step_transitions_total",
			Help: "Total number of step transitions",
		}, []string{"module", "cause"}),
		EffectsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walkthrough_effects_applied_total",
			Help: "Total number of step effects applied",
		}, []string{"module"}),
		EffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walkthrough_effect_failures_total",
			Help: "Custom effects that returned an error or panicked",
		}, []string{"module", "step"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walkthrough_rejected_operations_total",
			Help: "Operations ignored by the playback controller",
		}, []string{"module", "op", "reason"}),
		PlaybacksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walkthrough_playbacks_completed_total",
			Help: "Autoplay runs that reached the last step",
		}, []string{"module"}),
		Resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walkthrough_resets_total",
			Help: "Resets, manual or after cooldown",
		}, []string{"module", "auto"}),
		MountsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walkthrough_mounts_active",
			Help: "Currently mounted modules",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.StepTransitions,
			m.EffectsApplied,
			m.EffectFailures,
			m.Rejected,
			m.PlaybacksCompleted,
			m.Resets,
			m.MountsActive,
		)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(e *domain.StepEvent) {
			m.StepTransitions.WithLabelValues(e.Module, string(e.Cause)).Inc()
		},
		OnEffectApplied: func(e *domain.EffectEvent) {
			m.EffectsApplied.WithLabelValues(e.Module).Inc()
			if e.Err != nil {
				m.EffectFailures.WithLabelValues(e.Module, strconv.Itoa(e.Step)).Inc()
			}
		},
		OnRejected: func(e *domain.RejectEvent) {
			m.Rejected.WithLabelValues(e.Module, e.Op, string(e.Reason)).Inc()
		},
		OnPlaybackComplete: func(e *domain.PlaybackEvent) {
			m.PlaybacksCompleted.WithLabelValues(e.Module).Inc()
		},
		OnReset: func(e *domain.PlaybackEvent) {
			m.Resets.WithLabelValues(e.Module, strconv.FormatBool(e.Auto)).Inc()
		},
	}
}
