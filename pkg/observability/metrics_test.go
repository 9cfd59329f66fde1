package observability_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/internal/testutils"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/dsl"
	"github.com/aretw0/walkthrough/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoModule(t *testing.T) domain.Module {
	t.Helper()
	m, err := dsl.New("demo").
		Interval(time.Second).
		Cooldown(time.Second).
		Step("a").
		Step("b").Append("X").
		Step("c").Custom("boom", func(domain.EffectContext) error { panic("boom") }).
		Build()
	require.NoError(t, err)
	return m
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	sched := testutils.NewManualScheduler()

	p, err := walkthrough.New(demoModule(t),
		walkthrough.WithScheduler(sched),
		walkthrough.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)

	p.Play()
	p.Play() // rejected: already playing
	p.Next() // rejected: autoplay active
	sched.Advance(2 * time.Second)
	sched.Advance(time.Second) // cooldown auto-reset

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.StepTransitions.WithLabelValues("demo", "timer")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.EffectsApplied.WithLabelValues("demo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EffectFailures.WithLabelValues("demo", "2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Rejected.WithLabelValues("demo", "play", "already_playing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Rejected.WithLabelValues("demo", "next", "autoplay_active")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PlaybacksCompleted.WithLabelValues("demo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Resets.WithLabelValues("demo", "true")))

	p.GoTo(1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StepTransitions.WithLabelValues("demo", "manual")))

	count, err := testutil.GatherAndCount(reg, "walkthrough_step_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilRegisterer(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.MountsActive.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MountsActive))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)

	p, err := walkthrough.New(demoModule(t),
		walkthrough.WithScheduler(testutils.NewManualScheduler()),
		walkthrough.WithLifecycleHooks(observability.LoggingHooks(logger)),
	)
	require.NoError(t, err)

	p.Prev()
	p.GoTo(2)

	out := buf.String()
	assert.Contains(t, out, "msg=rejected")
	assert.Contains(t, out, "reason=boundary")
	assert.Contains(t, out, "msg=step_enter")
	assert.Contains(t, out, "msg=effect_failed")
}
