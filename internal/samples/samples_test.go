package samples_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/compiler"
	"github.com/aretw0/walkthrough/internal/samples"
	"github.com/aretw0/walkthrough/internal/testutils"
	"github.com/aretw0/walkthrough/internal/validator"
	"github.com/aretw0/walkthrough/pkg/adapters/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamples_AreValid(t *testing.T) {
	results, err := validator.ValidateModules(samples.Loader(), compiler.NewParser(nil))
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestSamples_PlayToCompletion(t *testing.T) {
	loader := samples.Loader()
	ids, err := loader.ListModules()
	require.NoError(t, err)

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			sched := testutils.NewManualScheduler()
			p, err := walkthrough.Open(loader, id, walkthrough.WithScheduler(sched))
			require.NoError(t, err)

			m := p.Module()
			initial := len(m.InitialItems)
			require.True(t, p.Play())
			sched.Advance(time.Duration(m.Timeline.Len()) * m.Interval)

			s := p.Snapshot()
			assert.False(t, s.AutoPlaying)
			assert.Equal(t, m.Timeline.Last(), s.Index)
			assert.Greater(t, len(s.Items), initial, "every sample demonstrates at least one effect")
		})
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "modules")

	written, err := samples.Write(dir, false)
	require.NoError(t, err)
	assert.Len(t, written, 4)

	ids, err := file.New(dir).ListModules()
	require.NoError(t, err)
	assert.Equal(t, []string{"long-polling", "polling", "sse", "websockets"}, ids)

	custom := filepath.Join(dir, "polling.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("mine"), 0o644))

	written, err = samples.Write(dir, false)
	require.NoError(t, err)
	assert.Empty(t, written)
	raw, _ := os.ReadFile(custom)
	assert.Equal(t, "mine", string(raw))

	written, err = samples.Write(dir, true)
	require.NoError(t, err)
	assert.Len(t, written, 4)
}
