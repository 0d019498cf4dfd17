package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsAtInterval(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(WithInterval(time.Second/2), WithClock(func() time.Time { return now }))

	for range 29 {
		now = now.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	now = now.Add(time.Second/2 - 29*(time.Second/60))
	require.True(t, p.Tick())
	assert.InDelta(t, 60.0, p.Last().FPS, 0.01)
	assert.Positive(t, p.Last().SysMB)

	now = now.Add(time.Millisecond)
	assert.False(t, p.Tick())
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{"": ModeOff, "off": ModeOff, "CPU": ModeCPU, " mem ": ModeMem, "alloc": ModeAlloc} {
		got, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseMode("trace")
	assert.ErrorContains(t, err, "trace")
}

func TestStartOffIsNoop(t *testing.T) {
	stop := Start(ModeOff, t.TempDir())
	require.NotNil(t, stop)
	stop()
}
