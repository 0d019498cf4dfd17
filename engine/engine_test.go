package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/camera"
	"github.com/Carmen-Shannon/safehouse/engine/render_manager"
	"github.com/Carmen-Shannon/safehouse/engine/renderer/gputest"
	"github.com/Carmen-Shannon/safehouse/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of loop iterations, advancing the test clock before each.
type fakeWindow struct {
	keys       *common.KeyState
	open       bool
	iterations int
	step       func()
	onUpdate   func()
	onResize   func(width, height int)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(cb func()) {
	w.onUpdate = cb
}

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) {
	w.onResize = cb
}

func (w *fakeWindow) SetKeyCallback(func(uint32, bool)) {}

func (w *fakeWindow) SetMouseButtonCallback(func(window.MouseButton, bool, float32, float32)) {}

func (w *fakeWindow) SetScrollCallback(func(float32)) {}

func (w *fakeWindow) Keys() *common.KeyState {
	return w.keys
}

func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (w *fakeWindow) IsRunning() bool {
	return w.open
}

func (w *fakeWindow) Width() int {
	return 800
}

func (w *fakeWindow) Height() int {
	return 800
}

func (w *fakeWindow) Close() error {
	if !w.open {
		return errors.New("closed")
	}
	w.open = false
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.iterations && w.open; i++ {
		if w.step != nil {
			w.step()
		}
		w.onUpdate()
	}
}

type harness struct {
	now time.Time
	rec *gputest.Recorder
	rm  render_manager.RenderManager
	win *fakeWindow
	eng *engine
}

func newHarness(t *testing.T, iterations int, step time.Duration, options ...EngineBuilderOption) *harness {
	t.Helper()
	h := &harness{now: time.Unix(100, 0), rec: gputest.NewRecorder()}
	clock := func() time.Time { return h.now }
	h.rm = render_manager.NewRenderManager(h.rec, 800, 800, render_manager.WithClock(clock))
	h.win = &fakeWindow{keys: common.NewKeyState(), open: true, iterations: iterations}
	h.win.step = func() { h.now = h.now.Add(step) }

	options = append([]EngineBuilderOption{WithWindow(h.win), WithRenderManager(h.rm), WithClock(clock)}, options...)
	h.eng = NewEngine(options...).(*engine)
	return h
}

func TestRenderIsThrottled(t *testing.T) {
	h := newHarness(t, 40, 4*time.Millisecond)
	h.eng.Run()

	// 160ms of loop time at a 16ms frame limit
	assert.Len(t, h.rec.Frames, 10)
	assert.False(t, h.win.open)
}

func TestTickRate(t *testing.T) {
	h := newHarness(t, 100, 5*time.Millisecond, WithTickRate(20), WithRenderFrameLimit(0))
	var ticks int
	var total float32
	h.eng.SetTickCallback(func(dt float32) {
		ticks++
		total += dt
	})
	h.eng.Run()

	assert.Equal(t, 10, ticks)
	assert.InDelta(t, 0.5, total, 1e-4)
	assert.Len(t, h.rec.Frames, 100)
}

func TestResizeReachesRenderManager(t *testing.T) {
	h := newHarness(t, 1, 20*time.Millisecond)
	h.win.onResize(1024, 768)
	assert.Len(t, h.rec.Configures, 1)

	h.eng.Run()
	require.Len(t, h.rec.Configures, 2)
	assert.Equal(t, [2]int{1024, 768}, h.rec.Configures[1])
}

func TestRenderPanicStopsEngine(t *testing.T) {
	h := newHarness(t, 10, 20*time.Millisecond)
	frames := 0
	h.eng.SetRenderCallback(func(float32) {
		frames++
		if frames == 3 {
			panic("boom")
		}
	})
	h.eng.Run()

	assert.Equal(t, 3, frames)
	assert.False(t, h.win.open)
	assert.Len(t, h.rec.Frames, 2)
}

func TestControllersSkippedWithoutCamera(t *testing.T) {
	h := newHarness(t, 3, time.Second/60)
	h.eng.Controllers().Add(camera.NewWalkController(h.win.Keys(), 6))
	h.win.Keys().Press(common.KeyW)

	assert.NotPanics(t, h.eng.Run)
	assert.Nil(t, h.eng.Controllers().Camera())
}

func TestControllersDriveCurrentCamera(t *testing.T) {
	h := newHarness(t, 3, time.Second/60)
	h.eng.Controllers().Add(camera.NewWalkController(h.win.Keys(), 6))
	h.win.Keys().Press(common.KeyW)

	cam := camera.NewCamera(camera.WithPosition(0, 0, 3), camera.WithTarget(0, 0, 0))
	h.rm.SetCamera(cam)
	h.eng.Run()

	assert.Same(t, cam, h.eng.Controllers().Camera())
	_, _, z := cam.Position()
	assert.InDelta(t, 3-3*6.0/60, z, 1e-3)
}

type countingWatcher struct{ drains int }

func (w *countingWatcher) Watch(string, func()) error { return nil }
func (w *countingWatcher) Pending() []string          { return nil }
func (w *countingWatcher) Close() error               { return nil }

func (w *countingWatcher) Drain() int {
	w.drains++
	return 0
}

func TestWatcherDrainedEveryIteration(t *testing.T) {
	watcher := &countingWatcher{}
	h := newHarness(t, 7, time.Millisecond, WithWatcher(watcher))
	require.NoError(t, h.eng.WatchShader("pane.wgsl", func() {}))
	h.eng.Run()
	assert.Equal(t, 7, watcher.drains)
}
