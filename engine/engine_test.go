package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	calls  int
	err    error
	panics bool
	seen   []float32
}

func (r *recordingRenderer) Render(_ scene.Scene, cam camera.Camera) error {
	r.calls++
	_, _, z := cam.Position()
	r.seen = append(r.seen, z)
	if r.panics {
		panic("rasterizer exploded")
	}
	return r.err
}

func newLoop(t *testing.T, r FrameRenderer, opts ...RenderLoopBuilderOption) (RenderLoop, timeline.Timeline, camera.CameraController) {
	t.Helper()
	tl := timeline.NewTimeline()
	ctrl := camera.NewCameraController(camera.WithRadius(10))
	cam := camera.NewCamera(camera.WithController(ctrl))
	base := []RenderLoopBuilderOption{
		WithTimeline(tl),
		WithController(ctrl),
		WithCamera(cam),
		WithScene(scene.NewScene(scene.WithCamera(cam))),
		WithRenderer(r),
	}
	return NewRenderLoop(append(base, opts...)...), tl, ctrl
}

func TestStartRendersSynchronously(t *testing.T) {
	r := &recordingRenderer{}
	loop, tl, _ := newLoop(t, r)

	require.NoError(t, loop.Start(context.Background()))
	assert.Equal(t, 1, r.calls)
	assert.True(t, loop.Running())

	_, frames := tl.Pending()
	assert.Equal(t, 1, frames)

	for i := 0; i < 5; i++ {
		tl.Step(time.Now())
	}
	assert.Equal(t, 6, r.calls)
	assert.Equal(t, uint64(6), loop.Ticks())
}

func TestFirstTickPrecedesQueuedEvents(t *testing.T) {
	r := &recordingRenderer{}
	loop, tl, _ := newLoop(t, r)
	var order []string
	tl.Post(func() { order = append(order, "event") })

	require.NoError(t, loop.Start(context.Background()))
	order = append(order, "started")
	tl.Step(time.Now())

	assert.Equal(t, []string{"started", "event"}, order)
	assert.Equal(t, 2, r.calls)
}

func TestTickAdvancesController(t *testing.T) {
	r := &recordingRenderer{}
	loop, tl, ctrl := newLoop(t, r)
	ctrl.SetDamping(false)

	require.NoError(t, loop.Start(context.Background()))
	ctrl.SetRadius(4)
	tl.Step(time.Now())

	require.Len(t, r.seen, 2)
	assert.InDelta(t, 10, r.seen[0], 1e-4)
	assert.InDelta(t, 4, r.seen[1], 1e-4)
}

func TestStopRevokesArmedTick(t *testing.T) {
	r := &recordingRenderer{}
	loop, tl, _ := newLoop(t, r)

	require.NoError(t, loop.Start(context.Background()))
	loop.Stop()
	loop.Stop()
	tl.Step(time.Now())

	assert.Equal(t, 1, r.calls)
	assert.False(t, loop.Running())
	_, frames := tl.Pending()
	assert.Zero(t, frames)

	require.NoError(t, loop.Start(context.Background()))
	assert.Equal(t, 2, r.calls)
}

func TestContextCancelStopsRearming(t *testing.T) {
	r := &recordingRenderer{}
	loop, tl, _ := newLoop(t, r)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, loop.Start(ctx))
	tl.Step(time.Now())
	cancel()
	tl.Step(time.Now())
	tl.Step(time.Now())

	assert.Equal(t, 2, r.calls)
	assert.False(t, loop.Running())
}

func TestRenderErrorIsLoggedAndLoopContinues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := &recordingRenderer{err: errors.New("surface lost")}
	loop, tl, _ := newLoop(t, r, WithLogger(logger))

	require.NoError(t, loop.Start(context.Background()))
	tl.Step(time.Now())

	assert.Equal(t, 2, r.calls)
	assert.True(t, loop.Running())
	assert.Contains(t, buf.String(), "surface lost")
}

func TestRenderPanicIsRecovered(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := &recordingRenderer{panics: true}
	loop, tl, _ := newLoop(t, r, WithLogger(logger))

	require.NotPanics(t, func() { require.NoError(t, loop.Start(context.Background())) })
	tl.Step(time.Now())

	assert.Equal(t, 2, r.calls)
	assert.Contains(t, buf.String(), "rasterizer exploded")
}

func TestTickCallbackReceivesDelta(t *testing.T) {
	var deltas []float32
	loop, tl, _ := newLoop(t, &recordingRenderer{}, WithTickCallback(func(dt float32) { deltas = append(deltas, dt) }))

	require.NoError(t, loop.Start(context.Background()))
	tl.Step(time.Now().Add(time.Second))

	require.Len(t, deltas, 2)
	assert.Zero(t, deltas[0])
	assert.Greater(t, deltas[1], float32(0.5))
}

func TestStartValidation(t *testing.T) {
	err := NewRenderLoop().Start(context.Background())
	assert.ErrorIs(t, err, ErrMissingDependency)

	loop, _, _ := newLoop(t, &recordingRenderer{})
	require.NoError(t, loop.Start(context.Background()))
	assert.ErrorIs(t, loop.Start(context.Background()), ErrAlreadyRunning)
}

func TestDisposedTimelineEndsLoop(t *testing.T) {
	r := &recordingRenderer{}
	loop, tl, _ := newLoop(t, r)
	tl.Dispose()

	require.NoError(t, loop.Start(context.Background()))
	assert.Equal(t, 1, r.calls)
	assert.False(t, loop.Running())
}
