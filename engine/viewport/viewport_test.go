package viewport

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	width, height int
	ratio         float64
	calls         []string
}

func (r *recordingTarget) SetSize(width, height int) {
	r.width, r.height = width, height
	r.calls = append(r.calls, "size")
}

func (r *recordingTarget) SetPixelRatio(ratio float64) {
	r.ratio = ratio
	r.calls = append(r.calls, "ratio")
}

type recordingProjection struct {
	aspect float32
	calls  *[]string
}

func (p *recordingProjection) SetAspect(aspect float32) {
	p.aspect = aspect
	*p.calls = append(*p.calls, "aspect")
}

func TestResizeUpdatesCameraAndTarget(t *testing.T) {
	sizes := []struct {
		w, h  int
		ratio float64
	}{
		{800, 600, 1},
		{1920, 1080, 1.5},
		{1, 1, 2},
		{3840, 2160, 3},
		{333, 777, 2.0001},
	}

	for _, s := range sizes {
		cam := camera.NewCamera()
		target := &recordingTarget{}
		vp := NewViewport(cam, target)

		vp.Resize(s.w, s.h, s.ratio)

		wantAspect := float32(s.w) / float32(s.h)
		assert.InDelta(t, wantAspect, cam.Aspect(), 1e-6)
		assert.Equal(t, s.w, target.width)
		assert.Equal(t, s.h, target.height)
		assert.Equal(t, min(s.ratio, 2), target.ratio)

		st := vp.Snapshot()
		assert.Equal(t, s.w, st.Width)
		assert.Equal(t, s.h, st.Height)
		assert.Equal(t, min(s.ratio, 2), st.PixelRatio)
		assert.Equal(t, cam.Aspect(), st.Aspect)
	}
}

func TestResizeOrder(t *testing.T) {
	target := &recordingTarget{}
	proj := &recordingProjection{calls: &target.calls}
	vp := NewViewport(proj, target)

	vp.Resize(640, 480, 1)
	assert.Equal(t, []string{"aspect", "size", "ratio"}, target.calls)
}

func TestResizeIsIdempotent(t *testing.T) {
	cam := camera.NewCamera()
	target := &recordingTarget{}
	vp := NewViewport(cam, target)

	vp.Resize(1024, 768, 2)
	once := vp.Snapshot()
	proj := cam.ProjectionMatrix()

	vp.Resize(1024, 768, 2)
	assert.Equal(t, once, vp.Snapshot())
	assert.Equal(t, proj, cam.ProjectionMatrix())
	assert.Equal(t, 1024, target.width)
}

func TestDegenerateResizeDoesNotPanic(t *testing.T) {
	cam := camera.NewCamera()
	target := &recordingTarget{}
	vp := NewViewport(cam, target)

	vp.Resize(800, 400, 1)
	require.NotPanics(t, func() { vp.Resize(0, 400, 1) })
	require.NotPanics(t, func() { vp.Resize(800, 0, 1) })
	require.NotPanics(t, func() { vp.Resize(-5, -5, 0) })

	st := vp.Snapshot()
	assert.True(t, st.Degenerate())
	assert.Equal(t, 0, target.width)
	assert.Equal(t, 0, target.height)
	assert.Equal(t, float32(2), cam.Aspect())
	assert.Equal(t, float32(2), st.Aspect)
	assert.Equal(t, 1.0, st.PixelRatio)

	vp.Resize(300, 600, 1)
	assert.False(t, vp.Snapshot().Degenerate())
	assert.Equal(t, float32(0.5), cam.Aspect())
}

func TestMaxPixelRatioOption(t *testing.T) {
	target := &recordingTarget{}
	vp := NewViewport(camera.NewCamera(), target, WithMaxPixelRatio(1.25), WithLogger(nil))

	vp.Resize(10, 10, 3)
	assert.Equal(t, 1.25, target.ratio)
	assert.Equal(t, 1.25, vp.MaxPixelRatio())

	ignored := NewViewport(camera.NewCamera(), target, WithMaxPixelRatio(0.5))
	assert.Equal(t, DefaultMaxPixelRatio, ignored.MaxPixelRatio())
}

func TestNewViewportPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewViewport(nil, &recordingTarget{}) })
	assert.Panics(t, func() { NewViewport(camera.NewCamera(), nil) })
}
