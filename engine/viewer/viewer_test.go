package viewer

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"math"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/timeline"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	mu      sync.Mutex
	renders int
	width   int
	height  int
	ratio   float64
}

func (r *fakeRenderer) Render(scene.Scene, camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
	return nil
}

func (r *fakeRenderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

func (r *fakeRenderer) SetPixelRatio(ratio float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratio = ratio
}

func (r *fakeRenderer) snapshot() (renders, width, height int, ratio float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders, r.width, r.height, r.ratio
}

type fakeHost struct {
	width, height int
	ratio         float64

	update      func()
	resize      func(int, int, float64)
	scroll      func(float32)
	keyDown     func(uint32)
	pointerDown func(common.MouseButton, float32, float32)
	pointerUp   func(common.MouseButton, float32, float32)
	pointerMove func(float32, float32)
}

func (h *fakeHost) Width() int          { return h.width }
func (h *fakeHost) Height() int         { return h.height }
func (h *fakeHost) PixelRatio() float64 { return h.ratio }

func (h *fakeHost) SetUpdateCallback(cb func())                      { h.update = cb }
func (h *fakeHost) SetResizeCallback(cb func(int, int, float64))     { h.resize = cb }
func (h *fakeHost) SetScrollCallback(cb func(float32))               { h.scroll = cb }
func (h *fakeHost) SetKeyDownCallback(cb func(uint32))               { h.keyDown = cb }
func (h *fakeHost) SetPointerMoveCallback(cb func(float32, float32)) { h.pointerMove = cb }

func (h *fakeHost) SetPointerDownCallback(cb func(common.MouseButton, float32, float32)) {
	h.pointerDown = cb
}

func (h *fakeHost) SetPointerUpCallback(cb func(common.MouseButton, float32, float32)) {
	h.pointerUp = cb
}

func helmetGLTF(t *testing.T) []byte {
	t.Helper()
	doc := &gltf.Document{
		Asset:     gltf.Asset{Version: "2.0"},
		Accessors: []*gltf.Accessor{{Count: 3, Type: gltf.AccessorVec3, ComponentType: gltf.ComponentFloat}},
		Materials: []*gltf.Material{{Name: "leather"}, {Name: "glass"}},
		Meshes: []*gltf.Mesh{{Name: "helmet", Primitives: []*gltf.Primitive{
			{Attributes: map[string]int{gltf.POSITION: 0}, Material: gltf.Index(0)},
			{Attributes: map[string]int{gltf.POSITION: 0}, Material: gltf.Index(1)},
		}}},
		Nodes:  []*gltf.Node{{Name: "helmet", Mesh: gltf.Index(0)}},
		Scenes: []*gltf.Scene{{Nodes: []int{0}}},
		Scene:  gltf.Index(0),
	}
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = false
	require.NoError(t, enc.Encode(doc))
	return buf.Bytes()
}

func facePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func assetFS(t *testing.T, cfg *config.Config) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{cfg.Assets.Model: {Data: helmetGLTF(t)}}
	for _, face := range cfg.Assets.EnvironmentFaces {
		fsys[face] = &fstest.MapFile{Data: facePNG(t)}
	}
	return fsys
}

type harness struct {
	cfg      *config.Config
	timeline timeline.Timeline
	loader   loader.Loader
	renderer *fakeRenderer
	host     *fakeHost
	viewer   Viewer
	logs     *bytes.Buffer
}

func newHarness(t *testing.T, mutate func(*config.Config, fstest.MapFS)) *harness {
	t.Helper()
	cfg := config.Default()
	fsys := assetFS(t, cfg)
	if mutate != nil {
		mutate(cfg, fsys)
	}

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tl := timeline.NewTimeline()
	l := loader.NewLoader(fsys, tl, loader.WithWorkers(1))
	h := &harness{
		cfg:      cfg,
		timeline: tl,
		loader:   l,
		renderer: &fakeRenderer{},
		host:     &fakeHost{width: 800, height: 600, ratio: 3},
		logs:     logs,
	}

	v, err := NewViewer(cfg, fsys, h.renderer,
		WithTimeline(tl),
		WithLoader(l),
		WithHost(h.host),
		WithLogger(logger),
	)
	require.NoError(t, err)
	h.viewer = v
	t.Cleanup(v.Close)
	return h
}

// settle waits for every load and delivers the outcomes with one refresh.
func (h *harness) settle() {
	h.loader.Wait()
	h.host.update()
}

func labels(v Viewer) []string {
	var out []string
	for _, c := range v.Panel().Controls() {
		out = append(out, c.Label())
	}
	return out
}

func TestNewViewerBuildsReferenceScene(t *testing.T) {
	h := newHarness(t, nil)
	v := h.viewer

	assert.Equal(t, []string{"lightIntensity", "lightX", "lightY", "lightZ", "envMapIntensity"}, labels(v))
	values := []float64{3, 0.25, 3, -2.25, 2.5}
	for i, c := range v.Panel().Controls() {
		assert.InDelta(t, values[i], c.Displayed(), 1e-6, c.Label())
		assert.Equal(t, 0.001, c.Step())
	}

	sun := v.Light()
	require.NotNil(t, sun)
	assert.Equal(t, []*scene.LightNode{sun}, v.Scene().Lights())
	assert.True(t, sun.Light().CastsShadows())
	w, hgt := sun.Light().Shadow().MapSize()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 1024, hgt)

	assert.Equal(t, v.Camera(), v.Scene().Camera())
	assert.InDelta(t, 10, v.Controller().Radius(), 1e-5)
	assert.True(t, v.Controller().Damping())
	assert.InDelta(t, 0.1, v.Camera().Near(), 1e-6)
	assert.InDelta(t, 100, v.Camera().Far(), 1e-6)
	assert.Nil(t, v.Model())
}

func TestStartRendersBeforeLoadsAndResizesFromHost(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Start(context.Background()))

	renders, width, height, ratio := h.renderer.snapshot()
	assert.Equal(t, 1, renders)
	assert.Equal(t, 800, width)
	assert.Equal(t, 600, height)
	assert.Equal(t, 2.0, ratio)
	assert.InDelta(t, 800.0/600.0, h.viewer.Camera().Aspect(), 1e-6)
	assert.True(t, h.viewer.Loop().Running())

	assert.ErrorIs(t, h.viewer.Start(context.Background()), engine.ErrAlreadyRunning)
}

func TestLoadsPopulateSceneOnTimeline(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Start(context.Background()))
	h.settle()

	v := h.viewer
	model := v.Model()
	require.NotNil(t, model)
	assert.Equal(t, []scene.Node{model}, v.Scene().Models())

	tr := model.Transform()
	assert.Equal(t, common.Vector3{X: 10, Y: 10, Z: 10}, tr.Scale)
	assert.Equal(t, common.Vector3{Y: -4}, tr.Position)
	assert.InDelta(t, math.Pi/2, tr.Rotation.Y, 1e-6)

	assert.Equal(t, []string{"lightIntensity", "lightX", "lightY", "lightZ", "envMapIntensity", "rotation"}, labels(v))
	rotation, ok := v.Panel().Lookup("rotation")
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, rotation.Displayed(), 1e-6)
	assert.InDelta(t, -math.Pi, rotation.Min(), 1e-9)
	assert.InDelta(t, math.Pi, rotation.Max(), 1e-9)

	require.NotNil(t, v.Scene().Background())
	assert.Same(t, v.Scene().Background(), v.Scene().Environment())
	assert.Equal(t, common.ColorSpaceSRGB, v.Scene().Environment().ColorSpace)

	renders, _, _, _ := h.renderer.snapshot()
	assert.Equal(t, 2, renders)
	assert.Contains(t, h.logs.String(), "% loaded")
	assert.Contains(t, h.logs.String(), "model loaded")
}

func TestEnvMapIntensityChangeUpdatesLoadedMaterials(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Start(context.Background()))
	h.settle()

	v := h.viewer
	var mats []*material.Standard
	scene.StandardMaterials(v.Scene(), func(m *material.Standard) { mats = append(mats, m) })
	require.Len(t, mats, 2)
	for _, m := range mats {
		assert.Equal(t, float32(1), m.EnvMapIntensity())
	}

	ctrl, ok := v.Panel().Lookup("envMapIntensity")
	require.True(t, ok)
	require.True(t, ctrl.Commit(4))
	assert.Equal(t, 4.0, v.Debug().EnvMapIntensity)
	for _, m := range mats {
		assert.Equal(t, float32(4), m.EnvMapIntensity())
	}

	assert.False(t, ctrl.Commit(4))
	require.True(t, ctrl.Commit(25))
	assert.Equal(t, 10.0, v.Debug().EnvMapIntensity)
}

func TestLightControlsDriveLight(t *testing.T) {
	h := newHarness(t, nil)
	v := h.viewer

	x, _ := v.Panel().Lookup("lightX")
	require.True(t, x.Commit(1.5))
	assert.Equal(t, float32(1.5), v.Light().Position().X)

	intensity, _ := v.Panel().Lookup("lightIntensity")
	require.True(t, intensity.Commit(7))
	assert.Equal(t, float32(7), v.Light().Light().Intensity())
}

func TestModelLoadFailureLeavesSceneUnchanged(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config, fsys fstest.MapFS) {
		delete(fsys, cfg.Assets.Model)
	})
	require.NoError(t, h.viewer.Start(context.Background()))
	h.settle()

	assert.Nil(t, h.viewer.Model())
	assert.Empty(t, h.viewer.Scene().Models())
	assert.Len(t, h.viewer.Panel().Controls(), 5)
	assert.NotNil(t, h.viewer.Scene().Environment())

	logs := h.logs.String()
	assert.Contains(t, logs, "model load failed")
	assert.Contains(t, logs, "kind=network")
	assert.Contains(t, logs, "cause=")

	h.host.update()
	renders, _, _, _ := h.renderer.snapshot()
	assert.Equal(t, 3, renders)
	assert.True(t, h.viewer.Loop().Running())
}

func TestHostEventsArePostedToTimeline(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Start(context.Background()))
	v := h.viewer

	h.host.resize(1000, 500, 1)
	_, width, _, _ := h.renderer.snapshot()
	assert.Equal(t, 800, width, "resize waits for the timeline")

	h.host.pointerDown(common.MouseButtonLeft, 100, 100)
	h.host.pointerMove(140, 100)
	h.host.pointerUp(common.MouseButtonLeft, 140, 100)
	h.host.update()

	_, width, height, ratio := h.renderer.snapshot()
	assert.Equal(t, 1000, width)
	assert.Equal(t, 500, height)
	assert.Equal(t, 1.0, ratio)
	assert.InDelta(t, 2, v.Camera().Aspect(), 1e-6)
	assert.False(t, v.Controller().Settled())

	h.host.resize(1000, 0, 1)
	h.host.update()
	assert.InDelta(t, 2, v.Camera().Aspect(), 1e-6)
	assert.True(t, v.Viewport().Snapshot().Degenerate())
}

func TestKeysToggleDampingAndResetCamera(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Start(context.Background()))
	c := h.viewer.Controller()

	h.host.keyDown(common.KeyD)
	h.host.update()
	assert.False(t, c.Damping())

	h.host.scroll(4)
	h.host.update()
	h.host.update()
	assert.InDelta(t, 8, c.Radius(), 1e-5)

	h.host.keyDown(common.KeyR)
	h.host.update()
	h.host.update()
	assert.InDelta(t, 10, c.Radius(), 1e-5)
}

func TestCloseDropsLateLoads(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Start(context.Background()))
	h.loader.Wait()
	h.viewer.Close()

	h.timeline.Step(time.Now())
	assert.True(t, h.viewer.Scene().Disposed())
	assert.True(t, h.timeline.Disposed())
	assert.Nil(t, h.viewer.Model())
	assert.Empty(t, h.viewer.Scene().Models())
	assert.False(t, h.viewer.Loop().Running())
	assert.ErrorIs(t, h.viewer.Start(context.Background()), ErrClosed)

	h.viewer.Close()
}

func TestNewViewerRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Bindings.LightPosition = config.Range{Min: 5, Max: -5}
	_, err := NewViewer(cfg, fstest.MapFS{}, &fakeRenderer{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestPostRunsOnNextRefresh(t *testing.T) {
	h := newHarness(t, nil)
	ran := false
	require.True(t, h.viewer.Post(func() { ran = true }))
	assert.False(t, ran)

	h.host.update()
	assert.True(t, ran)

	h.viewer.Close()
	assert.False(t, h.viewer.Post(func() {}))
}
