// Package viewer assembles the scene, camera, light, controls, loaders and render loop into the interactive model
// viewer, and routes host window events onto the render timeline.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/params"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/timeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("viewer: closed")

// Renderer is what the viewer draws with and resizes. renderer.Renderer satisfies it.
type Renderer interface {
	engine.FrameRenderer
	viewport.RenderTarget
}

// viewerImpl is the implementation of the Viewer interface.
type viewerImpl struct {
	mu *sync.Mutex

	cfg   *config.Config
	debug *config.DebugParams

	timeline   timeline.Timeline
	scene      scene.Scene
	camera     camera.Camera
	controller camera.CameraController
	sun        *scene.LightNode
	panel      *params.Panel
	viewport   viewport.Viewport
	loader     loader.Loader
	loop       engine.RenderLoop
	renderer   Renderer
	host       Host
	input      *pointerInput

	home      orbit
	model     scene.Node
	started   bool
	closed    bool
	profiling bool

	onModel       func(scene.Node)
	onEnvironment func()
	logger        *slog.Logger
}

// orbit is a saved controller pose.
type orbit struct {
	radius, azimuth, elevation float32
}

// Viewer is the interactive model viewer.
//
// Everything that touches the scene runs on the viewer's timeline: load results, resizes, input and control
// changes are all posted there, and the render loop ticks there. The host drives the timeline by calling
// Step once per display refresh, which Attach wires to the host's update callback.
type Viewer interface {
	// Start begins loading the environment and the model, performs the initial resize and starts the render
	// loop, whose first frame renders before Start returns.
	//
	// Parameters:
	//   - ctx: the viewer lifetime, cancelling it stops the render loop
	//
	// Returns:
	//   - error: ErrClosed, or an error starting the render loop
	Start(ctx context.Context) error

	// Step runs one display refresh of the timeline.
	//
	// Parameters:
	//   - now: the refresh time
	Step(now time.Time)

	// Post runs fn on the timeline at the next refresh. It is dropped after Close.
	//
	// Parameters:
	//   - fn: the task
	//
	// Returns:
	//   - bool: false if the task was dropped
	Post(fn func()) bool

	// Resize posts a viewport resize onto the timeline.
	//
	// Parameters:
	//   - width: the logical width
	//   - height: the logical height
	//   - pixelRatio: the device pixel ratio
	Resize(width, height int, pixelRatio float64)

	// Scene returns the rendered scene.
	Scene() scene.Scene

	// Camera returns the viewer camera.
	Camera() camera.Camera

	// Controller returns the orbit controller driving the camera.
	Controller() camera.CameraController

	// Light returns the directional light node.
	Light() *scene.LightNode

	// Panel returns the debug controls in binding order.
	Panel() *params.Panel

	// Debug returns the debug parameters bound to the panel.
	Debug() *config.DebugParams

	// Viewport returns the viewport state holder.
	Viewport() viewport.Viewport

	// Model returns the loaded model root, or nil until the model load succeeds.
	Model() scene.Node

	// Loop returns the render loop.
	Loop() engine.RenderLoop

	// UpdateAllMaterials applies the debug environment map intensity to every standard material currently in
	// the scene.
	//
	// Returns:
	//   - int: the number of materials updated
	UpdateAllMaterials() int

	// Close stops the render loop, cancels pending loads and disposes the scene and the timeline. Load results
	// that arrive afterwards are dropped.
	Close()
}

var _ Viewer = &viewerImpl{}

// NewViewer builds the scene, camera, light and controls described by cfg.
//
// Parameters:
//   - cfg: the validated configuration
//   - store: the asset store models and environment maps are read from
//   - r: the renderer frames are drawn with
//   - options: variadic list of ViewerBuilderOption functions
//
// Returns:
//   - Viewer: the assembled viewer, not yet started
//   - error: an invalid configuration or a binding failure
func NewViewer(cfg *config.Config, store fs.FS, r Renderer, options ...ViewerBuilderOption) (Viewer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: renderer", engine.ErrMissingDependency)
	}

	v := &viewerImpl{
		mu:       &sync.Mutex{},
		cfg:      cfg,
		debug:    &cfg.Debug,
		renderer: r,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(v)
	}
	if v.timeline == nil {
		v.timeline = timeline.NewTimeline(timeline.WithLogger(v.logger))
	}

	v.scene = scene.NewScene(scene.WithName("viewer"), scene.WithLogger(v.logger))
	v.buildCamera()
	if err := v.buildLight(); err != nil {
		return nil, err
	}
	if err := v.bindControls(); err != nil {
		return nil, err
	}

	cs, err := cfg.OutputColorSpace()
	if err != nil {
		return nil, err
	}
	if v.loader == nil {
		v.loader = loader.NewLoader(store, v.timeline,
			loader.WithWorkers(cfg.Assets.Workers),
			loader.WithColorSpace(cs),
			loader.WithLogger(v.logger),
		)
	}

	v.viewport = viewport.NewViewport(v.camera, v.renderer,
		viewport.WithMaxPixelRatio(cfg.Window.MaxPixelRatio),
		viewport.WithLogger(v.logger),
	)
	v.loop = engine.NewRenderLoop(
		engine.WithTimeline(v.timeline),
		engine.WithController(v.controller),
		engine.WithCamera(v.camera),
		engine.WithScene(v.scene),
		engine.WithRenderer(v.renderer),
		engine.WithProfiling(v.profiling),
		engine.WithLogger(v.logger),
	)
	v.input = newPointerInput(v.controller)

	if v.host != nil {
		v.attach(v.host)
	}
	return v, nil
}

func (v *viewerImpl) Start(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.started {
		v.mu.Unlock()
		return engine.ErrAlreadyRunning
	}
	v.started = true
	v.mu.Unlock()

	v.loadEnvironment()
	v.loadModel()

	width, height, ratio := v.cfg.Window.Width, v.cfg.Window.Height, 1.0
	if v.host != nil {
		width, height, ratio = v.host.Width(), v.host.Height(), v.host.PixelRatio()
	}
	v.viewport.Resize(width, height, ratio)

	return v.loop.Start(ctx)
}

func (v *viewerImpl) Step(now time.Time) {
	v.timeline.Step(now)
}

func (v *viewerImpl) Post(fn func()) bool {
	return v.timeline.Post(fn)
}

func (v *viewerImpl) Resize(width, height int, pixelRatio float64) {
	v.timeline.Post(func() {
		v.viewport.Resize(width, height, pixelRatio)
	})
}

func (v *viewerImpl) Scene() scene.Scene {
	return v.scene
}

func (v *viewerImpl) Camera() camera.Camera {
	return v.camera
}

func (v *viewerImpl) Controller() camera.CameraController {
	return v.controller
}

func (v *viewerImpl) Light() *scene.LightNode {
	return v.sun
}

func (v *viewerImpl) Panel() *params.Panel {
	return v.panel
}

func (v *viewerImpl) Debug() *config.DebugParams {
	return v.debug
}

func (v *viewerImpl) Viewport() viewport.Viewport {
	return v.viewport
}

func (v *viewerImpl) Model() scene.Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.model
}

func (v *viewerImpl) Loop() engine.RenderLoop {
	return v.loop
}

func (v *viewerImpl) UpdateAllMaterials() int {
	intensity := float32(v.debug.EnvMapIntensity)
	return scene.StandardMaterials(v.scene, func(m *material.Standard) {
		m.SetEnvMapIntensity(intensity)
	})
}

func (v *viewerImpl) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.loop.Stop()
	v.loader.Close()
	v.scene.Dispose()
	v.timeline.Dispose()
	v.logger.Info("viewer closed", "frames", v.loop.Ticks())
}

// --- internal helpers ---

func (v *viewerImpl) buildCamera() {
	c := v.cfg.Camera
	v.controller = camera.NewCameraController(
		camera.WithControllerTarget(0, 0, 0),
		camera.WithControllerPosition(c.Position[0], c.Position[1], c.Position[2]),
		camera.WithDamping(c.Damping),
	)
	v.home = orbit{
		radius:    v.controller.Radius(),
		azimuth:   v.controller.Azimuth(),
		elevation: v.controller.Elevation(),
	}
	v.camera = camera.NewCamera(
		camera.WithFovDegrees(c.FovDegrees),
		camera.WithNear(c.Near),
		camera.WithFar(c.Far),
		camera.WithPosition(c.Position[0], c.Position[1], c.Position[2]),
		camera.WithController(v.controller),
	)
	v.scene.SetCamera(v.camera)
}

func (v *viewerImpl) buildLight() error {
	l := v.cfg.Light
	hex, err := v.cfg.LightColor()
	if err != nil {
		return err
	}
	sun := scene.NewLightNode("sun", light.NewLight(light.LightTypeDirectional,
		light.WithHexColor(hex),
		light.WithIntensity(l.Intensity),
		light.WithCastsShadows(l.CastShadow),
		light.WithShadowMapSize(l.ShadowMapSize, l.ShadowMapSize),
		light.WithShadowNearFar(l.ShadowNear, l.ShadowFar),
		light.WithShadowBias(l.ShadowBias),
	))
	sun.Position().Set(l.Position[0], l.Position[1], l.Position[2])
	if err := v.scene.AddLight(sun); err != nil {
		return fmt.Errorf("add light: %w", err)
	}
	v.sun = sun
	return nil
}

// bindControls adds the light and debug controls. The model rotation control is added when the model arrives.
func (v *viewerImpl) bindControls() error {
	b := v.cfg.Bindings
	v.panel = params.NewPanel(params.WithTitle("viewer"), params.WithLogger(v.logger))

	pos := v.sun.Position()
	bindings := []struct {
		target   any
		property string
		label    string
		rng      config.Range
		onChange func(float64)
	}{
		{target: v.sun.Light(), property: "Intensity", label: "lightIntensity", rng: b.LightIntensity},
		{target: pos, property: "X", label: "lightX", rng: b.LightPosition},
		{target: pos, property: "Y", label: "lightY", rng: b.LightPosition},
		{target: pos, property: "Z", label: "lightZ", rng: b.LightPosition},
		{
			target: v.debug, property: "EnvMapIntensity", label: "envMapIntensity", rng: b.EnvMapIntensity,
			onChange: func(float64) { v.UpdateAllMaterials() },
		},
	}
	for _, bd := range bindings {
		opts := []params.ControlBuilderOption{
			params.WithLabel(bd.label),
			params.WithRange(bd.rng.Min, bd.rng.Max),
			params.WithStep(b.Step),
		}
		if bd.onChange != nil {
			opts = append(opts, params.WithOnChange(bd.onChange))
		}
		if _, err := v.panel.Add(bd.target, bd.property, opts...); err != nil {
			return fmt.Errorf("bind %s: %w", bd.label, err)
		}
	}
	return nil
}

func (v *viewerImpl) loadEnvironment() {
	faces := v.cfg.Assets.EnvironmentFaces
	v.loader.LoadEnvironment(faces, func(o loader.EnvironmentOutcome) {
		if o.Kind == loader.OutcomeFailure {
			v.logLoadError("environment load failed", o.Err)
			return
		}
		v.scene.SetBackground(o.Texture)
		v.scene.SetEnvironment(o.Texture)
		v.logger.Info("environment loaded", "size", o.Texture.Size, "color_space", o.Texture.ColorSpace)
		if v.onEnvironment != nil {
			v.onEnvironment()
		}
	})
}

func (v *viewerImpl) loadModel() {
	uri := v.cfg.Assets.Model
	v.loader.LoadModel(uri, func(o loader.ModelOutcome) {
		switch o.Kind {
		case loader.OutcomeProgress:
			v.logger.Info(fmt.Sprintf("%d %% loaded", int(math.Round(o.Progress*100))), "uri", uri)
		case loader.OutcomeFailure:
			v.logLoadError("model load failed", o.Err)
		case loader.OutcomeSuccess:
			v.addModel(o.Model)
		}
	})
}

func (v *viewerImpl) addModel(model *scene.Group) {
	if v.scene.Disposed() {
		return
	}
	if err := v.scene.AddModel(model, v.cfg.ModelTransform()); err != nil {
		v.logger.Error("add model failed", "model", model.Name(), "err", err)
		return
	}

	b := v.cfg.Bindings
	_, err := v.panel.Add(&model.Transform().Rotation, "Y",
		params.WithLabel("rotation"),
		params.WithRange(b.Rotation.Min, b.Rotation.Max),
		params.WithStep(b.Step),
	)
	if err != nil {
		v.logger.Error("bind rotation failed", "model", model.Name(), "err", err)
	}

	v.mu.Lock()
	v.model = model
	v.mu.Unlock()

	meshes := scene.Count(model, scene.NodeKindMesh)
	v.logger.Info("model loaded", "model", model.Name(), "meshes", meshes)
	if v.onModel != nil {
		v.onModel(model)
	}
}

func (v *viewerImpl) logLoadError(msg string, err *loader.LoadError) {
	if err == nil {
		v.logger.Error(msg)
		return
	}
	v.logger.Error(msg, "uri", err.URI, "kind", err.Kind, "cause", err.Err)
}

// resetCamera returns the controller goal to the starting pose.
func (v *viewerImpl) resetCamera() {
	v.controller.SetTarget(0, 0, 0)
	v.controller.SetRadius(v.home.radius)
	v.controller.SetAzimuth(v.home.azimuth)
	v.controller.SetElevation(v.home.elevation)
}

func (v *viewerImpl) toggleProfiler() {
	v.mu.Lock()
	v.profiling = !v.profiling
	on := v.profiling
	v.mu.Unlock()
	if on {
		v.loop.EnableProfiler()
	} else {
		v.loop.DisableProfiler()
	}
}
