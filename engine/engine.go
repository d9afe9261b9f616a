package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/timeline"
)

var (
	// ErrAlreadyRunning is returned by Start while the loop is running.
	ErrAlreadyRunning = errors.New("engine: render loop already running")

	// ErrMissingDependency is returned by Start when a required collaborator was not configured.
	ErrMissingDependency = errors.New("engine: render loop is missing a dependency")
)

// FrameRenderer draws one frame of a scene. renderer.Renderer satisfies it.
type FrameRenderer interface {
	Render(s scene.Scene, cam camera.Camera) error
}

// renderLoop implements the RenderLoop interface.
type renderLoop struct {
	mu *sync.Mutex

	timeline   timeline.Timeline
	controller camera.CameraController
	camera     camera.Camera
	scene      scene.Scene
	renderer   FrameRenderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	ctx     context.Context
	running bool
	handle  timeline.Handle
	ticks   uint64
	last    time.Time
	onTick  func(dt float32)
	logger  *slog.Logger
}

// RenderLoop is the perpetual frame driver.
//
// Every tick advances the camera controller, refreshes the camera matrices, renders the scene and re-arms
// itself on the timeline for the next display refresh. The loop never owns a goroutine: it runs entirely on
// the timeline, so ticks never overlap with load completions, resizes or control changes.
type RenderLoop interface {
	// Start runs the first tick synchronously and arms the next one.
	// Cancelling ctx stops the loop at its next tick.
	//
	// Parameters:
	//   - ctx: the loop lifetime
	//
	// Returns:
	//   - error: ErrAlreadyRunning or ErrMissingDependency
	Start(ctx context.Context) error

	// Stop revokes the armed tick. Safe to call multiple times.
	Stop()

	// Running reports whether a tick is armed.
	//
	// Returns:
	//   - bool: true while the loop is running
	Running() bool

	// Ticks returns the number of ticks run so far.
	//
	// Returns:
	//   - uint64: the tick count
	Ticks() uint64

	// EnableProfiler enables frame statistics logging.
	EnableProfiler()

	// DisableProfiler disables frame statistics logging.
	DisableProfiler()
}

var _ RenderLoop = &renderLoop{}

// NewRenderLoop creates a RenderLoop. The timeline, camera, scene and renderer must be supplied through options
// before Start. The controller is optional.
//
// Parameters:
//   - options: functional options for loop configuration
//
// Returns:
//   - RenderLoop: the newly created render loop
func NewRenderLoop(options ...RenderLoopBuilderOption) RenderLoop {
	l := &renderLoop{
		mu:       &sync.Mutex{},
		profiler: profiler.NewProfiler(),
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *renderLoop) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	if err := l.validate(); err != nil {
		l.mu.Unlock()
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	l.ctx = ctx
	l.running = true
	l.last = time.Time{}
	l.mu.Unlock()

	l.tick(time.Now())
	return nil
}

func (l *renderLoop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.running = false
	l.timeline.Cancel(l.handle)
	l.handle = 0
}

func (l *renderLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *renderLoop) Ticks() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticks
}

func (l *renderLoop) EnableProfiler() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profilingEnabled = true
}

func (l *renderLoop) DisableProfiler() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profilingEnabled = false
}

// --- internal helpers ---

func (l *renderLoop) validate() error {
	switch {
	case l.timeline == nil:
		return fmt.Errorf("%w: timeline", ErrMissingDependency)
	case l.camera == nil:
		return fmt.Errorf("%w: camera", ErrMissingDependency)
	case l.scene == nil:
		return fmt.Errorf("%w: scene", ErrMissingDependency)
	case l.renderer == nil:
		return fmt.Errorf("%w: renderer", ErrMissingDependency)
	}
	return nil
}

// tick runs one frame and re-arms the next. A panic inside the frame is recovered and logged so the loop keeps
// running.
func (l *renderLoop) tick(now time.Time) {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	if err := l.ctx.Err(); err != nil {
		l.running = false
		l.handle = 0
		l.mu.Unlock()
		l.logger.Debug("render loop stopped", "reason", err)
		return
	}
	var dt float32
	if !l.last.IsZero() {
		dt = float32(now.Sub(l.last).Seconds())
	}
	l.last = now
	l.ticks++
	profiling := l.profilingEnabled
	l.mu.Unlock()

	l.frame(dt)
	if profiling {
		l.profiler.TickAt(now)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		l.handle = l.timeline.RequestFrame(l.tick)
		if l.handle == 0 {
			l.running = false
		}
	}
}

func (l *renderLoop) frame(dt float32) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("render tick recovered from panic", "panic", r)
		}
	}()

	if l.controller != nil {
		l.controller.Update()
	}
	l.camera.Update()

	if err := l.renderer.Render(l.scene, l.camera); err != nil {
		l.logger.Error("render failed", "err", err)
	}

	if l.onTick != nil {
		l.onTick(dt)
	}
}
