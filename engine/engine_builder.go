package engine

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/timeline"
)

// RenderLoopBuilderOption is a functional option for configuring a RenderLoop.
// Use the With* functions to create options that are applied directly to the loop instance.
type RenderLoopBuilderOption func(*renderLoop)

// WithTimeline sets the timeline ticks are armed on.
//
// Parameters:
//   - t: the timeline
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithTimeline(t timeline.Timeline) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		l.timeline = t
	}
}

// WithController sets the camera controller advanced once per tick.
//
// Parameters:
//   - c: the camera controller
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithController(c camera.CameraController) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		l.controller = c
	}
}

// WithCamera sets the camera the scene is rendered from.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithCamera(c camera.Camera) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		l.camera = c
	}
}

// WithScene sets the scene rendered each tick.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithScene(s scene.Scene) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		l.scene = s
	}
}

// WithRenderer sets the renderer frames are drawn with.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithRenderer(r FrameRenderer) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		l.renderer = r
	}
}

// WithProfiler replaces the default profiler and enables it.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		if p != nil {
			l.profiler = p
			l.profilingEnabled = true
		}
	}
}

// WithProfiling enables or disables frame statistics logging.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithProfiling(enabled bool) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		l.profilingEnabled = enabled
	}
}

// WithTickCallback registers a function called at the end of every tick, after rendering.
//
// Parameters:
//   - callback: receives the seconds elapsed since the previous tick, 0 on the first
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithTickCallback(callback func(dt float32)) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		l.onTick = callback
	}
}

// WithLogger sets the logger used for render failures.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		if logger != nil {
			l.logger = logger
		}
	}
}
