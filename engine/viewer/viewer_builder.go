package viewer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/timeline"
)

// ViewerBuilderOption is a functional option for configuring a Viewer via NewViewer.
type ViewerBuilderOption func(*viewerImpl)

// WithHost attaches the viewer to a host window: its update callback steps the timeline, and its resize, pointer,
// scroll and key events are posted onto the timeline. The initial resize uses the host size.
//
// Parameters:
//   - h: the host window
//
// Returns:
//   - ViewerBuilderOption: a function that applies the host to a viewer
func WithHost(h Host) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.host = h
	}
}

// WithTimeline sets the timeline the viewer runs on. Defaults to a new timeline.
//
// Parameters:
//   - t: the timeline
//
// Returns:
//   - ViewerBuilderOption: a function that applies the timeline to a viewer
func WithTimeline(t timeline.Timeline) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.timeline = t
	}
}

// WithLoader replaces the asset loader. Outcomes must be posted to the viewer's timeline.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - ViewerBuilderOption: a function that applies the loader to a viewer
func WithLoader(l loader.Loader) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.loader = l
	}
}

// WithProfiling enables frame statistics logging from the start. The P key toggles it at runtime.
//
// Parameters:
//   - enabled: true to log frame statistics
//
// Returns:
//   - ViewerBuilderOption: a function that applies the profiling flag to a viewer
func WithProfiling(enabled bool) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.profiling = enabled
	}
}

// WithModelCallback sets a function called on the timeline after the model is added to the scene.
//
// Parameters:
//   - fn: receives the model root
//
// Returns:
//   - ViewerBuilderOption: a function that applies the callback to a viewer
func WithModelCallback(fn func(scene.Node)) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.onModel = fn
	}
}

// WithEnvironmentCallback sets a function called on the timeline after the environment is applied.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - ViewerBuilderOption: a function that applies the callback to a viewer
func WithEnvironmentCallback(fn func()) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.onEnvironment = fn
	}
}

// WithLogger sets the logger shared by every component the viewer creates.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - ViewerBuilderOption: a function that applies the logger to a viewer
func WithLogger(logger *slog.Logger) ViewerBuilderOption {
	return func(v *viewerImpl) {
		if logger != nil {
			v.logger = logger
		}
	}
}
