package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// RendererBuilderOption is a functional option applied to a renderer during construction.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithOutputColorSpace sets the encoding frames are written in. Defaults to sRGB.
//
// Parameters:
//   - cs: the output color space
//
// Returns:
//   - RendererBuilderOption: a function that applies the color space option to a renderer
func WithOutputColorSpace(cs common.ColorSpace) RendererBuilderOption {
	return func(r *renderer) {
		r.outputColorSpace = cs
	}
}

// WithShadowMapType sets the shadow filtering handed to the rasterizer. Defaults to ShadowMapPCFSoft.
//
// Parameters:
//   - t: the shadow map type
//
// Returns:
//   - RendererBuilderOption: a function that applies the shadow map option to a renderer
func WithShadowMapType(t ShadowMapType) RendererBuilderOption {
	return func(r *renderer) {
		r.shadowMapType = t
	}
}

// WithPhysicallyCorrectLights sets whether light intensities are interpreted in physical units. Defaults to true.
//
// Parameters:
//   - enabled: true for physical light units
//
// Returns:
//   - RendererBuilderOption: a function that applies the lighting mode option to a renderer
func WithPhysicallyCorrectLights(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.physicallyCorrectLights = enabled
	}
}

// WithClearColor sets the linear color cleared to while the scene has no background.
//
// Parameters:
//   - rgba: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(rgba [4]float64) RendererBuilderOption {
	return func(r *renderer) {
		r.defaultClear = rgba
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). Only NewWGPURenderer reads it.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithLogger sets the logger used for diagnostics.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
