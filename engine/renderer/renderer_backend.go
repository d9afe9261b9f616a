package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ShadowMapType selects the shadow filtering the rasterizer applies when sampling shadow maps.
type ShadowMapType int

const (
	// ShadowMapBasic takes a single unfiltered depth comparison.
	ShadowMapBasic ShadowMapType = iota

	// ShadowMapPCF filters with a fixed percentage-closer kernel.
	ShadowMapPCF

	// ShadowMapPCFSoft filters with a wider percentage-closer kernel for soft edges. This is the default.
	ShadowMapPCFSoft
)

func (t ShadowMapType) String() string {
	switch t {
	case ShadowMapBasic:
		return "basic"
	case ShadowMapPCF:
		return "pcf"
	case ShadowMapPCFSoft:
		return "pcf-soft"
	default:
		return "unknown"
	}
}

// ParseShadowMapType converts a name produced by ShadowMapType.String back to its value.
//
// Parameters:
//   - name: "basic", "pcf" or "pcf-soft"
//
// Returns:
//   - ShadowMapType: the parsed type
//   - error: an error for any other name
func ParseShadowMapType(name string) (ShadowMapType, error) {
	for _, t := range []ShadowMapType{ShadowMapBasic, ShadowMapPCF, ShadowMapPCFSoft} {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("renderer: unknown shadow map type %q", name)
}

// FrameDescriptor is everything the backend needs to record one frame.
type FrameDescriptor struct {
	// ClearColor is the linear RGBA color the color target is cleared to.
	ClearColor [4]float64

	// ShadowMaps lists the shadow map resolutions to clear this frame, one per shadow-casting light.
	ShadowMaps [][2]int
}

// RendererBackend is the GPU API the Renderer records frames through.
type RendererBackend interface {
	// ConfigureSurface (re)configures the presentation surface at the given drawing buffer size in pixels.
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SurfaceColorSpace reports the encoding of the configured surface format.
	SurfaceColorSpace() common.ColorSpace

	// DrawFrame acquires the surface image, records the shadow and main passes described by desc, submits and
	// presents.
	DrawFrame(desc FrameDescriptor) error

	// Release frees every GPU resource held by the backend.
	Release()
}
