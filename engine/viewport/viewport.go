package viewport

import (
	"log/slog"
	"sync"
)

// DefaultMaxPixelRatio caps the drawing buffer density. Displays denser than this are rendered at this ratio and
// upscaled, bounding per-pixel shading cost.
const DefaultMaxPixelRatio = 2.0

// Projection is the part of a camera the viewport drives. camera.Camera satisfies it.
type Projection interface {
	SetAspect(aspect float32)
}

// RenderTarget is the drawable surface the viewport sizes. renderer.Renderer satisfies it.
type RenderTarget interface {
	SetSize(width, height int)
	SetPixelRatio(ratio float64)
}

// State is a consistent view of the viewport taken under its lock.
type State struct {
	// Width and Height are the logical surface size.
	Width, Height int

	// PixelRatio is the applied drawing buffer density, at most the viewport cap.
	PixelRatio float64

	// Aspect is the ratio last pushed to the camera. It keeps its previous value while the surface has zero area.
	Aspect float32
}

// Degenerate reports whether the surface has zero area.
func (s State) Degenerate() bool {
	return s.Width <= 0 || s.Height <= 0
}

type viewportImpl struct {
	mu *sync.Mutex

	camera Projection
	target RenderTarget

	state         State
	maxPixelRatio float64
	logger        *slog.Logger
}

// Viewport tracks the display surface size and density and keeps the camera projection and the render target
// in step with it.
type Viewport interface {
	// Resize applies a new surface size as one update: aspect, camera projection, render target size, then
	// pixel ratio. No reader observes a partially applied resize.
	// A zero or negative dimension sizes the render target to zero area and leaves the camera aspect unchanged.
	//
	// Parameters:
	//   - width: the logical surface width
	//   - height: the logical surface height
	//   - deviceRatio: the display's physical pixels per logical pixel, non-positive values mean 1
	Resize(width, height int, deviceRatio float64)

	// Snapshot returns the current state.
	//
	// Returns:
	//   - State: width, height, pixel ratio and aspect from the same resize
	Snapshot() State

	// MaxPixelRatio returns the pixel ratio cap.
	//
	// Returns:
	//   - float64: the cap
	MaxPixelRatio() float64
}

var _ Viewport = &viewportImpl{}

// NewViewport creates a Viewport bound to a camera and a render target. No resize is applied until Resize is
// called. Panics if either collaborator is nil.
//
// Parameters:
//   - cam: the camera whose aspect the viewport owns
//   - target: the render target sized on resize
//   - options: variadic list of ViewportBuilderOption functions
//
// Returns:
//   - Viewport: a new viewport
func NewViewport(cam Projection, target RenderTarget, options ...ViewportBuilderOption) Viewport {
	if cam == nil {
		panic("viewport: camera must not be nil")
	}
	if target == nil {
		panic("viewport: render target must not be nil")
	}

	v := &viewportImpl{
		mu:            &sync.Mutex{},
		camera:        cam,
		target:        target,
		state:         State{PixelRatio: 1, Aspect: 1},
		maxPixelRatio: DefaultMaxPixelRatio,
		logger:        slog.Default(),
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

func (v *viewportImpl) Resize(width, height int, deviceRatio float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if deviceRatio <= 0 {
		deviceRatio = 1
	}
	width, height = max(width, 0), max(height, 0)

	next := State{
		Width:      width,
		Height:     height,
		PixelRatio: min(deviceRatio, v.maxPixelRatio),
		Aspect:     v.state.Aspect,
	}

	if !next.Degenerate() {
		next.Aspect = float32(width) / float32(height)
		v.camera.SetAspect(next.Aspect)
	} else {
		v.logger.Debug("degenerate resize", "width", width, "height", height)
	}
	v.target.SetSize(width, height)
	v.target.SetPixelRatio(next.PixelRatio)

	v.state = next
}

func (v *viewportImpl) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *viewportImpl) MaxPixelRatio() float64 {
	return v.maxPixelRatio
}
