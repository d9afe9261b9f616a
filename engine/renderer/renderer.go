package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

// ErrClosed is returned when rendering through a closed renderer.
var ErrClosed = errors.New("renderer: closed")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend

	width, height int
	pixelRatio    float64

	// drawing buffer size the surface was last configured at
	configured [2]int

	outputColorSpace        common.ColorSpace
	shadowMapType           ShadowMapType
	physicallyCorrectLights bool
	presentMode             PresentMode

	clearCache   *common.CubeTexture
	clearColor   [4]float64
	defaultClear [4]float64

	frames uint64
	closed bool
	logger *slog.Logger

	// wgpu construction config collected from builder options
	forceFallbackAdapter bool
}

// Renderer draws a Scene from a Camera into the presentation surface.
//
// The renderer owns the drawing buffer, which is the logical size multiplied by the pixel ratio. Shading math
// and draw submission for individual meshes belong to the rasterizer behind the backend: the renderer decides
// what each frame contains and in which color space.
type Renderer interface {
	// Render draws one frame. A zero-area drawing buffer skips the frame without error.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the camera to draw it from
	//
	// Returns:
	//   - error: ErrClosed after Close, or the backend failure
	Render(s scene.Scene, cam camera.Camera) error

	// SetSize sets the logical size of the drawing surface.
	//
	// Parameters:
	//   - width: the logical width, negative values are treated as 0
	//   - height: the logical height, negative values are treated as 0
	SetSize(width, height int)

	// SetPixelRatio sets the drawing buffer density.
	//
	// Parameters:
	//   - ratio: physical pixels per logical pixel, non-positive values mean 1
	SetPixelRatio(ratio float64)

	// Size returns the logical size.
	Size() (width, height int)

	// PixelRatio returns the drawing buffer density.
	PixelRatio() float64

	// DrawingBufferSize returns the size of the drawing buffer in physical pixels.
	DrawingBufferSize() (width, height int)

	// OutputColorSpace returns the encoding frames are written in. Textures shown directly, such as the
	// background, must be tagged with this color space.
	OutputColorSpace() common.ColorSpace

	// ShadowMapType returns the shadow filtering the rasterizer is configured with.
	ShadowMapType() ShadowMapType

	// PhysicallyCorrectLights reports whether light intensities are in physical units.
	PhysicallyCorrectLights() bool

	// Frames returns the number of frames drawn.
	Frames() uint64

	// Close releases the backend. Later Render calls return ErrClosed.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer that records frames through backend.
//
// Parameters:
//   - backend: the GPU backend
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new renderer
func NewRenderer(backend RendererBackend, options ...RendererBuilderOption) Renderer {
	r := newRenderer(options...)
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)
	return r
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if s == nil || cam == nil {
		return nil
	}

	w, h := DrawingBufferSize(r.width, r.height, r.pixelRatio)
	if w == 0 || h == 0 {
		return nil
	}
	if r.configured != [2]int{w, h} {
		if err := r.backend.ConfigureSurface(w, h); err != nil {
			return fmt.Errorf("configure surface %dx%d: %w", w, h, err)
		}
		r.configured = [2]int{w, h}
		if got := r.backend.SurfaceColorSpace(); got != r.outputColorSpace {
			r.logger.Warn("surface color space differs from output", "surface", got, "output", r.outputColorSpace)
		}
	}

	desc := FrameDescriptor{ClearColor: r.backgroundClear(s.Background())}
	for _, l := range s.Lights() {
		if !l.Visible() || !l.Light().Enabled() || !l.Light().CastsShadows() {
			continue
		}
		mw, mh := l.Light().Shadow().MapSize()
		desc.ShadowMaps = append(desc.ShadowMaps, [2]int{mw, mh})
	}

	if err := r.backend.DrawFrame(desc); err != nil {
		return fmt.Errorf("draw frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

func (r *renderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = max(width, 0), max(height, 0)
}

func (r *renderer) SetPixelRatio(ratio float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = 1
	}
	r.pixelRatio = ratio
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) PixelRatio() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pixelRatio
}

func (r *renderer) DrawingBufferSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return DrawingBufferSize(r.width, r.height, r.pixelRatio)
}

func (r *renderer) OutputColorSpace() common.ColorSpace {
	return r.outputColorSpace
}

func (r *renderer) ShadowMapType() ShadowMapType {
	return r.shadowMapType
}

func (r *renderer) PhysicallyCorrectLights() bool {
	return r.physicallyCorrectLights
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.backend != nil {
		r.backend.Release()
	}
}

// DrawingBufferSize returns the physical pixel size of a logical surface at the given pixel ratio.
// Fractional pixels are truncated.
//
// Parameters:
//   - width: the logical width
//   - height: the logical height
//   - ratio: the pixel ratio
//
// Returns:
//   - int: the drawing buffer width
//   - int: the drawing buffer height
func DrawingBufferSize(width, height int, ratio float64) (int, int) {
	if width <= 0 || height <= 0 || ratio <= 0 {
		return 0, 0
	}
	return int(math.Floor(float64(width) * ratio)), int(math.Floor(float64(height) * ratio))
}

// SRGBToLinear decodes one sRGB-encoded channel in [0, 1].
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// --- internal helpers ---

func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:                      &sync.Mutex{},
		pixelRatio:              1,
		outputColorSpace:        common.ColorSpaceSRGB,
		shadowMapType:           ShadowMapPCFSoft,
		physicallyCorrectLights: true,
		presentMode:             PresentModeVSync,
		defaultClear:            [4]float64{0, 0, 0, 1},
		logger:                  slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// backgroundClear returns the linear clear color standing in for the background. The mean color of a cube texture
// is cached per texture since faces are immutable once loaded.
func (r *renderer) backgroundClear(bg *common.CubeTexture) [4]float64 {
	if bg == nil {
		return r.defaultClear
	}
	if bg == r.clearCache {
		return r.clearColor
	}

	c := bg.MeanColor()
	if bg.ColorSpace == common.ColorSpaceSRGB {
		for i := 0; i < 3; i++ {
			c[i] = SRGBToLinear(c[i])
		}
	}
	r.clearCache, r.clearColor = bg, c
	return c
}
