package window

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the host surface the viewer draws into and the source of its input events.
//
// Sizes are reported in logical units. PixelRatio converts them to drawing-buffer pixels, so a resize event
// always carries both and a viewport can recompute its projection and its backing store from one callback.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration, after events are dispatched.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window or its pixel ratio changes.
	//
	// Parameters:
	//   - callback: function receiving the logical size and the device pixel ratio
	SetResizeCallback(callback func(width, height int, pixelRatio float64))

	// SetScrollCallback sets the callback for mouse wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical delta, positive away from the user
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code, see the common key constants
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetPointerDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button and the pointer position
	SetPointerDownCallback(callback func(button common.MouseButton, x, y float32))

	// SetPointerUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the button and the pointer position
	SetPointerUpCallback(callback func(button common.MouseButton, x, y float32))

	// SetPointerMoveCallback sets the callback for pointer movement.
	//
	// Parameters:
	//   - callback: function receiving the pointer position
	SetPointerMoveCallback(callback func(x, y float32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for the window, created by the wgpuglfw bridge.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	//
	// Returns:
	//   - bool: true until the window is closed
	IsRunning() bool

	// Close destroys the window.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the message loop until the window closes.
	ProcessMessages()

	// Width returns the logical client width.
	Width() int

	// Height returns the logical client height.
	Height() int

	// PixelRatio returns the ratio of drawing-buffer pixels to logical units.
	//
	// Returns:
	//   - float64: the device pixel ratio, at least 1
	PixelRatio() float64
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	minWidth  int
	minHeight int

	// width and height are the logical client size.
	width  int
	height int

	// pixelRatio is framebuffer pixels per logical unit.
	pixelRatio float64

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(width, height int, pixelRatio float64)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onPointerDown func(button common.MouseButton, x, y float32)
	onPointerUp   func(button common.MouseButton, x, y float32)
	onPointerMove func(x, y float32)

	logger *slog.Logger
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window. It must be called from the main goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:      "oxy viewer",
		minWidth:   1,
		minHeight:  1,
		width:      1280,
		height:     720,
		pixelRatio: 1,
		logger:     slog.Default(),
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("create platform window: %w", err)
	}
	w.logger.Debug("window created", "width", w.width, "height", w.height, "pixel_ratio", w.pixelRatio)
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int, pixelRatio float64)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetPointerDownCallback(callback func(button common.MouseButton, x, y float32)) {
	w.onPointerDown = callback
}

func (w *engineWindow) SetPointerUpCallback(callback func(button common.MouseButton, x, y float32)) {
	w.onPointerUp = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float32)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if ok := platformProcessMessages(w); !ok {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) PixelRatio() float64 {
	return w.pixelRatio
}

// --- internal helpers ---

// resized records a new size and notifies the resize callback if anything changed.
func (w *engineWindow) resized(width, height int, pixelRatio float64) {
	if pixelRatio < 1 {
		pixelRatio = 1
	}
	if width == w.width && height == w.height && pixelRatio == w.pixelRatio {
		return
	}
	w.width, w.height, w.pixelRatio = width, height, pixelRatio
	if w.onResize != nil {
		w.onResize(width, height, pixelRatio)
	}
}
