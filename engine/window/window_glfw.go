package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// newPlatformWindow creates the GLFW window, registers input callbacks and reads back the actual size.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialize GLFW: %w", err)
	}

	// WebGPU owns the surface, so no OpenGL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, glfw.DontCare, glfw.DontCare)

	gw := &glfwWindow{window: win, running: true}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		code := uint32(key)
		if code == common.KeyEsc {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		if w.onKeyDown != nil {
			w.onKeyDown(code)
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b, ok := mouseButton(button)
		if !ok {
			return
		}
		x, y := win.GetCursorPos()
		switch action {
		case glfw.Press:
			if w.onPointerDown != nil {
				w.onPointerDown(b, float32(x), float32(y))
			}
		case glfw.Release:
			if w.onPointerUp != nil {
				w.onPointerUp(b, float32(x), float32(y))
			}
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onPointerMove != nil {
			w.onPointerMove(float32(x), float32(y))
		}
	})

	// Window size and framebuffer size arrive as separate events on high-DPI displays; both recompute the
	// logical size and ratio from the current state.
	win.SetSizeCallback(func(*glfw.Window, int, int) {
		w.resized(measure(win))
	})
	win.SetFramebufferSizeCallback(func(*glfw.Window, int, int) {
		w.resized(measure(win))
	})

	w.width, w.height, w.pixelRatio = measure(win)
	return nil
}

// measure returns the logical size and the framebuffer-to-window ratio. A minimized window reports zero.
func measure(win *glfw.Window) (int, int, float64) {
	width, height := win.GetSize()
	fbWidth, _ := win.GetFramebufferSize()
	ratio := 1.0
	if width > 0 && fbWidth > 0 {
		ratio = float64(fbWidth) / float64(width)
	}
	return width, height, ratio
}

func mouseButton(b glfw.MouseButton) (common.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return common.MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return common.MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return common.MouseButtonMiddle, true
	default:
		return 0, false
	}
}

// platformGetSurfaceDescriptor creates the surface descriptor through the wgpuglfw bridge.
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || !gw.running {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return false
	}
	return gw.running && !gw.window.ShouldClose()
}

func platformCloseWindow(w *engineWindow) error {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return errors.New("window is not initialized")
	}
	w.internalWindow = nil
	gw.running = false
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// platformProcessMessages dispatches pending events without blocking.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
