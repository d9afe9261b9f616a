package viewer

import (
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

// Host is the window the viewer is shown in. window.Window satisfies it.
type Host interface {
	Width() int
	Height() int
	PixelRatio() float64
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int, pixelRatio float64))
	SetScrollCallback(callback func(delta float32))
	SetKeyDownCallback(callback func(keyCode uint32))
	SetPointerDownCallback(callback func(button common.MouseButton, x, y float32))
	SetPointerUpCallback(callback func(button common.MouseButton, x, y float32))
	SetPointerMoveCallback(callback func(x, y float32))
}

// pointerInput turns pointer drags into orbit and pan gestures: left button orbits, right button pans.
type pointerInput struct {
	controller camera.CameraController
	button     common.MouseButton
	dragging   bool
	lastX      float32
	lastY      float32
}

func newPointerInput(c camera.CameraController) *pointerInput {
	return &pointerInput{controller: c}
}

func (p *pointerInput) down(b common.MouseButton, x, y float32) {
	if p.dragging || (b != common.MouseButtonLeft && b != common.MouseButtonRight) {
		return
	}
	p.button = b
	p.dragging = true
	p.lastX, p.lastY = x, y
}

func (p *pointerInput) up(b common.MouseButton) {
	if p.dragging && b == p.button {
		p.dragging = false
	}
}

func (p *pointerInput) move(x, y float32) {
	if !p.dragging {
		return
	}
	dx, dy := x-p.lastX, y-p.lastY
	p.lastX, p.lastY = x, y
	if dx == 0 && dy == 0 {
		return
	}
	switch p.button {
	case common.MouseButtonLeft:
		p.controller.OrbitBy(dx, dy)
	case common.MouseButtonRight:
		// Screen y grows downward; dragging up should move the view up.
		p.controller.Pan(-dx, dy)
	}
}

func (p *pointerInput) scroll(delta float32) {
	p.controller.Zoom(delta)
}

// attach routes host events onto the timeline and makes the host's update callback drive it.
func (v *viewerImpl) attach(h Host) {
	post := v.timeline.Post

	h.SetUpdateCallback(func() {
		v.Step(time.Now())
	})
	h.SetResizeCallback(func(width, height int, pixelRatio float64) {
		v.Resize(width, height, pixelRatio)
	})
	h.SetScrollCallback(func(delta float32) {
		post(func() { v.input.scroll(delta) })
	})
	h.SetPointerDownCallback(func(b common.MouseButton, x, y float32) {
		post(func() { v.input.down(b, x, y) })
	})
	h.SetPointerUpCallback(func(b common.MouseButton, _, _ float32) {
		post(func() { v.input.up(b) })
	})
	h.SetPointerMoveCallback(func(x, y float32) {
		post(func() { v.input.move(x, y) })
	})
	h.SetKeyDownCallback(func(keyCode uint32) {
		post(func() { v.key(keyCode) })
	})
}

func (v *viewerImpl) key(keyCode uint32) {
	switch keyCode {
	case common.KeyR:
		v.resetCamera()
	case common.KeyD:
		on := !v.controller.Damping()
		v.controller.SetDamping(on)
		v.logger.Info("camera damping", "enabled", on)
	case common.KeyP:
		v.toggleProfiler()
	}
}
