package common

// Virtual key codes for viewer shortcuts.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyR   = 82  // R key (ASCII), reset the camera
	KeyD   = 68  // D key (ASCII), toggle camera damping
	KeyP   = 80  // P key (ASCII), toggle frame statistics
	KeyEsc = 256 // Escape key (GLFW)
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}
