package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraControllerOption is a function that configures a camera controller during construction.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial orbit radius.
//
// Parameters:
//   - radius: distance from target
//
// Returns:
//   - CameraControllerOption: a function that sets the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.goal.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle.
//
// Parameters:
//   - azimuth: horizontal angle in radians
//
// Returns:
//   - CameraControllerOption: a function that sets the azimuth
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.goal.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle.
//
// Parameters:
//   - elevation: vertical angle in radians
//
// Returns:
//   - CameraControllerOption: a function that sets the elevation
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.goal.elevation = elevation
	}
}

// WithControllerTarget sets the initial look-at point.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraControllerOption: a function that sets the target
func WithControllerTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.goal.target = mgl32.Vec3{x, y, z}
	}
}

// WithControllerPosition derives radius, azimuth and elevation from a world-space camera position relative to the
// target. Apply it after WithControllerTarget.
//
// Parameters:
//   - x, y, z: world-space camera position
//
// Returns:
//   - CameraControllerOption: a function that sets the spherical coordinates
func WithControllerPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		offset := mgl32.Vec3{x, y, z}.Sub(cc.goal.target)
		r := offset.Len()
		if r < 1e-8 {
			return
		}
		cc.goal.radius = r
		cc.goal.elevation = float32(math.Asin(float64(offset[1] / r)))
		cc.goal.azimuth = float32(math.Atan2(float64(offset[0]), float64(offset[2])))
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - minRadius: closest zoom distance
//   - maxRadius: farthest zoom distance
//
// Returns:
//   - CameraControllerOption: a function that sets the radius bounds
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithElevationBounds sets the minimum and maximum elevation.
//
// Parameters:
//   - minElevation: lowest elevation in radians
//   - maxElevation: highest elevation in radians
//
// Returns:
//   - CameraControllerOption: a function that sets the elevation bounds
func WithElevationBounds(minElevation, maxElevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = minElevation
		cc.maxElevation = maxElevation
	}
}

// WithMouseSensitivity sets the radians of rotation per unit of OrbitBy input.
//
// Parameters:
//   - sensitivity: radians per input unit
//
// Returns:
//   - CameraControllerOption: a function that sets the sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the radius change per unit of Zoom input.
//
// Parameters:
//   - speed: world units per input unit
//
// Returns:
//   - CameraControllerOption: a function that sets the zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the translation per unit of Pan input.
//
// Parameters:
//   - speed: world units per input unit
//
// Returns:
//   - CameraControllerOption: a function that sets the pan speed
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

// WithDamping enables or disables damped motion.
//
// Parameters:
//   - enabled: true to interpolate toward input, false to jump
//
// Returns:
//   - CameraControllerOption: a function that sets damping
func WithDamping(enabled bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.damping = enabled
	}
}

// WithSpring tunes the damping spring.
//
// Parameters:
//   - fps: expected Update calls per second
//   - frequency: angular frequency, higher is snappier
//   - ratio: damping ratio, 1 is critically damped and below 1 overshoots
//
// Returns:
//   - CameraControllerOption: a function that sets the spring parameters
func WithSpring(fps int, frequency, ratio float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if fps > 0 {
			cc.fps = fps
		}
		cc.frequency = frequency
		cc.dampingRatio = ratio
	}
}
