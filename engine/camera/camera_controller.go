package camera

// CameraController defines a damped orbit control system.
//
// The controller keeps two orbit states: a goal state that input methods move immediately, and a current state
// that Update advances toward the goal one step at a time. Position and Target always report the current state,
// so a camera reading them after Update sees smooth motion even when input arrives in bursts.
//
// Orbit state is spherical: radius, azimuth (around the Y axis) and elevation (from the horizontal plane)
// relative to a target point.
type CameraController interface {
	// Position returns the camera's current world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the current look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// Update advances the current orbit state one step toward the goal. With damping disabled the current
	// state jumps to the goal. Call exactly once per tick, before the camera recomputes its matrices.
	Update()

	// Settled reports whether the current state has reached the goal.
	//
	// Returns:
	//   - bool: true if no further Update would move the camera
	Settled() bool

	// Snap moves the current state onto the goal immediately and clears any residual velocity.
	Snap()

	// OrbitBy rotates the goal around the target by an input delta, typically a pointer drag in pixels.
	// Horizontal deltas change azimuth and vertical deltas change elevation, both scaled by the mouse sensitivity.
	//
	// Parameters:
	//   - dx: horizontal delta
	//   - dy: vertical delta
	OrbitBy(dx, dy float32)

	// Zoom moves the goal radius toward the target. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Pan translates the goal target and position along the camera's local right and up axes.
	//
	// Parameters:
	//   - dx: movement along the right axis, scaled by the pan speed
	//   - dy: movement along the up axis, scaled by the pan speed
	Pan(dx, dy float32)

	// Radius returns the current orbit radius.
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// Azimuth returns the current horizontal angle in radians.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Elevation returns the current vertical angle in radians.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetRadius sets the goal radius, clamped to the radius bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// SetAzimuth sets the goal azimuth.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// SetElevation sets the goal elevation, clamped to the elevation bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)

	// SetTarget sets the goal look-at point.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Damping reports whether Update interpolates toward the goal.
	//
	// Returns:
	//   - bool: true if damping is enabled
	Damping() bool

	// SetDamping enables or disables damped motion.
	//
	// Parameters:
	//   - enabled: true to interpolate, false to jump
	SetDamping(enabled bool)
}
