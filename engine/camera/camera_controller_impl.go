package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

// settleEpsilon is the distance and speed below which a damped component is considered at rest.
const settleEpsilon = 1e-4

// orbitState is one point in orbit space.
type orbitState struct {
	radius    float32
	azimuth   float32
	elevation float32
	target    mgl32.Vec3
}

// orbitVelocity carries the spring velocity of each orbit component between updates.
type orbitVelocity struct {
	radius    float64
	azimuth   float64
	elevation float64
	target    [3]float64
}

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	goal     orbitState
	current  orbitState
	velocity orbitVelocity
	position mgl32.Vec3

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32

	damping      bool
	fps          int
	frequency    float64
	dampingRatio float64
	spring       harmonica.Spring
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a damped orbit controller looking at the origin from (0, 0, 10).
// The default spring is critically damped and tuned for 60 updates per second.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},
		goal: orbitState{
			radius: 10.0,
		},

		minRadius:    0.01,
		maxRadius:    1000.0,
		minElevation: float32(-math.Pi/2 + 0.01),
		maxElevation: float32(math.Pi/2 - 0.01),

		mouseSensitivity: 0.005,
		zoomSpeed:        0.5,
		panSpeed:         0.01,

		damping:      true,
		fps:          60,
		frequency:    6.0,
		dampingRatio: 1.0,
	}

	for _, option := range options {
		option(cc)
	}

	cc.spring = harmonica.NewSpring(harmonica.FPS(cc.fps), cc.frequency, cc.dampingRatio)
	cc.goal.radius = common.Clamp(cc.goal.radius, cc.minRadius, cc.maxRadius)
	cc.goal.elevation = common.Clamp(cc.goal.elevation, cc.minElevation, cc.maxElevation)
	cc.current = cc.goal
	cc.updatePosition()
	return cc
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.current.target[0], cc.current.target[1], cc.current.target[2]
}

func (cc *cameraControllerImpl) Update() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if !cc.damping {
		cc.snap()
		return
	}

	cc.current.radius, cc.velocity.radius = cc.step(cc.current.radius, cc.velocity.radius, cc.goal.radius)
	cc.current.azimuth, cc.velocity.azimuth = cc.step(cc.current.azimuth, cc.velocity.azimuth, cc.goal.azimuth)
	cc.current.elevation, cc.velocity.elevation = cc.step(cc.current.elevation, cc.velocity.elevation, cc.goal.elevation)
	for i := range 3 {
		cc.current.target[i], cc.velocity.target[i] = cc.step(cc.current.target[i], cc.velocity.target[i], cc.goal.target[i])
	}

	if cc.settled() {
		cc.snap()
		return
	}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Settled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.settled()
}

func (cc *cameraControllerImpl) Snap() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.snap()
}

func (cc *cameraControllerImpl) OrbitBy(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.azimuth -= dx * cc.mouseSensitivity
	cc.goal.elevation = common.Clamp(cc.goal.elevation+dy*cc.mouseSensitivity, cc.minElevation, cc.maxElevation)
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.radius = common.Clamp(cc.goal.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	right, up := cc.localAxes(cc.goal)
	offset := right.Mul(dx * cc.panSpeed).Add(up.Mul(dy * cc.panSpeed))
	cc.goal.target = cc.goal.target.Add(offset)
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.current.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.current.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.current.elevation
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.radius = common.Clamp(radius, cc.minRadius, cc.maxRadius)
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.azimuth = azimuth
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.elevation = common.Clamp(elevation, cc.minElevation, cc.maxElevation)
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.target = mgl32.Vec3{x, y, z}
}

func (cc *cameraControllerImpl) Damping() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.damping
}

func (cc *cameraControllerImpl) SetDamping(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.damping = enabled
	if !enabled {
		cc.velocity = orbitVelocity{}
	}
}

// --- internal helpers ---

// step advances a single component along the spring. Caller must hold the mutex.
func (cc *cameraControllerImpl) step(pos float32, vel float64, goal float32) (float32, float64) {
	p, v := cc.spring.Update(float64(pos), vel, float64(goal))
	return float32(p), v
}

// settled reports whether every component is within settleEpsilon of the goal and at rest.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) settled() bool {
	near := func(a, b float32, v float64) bool {
		return math.Abs(float64(a-b)) < settleEpsilon && math.Abs(v) < settleEpsilon
	}
	if !near(cc.current.radius, cc.goal.radius, cc.velocity.radius) ||
		!near(cc.current.azimuth, cc.goal.azimuth, cc.velocity.azimuth) ||
		!near(cc.current.elevation, cc.goal.elevation, cc.velocity.elevation) {
		return false
	}
	for i := range 3 {
		if !near(cc.current.target[i], cc.goal.target[i], cc.velocity.target[i]) {
			return false
		}
	}
	return true
}

// snap copies the goal into the current state. Caller must hold the mutex.
func (cc *cameraControllerImpl) snap() {
	cc.current = cc.goal
	cc.velocity = orbitVelocity{}
	cc.updatePosition()
}

// updatePosition recomputes the camera position from the current spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cc.position = cc.current.target.Add(sphericalOffset(cc.current))
}

// localAxes returns the camera right and up vectors for an orbit state, consistent with a LookAt from the
// orbit position to its target with world up (0, 1, 0).
func (cc *cameraControllerImpl) localAxes(s orbitState) (right, up mgl32.Vec3) {
	back := sphericalOffset(s)
	if back.Len() < 1e-8 {
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		right = mgl32.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up = back.Cross(right)
	return right, up
}

// sphericalOffset converts an orbit state to the offset of the camera from its target.
func sphericalOffset(s orbitState) mgl32.Vec3 {
	cosElev := float32(math.Cos(float64(s.elevation)))
	sinElev := float32(math.Sin(float64(s.elevation)))
	cosAzim := float32(math.Cos(float64(s.azimuth)))
	sinAzim := float32(math.Sin(float64(s.azimuth)))
	return mgl32.Vec3{
		s.radius * cosElev * sinAzim,
		s.radius * sinElev,
		s.radius * cosElev * cosAzim,
	}
}
