package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.InDelta(t, mgl32.DegToRad(75), c.Fov(), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())
	assert.Equal(t, float32(1), c.Aspect())

	x, y, z := c.Position()
	assert.Equal(t, [3]float32{0, 0, 10}, [3]float32{x, y, z})
}

func TestSetAspectUpdatesProjection(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()

	c.SetAspect(2)

	assert.Equal(t, float32(2), c.Aspect())
	after := c.ProjectionMatrix()
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])
}

func TestSetAspectIgnoresNonPositive(t *testing.T) {
	c := NewCamera(WithAspect(1.5))
	c.SetAspect(0)
	c.SetAspect(-1)
	assert.Equal(t, float32(1.5), c.Aspect())
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	c := NewCamera()
	origin := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})

	assert.InDelta(t, 0, origin.X(), 1e-5)
	assert.InDelta(t, 0, origin.Y(), 1e-5)
	assert.InDelta(t, -10, origin.Z(), 1e-5)
}

func TestCameraFollowsController(t *testing.T) {
	ctrl := NewCameraController(WithControllerPosition(0, 0, 10), WithDamping(false))
	c := NewCamera(WithController(ctrl))
	require.Equal(t, ctrl, c.Controller())

	ctrl.SetAzimuth(math.Pi / 2)
	ctrl.Update()
	c.Update()

	x, y, z := c.Position()
	assert.InDelta(t, 10, x, 1e-4)
	assert.InDelta(t, 0, y, 1e-4)
	assert.InDelta(t, 0, z, 1e-4)
}

func TestControllerPositionDerivesSpherical(t *testing.T) {
	ctrl := NewCameraController(WithControllerPosition(0, 0, 10))

	assert.InDelta(t, 10, ctrl.Radius(), 1e-5)
	assert.InDelta(t, 0, ctrl.Azimuth(), 1e-6)
	assert.InDelta(t, 0, ctrl.Elevation(), 1e-6)

	x, y, z := ctrl.Position()
	assert.InDelta(t, 10, z, 1e-4)
	assert.InDelta(t, 0, x+y, 1e-4)
}

func TestDampedUpdateConvergesGradually(t *testing.T) {
	ctrl := NewCameraController(WithControllerPosition(0, 0, 10))
	ctrl.SetAzimuth(1)

	ctrl.Update()
	first := ctrl.Azimuth()
	assert.Greater(t, first, float32(0))
	assert.Less(t, first, float32(1))
	assert.False(t, ctrl.Settled())

	for range 600 {
		ctrl.Update()
	}
	assert.True(t, ctrl.Settled())
	assert.Equal(t, float32(1), ctrl.Azimuth())
}

func TestUndampedUpdateJumps(t *testing.T) {
	ctrl := NewCameraController(WithDamping(false))
	ctrl.Zoom(4)
	ctrl.Update()

	assert.InDelta(t, 8, ctrl.Radius(), 1e-5)
	assert.True(t, ctrl.Settled())
}

func TestInputWithoutUpdateDoesNotMoveCamera(t *testing.T) {
	ctrl := NewCameraController()
	x0, y0, z0 := ctrl.Position()

	ctrl.OrbitBy(100, 50)
	ctrl.Pan(3, 3)

	x1, y1, z1 := ctrl.Position()
	assert.Equal(t, [3]float32{x0, y0, z0}, [3]float32{x1, y1, z1})
}

func TestElevationIsClamped(t *testing.T) {
	ctrl := NewCameraController(WithElevationBounds(-0.5, 0.5), WithDamping(false))
	ctrl.SetElevation(2)
	ctrl.Update()
	assert.Equal(t, float32(0.5), ctrl.Elevation())

	ctrl.OrbitBy(0, -10000)
	ctrl.Update()
	assert.Equal(t, float32(-0.5), ctrl.Elevation())
}

func TestPanMovesTargetSideways(t *testing.T) {
	ctrl := NewCameraController(WithPanSpeed(1), WithDamping(false))
	ctrl.Pan(2, 0)
	ctrl.Snap()

	x, y, z := ctrl.Target()
	assert.InDelta(t, 2, x, 1e-5)
	assert.InDelta(t, 0, y, 1e-5)
	assert.InDelta(t, 0, z, 1e-5)
}

func TestSetDampingOffClearsVelocity(t *testing.T) {
	ctrl := NewCameraController()
	ctrl.SetRadius(20)
	ctrl.Update()
	require.True(t, ctrl.Damping())

	ctrl.SetDamping(false)
	ctrl.Update()
	assert.InDelta(t, 20, ctrl.Radius(), 1e-5)
}
