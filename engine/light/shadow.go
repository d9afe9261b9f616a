package light

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultShadowMapSize is the default width and height in texels of the shadow depth texture.
const DefaultShadowMapSize = 1024

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units) of the directional light
// shadow frustum.
const DefaultShadowHalfExtent float32 = 5.0

// DefaultShadowNear is the default near plane of the directional light's orthographic shadow projection.
const DefaultShadowNear float32 = 1.0

// DefaultShadowFar is the default far plane of the directional light's orthographic shadow projection.
// Together with DefaultShadowNear it brackets the depth of a model a few units from the light.
const DefaultShadowFar float32 = 10.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons. The small negative value removes
// acne on the model's own surfaces while keeping contact shadows attached.
const DefaultShadowBias float32 = -0.005

// Shadow is the shadow map configuration of a light. All fields are exported so they can be bound to live controls.
type Shadow struct {
	// Enabled turns shadow map rendering on for the owning light.
	Enabled bool

	// MapWidth and MapHeight are the shadow depth texture dimensions in texels.
	MapWidth, MapHeight int

	// Near and Far bound the depth range of the light's shadow camera.
	Near, Far float32

	// HalfExtent is the half-width of the orthographic shadow camera.
	HalfExtent float32

	// Bias is added to the stored depth before comparison.
	Bias float32
}

// DefaultShadow returns a disabled Shadow carrying the default tunables.
//
// Returns:
//   - *Shadow: a new shadow configuration
func DefaultShadow() *Shadow {
	return &Shadow{
		MapWidth:   DefaultShadowMapSize,
		MapHeight:  DefaultShadowMapSize,
		Near:       DefaultShadowNear,
		Far:        DefaultShadowFar,
		HalfExtent: DefaultShadowHalfExtent,
		Bias:       DefaultShadowBias,
	}
}

// MapSize returns the shadow map dimensions clamped to at least one texel each.
//
// Returns:
//   - int: width in texels
//   - int: height in texels
func (s *Shadow) MapSize() (int, int) {
	return max(s.MapWidth, 1), max(s.MapHeight, 1)
}

// ViewProjection computes the light-space matrix of a directional shadow camera placed at position and
// looking at target.
//
// Parameters:
//   - position: the world-space position of the light
//   - target: the world-space point the light is aimed at
//
// Returns:
//   - mgl32.Mat4: the orthographic projection multiplied by the light view matrix
func (s *Shadow) ViewProjection(position common.Vector3, target [3]float32) mgl32.Mat4 {
	eye := position.Vec()
	center := mgl32.Vec3{target[0], target[1], target[2]}
	up := mgl32.Vec3{0, 1, 0}
	if d := center.Sub(eye).Normalize(); abs32(d.Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(eye, center, up)
	h := s.HalfExtent
	proj := mgl32.Ortho(-h, h, -h, h, s.Near, s.Far)
	return proj.Mul4(view)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
