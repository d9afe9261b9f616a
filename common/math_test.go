package common

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestModelMatrixIdentity(t *testing.T) {
	m := ModelMatrix(IdentityTransform())
	assert.True(t, m.ApproxEqual(mgl32.Ident4()))
}

func TestEulerRoundTrip(t *testing.T) {
	cases := []Euler{
		{},
		{Y: math.Pi / 2},
		{X: 0.3, Y: -0.7, Z: 1.1},
		{X: -1.2, Y: 0.4, Z: -2.9},
	}
	for _, e := range cases {
		got := EulerFromMatrix(e.Mat4())
		assert.InDelta(t, e.X, got.X, 1e-4)
		assert.InDelta(t, e.Y, got.Y, 1e-4)
		assert.InDelta(t, e.Z, got.Z, 1e-4)
	}
}

func TestDecomposeMatrix(t *testing.T) {
	in := Transform{
		Position: Vector3{X: 0, Y: -4, Z: 0},
		Rotation: Euler{Y: math.Pi / 2},
		Scale:    Vector3{X: 10, Y: 10, Z: 10},
	}
	out := DecomposeMatrix(ModelMatrix(in))

	assert.InDelta(t, in.Position.Y, out.Position.Y, 1e-4)
	assert.InDelta(t, in.Scale.X, out.Scale.X, 1e-4)
	assert.InDelta(t, in.Scale.Z, out.Scale.Z, 1e-4)
	assert.InDelta(t, in.Rotation.Y, out.Rotation.Y, 1e-4)
	assert.True(t, ModelMatrix(out).ApproxEqualThreshold(ModelMatrix(in), 1e-4))
}

func TestPerspectiveZODepthRange(t *testing.T) {
	p := PerspectiveZO(mgl32.DegToRad(75), 1.5, 0.1, 100)

	near := p.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := p.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-5)
}

func TestCubeTextureMeanColor(t *testing.T) {
	var nilTex *CubeTexture
	assert.Equal(t, [4]float64{0, 0, 0, 1}, nilTex.MeanColor())

	tex := &CubeTexture{Size: 1}
	for i := range tex.Faces {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		tex.Faces[i] = img
	}
	mean := tex.MeanColor()
	assert.InDelta(t, 1.0, mean[0], 1e-9)
	assert.InDelta(t, 0.0, mean[1], 1e-9)
	assert.InDelta(t, 1.0, mean[3], 1e-9)
}

func TestClampAndCoalesce(t *testing.T) {
	assert.Equal(t, 2.0, Clamp(3.0, 0, 2))
	assert.Equal(t, 0, Clamp(-1, 0, 2))
	assert.Equal(t, float32(1.5), Clamp(float32(1.5), 0, 2))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
}

func TestMouseButtonString(t *testing.T) {
	assert.Equal(t, "left", MouseButtonLeft.String())
	assert.Equal(t, "right", MouseButtonRight.String())
	assert.Equal(t, "middle", MouseButtonMiddle.String())
	assert.Equal(t, "unknown", MouseButton(7).String())
}
