package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ModelMatrix builds the local matrix of a transform as T * R * S.
//
// Parameters:
//   - t: the transform to convert
//
// Returns:
//   - mgl32.Mat4: the column-major local matrix
func ModelMatrix(t Transform) mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X, t.Position.Y, t.Position.Z)
	scale := mgl32.Scale3D(t.Scale.X, t.Scale.Y, t.Scale.Z)
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// PerspectiveZO returns a right-handed perspective projection that maps depth to [0, 1], the clip space used by WebGPU.
// mgl32.Perspective targets the OpenGL [-1, 1] range, so its depth row is remapped.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func PerspectiveZO(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	m := mgl32.Mat4{}
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// EulerFromMatrix extracts XYZ Euler angles from the rotation part of a matrix.
// The upper 3x3 block must be unscaled.
//
// Parameters:
//   - m: a pure rotation matrix
//
// Returns:
//   - Euler: angles in radians such that Euler.Mat4 reproduces m
func EulerFromMatrix(m mgl32.Mat4) Euler {
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m22, m23 := m.At(1, 1), m.At(1, 2)
	m32, m33 := m.At(2, 1), m.At(2, 2)

	var e Euler
	e.Y = float32(math.Asin(float64(Clamp(m13, -1, 1))))
	if math.Abs(float64(m13)) < 0.9999999 {
		e.X = float32(math.Atan2(float64(-m23), float64(m33)))
		e.Z = float32(math.Atan2(float64(-m12), float64(m11)))
	} else {
		e.X = float32(math.Atan2(float64(m32), float64(m22)))
	}
	return e
}

// DecomposeMatrix splits an affine matrix into a Transform.
// Shear is not representable and is discarded.
//
// Parameters:
//   - m: the column-major affine matrix
//
// Returns:
//   - Transform: the translation, rotation and scale found in m
func DecomposeMatrix(m mgl32.Mat4) Transform {
	t := Transform{}
	t.Position = Vector3{X: m[12], Y: m[13], Z: m[14]}

	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Det() < 0 {
		sx = -sx
	}
	t.Scale = Vector3{X: sx, Y: sy, Z: sz}

	rot := mgl32.Ident4()
	if sx != 0 && sy != 0 && sz != 0 {
		rot.SetCol(0, m.Col(0).Mul(1/sx))
		rot.SetCol(1, m.Col(1).Mul(1/sy))
		rot.SetCol(2, m.Col(2).Mul(1/sz))
		rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	}
	t.Rotation = EulerFromMatrix(rot)
	return t
}
