// package common contains common types that are used throughout this viewer. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// ColorSpace identifies how color values stored in a texture or written to the display are encoded.
type ColorSpace int

const (
	// ColorSpaceLinear stores linear light values.
	ColorSpaceLinear ColorSpace = iota

	// ColorSpaceSRGB stores gamma-encoded sRGB values. This is the default display output encoding.
	ColorSpaceSRGB
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceSRGB:
		return "srgb"
	case ColorSpaceLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// Vector3 is a mutable 3 component vector. Its fields are exported so that individual axes can be bound to live controls.
type Vector3 struct {
	X, Y, Z float32
}

// Set assigns all three components.
func (v *Vector3) Set(x, y, z float32) {
	v.X, v.Y, v.Z = x, y, z
}

// Vec returns the vector as an mgl32.Vec3.
func (v Vector3) Vec() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// Euler is a rotation expressed as angles in radians around the X, Y and Z axes, applied in XYZ order.
type Euler struct {
	X, Y, Z float32
}

// Mat4 returns the rotation as a homogeneous matrix, Rx * Ry * Rz.
func (e Euler) Mat4() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(e.X).Mul4(mgl32.HomogRotate3DY(e.Y)).Mul4(mgl32.HomogRotate3DZ(e.Z))
}

// Quat returns the rotation as a quaternion.
func (e Euler) Quat() mgl32.Quat {
	return mgl32.Mat4ToQuat(e.Mat4())
}

// Transform is the local transform of a scene node.
type Transform struct {
	Position Vector3
	Rotation Euler
	Scale    Vector3
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: Vector3{X: 1, Y: 1, Z: 1}}
}

// CubeFace indexes the six faces of a cube texture.
type CubeFace int

const (
	CubeFacePosX CubeFace = iota
	CubeFaceNegX
	CubeFacePosY
	CubeFaceNegY
	CubeFacePosZ
	CubeFaceNegZ
)

// CubeFaceCount is the number of faces in a cube texture.
const CubeFaceCount = 6

// CubeTexture is a decoded environment map. The same instance is used as the scene background and as the image based lighting source.
type CubeTexture struct {
	// Faces holds the decoded RGBA pixels in px, nx, py, ny, pz, nz order.
	Faces [CubeFaceCount]*image.RGBA

	// Size is the edge length of every face in pixels.
	Size int

	// ColorSpace is the encoding of the pixel data. It must match the renderer output color space.
	ColorSpace ColorSpace
}

// MeanColor returns the average RGBA color across every face, normalized to [0, 1].
// A nil texture or one without pixels yields opaque black.
func (c *CubeTexture) MeanColor() [4]float64 {
	out := [4]float64{0, 0, 0, 1}
	if c == nil {
		return out
	}

	var sum [4]float64
	var count float64
	for _, face := range c.Faces {
		if face == nil {
			continue
		}
		for i := 0; i+3 < len(face.Pix); i += 4 {
			sum[0] += float64(face.Pix[i])
			sum[1] += float64(face.Pix[i+1])
			sum[2] += float64(face.Pix[i+2])
			sum[3] += float64(face.Pix[i+3])
			count++
		}
	}
	if count == 0 {
		return out
	}
	for i := range sum {
		out[i] = sum[i] / count / 255
	}
	return out
}
