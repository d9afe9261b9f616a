package material

import "github.com/Carmen-Shannon/oxy-viewer/common"

// Kind enumerates the closed set of material variants.
type Kind int

const (
	// KindStandard is the physically based metallic/roughness variant. It reacts to the scene environment map.
	KindStandard Kind = iota

	// KindBasic is the unlit variant. It is opaque to lighting and environment updates.
	KindBasic
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindBasic:
		return "basic"
	default:
		return "unknown"
	}
}

// TextureRef points at an image used by a material together with the color space its texels are stored in.
type TextureRef struct {
	// URI is the location of the image, relative to the asset that referenced it.
	URI string

	// ColorSpace is sRGB for color data and linear for data textures such as normal maps.
	ColorSpace common.ColorSpace
}

// Material is a surface description attached to a mesh.
//
// The set of implementations is closed: *Standard and *Basic. Use Visit to dispatch on the variant instead of
// asserting concrete types.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind retrieves the variant tag.
	//
	// Returns:
	//   - Kind: the material variant
	Kind() Kind

	// BaseColor retrieves the albedo RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// BaseColorTexture retrieves the albedo texture reference, or nil if none is set.
	//
	// Returns:
	//   - *TextureRef: the texture reference, or nil
	BaseColorTexture() *TextureRef

	sealed()
}

// Visitor holds one handler per material variant. Nil handlers are skipped.
type Visitor struct {
	Standard func(*Standard)
	Basic    func(*Basic)
}

// Visit dispatches m to the handler matching its variant.
//
// Parameters:
//   - m: the material to dispatch, nil is ignored
//   - v: the handlers
func Visit(m Material, v Visitor) {
	switch mat := m.(type) {
	case *Standard:
		if v.Standard != nil && mat != nil {
			v.Standard(mat)
		}
	case *Basic:
		if v.Basic != nil && mat != nil {
			v.Basic(mat)
		}
	}
}

type surface struct {
	name             string
	baseColor        [4]float32
	baseColorTexture *TextureRef
}

func (s *surface) Name() string {
	return s.name
}

func (s *surface) BaseColor() [4]float32 {
	return s.baseColor
}

func (s *surface) BaseColorTexture() *TextureRef {
	return s.baseColorTexture
}

func (s *surface) sealed() {}

// Standard is the physically based metallic/roughness material.
type Standard struct {
	surface
	metallic                 float32
	roughness                float32
	envMapIntensity          float32
	normalTexture            *TextureRef
	metallicRoughnessTexture *TextureRef
}

var _ Material = &Standard{}

// NewStandard creates a Standard material. Defaults follow the glTF specification: white, fully metallic,
// fully rough, and an environment intensity of 1.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - *Standard: a new Standard material
func NewStandard(options ...MaterialBuilderOption) *Standard {
	o := newOptions(options)
	return &Standard{
		surface:                  o.surface,
		metallic:                 o.metallic,
		roughness:                o.roughness,
		envMapIntensity:          o.envMapIntensity,
		normalTexture:            o.normalTexture,
		metallicRoughnessTexture: o.metallicRoughnessTexture,
	}
}

func (m *Standard) Kind() Kind {
	return KindStandard
}

// Metallic retrieves the metallic factor. 0 is dielectric, 1 is metal.
func (m *Standard) Metallic() float32 {
	return m.metallic
}

// Roughness retrieves the roughness factor. 0 is mirror smooth, 1 is fully rough.
func (m *Standard) Roughness() float32 {
	return m.roughness
}

// EnvMapIntensity retrieves the multiplier applied to image based lighting from the scene environment.
func (m *Standard) EnvMapIntensity() float32 {
	return m.envMapIntensity
}

// SetEnvMapIntensity sets the multiplier applied to image based lighting. Negative values are stored as 0.
func (m *Standard) SetEnvMapIntensity(v float32) {
	m.envMapIntensity = max(v, 0)
}

// NormalTexture retrieves the tangent space normal map, or nil.
func (m *Standard) NormalTexture() *TextureRef {
	return m.normalTexture
}

// MetallicRoughnessTexture retrieves the packed metallic (B) / roughness (G) texture, or nil.
func (m *Standard) MetallicRoughnessTexture() *TextureRef {
	return m.metallicRoughnessTexture
}

// Basic is an unlit material.
type Basic struct {
	surface
}

var _ Material = &Basic{}

// NewBasic creates an unlit Basic material.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions; options that only apply to Standard are ignored
//
// Returns:
//   - *Basic: a new Basic material
func NewBasic(options ...MaterialBuilderOption) *Basic {
	o := newOptions(options)
	return &Basic{surface: o.surface}
}

func (m *Basic) Kind() Kind {
	return KindBasic
}
