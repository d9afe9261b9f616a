package material

import "github.com/Carmen-Shannon/oxy-viewer/common"

// options collects every configurable material property. Each constructor copies the subset its variant uses.
type options struct {
	surface
	metallic                 float32
	roughness                float32
	envMapIntensity          float32
	normalTexture            *TextureRef
	metallicRoughnessTexture *TextureRef
}

// MaterialBuilderOption is a function that configures a material during construction.
type MaterialBuilderOption func(*options)

func newOptions(opts []MaterialBuilderOption) *options {
	o := &options{
		surface:         surface{baseColor: [4]float32{1, 1, 1, 1}},
		metallic:        1.0,
		roughness:       1.0,
		envMapIntensity: 1.0,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option
func WithName(name string) MaterialBuilderOption {
	return func(o *options) {
		o.name = name
	}
}

// WithBaseColor is an option builder that sets the albedo RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(o *options) {
		o.baseColor = color
	}
}

// WithBaseColorTexture is an option builder that sets the albedo texture. Albedo data is always sRGB.
//
// Parameters:
//   - uri: the image location
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option
func WithBaseColorTexture(uri string) MaterialBuilderOption {
	return func(o *options) {
		o.baseColorTexture = &TextureRef{URI: uri, ColorSpace: common.ColorSpaceSRGB}
	}
}

// WithMetallic is an option builder that sets the metallic factor of a Standard material.
//
// Parameters:
//   - metallic: the metallic factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(o *options) {
		o.metallic = metallic
	}
}

// WithRoughness is an option builder that sets the roughness factor of a Standard material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(o *options) {
		o.roughness = roughness
	}
}

// WithEnvMapIntensity is an option builder that sets the construction time environment intensity of a
// Standard material.
//
// Parameters:
//   - intensity: the environment lighting multiplier
//
// Returns:
//   - MaterialBuilderOption: a function that applies the intensity option
func WithEnvMapIntensity(intensity float32) MaterialBuilderOption {
	return func(o *options) {
		o.envMapIntensity = max(intensity, 0)
	}
}

// WithNormalTexture is an option builder that sets the normal map of a Standard material.
//
// Parameters:
//   - uri: the image location
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option
func WithNormalTexture(uri string) MaterialBuilderOption {
	return func(o *options) {
		o.normalTexture = &TextureRef{URI: uri, ColorSpace: common.ColorSpaceLinear}
	}
}

// WithMetallicRoughnessTexture is an option builder that sets the metallic/roughness texture of a Standard material.
//
// Parameters:
//   - uri: the image location
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option
func WithMetallicRoughnessTexture(uri string) MaterialBuilderOption {
	return func(o *options) {
		o.metallicRoughnessTexture = &TextureRef{URI: uri, ColorSpace: common.ColorSpaceLinear}
	}
}
