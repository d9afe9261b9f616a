package light

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithTarget is an option builder that sets the point the light is aimed at.
//
// Parameters:
//   - x: the x target component
//   - y: the y target component
//   - z: the z target component
//
// Returns:
//   - LightBuilderOption: a function that applies the target option to a lightImpl
func WithTarget(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = [3]float32{x, y, z}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithHexColor is an option builder that sets the light color from a 0xRRGGBB value.
//
// Parameters:
//   - hex: the packed color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithHexColor(hex uint32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{
			float32((hex>>16)&0xff) / 255,
			float32((hex>>8)&0xff) / 255,
			float32(hex&0xff) / 255,
		}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = max(intensity, 0)
	}
}

// WithEnabled is an option builder that sets whether the light is active for rendering.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows is an option builder that sets whether the light renders a shadow map.
//
// Parameters:
//   - castsShadows: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow casting option to a lightImpl
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadow.Enabled = castsShadows
	}
}

// WithShadowMapSize is an option builder that sets the shadow depth texture size.
//
// Parameters:
//   - width: the width in texels
//   - height: the height in texels
//
// Returns:
//   - LightBuilderOption: a function that applies the map size option to a lightImpl
func WithShadowMapSize(width, height int) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadow.MapWidth = width
		l.shadow.MapHeight = height
	}
}

// WithShadowNearFar is an option builder that sets the depth range of the shadow camera.
//
// Parameters:
//   - near: the near plane distance
//   - far: the far plane distance
//
// Returns:
//   - LightBuilderOption: a function that applies the near/far option to a lightImpl
func WithShadowNearFar(near, far float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadow.Near = near
		l.shadow.Far = far
	}
}

// WithShadowBias is an option builder that sets the shadow depth bias.
//
// Parameters:
//   - bias: the depth bias
//
// Returns:
//   - LightBuilderOption: a function that applies the bias option to a lightImpl
func WithShadowBias(bias float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadow.Bias = bias
	}
}
