package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStandardDefaults(t *testing.T) {
	m := NewStandard()

	assert.Equal(t, KindStandard, m.Kind())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.BaseColor())
	assert.Equal(t, float32(1), m.Metallic())
	assert.Equal(t, float32(1), m.Roughness())
	assert.Equal(t, float32(1), m.EnvMapIntensity())
	assert.Nil(t, m.BaseColorTexture())
}

func TestStandardOptions(t *testing.T) {
	m := NewStandard(
		WithName("visor"),
		WithBaseColor([4]float32{0.5, 0.5, 0.5, 1}),
		WithMetallic(0.2),
		WithRoughness(0.4),
		WithEnvMapIntensity(2.5),
		WithBaseColorTexture("visor_albedo.png"),
		WithNormalTexture("visor_normal.png"),
		WithMetallicRoughnessTexture("visor_orm.png"),
	)

	assert.Equal(t, "visor", m.Name())
	assert.Equal(t, float32(0.2), m.Metallic())
	assert.Equal(t, float32(0.4), m.Roughness())
	assert.Equal(t, float32(2.5), m.EnvMapIntensity())
	require.NotNil(t, m.BaseColorTexture())
	assert.Equal(t, common.ColorSpaceSRGB, m.BaseColorTexture().ColorSpace)
	require.NotNil(t, m.NormalTexture())
	assert.Equal(t, common.ColorSpaceLinear, m.NormalTexture().ColorSpace)
	assert.Equal(t, "visor_orm.png", m.MetallicRoughnessTexture().URI)
}

func TestSetEnvMapIntensityClampsNegative(t *testing.T) {
	m := NewStandard()
	m.SetEnvMapIntensity(-1)
	assert.Equal(t, float32(0), m.EnvMapIntensity())
}

func TestVisitDispatchesByVariant(t *testing.T) {
	var standard, basic int
	v := Visitor{
		Standard: func(*Standard) { standard++ },
		Basic:    func(*Basic) { basic++ },
	}

	Visit(NewStandard(), v)
	Visit(NewBasic(WithName("decal")), v)
	Visit(nil, v)

	assert.Equal(t, 1, standard)
	assert.Equal(t, 1, basic)
}

func TestVisitSkipsMissingHandler(t *testing.T) {
	called := false
	Visit(NewBasic(), Visitor{Standard: func(*Standard) { called = true }})
	assert.False(t, called)
}
