package scene

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helmet() (*Group, []*Mesh) {
	root := NewGroup("FlightHelmet")
	visor := NewMesh("visor", Geometry{VertexCount: 3}, material.NewStandard(material.WithName("visor")))
	strap := NewMesh("strap", Geometry{VertexCount: 3}, material.NewStandard(material.WithName("strap")))
	decal := NewMesh("decal", Geometry{VertexCount: 3}, material.NewBasic(material.WithName("decal")))
	inner := NewGroup("inner")
	_ = inner.Add(strap, decal)
	_ = root.Add(visor, inner)
	return root, []*Mesh{visor, strap}
}

func modelTransform() common.Transform {
	return common.Transform{
		Position: common.Vector3{Y: -4},
		Rotation: common.Euler{Y: math.Pi / 2},
		Scale:    common.Vector3{X: 10, Y: 10, Z: 10},
	}
}

func TestAddModelAppliesTransform(t *testing.T) {
	s := NewScene()
	model, _ := helmet()

	require.NoError(t, s.AddModel(model, modelTransform()))

	require.Len(t, s.Models(), 1)
	tr := s.Models()[0].Transform()
	assert.Equal(t, common.Vector3{X: 10, Y: 10, Z: 10}, tr.Scale)
	assert.Equal(t, common.Vector3{Y: -4}, tr.Position)
	assert.InDelta(t, math.Pi/2, tr.Rotation.Y, 1e-6)
	assert.Equal(t, Node(s.Root()), model.Parent())
}

func TestBackgroundAndEnvironmentAreIndependent(t *testing.T) {
	s := NewScene()
	env := &common.CubeTexture{Size: 1, ColorSpace: common.ColorSpaceSRGB}

	s.SetBackground(env)
	assert.Same(t, env, s.Background())
	assert.Nil(t, s.Environment())

	s.SetEnvironment(env)
	s.SetBackground(nil)
	assert.Nil(t, s.Background())
	assert.Same(t, env, s.Environment())
}

func TestAddLightAndCamera(t *testing.T) {
	cam := camera.NewCamera()
	s := NewScene(WithCamera(cam), WithName("viewer"))
	sun := NewLightNode("sun", light.NewLight(light.LightTypeDirectional))
	sun.Position().Set(0.25, 3, -2.25)

	require.NoError(t, s.AddLight(sun))
	require.ErrorIs(t, s.AddLight(nil), ErrNilNode)

	assert.Equal(t, "viewer", s.Name())
	assert.Equal(t, []*LightNode{sun}, s.Lights())
	assert.Equal(t, cam, s.Camera())
	assert.Equal(t, 1, Count(s.Root(), NodeKindCamera))
	assert.Equal(t, 1, Count(s.Root(), NodeKindLight))

	s.SetCamera(nil)
	assert.Nil(t, s.Camera())
	assert.Equal(t, 0, Count(s.Root(), NodeKindCamera))
}

func TestStandardMaterialsPropagatesToCurrentMeshesOnly(t *testing.T) {
	s := NewScene()
	model, standard := helmet()
	require.NoError(t, s.AddModel(model, common.IdentityTransform()))

	visited := StandardMaterials(s, func(m *material.Standard) { m.SetEnvMapIntensity(4.5) })
	assert.Equal(t, 2, visited)
	for _, m := range standard {
		assert.Equal(t, float32(4.5), m.Material().(*material.Standard).EnvMapIntensity())
	}

	late := NewMesh("late", Geometry{}, material.NewStandard(material.WithEnvMapIntensity(1)))
	require.NoError(t, model.Add(late))
	assert.Equal(t, float32(1), late.Material().(*material.Standard).EnvMapIntensity())

	StandardMaterials(s, func(m *material.Standard) { m.SetEnvMapIntensity(7) })
	assert.Equal(t, float32(7), late.Material().(*material.Standard).EnvMapIntensity())
}

func TestTraverseApplyCountsMatches(t *testing.T) {
	s := NewScene(WithCamera(camera.NewCamera()))
	model, _ := helmet()
	require.NoError(t, s.AddModel(model, common.IdentityTransform()))

	var names []string
	n := s.TraverseApply(
		func(n Node) bool { return n.Kind() == NodeKindMesh },
		func(n Node) { names = append(names, n.Name()) },
	)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"visor", "strap", "decal"}, names)
}

func TestAddRejectsCycles(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewGroup("c")
	require.NoError(t, a.Add(b))
	require.NoError(t, b.Add(c))

	assert.ErrorIs(t, c.Add(a), ErrCycle)
	assert.ErrorIs(t, a.Add(a), ErrCycle)
	assert.ErrorIs(t, a.Add(nil), ErrNilNode)
	assert.Nil(t, a.Parent())
}

func TestAddReparents(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	child := NewGroup("child")
	require.NoError(t, a.Add(child))
	require.NoError(t, b.Add(child))

	assert.Empty(t, a.Children())
	assert.Equal(t, []Node{child}, b.Children())
	assert.Equal(t, Node(b), child.Parent())

	assert.True(t, b.Remove(child))
	assert.False(t, b.Remove(child))
	assert.Nil(t, child.Parent())
}

func TestWorldMatrixComposesParents(t *testing.T) {
	parent := NewGroup("parent")
	parent.Transform().Scale = common.Vector3{X: 10, Y: 10, Z: 10}
	parent.Transform().Position = common.Vector3{Y: -4}
	child := NewGroup("child")
	child.Transform().Position = common.Vector3{Y: 1}
	require.NoError(t, parent.Add(child))

	w := child.WorldMatrix()
	assert.InDelta(t, 6, w[13], 1e-5)
}

func TestLightNodeDirection(t *testing.T) {
	sun := NewLightNode("sun", light.NewLight(light.LightTypeDirectional))
	sun.Position().Set(0, 5, 0)

	d := sun.Direction()
	assert.InDelta(t, -1, d.Y(), 1e-6)

	vp := sun.ShadowViewProjection()
	assert.False(t, math.IsNaN(float64(vp[0])))
}

func TestDisposedSceneIgnoresMutations(t *testing.T) {
	s := NewScene()
	s.Dispose()
	require.True(t, s.Disposed())

	model, _ := helmet()
	require.NoError(t, s.AddModel(model, modelTransform()))
	s.SetBackground(&common.CubeTexture{})
	require.NoError(t, s.AddLight(NewLightNode("sun", light.NewLight(light.LightTypeDirectional))))

	assert.Empty(t, s.Models())
	assert.Empty(t, s.Lights())
	assert.Nil(t, s.Background())
	assert.Nil(t, model.Parent())
}
