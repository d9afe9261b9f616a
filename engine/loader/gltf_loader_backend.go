package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

const extUnlit = "KHR_materials_unlit"

var glbMagic = []byte("glTF")

// gltfLoaderBackendImpl decodes glTF and GLB documents with qmuntal/gltf.
type gltfLoaderBackendImpl struct{}

var _ loaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - loaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Decode(store fs.FS, uri string, p *progress) (*scene.Group, error) {
	f, err := store.Open(uri)
	if err != nil {
		return nil, networkError(uri, err)
	}
	defer f.Close()

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, networkError(uri, err)
	}

	if size > 0 {
		p.setTotal(size + externalBufferBytes(data))
		p.add(len(data))
	}

	sub := store
	if dir := path.Dir(uri); dir != "." {
		if sub, err = fs.Sub(store, dir); err != nil {
			return nil, networkError(uri, err)
		}
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(bytes.NewReader(data), &countingFS{fsys: sub, p: p}).Decode(doc); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) || errors.Is(err, fs.ErrNotExist) {
			return nil, networkError(uri, err)
		}
		return nil, decodeError(uri, err)
	}

	root, err := newGLTFModelBuilder(doc, uri).build()
	if err != nil {
		return nil, decodeError(uri, err)
	}
	return root, nil
}

// externalBufferBytes sums the declared byteLength of every buffer a JSON glTF document loads from a separate
// file. Binary documents and unreadable JSON contribute nothing; the decoder reports the real error later.
func externalBufferBytes(data []byte) int64 {
	if bytes.HasPrefix(data, glbMagic) {
		return 0
	}
	var head struct {
		Buffers []struct {
			URI        string `json:"uri"`
			ByteLength int64  `json:"byteLength"`
		} `json:"buffers"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0
	}
	var total int64
	for _, buf := range head.Buffers {
		if buf.URI != "" && !strings.HasPrefix(buf.URI, "data:") {
			total += max(buf.ByteLength, 0)
		}
	}
	return total
}

// gltfModelBuilder turns a decoded document into scene nodes.
type gltfModelBuilder struct {
	doc  *gltf.Document
	uri  string
	dir  string
	mats map[int]material.Material
	def  material.Material

	visiting map[int]bool
	built    map[int]bool
}

func newGLTFModelBuilder(doc *gltf.Document, uri string) *gltfModelBuilder {
	return &gltfModelBuilder{
		doc:      doc,
		uri:      uri,
		dir:      path.Dir(uri),
		mats:     make(map[int]material.Material),
		visiting: make(map[int]bool),
		built:    make(map[int]bool),
	}
}

func (b *gltfModelBuilder) build() (*scene.Group, error) {
	name := strings.TrimSuffix(path.Base(b.uri), path.Ext(b.uri))
	root := scene.NewGroup(name)

	for _, idx := range b.roots() {
		n, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		if err := root.Add(n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
		}
	}
	return root, nil
}

// roots returns the node indices of the default scene. A document without scenes contributes every node that is
// not another node's child.
func (b *gltfModelBuilder) roots() []int {
	if len(b.doc.Scenes) > 0 {
		s := 0
		if b.doc.Scene != nil {
			s = int(*b.doc.Scene)
		}
		if s >= 0 && s < len(b.doc.Scenes) {
			out := make([]int, 0, len(b.doc.Scenes[s].Nodes))
			for _, n := range b.doc.Scenes[s].Nodes {
				out = append(out, int(n))
			}
			return out
		}
	}

	child := make(map[int]bool)
	for _, n := range b.doc.Nodes {
		for _, c := range n.Children {
			child[int(c)] = true
		}
	}
	var out []int
	for i := range b.doc.Nodes {
		if !child[i] {
			out = append(out, i)
		}
	}
	return out
}

func (b *gltfModelBuilder) node(idx int) (scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("%w: node %d out of range", ErrMalformedModel, idx)
	}
	if b.visiting[idx] {
		return nil, fmt.Errorf("%w: node %d is its own ancestor", ErrMalformedModel, idx)
	}
	if b.built[idx] {
		return nil, fmt.Errorf("%w: node %d has more than one parent", ErrMalformedModel, idx)
	}
	b.visiting[idx] = true
	defer func() {
		b.visiting[idx] = false
		b.built[idx] = true
	}()

	src := b.doc.Nodes[idx]
	name := common.Coalesce(src.Name, fmt.Sprintf("node_%d", idx))

	var out scene.Node
	if src.Mesh != nil {
		meshes, err := b.meshes(int(*src.Mesh), name)
		if err != nil {
			return nil, err
		}
		if len(meshes) == 1 {
			out = meshes[0]
		} else {
			g := scene.NewGroup(name)
			for _, m := range meshes {
				_ = g.Add(m)
			}
			out = g
		}
	} else {
		out = scene.NewGroup(name)
	}
	*out.Transform() = gltfNodeTransform(src)

	for _, c := range src.Children {
		child, err := b.node(int(c))
		if err != nil {
			return nil, err
		}
		if err := out.Add(child); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
		}
	}
	return out, nil
}

// meshes returns one scene mesh per primitive of a glTF mesh.
func (b *gltfModelBuilder) meshes(idx int, nodeName string) ([]*scene.Mesh, error) {
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d out of range", ErrMalformedModel, idx)
	}
	src := b.doc.Meshes[idx]
	name := common.Coalesce(src.Name, nodeName)

	out := make([]*scene.Mesh, 0, len(src.Primitives))
	for i, prim := range src.Primitives {
		geom, err := b.geometry(prim)
		if err != nil {
			return nil, err
		}
		mat, err := b.material(prim.Material)
		if err != nil {
			return nil, err
		}
		primName := name
		if len(src.Primitives) > 1 {
			primName = fmt.Sprintf("%s_%d", name, i)
		}
		out = append(out, scene.NewMesh(primName, geom, mat))
	}
	return out, nil
}

func (b *gltfModelBuilder) geometry(prim *gltf.Primitive) (scene.Geometry, error) {
	var geom scene.Geometry
	for attr, acc := range prim.Attributes {
		a := int(acc)
		if a < 0 || a >= len(b.doc.Accessors) {
			return geom, fmt.Errorf("%w: accessor %d out of range", ErrMalformedModel, a)
		}
		geom.Attributes = append(geom.Attributes, attr)
		if attr == "POSITION" {
			geom.VertexCount = int(b.doc.Accessors[a].Count)
		}
	}
	sort.Strings(geom.Attributes)

	if prim.Indices != nil {
		a := int(*prim.Indices)
		if a < 0 || a >= len(b.doc.Accessors) {
			return geom, fmt.Errorf("%w: index accessor %d out of range", ErrMalformedModel, a)
		}
		geom.IndexCount = int(b.doc.Accessors[a].Count)
	}
	return geom, nil
}

// material returns the scene material for a glTF material index. Primitives sharing a glTF material share the
// scene material, and primitives without one share a default standard material.
func (b *gltfModelBuilder) material(ref *int) (material.Material, error) {
	if ref == nil {
		if b.def == nil {
			b.def = material.NewStandard(material.WithName("default"))
		}
		return b.def, nil
	}

	idx := int(*ref)
	if m, ok := b.mats[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(b.doc.Materials) {
		return nil, fmt.Errorf("%w: material %d out of range", ErrMalformedModel, idx)
	}
	src := b.doc.Materials[idx]

	opts := []material.MaterialBuilderOption{material.WithName(src.Name)}
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			c := *pbr.BaseColorFactor
			opts = append(opts, material.WithBaseColor([4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}))
		}
		if pbr.BaseColorTexture != nil {
			opts = append(opts, material.WithBaseColorTexture(b.textureURI(int(pbr.BaseColorTexture.Index))))
		}
		if pbr.MetallicFactor != nil {
			opts = append(opts, material.WithMetallic(float32(*pbr.MetallicFactor)))
		}
		if pbr.RoughnessFactor != nil {
			opts = append(opts, material.WithRoughness(float32(*pbr.RoughnessFactor)))
		}
		if pbr.MetallicRoughnessTexture != nil {
			opts = append(opts, material.WithMetallicRoughnessTexture(b.textureURI(int(pbr.MetallicRoughnessTexture.Index))))
		}
	}

	var m material.Material
	if _, unlit := src.Extensions[extUnlit]; unlit {
		m = material.NewBasic(opts...)
	} else {
		if src.NormalTexture != nil && src.NormalTexture.Index != nil {
			opts = append(opts, material.WithNormalTexture(b.textureURI(int(*src.NormalTexture.Index))))
		}
		m = material.NewStandard(opts...)
	}
	b.mats[idx] = m
	return m, nil
}

// textureURI resolves a texture index to the image path relative to the asset store. Embedded images are named
// by their buffer view.
func (b *gltfModelBuilder) textureURI(idx int) string {
	if idx < 0 || idx >= len(b.doc.Textures) || b.doc.Textures[idx].Source == nil {
		return ""
	}
	src := int(*b.doc.Textures[idx].Source)
	if src < 0 || src >= len(b.doc.Images) {
		return ""
	}
	img := b.doc.Images[src]
	switch {
	case img.URI == "" && img.BufferView != nil:
		return fmt.Sprintf("%s#bufferView%d", b.uri, int(*img.BufferView))
	case strings.HasPrefix(img.URI, "data:"):
		return fmt.Sprintf("%s#image%d", b.uri, src)
	default:
		return path.Join(b.dir, img.URI)
	}
}

// gltfNodeTransform converts a node's TRS, or its matrix when one is set, to a scene transform.
func gltfNodeTransform(n *gltf.Node) common.Transform {
	if n.Matrix != [16]float64{} && n.Matrix != identityMatrix {
		var m mgl32.Mat4
		for i := range m {
			m[i] = float32(n.Matrix[i])
		}
		return common.DecomposeMatrix(m)
	}

	t := n.Translation
	r := n.Rotation
	if r == [4]float64{} {
		r = [4]float64{0, 0, 0, 1}
	}
	s := n.Scale
	if s == [3]float64{} {
		s = [3]float64{1, 1, 1}
	}

	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return common.Transform{
		Position: common.Vector3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])},
		Rotation: common.EulerFromMatrix(q.Normalize().Mat4()),
		Scale:    common.Vector3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])},
	}
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
