package scene

import (
	"errors"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrCycle is returned when attaching a node would make it its own ancestor.
	ErrCycle = errors.New("scene: node cannot be attached beneath itself")

	// ErrNilNode is returned when a nil node is attached.
	ErrNilNode = errors.New("scene: nil node")
)

// nodeCount generates unique node IDs.
var nodeCount atomic.Uint64

// NodeKind enumerates the closed set of scene node variants.
type NodeKind int

const (
	NodeKindGroup NodeKind = iota
	NodeKindMesh
	NodeKindLight
	NodeKindCamera
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindGroup:
		return "group"
	case NodeKindMesh:
		return "mesh"
	case NodeKindLight:
		return "light"
	case NodeKindCamera:
		return "camera"
	default:
		return "unknown"
	}
}

// Node is an element of the scene tree.
//
// The set of implementations is closed: *Group, *Mesh, *LightNode and *CameraNode. Each node owns a local
// transform and an ordered list of children, and has at most one parent. Nodes are not safe for concurrent
// mutation: the scene tree is only modified from the render timeline.
type Node interface {
	// ID returns the node's process-unique identifier.
	//
	// Returns:
	//   - uint64: the node ID
	ID() uint64

	// Name returns the node's name, usually taken from the asset it was loaded from.
	//
	// Returns:
	//   - string: the node name
	Name() string

	// Kind returns the variant tag of the node.
	//
	// Returns:
	//   - NodeKind: the node variant
	Kind() NodeKind

	// Transform returns the live local transform. Fields may be mutated in place or bound to controls.
	//
	// Returns:
	//   - *common.Transform: the local transform, never nil
	Transform() *common.Transform

	// Visible reports whether the node and its subtree are drawn.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// SetVisible shows or hides the node and its subtree.
	//
	// Parameters:
	//   - visible: true to draw the node
	SetVisible(visible bool)

	// Parent returns the node's parent, or nil for a root.
	//
	// Returns:
	//   - Node: the parent node or nil
	Parent() Node

	// Children returns a copy of the node's children in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// Add attaches children to this node, detaching each from its previous parent first.
	// Attaching a node to itself or to one of its descendants returns ErrCycle and leaves the tree unchanged.
	//
	// Parameters:
	//   - children: the nodes to attach
	//
	// Returns:
	//   - error: ErrNilNode or ErrCycle on failure
	Add(children ...Node) error

	// Remove detaches a direct child.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: true if child was attached to this node
	Remove(child Node) bool

	// LocalMatrix returns the node's transform as a matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix
	LocalMatrix() mgl32.Mat4

	// WorldMatrix returns the node's transform composed with every ancestor's.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	base() *object
}

// object is the state shared by every node variant.
type object struct {
	id        uint64
	name      string
	self      Node
	transform common.Transform
	visible   bool
	parent    Node
	children  []Node
}

func newObject(self Node, name string) object {
	return object{
		id:        nodeCount.Add(1),
		name:      name,
		self:      self,
		transform: common.IdentityTransform(),
		visible:   true,
	}
}

func (o *object) ID() uint64 {
	return o.id
}

func (o *object) Name() string {
	return o.name
}

func (o *object) Transform() *common.Transform {
	return &o.transform
}

func (o *object) Visible() bool {
	return o.visible
}

func (o *object) SetVisible(visible bool) {
	o.visible = visible
}

func (o *object) Parent() Node {
	return o.parent
}

func (o *object) Children() []Node {
	out := make([]Node, len(o.children))
	copy(out, o.children)
	return out
}

func (o *object) Add(children ...Node) error {
	for _, child := range children {
		if child == nil {
			return ErrNilNode
		}
		for n := o.self; n != nil; n = n.Parent() {
			if n == child {
				return ErrCycle
			}
		}
	}

	for _, child := range children {
		cb := child.base()
		if cb.parent != nil {
			cb.parent.base().detach(child)
		}
		cb.parent = o.self
		o.children = append(o.children, child)
	}
	return nil
}

func (o *object) Remove(child Node) bool {
	if child == nil || child.Parent() != o.self {
		return false
	}
	o.detach(child)
	child.base().parent = nil
	return true
}

func (o *object) LocalMatrix() mgl32.Mat4 {
	return common.ModelMatrix(o.transform)
}

func (o *object) WorldMatrix() mgl32.Mat4 {
	m := o.LocalMatrix()
	for p := o.parent; p != nil; p = p.Parent() {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (o *object) base() *object {
	return o
}

func (o *object) detach(child Node) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// Group is a transform-only node used to gather children, such as the root of a loaded model.
type Group struct {
	object
}

// NewGroup creates an empty Group.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - *Group: a new group node
func NewGroup(name string) *Group {
	g := &Group{}
	g.object = newObject(g, name)
	return g
}

func (g *Group) Kind() NodeKind {
	return NodeKindGroup
}

// Geometry summarizes the vertex data a mesh draws. The vertex buffers themselves belong to the rasterizer.
type Geometry struct {
	// VertexCount is the number of vertices across all attributes.
	VertexCount int

	// IndexCount is the number of indices, 0 for non-indexed geometry.
	IndexCount int

	// Attributes lists the vertex attribute semantics present, such as POSITION or NORMAL.
	Attributes []string
}

// Mesh is a drawable node: geometry with a material.
type Mesh struct {
	object
	geometry      Geometry
	material      material.Material
	castShadow    bool
	receiveShadow bool
}

// NewMesh creates a Mesh node.
//
// Parameters:
//   - name: the node name
//   - geometry: the geometry summary
//   - mat: the surface material
//
// Returns:
//   - *Mesh: a new mesh node
func NewMesh(name string, geometry Geometry, mat material.Material) *Mesh {
	m := &Mesh{geometry: geometry, material: mat}
	m.object = newObject(m, name)
	return m
}

func (m *Mesh) Kind() NodeKind {
	return NodeKindMesh
}

// Geometry returns the mesh geometry summary.
func (m *Mesh) Geometry() Geometry {
	return m.geometry
}

// Material returns the mesh material.
func (m *Mesh) Material() material.Material {
	return m.material
}

// SetMaterial replaces the mesh material.
func (m *Mesh) SetMaterial(mat material.Material) {
	m.material = mat
}

// CastShadow reports whether the mesh is drawn into shadow maps.
func (m *Mesh) CastShadow() bool {
	return m.castShadow
}

// SetCastShadow sets whether the mesh is drawn into shadow maps.
func (m *Mesh) SetCastShadow(v bool) {
	m.castShadow = v
}

// ReceiveShadow reports whether the mesh samples shadow maps.
func (m *Mesh) ReceiveShadow() bool {
	return m.receiveShadow
}

// SetReceiveShadow sets whether the mesh samples shadow maps.
func (m *Mesh) SetReceiveShadow(v bool) {
	m.receiveShadow = v
}

// LightNode places a light in the scene. The node's position is the light's position.
type LightNode struct {
	object
	light light.Light
}

// NewLightNode creates a LightNode.
//
// Parameters:
//   - name: the node name
//   - l: the light emitted from this node
//
// Returns:
//   - *LightNode: a new light node
func NewLightNode(name string, l light.Light) *LightNode {
	n := &LightNode{light: l}
	n.object = newObject(n, name)
	return n
}

func (n *LightNode) Kind() NodeKind {
	return NodeKindLight
}

// Light returns the light emitted from this node.
func (n *LightNode) Light() light.Light {
	return n.light
}

// Position returns the live position of the light. Its fields can be bound to controls.
func (n *LightNode) Position() *common.Vector3 {
	return &n.transform.Position
}

// Direction returns the normalized world-space direction the light shines in, from its position toward its target.
func (n *LightNode) Direction() mgl32.Vec3 {
	w := n.WorldMatrix()
	pos := mgl32.Vec3{w[12], w[13], w[14]}
	t := n.light.Target()
	d := mgl32.Vec3{t[0], t[1], t[2]}.Sub(pos)
	if d.Len() < 1e-8 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// ShadowViewProjection returns the light-space matrix of the node's shadow camera.
func (n *LightNode) ShadowViewProjection() mgl32.Mat4 {
	w := n.WorldMatrix()
	return n.light.Shadow().ViewProjection(common.Vector3{X: w[12], Y: w[13], Z: w[14]}, n.light.Target())
}

// CameraNode places a camera in the scene graph.
type CameraNode struct {
	object
	camera camera.Camera
}

// NewCameraNode creates a CameraNode.
//
// Parameters:
//   - name: the node name
//   - cam: the camera
//
// Returns:
//   - *CameraNode: a new camera node
func NewCameraNode(name string, cam camera.Camera) *CameraNode {
	n := &CameraNode{camera: cam}
	n.object = newObject(n, name)
	return n
}

func (n *CameraNode) Kind() NodeKind {
	return NodeKindCamera
}

// Camera returns the camera carried by this node.
func (n *CameraNode) Camera() camera.Camera {
	return n.camera
}
