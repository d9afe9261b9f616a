package scene

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name        string
	root        *Group
	background  *common.CubeTexture
	environment *common.CubeTexture
	lights      []*LightNode
	models      []Node
	camera      *CameraNode
	disposed    bool
	logger      *slog.Logger
}

// Scene is the root container rendered each frame.
//
// The scene keeps a background and an environment as independent references even when both come from the same
// loaded asset: the background is what the camera sees behind the geometry, the environment is what standard
// materials reflect. Lights, model roots and the camera all live beneath a single root group so that one
// traversal reaches every node.
//
// Once disposed, every mutating operation is a no-op. This lets asynchronous load results that arrive after
// shutdown be delivered without touching a defunct scene.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Root returns the root group every other node hangs from.
	//
	// Returns:
	//   - *Group: the root node
	Root() *Group

	// Background returns the texture drawn behind the scene, or nil.
	//
	// Returns:
	//   - *common.CubeTexture: the background or nil
	Background() *common.CubeTexture

	// SetBackground sets the texture drawn behind the scene.
	//
	// Parameters:
	//   - env: the background texture, nil clears it
	SetBackground(env *common.CubeTexture)

	// Environment returns the texture used for image based lighting, or nil.
	//
	// Returns:
	//   - *common.CubeTexture: the environment or nil
	Environment() *common.CubeTexture

	// SetEnvironment sets the texture used for image based lighting.
	//
	// Parameters:
	//   - env: the environment texture, nil clears it
	SetEnvironment(env *common.CubeTexture)

	// AddLight attaches a light node beneath the root.
	//
	// Parameters:
	//   - l: the light node
	//
	// Returns:
	//   - error: ErrNilNode if l is nil
	AddLight(l *LightNode) error

	// Lights returns a copy of the scene's light nodes in insertion order.
	//
	// Returns:
	//   - []*LightNode: the lights
	Lights() []*LightNode

	// AddModel applies transform to node and attaches it beneath the root as a model root.
	//
	// Parameters:
	//   - node: the model root, typically the group produced by the loader
	//   - transform: the local transform to assign
	//
	// Returns:
	//   - error: ErrNilNode or ErrCycle on failure
	AddModel(node Node, transform common.Transform) error

	// Models returns a copy of the model roots in insertion order.
	//
	// Returns:
	//   - []Node: the model roots
	Models() []Node

	// SetCamera attaches the camera to the scene graph, replacing any previous camera node.
	//
	// Parameters:
	//   - cam: the camera
	SetCamera(cam camera.Camera)

	// Camera returns the scene camera, or nil.
	//
	// Returns:
	//   - camera.Camera: the camera or nil
	Camera() camera.Camera

	// Traverse visits every node depth first, parents before children, starting at the root.
	//
	// Parameters:
	//   - fn: called once per node
	Traverse(fn func(Node))

	// TraverseApply visits every node and calls apply on those for which match returns true.
	//
	// Parameters:
	//   - match: the node predicate
	//   - apply: the function applied to matching nodes
	//
	// Returns:
	//   - int: the number of nodes apply was called on
	TraverseApply(match func(Node) bool, apply func(Node)) int

	// Dispose marks the scene defunct. Later mutations are ignored.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true once disposed
	Disposed() bool
}

var _ Scene = &scene{}

// NewScene creates an empty Scene.
//
// Parameters:
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - Scene: a new scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:     &sync.RWMutex{},
		name:   "scene",
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(s)
	}
	s.root = NewGroup(s.name)
	if s.camera != nil {
		_ = s.root.Add(s.camera)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Root() *Group {
	return s.root
}

func (s *scene) Background() *common.CubeTexture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) SetBackground(env *common.CubeTexture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.background = env
}

func (s *scene) Environment() *common.CubeTexture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.environment
}

func (s *scene) SetEnvironment(env *common.CubeTexture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.environment = env
}

func (s *scene) AddLight(l *LightNode) error {
	if l == nil {
		return ErrNilNode
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil
	}
	if err := s.root.Add(l); err != nil {
		return err
	}
	s.lights = append(s.lights, l)
	return nil
}

func (s *scene) Lights() []*LightNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*LightNode, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) AddModel(node Node, transform common.Transform) error {
	if node == nil {
		return ErrNilNode
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		s.logger.Debug("scene disposed, model dropped", "scene", s.name, "node", node.Name())
		return nil
	}
	if err := s.root.Add(node); err != nil {
		return err
	}
	*node.Transform() = transform
	s.models = append(s.models, node)
	return nil
}

func (s *scene) Models() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Node, len(s.models))
	copy(out, s.models)
	return out
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	if s.camera != nil {
		s.root.Remove(s.camera)
		s.camera = nil
	}
	if cam == nil {
		return
	}
	s.camera = NewCameraNode("camera", cam)
	_ = s.root.Add(s.camera)
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.camera == nil {
		return nil
	}
	return s.camera.Camera()
}

func (s *scene) Traverse(fn func(Node)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	Walk(s.root, fn)
}

func (s *scene) TraverseApply(match func(Node) bool, apply func(Node)) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return WalkApply(s.root, match, apply)
}

func (s *scene) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
}

func (s *scene) Disposed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disposed
}
