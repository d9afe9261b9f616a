package loader

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

// loaderBackend decodes one model format into a scene subtree.
// Concrete implementations (e.g., gltfLoaderBackendImpl) handle format-specific details.
type loaderBackend interface {
	// Decode fetches uri from store and builds the model's node hierarchy.
	//
	// Parameters:
	//   - store: the asset store
	//   - uri: the model path within store
	//   - p: receives the bytes read
	//
	// Returns:
	//   - *scene.Group: the model root
	//   - error: a *LoadError
	Decode(store fs.FS, uri string, p *progress) (*scene.Group, error)
}
