package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

// OutcomeKind tags the variant of a load outcome.
type OutcomeKind int

const (
	// OutcomeProgress reports the fraction of a load completed so far.
	OutcomeProgress OutcomeKind = iota

	// OutcomeSuccess carries the loaded asset. It is terminal.
	OutcomeSuccess

	// OutcomeFailure carries the load error. It is terminal.
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeProgress:
		return "progress"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ModelOutcome is one event of a model load: zero or more progress events, then exactly one success or failure.
type ModelOutcome struct {
	Kind OutcomeKind

	// Progress is the completed fraction in [0, 1]. Set for OutcomeProgress.
	Progress float64

	// Model is the model root. Set for OutcomeSuccess.
	Model *scene.Group

	// Err is the failure. Set for OutcomeFailure.
	Err *LoadError
}

// EnvironmentOutcome is the terminal event of an environment load.
type EnvironmentOutcome struct {
	Kind OutcomeKind

	// Texture is the decoded cube texture. Set for OutcomeSuccess.
	Texture *common.CubeTexture

	// Err is the failure. Set for OutcomeFailure.
	Err *LoadError
}

// Poster delivers callbacks onto the thread that owns the scene. timeline.Timeline satisfies it.
type Poster interface {
	// Post queues fn and reports whether it was accepted.
	Post(fn func()) bool
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.Mutex

	store      fs.FS
	poster     Poster
	pool       worker.DynamicWorkerPool
	workers    int
	colorSpace common.ColorSpace

	backends     map[string]loaderBackend
	progressStep float64

	ctx    context.Context
	cancel context.CancelFunc
	taskID atomic.Int64
	wg     sync.WaitGroup
	logger *slog.Logger
}

// Loader fetches and decodes assets off the render timeline.
//
// Every operation returns immediately. Decoding runs on a bounded worker pool, and every outcome is delivered by
// posting the subscriber callback to the Poster, so subscribers run on the timeline and may mutate the scene
// directly. Outcomes the Poster rejects, for example after the timeline is disposed, are dropped.
type Loader interface {
	// LoadModel loads a model document. The format is selected by extension (.gltf or .glb).
	//
	// Parameters:
	//   - uri: the model path within the asset store
	//   - onOutcome: receives progress events then exactly one terminal outcome
	LoadModel(uri string, onOutcome func(ModelOutcome))

	// LoadEnvironment loads the six faces of an environment map.
	// The result is tagged with the loader's color space.
	//
	// Parameters:
	//   - faces: the face paths in px, nx, py, ny, pz, nz order
	//   - onOutcome: receives exactly one terminal outcome
	LoadEnvironment(faces [common.CubeFaceCount]string, onOutcome func(EnvironmentOutcome))

	// ColorSpace returns the color space environment textures are tagged with.
	//
	// Returns:
	//   - common.ColorSpace: the tag
	ColorSpace() common.ColorSpace

	// Wait blocks until every submitted load has delivered its terminal outcome.
	Wait()

	// Close cancels loads still fetching, aborting in-flight requests to an HTTP store. Their outcomes are
	// network failures, which the Poster may drop.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader reading from store and delivering outcomes through poster.
//
// Parameters:
//   - store: the asset store, see OpenStore
//   - poster: the outcome delivery target, typically the render timeline
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new loader
func NewLoader(store fs.FS, poster Poster, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:           &sync.Mutex{},
		store:        store,
		poster:       poster,
		workers:      4,
		colorSpace:   common.ColorSpaceSRGB,
		progressStep: 0.01,
		logger:       slog.Default(),
	}

	gltfBackend := newGLTFLoaderBackend()
	l.backends = map[string]loaderBackend{
		".gltf": gltfBackend,
		".glb":  gltfBackend,
	}

	for _, option := range options {
		option(l)
	}

	if l.ctx == nil {
		l.ctx = context.Background()
	}
	l.ctx, l.cancel = context.WithCancel(l.ctx)
	if cs, ok := l.store.(contextStore); ok {
		l.store = cs.WithContext(l.ctx)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, time.Second)
	return l
}

func (l *loader) LoadModel(uri string, onOutcome func(ModelOutcome)) {
	deliver := func(o ModelOutcome) {
		l.deliver(uri, o.Kind, func() {
			if onOutcome != nil {
				onOutcome(o)
			}
		})
	}

	l.submit(func() {
		p := newProgress(l.progressStep, func(f float64) {
			deliver(ModelOutcome{Kind: OutcomeProgress, Progress: f})
		})
		p.start()

		root, err := l.decodeModel(uri, p)
		if err != nil {
			deliver(ModelOutcome{Kind: OutcomeFailure, Err: asLoadError(uri, err)})
			return
		}
		p.finish()
		deliver(ModelOutcome{Kind: OutcomeSuccess, Model: root})
	})
}

func (l *loader) LoadEnvironment(faces [common.CubeFaceCount]string, onOutcome func(EnvironmentOutcome)) {
	label := faces[0]
	if dir := path.Dir(label); dir != "." {
		label = dir
	}
	deliver := func(o EnvironmentOutcome) {
		l.deliver(label, o.Kind, func() {
			if onOutcome != nil {
				onOutcome(o)
			}
		})
	}

	l.submit(func() {
		cube, err := decodeCube(l.ctx, l.store, faces, l.colorSpace)
		if cerr := l.ctx.Err(); err != nil && cerr != nil {
			err = networkError(label, cerr)
		}
		if err != nil {
			deliver(EnvironmentOutcome{Kind: OutcomeFailure, Err: asLoadError(label, err)})
			return
		}
		deliver(EnvironmentOutcome{Kind: OutcomeSuccess, Texture: cube})
	})
}

func (l *loader) ColorSpace() common.ColorSpace {
	return l.colorSpace
}

func (l *loader) Wait() {
	l.wg.Wait()
}

func (l *loader) Close() {
	l.cancel()
}

// --- internal helpers ---

// submit runs job on the worker pool, recovering a panic as a logged error so one bad asset cannot take down the
// pool.
func (l *loader) submit(job func()) {
	l.wg.Add(1)
	id := int(l.taskID.Add(1))
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer l.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					l.logger.Error("load job panicked", "task", id, "panic", r)
				}
			}()
			job()
			return nil, nil
		},
	})
}

func (l *loader) decodeModel(uri string, p *progress) (*scene.Group, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, networkError(uri, err)
	}
	ext := strings.ToLower(path.Ext(uri))
	backend, ok := l.backends[ext]
	if !ok {
		return nil, decodeError(uri, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext))
	}
	root, err := backend.Decode(l.store, uri, p)
	if cerr := l.ctx.Err(); err != nil && cerr != nil {
		return nil, networkError(uri, cerr)
	}
	return root, err
}

func (l *loader) deliver(uri string, kind OutcomeKind, fn func()) {
	if l.poster == nil || !l.poster.Post(fn) {
		l.logger.Debug("load outcome dropped", "uri", uri, "outcome", kind)
	}
}

func asLoadError(uri string, err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return decodeError(uri, err)
}
