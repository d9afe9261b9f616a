package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoSurfaceFormat is returned when the adapter reports no usable surface format.
var ErrNoSurfaceFormat = errors.New("renderer: surface reports no formats")

type shadowTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat    wgpu.TextureFormat
	surfaceSRGB      bool
	preferSRGB       bool
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	presentMode wgpu.PresentMode

	// shadow depth targets keyed by resolution, kept across frames
	shadowMaps map[[2]int]shadowTarget
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// NewWGPURenderer creates a Renderer backed by WebGPU, presenting into the surface described by surfaceDescriptor.
// The calling goroutine is locked to its OS thread, as the surface requires.
//
// Parameters:
//   - surfaceDescriptor: the platform surface, typically from Window.SurfaceDescriptor
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new renderer
//   - error: an error if no adapter or device could be acquired
func NewWGPURenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(options...)

	backend, err := newWGPURendererBackend(surfaceDescriptor, r.forceFallbackAdapter, r.outputColorSpace == common.ColorSpaceSRGB)
	if err != nil {
		return nil, err
	}
	r.backend = backend
	r.backend.SetPresentMode(r.presentMode)
	return r, nil
}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter, preferSRGB bool) (*wgpuRendererBackendImpl, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("renderer: nil surface descriptor")
	}

	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		preferSRGB:  preferSRGB,
		shadowMaps:  make(map[[2]int]shadowTarget),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewer Device",
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return ErrNoSurfaceFormat
	}
	b.surfaceFormat, b.surfaceSRGB = pickSurfaceFormat(capabilities.Formats, b.preferSRGB)

	alpha := wgpu.CompositeAlphaModeAuto
	if len(capabilities.AlphaModes) > 0 {
		alpha = capabilities.AlphaModes[0]
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   alpha,
	})

	b.releaseDepth()
	tex, view, err := b.createDepthTarget("Depth Texture", width, height, wgpu.TextureFormatDepth24Plus, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	b.depthTexture, b.depthTextureView = tex, view
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) SurfaceColorSpace() common.ColorSpace {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surfaceSRGB {
		return common.ColorSpaceSRGB
	}
	return common.ColorSpaceLinear
}

func (b *wgpuRendererBackendImpl) DrawFrame(desc FrameDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	// Shadow passes run first so the main pass can sample them.
	for _, size := range desc.ShadowMaps {
		target, err := b.shadowMap(size[0], size[1])
		if err != nil {
			return err
		}
		pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
				View:            target.view,
				DepthLoadOp:     wgpu.LoadOpClear,
				DepthStoreOp:    wgpu.StoreOpStore,
				DepthClearValue: 1.0,
			},
		})
		pass.End()
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: desc.ClearColor[0], G: desc.ClearColor[1], B: desc.ClearColor[2], A: desc.ClearColor[3],
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, target := range b.shadowMaps {
		target.view.Release()
		target.texture.Release()
		delete(b.shadowMaps, key)
	}
	b.releaseDepth()

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// --- internal helpers ---

// pickSurfaceFormat returns the first sRGB format when preferSRGB is set, otherwise the first non-sRGB format,
// falling back to the adapter's first choice.
func pickSurfaceFormat(formats []wgpu.TextureFormat, preferSRGB bool) (wgpu.TextureFormat, bool) {
	for _, f := range formats {
		if isSRGBFormat(f) == preferSRGB {
			return f, preferSRGB
		}
	}
	return formats[0], isSRGBFormat(formats[0])
}

func isSRGBFormat(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8UnormSrgb:
		return true
	default:
		return false
	}
}

// shadowMap returns the depth target for a shadow map resolution, creating it on first use.
// Callers must hold b.mu.
func (b *wgpuRendererBackendImpl) shadowMap(width, height int) (shadowTarget, error) {
	key := [2]int{width, height}
	if target, ok := b.shadowMaps[key]; ok {
		return target, nil
	}
	tex, view, err := b.createDepthTarget("Shadow Depth Texture", width, height, wgpu.TextureFormatDepth32Float,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
	if err != nil {
		return shadowTarget{}, err
	}
	target := shadowTarget{texture: tex, view: view}
	b.shadowMaps[key] = target
	return target, nil
}

func (b *wgpuRendererBackendImpl) createDepthTarget(label string, width, height int, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", label, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return tex, view, nil
}

// releaseDepth frees the main pass depth target. Callers must hold b.mu.
func (b *wgpuRendererBackendImpl) releaseDepth() {
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}
