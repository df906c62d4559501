// Package viewport presents the player's view to the window surface through WebGPU.
//
// The viewport has no geometry: every frame is a single clear pass whose color blends from the
// ground color to the sky color by how far up the camera is looking, which is enough to see
// look input respond on screen.
package viewport

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-fps/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// Viewport owns the WebGPU device and surface for one window.
type Viewport interface {
	// Configure (re)configures the surface for the given framebuffer size.
	// Non-positive sizes leave the surface unconfigured and Draw becomes a no-op.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Configure(width, height int)

	// Draw clears the surface to the color for the camera's current horizon and presents it.
	//
	// Parameters:
	//   - cam: the camera whose orientation picks the clear color
	//
	// Returns:
	//   - error: error if a surface texture or command buffer could not be acquired
	Draw(cam camera.Camera) error

	// SetVSync switches between Fifo (vsync) and Immediate presentation. Takes effect on the next Configure.
	//
	// Parameters:
	//   - enabled: true for vsync
	SetVSync(enabled bool)

	// Release frees all GPU resources. The viewport must not be used afterwards.
	Release()
}

// viewportImpl implements the Viewport interface.
type viewportImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	presentMode   wgpu.PresentMode
	forceFallback bool
	width         int
	height        int
	configured    bool

	sky    wgpu.Color
	ground wgpu.Color

	logger *zap.Logger
}

var _ Viewport = &viewportImpl{}

// NewViewport creates the WebGPU instance, surface, adapter and device for a window surface.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor, usually from window.SurfaceDescriptor()
//   - options: functional options to configure the viewport
//
// Returns:
//   - Viewport: the created viewport (surface not yet configured)
//   - error: error if no adapter or device could be obtained
func NewViewport(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...ViewportBuilderOption) (Viewport, error) {
	if surfaceDescriptor == nil {
		return nil, fmt.Errorf("viewport: nil surface descriptor")
	}
	runtime.LockOSThread()

	v := &viewportImpl{
		mu:          &sync.Mutex{},
		presentMode: wgpu.PresentModeFifo,
		sky:         wgpu.Color{R: 0.45, G: 0.65, B: 0.95, A: 1},
		ground:      wgpu.Color{R: 0.25, G: 0.2, B: 0.15, A: 1},
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		opt(v)
	}

	v.instance = wgpu.CreateInstance(nil)
	v.surface = v.instance.CreateSurface(surfaceDescriptor)

	a, err := v.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: v.forceFallback,
		CompatibleSurface:    v.surface,
	})
	if err != nil {
		v.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	v.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewport Device",
	})
	if err != nil {
		v.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	v.device = d
	v.queue = d.GetQueue()

	v.logger.Info("viewport created", zap.Bool("fallback_adapter", v.forceFallback))
	return v, nil
}

func (v *viewportImpl) Configure(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width, v.height = width, height
	if width <= 0 || height <= 0 {
		v.configured = false
		return
	}

	capabilities := v.surface.GetCapabilities(v.adapter)
	v.surface.Configure(v.adapter, v.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      capabilities.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: v.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	v.configured = true
	v.logger.Debug("surface configured", zap.Int("width", width), zap.Int("height", height))
}

func (v *viewportImpl) Draw(cam camera.Camera) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.configured {
		return nil
	}

	horizon := float32(0.5)
	if cam != nil {
		horizon = cam.Horizon()
	}

	surfaceTexture, err := v.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := v.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: Blend(v.ground, v.sky, float64(horizon)),
			},
		},
	})
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	v.queue.Submit(commandBuffer)
	v.surface.Present()
	return nil
}

func (v *viewportImpl) SetVSync(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if enabled {
		v.presentMode = wgpu.PresentModeFifo
	} else {
		v.presentMode = wgpu.PresentModeImmediate
	}
}

func (v *viewportImpl) Release() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.queue != nil {
		v.queue.Release()
		v.queue = nil
	}
	if v.device != nil {
		v.device.Release()
		v.device = nil
	}
	if v.adapter != nil {
		v.adapter.Release()
		v.adapter = nil
	}
	if v.surface != nil {
		v.surface.Release()
		v.surface = nil
	}
	if v.instance != nil {
		v.instance.Release()
		v.instance = nil
	}
	v.configured = false
}

// Blend linearly interpolates between two colors; t is clamped to [0, 1].
//
// Parameters:
//   - from: the color at t = 0
//   - to: the color at t = 1
//   - t: the blend factor
//
// Returns:
//   - wgpu.Color: the blended color
func Blend(from, to wgpu.Color, t float64) wgpu.Color {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return wgpu.Color{
		R: from.R + (to.R-from.R)*t,
		G: from.G + (to.G-from.G)*t,
		B: from.B + (to.B-from.B)*t,
		A: from.A + (to.A-from.A)*t,
	}
}
