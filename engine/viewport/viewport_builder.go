package viewport

import (
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// ViewportBuilderOption is a functional option for configuring a Viewport.
type ViewportBuilderOption func(*viewportImpl)

// WithSkyColor sets the clear color shown when looking straight up.
//
// Parameters:
//   - c: the sky color
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithSkyColor(c wgpu.Color) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.sky = c
	}
}

// WithGroundColor sets the clear color shown when looking straight down.
//
// Parameters:
//   - c: the ground color
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithGroundColor(c wgpu.Color) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.ground = c
	}
}

// WithVSync selects Fifo (true) or Immediate (false) presentation. Default is vsync.
func WithVSync(enabled bool) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if enabled {
			v.presentMode = wgpu.PresentModeFifo
		} else {
			v.presentMode = wgpu.PresentModeImmediate
		}
	}
}

// WithForceFallbackAdapter requests the software adapter.
func WithForceFallbackAdapter(force bool) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.forceFallback = force
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ViewportBuilderOption {
	return func(v *viewportImpl) {
		v.logger = logger.OrNop(l).Named("viewport")
	}
}
