package interaction

import (
	"time"

	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"go.uber.org/zap"
)

// DispatcherBuilderOption is a functional option for configuring a Dispatcher.
type DispatcherBuilderOption func(*dispatcherImpl)

// WithWorkers sets the maximum number of pool workers running hooks.
//
// Parameters:
//   - n: worker count (values < 1 are ignored)
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithWorkers(n int) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		if n >= 1 {
			d.workers = n
		}
	}
}

// WithQueueSize sets the pool's task queue capacity.
//
// Parameters:
//   - n: queue capacity (values < 1 are ignored)
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithQueueSize(n int) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		if n >= 1 {
			d.queueSize = n
		}
	}
}

// WithIdleTimeout sets how long an idle worker lingers before exiting.
func WithIdleTimeout(timeout time.Duration) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		if timeout > 0 {
			d.idleTimeout = timeout
		}
	}
}

// WithLogger sets the logger hook failures are reported to.
func WithLogger(l *zap.Logger) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		d.logger = logger.OrNop(l).Named("interaction")
	}
}
