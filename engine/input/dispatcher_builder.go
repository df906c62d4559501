package input

import (
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"go.uber.org/zap"
)

// DispatcherBuilderOption is a functional option for configuring a Dispatcher.
type DispatcherBuilderOption func(*dispatcherImpl)

// WithBindings replaces the default WASD/E key bindings.
//
// Parameters:
//   - b: the key bindings
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithBindings(b Bindings) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		d.bindings = b
	}
}

// WithEnabled enables the given actions from construction.
//
// Parameters:
//   - actions: the actions to enable
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithEnabled(actions ...Action) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		for _, a := range actions {
			d.enabled[a] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		d.logger = logger.OrNop(l).Named("input")
	}
}
