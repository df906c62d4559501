package motion

import (
	"github.com/Carmen-Shannon/oxy-fps/engine/logger"
	"go.uber.org/zap"
)

// SystemOption is a functional option for configuring a System.
type SystemOption func(*System)

// WithLogger sets the logger used for loop start/cancel/stop debug output.
//
// Parameters:
//   - l: the logger (nil keeps the no-op logger)
//
// Returns:
//   - SystemOption: option function to apply
func WithLogger(l *zap.Logger) SystemOption {
	return func(s *System) {
		s.logger = logger.OrNop(l).Named("motion")
	}
}
