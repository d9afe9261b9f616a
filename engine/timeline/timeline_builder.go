package timeline

import "log/slog"

// TimelineBuilderOption is a function that configures a Timeline during construction.
type TimelineBuilderOption func(*timelineImpl)

// WithLogger sets the logger used for diagnostics.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - TimelineBuilderOption: a function that applies the logger
func WithLogger(logger *slog.Logger) TimelineBuilderOption {
	return func(t *timelineImpl) {
		if logger != nil {
			t.logger = logger
		}
	}
}
