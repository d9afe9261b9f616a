package profiler

import (
	"log/slog"
	"time"
)

// ProfilerBuilderOption is a function that configures a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often statistics are reported. Non-positive values are ignored.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval
func WithUpdateInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithStartTime sets the start of the first reporting window.
//
// Parameters:
//   - t: the window start
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the start time
func WithStartTime(t time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.lastTime = t
	}
}

// WithLogger sets the logger statistics are written to.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the logger
func WithLogger(logger *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}
