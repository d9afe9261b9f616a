package loader

import (
	"context"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the maximum number of loads decoded concurrently. Values below 1 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithColorSpace sets the color space decoded environment maps are tagged with. It must match the renderer's
// output color space. Defaults to sRGB.
//
// Parameters:
//   - cs: the color space
//
// Returns:
//   - LoaderBuilderOption: a function that applies the color space option to a loader
func WithColorSpace(cs common.ColorSpace) LoaderBuilderOption {
	return func(l *loader) {
		l.colorSpace = cs
	}
}

// WithProgressStep sets the smallest increase in completed fraction that produces a progress event.
//
// Parameters:
//   - step: the fraction, values outside (0, 1] are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the progress option to a loader
func WithProgressStep(step float64) LoaderBuilderOption {
	return func(l *loader) {
		if step > 0 && step <= 1 {
			l.progressStep = step
		}
	}
}

// WithContext sets the parent context of every load. Cancelling it fails loads still fetching.
//
// Parameters:
//   - ctx: the parent context
//
// Returns:
//   - LoaderBuilderOption: a function that applies the context to a loader
func WithContext(ctx context.Context) LoaderBuilderOption {
	return func(l *loader) {
		l.ctx = ctx
	}
}

// WithLogger sets the logger used for dropped outcomes and job failures.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
