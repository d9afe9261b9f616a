package viewport

import "log/slog"

// ViewportBuilderOption is a function that configures a Viewport during construction.
type ViewportBuilderOption func(*viewportImpl)

// WithMaxPixelRatio sets the pixel ratio cap. Values below 1 are ignored.
//
// Parameters:
//   - ratio: the highest drawing buffer density to render at
//
// Returns:
//   - ViewportBuilderOption: a function that applies the cap
func WithMaxPixelRatio(ratio float64) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if ratio >= 1 {
			v.maxPixelRatio = ratio
		}
	}
}

// WithLogger sets the logger used for diagnostics.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - ViewportBuilderOption: a function that applies the logger
func WithLogger(logger *slog.Logger) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if logger != nil {
			v.logger = logger
		}
	}
}
