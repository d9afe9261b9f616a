package params

import "log/slog"

// PanelBuilderOption is a function that configures a Panel during construction.
type PanelBuilderOption func(*Panel)

// WithTitle sets the panel title shown by the host.
//
// Parameters:
//   - title: the panel title
//
// Returns:
//   - PanelBuilderOption: a function that applies the title option
func WithTitle(title string) PanelBuilderOption {
	return func(p *Panel) {
		p.title = title
	}
}

// WithLogger sets the logger used for diagnostics.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - PanelBuilderOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) PanelBuilderOption {
	return func(p *Panel) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// ControlBuilderOption is a function that configures a Control when it is added to a Panel.
type ControlBuilderOption func(*Control)

// WithRange bounds the values a control accepts.
//
// Parameters:
//   - min: the lower bound
//   - max: the upper bound
//
// Returns:
//   - ControlBuilderOption: a function that applies the range option
func WithRange(min, max float64) ControlBuilderOption {
	return func(c *Control) {
		c.min = min
		c.max = max
	}
}

// WithStep sets the widget increment.
//
// Parameters:
//   - step: the increment
//
// Returns:
//   - ControlBuilderOption: a function that applies the step option
func WithStep(step float64) ControlBuilderOption {
	return func(c *Control) {
		c.step = step
	}
}

// WithLabel sets the display name. Defaults to the property name.
//
// Parameters:
//   - label: the display name
//
// Returns:
//   - ControlBuilderOption: a function that applies the label option
func WithLabel(label string) ControlBuilderOption {
	return func(c *Control) {
		c.label = label
	}
}

// WithOnChange sets the callback run after a committed value has been written to the property.
//
// Parameters:
//   - fn: receives the stored value
//
// Returns:
//   - ControlBuilderOption: a function that applies the callback option
func WithOnChange(fn func(float64)) ControlBuilderOption {
	return func(c *Control) {
		c.onChange = fn
	}
}
