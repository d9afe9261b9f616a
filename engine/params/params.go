// Package params binds numeric properties of arbitrary objects to live controls.
//
// A Panel is the contract between the viewer and an external debug panel host: the host renders the ordered
// Controls as widgets and calls Commit when the user moves one.
package params

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Panel is an ordered set of controls.
type Panel struct {
	mu       *sync.Mutex
	title    string
	controls []*Control
	logger   *slog.Logger
}

// NewPanel creates an empty Panel.
//
// Parameters:
//   - options: variadic list of PanelBuilderOption functions to configure the panel
//
// Returns:
//   - *Panel: a new panel
func NewPanel(options ...PanelBuilderOption) *Panel {
	p := &Panel{
		mu:     &sync.Mutex{},
		title:  "debug",
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Title returns the panel title.
func (p *Panel) Title() string {
	return p.title
}

// Add binds property on target to a new control appended to the panel.
//
// property names either an exported numeric field of the struct target points to, or a method pair
// Name() / SetName(v) on target. The first letter is matched case-insensitively, so "intensity" binds Intensity.
// The control's displayed value is the property value at the time of the call.
//
// Parameters:
//   - target: the object holding the property, passed by pointer when binding a field
//   - property: the property name
//   - options: range, step, label and change callback
//
// Returns:
//   - *Control: the new control
//   - error: a *BindingError if the property cannot be bound
func (p *Panel) Add(target any, property string, options ...ControlBuilderOption) (*Control, error) {
	c := &Control{
		mu:       &sync.Mutex{},
		label:    property,
		property: property,
		target:   fmt.Sprintf("%T", target),
		min:      math.Inf(-1),
		max:      math.Inf(1),
	}
	for _, opt := range options {
		opt(c)
	}

	if c.min > c.max {
		return nil, &BindingError{Target: c.target, Property: property, Err: ErrInvalidRange}
	}

	acc, err := resolve(target, property)
	if err != nil {
		return nil, &BindingError{Target: c.target, Property: property, Err: err}
	}
	c.acc = acc
	c.displayed = acc.get()

	p.mu.Lock()
	p.controls = append(p.controls, c)
	p.mu.Unlock()

	p.logger.Debug("control bound", "panel", p.title, "label", c.label, "value", c.displayed)
	return c, nil
}

// MustAdd is like Add but panics if the property cannot be bound.
//
// Parameters:
//   - target: the object holding the property
//   - property: the property name
//   - options: range, step, label and change callback
//
// Returns:
//   - *Control: the new control
func (p *Panel) MustAdd(target any, property string, options ...ControlBuilderOption) *Control {
	c, err := p.Add(target, property, options...)
	if err != nil {
		panic(err)
	}
	return c
}

// Controls returns the controls in the order they were added.
//
// Returns:
//   - []*Control: a copy of the control list
func (p *Panel) Controls() []*Control {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Control, len(p.controls))
	copy(out, p.controls)
	return out
}

// Len returns the number of controls.
func (p *Panel) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.controls)
}

// Lookup returns the first control with the given label.
//
// Parameters:
//   - label: the display name to find
//
// Returns:
//   - *Control: the control, or nil
//   - bool: true if found
func (p *Panel) Lookup(label string) (*Control, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.controls {
		if c.label == label {
			return c, true
		}
	}
	return nil, false
}

// Refresh re-reads every bound property into its control's displayed value.
func (p *Panel) Refresh() {
	for _, c := range p.Controls() {
		c.Refresh()
	}
}

// Describe returns an Info for every control in order.
//
// Returns:
//   - []Info: the control descriptions
func (p *Panel) Describe() []Info {
	controls := p.Controls()
	out := make([]Info, len(controls))
	for i, c := range controls {
		out[i] = c.Info()
	}
	return out
}
