package params

import (
	"math"
	"sync"
)

// Control is a live binding between one numeric property and a panel widget.
//
// The control keeps a displayed snapshot of the property, taken at bind time and after every commit. Commit
// writes the property first and only then runs the change callback, so the callback always observes the new
// value on the target.
type Control struct {
	mu *sync.Mutex

	label    string
	property string
	target   string
	min      float64
	max      float64
	step     float64

	acc       accessor
	displayed float64
	onChange  func(float64)
}

// Label returns the display name of the control.
func (c *Control) Label() string {
	return c.label
}

// Property returns the bound property name as it was requested.
func (c *Control) Property() string {
	return c.property
}

// Min returns the lower bound of the control range.
func (c *Control) Min() float64 {
	return c.min
}

// Max returns the upper bound of the control range.
func (c *Control) Max() float64 {
	return c.max
}

// Step returns the widget increment. It is a display hint; committed values are not snapped to it.
func (c *Control) Step() float64 {
	return c.step
}

// Value reads the bound property.
//
// Returns:
//   - float64: the current property value
func (c *Control) Value() float64 {
	return c.acc.get()
}

// Displayed returns the value the panel last showed.
//
// Returns:
//   - float64: the snapshot taken at bind time or at the last commit or refresh
func (c *Control) Displayed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayed
}

// Refresh re-reads the property into the displayed snapshot, picking up changes made outside the panel.
func (c *Control) Refresh() {
	v := c.acc.get()
	c.mu.Lock()
	c.displayed = v
	c.mu.Unlock()
}

// Commit applies a value from the panel. The value is clamped to [Min, Max] and compared with the property in
// the property's own precision. If it differs, the property is written, the displayed snapshot updated, and the
// change callback invoked with the stored value.
//
// Parameters:
//   - v: the requested value
//
// Returns:
//   - bool: true if the property changed and the callback ran
func (c *Control) Commit(v float64) bool {
	if math.IsNaN(v) {
		return false
	}

	c.mu.Lock()
	v = c.acc.within(v, c.min, c.max)
	if v == c.acc.get() {
		c.displayed = v
		c.mu.Unlock()
		return false
	}
	if err := c.acc.set(v); err != nil {
		c.mu.Unlock()
		return false
	}
	c.displayed = c.acc.get()
	stored := c.displayed
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(stored)
	}
	return true
}

// Info is a plain description of a control for a panel host.
type Info struct {
	Label string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

// Info describes the control with its current displayed value.
//
// Returns:
//   - Info: label, range, step and displayed value
func (c *Control) Info() Info {
	return Info{
		Label: c.label,
		Min:   c.min,
		Max:   c.max,
		Step:  c.step,
		Value: c.Displayed(),
	}
}
