package params

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTarget is returned when binding to a nil object.
	ErrNilTarget = errors.New("target is nil")

	// ErrUnknownProperty is returned when the target has no field or accessor pair with the requested name.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrNotNumeric is returned when the property exists but does not hold a number.
	ErrNotNumeric = errors.New("property is not numeric")

	// ErrNotSettable is returned when a field is found on a value that was not passed by pointer.
	ErrNotSettable = errors.New("property is not settable, pass the target by pointer")

	// ErrInvalidRange is returned when min is greater than max.
	ErrInvalidRange = errors.New("min is greater than max")
)

// BindingError reports a control that could not be bound. It is a setup time misconfiguration: callers are
// expected to abort startup rather than recover.
type BindingError struct {
	// Target is the Go type of the object being bound.
	Target string

	// Property is the requested property name.
	Property string

	// Err is the underlying cause, one of the package sentinel errors.
	Err error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("bind %s.%s: %v", e.Target, e.Property, e.Err)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}
