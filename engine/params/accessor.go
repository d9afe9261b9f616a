package params

import (
	"math"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"cogentcore.org/core/base/reflectx"
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// accessor reads and writes one numeric property through reflection.
type accessor struct {
	get func() float64
	set func(float64) error
	// fit converts a value to what get would return after set, so that changes can be detected in the
	// property's own precision.
	fit  func(float64) float64
	kind reflect.Kind
}

// within clamps v to [lo, hi] in the property's own precision. Narrowing can round a clamped value just past a
// bound, in which case it is stepped back to the nearest representable value inside.
func (a accessor) within(v, lo, hi float64) float64 {
	v = a.fit(common.Clamp(v, lo, hi))
	switch {
	case v > hi:
		return a.toward(v, math.Inf(-1))
	case v < lo:
		return a.toward(v, math.Inf(1))
	}
	return v
}

func (a accessor) toward(v, dir float64) float64 {
	switch a.kind {
	case reflect.Float32:
		return float64(math.Nextafter32(float32(v), float32(dir)))
	case reflect.Float64:
		return math.Nextafter(v, dir)
	}
	if dir > v {
		return a.fit(v + 1)
	}
	return a.fit(v - 1)
}

// resolve finds property on target. A getter/setter method pair Name() / SetName(v) is preferred; otherwise an
// exported struct field is used. The first letter of property is upper-cased, so "intensity" finds Intensity.
func resolve(target any, property string) (accessor, error) {
	v := reflect.ValueOf(target)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return accessor{}, ErrNilTarget
	}

	name := exported(property)
	if name == "" {
		return accessor{}, ErrUnknownProperty
	}

	if acc, ok, err := methodPair(v, name); ok || err != nil {
		return acc, err
	}

	sv := reflectx.NonPointerValue(v)
	if sv.Kind() != reflect.Struct {
		return accessor{}, ErrUnknownProperty
	}

	f := fieldByName(sv, name)
	if !f.IsValid() {
		return accessor{}, ErrUnknownProperty
	}
	if !isNumeric(f.Kind()) {
		return accessor{}, ErrNotNumeric
	}
	if !f.CanSet() {
		return accessor{}, ErrNotSettable
	}

	fit := fitter(f.Type())
	ptr := f.Addr().Interface()
	return accessor{
		get:  func() float64 { return toFloat(f) },
		set:  func(x float64) error { return reflectx.SetRobust(ptr, fit(x)) },
		fit:  fit,
		kind: f.Kind(),
	}, nil
}

func methodPair(v reflect.Value, name string) (accessor, bool, error) {
	getter := v.MethodByName(name)
	setter := v.MethodByName("Set" + name)
	if !getter.IsValid() || !setter.IsValid() {
		return accessor{}, false, nil
	}

	gt, st := getter.Type(), setter.Type()
	if gt.NumIn() != 0 || gt.NumOut() != 1 || st.NumIn() != 1 {
		return accessor{}, false, nil
	}
	if !isNumeric(gt.Out(0).Kind()) || !isNumeric(st.In(0).Kind()) {
		return accessor{}, true, ErrNotNumeric
	}

	in := st.In(0)
	fit := fitter(in)
	return accessor{
		get: func() float64 { return toFloat(getter.Call(nil)[0]) },
		set: func(x float64) error {
			arg := reflect.New(in)
			if err := reflectx.SetRobust(arg.Interface(), fit(x)); err != nil {
				return err
			}
			setter.Call([]reflect.Value{arg.Elem()})
			return nil
		},
		fit:  fit,
		kind: in.Kind(),
	}, true, nil
}

func fieldByName(sv reflect.Value, name string) reflect.Value {
	if f, ok := sv.Type().FieldByName(name); ok && f.IsExported() {
		return sv.FieldByIndex(f.Index)
	}
	for i := range sv.NumField() {
		f := sv.Type().Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return sv.Field(i)
		}
	}
	return reflect.Value{}
}

func exported(property string) string {
	r, size := utf8.DecodeRuneInString(property)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r)) + property[size:]
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	x, err := reflectx.ToFloat(v.Interface())
	if err != nil {
		return math.NaN()
	}
	return x
}

func fitter(t reflect.Type) func(float64) float64 {
	switch t.Kind() {
	case reflect.Float32:
		return func(x float64) float64 { return float64(float32(x)) }
	case reflect.Float64:
		return func(x float64) float64 { return x }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(x float64) float64 { return math.Round(max(x, 0)) }
	default:
		return math.Round
	}
}
