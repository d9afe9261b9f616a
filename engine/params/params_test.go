package params

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	X, Y, Z float32
}

type debugObject struct {
	EnvMapIntensity float64
	Samples         int
	Name            string
	hidden          float64
}

type lamp struct {
	intensity float32
}

func (l *lamp) Intensity() float32     { return l.intensity }
func (l *lamp) SetIntensity(v float32) { l.intensity = v }

type broken struct{}

func (broken) Mode() string      { return "" }
func (*broken) SetMode(v string) {}

func TestAddSnapshotsValueAtBindTime(t *testing.T) {
	p := NewPanel()
	d := &debugObject{EnvMapIntensity: 2.5}

	c, err := p.Add(d, "envMapIntensity", WithRange(0, 10), WithStep(0.001))
	require.NoError(t, err)

	d.EnvMapIntensity = 9
	assert.Equal(t, 2.5, c.Displayed())
	assert.Equal(t, 9.0, c.Value())

	c.Refresh()
	assert.Equal(t, 9.0, c.Displayed())
}

func TestCommitWritesBeforeOnChange(t *testing.T) {
	p := NewPanel()
	d := &debugObject{EnvMapIntensity: 2.5}

	var seenOnTarget, seenArg float64
	calls := 0
	c := p.MustAdd(d, "envMapIntensity", WithRange(0, 10), WithOnChange(func(v float64) {
		calls++
		seenOnTarget = d.EnvMapIntensity
		seenArg = v
	}))

	assert.True(t, c.Commit(4.25))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 4.25, seenOnTarget)
	assert.Equal(t, 4.25, seenArg)
	assert.Equal(t, 4.25, d.EnvMapIntensity)
}

func TestCommitFiresOncePerDistinctValue(t *testing.T) {
	p := NewPanel()
	d := &debugObject{EnvMapIntensity: 2.5}
	calls := 0
	c := p.MustAdd(d, "EnvMapIntensity", WithRange(0, 10), WithOnChange(func(float64) { calls++ }))

	for _, v := range []float64{3, 3, 3, 2.5, 2.5, 7} {
		c.Commit(v)
	}
	assert.Equal(t, 3, calls)
	assert.False(t, c.Commit(7))
	assert.False(t, c.Commit(math.NaN()))
}

func TestCommitRoundTripsEveryValueInRange(t *testing.T) {
	p := NewPanel()
	pos := &position{}
	c := p.MustAdd(pos, "x", WithRange(-5, 5), WithStep(0.001))

	for v := -5.0; v <= 5.0; v += 0.37 {
		c.Commit(v)
		assert.InDelta(t, v, float64(pos.X), 1e-6)
		assert.InDelta(t, v, c.Value(), 1e-6)
	}
}

func TestCommitClampsToRange(t *testing.T) {
	p := NewPanel()
	d := &debugObject{}
	c := p.MustAdd(d, "envMapIntensity", WithRange(0, 10))

	c.Commit(42)
	assert.Equal(t, 10.0, d.EnvMapIntensity)
	c.Commit(-1)
	assert.Equal(t, 0.0, d.EnvMapIntensity)

	pos := &position{}
	y := p.MustAdd(pos, "Y", WithRange(-math.Pi, math.Pi))
	for _, v := range []float64{math.Pi, 4, -math.Pi, -4} {
		y.Commit(v)
		assert.LessOrEqual(t, y.Value(), y.Max(), "commit %v", v)
		assert.GreaterOrEqual(t, y.Value(), y.Min(), "commit %v", v)
	}

	l := &lamp{}
	i := p.MustAdd(l, "intensity", WithRange(0, 0.1))
	i.Commit(1)
	assert.LessOrEqual(t, i.Value(), i.Max())
	assert.Equal(t, i.Value(), i.Displayed())

	r := p.MustAdd(d, "Samples", WithRange(0, 2.5))
	r.Commit(3)
	assert.Equal(t, 2, d.Samples)
}

func TestMethodPairBinding(t *testing.T) {
	p := NewPanel()
	l := &lamp{intensity: 3}
	c, err := p.Add(l, "intensity", WithRange(0, 10), WithLabel("lightIntensity"))
	require.NoError(t, err)

	assert.Equal(t, "lightIntensity", c.Label())
	assert.Equal(t, 3.0, c.Displayed())

	c.Commit(6.5)
	assert.Equal(t, float32(6.5), l.intensity)
}

func TestIntFieldRounds(t *testing.T) {
	p := NewPanel()
	d := &debugObject{}
	c := p.MustAdd(d, "Samples", WithRange(0, 16))

	assert.True(t, c.Commit(3.6))
	assert.Equal(t, 4, d.Samples)
	assert.False(t, c.Commit(4.2))
}

func TestDistinctPropertiesDoNotInterfere(t *testing.T) {
	p := NewPanel()
	pos := &position{X: 0.25, Y: 3, Z: -2.25}
	x := p.MustAdd(pos, "x", WithRange(-5, 5))
	y := p.MustAdd(pos, "y", WithRange(-5, 5))
	z := p.MustAdd(pos, "z", WithRange(-5, 5))

	y.Commit(-1)

	assert.Equal(t, position{X: 0.25, Y: -1, Z: -2.25}, *pos)
	assert.InDelta(t, 0.25, x.Value(), 1e-6)
	assert.InDelta(t, -2.25, z.Value(), 1e-6)
}

func TestControlsKeepInsertionOrder(t *testing.T) {
	p := NewPanel(WithTitle("viewer"))
	pos := &position{}
	d := &debugObject{}
	labels := []string{"lightX", "lightY", "envMapIntensity", "lightZ"}
	p.MustAdd(pos, "x", WithLabel(labels[0]))
	p.MustAdd(pos, "y", WithLabel(labels[1]))
	p.MustAdd(d, "envMapIntensity", WithLabel(labels[2]))
	p.MustAdd(pos, "z", WithLabel(labels[3]))

	var got []string
	for _, c := range p.Controls() {
		got = append(got, c.Label())
	}
	assert.Equal(t, labels, got)
	assert.Equal(t, 4, p.Len())
	assert.Equal(t, "viewer", p.Title())

	c, ok := p.Lookup("envMapIntensity")
	require.True(t, ok)
	assert.Equal(t, "envMapIntensity", c.Property())
	_, ok = p.Lookup("missing")
	assert.False(t, ok)

	info := p.Describe()
	require.Len(t, info, 4)
	assert.Equal(t, "lightZ", info[3].Label)
}

func TestBindingErrors(t *testing.T) {
	p := NewPanel()
	cases := []struct {
		name     string
		target   any
		property string
		opts     []ControlBuilderOption
		want     error
	}{
		{"missing field", &debugObject{}, "roughness", nil, ErrUnknownProperty},
		{"unexported field", &debugObject{}, "hidden", nil, ErrUnknownProperty},
		{"string field", &debugObject{}, "name", nil, ErrNotNumeric},
		{"non numeric accessor", &broken{}, "mode", nil, ErrNotNumeric},
		{"by value", debugObject{}, "samples", nil, ErrNotSettable},
		{"nil pointer", (*debugObject)(nil), "samples", nil, ErrNilTarget},
		{"nil", nil, "samples", nil, ErrNilTarget},
		{"empty name", &debugObject{}, "", nil, ErrUnknownProperty},
		{"non struct", new(float64), "x", nil, ErrUnknownProperty},
		{"inverted range", &debugObject{}, "samples", []ControlBuilderOption{WithRange(1, 0)}, ErrInvalidRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := p.Add(tc.target, tc.property, tc.opts...)
			assert.Nil(t, c)
			var be *BindingError
			require.ErrorAs(t, err, &be)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.property, be.Property)
			assert.NotEmpty(t, be.Error())
		})
	}
	assert.Equal(t, 0, p.Len())
}

func TestMustAddPanicsOnBindingError(t *testing.T) {
	p := NewPanel()
	assert.Panics(t, func() { p.MustAdd(&debugObject{}, "nope") })
}

func TestAddLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewPanel(WithLogger(logger))
	p.MustAdd(&position{}, "x", WithLabel("lightX"))

	assert.Contains(t, buf.String(), "label=lightX")
}
