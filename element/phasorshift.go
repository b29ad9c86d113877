package element

import (
	"math"
	"math/cmplx"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// PhasorShift rotates and scales a complex input by a fixed
// magnitude/angle. The angle is specified in degrees, clockwise, hence the
// negation when precomputing the unit rotation vector.
type PhasorShift struct {
	core.Base
	in  *core.Port
	out *core.Port

	unit complex64
}

// NewPhasorShift constructs a PhasorShift applying magnitude and a
// clockwise angleDegrees rotation to its input.
func NewPhasorShift(name string, magnitude, angleDegrees float32) *PhasorShift {
	s := &PhasorShift{Base: core.NewBase(name, core.TypePhasorShift)}
	s.in = s.AddInput(s, "in", core.KindComplex)
	s.out = s.AddOutput(s, "out", core.KindComplex)

	theta := float64(angleDegrees) * math.Pi / 180
	s.unit = complex64(complex(magnitude*float32(math.Cos(-theta)), magnitude*float32(math.Sin(-theta))))
	return s
}

// Update multiplies the input phasor by the precomputed unit rotation.
func (s *PhasorShift) Update(timeval.Time) {
	s.out.SetComplex(s.in.GetComplex() * s.unit)
}

// --- Coordinate conversions -------------------------------------------------

// Rect2Polar converts a rectangular (real, imag) pair to magnitude and angle
// (degrees).
type Rect2Polar struct {
	core.Base
	real, imag *core.Port
	mag, angle *core.Port
}

func NewRect2Polar(name string) *Rect2Polar {
	c := &Rect2Polar{Base: core.NewBase(name, core.TypeRect2Polar)}
	c.real = c.AddInput(c, "real", core.KindFloat)
	c.imag = c.AddInput(c, "imag", core.KindFloat)
	c.mag = c.AddOutput(c, "magnitude", core.KindFloat)
	c.angle = c.AddOutput(c, "angle", core.KindFloat)
	return c
}

func (c *Rect2Polar) Update(timeval.Time) {
	r, i := c.real.GetFloat(), c.imag.GetFloat()
	c.mag.SetFloat(float32(math.Hypot(float64(r), float64(i))))
	c.angle.SetFloat(float32(math.Atan2(float64(i), float64(r)) * 180 / math.Pi))
}

// Polar2Rect converts magnitude/angle(degrees) to rectangular (real, imag).
type Polar2Rect struct {
	core.Base
	mag, angle *core.Port
	real, imag *core.Port
}

func NewPolar2Rect(name string) *Polar2Rect {
	c := &Polar2Rect{Base: core.NewBase(name, core.TypePolar2Rect)}
	c.mag = c.AddInput(c, "magnitude", core.KindFloat)
	c.angle = c.AddInput(c, "angle", core.KindFloat)
	c.real = c.AddOutput(c, "real", core.KindFloat)
	c.imag = c.AddOutput(c, "imag", core.KindFloat)
	return c
}

func (c *Polar2Rect) Update(timeval.Time) {
	theta := float64(c.angle.GetFloat()) * math.Pi / 180
	c.real.SetFloat(c.mag.GetFloat() * float32(math.Cos(theta)))
	c.imag.SetFloat(c.mag.GetFloat() * float32(math.Sin(theta)))
}

// Complex2Rect splits a complex port into its real and imaginary float
// components.
type Complex2Rect struct {
	core.Base
	in         *core.Port
	real, imag *core.Port
}

func NewComplex2Rect(name string) *Complex2Rect {
	c := &Complex2Rect{Base: core.NewBase(name, core.TypeComplex2Rect)}
	c.in = c.AddInput(c, "in", core.KindComplex)
	c.real = c.AddOutput(c, "real", core.KindFloat)
	c.imag = c.AddOutput(c, "imag", core.KindFloat)
	return c
}

func (c *Complex2Rect) Update(timeval.Time) {
	v := c.in.GetComplex()
	c.real.SetFloat(real(v))
	c.imag.SetFloat(imag(v))
}

// Rect2Complex combines real and imaginary float inputs into a complex
// output.
type Rect2Complex struct {
	core.Base
	real, imag *core.Port
	out        *core.Port
}

func NewRect2Complex(name string) *Rect2Complex {
	c := &Rect2Complex{Base: core.NewBase(name, core.TypeRect2Complex)}
	c.real = c.AddInput(c, "real", core.KindFloat)
	c.imag = c.AddInput(c, "imag", core.KindFloat)
	c.out = c.AddOutput(c, "out", core.KindComplex)
	return c
}

func (c *Rect2Complex) Update(timeval.Time) {
	c.out.SetComplex(complex(c.real.GetFloat(), c.imag.GetFloat()))
}

// Polar2Complex combines magnitude and angle(degrees) inputs into a complex
// output.
type Polar2Complex struct {
	core.Base
	mag, angle *core.Port
	out        *core.Port
}

func NewPolar2Complex(name string) *Polar2Complex {
	c := &Polar2Complex{Base: core.NewBase(name, core.TypePolar2Complex)}
	c.mag = c.AddInput(c, "magnitude", core.KindFloat)
	c.angle = c.AddInput(c, "angle", core.KindFloat)
	c.out = c.AddOutput(c, "out", core.KindComplex)
	return c
}

func (c *Polar2Complex) Update(timeval.Time) {
	theta := float64(c.angle.GetFloat()) * math.Pi / 180
	mag := complex(float64(c.mag.GetFloat()), 0)
	rotated := mag * cmplx.Rect(1, theta)
	c.out.SetComplex(complex64(rotated))
}
