package element

import (
	"math"
	"math/cmplx"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// Phasor1PWinding extracts a phasor from a single-phase raw sample stream
// using a cosine filter over samplesPerCycle samples, optionally aligned to
// a reference phasor.
//
// The imaginary component is taken as imag = -filtered[write + N/4 (mod N)];
// write decrements every tick, so that slot holds the filter output from a
// quarter cycle back. This tap conjugates phase angles; the tests pin the
// sign convention.
type Phasor1PWinding struct {
	core.Base
	raw       *core.Port
	reference *core.Port // complex; nil-able via refReal/refImag below
	refReal   *core.Port
	refImag   *core.Port
	output    *core.Port

	n            int
	samples      []float32
	filtered     []float32
	write        int
	quarterCycle int
	coefficients []float32
	splitOutputs bool
	outReal      *core.Port
	outImag      *core.Port
}

// NewPhasor1PWinding constructs a winding with a complex reference input and
// complex output port.
func NewPhasor1PWinding(name string, samplesPerCycle int) *Phasor1PWinding {
	p := newPhasor1P(name, samplesPerCycle)
	p.raw = p.AddInput(p, "raw", core.KindFloat)
	p.reference = p.AddInput(p, "reference", core.KindComplex)
	p.output = p.AddOutput(p, "output", core.KindComplex)
	return p
}

// NewPhasor1PWindingSplit constructs a winding using two float reference
// ports and two float (real/imaginary) output ports instead of complex
// ports, for boards that do not carry a complex port kind end to end.
func NewPhasor1PWindingSplit(name string, samplesPerCycle int) *Phasor1PWinding {
	p := newPhasor1P(name, samplesPerCycle)
	p.splitOutputs = true
	p.raw = p.AddInput(p, "raw", core.KindFloat)
	p.refReal = p.AddInput(p, "reference_real", core.KindFloat)
	p.refImag = p.AddInput(p, "reference_imag", core.KindFloat)
	p.outReal = p.AddOutput(p, "real", core.KindFloat)
	p.outImag = p.AddOutput(p, "imaginary", core.KindFloat)
	return p
}

func newPhasor1P(name string, samplesPerCycle int) *Phasor1PWinding {
	if samplesPerCycle < 4 {
		samplesPerCycle = 4
	}
	p := &Phasor1PWinding{
		Base:         core.NewBase(name, core.TypeAnalog1PWinding),
		n:            samplesPerCycle,
		samples:      make([]float32, samplesPerCycle),
		filtered:     make([]float32, samplesPerCycle),
		coefficients: make([]float32, samplesPerCycle),
	}
	p.write = samplesPerCycle - 1
	p.quarterCycle = samplesPerCycle/4 - 1
	if p.quarterCycle < 0 {
		p.quarterCycle += samplesPerCycle
	}
	for i := 0; i < samplesPerCycle; i++ {
		p.coefficients[i] = float32(2.0 / float64(samplesPerCycle) * math.Cos(2*math.Pi*float64(i)/float64(samplesPerCycle)))
	}
	return p
}

// Update runs one cosine-filter step, forms the phasor, aligns it to the
// reference if connected, then rotates the ring-buffer indices.
func (p *Phasor1PWinding) Update(timeval.Time) {
	if p.raw.IsConnected() {
		p.samples[p.write] = p.raw.GetFloat()
	}

	var sum float32
	for i := 0; i < p.n; i++ {
		sum += p.samples[(p.write+i)%p.n] * p.coefficients[i]
	}
	p.filtered[p.write] = sum

	re := float64(p.filtered[p.write])
	im := float64(-p.filtered[p.quarterCycle])
	out := complex(re, im)

	if p.splitOutputs {
		if p.refReal.IsConnected() && p.refImag.IsConnected() {
			ref := complex(float64(p.refReal.GetFloat()), float64(p.refImag.GetFloat()))
			out = alignToReference(out, ref)
		}
		p.outReal.SetFloat(float32(real(out)))
		p.outImag.SetFloat(float32(imag(out)))
	} else {
		if p.reference.IsConnected() {
			out = alignToReference(out, complex128(p.reference.GetComplex()))
		}
		p.output.SetComplex(complex64(out))
	}

	p.write = (p.write - 1 + p.n) % p.n
	p.quarterCycle = (p.quarterCycle - 1 + p.n) % p.n
}

// alignToReference rotates out by the negative argument of ref so the
// reference lies along +real. A zero-magnitude reference leaves out
// unrotated (defined runtime domain behavior, not an error).
func alignToReference(out, ref complex128) complex128 {
	if cmplx.Abs(ref) == 0 {
		return out
	}
	mag := cmplx.Abs(out)
	angle := cmplx.Phase(out) - cmplx.Phase(ref)
	return cmplx.Rect(mag, angle)
}

// Output returns the complex-port winding's current phasor.
func (p *Phasor1PWinding) Output() complex64 { return p.output.GetComplex() }

// alpha = exp(j*2*pi/3), the symmetrical-components rotation operator.
var alpha = cmplx.Rect(1, 2*math.Pi/3)
var alphaSquared = alpha * alpha

// Phasor3PWinding is three Phasor1PWinding instances (a, b, c) plus the
// zero/positive/negative sequence components derived from them.
type Phasor3PWinding struct {
	core.Base
	a, b, c *core.Port // raw inputs
	ref     *core.Port // shared complex reference, optional

	winding [3]*Phasor1PWinding

	phaseOut   [3]*core.Port
	v0, v1, v2 *core.Port
}

// NewPhasor3PWinding constructs a three-phase winding sharing one reference
// input across its three single-phase windings.
func NewPhasor3PWinding(name string, samplesPerCycle int) *Phasor3PWinding {
	w := &Phasor3PWinding{Base: core.NewBase(name, core.TypeAnalog3PWinding)}
	w.a = w.AddInput(w, "raw_a", core.KindFloat)
	w.b = w.AddInput(w, "raw_b", core.KindFloat)
	w.c = w.AddInput(w, "raw_c", core.KindFloat)
	w.ref = w.AddInput(w, "reference", core.KindComplex)

	names := [3]string{"phase_a", "phase_b", "phase_c"}
	for i := range w.winding {
		w.winding[i] = newPhasor1P(name+"."+names[i], samplesPerCycle)
		w.phaseOut[i] = w.AddOutput(w, names[i], core.KindComplex)
	}
	w.v0 = w.AddOutput(w, "v0", core.KindComplex)
	w.v1 = w.AddOutput(w, "v1", core.KindComplex)
	w.v2 = w.AddOutput(w, "v2", core.KindComplex)
	return w
}

// Update steps all three windings, publishes their phasors, and derives the
// symmetrical components.
func (w *Phasor3PWinding) Update(timeval.Time) {
	rawInputs := [3]*core.Port{w.a, w.b, w.c}
	var refVal complex128
	haveRef := w.ref.IsConnected()
	if haveRef {
		refVal = complex128(w.ref.GetComplex())
	}

	var phase [3]complex128
	for i, winding := range w.winding {
		if rawInputs[i].IsConnected() {
			winding.samples[winding.write] = rawInputs[i].GetFloat()
		}
		var sum float32
		for k := 0; k < winding.n; k++ {
			sum += winding.samples[(winding.write+k)%winding.n] * winding.coefficients[k]
		}
		winding.filtered[winding.write] = sum

		re := float64(winding.filtered[winding.write])
		im := float64(-winding.filtered[winding.quarterCycle])
		out := complex(re, im)
		if haveRef {
			out = alignToReference(out, refVal)
		}
		phase[i] = out
		w.phaseOut[i].SetComplex(complex64(out))

		winding.write = (winding.write - 1 + winding.n) % winding.n
		winding.quarterCycle = (winding.quarterCycle - 1 + winding.n) % winding.n
	}

	v0 := (phase[0] + phase[1] + phase[2]) / 3
	v1 := (phase[0] + alpha*phase[1] + alphaSquared*phase[2]) / 3
	v2 := (phase[0] + alphaSquared*phase[1] + alpha*phase[2]) / 3

	w.v0.SetComplex(complex64(v0))
	w.v1.SetComplex(complex64(v1))
	w.v2.SetComplex(complex64(v2))
}
