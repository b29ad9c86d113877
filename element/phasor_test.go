package element_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/element"
	"github.com/sarchlab/relaylogic/timeval"
)

var _ = Describe("Phasor1PWinding", func() {
	It("converges to the sampled sinusoid's amplitude after one full cycle", func() {
		const n = 16
		src := element.NewNodeAnalog("RAW")
		ph := element.NewPhasor1PWinding("PH", n)

		eng := newTestEngine(src, ph)
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "RAW", Port: "out"},
			Inputs: []core.PortRef{{Element: "PH", Port: "raw"}},
		})
		rawOut := core.FindPort(src.OutputPorts(), "out")

		ts := timeval.Time{}
		for k := 0; k < 3*n; k++ {
			rawOut.SetFloat(float32(math.Cos(2 * math.Pi * float64(k) / float64(n))))
			eng.Update(ts)
			ts = ts.Future(1.0 / 60 / float64(n))
		}

		mag := math.Hypot(float64(real(ph.Output())), float64(imag(ph.Output())))
		Expect(mag).To(BeNumerically("~", 1.0, 0.05))
	})

	It("produces the same phasor through the split real/imaginary float ports", func() {
		const n = 16
		src := element.NewNodeAnalog("RAW")
		ph := element.NewPhasor1PWindingSplit("PH", n)

		eng := newTestEngine(src, ph)
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "RAW", Port: "out"},
			Inputs: []core.PortRef{{Element: "PH", Port: "raw"}},
		})
		rawOut := core.FindPort(src.OutputPorts(), "out")

		ts := timeval.Time{}
		for k := 0; k < 3*n; k++ {
			rawOut.SetFloat(float32(math.Cos(2 * math.Pi * float64(k) / float64(n))))
			eng.Update(ts)
			ts = ts.Future(1.0 / 60 / float64(n))
		}

		re := core.FindPort(ph.OutputPorts(), "real").GetFloat()
		im := core.FindPort(ph.OutputPorts(), "imaginary").GetFloat()
		Expect(math.Hypot(float64(re), float64(im))).To(BeNumerically("~", 1.0, 0.05))
	})

	It("rotates its output so the reference lies along +real", func() {
		const n = 64
		main := element.NewNodeAnalog("MAIN")
		refSrc := element.NewNodeAnalog("REFSRC")
		refW := element.NewPhasor1PWinding("REFW", n)
		ph := element.NewPhasor1PWinding("PH", n)

		eng := newTestEngine(main, refSrc, refW, ph)
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "MAIN", Port: "out"}, Inputs: []core.PortRef{{Element: "PH", Port: "raw"}}})
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "REFSRC", Port: "out"}, Inputs: []core.PortRef{{Element: "REFW", Port: "raw"}}})
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "REFW", Port: "output"}, Inputs: []core.PortRef{{Element: "PH", Port: "reference"}}})

		mainOut := core.FindPort(main.OutputPorts(), "out")
		refOut := core.FindPort(refSrc.OutputPorts(), "out")

		// The reference lags the main signal by 30 degrees. The quarter-cycle
		// imaginary tap conjugates phase angles, so the aligned output lands
		// at -30 degrees rather than +30.
		const lag = 30 * math.Pi / 180
		ts := timeval.Time{}
		for k := 0; k < 3*n; k++ {
			theta := 2 * math.Pi * float64(k) / float64(n)
			mainOut.SetFloat(float32(math.Cos(theta)))
			refOut.SetFloat(float32(math.Cos(theta - lag)))
			eng.Update(ts)
			ts = ts.Future(1.0 / 60 / float64(n))
		}

		arg := math.Atan2(float64(imag(ph.Output())), float64(real(ph.Output())))
		Expect(arg).To(BeNumerically("~", -lag, 0.5*math.Pi/180))
	})
})

var _ = Describe("Phasor3PWinding", func() {
	It("derives zero negative- and zero-sequence for a balanced three-phase set", func() {
		const n = 24
		a := element.NewNodeAnalog("A")
		b := element.NewNodeAnalog("B")
		c := element.NewNodeAnalog("C")
		w := element.NewPhasor3PWinding("W", n)

		eng := newTestEngine(a, b, c, w)
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "A", Port: "out"}, Inputs: []core.PortRef{{Element: "W", Port: "raw_a"}}})
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "B", Port: "out"}, Inputs: []core.PortRef{{Element: "W", Port: "raw_b"}}})
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "C", Port: "out"}, Inputs: []core.PortRef{{Element: "W", Port: "raw_c"}}})

		aOut := core.FindPort(a.OutputPorts(), "out")
		bOut := core.FindPort(b.OutputPorts(), "out")
		cOut := core.FindPort(c.OutputPorts(), "out")

		// The winding's quarter-cycle imaginary tap conjugates phase angles,
		// so a set whose phasors rotate positively through the sequence filter
		// is the one where phase b leads in the time domain.
		ts := timeval.Time{}
		for k := 0; k < 3*n; k++ {
			theta := 2 * math.Pi * float64(k) / float64(n)
			aOut.SetFloat(float32(math.Cos(theta)))
			bOut.SetFloat(float32(math.Cos(theta + 2*math.Pi/3)))
			cOut.SetFloat(float32(math.Cos(theta - 2*math.Pi/3)))
			eng.Update(ts)
			ts = ts.Future(1.0 / 60 / float64(n))
		}

		v0 := core.FindPort(w.OutputPorts(), "v0").GetComplex()
		v2 := core.FindPort(w.OutputPorts(), "v2").GetComplex()
		v1 := core.FindPort(w.OutputPorts(), "v1").GetComplex()

		Expect(math.Hypot(float64(real(v0)), float64(imag(v0)))).To(BeNumerically("<", 0.05))
		Expect(math.Hypot(float64(real(v2)), float64(imag(v2)))).To(BeNumerically("<", 0.05))
		Expect(math.Hypot(float64(real(v1)), float64(imag(v1)))).To(BeNumerically("~", 1.0, 0.05))
	})

	It("derives pure zero-sequence when all three phases carry the same signal", func() {
		const n = 24
		a := element.NewNodeAnalog("A")
		w := element.NewPhasor3PWinding("W", n)

		eng := newTestEngine(a, w)
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "A", Port: "out"}, Inputs: []core.PortRef{
			{Element: "W", Port: "raw_a"}, {Element: "W", Port: "raw_b"}, {Element: "W", Port: "raw_c"}}})

		aOut := core.FindPort(a.OutputPorts(), "out")

		ts := timeval.Time{}
		for k := 0; k < 3*n; k++ {
			aOut.SetFloat(float32(math.Cos(2 * math.Pi * float64(k) / float64(n))))
			eng.Update(ts)
			ts = ts.Future(1.0 / 60 / float64(n))
		}

		v0 := core.FindPort(w.OutputPorts(), "v0").GetComplex()
		v1 := core.FindPort(w.OutputPorts(), "v1").GetComplex()
		v2 := core.FindPort(w.OutputPorts(), "v2").GetComplex()

		Expect(math.Hypot(float64(real(v0)), float64(imag(v0)))).To(BeNumerically("~", 1.0, 0.05))
		Expect(math.Hypot(float64(real(v1)), float64(imag(v1)))).To(BeNumerically("<", 0.05))
		Expect(math.Hypot(float64(real(v2)), float64(imag(v2)))).To(BeNumerically("<", 0.05))
	})
})
