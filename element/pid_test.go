package element_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/element"
	"github.com/sarchlab/relaylogic/timeval"
)

var _ = Describe("PID", func() {
	It("drives the output toward the setpoint under pure proportional control", func() {
		sp := element.NewNodeAnalog("SP")
		fb := element.NewNodeAnalog("FB")
		pid := element.NewPID("PID", 1, 0, 0, -100, 100, 1)

		eng := newTestEngine(sp, fb, pid)
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "SP", Port: "out"}, Inputs: []core.PortRef{{Element: "PID", Port: "setpoint"}}})
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "FB", Port: "out"}, Inputs: []core.PortRef{{Element: "PID", Port: "feedback"}}})

		core.FindPort(sp.OutputPorts(), "out").SetFloat(10)
		core.FindPort(fb.OutputPorts(), "out").SetFloat(4)

		out := core.FindPort(pid.OutputPorts(), "output")

		ts := timeval.Time{}
		eng.Update(ts) // first tick seeds dt, produces no output
		Expect(out.GetFloat()).To(Equal(float32(0)))

		ts = ts.Future(0.1)
		eng.Update(ts)
		Expect(out.GetFloat()).To(Equal(float32(6))) // p=1 * error(6)
	})

	It("differences the windowed error filter tick to tick for the derivative term", func() {
		sp := element.NewNodeAnalog("SP")
		fb := element.NewNodeAnalog("FB")
		pid := element.NewPID("PID", 0, 0, 1, -100, 100, 2)

		eng := newTestEngine(sp, fb, pid)
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "SP", Port: "out"}, Inputs: []core.PortRef{{Element: "PID", Port: "setpoint"}}})
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "FB", Port: "out"}, Inputs: []core.PortRef{{Element: "PID", Port: "feedback"}}})

		spOut := core.FindPort(sp.OutputPorts(), "out")
		core.FindPort(fb.OutputPorts(), "out").SetFloat(0)
		out := core.FindPort(pid.OutputPorts(), "output")

		ts := timeval.Time{}
		eng.Update(ts) // seeds dt

		// Window length 2: errors 2, 4, 8 produce filter outputs 1, 3, 6;
		// the derivative term is the per-tick filter delta over dt.
		spOut.SetFloat(2)
		ts = ts.Future(0.1)
		eng.Update(ts)
		Expect(out.GetFloat()).To(Equal(float32(0))) // first filter sample only seeds the delta

		spOut.SetFloat(4)
		ts = ts.Future(0.1)
		eng.Update(ts)
		Expect(out.GetFloat()).To(BeNumerically("~", 20.0, 0.001)) // (3-1)/0.1

		spOut.SetFloat(8)
		ts = ts.Future(0.1)
		eng.Update(ts)
		Expect(out.GetFloat()).To(BeNumerically("~", 30.0, 0.001)) // (6-3)/0.1
	})

	It("clamps output to the configured range", func() {
		sp := element.NewNodeAnalog("SP")
		fb := element.NewNodeAnalog("FB")
		pid := element.NewPID("PID", 10, 0, 0, -5, 5, 1)

		eng := newTestEngine(sp, fb, pid)
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "SP", Port: "out"}, Inputs: []core.PortRef{{Element: "PID", Port: "setpoint"}}})
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "FB", Port: "out"}, Inputs: []core.PortRef{{Element: "PID", Port: "feedback"}}})

		core.FindPort(sp.OutputPorts(), "out").SetFloat(100)
		core.FindPort(fb.OutputPorts(), "out").SetFloat(0)

		out := core.FindPort(pid.OutputPorts(), "output")

		ts := timeval.Time{}
		eng.Update(ts)
		ts = ts.Future(0.1)
		eng.Update(ts)
		Expect(out.GetFloat()).To(Equal(float32(5)))
	})
})

var _ = Describe("Math", func() {
	It("evaluates a parsed arithmetic expression over its input ports each tick", func() {
		x0 := element.NewNodeAnalog("X0")
		x1 := element.NewNodeAnalog("X1")
		m, err := element.NewMath("M", "(x0 + x1) * 2 - 1", 2)
		Expect(err).NotTo(HaveOccurred())

		eng := newTestEngine(x0, x1, m)
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "X0", Port: "out"}, Inputs: []core.PortRef{{Element: "M", Port: "x0"}}})
		eng.AddNet(core.NetDef{Output: core.PortRef{Element: "X1", Port: "out"}, Inputs: []core.PortRef{{Element: "M", Port: "x1"}}})

		core.FindPort(x0.OutputPorts(), "out").SetFloat(3)
		core.FindPort(x1.OutputPorts(), "out").SetFloat(4)
		eng.Update(timeval.Time{})

		out := core.FindPort(m.OutputPorts(), "out")
		Expect(out.GetFloat()).To(Equal(float32(13))) // (3+4)*2-1
	})

	It("rejects a malformed expression at construction time", func() {
		_, err := element.NewMath("BAD", "1 + + 2", 0)
		Expect(err).To(HaveOccurred())
	})
})
