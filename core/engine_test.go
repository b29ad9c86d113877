package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// passthrough is a minimal test element: one bool input, one bool output,
// output := input each tick. It stands in for a concrete element library so
// core's binder/scheduler can be exercised without an import cycle.
type passthrough struct {
	core.Base
	in  *core.Port
	out *core.Port
}

func newPassthrough(name string) *passthrough {
	e := &passthrough{Base: core.NewBase(name, core.TypeNodeDigital)}
	e.in = e.AddInput(e, "in", core.KindBool)
	e.out = e.AddOutput(e, "out", core.KindBool)
	return e
}

func (e *passthrough) Update(ts timeval.Time) {
	if e.in.IsConnected() {
		e.out.SetBool(e.in.GetBool())
	}
}

var _ = Describe("Engine", func() {
	It("rejects duplicate element names", func() {
		e := core.NewEngine("dup")
		Expect(e.AddElement(newPassthrough("A"))).To(Succeed())
		Expect(e.AddElement(newPassthrough("A"))).NotTo(Succeed())
	})

	It("wires a net and propagates a value in dependency order", func() {
		e := core.NewEngine("wiring")
		src := newPassthrough("SRC")
		dst := newPassthrough("DST")
		Expect(e.AddElement(src)).To(Succeed())
		Expect(e.AddElement(dst)).To(Succeed())

		e.AddNet(core.NetDef{
			Output: core.PortRef{Element: "SRC", Port: "out"},
			Inputs: []core.PortRef{{Element: "DST", Port: "in"}},
		})

		src.in.SetBool(false) // unconnected; exercise directly
		src.out.SetBool(true)
		e.Update(timeval.Time{})

		Expect(dst.out.GetBool()).To(BeTrue())
	})

	It("drops a net whose sink name is missing and keeps running", func() {
		e := core.NewEngine("badnet")
		src := newPassthrough("SRC")
		Expect(e.AddElement(src)).To(Succeed())

		e.AddNet(core.NetDef{
			Output: core.PortRef{Element: "SRC", Port: "out"},
			Inputs: []core.PortRef{{Element: "GHOST", Port: "in"}},
		})

		Expect(func() { e.Update(timeval.Time{}) }).NotTo(Panic())
	})

	It("breaks a cyclic net and still schedules every element once per tick", func() {
		e := core.NewEngine("cyclic")
		a := newPassthrough("A")
		b := newPassthrough("B")
		Expect(e.AddElement(a)).To(Succeed())
		Expect(e.AddElement(b)).To(Succeed())

		e.AddNet(core.NetDef{
			Output: core.PortRef{Element: "A", Port: "out"},
			Inputs: []core.PortRef{{Element: "B", Port: "in"}},
		})
		e.AddNet(core.NetDef{
			Output: core.PortRef{Element: "B", Port: "out"},
			Inputs: []core.PortRef{{Element: "A", Port: "in"}},
		})

		e.Update(timeval.Time{})
		Expect(e.ElementCount()).To(Equal(2))
	})

	It("renders GetInfo with one line per element, truncated to cap", func() {
		e := core.NewEngine("info")
		a := newPassthrough("A")
		Expect(e.AddElement(a)).To(Succeed())
		a.out.SetBool(true)

		full := e.GetInfo(1000)
		Expect(full).To(ContainSubstring("A NodeDigital out=1"))
		Expect(full).To(HaveSuffix("\r\n"))

		truncated := e.GetInfo(3)
		Expect(len(truncated)).To(Equal(3))
	})
})
