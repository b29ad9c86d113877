package element_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/element"
	"github.com/sarchlab/relaylogic/timeval"
)

// newTestEngine builds an Engine named "Test Engine" holding els in the
// given order. It adds no nets; callers wire their own with AddNet.
func newTestEngine(els ...core.Element) *core.Engine {
	eng := core.NewEngine("Test Engine")
	for _, el := range els {
		Expect(eng.AddElement(el)).To(Succeed())
	}
	return eng
}

var _ = Describe("Logic gates and edge triggers", func() {
	It("RTrig/FTrig match the pinned sequence for [F,F,T,T,F,T]", func() {
		src := element.NewNodeDigital("SRC")
		rt := element.NewRTrig("RT")
		ft := element.NewFTrig("FT")

		eng := newTestEngine(src, rt, ft)
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "SRC", Port: "out"},
			Inputs: []core.PortRef{{Element: "RT", Port: "in"}, {Element: "FT", Port: "in"}},
		})

		srcOut := core.FindPort(src.OutputPorts(), "out")
		rtOut := core.FindPort(rt.OutputPorts(), "out")
		ftOut := core.FindPort(ft.OutputPorts(), "out")

		in := []bool{false, false, true, true, false, true}
		wantR := []bool{false, false, true, false, false, true}
		wantF := []bool{false, false, false, false, true, false}

		for i, v := range in {
			srcOut.SetBool(v)
			eng.Update(timeval.Time{})
			Expect(rtOut.GetBool()).To(Equal(wantR[i]), "RTrig step %d", i)
			Expect(ftOut.GetBool()).To(Equal(wantF[i]), "FTrig step %d", i)
		}
	})

	It("drives an OR and an AND gate from two independent sources", func() {
		in0 := element.NewNodeDigital("IN0")
		in1 := element.NewNodeDigital("IN1")
		or0 := element.NewOR("OR0", 2)
		and0 := element.NewAND("AND0", 2)

		eng := newTestEngine(in0, in1, or0, and0)
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "IN0", Port: "out"},
			Inputs: []core.PortRef{{Element: "OR0", Port: "in0"}, {Element: "AND0", Port: "in0"}},
		})
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "IN1", Port: "out"},
			Inputs: []core.PortRef{{Element: "OR0", Port: "in1"}, {Element: "AND0", Port: "in1"}},
		})

		or0Out := core.FindPort(or0.OutputPorts(), "out")
		and0Out := core.FindPort(and0.OutputPorts(), "out")

		core.FindPort(in0.OutputPorts(), "out").SetBool(true)
		core.FindPort(in1.OutputPorts(), "out").SetBool(false)
		eng.Update(timeval.Time{})
		Expect(or0Out.GetBool()).To(BeTrue())
		Expect(and0Out.GetBool()).To(BeFalse())

		core.FindPort(in1.OutputPorts(), "out").SetBool(true)
		eng.Update(timeval.Time{})
		Expect(and0Out.GetBool()).To(BeTrue())
	})

	It("counts rising edges to a target and reports done", func() {
		src := element.NewNodeDigital("SRC")
		rt := element.NewRTrig("RT")
		cnt := element.NewCounter("CNT", 3)
		reset := element.NewNodeDigital("RESET")

		eng := newTestEngine(src, rt, cnt, reset)
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "SRC", Port: "out"},
			Inputs: []core.PortRef{{Element: "RT", Port: "in"}},
		})
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "RT", Port: "out"},
			Inputs: []core.PortRef{{Element: "CNT", Port: "count_up"}},
		})
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "RESET", Port: "out"},
			Inputs: []core.PortRef{{Element: "CNT", Port: "reset"}},
		})

		srcOut := core.FindPort(src.OutputPorts(), "out")
		doneOut := core.FindPort(cnt.OutputPorts(), "done")

		// The third rising edge lands on step 5; done must stay low before it
		// and hold high after.
		pulses := []bool{false, true, false, true, false, true, false}
		for i, v := range pulses {
			srcOut.SetBool(v)
			eng.Update(timeval.Time{})
			if i < 5 {
				Expect(doneOut.GetBool()).To(BeFalse(), "step %d", i)
			} else {
				Expect(doneOut.GetBool()).To(BeTrue(), "step %d", i)
			}
		}
		Expect(cnt.Count()).To(Equal(uint16(3)))
	})
})
