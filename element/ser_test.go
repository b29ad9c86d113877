package element_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/element"
	"github.com/sarchlab/relaylogic/timeval"
)

var _ = Describe("SER", func() {
	It("wraps the ring buffer, dropping the oldest events once MaxSERHistory is exceeded", func() {
		src := element.NewNodeDigital("SRC")
		ser := element.NewSER("SER", []string{"watched"})

		eng := newTestEngine(src, ser)
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "SRC", Port: "out"},
			Inputs: []core.PortRef{{Element: "SER", Port: "watched"}},
		})
		srcOut := core.FindPort(src.OutputPorts(), "out")

		const extra = 5
		total := element.MaxSERHistory + extra
		ts := timeval.Time{}
		state := false
		for i := 0; i < total; i++ {
			state = !state
			srcOut.SetBool(state)
			eng.Update(ts)
			ts = ts.Future(0.01)
		}

		Expect(ser.Count()).To(Equal(element.MaxSERHistory))

		log := ser.GetEventLog(ser.Count())
		Expect(log).To(HaveLen(element.MaxSERHistory))
		for i := 1; i < len(log); i++ {
			Expect(timeval.Subtract(log[i].Timestamp, log[i-1].Timestamp)).To(BeNumerically(">", 0))
		}
		// The first `extra` transitions were overwritten; the oldest
		// surviving event is transition number extra+1 (1-indexed), which
		// alternates starting from rising since state starts false.
		wantFirstEdge := element.EdgeRising
		if extra%2 == 1 {
			wantFirstEdge = element.EdgeFalling
		}
		Expect(log[0].Edge).To(Equal(wantFirstEdge))
	})
})

var _ = Describe("Node override", func() {
	It("forces the output for the override duration then reverts to the forwarded input", func() {
		src := element.NewNodeDigital("SRC")
		target := element.NewNodeDigital("TGT")

		eng := newTestEngine(src, target)
		eng.AddNet(core.NetDef{
			Output: core.PortRef{Element: "SRC", Port: "out"},
			Inputs: []core.PortRef{{Element: "TGT", Port: "in"}},
		})
		core.FindPort(src.OutputPorts(), "out").SetBool(false)

		ts := timeval.Time{}
		eng.Update(ts)
		Expect(target.Output().Bool).To(BeFalse())

		target.OverrideValue(core.BoolValue(true), 0.5, ts)
		Expect(target.Output().Bool).To(BeTrue())

		for i := 0; i < 4; i++ {
			ts = ts.Future(0.1)
			eng.Update(ts)
			Expect(target.Output().Bool).To(BeTrue(), "override should hold through tick %d", i)
		}

		ts = ts.Future(0.2)
		eng.Update(ts)
		Expect(target.IsOverridden()).To(BeFalse())
		Expect(target.Output().Bool).To(BeFalse())
	})
})
