package simhost_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/relaylogic/board"
	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/element"
	"github.com/sarchlab/relaylogic/hal"
	"github.com/sarchlab/relaylogic/simhost"
	"github.com/sarchlab/relaylogic/timeval"
)

// fakeHAL is the same minimal in-memory HAL double used by board_test.go,
// reimplemented here since board's is test-scoped to its own package.
type fakeHAL struct {
	digital map[hal.Pin]bool
	written map[hal.Pin]bool
}

func newFakeHAL() *fakeHAL {
	return &fakeHAL{digital: make(map[hal.Pin]bool), written: make(map[hal.Pin]bool)}
}

func (f *fakeHAL) ReadDigital(pin hal.Pin) bool       { return f.digital[pin] }
func (f *fakeHAL) WriteDigital(pin hal.Pin, v bool)   { f.written[pin] = v }
func (f *fakeHAL) ReadAnalog(hal.Pin) (float32, bool) { return 0, true }
func (f *fakeHAL) WriteAnalog(hal.Pin, float32)       {}
func (f *fakeHAL) ConfigureDigitalInput(hal.Pin)      {}
func (f *fakeHAL) ConfigureDigitalOutput(hal.Pin)     {}
func (f *fakeHAL) ConfigureAnalogInput(hal.Pin)       {}
func (f *fakeHAL) ConfigureAnalogOutput(hal.Pin)      {}
func (f *fakeHAL) Init() error                        { return nil }
func (f *fakeHAL) Shutdown() error                    { return nil }
func (f *fakeHAL) GetPlatformName() string            { return "fake" }

var _ hal.HAL = (*fakeHAL)(nil)

// newTestBoard wires a one-net digital passthrough board (DI0 -> DO0), bound
// to pins 1 and 2, matching board_test.go's setup.
func newTestBoard(h hal.HAL) *board.Board {
	eng := core.NewEngine("SimhostTest")
	_ = eng.AddElement(element.NewNodeDigital("DI0"))
	_ = eng.AddElement(element.NewNodeDigital("DO0"))
	eng.AddNet(core.NetDef{
		Output: core.PortRef{Element: "DI0", Port: "out"},
		Inputs: []core.PortRef{{Element: "DO0", Port: "in"}},
	})

	b := board.New(h)
	b.BindDigitalInput("DI0", 1, false)
	b.BindDigitalOutput("DO0", "out", 2, false)
	b.Attach(eng)
	b.Start()
	return b
}

var _ = Describe("Host", func() {
	It("drives a real board.Update on a direct Tick call", func() {
		h := newFakeHAL()
		h.digital[1] = true
		brd := newTestBoard(h)

		host := simhost.NewBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithFreq(60 * sim.Hz).
			WithBoard(brd).
			WithBaseTime(timeval.New(56, 1, 0, 0, 0, 0)).
			WithMaxTicks(1).
			Build("Host")

		Expect(host.TicksRun()).To(Equal(uint64(0)))
		Expect(h.written).NotTo(HaveKey(hal.Pin(2)))

		madeProgress := host.Tick()

		Expect(host.TicksRun()).To(Equal(uint64(1)))
		Expect(h.written[2]).To(BeTrue())
		Expect(madeProgress).To(BeFalse()) // maxTicks=1 reached, engine should stop rescheduling
	})

	It("runs to completion through a real akita engine, bounded by WithMaxTicks", func() {
		h := newFakeHAL()
		h.digital[1] = true
		brd := newTestBoard(h)

		engine := sim.NewSerialEngine()
		host := simhost.NewBuilder().
			WithEngine(engine).
			WithFreq(60 * sim.Hz).
			WithBoard(brd).
			WithMaxTicks(5).
			Build("Host")

		Expect(engine.Run()).To(Succeed())

		Expect(host.TicksRun()).To(Equal(uint64(5)))
		Expect(h.written[2]).To(BeTrue())
	})
})
