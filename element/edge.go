package element

import (
	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// Edge detects a transition on a boolean input and asserts its output for
// exactly one tick after the transition. Rising detects low→high; falling
// detects high→low.
type Edge struct {
	core.Base
	in       *core.Port
	out      *core.Port
	rising   bool
	previous bool
}

// NewRTrig and NewFTrig construct rising-edge and falling-edge detectors.
func NewRTrig(name string) *Edge { return newEdge(name, core.TypeRTrig, true) }
func NewFTrig(name string) *Edge { return newEdge(name, core.TypeFTrig, false) }

func newEdge(name string, typ core.ElementType, rising bool) *Edge {
	e := &Edge{Base: core.NewBase(name, typ), rising: rising}
	e.in = e.AddInput(e, "in", core.KindBool)
	e.out = e.AddOutput(e, "out", core.KindBool)
	return e
}

// Update compares the current input to the previous tick's value.
func (e *Edge) Update(timeval.Time) {
	current := e.in.GetBool()
	var triggered bool
	if e.rising {
		triggered = !e.previous && current
	} else {
		triggered = e.previous && !current
	}
	e.out.SetBool(triggered)
	e.previous = current
}
