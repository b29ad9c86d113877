// Package element implements the concrete element library: logic gates,
// edge triggers, counters, multiplexers, override-capable nodes, the
// sequential event recorder, PID, phasor winding and symmetrical
// components, time-overcurrent curves, coordinate conversions and the
// math-expression element.
package element

import (
	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// Node forwards its input to its output unchanged, unless a bounded-duration
// override is active. Nodes are the only elements that accept external
// writes (from DNP3 commands, pulse/target commands, and HAL inputs).
type Node struct {
	core.Base
	in  *core.Port
	out *core.Port

	overridden    bool
	overrideUntil timeval.Time
	priorValue    core.Value
}

// NewNodeDigital, NewNodeAnalog and NewNodeAnalogComplex construct a Node
// pinned to the matching scalar kind.
func NewNodeDigital(name string) *Node  { return newNode(name, core.TypeNodeDigital, core.KindBool) }
func NewNodeAnalog(name string) *Node   { return newNode(name, core.TypeNodeAnalog, core.KindFloat) }
func NewNodeAnalogComplex(name string) *Node {
	return newNode(name, core.TypeNodeAnalogComplex, core.KindComplex)
}

func newNode(name string, typ core.ElementType, kind core.Kind) *Node {
	n := &Node{Base: core.NewBase(name, typ)}
	n.in = n.AddInput(n, "in", kind)
	n.out = n.AddOutput(n, "out", kind)
	return n
}

// Update forwards in→out unless an override is currently asserted, in which
// case it restores the forwarded value once the override's duration has
// elapsed.
func (n *Node) Update(ts timeval.Time) {
	if n.overridden {
		if ts.HasElapsed(n.overrideUntil) {
			n.overridden = false
			n.out.SetValue(n.priorValue)
		} else {
			return
		}
	}

	if n.in.IsConnected() {
		n.out.SetValue(n.in.GetValue())
	}
}

// OverrideValue forces out to v for durationSeconds of simulated time,
// capturing the value that would otherwise have been forwarded so it can be
// restored once the override expires. Override requests arrive from
// external threads (commands, DNP3 CROBs); callers must serialize them so
// they appear atomically between ticks.
func (n *Node) OverrideValue(v core.Value, durationSeconds float64, now timeval.Time) {
	if !n.overridden {
		n.priorValue = n.out.GetValue()
	}
	n.overridden = true
	n.overrideUntil = now.Future(durationSeconds)
	n.out.SetValue(v)
}

// IsOverridden reports whether a time-bounded override is currently active.
func (n *Node) IsOverridden() bool { return n.overridden }

// Output returns the node's current output port value.
func (n *Node) Output() core.Value { return n.out.GetValue() }

// DriveExternal sets the node's output directly from a HAL-sampled value.
// It is how the board façade feeds a board-bound node that has no upstream
// net: unlike OverrideValue it is not time-bounded and does not touch the
// override/restore bookkeeping, but an active override still takes
// precedence, since a command/CROB override is a deliberate forced value.
func (n *Node) DriveExternal(v core.Value) {
	if n.overridden {
		return
	}
	n.out.SetValue(v)
}
