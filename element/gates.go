package element

import (
	"fmt"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// Gate is a logical reduction over all connected boolean inputs.
// Unconnected inputs are treated as the identity of the operation: AND
// treats them as true, OR treats them as false. NOT (numInputs==1, inverted
// semantics) ignores the identity rule since it always has exactly one
// input.
type Gate struct {
	core.Base
	inputs []*core.Port
	out    *core.Port
	op     gateOp
}

type gateOp int

const (
	opAND gateOp = iota
	opOR
	opNOT
)

// NewAND, NewOR and NewNOT construct a gate with numInputs boolean input
// ports (NOT always has exactly one, regardless of numInputs).
func NewAND(name string, numInputs int) *Gate { return newGate(name, core.TypeAND, opAND, numInputs) }
func NewOR(name string, numInputs int) *Gate  { return newGate(name, core.TypeOR, opOR, numInputs) }
func NewNOT(name string) *Gate                { return newGate(name, core.TypeNOT, opNOT, 1) }

func newGate(name string, typ core.ElementType, op gateOp, numInputs int) *Gate {
	g := &Gate{Base: core.NewBase(name, typ), op: op}
	if op == opNOT {
		numInputs = 1
	}
	if numInputs < 1 {
		numInputs = 1
	}
	for i := 0; i < numInputs; i++ {
		g.inputs = append(g.inputs, g.AddInput(g, fmt.Sprintf("in%d", i), core.KindBool))
	}
	g.out = g.AddOutput(g, "out", core.KindBool)
	return g
}

// Update evaluates the gate's reduction over its connected inputs.
func (g *Gate) Update(timeval.Time) {
	switch g.op {
	case opNOT:
		g.out.SetBool(!g.inputs[0].GetBool())
	case opAND:
		result := true
		for _, in := range g.inputs {
			if in.IsConnected() {
				result = result && in.GetBool()
			}
		}
		g.out.SetBool(result)
	case opOR:
		result := false
		for _, in := range g.inputs {
			if in.IsConnected() {
				result = result || in.GetBool()
			}
		}
		g.out.SetBool(result)
	}
}
