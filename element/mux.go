package element

import (
	"fmt"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// Mux chooses between two signal sets (width signals each) with a boolean
// selector. The selector is always boolean regardless of the signal kind,
// so a value-kinded mux still carries one bool input alongside its signal
// ports.
type Mux struct {
	core.Base
	sel     *core.Port
	setZero []*core.Port
	setOne  []*core.Port
	outputs []*core.Port
	kind    core.Kind
}

// NewMuxDigital, NewMuxAnalog and NewMuxAnalogComplex construct a width-wide
// 2-way mux over the matching scalar kind.
func NewMuxDigital(name string, width int) *Mux {
	return newMux(name, core.TypeMuxDigital, core.KindBool, width)
}
func NewMuxAnalog(name string, width int) *Mux {
	return newMux(name, core.TypeMuxAnalog, core.KindFloat, width)
}
func NewMuxAnalogComplex(name string, width int) *Mux {
	return newMux(name, core.TypeMuxAnalogComplex, core.KindComplex, width)
}

func newMux(name string, typ core.ElementType, kind core.Kind, width int) *Mux {
	if width < 1 {
		width = 1
	}
	m := &Mux{Base: core.NewBase(name, typ), kind: kind}
	m.sel = m.AddInput(m, "select", core.KindBool)
	for i := 0; i < width; i++ {
		m.setZero = append(m.setZero, m.AddInput(m, fmt.Sprintf("in0_%d", i), kind))
		m.setOne = append(m.setOne, m.AddInput(m, fmt.Sprintf("in1_%d", i), kind))
		m.outputs = append(m.outputs, m.AddOutput(m, fmt.Sprintf("out%d", i), kind))
	}
	return m
}

// Update copies the selected input set to the output set.
func (m *Mux) Update(timeval.Time) {
	chosen := m.setZero
	if m.sel.GetBool() {
		chosen = m.setOne
	}
	for i, out := range m.outputs {
		out.SetValue(chosen[i].GetValue())
	}
}
