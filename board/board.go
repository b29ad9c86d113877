// Package board implements the board façade described in the engine design:
// it binds named engine elements to abstract digital/analog I/O slots,
// validates those bindings once on first Update, and on every cycle
// orchestrates HAL input reads, one engine Update, and HAL output writes.
package board

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/element"
	"github.com/sarchlab/relaylogic/hal"
	"github.com/sarchlab/relaylogic/timeval"
)

// Board binds a fixed set of digital-input, digital-output and analog-input
// slots, each addressed by the name of an engine element (and, for
// outputs, an output port name), to a HAL. Slot bindings are supplied by
// the caller via Bind*; persistent device settings live outside this
// library.
type Board struct {
	hal hal.HAL

	engine *core.Engine

	digitalInputs  []digitalInputBinding
	digitalOutputs []digitalOutputBinding
	analogInputs   []analogInputBinding

	invalidated bool
	enabled     bool
	refreshIn   bool
}

type digitalInputBinding struct {
	name   string
	pin    hal.Pin
	invert bool
	node   *element.Node
}

type digitalOutputBinding struct {
	elName, portName string
	pin              hal.Pin
	invert           bool
	source           *core.Port
}

type analogInputBinding struct {
	name string
	pin  hal.Pin
	node *element.Node
}

// New constructs a Board over the given HAL with no bindings and no engine
// attached yet.
func New(h hal.HAL) *Board {
	return &Board{hal: h}
}

// BindDigitalInput registers a HAL digital pin whose sampled value drives
// the named NodeDigital element's output each cycle the board refreshes
// inputs.
func (b *Board) BindDigitalInput(name string, pin hal.Pin, invert bool) {
	b.digitalInputs = append(b.digitalInputs, digitalInputBinding{name: name, pin: pin, invert: invert})
	b.invalidated = true
}

// BindDigitalOutput registers a HAL digital pin driven from the named
// element's named output port every cycle.
func (b *Board) BindDigitalOutput(name, port string, pin hal.Pin, invert bool) {
	b.digitalOutputs = append(b.digitalOutputs, digitalOutputBinding{
		elName: name, portName: port, pin: pin, invert: invert,
	})
	b.invalidated = true
}

// BindAnalogInput registers a HAL analog pin whose sampled value drives the
// named NodeAnalog element's output each refresh cycle.
func (b *Board) BindAnalogInput(name string, pin hal.Pin) {
	b.analogInputs = append(b.analogInputs, analogInputBinding{name: name, pin: pin})
	b.invalidated = true
}

// Attach binds the board to an engine and marks I/O invalidated, forcing
// re-resolution of every binding on the next Update.
func (b *Board) Attach(eng *core.Engine) {
	b.engine = eng
	b.invalidated = true
}

// Start enables cyclic HAL I/O and engine updates.
func (b *Board) Start() { b.enabled = true }

// Pause disables cyclic HAL I/O and engine updates; Update becomes a no-op
// until Start is called again.
func (b *Board) Pause() { b.enabled = false }

// IsRunning reports whether the board is currently enabled.
func (b *Board) IsRunning() bool { return b.enabled }

// FlagInputForUpdate requests that the next Update cycle refresh HAL
// inputs.
func (b *Board) FlagInputForUpdate() { b.refreshIn = true }

// Update drives one board cycle: re-resolving bindings if invalidated,
// optionally reading HAL inputs, running one engine Update, then writing
// HAL outputs. If binding resolution fails, the board stays invalidated and
// performs no HAL I/O for this cycle, leaving it in a diagnostic-only
// state.
func (b *Board) Update(ts timeval.Time) error {
	if !b.enabled {
		return nil
	}

	if b.invalidated {
		if err := b.resolve(); err != nil {
			slog.Error("board: binding validation failed, staying invalidated", "error", err)
			return err
		}
		b.invalidated = false
		b.refreshIn = true
	}

	if b.refreshIn {
		b.readInputs()
		b.refreshIn = false
	}

	b.engine.Update(ts)
	b.writeOutputs()
	return nil
}

// resolve re-looks-up every bound name against the attached engine,
// validating that each resolves to an element whose scalar kind matches
// its slot (digital slots require a bool-kinded port, analog slots a
// float-kinded port).
func (b *Board) resolve() error {
	if b.engine == nil {
		return fmt.Errorf("board: no engine attached")
	}

	for i := range b.digitalInputs {
		bind := &b.digitalInputs[i]
		node, err := b.resolveNode(bind.name, core.TypeNodeDigital)
		if err != nil {
			return fmt.Errorf("board: digital input: %w", err)
		}
		bind.node = node
	}

	for i := range b.analogInputs {
		bind := &b.analogInputs[i]
		node, err := b.resolveNode(bind.name, core.TypeNodeAnalog)
		if err != nil {
			return fmt.Errorf("board: analog input: %w", err)
		}
		bind.node = node
	}

	for i := range b.digitalOutputs {
		bind := &b.digitalOutputs[i]
		el, ok := b.engine.GetElement(bind.elName)
		if !ok {
			return fmt.Errorf("board: digital output %q: no such element", bind.elName)
		}
		port := core.FindPort(el.OutputPorts(), bind.portName)
		if port == nil || port.Kind() != core.KindBool {
			return fmt.Errorf("board: digital output %s.%s: no matching bool output", bind.elName, bind.portName)
		}
		bind.source = port
	}

	return nil
}

func (b *Board) resolveNode(name string, typ core.ElementType) (*element.Node, error) {
	el, ok := b.engine.GetElement(name)
	if !ok {
		return nil, fmt.Errorf("%q: no such element", name)
	}
	node, ok := el.(*element.Node)
	if !ok || el.Type() != typ {
		return nil, fmt.Errorf("%q: not a %s", name, typ)
	}
	return node, nil
}

// readInputs samples every bound HAL pin and drives it onto the bound
// node's output. A failed analog read leaves the bound element's value
// unchanged for this cycle rather than feeding it a garbage sample.
func (b *Board) readInputs() {
	for _, bind := range b.digitalInputs {
		v := b.hal.ReadDigital(bind.pin)
		if bind.invert {
			v = !v
		}
		bind.node.DriveExternal(core.BoolValue(v))
	}
	for _, bind := range b.analogInputs {
		v, ok := b.hal.ReadAnalog(bind.pin)
		if !ok {
			slog.Warn("board: analog read fault, holding prior value", "pin", bind.pin)
			continue
		}
		bind.node.DriveExternal(core.FloatValue(v))
	}
}

// writeOutputs drives every bound HAL output pin from its source port's
// current value.
func (b *Board) writeOutputs() {
	for _, bind := range b.digitalOutputs {
		v := bind.source.GetBool()
		if bind.invert {
			v = !v
		}
		b.hal.WriteDigital(bind.pin, v)
	}
}
