package core

import "github.com/sarchlab/relaylogic/timeval"

// ElementType is the closed enum of concrete element kinds the engine knows
// how to schedule and introspect.
type ElementType int

const (
	TypeInvalid ElementType = iota
	TypeNodeDigital
	TypeNodeAnalog
	TypeNodeAnalogComplex
	TypeAND
	TypeOR
	TypeNOT
	TypeRTrig
	TypeFTrig
	TypeCounter
	TypeMuxDigital
	TypeMuxAnalog
	TypeMuxAnalogComplex
	TypePID
	TypeOvercurrent
	TypeAnalog1PWinding
	TypeAnalog3PWinding
	TypePhasorShift
	TypeRect2Polar
	TypePolar2Rect
	TypeComplex2Rect
	TypeRect2Complex
	TypePolar2Complex
	TypeMath
	TypeSER
)

var typeNames = map[ElementType]string{
	TypeInvalid:           "Invalid",
	TypeNodeDigital:       "NodeDigital",
	TypeNodeAnalog:        "NodeAnalog",
	TypeNodeAnalogComplex: "NodeAnalogComplex",
	TypeAND:               "AND",
	TypeOR:                "OR",
	TypeNOT:               "NOT",
	TypeRTrig:             "RTrig",
	TypeFTrig:             "FTrig",
	TypeCounter:           "Counter",
	TypeMuxDigital:        "MuxDigital",
	TypeMuxAnalog:         "MuxAnalog",
	TypeMuxAnalogComplex:  "MuxAnalogComplex",
	TypePID:               "PID",
	TypeOvercurrent:       "Overcurrent",
	TypeAnalog1PWinding:   "Analog1PWinding",
	TypeAnalog3PWinding:   "Analog3PWinding",
	TypePhasorShift:       "PhasorShift",
	TypeRect2Polar:        "Rect2Polar",
	TypePolar2Rect:        "Polar2Rect",
	TypeComplex2Rect:      "Complex2Rect",
	TypeRect2Complex:      "Rect2Complex",
	TypePolar2Complex:     "Polar2Complex",
	TypeMath:              "Math",
	TypeSER:               "SER",
}

func (t ElementType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Invalid"
}

// ParseElementType maps a builder JSON "type" string to its ElementType,
// returning (TypeInvalid, false) for anything unrecognized.
func ParseElementType(s string) (ElementType, bool) {
	for t, name := range typeNames {
		if name == s && t != TypeInvalid {
			return t, true
		}
	}
	return TypeInvalid, false
}

// Element is a polymorphic computational node in the graph: constructed by
// the engine (via a factory in package element), wired by the engine's net
// binder, updated every tick in dependency order.
type Element interface {
	// Name returns the element's engine-unique name.
	Name() string

	// Type returns the element's closed type tag.
	Type() ElementType

	// InputPorts and OutputPorts return the element's ordered port lists.
	// Implementations return the same backing slice every call.
	InputPorts() []*Port
	OutputPorts() []*Port

	// Update evaluates the element for one tick. Implementations must
	// tolerate unconnected inputs without panicking.
	Update(ts timeval.Time)
}

// FindPort returns the named port from ports, or nil if not present.
func FindPort(ports []*Port, name string) *Port {
	for _, p := range ports {
		if p.name == name {
			return p
		}
	}
	return nil
}

// Base provides the common name/type/port-list bookkeeping embedded by
// every concrete element in package element.
type Base struct {
	name    string
	typ     ElementType
	inputs  []*Port
	outputs []*Port
}

// NewBase constructs a Base for an element of the given name and type.
// Concrete elements call AddInput/AddOutput to populate ports, passing the
// owning Element (itself) through owner.
func NewBase(name string, typ ElementType) Base {
	return Base{name: name, typ: typ}
}

func (b *Base) Name() string         { return b.name }
func (b *Base) Type() ElementType    { return b.typ }
func (b *Base) InputPorts() []*Port  { return b.inputs }
func (b *Base) OutputPorts() []*Port { return b.outputs }

// AddInput appends and returns a new input port of the given kind.
func (b *Base) AddInput(owner Element, name string, kind Kind) *Port {
	p := NewInputPort(owner, name, kind)
	b.inputs = append(b.inputs, p)
	return p
}

// AddOutput appends and returns a new output port of the given kind.
func (b *Base) AddOutput(owner Element, name string, kind Kind) *Port {
	p := NewOutputPort(owner, name, kind)
	b.outputs = append(b.outputs, p)
	return p
}
