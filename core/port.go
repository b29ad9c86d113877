package core

import "fmt"

// Direction distinguishes an input port (reads a source output) from an
// output port (holds a value other elements may read).
type Direction int

const (
	DirInput Direction = iota
	DirOutput
)

// Port is an addressable typed endpoint on an Element. An output port holds
// a current Value; an input port holds a non-owning reference to exactly
// zero or one source output port.
type Port struct {
	owner Element
	name  string
	dir   Direction
	kind  Kind

	value  Value // meaningful for output ports
	source *Port // meaningful for input ports; nil means unconnected
}

// NewInputPort and NewOutputPort construct a port of the given kind, owned
// by owner. Elements call these while building their port lists.
func NewInputPort(owner Element, name string, kind Kind) *Port {
	return &Port{owner: owner, name: name, dir: DirInput, kind: kind}
}

func NewOutputPort(owner Element, name string, kind Kind) *Port {
	return &Port{owner: owner, name: name, dir: DirOutput, kind: kind, value: zeroValue(kind)}
}

func zeroValue(k Kind) Value {
	switch k {
	case KindBool:
		return BoolValue(false)
	case KindComplex:
		return ComplexValue(0)
	default:
		return FloatValue(0)
	}
}

// Owner returns the element this port belongs to.
func (p *Port) Owner() Element { return p.owner }

// Name returns the port's name, unique within its side of the element.
func (p *Port) Name() string { return p.name }

// Direction reports whether p is an input or output port.
func (p *Port) Direction() Direction { return p.dir }

// Kind reports p's scalar kind.
func (p *Port) Kind() Kind { return p.kind }

// IsConnected reports whether an input port has a bound source. Output
// ports are always considered connected to themselves.
func (p *Port) IsConnected() bool {
	if p.dir == DirOutput {
		return true
	}
	return p.source != nil
}

// GetValue returns the port's current value: its own value if it is an
// output, or its source's value if it is a connected input. Calling
// GetValue on an unconnected input returns the kind's zero value; elements
// must check IsConnected first to distinguish "no value" from "zero value".
func (p *Port) GetValue() Value {
	if p.dir == DirOutput {
		return p.value
	}
	if p.source != nil {
		return p.source.value
	}
	return zeroValue(p.kind)
}

// SetValue assigns v to an output port. Calling it on an input port is a
// programming error in the element implementation and is ignored.
func (p *Port) SetValue(v Value) {
	if p.dir != DirOutput {
		return
	}
	p.value = v
}

// GetBool, GetFloat and GetComplex are typed convenience readers over
// GetValue, used by elements whose ports are pinned to one kind.
func (p *Port) GetBool() bool         { return p.GetValue().Bool }
func (p *Port) GetFloat() float32     { return p.GetValue().Float }
func (p *Port) GetComplex() complex64 { return p.GetValue().Complex }

// SetBool, SetFloat and SetComplex are typed convenience writers over
// SetValue.
func (p *Port) SetBool(b bool)         { p.SetValue(BoolValue(b)) }
func (p *Port) SetFloat(f float32)     { p.SetValue(FloatValue(f)) }
func (p *Port) SetComplex(c complex64) { p.SetValue(ComplexValue(c)) }

// connect binds dst (an input port) to src (an output port). It fails when
// the direction or kind does not match; the caller is responsible for
// logging and dropping the edge per the engine's fail-soft wiring policy.
func connect(src, dst *Port) error {
	if src.dir != DirOutput {
		return fmt.Errorf("source port %s.%s is not an output", elementName(src.owner), src.name)
	}
	if dst.dir != DirInput {
		return fmt.Errorf("destination port %s.%s is not an input", elementName(dst.owner), dst.name)
	}
	if src.kind != dst.kind {
		return fmt.Errorf("port kind mismatch connecting %s.%s (%s) to %s.%s (%s)",
			elementName(src.owner), src.name, src.kind,
			elementName(dst.owner), dst.name, dst.kind)
	}
	dst.source = src
	return nil
}

func elementName(e Element) string {
	if e == nil {
		return "<nil>"
	}
	return e.Name()
}
