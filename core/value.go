package core

import "fmt"

// Kind is the scalar type carried by a Port. Ports are a tagged variant over
// these three kinds rather than a compile-time generic, trading a small
// dispatch cost for graphs that can be built dynamically from JSON.
type Kind int

const (
	KindBool Kind = iota
	KindFloat
	KindComplex
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// Value is the tagged value held by an output port. Only the field matching
// Kind is meaningful.
type Value struct {
	Kind    Kind
	Bool    bool
	Float   float32
	Complex complex64
}

// BoolValue, FloatValue and ComplexValue construct a Value of the matching
// kind.
func BoolValue(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func FloatValue(f float32) Value     { return Value{Kind: KindFloat, Float: f} }
func ComplexValue(c complex64) Value { return Value{Kind: KindComplex, Complex: c} }

// Format renders v the way engine status text does: "%u" for bool,
// "%.4f" for float, "%.4f + j%.4f" for complex.
func (v Value) Format() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindFloat:
		return fmt.Sprintf("%.4f", v.Float)
	case KindComplex:
		return fmt.Sprintf("%.4f + j%.4f", real(v.Complex), imag(v.Complex))
	default:
		return "?"
	}
}
