package element

import (
	"fmt"

	"github.com/sarchlab/relaylogic/core"
)

// Arg is one positional constructor argument from builder JSON, holding
// whichever typed accessor the element constructor expects.
type Arg struct {
	U16    uint16
	F32    float32
	Bool   bool
	String string
}

// New constructs a concrete element of the given type from its name and up
// to 5 positional args, the schema for each type documented in the
// project's builder Glossary. It returns an error for an unrecognized type
// or a malformed argument list; the builder maps that to
// InvalidComponentOutput.
func New(typ core.ElementType, name string, args []Arg) (core.Element, error) {
	switch typ {
	case core.TypeNodeDigital:
		return NewNodeDigital(name), nil
	case core.TypeNodeAnalog:
		return NewNodeAnalog(name), nil
	case core.TypeNodeAnalogComplex:
		return NewNodeAnalogComplex(name), nil

	case core.TypeAND:
		return NewAND(name, argInt(args, 0, 2)), nil
	case core.TypeOR:
		return NewOR(name, argInt(args, 0, 2)), nil
	case core.TypeNOT:
		return NewNOT(name), nil

	case core.TypeRTrig:
		return NewRTrig(name), nil
	case core.TypeFTrig:
		return NewFTrig(name), nil

	case core.TypeCounter:
		return NewCounter(name, argU16(args, 0, 1)), nil

	case core.TypeMuxDigital:
		return NewMuxDigital(name, argInt(args, 0, 1)), nil
	case core.TypeMuxAnalog:
		return NewMuxAnalog(name, argInt(args, 0, 1)), nil
	case core.TypeMuxAnalogComplex:
		return NewMuxAnalogComplex(name, argInt(args, 0, 1)), nil

	case core.TypePID:
		// outputMin is fixed at 0 here rather than exposed as a JSON slot: PID
		// only gets 5 args, and a configurable derivativeTerms is worth more
		// to a protective-relaying PID loop than an asymmetric output clamp.
		return NewPID(name,
			argF32(args, 0, 0), argF32(args, 1, 0), argF32(args, 2, 0),
			0, argF32(args, 3, 1),
			int(argU16(args, 4, 5)),
		), nil

	case core.TypeOvercurrent:
		return NewOvercurrent(name,
			argString(args, 0, "C1"),
			argF32(args, 1, 1), argF32(args, 2, 1), argF32(args, 3, 0),
			argBool(args, 4, false),
		), nil

	case core.TypeAnalog1PWinding:
		return NewPhasor1PWinding(name, argInt(args, 0, 16)), nil
	case core.TypeAnalog3PWinding:
		return NewPhasor3PWinding(name, argInt(args, 0, 16)), nil

	case core.TypePhasorShift:
		return NewPhasorShift(name, argF32(args, 0, 1), argF32(args, 1, 0)), nil

	case core.TypeRect2Polar:
		return NewRect2Polar(name), nil
	case core.TypePolar2Rect:
		return NewPolar2Rect(name), nil
	case core.TypeComplex2Rect:
		return NewComplex2Rect(name), nil
	case core.TypeRect2Complex:
		return NewRect2Complex(name), nil
	case core.TypePolar2Complex:
		return NewPolar2Complex(name), nil

	case core.TypeMath:
		return NewMath(name, argString(args, 0, "0"), argInt(args, 1, 1))

	default:
		return nil, fmt.Errorf("unrecognized element type %v for %q", typ, name)
	}
}

func argInt(args []Arg, i, def int) int {
	if i >= len(args) {
		return def
	}
	return int(args[i].U16)
}

func argU16(args []Arg, i int, def uint16) uint16 {
	if i >= len(args) {
		return def
	}
	return args[i].U16
}

func argF32(args []Arg, i int, def float32) float32 {
	if i >= len(args) {
		return def
	}
	return args[i].F32
}

func argBool(args []Arg, i int, def bool) bool {
	if i >= len(args) {
		return def
	}
	return args[i].Bool
}

func argString(args []Arg, i int, def string) string {
	if i >= len(args) {
		return def
	}
	return args[i].String
}
