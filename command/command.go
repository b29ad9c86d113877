// Package command implements the read-only and override/pulse/target
// command surface consumed by the external textual protocol and the DNP3
// outstation: status rendering, SER log rendering, Target polling with
// repetition, and Pulse/Override on digital and analog nodes. The ASCII
// parser and the TCP/DNP3 transport themselves live outside this library;
// this package is the pure, transport-agnostic core those collaborators
// call into.
package command

import (
	"fmt"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/element"
	"github.com/sarchlab/relaylogic/timeval"
)

// Status renders the engine's GetInfo page, truncated to cap bytes, exactly
// as the textual STATUS command does.
func Status(eng *core.Engine, cap int) string {
	return eng.GetInfo(cap)
}

// Override applies a time-bounded forced value to a named node's output.
// It is the command-surface entry point DNP3 Control-Relay-Output-Block
// operations and the textual OVERRIDE command both call; it fails if name
// does not resolve to a Node.
func Override(eng *core.Engine, name string, value core.Value, durationSeconds float64, now timeval.Time) error {
	node, err := resolveNode(eng, name)
	if err != nil {
		return err
	}
	node.OverrideValue(value, durationSeconds, now)
	return nil
}

// PulseDigital overrides a NodeDigital to on for durationSeconds, then lets
// it fall back to its forwarded value; this backs the textual PULSE command.
func PulseDigital(eng *core.Engine, name string, on bool, durationSeconds float64, now timeval.Time) error {
	node, err := resolveNode(eng, name)
	if err != nil {
		return err
	}
	if node.Type() != core.TypeNodeDigital {
		return fmt.Errorf("command: %q is not a NodeDigital", name)
	}
	node.OverrideValue(core.BoolValue(on), durationSeconds, now)
	return nil
}

func resolveNode(eng *core.Engine, name string) (*element.Node, error) {
	el, ok := eng.GetElement(name)
	if !ok {
		return nil, fmt.Errorf("command: no such element %q", name)
	}
	node, ok := el.(*element.Node)
	if !ok {
		return nil, fmt.Errorf("command: %q is not a node", name)
	}
	return node, nil
}

// TargetSample is one observation returned by Target: the value read and
// the timestamp it was taken at.
type TargetSample struct {
	Value core.Value
	At    timeval.Time
}

// TargetReader supplies the current engine time for each Target repetition.
// In production this is the board's driving clock; tests supply a fake
// sequence.
type TargetReader func() timeval.Time

// Target reads a named element's output port value, repeating count times,
// honoring a cooperative cancel signal (the textual protocol's escape key)
// between repetitions. now supplies the current time on each iteration;
// inter-sample delay is left to the caller so this stays free of wall-clock
// or transport concerns. Target itself never blocks.
func Target(eng *core.Engine, name, port string, count int, cancel <-chan struct{}, now TargetReader) ([]TargetSample, error) {
	el, ok := eng.GetElement(name)
	if !ok {
		return nil, fmt.Errorf("command: no such element %q", name)
	}
	p := core.FindPort(el.OutputPorts(), port)
	if p == nil {
		return nil, fmt.Errorf("command: %q has no output port %q", name, port)
	}

	samples := make([]TargetSample, 0, count)
	for i := 0; i < count; i++ {
		select {
		case <-cancel:
			return samples, nil
		default:
		}
		samples = append(samples, TargetSample{Value: p.GetValue(), At: now()})
	}
	return samples, nil
}

// SERRecord is one rendered SER log line: the monitored source's name, the
// edge kind, and a short-form timestamp.
type SERRecord struct {
	Source string
	Edge   element.EdgeKind
	When   string
}

const serElementName = "__SER__"

// SER renders the engine's synthesized SER element's event log, oldest
// first. It returns an empty slice (not an error) if no SER element was
// configured, matching the builder's optional "ser" section.
func SER(eng *core.Engine, n int) ([]SERRecord, error) {
	el, ok := eng.GetElement(serElementName)
	if !ok {
		return nil, nil
	}
	ser, ok := el.(*element.SER)
	if !ok {
		return nil, fmt.Errorf("command: %q is not an SER element", serElementName)
	}

	events := ser.GetEventLog(n)
	out := make([]SERRecord, len(events))
	for i, ev := range events {
		out[i] = SERRecord{
			Source: ser.InputName(ev.SourceIndex),
			Edge:   ev.Edge,
			When:   ev.Timestamp.PrintShortTime(),
		}
	}
	return out, nil
}

// EdgeKindString renders an EdgeKind for the textual SER log.
func EdgeKindString(k element.EdgeKind) string {
	switch k {
	case element.EdgeRising:
		return "RISING"
	case element.EdgeFalling:
		return "FALLING"
	default:
		return "NONE"
	}
}
