// Package core implements the element/port/net graph model and the
// deterministic per-tick scheduler described by the engine design: strongly
// typed heterogeneous ports, name-based wiring, type-checked connections,
// topological ordering with cycle-safe execution.
package core

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sarchlab/relaylogic/timeval"
)

// Engine owns all elements (exclusive ownership, name→index map, index→
// element vector), the evaluation order, and pending net records until
// binding.
type Engine struct {
	Name string

	elements    []Element
	indexByName map[string]int

	nets  []NetDef
	bound bool
	order []int
}

// NewEngine constructs an empty engine under the given name.
func NewEngine(name string) *Engine {
	return &Engine{
		Name:        name,
		indexByName: make(map[string]int),
	}
}

// AddElement registers an already-constructed element under its own name.
// It fails if the name is already taken.
func (e *Engine) AddElement(el Element) error {
	name := el.Name()
	if _, exists := e.indexByName[name]; exists {
		return fmt.Errorf("element name %q already exists", name)
	}
	e.indexByName[name] = len(e.elements)
	e.elements = append(e.elements, el)
	return nil
}

// AddNet appends a net record, consumed on the first Update/Compile.
func (e *Engine) AddNet(n NetDef) {
	e.nets = append(e.nets, n)
}

// GetElement looks up an element by name.
func (e *Engine) GetElement(name string) (Element, bool) {
	idx, ok := e.indexByName[name]
	if !ok {
		return nil, false
	}
	return e.elements[idx], true
}

// GetElementName returns the engine-registered name for an element pointer,
// or "" if it is not owned by this engine.
func (e *Engine) GetElementName(el Element) string {
	for _, candidate := range e.elements {
		if candidate == el {
			return candidate.Name()
		}
	}
	return ""
}

// ElementCount returns the number of registered elements.
func (e *Engine) ElementCount() int { return len(e.elements) }

// NetCount returns the number of pending net records. Binding consumes
// them, so after the first Update this returns zero.
func (e *Engine) NetCount() int { return len(e.nets) }

// Elements returns the engine's elements in registration order.
func (e *Engine) Elements() []Element { return e.elements }

// Compile resolves nets and computes the evaluation order. It is a no-op if
// already compiled. Update calls Compile implicitly on its first
// invocation.
func (e *Engine) Compile() {
	if e.bound {
		return
	}
	e.bind()
	e.order = e.evaluationOrder()
	e.bound = true
}

// bind resolves every net's source and sink ports by name and connects
// them. A missing name or a type-mismatched connect is logged and that
// single edge is dropped; the engine continues with the input unconnected.
func (e *Engine) bind() {
	for _, net := range e.nets {
		srcEl, ok := e.GetElement(net.Output.Element)
		if !ok {
			slog.Warn("engine: net source element not found",
				"engine", e.Name, "element", net.Output.Element)
			continue
		}
		srcPort := FindPort(srcEl.OutputPorts(), net.Output.Port)
		if srcPort == nil {
			slog.Warn("engine: net source port not found",
				"engine", e.Name, "element", net.Output.Element, "port", net.Output.Port)
			continue
		}

		for _, sink := range net.Inputs {
			dstEl, ok := e.GetElement(sink.Element)
			if !ok {
				slog.Warn("engine: net sink element not found",
					"engine", e.Name, "element", sink.Element)
				continue
			}
			dstPort := FindPort(dstEl.InputPorts(), sink.Port)
			if dstPort == nil {
				slog.Warn("engine: net sink port not found",
					"engine", e.Name, "element", sink.Element, "port", sink.Port)
				continue
			}
			if err := connect(srcPort, dstPort); err != nil {
				slog.Warn("engine: dropping incompatible net edge", "engine", e.Name, "error", err)
			}
		}
	}
	e.nets = nil
}

// evaluationOrder computes a permutation of element indices such that a
// source element precedes its sinks whenever possible. Cycles are legal
// (latch nets): Kahn's algorithm naturally isolates a cycle as the set of
// elements with no zero-in-degree candidate; breaking on the
// lowest-index residual element is equivalent to choosing one back-edge per
// strongly connected component. A back-edge conveys the source's
// previous-tick value, since Port.GetValue always reads whatever the
// source's output currently holds.
func (e *Engine) evaluationOrder() []int {
	n := len(e.elements)
	inDegree := make([]int, n)
	dependents := make([][]int, n) // dependents[src] = elements depending on src

	for dstIdx, el := range e.elements {
		seen := make(map[int]bool)
		for _, in := range el.InputPorts() {
			if !in.IsConnected() {
				continue
			}
			srcOwner := in.source.owner
			srcIdx, ok := e.indexOf(srcOwner)
			if !ok || srcIdx == dstIdx || seen[srcIdx] {
				continue
			}
			seen[srcIdx] = true
			inDegree[dstIdx]++
			dependents[srcIdx] = append(dependents[srcIdx], dstIdx)
		}
	}

	order := make([]int, 0, n)
	done := make([]bool, n)
	remaining := n

	for remaining > 0 {
		progressed := false
		for i := 0; i < n; i++ {
			if done[i] || inDegree[i] > 0 {
				continue
			}
			order = append(order, i)
			done[i] = true
			remaining--
			progressed = true
			for _, dep := range dependents[i] {
				if !done[dep] {
					inDegree[dep]--
				}
			}
		}
		if !progressed && remaining > 0 {
			// Residual elements form one or more cycles. Break on the
			// lowest-index one: schedule it, log the break, and treat its
			// remaining incoming edges as back-edges.
			for i := 0; i < n; i++ {
				if !done[i] {
					slog.Warn("engine: breaking cyclic net", "engine", e.Name,
						"element", e.elements[i].Name())
					order = append(order, i)
					done[i] = true
					remaining--
					for _, dep := range dependents[i] {
						if !done[dep] {
							inDegree[dep]--
						}
					}
					break
				}
			}
		}
	}

	return order
}

func (e *Engine) indexOf(el Element) (int, bool) {
	idx, ok := e.indexByName[el.Name()]
	if !ok || e.elements[idx] != el {
		return 0, false
	}
	return idx, true
}

// Update compiles the engine (on first call) then evaluates every element
// exactly once, in dependency order. Time is passed through unchanged.
func (e *Engine) Update(ts timeval.Time) {
	e.Compile()
	for _, idx := range e.order {
		e.elements[idx].Update(ts)
	}
}

// Version identifies this build of the logic element engine, rendered as
// the header line of GetInfo.
const Version = "relaylogic 1.0"

// GetInfo renders a multi-line ASCII status page, one "\r\n"-terminated
// line per element naming its name, type tag, and output-port values,
// truncated to cap bytes. The first line is the engine name and Version
// banner.
func (e *Engine) GetInfo(cap int) string {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteString(" ")
	b.WriteString(Version)
	b.WriteString("\r\n")
	for _, el := range e.elements {
		b.WriteString(el.Name())
		b.WriteString(" ")
		b.WriteString(el.Type().String())
		for _, out := range el.OutputPorts() {
			b.WriteString(" ")
			b.WriteString(out.Name())
			b.WriteString("=")
			b.WriteString(out.GetValue().Format())
		}
		b.WriteString("\r\n")
	}
	s := b.String()
	if len(s) > cap {
		return s[:cap]
	}
	return s
}
