package element

import (
	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// MaxSERHistory is the capacity of the SER ring buffer.
const MaxSERHistory = 64

// EdgeKind tags the transition recorded by an SER event.
type EdgeKind int

const (
	EdgeNone EdgeKind = iota
	EdgeRising
	EdgeFalling
)

// SEREvent is one ring-buffer entry: the monitored input's index, the edge
// kind, and the timestamp it was observed.
type SEREvent struct {
	SourceIndex int
	Edge        EdgeKind
	Timestamp   timeval.Time
}

// SER (Sequential Event Recorder) watches N boolean inputs and appends an
// event to a ring buffer whenever one changes value. The buffer wraps once
// full, overwriting the oldest entry.
type SER struct {
	core.Base
	inputs   []*core.Port
	previous []bool

	ring  [MaxSERHistory]SEREvent
	head  int
	count int
}

// NewSER constructs an SER watching the given named boolean inputs.
func NewSER(name string, inputNames []string) *SER {
	s := &SER{Base: core.NewBase(name, core.TypeSER)}
	for _, n := range inputNames {
		s.inputs = append(s.inputs, s.AddInput(s, n, core.KindBool))
		s.previous = append(s.previous, false)
	}
	return s
}

// Update records a rising or falling edge for each input whose value
// differs from the last-observed value.
func (s *SER) Update(ts timeval.Time) {
	for i, in := range s.inputs {
		current := in.GetBool()
		if current == s.previous[i] {
			continue
		}
		edge := EdgeFalling
		if current {
			edge = EdgeRising
		}
		s.append(SEREvent{SourceIndex: i, Edge: edge, Timestamp: ts})
		s.previous[i] = current
	}
}

func (s *SER) append(ev SEREvent) {
	idx := (s.head + s.count) % MaxSERHistory
	if s.count == MaxSERHistory {
		idx = s.head
		s.head = (s.head + 1) % MaxSERHistory
	} else {
		s.count++
	}
	s.ring[idx] = ev
}

// InputName returns the name of the monitored input at the given index, for
// rendering the source element/port a recorded event refers to.
func (s *SER) InputName(index int) string {
	if index < 0 || index >= len(s.inputs) {
		return ""
	}
	return s.inputs[index].Name()
}

// GetEventLog returns the oldest min(n, count) events in chronological
// order.
func (s *SER) GetEventLog(n int) []SEREvent {
	if n > s.count {
		n = s.count
	}
	out := make([]SEREvent, n)
	for i := 0; i < n; i++ {
		out[i] = s.ring[(s.head+i)%MaxSERHistory]
	}
	return out
}

// Count returns the number of events currently stored.
func (s *SER) Count() int { return s.count }
