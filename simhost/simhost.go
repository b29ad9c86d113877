// Package simhost provides a host-side real-time simulation harness that
// drives a board.Board on a fixed akita tick cadence. The board and engine
// themselves stay plain Go; no akita type crosses into core, element,
// builder, or board. This package is purely the harness that exercises them
// on akita's event loop for host-side testing and demos.
package simhost

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/relaylogic/board"
	"github.com/sarchlab/relaylogic/timeval"
)

// defaultMaxTicks bounds a Host's run when the builder never sets one
// explicitly, so a caller that forgets WithMaxTicks still gets a
// terminating simulation rather than one the serial engine runs forever.
const defaultMaxTicks = 1000

// Host is an akita TickingComponent that advances a board.Board once per
// tick, translating akita's simulated seconds into a timeval.Time by
// accumulating ticks onto a base epoch.
type Host struct {
	*sim.TickingComponent

	board    *board.Board
	base     timeval.Time
	tickNum  uint64
	tickSecs float64
	maxTicks uint64
}

// TicksRun reports how many ticks this Host has advanced the board so far.
func (h *Host) TicksRun() uint64 { return h.tickNum }

// Builder constructs a Host through a With*-option chain.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	board    *board.Board
	base     timeval.Time
	maxTicks uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() Builder { return Builder{} }

// WithEngine sets the akita engine driving this host.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the tick frequency the host runs the board at (e.g.
// 60*sim.Hz for pure-engine testing, 10*sim.Hz for a full board cycle).
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithBoard sets the board.Board instance this host drives every tick.
func (b Builder) WithBoard(brd *board.Board) Builder {
	b.board = brd
	return b
}

// WithBaseTime sets the timeval.Time corresponding to simulated time zero.
// Defaults to timeval.Now() if never called.
func (b Builder) WithBaseTime(base timeval.Time) Builder {
	b.base = base
	return b
}

// WithMaxTicks bounds the number of ticks the Host will run before it stops
// reporting progress, so the serial engine's run-while-progressing loop
// always terminates. Defaults to defaultMaxTicks if never called.
func (b Builder) WithMaxTicks(n uint64) Builder {
	b.maxTicks = n
	return b
}

// Build constructs the Host and schedules its first tick on the engine, so
// a bare engine.Run() actually drives the board instead of finding an empty
// event queue.
func (b Builder) Build(name string) *Host {
	if b.base == (timeval.Time{}) {
		b.base = timeval.Now()
	}
	if b.maxTicks == 0 {
		b.maxTicks = defaultMaxTicks
	}
	h := &Host{
		board:    b.board,
		base:     b.base,
		tickSecs: 1 / float64(b.freq),
		maxTicks: b.maxTicks,
	}
	h.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, h)
	h.TickNow()
	return h
}

// Tick advances the board by one cycle, deriving the tick's timeval.Time
// from the base epoch plus tickNum*period. It reports progress until
// maxTicks is reached, at which point it stops rescheduling itself so the
// engine's run loop terminates.
func (h *Host) Tick() (madeProgress bool) {
	ts := h.base.Future(float64(h.tickNum) * h.tickSecs)
	h.tickNum++

	if err := h.board.Update(ts); err != nil {
		slog.Warn("simhost: board update failed", "error", err, "tick", h.tickNum)
	}
	return h.tickNum < h.maxTicks
}
