// Command relayctl is an example entry point wiring the builder, board and
// simhost packages together: a serial akita engine drives the board, with
// HAL shutdown registered through atexit. The TCP/serial transport, the
// ASCII command parser and the DNP3 outstation itself live outside this
// library; this binary only proves the wiring runs end to end against a
// no-op diagnostic HAL.
package main

import (
	_ "embed"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/relaylogic/board"
	"github.com/sarchlab/relaylogic/builder"
	"github.com/sarchlab/relaylogic/command"
	"github.com/sarchlab/relaylogic/hal"
	"github.com/sarchlab/relaylogic/simhost"
)

//go:embed config.json
var demoConfig []byte

// noopHAL is a diagnostic-only HAL standing in for the platform GPIO layer,
// which belongs to the platform port and is not reimplemented here.
type noopHAL struct{}

func (noopHAL) ReadDigital(hal.Pin) bool           { return false }
func (noopHAL) WriteDigital(hal.Pin, bool)         {}
func (noopHAL) ReadAnalog(hal.Pin) (float32, bool) { return 0, true }
func (noopHAL) WriteAnalog(hal.Pin, float32)       {}
func (noopHAL) ConfigureDigitalInput(hal.Pin)      {}
func (noopHAL) ConfigureDigitalOutput(hal.Pin)     {}
func (noopHAL) ConfigureAnalogInput(hal.Pin)       {}
func (noopHAL) ConfigureAnalogOutput(hal.Pin)      {}
func (noopHAL) Init() error                        { return nil }
func (noopHAL) Shutdown() error                    { return nil }
func (noopHAL) GetPlatformName() string            { return "noop" }

func main() {
	b := builder.New()
	eng, dnp3Cfg, ok := b.LoadConfig(demoConfig)
	if !ok {
		slog.Error("relayctl: failed to load config",
			"major", b.GetMajorError(), "minor", b.GetMinorError(), "message", b.GetErrorMessage())
		os.Exit(1)
	}
	if dnp3Cfg != nil {
		slog.Info("relayctl: dnp3 outstation configured", "name", dnp3Cfg.Name)
	}

	h := noopHAL{}
	if err := h.Init(); err != nil {
		slog.Error("relayctl: HAL init failed", "error", err)
		os.Exit(1)
	}
	atexit.Register(func() {
		if err := h.Shutdown(); err != nil {
			slog.Warn("relayctl: HAL shutdown failed", "error", err)
		}
	})

	brd := board.New(h)
	brd.Attach(eng)
	brd.Start()

	simEngine := sim.NewSerialEngine()
	host := simhost.NewBuilder().
		WithEngine(simEngine).
		WithFreq(10 * sim.Hz).
		WithBoard(brd).
		WithMaxTicks(100). // 10 simulated seconds at 10Hz
		Build("Board")

	if err := simEngine.Run(); err != nil {
		slog.Error("relayctl: simulation run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("relayctl: final status",
		"status", command.Status(eng, 4096), "ticksRun", host.TicksRun())

	atexit.Exit(0)
}
