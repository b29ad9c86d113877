package element

import (
	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// PID implements proportional-integral-derivative control over a setpoint
// and feedback input. Setting d=0 yields a PI controller. The integral
// accumulator is windup-limited only by clamping the output; there is no
// separate anti-windup term.
//
// The derivative term is a windowed moving average of the error, differenced
// tick-to-tick and divided by dt.
type PID struct {
	core.Base
	setpoint *core.Port
	feedback *core.Port
	output   *core.Port

	p, i, d   float32
	outputMin float32
	outputMax float32

	integral    float32
	derivWindow []float32
	derivWrite  int
	filterPrev  float32
	haveFilter  bool
	lastTS      timeval.Time
	haveLastTS  bool
}

// NewPID constructs a PID controller. derivativeTerms is the length of the
// windowed moving-average filter applied to the error before
// differentiation.
func NewPID(name string, p, i, d, outputMin, outputMax float32, derivativeTerms int) *PID {
	if derivativeTerms < 1 {
		derivativeTerms = 1
	}
	pid := &PID{
		Base:        core.NewBase(name, core.TypePID),
		p:           p,
		i:           i,
		d:           d,
		outputMin:   outputMin,
		outputMax:   outputMax,
		derivWindow: make([]float32, derivativeTerms),
	}
	pid.setpoint = pid.AddInput(pid, "setpoint", core.KindFloat)
	pid.feedback = pid.AddInput(pid, "feedback", core.KindFloat)
	pid.output = pid.AddOutput(pid, "output", core.KindFloat)
	return pid
}

// Update evaluates one control step. The first tick is a no-op: dt is
// undefined until a previous timestamp exists.
func (pid *PID) Update(ts timeval.Time) {
	if !pid.haveLastTS {
		pid.lastTS = ts
		pid.haveLastTS = true
		return
	}
	dt := float32(timeval.Subtract(ts, pid.lastTS)) / 1_000_000.0
	pid.lastTS = ts

	if !pid.setpoint.IsConnected() || !pid.feedback.IsConnected() {
		return
	}
	if dt <= 0 {
		return
	}

	error := pid.setpoint.GetFloat() - pid.feedback.GetFloat()

	out := pid.p*error + pid.integralTerm(error, dt)
	if pid.d != 0 {
		out += pid.derivativeTerm(error, dt)
	}

	pid.output.SetFloat(clampFloat(out, pid.outputMin, pid.outputMax))
}

func (pid *PID) integralTerm(error, dt float32) float32 {
	pid.integral += error * dt
	return pid.i * pid.integral
}

func (pid *PID) derivativeTerm(error, dt float32) float32 {
	pid.derivWindow[pid.derivWrite] = error
	pid.derivWrite = (pid.derivWrite + 1) % len(pid.derivWindow)

	var sum float32
	for _, v := range pid.derivWindow {
		sum += v
	}
	filtered := sum / float32(len(pid.derivWindow))

	if !pid.haveFilter {
		pid.filterPrev = filtered
		pid.haveFilter = true
		return 0
	}

	derivative := (filtered - pid.filterPrev) / dt
	pid.filterPrev = filtered
	return pid.d * derivative
}

func clampFloat(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
