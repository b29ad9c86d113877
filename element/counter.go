package element

import (
	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// Counter increments a 16-bit saturating counter on the rising edge of
// count_up; reset dominates and zeroes the counter. The output asserts once
// the count reaches countFinal.
type Counter struct {
	core.Base
	countUp *core.Port
	reset   *core.Port
	done    *core.Port

	countFinal uint16
	count      uint16
	prevUp     bool
}

// NewCounter constructs a Counter that asserts once it reaches countFinal.
func NewCounter(name string, countFinal uint16) *Counter {
	c := &Counter{Base: core.NewBase(name, core.TypeCounter), countFinal: countFinal}
	c.countUp = c.AddInput(c, "count_up", core.KindBool)
	c.reset = c.AddInput(c, "reset", core.KindBool)
	c.done = c.AddOutput(c, "done", core.KindBool)
	return c
}

// Update advances the counter on a rising edge of count_up, unless reset is
// asserted.
func (c *Counter) Update(timeval.Time) {
	if c.reset.IsConnected() && c.reset.GetBool() {
		c.count = 0
		c.prevUp = false
		c.done.SetBool(c.count >= c.countFinal)
		return
	}

	up := c.countUp.GetBool()
	if up && !c.prevUp && c.count < 0xFFFF {
		c.count++
	}
	c.prevUp = up

	c.done.SetBool(c.count >= c.countFinal)
}

// Count returns the counter's current value.
func (c *Counter) Count() uint16 { return c.count }
