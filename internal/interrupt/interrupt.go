// Package interrupt implements the interrupt controller: the IE (enable
// mask) and IF (request flags) bytes, and the request() operation.
//
// Pulled out into its own leaf component: all edge detection and dispatch
// logic lives in the CPU, not here.
package interrupt

import "github.com/adtennant/gameboy/internal/addr"

// Controller holds the two interrupt registers. Only bits 0-4 are
// meaningful; upper bits are retained as written but ignored during
// dispatch.
type Controller struct {
	IE uint8
	IF uint8
}

// New returns a Controller with both registers cleared.
func New() *Controller {
	return &Controller{}
}

// Request sets the IF bit for the given interrupt source.
func (c *Controller) Request(kind addr.Interrupt) {
	c.IF |= 1 << kind.Bit()
}

// Pending returns the bits that are both enabled and requested, masked to
// the five meaningful bits.
func (c *Controller) Pending() uint8 {
	return c.IE & c.IF & 0x1F
}

// Clear clears the IF bit for the given interrupt source.
func (c *Controller) Clear(kind addr.Interrupt) {
	c.IF &^= 1 << kind.Bit()
}
