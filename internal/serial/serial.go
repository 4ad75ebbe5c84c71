// Package serial implements the dummy serial-transfer port: when SC=0x81 it
// clocks SB out over 8 cycles and raises the Serial interrupt.
//
// Implements the fixed 8-cycle transfer spec.md §4.3 specifies, writing
// each transferred byte directly to an injectable sink, matching the
// embedding boundary's "injectable byte consumer" requirement in
// spec.md §4.3/§6.
package serial

import (
	"fmt"
	"os"

	"github.com/adtennant/gameboy/internal/addr"
)

// Sink receives each byte transmitted over the serial port. The default
// Sink writes to standard output, matching spec.md §6's documented default.
type Sink interface {
	WriteByte(b byte)
}

// StdoutSink is the default Sink: it prints each transmitted byte to
// standard output, used by CPU test ROMs that stream a pass/fail log.
type StdoutSink struct{}

func (StdoutSink) WriteByte(b byte) {
	fmt.Fprintf(os.Stdout, "%c", b)
}

// Port models the SB/SC registers and the transfer-cycle accumulator.
type Port struct {
	SB uint8
	SC uint8

	transferCycles int
	sink           Sink
}

// New returns a Port that writes transmitted bytes to the given sink. A nil
// sink falls back to StdoutSink.
func New(sink Sink) *Port {
	if sink == nil {
		sink = StdoutSink{}
	}
	return &Port{sink: sink}
}

// Step advances the port by c cycles. If a transfer is in progress (SC ==
// 0x81), once the accumulator reaches 8 cycles it emits SB to the sink,
// resets SB to 0xFF, clears SC's start bit, and reports that the Serial
// interrupt should be raised.
func (p *Port) Step(c int) (interrupt bool) {
	if p.SC != 0x81 {
		return false
	}

	p.transferCycles += c
	if p.transferCycles < 8 {
		return false
	}

	p.sink.WriteByte(p.SB)
	p.SB = 0xFF
	p.SC = 0x01
	p.transferCycles = 0
	return true
}

// Reset clears the port's transfer state without changing its sink.
func (p *Port) Reset() {
	p.SB = 0
	p.SC = 0
	p.transferCycles = 0
}

// Read returns the byte for SB or SC.
func (p *Port) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return p.SB
	case addr.SC:
		return p.SC
	default:
		return 0xFF
	}
}

// Write stores a byte to SB or SC.
func (p *Port) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		p.SB = value
	case addr.SC:
		p.SC = value
	}
}
