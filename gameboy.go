// Package gameboy is the public embedding boundary for the emulator core:
// a Handle wraps one Console instance, exposing exactly the operations an
// embedder needs to load a ROM, advance the simulation, and read back the
// rendered frame, per spec.md §6.
package gameboy

import (
	"github.com/adtennant/gameboy/internal/console"
	"github.com/adtennant/gameboy/internal/serial"
)

// FrameWidth and FrameHeight are the dimensions of the buffer GetFrameBuffer
// fills, per spec.md §6.
const (
	FrameWidth  = 160
	FrameHeight = 144
)

// Handle is one independent emulator instance. The zero value is not usable;
// construct one with Create.
type Handle struct {
	console *console.Console
}

// Create returns a new Handle with no cartridge loaded. Bytes written over
// the serial port go to sink; a nil sink writes to standard output.
func Create(sink serial.Sink) *Handle {
	return &Handle{console: console.New(sink)}
}

// Destroy releases the handle's state. After Destroy, the Handle must not
// be used again.
func (h *Handle) Destroy() {
	h.console = nil
}

// LoadROM parses rom's cartridge header, constructs the matching
// memory-bank controller, inserts the cartridge, and resets every
// peripheral to its documented post-boot register state. It returns the
// cartridge's title.
func (h *Handle) LoadROM(rom []byte) (title string, err error) {
	return h.console.InsertCartridge(rom)
}

// RunFrame advances the simulation by one frame (at least 70,224 cycles),
// or returns an error if the CPU faulted on an undefined opcode. Once an
// error is returned, the Handle is halted and every further RunFrame call
// returns the same error.
func (h *Handle) RunFrame() error {
	return h.console.RunFrame()
}

// GetFrameBuffer copies the current frame into out as FrameWidth*FrameHeight
// bytes valued 0 (white) to 3 (black). out must be at least that large.
func (h *Handle) GetFrameBuffer(out []byte) {
	h.console.GetFrameBuffer(out)
}
