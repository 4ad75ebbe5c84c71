// Package console implements the cycle-driven scheduler that ties the CPU,
// PPU, timer, serial port, cartridge, APU, joypad, and interrupt controller
// into a single runnable frame loop, per spec.md §4.8.
//
// Steps the CPU and advances every peripheral by the returned cycle count
// until the 70,224-cycle frame budget is reached. There is no debugger
// state machine or asynchronous suspension point: spec.md §5 describes a
// single-threaded, caller-driven simulation only.
package console

import (
	"fmt"

	"github.com/adtennant/gameboy/internal/addr"
	"github.com/adtennant/gameboy/internal/apu"
	"github.com/adtennant/gameboy/internal/bus"
	"github.com/adtennant/gameboy/internal/cart"
	"github.com/adtennant/gameboy/internal/cpu"
	"github.com/adtennant/gameboy/internal/interrupt"
	"github.com/adtennant/gameboy/internal/serial"
	"github.com/adtennant/gameboy/internal/timer"
	"github.com/adtennant/gameboy/internal/video"
)

// CyclesPerFrame is the number of CPU cycles in one 154-scanline frame
// (154 * 456), per spec.md §4.8.
const CyclesPerFrame = 70224

// FrameError is returned by RunFrame when the CPU encountered an undefined
// opcode; the console halts at the faulting instruction.
type FrameError struct {
	Cause error
	PC    uint16
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("console halted at PC=0x%04X: %v", e.PC, e.Cause)
}

func (e *FrameError) Unwrap() error { return e.Cause }

// Console composes every emulated component and drives them in lockstep.
type Console struct {
	CPU    *cpu.CPU
	PPU    *video.PPU
	Timer  *timer.Timer
	Serial *serial.Port
	APU    *apu.APU
	Joypad *bus.Joypad
	IC     *interrupt.Controller

	cart *cart.Cartridge

	halted    bool
	haltError error
}

// New returns a Console with no cartridge loaded; InsertCartridge must be
// called before RunFrame. Bytes written over the serial port go to sink
// (nil falls back to standard output).
func New(sink serial.Sink) *Console {
	return &Console{
		PPU:    video.New(),
		Timer:  timer.New(),
		Serial: serial.New(sink),
		APU:    apu.New(),
		Joypad: bus.NewJoypad(),
		IC:     interrupt.New(),
	}
}

// InsertCartridge loads rom, resets the CPU and interrupt state, and
// writes the documented post-boot I/O register values.
func (c *Console) InsertCartridge(rom []byte) (string, error) {
	cart, err := cart.Load(rom)
	if err != nil {
		return "", fmt.Errorf("insert cartridge: %w", err)
	}

	c.cart = cart
	c.CPU = cpu.New()
	c.IC = interrupt.New()
	c.PPU = video.New()
	c.Timer = timer.New()
	c.Serial.Reset()
	c.APU = apu.New()
	c.Joypad = bus.NewJoypad()
	c.halted = false
	c.haltError = nil

	return cart.Title, nil
}

// Title returns the loaded cartridge's title, or "" if none is loaded.
func (c *Console) Title() string {
	if c.cart == nil {
		return ""
	}
	return c.cart.Title
}

func (c *Console) newBus() *bus.Bus {
	return bus.New(c.cart, c.PPU, c.Timer, c.Serial, c.APU, c.Joypad, c.IC)
}

// RunFrame advances the console by at least one frame's worth of cycles
// (CyclesPerFrame; the last instruction may run past it), or until a fatal
// CPU fault halts it. Once halted, every
// subsequent call returns the same error without advancing further.
func (c *Console) RunFrame() error {
	if c.halted {
		return &FrameError{Cause: c.haltError, PC: c.CPU.PC}
	}

	b := c.newBus()
	total := 0

	for total < CyclesPerFrame {
		cycles, err := c.CPU.Step(b, c.IC)
		if err != nil {
			c.halted = true
			c.haltError = err
			return &FrameError{Cause: err, PC: c.CPU.PC}
		}

		c.advancePeripherals(cycles)
		total += cycles
	}

	return nil
}

func (c *Console) advancePeripherals(cycles int) {
	if overflows := c.Timer.Step(cycles); overflows > 0 {
		c.IC.Request(addr.Timer)
	}

	if c.Serial.Step(cycles) {
		c.IC.Request(addr.Serial)
	}

	for _, irq := range c.PPU.Step(cycles) {
		c.IC.Request(irq)
	}
}

// GetFrameBuffer copies the current frame into out, per spec.md §6.
func (c *Console) GetFrameBuffer(out []byte) {
	c.PPU.GetFrameBuffer(out)
}
