// Package cpu implements the instruction interpreter: fetch-decode-execute,
// flag arithmetic, and interrupt dispatch, per spec.md §4.6.
//
// Per spec.md §9, the CPU never stores a reference to the bus: it receives
// one fresh on every Step call, avoiding a CPU<->bus cyclic dependency as
// the console composes independently owned components.
package cpu

import (
	"fmt"

	"github.com/adtennant/gameboy/internal/addr"
	"github.com/adtennant/gameboy/internal/bit"
)

// Bus is the minimal interface the CPU needs to fetch instructions and
// access memory-mapped state. The console's address bus implements it.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Interrupts is the minimal interface the CPU needs to dispatch interrupts.
type Interrupts interface {
	Pending() uint8
	Clear(kind addr.Interrupt)
}

// UndefinedOpcodeError is returned by Step when the fetched opcode has no
// defined behavior on real hardware.
type UndefinedOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *UndefinedOpcodeError) Error() string {
	return fmt.Sprintf("undefined opcode 0x%02X at PC=0x%04X", e.Opcode, e.PC)
}

// CPU is the instruction interpreter. It holds no reference to memory; Step
// receives the bus and interrupt controller fresh on every call.
type CPU struct {
	Registers

	IME    bool
	halted bool
}

// New returns a CPU in the documented DMG post-boot register state.
func New() *CPU {
	c := &CPU{}
	c.A, c.F = 0x01, 0xB0
	c.SetBC(0x0013)
	c.SetDE(0x00D8)
	c.SetHL(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.IME = true
	return c
}

var undefinedOpcodes = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true,
	0xEB: true, 0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}

// Step executes one instruction fetch-decode-execute cycle, or services a
// pending interrupt, and returns the number of cycles consumed.
//
// Order of operations, per spec.md §4.6:
//  1. If IME is set and an interrupt is pending, dispatch it.
//  2. Else if halted and an interrupt is pending (regardless of IME), resume.
//  3. Else if halted, consume 4 cycles without fetching.
//  4. Else fetch, decode, and execute the next instruction.
func (c *CPU) Step(bus Bus, ic Interrupts) (int, error) {
	if c.IME && ic.Pending() != 0 {
		return c.dispatchInterrupt(bus, ic), nil
	}

	if c.halted {
		if ic.Pending() != 0 {
			c.halted = false
		} else {
			return 4, nil
		}
	}

	opcode := c.fetch(bus)
	if undefinedOpcodes[opcode] {
		return 0, &UndefinedOpcodeError{Opcode: opcode, PC: c.PC - 1}
	}

	return c.execute(bus, opcode), nil
}

func (c *CPU) dispatchInterrupt(bus Bus, ic Interrupts) int {
	pending := ic.Pending()
	for i := uint8(0); i < 5; i++ {
		if pending&(1<<i) == 0 {
			continue
		}
		kind := addr.Interrupt(i)
		c.IME = false
		ic.Clear(kind)
		c.push(bus, c.PC)
		c.PC = kind.Vector()
		return 16
	}
	return 0
}

func (c *CPU) fetch(bus Bus) uint8 {
	value := bus.Read(c.PC)
	c.PC++
	return value
}

func (c *CPU) fetch16(bus Bus) uint16 {
	low := c.fetch(bus)
	high := c.fetch(bus)
	return bit.Combine(high, low)
}

func (c *CPU) push(bus Bus, value uint16) {
	c.SP--
	bus.Write(c.SP, bit.High(value))
	c.SP--
	bus.Write(c.SP, bit.Low(value))
}

func (c *CPU) pop(bus Bus) uint16 {
	low := bus.Read(c.SP)
	c.SP++
	high := bus.Read(c.SP)
	c.SP++
	return bit.Combine(high, low)
}
