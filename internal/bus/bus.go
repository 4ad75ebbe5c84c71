// Package bus implements the address-bus dispatcher: a single Read/Write
// surface routing CPU accesses to WRAM, HRAM, the cartridge, the PPU, the
// timer, serial port, APU, joypad, and interrupt registers, plus OAM DMA.
//
// The Bus is never stored by the CPU: it is built fresh every CPU step from
// the console's owned components, per spec.md §9's bus-ownership note.
package bus

import (
	"github.com/adtennant/gameboy/internal/addr"
	"github.com/adtennant/gameboy/internal/apu"
	"github.com/adtennant/gameboy/internal/cart"
	"github.com/adtennant/gameboy/internal/interrupt"
	"github.com/adtennant/gameboy/internal/serial"
	"github.com/adtennant/gameboy/internal/timer"
	"github.com/adtennant/gameboy/internal/video"
)

// PPU is the subset of *video.PPU the bus needs.
type PPU interface {
	ReadVRAM(address uint16) byte
	WriteVRAM(address uint16, value byte)
	ReadOAM(address uint16) byte
	WriteOAM(address uint16, value byte)
	WriteOAMRaw(offset uint16, value byte)
	ReadRegister(address uint16) byte
	WriteRegister(address uint16, value byte)
}

var _ PPU = (*video.PPU)(nil)

// Bus composes references to every addressable component. It is constructed
// fresh on every CPU step and never retained across steps.
type Bus struct {
	WRAM [0x2000]byte
	HRAM [0x7F]byte

	Cart    *cart.Cartridge
	PPU     PPU
	Timer   *timer.Timer
	Serial  *serial.Port
	APU     *apu.APU
	Joypad  *Joypad
	IC      *interrupt.Controller
	dmaByte uint8
}

// New returns a Bus wired to the given components.
func New(c *cart.Cartridge, p PPU, t *timer.Timer, s *serial.Port, a *apu.APU, j *Joypad, ic *interrupt.Controller) *Bus {
	return &Bus{Cart: c, PPU: p, Timer: t, Serial: s, APU: a, Joypad: j, IC: ic}
}

func (b *Bus) Read(address uint16) byte {
	switch {
	case address <= 0x7FFF:
		return b.Cart.Read(address)
	case address <= 0x9FFF:
		return b.PPU.ReadVRAM(address)
	case address <= 0xBFFF:
		return b.Cart.Read(address)
	case address <= 0xDFFF:
		return b.WRAM[address-0xC000]
	case address <= 0xFDFF:
		return b.WRAM[address-0xE000]
	case address <= 0xFE9F:
		return b.PPU.ReadOAM(address)
	case address <= 0xFEFF:
		return 0xFF
	case address == addr.P1:
		return b.Joypad.Read()
	case address == addr.SB || address == addr.SC:
		return b.Serial.Read(address)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return b.Timer.Read(address)
	case address == addr.IF:
		return b.IC.IF
	case address == addr.IE:
		return b.IC.IE
	case address >= 0xFF10 && address <= 0xFF3F:
		return b.APU.Read(address)
	case address == addr.DMA:
		return b.dmaByte
	case address >= addr.LCDC && address <= addr.WX:
		return b.PPU.ReadRegister(address)
	case address >= 0xFF80 && address <= addr.HRAMEnd:
		return b.HRAM[address-0xFF80]
	default:
		return 0xFF
	}
}

func (b *Bus) Write(address uint16, value byte) {
	switch {
	case address <= 0x7FFF:
		b.Cart.Write(address, value)
	case address <= 0x9FFF:
		b.PPU.WriteVRAM(address, value)
	case address <= 0xBFFF:
		b.Cart.Write(address, value)
	case address <= 0xDFFF:
		b.WRAM[address-0xC000] = value
	case address <= 0xFDFF:
		b.WRAM[address-0xE000] = value
	case address <= 0xFE9F:
		b.PPU.WriteOAM(address, value)
	case address <= 0xFEFF:
		// unused area, discard
	case address == addr.P1:
		b.Joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		b.Serial.Write(address, value)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		b.Timer.Write(address, value)
	case address == addr.IF:
		b.IC.IF = value
	case address == addr.IE:
		b.IC.IE = value
	case address >= 0xFF10 && address <= 0xFF3F:
		b.APU.Write(address, value)
	case address == addr.DMA:
		b.dmaByte = value
		b.runOAMDMA(value)
	case address >= addr.LCDC && address <= addr.WX:
		b.PPU.WriteRegister(address, value)
	case address >= 0xFF80 && address <= addr.HRAMEnd:
		b.HRAM[address-0xFF80] = value
	}
}

// runOAMDMA performs the instantaneous 160-byte copy from source<<8 into
// OAM, per spec.md's documented simplification (no DMA timing model).
func (b *Bus) runOAMDMA(sourceHigh byte) {
	source := uint16(sourceHigh) << 8
	for i := uint16(0); i < 160; i++ {
		b.PPU.WriteOAMRaw(i, b.Read(source+i))
	}
}

// ReadWord reads a little-endian 16-bit value.
func (b *Bus) ReadWord(address uint16) uint16 {
	return uint16(b.Read(address)) | uint16(b.Read(address+1))<<8
}

// WriteWord writes a little-endian 16-bit value.
func (b *Bus) WriteWord(address uint16, value uint16) {
	b.Write(address, byte(value))
	b.Write(address+1, byte(value>>8))
}
