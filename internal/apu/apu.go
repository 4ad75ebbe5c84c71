// Package apu implements the audio register file as inert storage: writes
// are retained and reads return the last-written value, but no waveform
// synthesis or mixing takes place. The sound registers stay addressable for
// any cartridge boot code that probes them, without a mixer behind them.
package apu

const waveRAMSize = 16

// APU is the register file for the DMG sound hardware.
type APU struct {
	NR10, NR11, NR12, NR13, NR14 uint8
	NR21, NR22, NR23, NR24       uint8
	NR30, NR31, NR32, NR33, NR34 uint8
	NR41, NR42, NR43, NR44       uint8
	NR50, NR51, NR52             uint8
	waveRAM                      [waveRAMSize]uint8
}

// New returns an APU with NR52 reflecting the documented post-boot state
// (sound hardware enabled, channel 1 status bit set).
func New() *APU {
	return &APU{NR52: 0xF1}
}

// Read returns the stored value of the register at address, or 0xFF for
// addresses outside the sound register range.
func (a *APU) Read(address uint16) byte {
	switch {
	case address >= 0xFF30 && address <= 0xFF3F:
		return a.waveRAM[address-0xFF30]
	}

	switch address {
	case 0xFF10:
		return a.NR10
	case 0xFF11:
		return a.NR11
	case 0xFF12:
		return a.NR12
	case 0xFF13:
		return a.NR13
	case 0xFF14:
		return a.NR14
	case 0xFF16:
		return a.NR21
	case 0xFF17:
		return a.NR22
	case 0xFF18:
		return a.NR23
	case 0xFF19:
		return a.NR24
	case 0xFF1A:
		return a.NR30
	case 0xFF1B:
		return a.NR31
	case 0xFF1C:
		return a.NR32
	case 0xFF1D:
		return a.NR33
	case 0xFF1E:
		return a.NR34
	case 0xFF20:
		return a.NR41
	case 0xFF21:
		return a.NR42
	case 0xFF22:
		return a.NR43
	case 0xFF23:
		return a.NR44
	case 0xFF24:
		return a.NR50
	case 0xFF25:
		return a.NR51
	case 0xFF26:
		return a.NR52
	default:
		return 0xFF
	}
}

// Write stores value at address, retaining it for a later Read. No audio
// is produced as a result.
func (a *APU) Write(address uint16, value byte) {
	if address >= 0xFF30 && address <= 0xFF3F {
		a.waveRAM[address-0xFF30] = value
		return
	}

	switch address {
	case 0xFF10:
		a.NR10 = value
	case 0xFF11:
		a.NR11 = value
	case 0xFF12:
		a.NR12 = value
	case 0xFF13:
		a.NR13 = value
	case 0xFF14:
		a.NR14 = value
	case 0xFF16:
		a.NR21 = value
	case 0xFF17:
		a.NR22 = value
	case 0xFF18:
		a.NR23 = value
	case 0xFF19:
		a.NR24 = value
	case 0xFF1A:
		a.NR30 = value
	case 0xFF1B:
		a.NR31 = value
	case 0xFF1C:
		a.NR32 = value
	case 0xFF1D:
		a.NR33 = value
	case 0xFF1E:
		a.NR34 = value
	case 0xFF20:
		a.NR41 = value
	case 0xFF21:
		a.NR42 = value
	case 0xFF22:
		a.NR43 = value
	case 0xFF23:
		a.NR44 = value
	case 0xFF24:
		a.NR50 = value
	case 0xFF25:
		a.NR51 = value
	case 0xFF26:
		a.NR52 = value
	}
}
