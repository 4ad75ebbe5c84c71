// Package video implements the pixel-processing unit: the 4-mode scanline
// state machine, VRAM/OAM stores with derived tile/sprite caches, and the
// background/sprite scanline renderer.
//
// Built around spec.md §4.7's explicit per-mode cycle budget and spec.md's
// Non-goals (no SCY/SCX scroll in the rendered output, no window layer, no
// 8x16 sprites).
package video

import "github.com/adtennant/gameboy/internal/addr"

// Mode is the PPU's current scanline phase, matching STAT bits 1:0.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMRead
	VRAMRead
)

const (
	oamCycles    = 80
	vramCycles   = 172
	hblankCycles = 204
	vblankCycles = 456

	Width  = 160
	Height = 144
)

// PPU owns VRAM, OAM, the control registers, and the derived caches.
type PPU struct {
	vram [0x2000]byte
	oam  [160]byte

	LCDC, statRaw, SCY, SCX, LY, LYC, BGP, OBP0, OBP1, WY, WX uint8

	mode       Mode
	modeCycles int

	tileCache   [tileCount]tile
	spriteCache [spriteCount]sprite

	frame   [Width * Height]Shade
	bgIndex [Width]uint8 // raw BG pixel index for the scanline being rendered, for sprite priority
}

// New returns a PPU in its documented post-boot register state (LCDC
// enabled, STAT/BGP/OBP0/OBP1 at their post-boot values), starting in mode
// OAMRead at LY 0.
func New() *PPU {
	p := &PPU{
		LCDC: 0x91,
		statRaw: 0x85,
		BGP:  0xFC,
		OBP0: 0xFF,
		OBP1: 0xFF,
		mode: OAMRead,
	}
	return p
}

// GetFrameBuffer copies the current frame into out as 160*144 bytes valued
// 0 (white) to 3 (black), per spec.md §6.
func (p *PPU) GetFrameBuffer(out []byte) {
	for i, s := range p.frame {
		if i >= len(out) {
			break
		}
		out[i] = uint8(s)
	}
}

// Step advances the PPU by c cycles and returns the interrupts it raised.
func (p *PPU) Step(c int) []addr.Interrupt {
	if p.LCDC&0x80 == 0 {
		p.mode = HBlank
		p.LY = 0
		p.modeCycles = 0
		return nil
	}

	var irqs []addr.Interrupt
	p.modeCycles += c

	for {
		switch p.mode {
		case OAMRead:
			if p.modeCycles < oamCycles {
				return irqs
			}
			p.modeCycles -= oamCycles
			p.mode = VRAMRead

		case VRAMRead:
			if p.modeCycles < vramCycles {
				return irqs
			}
			p.modeCycles -= vramCycles
			if p.LY < 144 {
				p.renderScanline()
			}
			if p.statIRQEnabled(0x08) {
				irqs = append(irqs, addr.LCDStat)
			}
			p.mode = HBlank

		case HBlank:
			if p.modeCycles < hblankCycles {
				return irqs
			}
			p.modeCycles -= hblankCycles
			p.LY++
			p.checkCoincidence(&irqs)

			if p.LY == 144 {
				p.mode = VBlank
				irqs = append(irqs, addr.VBlank)
				if p.statIRQEnabled(0x10) {
					irqs = append(irqs, addr.LCDStat)
				}
			} else {
				p.mode = OAMRead
				if p.statIRQEnabled(0x20) {
					irqs = append(irqs, addr.LCDStat)
				}
			}

		case VBlank:
			if p.modeCycles < vblankCycles {
				return irqs
			}
			p.modeCycles -= vblankCycles
			p.LY++
			if p.LY > 153 {
				p.LY = 0
				p.mode = OAMRead
				p.checkCoincidence(&irqs)
				if p.statIRQEnabled(0x20) {
					irqs = append(irqs, addr.LCDStat)
				}
			} else {
				p.checkCoincidence(&irqs)
			}
		}
	}
}

func (p *PPU) statIRQEnabled(bit uint8) bool {
	return p.statRaw&bit != 0
}

func (p *PPU) checkCoincidence(irqs *[]addr.Interrupt) {
	if p.LY == p.LYC && p.statIRQEnabled(0x40) {
		*irqs = append(*irqs, addr.LCDStat)
	}
}

// Mode reports the PPU's current scanline phase.
func (p *PPU) Mode() Mode {
	return p.mode
}

// readSTAT composes the stored interrupt-enable bits with the live mode and
// coincidence bits.
func (p *PPU) readSTAT() byte {
	coincidence := uint8(0)
	if p.LY == p.LYC {
		coincidence = 1
	}
	return (p.statRaw &^ 0x07) | (coincidence << 2) | uint8(p.mode)
}

// writeSTAT stores bits 2-7 of value; bits 0-1 (mode) are read-only.
func (p *PPU) writeSTAT(value byte) {
	p.statRaw = (p.statRaw & 0x03) | (value &^ 0x03)
}

// ReadRegister reads one of the LCD control registers at 0xFF40-0xFF4B.
func (p *PPU) ReadRegister(address uint16) byte {
	switch address {
	case 0xFF40:
		return p.LCDC
	case 0xFF41:
		return p.readSTAT()
	case 0xFF42:
		return p.SCY
	case 0xFF43:
		return p.SCX
	case 0xFF44:
		return p.LY
	case 0xFF45:
		return p.LYC
	case 0xFF47:
		return p.BGP
	case 0xFF48:
		return p.OBP0
	case 0xFF49:
		return p.OBP1
	case 0xFF4A:
		return p.WY
	case 0xFF4B:
		return p.WX
	default:
		return 0xFF
	}
}

// WriteRegister writes one of the LCD control registers at 0xFF40-0xFF4B.
// LY (0xFF44) is read-only and writes to it are discarded.
func (p *PPU) WriteRegister(address uint16, value byte) {
	switch address {
	case 0xFF40:
		p.LCDC = value
	case 0xFF41:
		p.writeSTAT(value)
	case 0xFF42:
		p.SCY = value
	case 0xFF43:
		p.SCX = value
	case 0xFF45:
		p.LYC = value
	case 0xFF47:
		p.BGP = value
	case 0xFF48:
		p.OBP0 = value
	case 0xFF49:
		p.OBP1 = value
	case 0xFF4A:
		p.WY = value
	case 0xFF4B:
		p.WX = value
	}
}

// ReadVRAM returns a VRAM byte, or 0xFF while the PPU is in VRAMRead mode.
func (p *PPU) ReadVRAM(address uint16) byte {
	if p.mode == VRAMRead {
		return 0xFF
	}
	return p.vram[address-0x8000]
}

// WriteVRAM stores a VRAM byte (ignored while in VRAMRead mode) and updates
// the tile cache if the address falls in the pattern-table region.
func (p *PPU) WriteVRAM(address uint16, value byte) {
	if p.mode == VRAMRead {
		return
	}
	p.vram[address-0x8000] = value
	if address <= 0x97FF {
		updateTileCache(&p.tileCache, address, value)
	}
}

// ReadOAM returns an OAM byte, or 0xFF while in OAMRead or VRAMRead mode.
func (p *PPU) ReadOAM(address uint16) byte {
	if p.mode == OAMRead || p.mode == VRAMRead {
		return 0xFF
	}
	return p.oam[address-addr.OAMStart]
}

// WriteOAM stores an OAM byte (ignored during OAMRead/VRAMRead) and updates
// the sprite cache.
func (p *PPU) WriteOAM(address uint16, value byte) {
	if p.mode == OAMRead || p.mode == VRAMRead {
		return
	}
	offset := address - addr.OAMStart
	p.oam[offset] = value
	updateSpriteCache(&p.spriteCache, offset, value)
}

// WriteOAMRaw writes an OAM byte unconditionally (used by OAM DMA, which
// bypasses the mode-access gate since it is driven by the bus, not the CPU).
func (p *PPU) WriteOAMRaw(offset uint16, value byte) {
	p.oam[offset] = value
	updateSpriteCache(&p.spriteCache, offset, value)
}

func (p *PPU) renderScanline() {
	bgp := decodePalette(p.BGP)
	obp := [2][4]Shade{decodePalette(p.OBP0), decodePalette(p.OBP1)}

	p.renderBackground(bgp)
	p.renderSprites(obp)
}

func (p *PPU) renderBackground(bgp [4]Shade) {
	line := int(p.LY)
	if p.LCDC&0x01 == 0 {
		for x := 0; x < Width; x++ {
			p.bgIndex[x] = 0
			p.frame[line*Width+x] = White
		}
		return
	}

	mapBase := addr.TileMap0
	if p.LCDC&0x08 != 0 {
		mapBase = addr.TileMap1
	}

	tileRow := line / 8
	pixelRow := line % 8

	for x := 0; x < Width; x++ {
		tileCol := x / 8
		pixelCol := x % 8

		mapAddr := mapBase + uint16(tileRow*32+tileCol) - 0x8000
		rawIndex := p.vram[mapAddr]

		var cacheIdx int
		if p.LCDC&0x10 != 0 {
			cacheIdx = int(rawIndex)
		} else {
			cacheIdx = 256 + int(int8(rawIndex))
		}

		pixelIndex := p.tileCache[cacheIdx][pixelRow*8+pixelCol]
		p.bgIndex[x] = pixelIndex
		p.frame[line*Width+x] = bgp[pixelIndex]
	}
}

func (p *PPU) renderSprites(obp [2][4]Shade) {
	if p.LCDC&0x02 == 0 {
		return
	}

	line := int(p.LY)
	drawn := [Width]bool{}

	for i := range p.spriteCache {
		s := &p.spriteCache[i]
		spriteY := int(s.Y) - 16
		if line < spriteY || line >= spriteY+8 {
			continue
		}

		row := line - spriteY
		if s.FlipY {
			row = 7 - row
		}

		spriteX := int(s.X) - 8
		tile := &p.tileCache[s.TileIndex]

		for col := 0; col < 8; col++ {
			screenX := spriteX + col
			if screenX < 0 || screenX >= Width || drawn[screenX] {
				continue
			}

			srcCol := col
			if s.FlipX {
				srcCol = 7 - col
			}

			pixelIndex := tile[row*8+srcCol]
			if pixelIndex == 0 {
				continue
			}
			if s.Priority == Behind && p.bgIndex[screenX] != 0 {
				continue
			}

			p.frame[line*Width+screenX] = obp[s.Palette][pixelIndex]
			drawn[screenX] = true
		}
	}
}
