// Package ppu implements the NES picture processing unit: CHR access,
// nametable/attribute/palette RAM, OAM, the register file mapped into CPU
// space, scanline/dot timing with VBlank/NMI edge signaling, and the
// full-frame renderer.
package ppu

import (
	"github.com/golang/glog"

	"github.com/nescore/nesgo/internal/cartridge"
)

const (
	vramSize    = 2048
	paletteSize = 32
	oamSize     = 256

	statusVBlank         uint8 = 0x80
	statusSprite0Hit     uint8 = 0x40
	statusSpriteOverflow uint8 = 0x20

	ctrlNMIEnable      uint8 = 0x80
	ctrlSpriteHeight   uint8 = 0x20
	ctrlBGPatternTable uint8 = 0x10
	ctrlSpritePattern  uint8 = 0x08
	ctrlIncrement32    uint8 = 0x04

	FrameWidth  = 256
	FrameHeight = 240
)

// CHR is the subset of cartridge access the PPU needs: pattern-table
// reads and, for CHR-RAM carts, writes.
type CHR interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
}

// PPU holds all picture-processing state: registers, internal scroll
// latches, VRAM/palette/OAM, and scanline/dot timing.
type PPU struct {
	chr    CHR
	mirror cartridge.MirrorMode

	vram    [vramSize]uint8
	palette [paletteSize]uint8
	oam     [oamSize]uint8

	ctrl, mask, status uint8
	oamAddr            uint8
	readBuffer         uint8

	v, t uint16
	x    uint8
	w    bool

	scanline int
	dot      int

	nmiPending     bool
	spriteZeroHit  bool
	spriteOverflow bool

	frameBuf [FrameWidth * FrameHeight * 3]uint8
}

// New builds a PPU wired to chr for pattern-table access and mirror for
// nametable mirroring.
func New(chr CHR, mirror cartridge.MirrorMode) *PPU {
	p := &PPU{chr: chr, mirror: mirror}
	p.Reset()
	return p
}

// Reset returns timing to its power-up state and drops any pending NMI.
// Registers and memory are left as they are, so a host can restart
// scanline/dot tracking without reallocating VRAM.
func (p *PPU) Reset() {
	p.scanline = -1
	p.dot = 0
	p.nmiPending = false
}

func (p *PPU) incrementStep() uint16 {
	if p.ctrl&ctrlIncrement32 != 0 {
		return 32
	}
	return 1
}

// ReadRegister implements a CPU-space read of one of the eight PPU
// registers ($2000-$2007 via reg&7). PPUSTATUS and PPUDATA mutate state.
func (p *PPU) ReadRegister(reg uint8) uint8 {
	switch reg & 7 {
	case 2: // PPUSTATUS
		result := p.status
		p.status &^= statusVBlank
		p.w = false
		return result
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		addr := p.v & 0x3FFF
		var result uint8
		if addr < 0x3F00 {
			result = p.readBuffer
			p.readBuffer = p.readVRAM(addr)
		} else {
			result = p.readVRAM(addr)
			p.readBuffer = p.readVRAM(addr - 0x1000)
		}
		p.v += p.incrementStep()
		return result
	default:
		return 0
	}
}

// WriteRegister implements a CPU-space write of one of the eight PPU
// registers.
func (p *PPU) WriteRegister(reg uint8, value uint8) {
	if glog.V(1) {
		glog.Infof("ppu: write $%04X=%#02x (scanline=%d dot=%d)", 0x2000+uint16(reg&7), value, p.scanline, p.dot)
	}
	switch reg & 7 {
	case 0: // PPUCTRL
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | (uint16(value&0x03) << 10)
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.w {
			p.x = value & 0x07
			p.t = (p.t &^ 0x001F) | uint16(value>>3)
			p.w = true
		} else {
			p.t = (p.t &^ 0x73E0) | (uint16(value&0x07) << 12) | (uint16(value&0xF8) << 2)
			p.w = false
		}
	case 6: // PPUADDR
		if !p.w {
			p.t = (p.t &^ 0x7F00) | (uint16(value&0x3F) << 8)
			p.w = true
		} else {
			p.t = (p.t &^ 0x00FF) | uint16(value)
			p.v = p.t
			p.w = false
		}
	case 7: // PPUDATA
		p.writeVRAM(p.v&0x3FFF, value)
		p.v += p.incrementStep()
	}
}

// WriteOAMByte is used exclusively by the Bus's OAM DMA routine.
func (p *PPU) WriteOAMByte(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

// Tick advances timing by exactly one PPU dot.
func (p *PPU) Tick() {
	p.dot++
	if p.dot == 341 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.renderFrame()
		}
	}
	if p.scanline == 241 && p.dot == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.nmiPending = true
			if glog.V(1) {
				glog.Infof("ppu: VBlank entered, NMI armed")
			}
		}
	}
	if p.scanline == -1 && p.dot == 1 {
		p.status &^= statusVBlank
		p.status &^= statusSprite0Hit
		p.status &^= statusSpriteOverflow
		p.spriteZeroHit = false
		p.spriteOverflow = false
	}
}

// TakeNMI returns and atomically clears the pending NMI flag.
func (p *PPU) TakeNMI() bool {
	pending := p.nmiPending
	p.nmiPending = false
	return pending
}

// Frame copies the most recently rendered 256x240 RGB buffer into out,
// which must be at least FrameWidth*FrameHeight*3 bytes.
func (p *PPU) Frame(out []uint8) {
	copy(out, p.frameBuf[:])
}

// --- PPU address space ---

func (p *PPU) readVRAM(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return p.chr.ReadCHR(addr)
	case addr < 0x3F00:
		return p.vram[p.nametableIndex(addr)]
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) writeVRAM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		p.chr.WriteCHR(addr, value)
	case addr < 0x3F00:
		p.vram[p.nametableIndex(addr)] = value
	default:
		p.writePalette(addr, value)
	}
}

// nametableIndex maps a $2000-$3EFF PPU address into the 2 KiB physical
// VRAM array according to the cartridge's mirroring mode.
func (p *PPU) nametableIndex(addr uint16) uint16 {
	addr = (addr - 0x2000) % 0x1000 // fold $3000-$3EFF onto $2000-$2EFF
	table := addr / 0x400           // logical nametable 0..3
	offset := addr % 0x400

	var physical uint16
	switch p.mirror {
	case cartridge.MirrorVertical:
		physical = table % 2
	default: // MirrorHorizontal
		physical = table / 2
	}
	return physical*0x400 + offset
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.palette[paletteIndex(addr)] & 0x3F
}

func (p *PPU) writePalette(addr uint16, value uint8) {
	p.palette[paletteIndex(addr)] = value
}

func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	switch idx {
	case 0x10, 0x14, 0x18, 0x1C:
		idx -= 0x10
	}
	return idx
}
