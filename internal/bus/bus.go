// Package bus implements the CPU's flat 16-bit address space: 2 KiB of
// mirrored RAM, PPU register routing, the APU/input stubs, cartridge PRG
// space, and OAM DMA. The Bus is the only entity allowed to mutate the
// PPU's OAM outside of its own register writes; the CPU never touches
// PPU or cartridge memory directly.
package bus

import (
	"github.com/golang/glog"

	"github.com/nescore/nesgo/internal/apu"
	"github.com/nescore/nesgo/internal/cartridge"
	"github.com/nescore/nesgo/internal/input"
)

const ramSize = 0x0800

// PPUPort is the subset of *ppu.PPU the Bus drives directly.
type PPUPort interface {
	ReadRegister(reg uint8) uint8
	WriteRegister(reg uint8, value uint8)
	WriteOAMByte(value uint8)
}

// Bus wires RAM, ROM, PPU, APU and input into the CPU's address space.
type Bus struct {
	ram [ramSize]uint8
	rom *cartridge.ROM
	ppu PPUPort
	apu *apu.APU
	in  *input.Ports

	dmaStallCycles int
	cpuCycleParity func() bool // reports whether the current CPU cycle count is odd
}

// New builds a Bus over rom, ppu, apu and in. cpuCycleParity lets the Bus
// compute the 513/514-cycle OAM DMA stall correctly (514 when DMA starts
// on an odd CPU cycle); the Emulator supplies it from its own cycle
// counter so the Bus stays free of a cycle count it doesn't otherwise
// need.
func New(rom *cartridge.ROM, p PPUPort, a *apu.APU, in *input.Ports, cpuCycleParity func() bool) *Bus {
	return &Bus{rom: rom, ppu: p, apu: a, in: in, cpuCycleParity: cpuCycleParity}
}

// Read implements a CPU memory read.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadRegister(uint8(addr & 0x07))
	case addr == 0x4015:
		return b.apu.ReadStatus()
	case addr < 0x4016:
		return 0 // APU register read, no side effect worth reporting
	case addr == 0x4016 || addr == 0x4017:
		return b.in.Read(addr)
	case addr < 0x4020:
		return 0
	default:
		return b.rom.ReadPRG(addr)
	}
}

// Write implements a CPU memory write.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.ppu.WriteRegister(uint8(addr&0x07), value)
	case addr == 0x4014:
		b.oamDMA(value)
	case addr == 0x4016:
		b.in.Write(addr, value)
	case addr < 0x4020:
		b.apu.WriteRegister(addr, value)
	case addr < 0x8000:
		b.rom.WritePRG(addr, value)
	default:
		glog.V(2).Infof("bus: write to PRG ROM at %#04x ignored", addr)
	}
}

// oamDMA copies 256 bytes from CPU page (value<<8) into PPU OAM starting
// at the PPU's current OAMADDR, and records the CPU stall this induces.
func (b *Bus) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAMByte(b.Read(base + uint16(i)))
	}
	b.dmaStallCycles = 513
	if b.cpuCycleParity != nil && b.cpuCycleParity() {
		b.dmaStallCycles = 514
	}
}

// TakeDMAStall returns and clears the CPU stall cycles owed from the
// most recent OAM DMA, if any.
func (b *Bus) TakeDMAStall() int {
	stall := b.dmaStallCycles
	b.dmaStallCycles = 0
	return stall
}
