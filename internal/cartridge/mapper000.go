package cartridge

// Mapper000 implements NROM. It has no bank switching: PRG is 16 KiB
// (mirrored across the full $8000-$FFFF window) or 32 KiB (mapped
// linearly), CHR is 8 KiB of ROM or RAM, and $6000-$7FFF backs 8 KiB of
// cartridge SRAM.
type Mapper000 struct {
	rom      *ROM
	prgBanks int
}

// NewMapper000 builds the NROM mapper for rom.
func NewMapper000(rom *ROM) *Mapper000 {
	banks := len(rom.prg) / prgChunkSize
	if banks == 0 {
		banks = 1
	}
	return &Mapper000{rom: rom, prgBanks: banks}
}

// ReadPRG implements Mapper.
func (m *Mapper000) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		if len(m.rom.prg) == 0 {
			return 0
		}
		offset := addr - 0x8000
		if m.prgBanks == 1 {
			offset &= 0x3FFF
		}
		if int(offset) < len(m.rom.prg) {
			return m.rom.prg[offset]
		}
		return 0
	case addr >= 0x6000 && addr < 0x8000:
		return m.rom.sram[addr-0x6000]
	default:
		return 0
	}
}

// WritePRG implements Mapper. NROM has no writable registers; only the
// SRAM window accepts writes.
func (m *Mapper000) WritePRG(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.rom.sram[addr-0x6000] = value
	}
}

// ReadCHR implements Mapper, mirroring modulo the CHR size when it is
// smaller than the full 8 KiB pattern-table window.
func (m *Mapper000) ReadCHR(addr uint16) uint8 {
	if addr >= 0x2000 || len(m.rom.chr) == 0 {
		return 0
	}
	if len(m.rom.chr) < 0x2000 {
		return m.rom.chr[int(addr)%len(m.rom.chr)]
	}
	return m.rom.chr[addr]
}

// WriteCHR implements Mapper. Writes are only honored when the cartridge
// supplied zero CHR chunks and this mapper allocated CHR RAM.
func (m *Mapper000) WriteCHR(addr uint16, value uint8) {
	if !m.rom.hasCHRRAM || addr >= 0x2000 || len(m.rom.chr) == 0 {
		return
	}
	if len(m.rom.chr) < 0x2000 {
		m.rom.chr[int(addr)%len(m.rom.chr)] = value
	} else {
		m.rom.chr[addr] = value
	}
}
