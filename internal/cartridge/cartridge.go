// Package cartridge parses iNES cartridge images into ROM header metadata
// plus PRG/CHR byte slices, and dispatches PRG/CHR access through a Mapper.
package cartridge

import (
	"github.com/golang/glog"

	"github.com/nescore/nesgo/internal/emuerr"
)

const (
	headerSize     = 16
	trainerSize    = 512
	prgChunkSize   = 16384
	chrChunkSize   = 8192
	chrRAMSize     = 8192
	sramSize       = 0x2000
	magicByte0     = 'N'
	magicByte1     = 'E'
	magicByte2     = 'S'
	magicByte3     = 0x1A
)

// MirrorMode is the nametable mirroring mode declared by the cartridge.
// The header carries only the two modes spec'd by flags6 bit 0; four-screen
// wiring is a mapper-level extension outside NROM's scope.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
)

// Header holds the fixed fields parsed from the 16-byte iNES header.
type Header struct {
	PRGChunks  uint8
	CHRChunks  uint8
	Flags6     uint8
	Flags7     uint8
	MapperID   uint8
	Mirror     MirrorMode
	HasTrainer bool
}

// Mapper routes CPU/PPU address-space accesses to a cartridge's PRG/CHR
// storage. Only mapper 0 (NROM) ships with this core; the interface is
// shaped so future mappers can be added without touching the Bus.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
}

// ROM is an immutable-after-construction parsed cartridge image.
type ROM struct {
	Header Header

	prg []uint8
	chr []uint8

	hasCHRRAM     bool
	sram          [sramSize]uint8
	mapper        Mapper
	mapperWarning error
}

// Parse decodes an iNES image. It fails with an *emuerr.Error of kind
// InvalidCartridge when the magic is wrong or the PRG/CHR slices run past
// the end of data. A mapper id other than 0 does not fail parsing — the
// loader falls back to NROM and records a non-fatal UnsupportedMapper
// error retrievable via MapperWarning, so a host can choose to surface it
// without losing the ability to run mapper-0-compatible regions of the ROM.
func Parse(data []uint8) (*ROM, error) {
	if len(data) < headerSize {
		return nil, emuerr.New(emuerr.InvalidCartridge, "image shorter than iNES header")
	}
	if data[0] != magicByte0 || data[1] != magicByte1 || data[2] != magicByte2 || data[3] != magicByte3 {
		return nil, emuerr.New(emuerr.InvalidCartridge, "bad iNES magic")
	}

	flags6 := data[6]
	flags7 := data[7]
	hdr := Header{
		PRGChunks:  data[4],
		CHRChunks:  data[5],
		Flags6:     flags6,
		Flags7:     flags7,
		MapperID:   (flags7 & 0xF0) | (flags6 >> 4),
		HasTrainer: flags6&0x04 != 0,
	}
	if flags6&0x01 != 0 {
		hdr.Mirror = MirrorVertical
	} else {
		hdr.Mirror = MirrorHorizontal
	}

	offset := headerSize
	if hdr.HasTrainer {
		offset += trainerSize
	}

	prgSize := int(hdr.PRGChunks) * prgChunkSize
	if offset+prgSize > len(data) {
		return nil, emuerr.New(emuerr.InvalidCartridge, "PRG ROM extends past end of image")
	}
	prg := make([]uint8, prgSize)
	copy(prg, data[offset:offset+prgSize])
	offset += prgSize

	rom := &ROM{Header: hdr, prg: prg}

	chrSize := int(hdr.CHRChunks) * chrChunkSize
	if chrSize > 0 {
		if offset+chrSize > len(data) {
			return nil, emuerr.New(emuerr.InvalidCartridge, "CHR ROM extends past end of image")
		}
		rom.chr = make([]uint8, chrSize)
		copy(rom.chr, data[offset:offset+chrSize])
	} else {
		rom.chr = make([]uint8, chrRAMSize)
		rom.hasCHRRAM = true
	}

	if hdr.MapperID != 0 {
		rom.mapperWarning = emuerr.New(emuerr.UnsupportedMapper,
			"mapper id not supported, falling back to NROM")
		glog.Warningf("cartridge: unsupported mapper id %d, falling back to mapper 0", hdr.MapperID)
	}
	rom.mapper = NewMapper000(rom)

	return rom, nil
}

// MapperWarning returns a non-nil *emuerr.Error of kind UnsupportedMapper
// when the cartridge declared a mapper id other than 0. It is nil for
// ordinary NROM images.
func (r *ROM) MapperWarning() error { return r.mapperWarning }

// PRG returns the immutable program ROM bytes.
func (r *ROM) PRG() []uint8 { return r.prg }

// CHR returns the character memory bytes (ROM or the zero-filled RAM
// fallback allocated when the header declares zero CHR chunks).
func (r *ROM) CHR() []uint8 { return r.chr }

// HasCHRRAM reports whether CHR() is writable RAM rather than ROM.
func (r *ROM) HasCHRRAM() bool { return r.hasCHRRAM }

// ReadPRG reads through the cartridge's mapper.
func (r *ROM) ReadPRG(addr uint16) uint8 { return r.mapper.ReadPRG(addr) }

// WritePRG writes through the cartridge's mapper.
func (r *ROM) WritePRG(addr uint16, value uint8) { r.mapper.WritePRG(addr, value) }

// ReadCHR reads through the cartridge's mapper.
func (r *ROM) ReadCHR(addr uint16) uint8 { return r.mapper.ReadCHR(addr) }

// WriteCHR writes through the cartridge's mapper.
func (r *ROM) WriteCHR(addr uint16, value uint8) { r.mapper.WriteCHR(addr, value) }

// Mirror returns the nametable mirroring mode declared by the header.
func (r *ROM) Mirror() MirrorMode { return r.Header.Mirror }
