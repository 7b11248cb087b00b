package cartridge

import (
	"testing"

	"github.com/nescore/nesgo/internal/emuerr"
)

// buildImage assembles a minimal iNES image: header + prgChunks*16KiB PRG
// + chrChunks*8KiB CHR, all zero-filled except where overridden.
func buildImage(prgChunks, chrChunks, flags6, flags7 uint8) []uint8 {
	data := make([]uint8, headerSize+int(prgChunks)*prgChunkSize+int(chrChunks)*chrChunkSize)
	data[0], data[1], data[2], data[3] = 'N', 'E', 'S', 0x1A
	data[4] = prgChunks
	data[5] = chrChunks
	data[6] = flags6
	data[7] = flags7
	return data
}

func TestParseHeader(t *testing.T) {
	data := buildImage(2, 1, 0, 0)
	rom, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rom.PRG()) != 32768 {
		t.Errorf("PRG length = %d, want 32768", len(rom.PRG()))
	}
	if len(rom.CHR()) != 8192 {
		t.Errorf("CHR length = %d, want 8192", len(rom.CHR()))
	}
	if rom.Header.MapperID != 0 {
		t.Errorf("mapper id = %d, want 0", rom.Header.MapperID)
	}
	if rom.Mirror() != MirrorHorizontal {
		t.Errorf("mirror = %v, want horizontal", rom.Mirror())
	}
}

func TestParseInvalidMagic(t *testing.T) {
	data := buildImage(1, 1, 0, 0)
	data[0] = 'X'
	_, err := Parse(data)
	if !emuerr.Is(err, emuerr.InvalidCartridge) {
		t.Fatalf("err = %v, want InvalidCartridge", err)
	}
}

func TestParseTooShort(t *testing.T) {
	_, err := Parse([]uint8{'N', 'E', 'S', 0x1A})
	if !emuerr.Is(err, emuerr.InvalidCartridge) {
		t.Fatalf("err = %v, want InvalidCartridge", err)
	}
}

func TestParseTruncatedPRG(t *testing.T) {
	data := buildImage(2, 0, 0, 0)
	data = data[:headerSize+10]
	_, err := Parse(data)
	if !emuerr.Is(err, emuerr.InvalidCartridge) {
		t.Fatalf("err = %v, want InvalidCartridge", err)
	}
}

func TestParseTruncatedCHR(t *testing.T) {
	data := buildImage(1, 1, 0, 0)
	data = data[:headerSize+prgChunkSize+10]
	_, err := Parse(data)
	if !emuerr.Is(err, emuerr.InvalidCartridge) {
		t.Fatalf("err = %v, want InvalidCartridge", err)
	}
}

func TestParseZeroCHRAllocatesRAM(t *testing.T) {
	data := buildImage(1, 0, 0, 0)
	rom, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !rom.HasCHRRAM() {
		t.Fatal("expected CHR RAM fallback")
	}
	if len(rom.CHR()) != chrRAMSize {
		t.Errorf("CHR RAM size = %d, want %d", len(rom.CHR()), chrRAMSize)
	}
	rom.WriteCHR(0x10, 0x42)
	if got := rom.ReadCHR(0x10); got != 0x42 {
		t.Errorf("ReadCHR(0x10) = %#x, want 0x42", got)
	}
}

func TestParseTrainerSkipped(t *testing.T) {
	data := make([]uint8, headerSize+trainerSize+prgChunkSize)
	data[0], data[1], data[2], data[3] = 'N', 'E', 'S', 0x1A
	data[4] = 1
	data[6] = 0x04 // trainer present
	data[headerSize+trainerSize] = 0xAB
	rom, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rom.PRG()[0] != 0xAB {
		t.Errorf("PRG()[0] = %#x, want 0xAB", rom.PRG()[0])
	}
}

func TestParseUnsupportedMapperFallsBackWithWarning(t *testing.T) {
	data := buildImage(1, 1, 0x10, 0) // mapper nibble = 1
	rom, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !emuerr.Is(rom.MapperWarning(), emuerr.UnsupportedMapper) {
		t.Fatalf("MapperWarning() = %v, want UnsupportedMapper", rom.MapperWarning())
	}
	// still readable through the NROM fallback
	rom.WritePRG(0x6000, 7)
	if got := rom.ReadPRG(0x6000); got != 7 {
		t.Errorf("ReadPRG(0x6000) = %d, want 7", got)
	}
}

func TestVerticalMirroring(t *testing.T) {
	data := buildImage(1, 1, 0x01, 0)
	rom, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rom.Mirror() != MirrorVertical {
		t.Errorf("mirror = %v, want vertical", rom.Mirror())
	}
}
