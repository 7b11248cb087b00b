package emulator

import "testing"

func buildROM(prgChunks, chrChunks uint8, prgFixups map[int]uint8) []uint8 {
	data := make([]uint8, 16+int(prgChunks)*16384+int(chrChunks)*8192)
	data[0], data[1], data[2], data[3] = 'N', 'E', 'S', 0x1A
	data[4] = prgChunks
	data[5] = chrChunks
	for offset, value := range prgFixups {
		data[16+offset] = value
	}
	return data
}

func TestLoadAndResetDeterminism(t *testing.T) {
	data := buildROM(1, 1, map[int]uint8{
		0x3FFC: 0x00, // reset vector low
		0x3FFD: 0x80, // reset vector high -> PC = 0x8000
	})
	e := New()
	if err := e.Load(data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.Reset()
	want := "PC=8000 A=00 X=00 Y=00 SP=FD P=24"
	if got := e.CPUState(); got != want {
		t.Errorf("CPUState() = %q, want %q", got, want)
	}
}

func TestStepAdvancesPPUByThreeTimesCPUCycles(t *testing.T) {
	data := buildROM(1, 1, map[int]uint8{
		0x0000: 0xEA, // NOP at $8000
		0x0001: 0xEA, // NOP at $8001
		0x3FFC: 0x00,
		0x3FFD: 0x80,
	})
	e := New()
	if err := e.Load(data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.Reset()

	// Each NOP costs 2 CPU cycles, with no DMA in play.
	n1 := e.Step()
	n2 := e.Step()
	if n1 != 2 || n2 != 2 {
		t.Fatalf("Step() cycles = %d, %d, want 2, 2 (NOP)", n1, n2)
	}

	// At 6 PPU dots per NOP, VBlank (scanline 241, dot 1, i.e. 242*341+1 =
	// 82523 dots after reset) is not reached by 13753 NOPs (82518 dots)
	// and is reached by the 13754th (82524 dots).
	nops := map[int]uint8{0x3FFC: 0x00, 0x3FFD: 0x80}
	for i := 0; i < 13754; i++ {
		nops[i] = 0xEA
	}
	e = New()
	if err := e.Load(buildROM(1, 1, nops)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.Reset()
	for i := 0; i < 13753; i++ {
		e.Step()
	}
	if e.ppu.ReadRegister(2)&0x80 != 0 {
		t.Fatal("VBlank set after 13753 NOPs (82518 dots), want clear")
	}
	e.Step()
	if e.ppu.ReadRegister(2)&0x80 == 0 {
		t.Fatal("VBlank clear after 13754 NOPs (82524 dots), want set")
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	data := buildROM(1, 1, nil)
	data[0] = 'X'
	e := New()
	if err := e.Load(data); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestPatternTableInvalidIndex(t *testing.T) {
	e := New()
	if err := e.Load(buildROM(1, 1, nil)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	out := make([]uint8, 128*128)
	if err := e.PatternTable(5, out); err == nil {
		t.Fatal("expected error for invalid pattern table index")
	}
}
