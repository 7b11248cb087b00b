package ppu

import (
	"testing"

	"github.com/nescore/nesgo/internal/cartridge"
)

type stubCHR struct {
	data [0x2000]uint8
}

func (s *stubCHR) ReadCHR(addr uint16) uint8         { return s.data[addr&0x1FFF] }
func (s *stubCHR) WriteCHR(addr uint16, value uint8) { s.data[addr&0x1FFF] = value }

func newTestPPU() (*PPU, *stubCHR) {
	chr := &stubCHR{}
	p := New(chr, cartridge.MirrorHorizontal)
	return p, chr
}

func writeAddr(p *PPU, addr uint16) {
	p.WriteRegister(6, uint8(addr>>8))
	p.WriteRegister(6, uint8(addr))
}

func TestStatusReadClearsVBlankAndToggle(t *testing.T) {
	p, _ := newTestPPU()
	p.status |= statusVBlank
	p.w = true

	got := p.ReadRegister(2)
	if got&statusVBlank == 0 {
		t.Fatal("expected returned status to have VBlank set")
	}
	if p.status&statusVBlank != 0 {
		t.Error("VBlank bit not cleared after read")
	}
	if p.w {
		t.Error("write toggle not cleared after PPUSTATUS read")
	}

	// Subsequent PPUSCROLL write should target the X latch (first write).
	p.WriteRegister(5, 0x11)
	if !p.w {
		t.Error("expected write toggle set after first PPUSCROLL write")
	}
}

func TestPaletteMirroring(t *testing.T) {
	p, _ := newTestPPU()
	writeAddr(p, 0x3F10)
	p.WriteRegister(7, 0x22)
	writeAddr(p, 0x3F00)
	if got := p.ReadRegister(7); got != 0x22 {
		// PPUDATA read of palette range returns immediately (no buffer delay)
		t.Errorf("$3F00 = %#02x, want 0x22 (mirrored from $3F10)", got)
	}

	writeAddr(p, 0x3F04)
	p.WriteRegister(7, 0x33)
	writeAddr(p, 0x3F14)
	if got := p.ReadRegister(7); got != 0x33 {
		t.Errorf("$3F14 = %#02x, want 0x33 (mirrored from $3F04)", got)
	}
}

func TestNMIEdgeDeliveredOnceOnVBlankEntry(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(0, ctrlNMIEnable)

	// Advance to scanline 241, dot 1: 242 full scanlines from -1, plus 1 dot.
	for i := 0; i < 242*341+1; i++ {
		p.Tick()
	}
	if !p.TakeNMI() {
		t.Fatal("expected NMI pending at VBlank entry")
	}
	if p.TakeNMI() {
		t.Fatal("NMI must not latch twice for one VBlank")
	}
}

func TestNMISuppressedWhenDisabledBeforeVBlank(t *testing.T) {
	p, _ := newTestPPU()
	// NMI enabled, then disabled again before VBlank is reached.
	p.WriteRegister(0, ctrlNMIEnable)
	p.WriteRegister(0, 0)
	for i := 0; i < 242*341+1; i++ {
		p.Tick()
	}
	if p.TakeNMI() {
		t.Fatal("NMI must not fire when disabled")
	}
}

func TestVerticalMirroringNametableIndex(t *testing.T) {
	p, _ := newTestPPU()
	p.mirror = cartridge.MirrorVertical
	writeAddr(p, 0x2000)
	p.WriteRegister(7, 0xAB)
	got := p.readVRAM(0x2800) // logical table 2, vertical -> physical 0
	if got != 0xAB {
		t.Errorf("vertical mirror $2800 = %#02x, want 0xAB", got)
	}
}

func TestHorizontalMirroringNametableIndex(t *testing.T) {
	p, _ := newTestPPU()
	writeAddr(p, 0x2000)
	p.WriteRegister(7, 0xCD)
	got := p.readVRAM(0x2400) // logical table 1, horizontal -> physical 0
	if got != 0xCD {
		t.Errorf("horizontal mirror $2400 = %#02x, want 0xCD", got)
	}
}

func TestFramePixelFromUniversalBackground(t *testing.T) {
	p, _ := newTestPPU() // CHR is all-zero stub -> every tile is pixel 0
	writeAddr(p, 0x3F00)
	p.WriteRegister(7, 0x0F)

	// Drive one full frame's worth of dots (262 scanlines * 341 dots).
	for i := 0; i < 262*341; i++ {
		p.Tick()
	}

	out := make([]uint8, FrameWidth*FrameHeight*3)
	p.Frame(out)
	want := NESPalette[0x0F]
	for i := 0; i < FrameWidth*FrameHeight; i++ {
		r, g, b := out[i*3], out[i*3+1], out[i*3+2]
		if r != want[0] || g != want[1] || b != want[2] {
			t.Fatalf("pixel %d = (%d,%d,%d), want (%d,%d,%d)", i, r, g, b, want[0], want[1], want[2])
		}
	}
}

func TestRenderPatternTableInvalidIndex(t *testing.T) {
	p, _ := newTestPPU()
	out := make([]uint8, patternWidth*patternWidth)
	if err := p.RenderPatternTable(2, out); err == nil {
		t.Fatal("expected error for pattern table index 2")
	}
}

// moveAllSpritesOffscreen parks every OAM entry at y=0xFF so a test can
// place only the sprites it cares about on a visible scanline.
func moveAllSpritesOffscreen(p *PPU) {
	for i := 0; i < 64; i++ {
		p.oam[i*4] = 0xFF
	}
}

func runFullFrame(p *PPU) {
	for i := 0; i < 262*341; i++ {
		p.Tick()
	}
}

func TestSpriteZeroHitOnOpaqueOverlap(t *testing.T) {
	p, chr := newTestPPU()
	moveAllSpritesOffscreen(p)

	// Tile 0, row 0: both bitplanes all-ones -> pixel value 3 (opaque) for
	// every column in that row. The default nametable (all zero) already
	// points every background tile at tile 0, and sprite 0 below reuses
	// the same pattern table, so both background and sprite are opaque
	// at (0,0).
	chr.data[0] = 0xFF
	chr.data[8] = 0xFF

	p.oam[0] = 0    // sprite 0 Y
	p.oam[1] = 0x00 // tile 0
	p.oam[2] = 0x00 // attr: no flip, in front
	p.oam[3] = 0    // X

	runFullFrame(p)

	if !p.spriteZeroHit {
		t.Error("spriteZeroHit = false, want true")
	}
	if p.status&statusSprite0Hit == 0 {
		t.Error("PPUSTATUS sprite-0-hit bit not set")
	}
}

func TestSpriteZeroHitRequiresOpaqueBackground(t *testing.T) {
	p, chr := newTestPPU()
	moveAllSpritesOffscreen(p)

	// Sprite 0 is opaque, but the background tile (still all-zero CHR) is
	// transparent everywhere, so no hit should be recorded.
	chr.data[0x10] = 0xFF // tile 1, row 0, plane 0
	chr.data[0x18] = 0xFF // tile 1, row 0, plane 1

	p.oam[0] = 0    // Y
	p.oam[1] = 0x01 // tile 1 (opaque), background nametable still points at tile 0
	p.oam[2] = 0x00
	p.oam[3] = 0

	runFullFrame(p)

	if p.spriteZeroHit {
		t.Error("spriteZeroHit = true, want false (background pixel is transparent)")
	}
	if p.status&statusSprite0Hit != 0 {
		t.Error("PPUSTATUS sprite-0-hit bit set, want clear")
	}
}

func TestSpriteOverflowOnNinthSpritePerScanline(t *testing.T) {
	p, _ := newTestPPU()
	moveAllSpritesOffscreen(p)

	// Nine sprites sharing scanline 0 exceeds the 8-sprite hardware cap.
	for i := 0; i < 9; i++ {
		p.oam[i*4] = 0              // Y
		p.oam[i*4+1] = 0            // tile
		p.oam[i*4+2] = 0            // attr
		p.oam[i*4+3] = uint8(i * 8) // spread out on X so they don't overlap
	}

	runFullFrame(p)

	if !p.spriteOverflow {
		t.Error("spriteOverflow = false, want true")
	}
	if p.status&statusSpriteOverflow == 0 {
		t.Error("PPUSTATUS sprite-overflow bit not set")
	}
}

func TestSpriteOverflowNotSetAtEightOrFewer(t *testing.T) {
	p, _ := newTestPPU()
	moveAllSpritesOffscreen(p)

	for i := 0; i < 8; i++ {
		p.oam[i*4] = 0
		p.oam[i*4+1] = 0
		p.oam[i*4+2] = 0
		p.oam[i*4+3] = uint8(i * 8)
	}

	runFullFrame(p)

	if p.spriteOverflow {
		t.Error("spriteOverflow = true, want false (exactly 8 sprites fit)")
	}
}

func TestSprite8x16VerticalFlipSelectsBottomTileTopRow(t *testing.T) {
	p, chr := newTestPPU()
	moveAllSpritesOffscreen(p)
	p.ctrl = ctrlSpriteHeight // 8x16 sprites

	// Universal background stays transparent (pixel 0) everywhere, so any
	// non-background pixel at (0,0) must have come from the sprite.
	p.palette[0] = 0x0F        // universal background color
	p.palette[16+0*4+1] = 0x05 // sprite palette 0, pixel 1

	// Sprite uses tile pair (0,1); bit0 of the OAM tile byte selects the
	// CHR bank in 8x16 mode and is cleared here (bank 0). With flipV set,
	// row 0 of the sprite (its very top row) must read from the *bottom*
	// half of the pair, i.e. tile 1, pattern row 7 - not tile 0, row 0.
	chr.data[1*16+7] = 0x80  // tile 1, row 7, plane 0: leftmost column set
	chr.data[1*16+15] = 0x00 // tile 1, row 7, plane 1
	chr.data[0*16+0] = 0x00  // tile 0, row 0: left deliberately transparent

	p.oam[0] = 0        // Y
	p.oam[1] = 0x00     // tile pair 0/1, bank 0
	p.oam[2] = oamFlipV // vertical flip, palette 0
	p.oam[3] = 0        // X

	runFullFrame(p)

	out := make([]uint8, FrameWidth*FrameHeight*3)
	p.Frame(out)

	want := NESPalette[0x05]
	if out[0] != want[0] || out[1] != want[1] || out[2] != want[2] {
		t.Errorf("pixel (0,0) = (%d,%d,%d), want sprite color (%d,%d,%d) from flipped bottom tile",
			out[0], out[1], out[2], want[0], want[1], want[2])
	}
}

func TestRenderPatternTableShape(t *testing.T) {
	p, chr := newTestPPU()
	// Tile 0: solid color 3 (both bitplanes all-ones) for row 0.
	chr.data[0] = 0xFF
	chr.data[8] = 0xFF
	out := make([]uint8, patternWidth*patternWidth)
	if err := p.RenderPatternTable(0, out); err != nil {
		t.Fatalf("RenderPatternTable: %v", err)
	}
	for x := 0; x < 8; x++ {
		if out[x] != 3 {
			t.Errorf("out[%d] = %d, want 3", x, out[x])
		}
	}
}
