package ppu

import "github.com/nescore/nesgo/internal/emuerr"

const (
	oamFlipH     uint8 = 0x40
	oamFlipV     uint8 = 0x80
	oamPriority  uint8 = 0x20
	maxSprites         = 8
	patternWidth       = 128
)

// renderFrame produces a full 256x240 frame into frameBuf. It is invoked
// once per frame, when Tick wraps the scanline counter back to -1. Scroll
// is read once from the t/x latches rather than re-sampled per scanline;
// §4.4.4 treats the end-of-frame render as an acceptable simplification
// for this scope. PPUSCROLL/PPUCTRL writes made during the frame are
// therefore not reflected per scanline: only the latch values at the
// moment of the render are used.
func (p *PPU) renderFrame() {
	ntBase := 0x2000 + int((p.t>>10)&0x03)*0x400
	scrollX := int((p.t&0x1F)<<3) | int(p.x)
	scrollY := int((p.t>>5)&0x1F)<<3 | int((p.t>>12)&0x07)
	bgPatternBase := 0
	if p.ctrl&ctrlBGPatternTable != 0 {
		bgPatternBase = 0x1000
	}
	spritePatternBase := 0
	if p.ctrl&ctrlSpritePattern != 0 {
		spritePatternBase = 0x1000
	}
	spriteHeight := 8
	if p.ctrl&ctrlSpriteHeight != 0 {
		spriteHeight = 16
	}

	var bgPixel [FrameWidth]uint8

	for py := 0; py < FrameHeight; py++ {
		y := scrollY + py
		ty := (y / 8) % 30
		fineY := y % 8

		for px := 0; px < FrameWidth; px++ {
			x := scrollX + px
			tx := (x / 8) % 32
			fineX := x % 8

			tileID := p.readVRAM(uint16(ntBase + ty*32 + tx))
			attrByte := p.readVRAM(uint16(ntBase + 0x3C0 + (ty/4)*8 + (tx / 4)))
			shift := uint(0)
			if ty&2 != 0 {
				shift += 4
			}
			if tx&2 != 0 {
				shift += 2
			}
			palSel := (attrByte >> shift) & 0x03

			plane0 := p.readVRAM(uint16(bgPatternBase + int(tileID)*16 + fineY))
			plane1 := p.readVRAM(uint16(bgPatternBase + int(tileID)*16 + fineY + 8))
			bit := 7 - fineX
			pixel := ((plane0 >> uint(bit)) & 1) | (((plane1 >> uint(bit)) & 1) << 1)

			bgPixel[px] = pixel
			var paletteIdx uint8
			if pixel == 0 {
				paletteIdx = p.palette[0] & 0x3F
			} else {
				paletteIdx = p.palette[uint16(palSel)*4+uint16(pixel)] & 0x3F
			}
			p.setFramePixel(px, py, paletteIdx)
		}

		p.renderSpriteRow(py, spritePatternBase, spriteHeight, bgPixel[:])
	}
}

type spriteMatch struct {
	index int
	y     uint8
	tile  uint8
	attr  uint8
	x     uint8
}

func (p *PPU) renderSpriteRow(py, patternBase, height int, bgPixel []uint8) {
	var matches []spriteMatch
	overflowed := false
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		if py >= y && py < y+height {
			if len(matches) < maxSprites {
				matches = append(matches, spriteMatch{
					index: i,
					y:     p.oam[i*4],
					tile:  p.oam[i*4+1],
					attr:  p.oam[i*4+2],
					x:     p.oam[i*4+3],
				})
			} else {
				overflowed = true
			}
		}
	}
	if overflowed {
		p.spriteOverflow = true
		p.status |= statusSpriteOverflow
	}

	for px := 0; px < FrameWidth; px++ {
		for _, m := range matches {
			sx := int(m.x)
			if px < sx || px >= sx+8 {
				continue
			}
			row := py - int(m.y)
			col := px - sx
			if m.attr&oamFlipV != 0 {
				row = height - 1 - row
			}
			if m.attr&oamFlipH != 0 {
				col = 7 - col
			}

			tile := int(m.tile)
			base := patternBase
			fineRow := row
			if height == 16 {
				base = int(m.tile&1) * 0x1000
				tile = int(m.tile &^ 1)
				if fineRow >= 8 {
					tile++
					fineRow -= 8
				}
			}

			plane0 := p.readVRAM(uint16(base + tile*16 + fineRow))
			plane1 := p.readVRAM(uint16(base + tile*16 + fineRow + 8))
			bit := 7 - col
			pixel := ((plane0 >> uint(bit)) & 1) | (((plane1 >> uint(bit)) & 1) << 1)
			if pixel == 0 {
				continue
			}

			if m.index == 0 && bgPixel[px] != 0 {
				p.spriteZeroHit = true
				p.status |= statusSprite0Hit
			}

			if m.attr&oamPriority != 0 && bgPixel[px] != 0 {
				break // sprite is behind a non-zero background pixel
			}

			palSel := m.attr & 0x03
			paletteIdx := p.palette[16+uint16(palSel)*4+uint16(pixel)] & 0x3F
			p.setFramePixel(px, py, paletteIdx)
			break
		}
	}
}

func (p *PPU) setFramePixel(x, y int, paletteIdx uint8) {
	rgb := NESPalette[paletteIdx&0x3F]
	offset := (y*FrameWidth + x) * 3
	p.frameBuf[offset+0] = rgb[0]
	p.frameBuf[offset+1] = rgb[1]
	p.frameBuf[offset+2] = rgb[2]
}

// RenderPatternTable fills out with a 128x128 buffer of 2-bit tile
// values (0..3) drawn from pattern table index (0 or 1), tiles arranged
// in a 16x16 grid. It returns an *emuerr.Error of kind InvalidArgument
// for any other index.
func (p *PPU) RenderPatternTable(index int, out []uint8) error {
	if index != 0 && index != 1 {
		return emuerr.New(emuerr.InvalidArgument, "pattern table index must be 0 or 1")
	}
	base := index * 0x1000
	for tileY := 0; tileY < 16; tileY++ {
		for tileX := 0; tileX < 16; tileX++ {
			tile := tileY*16 + tileX
			for row := 0; row < 8; row++ {
				plane0 := p.readVRAM(uint16(base + tile*16 + row))
				plane1 := p.readVRAM(uint16(base + tile*16 + row + 8))
				for col := 0; col < 8; col++ {
					bit := 7 - col
					pixel := ((plane0 >> uint(bit)) & 1) | (((plane1 >> uint(bit)) & 1) << 1)
					px := tileX*8 + col
					py := tileY*8 + row
					out[py*patternWidth+px] = pixel
				}
			}
		}
	}
	return nil
}
