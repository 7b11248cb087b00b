// Package display adapts an Emulator's rendered frame to an on-screen
// window via Ebitengine. It is a presentation-layer concern only: no
// core package (emulator, ppu, cpu, bus, cartridge) imports it, and it
// imports nothing from cmd.
package display

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	nesWidth  = 256
	nesHeight = 240
)

// Source is the subset of Emulator that display needs: one step of
// emulation and the resulting frame buffer.
type Source interface {
	Step() int
	Frame(out []uint8)
}

// Window runs an Ebitengine game loop that steps src once per Update
// and blits its frame once per Draw.
type Window struct {
	src        Source
	scale      int
	frame      [nesWidth * nesHeight * 3]uint8
	frameImage *ebiten.Image
}

// NewWindow builds a Window around src, scaling the 256x240 NES frame
// by scale for on-screen display.
func NewWindow(src Source, scale int) *Window {
	return &Window{
		src:        src,
		scale:      scale,
		frameImage: ebiten.NewImage(nesWidth, nesHeight),
	}
}

// Run opens a window titled title and blocks until it is closed.
func (w *Window) Run(title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(nesWidth*w.scale, nesHeight*w.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("display: run game: %w", err)
	}
	return nil
}

var _ ebiten.Game = (*Window)(nil)

// Update runs one CPU instruction per Ebitengine tick.
func (w *Window) Update() error {
	w.src.Step()
	return nil
}

// Draw copies the emulator's current RGB buffer onto screen.
func (w *Window) Draw(screen *ebiten.Image) {
	w.src.Frame(w.frame[:])
	screen.Fill(color.RGBA{A: 255})
	for y := 0; y < nesHeight; y++ {
		for x := 0; x < nesWidth; x++ {
			i := (y*nesWidth + x) * 3
			w.frameImage.Set(x, y, color.RGBA{
				R: w.frame[i],
				G: w.frame[i+1],
				B: w.frame[i+2],
				A: 255,
			})
		}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.frameImage, op)
}

// Layout keeps the internal resolution fixed at the NES frame size
// times the configured scale.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return nesWidth * w.scale, nesHeight * w.scale
}
