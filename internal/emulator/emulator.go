// Package emulator owns the four core subsystems (ROM, PPU, Bus, CPU)
// and drives the master clock: each CPU instruction is followed by
// exactly three PPU ticks per CPU cycle consumed, then a pending NMI is
// observed and armed for the next step.
package emulator

import (
	"github.com/golang/glog"

	"github.com/nescore/nesgo/internal/apu"
	"github.com/nescore/nesgo/internal/bus"
	"github.com/nescore/nesgo/internal/cartridge"
	"github.com/nescore/nesgo/internal/cpu"
	"github.com/nescore/nesgo/internal/input"
	"github.com/nescore/nesgo/internal/ppu"
)

// Emulator is the single owner of ROM, PPU, Bus and CPU. Components hold
// only non-owning references to each other; a host talks exclusively to
// the Emulator.
type Emulator struct {
	rom *cartridge.ROM
	ppu *ppu.PPU
	apu *apu.APU
	in  *input.Ports
	bus *bus.Bus
	cpu *cpu.CPU

	cycleCount uint64
}

// New returns an Emulator with no cartridge loaded. Call Load before
// Step or Reset.
func New() *Emulator {
	return &Emulator{}
}

// Load parses data as an iNES image and (re)constructs PPU, Bus and CPU
// around it. It returns an *emuerr.Error of kind InvalidCartridge if the
// image is malformed; an unsupported mapper does not fail Load, but is
// logged and retrievable from the underlying ROM's MapperWarning.
func (e *Emulator) Load(data []uint8) error {
	rom, err := cartridge.Parse(data)
	if err != nil {
		return err
	}
	if warn := rom.MapperWarning(); warn != nil {
		glog.Warningf("emulator: %v", warn)
	}

	e.rom = rom
	e.apu = apu.New()
	e.in = input.New()
	e.ppu = ppu.New(rom, rom.Mirror())
	e.cycleCount = 0
	e.bus = bus.New(rom, e.ppu, e.apu, e.in, e.cycleIsOdd)
	e.cpu = cpu.New(e.bus)
	e.cpu.Reset()
	return nil
}

func (e *Emulator) cycleIsOdd() bool {
	return e.cycleCount%2 == 1
}

// Reset reinitializes the CPU from the reset vector and returns the PPU
// to its initial scanline/dot state.
func (e *Emulator) Reset() {
	e.cpu.Reset()
	e.ppu.Reset()
}

// Step executes exactly one CPU instruction (or services a pending NMI),
// advances the PPU by three ticks per CPU cycle consumed, observes any
// PPU-raised NMI for delivery on the next Step, and returns the total
// CPU cycles consumed including any OAM DMA stall.
func (e *Emulator) Step() int {
	n := e.cpu.Step()
	stall := e.bus.TakeDMAStall()
	total := n + stall
	for i := 0; i < 3*total; i++ {
		e.ppu.Tick()
	}
	if e.ppu.TakeNMI() {
		e.cpu.RequestNMI()
	}
	e.cycleCount += uint64(total)
	return total
}

// BRKHit reports whether the most recent Step executed a BRK
// instruction. A host running a fixed instruction budget can use this,
// together with emuerr.FatalCpu, as a stop condition.
func (e *Emulator) BRKHit() bool {
	return e.cpu.BRKHit()
}

// CPUState returns the CPU register dump described by the host-facing
// API: "PC=hhhh A=hh X=hh Y=hh SP=hh P=hh".
func (e *Emulator) CPUState() string {
	return e.cpu.State()
}

// Frame fills out with the most recently rendered 256x240x3 RGB buffer.
func (e *Emulator) Frame(out []uint8) {
	e.ppu.Frame(out)
}

// PatternTable fills out with a 128x128 2-bit buffer for pattern table
// index (0 or 1).
func (e *Emulator) PatternTable(index int, out []uint8) error {
	return e.ppu.RenderPatternTable(index, out)
}
