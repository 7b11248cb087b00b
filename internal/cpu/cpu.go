// Package cpu implements a cycle-costed 6502 interpreter: a 256-entry
// table-driven decoder, twelve addressing modes including the
// indirect-JMP page-wrap bug, and exact flag semantics for the official
// opcode set. Unofficial opcodes decode as a 2-cycle implied NOP.
package cpu

import (
	"fmt"

	"github.com/golang/glog"
)

// Memory is the CPU's view of the Bus: every read and write is routed
// through it, so the CPU never touches PPU or cartridge memory directly.
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

const (
	vectorNMI   uint16 = 0xFFFA
	vectorReset uint16 = 0xFFFC
	vectorIRQ   uint16 = 0xFFFE

	stackBase uint16 = 0x0100

	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

// CPU holds the 6502 register file and transient per-instruction state.
type CPU struct {
	A, X, Y, SP uint8
	PC          uint16

	C, Z, I, D, B, U, V, N bool

	mem Memory

	nmiPending  bool
	extraCycles int
	brkHit      bool

	instructions [256]instruction
}

// New builds a CPU wired to mem. Call Reset before the first Step.
func New(mem Memory) *CPU {
	c := &CPU{mem: mem}
	c.initInstructions()
	return c
}

// Reset reinitializes registers from the reset vector: SP=0xFD, P=0x24
// (I and U set), PC loaded from $FFFC/$FFFD, and drains any pending NMI.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.C, c.Z, c.D, c.B, c.V, c.N = false, false, false, false, false, false
	c.I = true
	c.U = true
	c.nmiPending = false
	lo := uint16(c.mem.Read(vectorReset))
	hi := uint16(c.mem.Read(vectorReset + 1))
	c.PC = hi<<8 | lo
}

// BRKHit reports whether the instruction executed by the most recent
// Step was BRK. A host running a fixed instruction budget may use this
// as a stop condition; the CPU itself treats BRK as an ordinary
// software interrupt and does not raise an error for it.
func (c *CPU) BRKHit() bool {
	return c.brkHit
}

// RequestNMI sets the pending NMI flag, sampled at the start of the next
// Step. NMI is edge-triggered and non-maskable: the I flag never
// suppresses it.
func (c *CPU) RequestNMI() {
	c.nmiPending = true
}

// Step executes exactly one instruction, or services a pending NMI, and
// returns the number of CPU cycles consumed.
func (c *CPU) Step() int {
	if c.nmiPending {
		c.nmiPending = false
		return c.serviceNMI()
	}

	c.extraCycles = 0
	c.brkHit = false
	pc := c.PC
	opcode := c.mem.Read(c.PC)
	c.PC++

	entry := c.instructions[opcode]
	address, pageCrossed := c.operandAddress(entry.mode)
	mayAddCycle := entry.op(c, address, entry.mode)

	cycles := int(entry.cycles) + c.extraCycles
	if pageCrossed && mayAddCycle {
		cycles++
	}
	if glog.V(1) {
		glog.Infof("cpu: %04X: opcode=%02X %s cycles=%d", pc, opcode, c.State(), cycles)
	}
	return cycles
}

func (c *CPU) serviceNMI() int {
	c.pushWord(c.PC)
	c.pushStatus(false)
	c.I = true
	lo := uint16(c.mem.Read(vectorNMI))
	hi := uint16(c.mem.Read(vectorNMI + 1))
	c.PC = hi<<8 | lo
	return 7
}

// State formats the register file as "PC=hhhh A=hh X=hh Y=hh SP=hh P=hh"
// using uppercase, zero-padded hex.
func (c *CPU) State() string {
	return fmt.Sprintf("PC=%04X A=%02X X=%02X Y=%02X SP=%02X P=%02X",
		c.PC, c.A, c.X, c.Y, c.SP, c.statusByte())
}

func (c *CPU) statusByte() uint8 {
	var p uint8
	if c.C {
		p |= flagC
	}
	if c.Z {
		p |= flagZ
	}
	if c.I {
		p |= flagI
	}
	if c.D {
		p |= flagD
	}
	if c.B {
		p |= flagB
	}
	if c.U {
		p |= flagU
	}
	if c.V {
		p |= flagV
	}
	if c.N {
		p |= flagN
	}
	return p
}

func (c *CPU) setStatusByte(p uint8) {
	c.C = p&flagC != 0
	c.Z = p&flagZ != 0
	c.I = p&flagI != 0
	c.D = p&flagD != 0
	c.B = p&flagB != 0
	c.U = p&flagU != 0
	c.V = p&flagV != 0
	c.N = p&flagN != 0
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

// --- stack ---

func (c *CPU) push(v uint8) {
	c.mem.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pull() uint8 {
	c.SP++
	return c.mem.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) pullWord() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

// pushStatus pushes P with B set according to brk (true for BRK/PHP,
// false for a hardware-serviced interrupt) and U always set.
func (c *CPU) pushStatus(brk bool) {
	saved := c.B
	c.B = brk
	c.U = true
	c.push(c.statusByte())
	c.B = saved
}
