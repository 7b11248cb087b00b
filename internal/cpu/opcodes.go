package cpu

// operation implements one instruction's effect and reports whether it
// is eligible for the extra page-crossing cycle (true for read-type
// instructions in indexed/indirect-indexed modes and for a taken branch;
// false for stores, read-modify-write instructions, and other control
// flow).
type operation func(c *CPU, addr uint16, mode AddressingMode) bool

type instruction struct {
	name   string
	mode   AddressingMode
	cycles uint8
	op     operation
}

// initInstructions builds the 256-entry decode table. Every slot not
// explicitly assigned an official opcode decodes as a 2-cycle implied
// NOP, which is how this core represents the unofficial opcode space.
func (c *CPU) initInstructions() {
	for i := range c.instructions {
		c.instructions[i] = instruction{name: "NOP", mode: Implied, cycles: 2, op: opNOP}
	}

	set := func(opcode uint8, name string, mode AddressingMode, cycles uint8, op operation) {
		c.instructions[opcode] = instruction{name: name, mode: mode, cycles: cycles, op: op}
	}

	set(0x00, "BRK", Implied, 7, opBRK)
	set(0x01, "ORA", IndexedIndirect, 6, opORA)
	set(0x05, "ORA", ZeroPage, 3, opORA)
	set(0x06, "ASL", ZeroPage, 5, opASL)
	set(0x08, "PHP", Implied, 3, opPHP)
	set(0x09, "ORA", Immediate, 2, opORA)
	set(0x0A, "ASL", Accumulator, 2, opASL)
	set(0x0D, "ORA", Absolute, 4, opORA)
	set(0x0E, "ASL", Absolute, 6, opASL)
	set(0x10, "BPL", Relative, 2, opBPL)
	set(0x11, "ORA", IndirectIndexed, 5, opORA)
	set(0x15, "ORA", ZeroPageX, 4, opORA)
	set(0x16, "ASL", ZeroPageX, 6, opASL)
	set(0x18, "CLC", Implied, 2, opCLC)
	set(0x19, "ORA", AbsoluteY, 4, opORA)
	set(0x1D, "ORA", AbsoluteX, 4, opORA)
	set(0x1E, "ASL", AbsoluteX, 7, opASL)

	set(0x20, "JSR", Absolute, 6, opJSR)
	set(0x21, "AND", IndexedIndirect, 6, opAND)
	set(0x24, "BIT", ZeroPage, 3, opBIT)
	set(0x25, "AND", ZeroPage, 3, opAND)
	set(0x26, "ROL", ZeroPage, 5, opROL)
	set(0x28, "PLP", Implied, 4, opPLP)
	set(0x29, "AND", Immediate, 2, opAND)
	set(0x2A, "ROL", Accumulator, 2, opROL)
	set(0x2C, "BIT", Absolute, 4, opBIT)
	set(0x2D, "AND", Absolute, 4, opAND)
	set(0x2E, "ROL", Absolute, 6, opROL)
	set(0x30, "BMI", Relative, 2, opBMI)
	set(0x31, "AND", IndirectIndexed, 5, opAND)
	set(0x35, "AND", ZeroPageX, 4, opAND)
	set(0x36, "ROL", ZeroPageX, 6, opROL)
	set(0x38, "SEC", Implied, 2, opSEC)
	set(0x39, "AND", AbsoluteY, 4, opAND)
	set(0x3D, "AND", AbsoluteX, 4, opAND)
	set(0x3E, "ROL", AbsoluteX, 7, opROL)

	set(0x40, "RTI", Implied, 6, opRTI)
	set(0x41, "EOR", IndexedIndirect, 6, opEOR)
	set(0x45, "EOR", ZeroPage, 3, opEOR)
	set(0x46, "LSR", ZeroPage, 5, opLSR)
	set(0x48, "PHA", Implied, 3, opPHA)
	set(0x49, "EOR", Immediate, 2, opEOR)
	set(0x4A, "LSR", Accumulator, 2, opLSR)
	set(0x4C, "JMP", Absolute, 3, opJMP)
	set(0x4D, "EOR", Absolute, 4, opEOR)
	set(0x4E, "LSR", Absolute, 6, opLSR)
	set(0x50, "BVC", Relative, 2, opBVC)
	set(0x51, "EOR", IndirectIndexed, 5, opEOR)
	set(0x55, "EOR", ZeroPageX, 4, opEOR)
	set(0x56, "LSR", ZeroPageX, 6, opLSR)
	set(0x58, "CLI", Implied, 2, opCLI)
	set(0x59, "EOR", AbsoluteY, 4, opEOR)
	set(0x5D, "EOR", AbsoluteX, 4, opEOR)
	set(0x5E, "LSR", AbsoluteX, 7, opLSR)

	set(0x60, "RTS", Implied, 6, opRTS)
	set(0x61, "ADC", IndexedIndirect, 6, opADC)
	set(0x65, "ADC", ZeroPage, 3, opADC)
	set(0x66, "ROR", ZeroPage, 5, opROR)
	set(0x68, "PLA", Implied, 4, opPLA)
	set(0x69, "ADC", Immediate, 2, opADC)
	set(0x6A, "ROR", Accumulator, 2, opROR)
	set(0x6C, "JMP", Indirect, 5, opJMP)
	set(0x6D, "ADC", Absolute, 4, opADC)
	set(0x6E, "ROR", Absolute, 6, opROR)
	set(0x70, "BVS", Relative, 2, opBVS)
	set(0x71, "ADC", IndirectIndexed, 5, opADC)
	set(0x75, "ADC", ZeroPageX, 4, opADC)
	set(0x76, "ROR", ZeroPageX, 6, opROR)
	set(0x78, "SEI", Implied, 2, opSEI)
	set(0x79, "ADC", AbsoluteY, 4, opADC)
	set(0x7D, "ADC", AbsoluteX, 4, opADC)
	set(0x7E, "ROR", AbsoluteX, 7, opROR)

	set(0x81, "STA", IndexedIndirect, 6, opSTA)
	set(0x84, "STY", ZeroPage, 3, opSTY)
	set(0x85, "STA", ZeroPage, 3, opSTA)
	set(0x86, "STX", ZeroPage, 3, opSTX)
	set(0x88, "DEY", Implied, 2, opDEY)
	set(0x8A, "TXA", Implied, 2, opTXA)
	set(0x8C, "STY", Absolute, 4, opSTY)
	set(0x8D, "STA", Absolute, 4, opSTA)
	set(0x8E, "STX", Absolute, 4, opSTX)
	set(0x90, "BCC", Relative, 2, opBCC)
	set(0x91, "STA", IndirectIndexed, 6, opSTA)
	set(0x94, "STY", ZeroPageX, 4, opSTY)
	set(0x95, "STA", ZeroPageX, 4, opSTA)
	set(0x96, "STX", ZeroPageY, 4, opSTX)
	set(0x98, "TYA", Implied, 2, opTYA)
	set(0x99, "STA", AbsoluteY, 5, opSTA)
	set(0x9A, "TXS", Implied, 2, opTXS)
	set(0x9D, "STA", AbsoluteX, 5, opSTA)

	set(0xA0, "LDY", Immediate, 2, opLDY)
	set(0xA1, "LDA", IndexedIndirect, 6, opLDA)
	set(0xA2, "LDX", Immediate, 2, opLDX)
	set(0xA4, "LDY", ZeroPage, 3, opLDY)
	set(0xA5, "LDA", ZeroPage, 3, opLDA)
	set(0xA6, "LDX", ZeroPage, 3, opLDX)
	set(0xA8, "TAY", Implied, 2, opTAY)
	set(0xA9, "LDA", Immediate, 2, opLDA)
	set(0xAA, "TAX", Implied, 2, opTAX)
	set(0xAC, "LDY", Absolute, 4, opLDY)
	set(0xAD, "LDA", Absolute, 4, opLDA)
	set(0xAE, "LDX", Absolute, 4, opLDX)
	set(0xB0, "BCS", Relative, 2, opBCS)
	set(0xB1, "LDA", IndirectIndexed, 5, opLDA)
	set(0xB4, "LDY", ZeroPageX, 4, opLDY)
	set(0xB5, "LDA", ZeroPageX, 4, opLDA)
	set(0xB6, "LDX", ZeroPageY, 4, opLDX)
	set(0xB8, "CLV", Implied, 2, opCLV)
	set(0xB9, "LDA", AbsoluteY, 4, opLDA)
	set(0xBA, "TSX", Implied, 2, opTSX)
	set(0xBC, "LDY", AbsoluteX, 4, opLDY)
	set(0xBD, "LDA", AbsoluteX, 4, opLDA)
	set(0xBE, "LDX", AbsoluteY, 4, opLDX)

	set(0xC0, "CPY", Immediate, 2, opCPY)
	set(0xC1, "CMP", IndexedIndirect, 6, opCMP)
	set(0xC4, "CPY", ZeroPage, 3, opCPY)
	set(0xC5, "CMP", ZeroPage, 3, opCMP)
	set(0xC6, "DEC", ZeroPage, 5, opDEC)
	set(0xC8, "INY", Implied, 2, opINY)
	set(0xC9, "CMP", Immediate, 2, opCMP)
	set(0xCA, "DEX", Implied, 2, opDEX)
	set(0xCC, "CPY", Absolute, 4, opCPY)
	set(0xCD, "CMP", Absolute, 4, opCMP)
	set(0xCE, "DEC", Absolute, 6, opDEC)
	set(0xD0, "BNE", Relative, 2, opBNE)
	set(0xD1, "CMP", IndirectIndexed, 5, opCMP)
	set(0xD5, "CMP", ZeroPageX, 4, opCMP)
	set(0xD6, "DEC", ZeroPageX, 6, opDEC)
	set(0xD8, "CLD", Implied, 2, opCLD)
	set(0xD9, "CMP", AbsoluteY, 4, opCMP)
	set(0xDD, "CMP", AbsoluteX, 4, opCMP)
	set(0xDE, "DEC", AbsoluteX, 7, opDEC)

	set(0xE0, "CPX", Immediate, 2, opCPX)
	set(0xE1, "SBC", IndexedIndirect, 6, opSBC)
	set(0xE4, "CPX", ZeroPage, 3, opCPX)
	set(0xE5, "SBC", ZeroPage, 3, opSBC)
	set(0xE6, "INC", ZeroPage, 5, opINC)
	set(0xE8, "INX", Implied, 2, opINX)
	set(0xE9, "SBC", Immediate, 2, opSBC)
	set(0xEA, "NOP", Implied, 2, opNOP)
	set(0xEC, "CPX", Absolute, 4, opCPX)
	set(0xED, "SBC", Absolute, 4, opSBC)
	set(0xEE, "INC", Absolute, 6, opINC)
	set(0xF0, "BEQ", Relative, 2, opBEQ)
	set(0xF1, "SBC", IndirectIndexed, 5, opSBC)
	set(0xF5, "SBC", ZeroPageX, 4, opSBC)
	set(0xF6, "INC", ZeroPageX, 6, opINC)
	set(0xF8, "SED", Implied, 2, opSED)
	set(0xF9, "SBC", AbsoluteY, 4, opSBC)
	set(0xFD, "SBC", AbsoluteX, 4, opSBC)
	set(0xFE, "INC", AbsoluteX, 7, opINC)
}

// --- loads & stores ---

func opLDA(c *CPU, addr uint16, mode AddressingMode) bool {
	c.A = c.mem.Read(addr)
	c.setZN(c.A)
	return true
}

func opLDX(c *CPU, addr uint16, mode AddressingMode) bool {
	c.X = c.mem.Read(addr)
	c.setZN(c.X)
	return true
}

func opLDY(c *CPU, addr uint16, mode AddressingMode) bool {
	c.Y = c.mem.Read(addr)
	c.setZN(c.Y)
	return true
}

func opSTA(c *CPU, addr uint16, mode AddressingMode) bool {
	c.mem.Write(addr, c.A)
	return false
}

func opSTX(c *CPU, addr uint16, mode AddressingMode) bool {
	c.mem.Write(addr, c.X)
	return false
}

func opSTY(c *CPU, addr uint16, mode AddressingMode) bool {
	c.mem.Write(addr, c.Y)
	return false
}

// --- transfers ---

func opTAX(c *CPU, addr uint16, mode AddressingMode) bool { c.X = c.A; c.setZN(c.X); return false }
func opTAY(c *CPU, addr uint16, mode AddressingMode) bool { c.Y = c.A; c.setZN(c.Y); return false }
func opTXA(c *CPU, addr uint16, mode AddressingMode) bool { c.A = c.X; c.setZN(c.A); return false }
func opTYA(c *CPU, addr uint16, mode AddressingMode) bool { c.A = c.Y; c.setZN(c.A); return false }
func opTSX(c *CPU, addr uint16, mode AddressingMode) bool { c.X = c.SP; c.setZN(c.X); return false }
func opTXS(c *CPU, addr uint16, mode AddressingMode) bool { c.SP = c.X; return false }

// --- stack ---

func opPHA(c *CPU, addr uint16, mode AddressingMode) bool { c.push(c.A); return false }
func opPHP(c *CPU, addr uint16, mode AddressingMode) bool { c.pushStatus(true); return false }

func opPLA(c *CPU, addr uint16, mode AddressingMode) bool {
	c.A = c.pull()
	c.setZN(c.A)
	return false
}

func opPLP(c *CPU, addr uint16, mode AddressingMode) bool {
	c.setStatusByte(c.pull())
	c.B = false
	c.U = true
	return false
}

// --- shifts & rotates ---

func opASL(c *CPU, addr uint16, mode AddressingMode) bool {
	value := c.readOperand(addr, mode)
	c.C = value&0x80 != 0
	result := value << 1
	c.setZN(result)
	c.writeOperand(addr, mode, result)
	return false
}

func opLSR(c *CPU, addr uint16, mode AddressingMode) bool {
	value := c.readOperand(addr, mode)
	c.C = value&0x01 != 0
	result := value >> 1
	c.setZN(result)
	c.writeOperand(addr, mode, result)
	return false
}

func opROL(c *CPU, addr uint16, mode AddressingMode) bool {
	value := c.readOperand(addr, mode)
	carryIn := uint8(0)
	if c.C {
		carryIn = 1
	}
	c.C = value&0x80 != 0
	result := (value << 1) | carryIn
	c.setZN(result)
	c.writeOperand(addr, mode, result)
	return false
}

func opROR(c *CPU, addr uint16, mode AddressingMode) bool {
	value := c.readOperand(addr, mode)
	carryIn := uint8(0)
	if c.C {
		carryIn = 0x80
	}
	c.C = value&0x01 != 0
	result := (value >> 1) | carryIn
	c.setZN(result)
	c.writeOperand(addr, mode, result)
	return false
}

func (c *CPU) readOperand(addr uint16, mode AddressingMode) uint8 {
	if mode == Accumulator {
		return c.A
	}
	return c.mem.Read(addr)
}

func (c *CPU) writeOperand(addr uint16, mode AddressingMode, value uint8) {
	if mode == Accumulator {
		c.A = value
		return
	}
	c.mem.Write(addr, value)
}

// --- logic ---

func opAND(c *CPU, addr uint16, mode AddressingMode) bool {
	c.A &= c.mem.Read(addr)
	c.setZN(c.A)
	return true
}

func opORA(c *CPU, addr uint16, mode AddressingMode) bool {
	c.A |= c.mem.Read(addr)
	c.setZN(c.A)
	return true
}

func opEOR(c *CPU, addr uint16, mode AddressingMode) bool {
	c.A ^= c.mem.Read(addr)
	c.setZN(c.A)
	return true
}

func opBIT(c *CPU, addr uint16, mode AddressingMode) bool {
	value := c.mem.Read(addr)
	c.Z = (c.A & value) == 0
	c.V = value&0x40 != 0
	c.N = value&0x80 != 0
	return false
}

// --- arithmetic ---

func opADC(c *CPU, addr uint16, mode AddressingMode) bool {
	m := c.mem.Read(addr)
	c.adc(m)
	return true
}

func opSBC(c *CPU, addr uint16, mode AddressingMode) bool {
	m := c.mem.Read(addr)
	c.adc(m ^ 0xFF)
	return true
}

func (c *CPU) adc(m uint8) {
	carry := uint16(0)
	if c.C {
		carry = 1
	}
	a := c.A
	tmp := uint16(a) + uint16(m) + carry
	c.C = tmp > 0xFF
	result := uint8(tmp)
	c.V = (^(a ^ m) & (a ^ result) & 0x80) != 0
	c.A = result
	c.setZN(c.A)
}

func opCMP(c *CPU, addr uint16, mode AddressingMode) bool {
	compare(c, c.A, c.mem.Read(addr))
	return true
}

func opCPX(c *CPU, addr uint16, mode AddressingMode) bool {
	compare(c, c.X, c.mem.Read(addr))
	return false
}

func opCPY(c *CPU, addr uint16, mode AddressingMode) bool {
	compare(c, c.Y, c.mem.Read(addr))
	return false
}

func compare(c *CPU, reg, m uint8) {
	tmp := reg - m
	c.C = reg >= m
	c.Z = reg == m
	c.N = tmp&0x80 != 0
}

// --- increment/decrement ---

func opINC(c *CPU, addr uint16, mode AddressingMode) bool {
	result := c.mem.Read(addr) + 1
	c.mem.Write(addr, result)
	c.setZN(result)
	return false
}

func opDEC(c *CPU, addr uint16, mode AddressingMode) bool {
	result := c.mem.Read(addr) - 1
	c.mem.Write(addr, result)
	c.setZN(result)
	return false
}

func opINX(c *CPU, addr uint16, mode AddressingMode) bool { c.X++; c.setZN(c.X); return false }
func opINY(c *CPU, addr uint16, mode AddressingMode) bool { c.Y++; c.setZN(c.Y); return false }
func opDEX(c *CPU, addr uint16, mode AddressingMode) bool { c.X--; c.setZN(c.X); return false }
func opDEY(c *CPU, addr uint16, mode AddressingMode) bool { c.Y--; c.setZN(c.Y); return false }

// --- control flow ---

func opJMP(c *CPU, addr uint16, mode AddressingMode) bool { c.PC = addr; return false }

func opJSR(c *CPU, addr uint16, mode AddressingMode) bool {
	c.pushWord(c.PC - 1)
	c.PC = addr
	return false
}

func opRTS(c *CPU, addr uint16, mode AddressingMode) bool {
	c.PC = c.pullWord() + 1
	return false
}

func opRTI(c *CPU, addr uint16, mode AddressingMode) bool {
	c.setStatusByte(c.pull())
	c.B = false
	c.U = true
	c.PC = c.pullWord()
	return false
}

func opBRK(c *CPU, addr uint16, mode AddressingMode) bool {
	c.PC++ // skip the padding byte following the BRK opcode
	c.pushWord(c.PC)
	c.pushStatus(true)
	c.I = true
	c.brkHit = true
	lo := uint16(c.mem.Read(vectorIRQ))
	hi := uint16(c.mem.Read(vectorIRQ + 1))
	c.PC = hi<<8 | lo
	return false
}

// --- branches ---

func branch(c *CPU, taken bool, addr uint16) bool {
	if !taken {
		return false
	}
	c.extraCycles = 1
	c.PC = addr
	return true
}

func opBCC(c *CPU, addr uint16, mode AddressingMode) bool { return branch(c, !c.C, addr) }
func opBCS(c *CPU, addr uint16, mode AddressingMode) bool { return branch(c, c.C, addr) }
func opBEQ(c *CPU, addr uint16, mode AddressingMode) bool { return branch(c, c.Z, addr) }
func opBNE(c *CPU, addr uint16, mode AddressingMode) bool { return branch(c, !c.Z, addr) }
func opBMI(c *CPU, addr uint16, mode AddressingMode) bool { return branch(c, c.N, addr) }
func opBPL(c *CPU, addr uint16, mode AddressingMode) bool { return branch(c, !c.N, addr) }
func opBVC(c *CPU, addr uint16, mode AddressingMode) bool { return branch(c, !c.V, addr) }
func opBVS(c *CPU, addr uint16, mode AddressingMode) bool { return branch(c, c.V, addr) }

// --- flags ---

func opCLC(c *CPU, addr uint16, mode AddressingMode) bool { c.C = false; return false }
func opSEC(c *CPU, addr uint16, mode AddressingMode) bool { c.C = true; return false }
func opCLI(c *CPU, addr uint16, mode AddressingMode) bool { c.I = false; return false }
func opSEI(c *CPU, addr uint16, mode AddressingMode) bool { c.I = true; return false }
func opCLD(c *CPU, addr uint16, mode AddressingMode) bool { c.D = false; return false }
func opSED(c *CPU, addr uint16, mode AddressingMode) bool { c.D = true; return false }
func opCLV(c *CPU, addr uint16, mode AddressingMode) bool { c.V = false; return false }

// --- misc ---

func opNOP(c *CPU, addr uint16, mode AddressingMode) bool { return false }
