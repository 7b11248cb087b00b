package cpu

// AddressingMode identifies one of the twelve 6502 addressing modes.
type AddressingMode uint8

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// operandAddress runs the addressing-mode function for mode, advancing
// PC past the instruction's operand bytes, and reports whether indexing
// crossed a page boundary.
func (c *CPU) operandAddress(mode AddressingMode) (address uint16, pageCrossed bool) {
	switch mode {
	case Implied, Accumulator:
		return 0, false

	case Immediate:
		address = c.PC
		c.PC++
		return address, false

	case ZeroPage:
		address = uint16(c.mem.Read(c.PC))
		c.PC++
		return address, false

	case ZeroPageX:
		address = uint16(uint8(c.mem.Read(c.PC)) + c.X)
		c.PC++
		return address, false

	case ZeroPageY:
		address = uint16(uint8(c.mem.Read(c.PC)) + c.Y)
		c.PC++
		return address, false

	case Relative:
		offset := int8(c.mem.Read(c.PC))
		c.PC++
		base := c.PC
		address = uint16(int32(base) + int32(offset))
		return address, (address & 0xFF00) != (base & 0xFF00)

	case Absolute:
		lo := uint16(c.mem.Read(c.PC))
		hi := uint16(c.mem.Read(c.PC + 1))
		c.PC += 2
		return hi<<8 | lo, false

	case AbsoluteX:
		lo := uint16(c.mem.Read(c.PC))
		hi := uint16(c.mem.Read(c.PC + 1))
		c.PC += 2
		base := hi<<8 | lo
		address = base + uint16(c.X)
		return address, (address & 0xFF00) != (base & 0xFF00)

	case AbsoluteY:
		lo := uint16(c.mem.Read(c.PC))
		hi := uint16(c.mem.Read(c.PC + 1))
		c.PC += 2
		base := hi<<8 | lo
		address = base + uint16(c.Y)
		return address, (address & 0xFF00) != (base & 0xFF00)

	case Indirect:
		lo := uint16(c.mem.Read(c.PC))
		hi := uint16(c.mem.Read(c.PC + 1))
		c.PC += 2
		ptr := hi<<8 | lo
		var targetLo, targetHi uint16
		targetLo = uint16(c.mem.Read(ptr))
		if ptr&0x00FF == 0x00FF {
			// Hardware bug: high byte wraps within the same page instead
			// of crossing into the next one.
			targetHi = uint16(c.mem.Read(ptr & 0xFF00))
		} else {
			targetHi = uint16(c.mem.Read(ptr + 1))
		}
		return targetHi<<8 | targetLo, false

	case IndexedIndirect:
		zp := uint8(c.mem.Read(c.PC)) + c.X
		c.PC++
		lo := uint16(c.mem.Read(uint16(zp)))
		hi := uint16(c.mem.Read(uint16(zp + 1)))
		return hi<<8 | lo, false

	case IndirectIndexed:
		zp := uint8(c.mem.Read(c.PC))
		c.PC++
		lo := uint16(c.mem.Read(uint16(zp)))
		hi := uint16(c.mem.Read(uint16(zp + 1)))
		base := hi<<8 | lo
		address = base + uint16(c.Y)
		return address, (address & 0xFF00) != (base & 0xFF00)

	default:
		return 0, false
	}
}
