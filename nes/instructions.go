package nes

// AddressingMode is the way an opcode's operand is located, mirroring the
// classic 6502 addressing-mode taxonomy (see e.g.
// http://www.thealmightyguru.com/Games/Hacking/Wiki/index.php/Addressing_Modes).
type AddressingMode byte

const (
	// Implied addressing has no operand; the instruction implies it.
	Implied AddressingMode = iota

	// Accumulator addressing is Implied addressing that targets A.
	Accumulator

	// Immediate addressing: the operand is the byte at PC+1.
	Immediate

	// ZeroPage addressing: a 1-byte address into $0000-$00FF.
	ZeroPage

	// ZeroPageIndexedX/Y: ZeroPage offset by X or Y, wrapping at 8 bits.
	ZeroPageIndexedX
	ZeroPageIndexedY

	// Absolute addressing: a full 2-byte address.
	Absolute

	// IndexedX/Y: Absolute offset by X or Y.
	IndexedX
	IndexedY

	// Relative addressing: a signed 1-byte branch displacement.
	Relative

	// PreIndexedIndirect reads a zero-page pointer offset by X.
	PreIndexedIndirect

	// PostIndexedIndirect reads a zero-page pointer, then offsets by Y.
	PostIndexedIndirect
)

// InstructionKind distinguishes how an instruction touches its operand. It
// is descriptive only: the page-crossing surcharge comes from PageCycles,
// which only read instructions carry.
type InstructionKind byte

const (
	_ InstructionKind = iota
	Read
	Write
	ReadModWrite
)

// Instruction describes one opcode's shape: its name, addressing mode, and
// base/page-cross timing. A zero-value Instruction (Name == "") means the
// opcode byte is unimplemented — every such byte is treated as illegal.
type Instruction struct {
	OpCode     byte
	Name       string
	Mode       AddressingMode
	Kind       InstructionKind
	Size       byte
	Cycles     byte
	PageCycles byte
}

// instructions is keyed by opcode byte. Only the opcode set this core
// implements has an entry; every other slot is the zero value and is
// treated as illegal at dispatch.
var instructions = [256]Instruction{
	0xEA: {OpCode: 0xEA, Name: "NOP", Mode: Implied, Size: 1, Cycles: 2},

	0xA9: {OpCode: 0xA9, Name: "LDA", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0xA5: {OpCode: 0xA5, Name: "LDA", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0xB5: {OpCode: 0xB5, Name: "LDA", Mode: ZeroPageIndexedX, Kind: Read, Size: 2, Cycles: 4},
	0xAD: {OpCode: 0xAD, Name: "LDA", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},
	0xBD: {OpCode: 0xBD, Name: "LDA", Mode: IndexedX, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0xB9: {OpCode: 0xB9, Name: "LDA", Mode: IndexedY, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0xA1: {OpCode: 0xA1, Name: "LDA", Mode: PreIndexedIndirect, Kind: Read, Size: 2, Cycles: 6},
	0xB1: {OpCode: 0xB1, Name: "LDA", Mode: PostIndexedIndirect, Kind: Read, Size: 2, Cycles: 5, PageCycles: 1},

	0xA2: {OpCode: 0xA2, Name: "LDX", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0xA6: {OpCode: 0xA6, Name: "LDX", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0xB6: {OpCode: 0xB6, Name: "LDX", Mode: ZeroPageIndexedY, Kind: Read, Size: 2, Cycles: 4},
	0xAE: {OpCode: 0xAE, Name: "LDX", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},
	0xBE: {OpCode: 0xBE, Name: "LDX", Mode: IndexedY, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},

	0xA0: {OpCode: 0xA0, Name: "LDY", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0xA4: {OpCode: 0xA4, Name: "LDY", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0xB4: {OpCode: 0xB4, Name: "LDY", Mode: ZeroPageIndexedX, Kind: Read, Size: 2, Cycles: 4},
	0xAC: {OpCode: 0xAC, Name: "LDY", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},
	0xBC: {OpCode: 0xBC, Name: "LDY", Mode: IndexedX, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},

	0x85: {OpCode: 0x85, Name: "STA", Mode: ZeroPage, Kind: Write, Size: 2, Cycles: 3},
	0x95: {OpCode: 0x95, Name: "STA", Mode: ZeroPageIndexedX, Kind: Write, Size: 2, Cycles: 4},
	0x8D: {OpCode: 0x8D, Name: "STA", Mode: Absolute, Kind: Write, Size: 3, Cycles: 4},
	0x9D: {OpCode: 0x9D, Name: "STA", Mode: IndexedX, Kind: Write, Size: 3, Cycles: 5},
	0x99: {OpCode: 0x99, Name: "STA", Mode: IndexedY, Kind: Write, Size: 3, Cycles: 5},
	0x81: {OpCode: 0x81, Name: "STA", Mode: PreIndexedIndirect, Kind: Write, Size: 2, Cycles: 6},
	0x91: {OpCode: 0x91, Name: "STA", Mode: PostIndexedIndirect, Kind: Write, Size: 2, Cycles: 6},

	0x86: {OpCode: 0x86, Name: "STX", Mode: ZeroPage, Kind: Write, Size: 2, Cycles: 3},
	0x96: {OpCode: 0x96, Name: "STX", Mode: ZeroPageIndexedY, Kind: Write, Size: 2, Cycles: 4},
	0x8E: {OpCode: 0x8E, Name: "STX", Mode: Absolute, Kind: Write, Size: 3, Cycles: 4},

	0x84: {OpCode: 0x84, Name: "STY", Mode: ZeroPage, Kind: Write, Size: 2, Cycles: 3},
	0x94: {OpCode: 0x94, Name: "STY", Mode: ZeroPageIndexedX, Kind: Write, Size: 2, Cycles: 4},
	0x8C: {OpCode: 0x8C, Name: "STY", Mode: Absolute, Kind: Write, Size: 3, Cycles: 4},

	0xAA: {OpCode: 0xAA, Name: "TAX", Mode: Implied, Size: 1, Cycles: 2},
	0xA8: {OpCode: 0xA8, Name: "TAY", Mode: Implied, Size: 1, Cycles: 2},
	0x8A: {OpCode: 0x8A, Name: "TXA", Mode: Implied, Size: 1, Cycles: 2},
	0x98: {OpCode: 0x98, Name: "TYA", Mode: Implied, Size: 1, Cycles: 2},
	0xBA: {OpCode: 0xBA, Name: "TSX", Mode: Implied, Size: 1, Cycles: 2},
	0x9A: {OpCode: 0x9A, Name: "TXS", Mode: Implied, Size: 1, Cycles: 2},

	0xE8: {OpCode: 0xE8, Name: "INX", Mode: Implied, Size: 1, Cycles: 2},
	0xC8: {OpCode: 0xC8, Name: "INY", Mode: Implied, Size: 1, Cycles: 2},
	0xCA: {OpCode: 0xCA, Name: "DEX", Mode: Implied, Size: 1, Cycles: 2},
	0x88: {OpCode: 0x88, Name: "DEY", Mode: Implied, Size: 1, Cycles: 2},

	0xE6: {OpCode: 0xE6, Name: "INC", Mode: ZeroPage, Kind: ReadModWrite, Size: 2, Cycles: 5},
	0xF6: {OpCode: 0xF6, Name: "INC", Mode: ZeroPageIndexedX, Kind: ReadModWrite, Size: 2, Cycles: 6},
	0xEE: {OpCode: 0xEE, Name: "INC", Mode: Absolute, Kind: ReadModWrite, Size: 3, Cycles: 6},
	0xFE: {OpCode: 0xFE, Name: "INC", Mode: IndexedX, Kind: ReadModWrite, Size: 3, Cycles: 7},

	0xC6: {OpCode: 0xC6, Name: "DEC", Mode: ZeroPage, Kind: ReadModWrite, Size: 2, Cycles: 5},
	0xD6: {OpCode: 0xD6, Name: "DEC", Mode: ZeroPageIndexedX, Kind: ReadModWrite, Size: 2, Cycles: 6},
	0xCE: {OpCode: 0xCE, Name: "DEC", Mode: Absolute, Kind: ReadModWrite, Size: 3, Cycles: 6},
	0xDE: {OpCode: 0xDE, Name: "DEC", Mode: IndexedX, Kind: ReadModWrite, Size: 3, Cycles: 7},

	0x69: {OpCode: 0x69, Name: "ADC", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0x65: {OpCode: 0x65, Name: "ADC", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0x75: {OpCode: 0x75, Name: "ADC", Mode: ZeroPageIndexedX, Kind: Read, Size: 2, Cycles: 4},
	0x6D: {OpCode: 0x6D, Name: "ADC", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},
	0x7D: {OpCode: 0x7D, Name: "ADC", Mode: IndexedX, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0x79: {OpCode: 0x79, Name: "ADC", Mode: IndexedY, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0x61: {OpCode: 0x61, Name: "ADC", Mode: PreIndexedIndirect, Kind: Read, Size: 2, Cycles: 6},
	0x71: {OpCode: 0x71, Name: "ADC", Mode: PostIndexedIndirect, Kind: Read, Size: 2, Cycles: 5, PageCycles: 1},

	0xE9: {OpCode: 0xE9, Name: "SBC", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0xE5: {OpCode: 0xE5, Name: "SBC", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0xF5: {OpCode: 0xF5, Name: "SBC", Mode: ZeroPageIndexedX, Kind: Read, Size: 2, Cycles: 4},
	0xED: {OpCode: 0xED, Name: "SBC", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},
	0xFD: {OpCode: 0xFD, Name: "SBC", Mode: IndexedX, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0xF9: {OpCode: 0xF9, Name: "SBC", Mode: IndexedY, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0xE1: {OpCode: 0xE1, Name: "SBC", Mode: PreIndexedIndirect, Kind: Read, Size: 2, Cycles: 6},
	0xF1: {OpCode: 0xF1, Name: "SBC", Mode: PostIndexedIndirect, Kind: Read, Size: 2, Cycles: 5, PageCycles: 1},

	0x29: {OpCode: 0x29, Name: "AND", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0x25: {OpCode: 0x25, Name: "AND", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0x35: {OpCode: 0x35, Name: "AND", Mode: ZeroPageIndexedX, Kind: Read, Size: 2, Cycles: 4},
	0x2D: {OpCode: 0x2D, Name: "AND", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},
	0x3D: {OpCode: 0x3D, Name: "AND", Mode: IndexedX, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0x39: {OpCode: 0x39, Name: "AND", Mode: IndexedY, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0x21: {OpCode: 0x21, Name: "AND", Mode: PreIndexedIndirect, Kind: Read, Size: 2, Cycles: 6},
	0x31: {OpCode: 0x31, Name: "AND", Mode: PostIndexedIndirect, Kind: Read, Size: 2, Cycles: 5, PageCycles: 1},

	0x09: {OpCode: 0x09, Name: "ORA", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0x05: {OpCode: 0x05, Name: "ORA", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0x15: {OpCode: 0x15, Name: "ORA", Mode: ZeroPageIndexedX, Kind: Read, Size: 2, Cycles: 4},
	0x0D: {OpCode: 0x0D, Name: "ORA", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},
	0x1D: {OpCode: 0x1D, Name: "ORA", Mode: IndexedX, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0x19: {OpCode: 0x19, Name: "ORA", Mode: IndexedY, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0x01: {OpCode: 0x01, Name: "ORA", Mode: PreIndexedIndirect, Kind: Read, Size: 2, Cycles: 6},
	0x11: {OpCode: 0x11, Name: "ORA", Mode: PostIndexedIndirect, Kind: Read, Size: 2, Cycles: 5, PageCycles: 1},

	0x49: {OpCode: 0x49, Name: "EOR", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0x45: {OpCode: 0x45, Name: "EOR", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0x55: {OpCode: 0x55, Name: "EOR", Mode: ZeroPageIndexedX, Kind: Read, Size: 2, Cycles: 4},
	0x4D: {OpCode: 0x4D, Name: "EOR", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},
	0x5D: {OpCode: 0x5D, Name: "EOR", Mode: IndexedX, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0x59: {OpCode: 0x59, Name: "EOR", Mode: IndexedY, Kind: Read, Size: 3, Cycles: 4, PageCycles: 1},
	0x41: {OpCode: 0x41, Name: "EOR", Mode: PreIndexedIndirect, Kind: Read, Size: 2, Cycles: 6},
	0x51: {OpCode: 0x51, Name: "EOR", Mode: PostIndexedIndirect, Kind: Read, Size: 2, Cycles: 5, PageCycles: 1},

	0xC9: {OpCode: 0xC9, Name: "CMP", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0xC5: {OpCode: 0xC5, Name: "CMP", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0xCD: {OpCode: 0xCD, Name: "CMP", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},

	0xE0: {OpCode: 0xE0, Name: "CPX", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0xE4: {OpCode: 0xE4, Name: "CPX", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0xEC: {OpCode: 0xEC, Name: "CPX", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},

	0xC0: {OpCode: 0xC0, Name: "CPY", Mode: Immediate, Kind: Read, Size: 2, Cycles: 2},
	0xC4: {OpCode: 0xC4, Name: "CPY", Mode: ZeroPage, Kind: Read, Size: 2, Cycles: 3},
	0xCC: {OpCode: 0xCC, Name: "CPY", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},

	0x0A: {OpCode: 0x0A, Name: "ASL", Mode: Accumulator, Kind: ReadModWrite, Size: 1, Cycles: 2},
	0x4A: {OpCode: 0x4A, Name: "LSR", Mode: Accumulator, Kind: ReadModWrite, Size: 1, Cycles: 2},

	0x2C: {OpCode: 0x2C, Name: "BIT", Mode: Absolute, Kind: Read, Size: 3, Cycles: 4},

	0x4C: {OpCode: 0x4C, Name: "JMP", Mode: Absolute, Size: 3, Cycles: 3},
	0x20: {OpCode: 0x20, Name: "JSR", Mode: Absolute, Size: 3, Cycles: 6},
	0x60: {OpCode: 0x60, Name: "RTS", Mode: Implied, Size: 1, Cycles: 6},

	0x10: {OpCode: 0x10, Name: "BPL", Mode: Relative, Size: 2, Cycles: 2},
	0x30: {OpCode: 0x30, Name: "BMI", Mode: Relative, Size: 2, Cycles: 2},
	0x50: {OpCode: 0x50, Name: "BVC", Mode: Relative, Size: 2, Cycles: 2},
	0x70: {OpCode: 0x70, Name: "BVS", Mode: Relative, Size: 2, Cycles: 2},
	0x90: {OpCode: 0x90, Name: "BCC", Mode: Relative, Size: 2, Cycles: 2},
	0xB0: {OpCode: 0xB0, Name: "BCS", Mode: Relative, Size: 2, Cycles: 2},
	0xD0: {OpCode: 0xD0, Name: "BNE", Mode: Relative, Size: 2, Cycles: 2},
	0xF0: {OpCode: 0xF0, Name: "BEQ", Mode: Relative, Size: 2, Cycles: 2},

	0x78: {OpCode: 0x78, Name: "SEI", Mode: Implied, Size: 1, Cycles: 2},
	0x58: {OpCode: 0x58, Name: "CLI", Mode: Implied, Size: 1, Cycles: 2},
	0xF8: {OpCode: 0xF8, Name: "SED", Mode: Implied, Size: 1, Cycles: 2},
	0xD8: {OpCode: 0xD8, Name: "CLD", Mode: Implied, Size: 1, Cycles: 2},
	0x38: {OpCode: 0x38, Name: "SEC", Mode: Implied, Size: 1, Cycles: 2},
	0x18: {OpCode: 0x18, Name: "CLC", Mode: Implied, Size: 1, Cycles: 2},
}
