package cpu

// An Instruction is a 65C02 mnemonic. The bit-manipulation families
// (BBR/BBS/RMB/SMB) are single instructions here; the bit index rides along
// in IR.Bit.
type Instruction uint8

const (
	ADC Instruction = iota
	AND
	ASL
	BBR
	BBS
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRA
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PHX
	PHY
	PLA
	PLP
	PLX
	PLY
	RMB
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	SMB
	STA
	STP
	STX
	STY
	STZ
	TAX
	TAY
	TRB
	TSB
	TSX
	TXA
	TXS
	TYA
	WAI
)

var instructionNames = [...]string{
	"ADC", "AND", "ASL", "BBR", "BBS", "BCC", "BCS", "BEQ", "BIT", "BMI",
	"BNE", "BPL", "BRA", "BRK", "BVC", "BVS", "CLC", "CLD", "CLI", "CLV",
	"CMP", "CPX", "CPY", "DEC", "DEX", "DEY", "EOR", "INC", "INX", "INY",
	"JMP", "JSR", "LDA", "LDX", "LDY", "LSR", "NOP", "ORA", "PHA", "PHP",
	"PHX", "PHY", "PLA", "PLP", "PLX", "PLY", "RMB", "ROL", "ROR", "RTI",
	"RTS", "SBC", "SEC", "SED", "SEI", "SMB", "STA", "STP", "STX", "STY",
	"STZ", "TAX", "TAY", "TRB", "TSB", "TSX", "TXA", "TXS", "TYA", "WAI",
}

func (i Instruction) String() string {
	return instructionNames[i]
}

// An AddressMode tells the sequencer where the operand lives and therefore
// which setup arms run before the instruction-specific ones.
type AddressMode uint8

const (
	Absolute     AddressMode = iota // a
	AbsIndirectX                    // (a,x)
	AbsoluteX                       // a,x
	AbsoluteY                       // a,y
	Indirect                        // (a)
	Accumulator                     // A
	Immediate                       // #
	Implied                         // i
	Relative                        // r
	Stack                           // s
	ZeroPage                        // zp
	IndirectX                       // (zp,x)
	ZeroPageX                       // zp,x
	ZeroPageY                       // zp,y
	ZPIndirect                      // (zp)
	IndirectY                       // (zp),y
)

var addressModeNames = [...]string{
	"a", "(a,x)", "a,x", "a,y", "(a)", "A", "#", "i",
	"r", "s", "zp", "(zp,x)", "zp,x", "zp,y", "(zp)", "(zp),y",
}

func (m AddressMode) String() string {
	return addressModeNames[m]
}

// Bytes returns the instruction length implied by the mode, for the
// disassembler. NOP stand-ins carry their own length in IR.Len.
func (m AddressMode) Bytes() int {
	switch m {
	case Implied, Accumulator, Stack:
		return 1
	case Immediate, Relative, ZeroPage, IndirectX, ZeroPageX, ZeroPageY, ZPIndirect, IndirectY:
		return 2
	default:
		return 3
	}
}

// decode maps an opcode byte to its instruction register value. Every byte
// decodes: opcodes the 65C02 leaves undefined execute as NOPs with the
// datasheet's byte length and cycle count.
func decode(val byte) IR {
	switch val {
	case 0x6D:
		return IR{Inst: ADC, Mode: Absolute}
	case 0x7D:
		return IR{Inst: ADC, Mode: AbsoluteX}
	case 0x79:
		return IR{Inst: ADC, Mode: AbsoluteY}
	case 0x69:
		return IR{Inst: ADC, Mode: Immediate}
	case 0x65:
		return IR{Inst: ADC, Mode: ZeroPage}
	case 0x61:
		return IR{Inst: ADC, Mode: IndirectX}
	case 0x75:
		return IR{Inst: ADC, Mode: ZeroPageX}
	case 0x72:
		return IR{Inst: ADC, Mode: ZPIndirect}
	case 0x71:
		return IR{Inst: ADC, Mode: IndirectY}

	case 0x2D:
		return IR{Inst: AND, Mode: Absolute}
	case 0x3D:
		return IR{Inst: AND, Mode: AbsoluteX}
	case 0x39:
		return IR{Inst: AND, Mode: AbsoluteY}
	case 0x29:
		return IR{Inst: AND, Mode: Immediate}
	case 0x25:
		return IR{Inst: AND, Mode: ZeroPage}
	case 0x21:
		return IR{Inst: AND, Mode: IndirectX}
	case 0x35:
		return IR{Inst: AND, Mode: ZeroPageX}
	case 0x32:
		return IR{Inst: AND, Mode: ZPIndirect}
	case 0x31:
		return IR{Inst: AND, Mode: IndirectY}

	case 0x0E:
		return IR{Inst: ASL, Mode: Absolute}
	case 0x1E:
		return IR{Inst: ASL, Mode: AbsoluteX}
	case 0x0A:
		return IR{Inst: ASL, Mode: Accumulator}
	case 0x06:
		return IR{Inst: ASL, Mode: ZeroPage}
	case 0x16:
		return IR{Inst: ASL, Mode: ZeroPageX}

	case 0x0F, 0x1F, 0x2F, 0x3F, 0x4F, 0x5F, 0x6F, 0x7F:
		return IR{Inst: BBR, Mode: Relative, Bit: val >> 4}
	case 0x8F, 0x9F, 0xAF, 0xBF, 0xCF, 0xDF, 0xEF, 0xFF:
		return IR{Inst: BBS, Mode: Relative, Bit: (val >> 4) - 8}

	case 0x90:
		return IR{Inst: BCC, Mode: Relative}
	case 0xB0:
		return IR{Inst: BCS, Mode: Relative}
	case 0xF0:
		return IR{Inst: BEQ, Mode: Relative}

	case 0x2C:
		return IR{Inst: BIT, Mode: Absolute}
	case 0x3C:
		return IR{Inst: BIT, Mode: AbsoluteX}
	case 0x89:
		return IR{Inst: BIT, Mode: Immediate}
	case 0x24:
		return IR{Inst: BIT, Mode: ZeroPage}
	case 0x34:
		return IR{Inst: BIT, Mode: ZeroPageX}

	case 0x30:
		return IR{Inst: BMI, Mode: Relative}
	case 0xD0:
		return IR{Inst: BNE, Mode: Relative}
	case 0x10:
		return IR{Inst: BPL, Mode: Relative}
	case 0x80:
		return IR{Inst: BRA, Mode: Relative}

	case 0x00:
		return IR{Inst: BRK, Mode: Stack}

	case 0x50:
		return IR{Inst: BVC, Mode: Relative}
	case 0x70:
		return IR{Inst: BVS, Mode: Relative}

	case 0x18:
		return IR{Inst: CLC, Mode: Implied}
	case 0xD8:
		return IR{Inst: CLD, Mode: Implied}
	case 0x58:
		return IR{Inst: CLI, Mode: Implied}
	case 0xB8:
		return IR{Inst: CLV, Mode: Implied}

	case 0xCD:
		return IR{Inst: CMP, Mode: Absolute}
	case 0xDD:
		return IR{Inst: CMP, Mode: AbsoluteX}
	case 0xD9:
		return IR{Inst: CMP, Mode: AbsoluteY}
	case 0xC9:
		return IR{Inst: CMP, Mode: Immediate}
	case 0xC5:
		return IR{Inst: CMP, Mode: ZeroPage}
	case 0xC1:
		return IR{Inst: CMP, Mode: IndirectX}
	case 0xD5:
		return IR{Inst: CMP, Mode: ZeroPageX}
	case 0xD2:
		return IR{Inst: CMP, Mode: ZPIndirect}
	case 0xD1:
		return IR{Inst: CMP, Mode: IndirectY}

	case 0xEC:
		return IR{Inst: CPX, Mode: Absolute}
	case 0xE0:
		return IR{Inst: CPX, Mode: Immediate}
	case 0xE4:
		return IR{Inst: CPX, Mode: ZeroPage}

	case 0xCC:
		return IR{Inst: CPY, Mode: Absolute}
	case 0xC0:
		return IR{Inst: CPY, Mode: Immediate}
	case 0xC4:
		return IR{Inst: CPY, Mode: ZeroPage}

	case 0xCE:
		return IR{Inst: DEC, Mode: Absolute}
	case 0xDE:
		return IR{Inst: DEC, Mode: AbsoluteX}
	case 0x3A:
		return IR{Inst: DEC, Mode: Accumulator}
	case 0xC6:
		return IR{Inst: DEC, Mode: ZeroPage}
	case 0xD6:
		return IR{Inst: DEC, Mode: ZeroPageX}

	case 0xCA:
		return IR{Inst: DEX, Mode: Implied}
	case 0x88:
		return IR{Inst: DEY, Mode: Implied}

	case 0x4D:
		return IR{Inst: EOR, Mode: Absolute}
	case 0x5D:
		return IR{Inst: EOR, Mode: AbsoluteX}
	case 0x59:
		return IR{Inst: EOR, Mode: AbsoluteY}
	case 0x49:
		return IR{Inst: EOR, Mode: Immediate}
	case 0x45:
		return IR{Inst: EOR, Mode: ZeroPage}
	case 0x41:
		return IR{Inst: EOR, Mode: IndirectX}
	case 0x55:
		return IR{Inst: EOR, Mode: ZeroPageX}
	case 0x52:
		return IR{Inst: EOR, Mode: ZPIndirect}
	case 0x51:
		return IR{Inst: EOR, Mode: IndirectY}

	case 0xEE:
		return IR{Inst: INC, Mode: Absolute}
	case 0xFE:
		return IR{Inst: INC, Mode: AbsoluteX}
	case 0x1A:
		return IR{Inst: INC, Mode: Accumulator}
	case 0xE6:
		return IR{Inst: INC, Mode: ZeroPage}
	case 0xF6:
		return IR{Inst: INC, Mode: ZeroPageX}

	case 0xE8:
		return IR{Inst: INX, Mode: Implied}
	case 0xC8:
		return IR{Inst: INY, Mode: Implied}

	case 0x4C:
		return IR{Inst: JMP, Mode: Absolute}
	case 0x7C:
		return IR{Inst: JMP, Mode: AbsIndirectX}
	case 0x6C:
		return IR{Inst: JMP, Mode: Indirect}

	case 0x20:
		return IR{Inst: JSR, Mode: Absolute}

	case 0xAD:
		return IR{Inst: LDA, Mode: Absolute}
	case 0xBD:
		return IR{Inst: LDA, Mode: AbsoluteX}
	case 0xB9:
		return IR{Inst: LDA, Mode: AbsoluteY}
	case 0xA9:
		return IR{Inst: LDA, Mode: Immediate}
	case 0xA5:
		return IR{Inst: LDA, Mode: ZeroPage}
	case 0xA1:
		return IR{Inst: LDA, Mode: IndirectX}
	case 0xB5:
		return IR{Inst: LDA, Mode: ZeroPageX}
	case 0xB2:
		return IR{Inst: LDA, Mode: ZPIndirect}
	case 0xB1:
		return IR{Inst: LDA, Mode: IndirectY}

	case 0xAE:
		return IR{Inst: LDX, Mode: Absolute}
	case 0xBE:
		return IR{Inst: LDX, Mode: AbsoluteY}
	case 0xA2:
		return IR{Inst: LDX, Mode: Immediate}
	case 0xA6:
		return IR{Inst: LDX, Mode: ZeroPage}
	case 0xB6:
		return IR{Inst: LDX, Mode: ZeroPageY}

	case 0xAC:
		return IR{Inst: LDY, Mode: Absolute}
	case 0xBC:
		return IR{Inst: LDY, Mode: AbsoluteX}
	case 0xA0:
		return IR{Inst: LDY, Mode: Immediate}
	case 0xA4:
		return IR{Inst: LDY, Mode: ZeroPage}
	case 0xB4:
		return IR{Inst: LDY, Mode: ZeroPageX}

	case 0x4E:
		return IR{Inst: LSR, Mode: Absolute}
	case 0x5E:
		return IR{Inst: LSR, Mode: AbsoluteX}
	case 0x4A:
		return IR{Inst: LSR, Mode: Accumulator}
	case 0x46:
		return IR{Inst: LSR, Mode: ZeroPage}
	case 0x56:
		return IR{Inst: LSR, Mode: ZeroPageX}

	case 0xEA:
		return IR{Inst: NOP, Mode: Implied, Len: 1, Cyc: 2}

	case 0x0D:
		return IR{Inst: ORA, Mode: Absolute}
	case 0x1D:
		return IR{Inst: ORA, Mode: AbsoluteX}
	case 0x19:
		return IR{Inst: ORA, Mode: AbsoluteY}
	case 0x09:
		return IR{Inst: ORA, Mode: Immediate}
	case 0x05:
		return IR{Inst: ORA, Mode: ZeroPage}
	case 0x01:
		return IR{Inst: ORA, Mode: IndirectX}
	case 0x15:
		return IR{Inst: ORA, Mode: ZeroPageX}
	case 0x12:
		return IR{Inst: ORA, Mode: ZPIndirect}
	case 0x11:
		return IR{Inst: ORA, Mode: IndirectY}

	case 0x48:
		return IR{Inst: PHA, Mode: Stack}
	case 0x08:
		return IR{Inst: PHP, Mode: Stack}
	case 0xDA:
		return IR{Inst: PHX, Mode: Stack}
	case 0x5A:
		return IR{Inst: PHY, Mode: Stack}
	case 0x68:
		return IR{Inst: PLA, Mode: Stack}
	case 0x28:
		return IR{Inst: PLP, Mode: Stack}
	case 0xFA:
		return IR{Inst: PLX, Mode: Stack}
	case 0x7A:
		return IR{Inst: PLY, Mode: Stack}

	case 0x07, 0x17, 0x27, 0x37, 0x47, 0x57, 0x67, 0x77:
		return IR{Inst: RMB, Mode: ZeroPage, Bit: val >> 4}
	case 0x87, 0x97, 0xA7, 0xB7, 0xC7, 0xD7, 0xE7, 0xF7:
		return IR{Inst: SMB, Mode: ZeroPage, Bit: (val >> 4) - 8}

	case 0x2E:
		return IR{Inst: ROL, Mode: Absolute}
	case 0x3E:
		return IR{Inst: ROL, Mode: AbsoluteX}
	case 0x2A:
		return IR{Inst: ROL, Mode: Accumulator}
	case 0x26:
		return IR{Inst: ROL, Mode: ZeroPage}
	case 0x36:
		return IR{Inst: ROL, Mode: ZeroPageX}

	case 0x6E:
		return IR{Inst: ROR, Mode: Absolute}
	case 0x7E:
		return IR{Inst: ROR, Mode: AbsoluteX}
	case 0x6A:
		return IR{Inst: ROR, Mode: Accumulator}
	case 0x66:
		return IR{Inst: ROR, Mode: ZeroPage}
	case 0x76:
		return IR{Inst: ROR, Mode: ZeroPageX}

	case 0x40:
		return IR{Inst: RTI, Mode: Stack}
	case 0x60:
		return IR{Inst: RTS, Mode: Stack}

	case 0xED:
		return IR{Inst: SBC, Mode: Absolute}
	case 0xFD:
		return IR{Inst: SBC, Mode: AbsoluteX}
	case 0xF9:
		return IR{Inst: SBC, Mode: AbsoluteY}
	case 0xE9:
		return IR{Inst: SBC, Mode: Immediate}
	case 0xE5:
		return IR{Inst: SBC, Mode: ZeroPage}
	case 0xE1:
		return IR{Inst: SBC, Mode: IndirectX}
	case 0xF5:
		return IR{Inst: SBC, Mode: ZeroPageX}
	case 0xF2:
		return IR{Inst: SBC, Mode: ZPIndirect}
	case 0xF1:
		return IR{Inst: SBC, Mode: IndirectY}

	case 0x38:
		return IR{Inst: SEC, Mode: Implied}
	case 0xF8:
		return IR{Inst: SED, Mode: Implied}
	case 0x78:
		return IR{Inst: SEI, Mode: Implied}

	case 0x8D:
		return IR{Inst: STA, Mode: Absolute}
	case 0x9D:
		return IR{Inst: STA, Mode: AbsoluteX}
	case 0x99:
		return IR{Inst: STA, Mode: AbsoluteY}
	case 0x85:
		return IR{Inst: STA, Mode: ZeroPage}
	case 0x81:
		return IR{Inst: STA, Mode: IndirectX}
	case 0x95:
		return IR{Inst: STA, Mode: ZeroPageX}
	case 0x92:
		return IR{Inst: STA, Mode: ZPIndirect}
	case 0x91:
		return IR{Inst: STA, Mode: IndirectY}

	case 0xDB:
		return IR{Inst: STP, Mode: Implied}

	case 0x8E:
		return IR{Inst: STX, Mode: Absolute}
	case 0x86:
		return IR{Inst: STX, Mode: ZeroPage}
	case 0x96:
		return IR{Inst: STX, Mode: ZeroPageY}

	case 0x8C:
		return IR{Inst: STY, Mode: Absolute}
	case 0x84:
		return IR{Inst: STY, Mode: ZeroPage}
	case 0x94:
		return IR{Inst: STY, Mode: ZeroPageX}

	case 0x9C:
		return IR{Inst: STZ, Mode: Absolute}
	case 0x9E:
		return IR{Inst: STZ, Mode: AbsoluteX}
	case 0x64:
		return IR{Inst: STZ, Mode: ZeroPage}
	case 0x74:
		return IR{Inst: STZ, Mode: ZeroPageX}

	case 0xAA:
		return IR{Inst: TAX, Mode: Implied}
	case 0xA8:
		return IR{Inst: TAY, Mode: Implied}

	case 0x1C:
		return IR{Inst: TRB, Mode: Absolute}
	case 0x14:
		return IR{Inst: TRB, Mode: ZeroPage}

	case 0x0C:
		return IR{Inst: TSB, Mode: Absolute}
	case 0x04:
		return IR{Inst: TSB, Mode: ZeroPage}

	case 0xBA:
		return IR{Inst: TSX, Mode: Implied}
	case 0x8A:
		return IR{Inst: TXA, Mode: Implied}
	case 0x9A:
		return IR{Inst: TXS, Mode: Implied}
	case 0x98:
		return IR{Inst: TYA, Mode: Implied}

	case 0xCB:
		return IR{Inst: WAI, Mode: Implied}

	default:
		return nopFor(val)
	}
}

// nopFor encodes the undefined opcodes. The 65C02S executes them as NOPs of
// fixed byte length and cycle count; only a handful deviate from the
// single-byte single-cycle default.
func nopFor(val byte) IR {
	switch val {
	case 0x02, 0x22, 0x42, 0x62, 0x82, 0xC2, 0xE2:
		return IR{Inst: NOP, Mode: Implied, Len: 2, Cyc: 2}
	case 0x44:
		return IR{Inst: NOP, Mode: Implied, Len: 2, Cyc: 3}
	case 0x54, 0xD4, 0xF4:
		return IR{Inst: NOP, Mode: Implied, Len: 2, Cyc: 4}
	case 0x5C:
		return IR{Inst: NOP, Mode: Implied, Len: 3, Cyc: 8}
	case 0xDC, 0xFC:
		return IR{Inst: NOP, Mode: Implied, Len: 3, Cyc: 4}
	default:
		return IR{Inst: NOP, Mode: Implied, Len: 1, Cyc: 1}
	}
}

// Decode exposes the opcode table to the debugger's disassembler.
func Decode(val byte) IR {
	return decode(val)
}
