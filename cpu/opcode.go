package cpu

import (
	"fmt"
)

// Opcode is a 5-bit operation code.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_STOP  = Opcode(0)  // stop
	OP_ADD   = Opcode(1)  // add
	OP_SUB   = Opcode(2)  // sub
	OP_MUL   = Opcode(3)  // mul
	OP_DIV   = Opcode(4)  // div
	OP_AND   = Opcode(5)  // and
	OP_OR    = Opcode(6)  // or
	OP_XOR   = Opcode(7)  // xor
	OP_SHL   = Opcode(8)  // shl
	OP_SHR   = Opcode(9)  // shr
	OP_SLT   = Opcode(10) // slt
	OP_SLE   = Opcode(11) // sle
	OP_SEQ   = Opcode(12) // seq
	OP_LOAD  = Opcode(13) // load
	OP_STORE = Opcode(14) // store
	OP_JMP   = Opcode(15) // jmp
	OP_BRAZ  = Opcode(16) // braz
	OP_BRANZ = Opcode(17) // branz
	OP_SCALL = Opcode(18) // scall
)

// OPCODE_COUNT is the number of defined opcodes.
const OPCODE_COUNT = 19

// Format is an instruction word layout.
type Format int

const (
	FORMAT_A = Format(0) // opcode
	FORMAT_B = Format(1) // opcode | value
	FORMAT_C = Format(2) // opcode | reg | address
	FORMAT_D = Format(3) // opcode | imm | target | dest
	FORMAT_E = Format(4) // opcode | r1 | imm | operand2 | dest
)

// Field positions and masks of an instruction word.
const (
	OPCODE_SHIFT = 27
	OPCODE_MASK  = uint32(0xF8000000)

	IMM1_SHIFT = 26
	IMM1_MASK  = uint32(0x04000000) // D: target is a direct address
	O1_SHIFT   = 5
	O1_MASK    = uint32(0x03FFFFE0) // D: target, 21 bits
	R1_SHIFT   = 22
	R1_MASK    = uint32(0x07C00000) // C, E: first register, 5 bits
	IMM2_SHIFT = 21
	IMM2_MASK  = uint32(0x00200000) // E: operand2 is an immediate
	O2_SHIFT   = 5
	O2_MASK    = uint32(0x001FFFE0) // E: operand2, 16 bits
	R2_MASK    = uint32(0x0000001F) // D, E: destination register, 5 bits
	A_MASK     = uint32(0x003FFFFF) // C: address, 22 bits
	N_MASK     = uint32(0x07FFFFFF) // B: value, 27 bits
)

// Largest values that fit each operand field.
const (
	N_MAX  = N_MASK
	A_MAX  = A_MASK
	O1_MAX = O1_MASK >> O1_SHIFT
	O2_MAX = O2_MASK >> O2_SHIFT
)

// mnemonicMap maps assembler mnemonics to opcodes.
var mnemonicMap = map[string]Opcode{
	"stop":  OP_STOP,
	"add":   OP_ADD,
	"sub":   OP_SUB,
	"mul":   OP_MUL,
	"div":   OP_DIV,
	"and":   OP_AND,
	"or":    OP_OR,
	"xor":   OP_XOR,
	"shl":   OP_SHL,
	"shr":   OP_SHR,
	"slt":   OP_SLT,
	"sle":   OP_SLE,
	"seq":   OP_SEQ,
	"load":  OP_LOAD,
	"store": OP_STORE,
	"jmp":   OP_JMP,
	"braz":  OP_BRAZ,
	"branz": OP_BRANZ,
	"scall": OP_SCALL,
}

// LookupMnemonic returns the opcode for an assembler mnemonic.
func LookupMnemonic(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[mnemonic]
	return
}

// Valid returns true if the opcode is defined.
func (op Opcode) Valid() bool {
	return op < OPCODE_COUNT
}

// Format returns the word layout used by the opcode.
func (op Opcode) Format() Format {
	switch op {
	case OP_STOP:
		return FORMAT_A
	case OP_SCALL:
		return FORMAT_B
	case OP_BRAZ, OP_BRANZ:
		return FORMAT_C
	case OP_JMP:
		return FORMAT_D
	}
	return FORMAT_E
}

// Arity returns the number of assembler operands the opcode takes.
func (op Opcode) Arity() int {
	switch op.Format() {
	case FORMAT_A:
		return 0
	case FORMAT_B:
		return 1
	case FORMAT_C, FORMAT_D:
		return 2
	}
	return 3
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// MakeCodeA creates a format A (no operand) instruction.
func MakeCodeA(op Opcode) uint32 {
	return (uint32(op) << OPCODE_SHIFT) & OPCODE_MASK
}

// MakeCodeB creates a format B instruction with a 27-bit value.
func MakeCodeB(op Opcode, value uint32) uint32 {
	return MakeCodeA(op) | (value & N_MASK)
}

// MakeCodeC creates a format C instruction testing reg, branching to address.
func MakeCodeC(op Opcode, reg uint32, address uint32) uint32 {
	return MakeCodeA(op) | ((reg << R1_SHIFT) & R1_MASK) | (address & A_MASK)
}

// MakeCodeD creates a format D instruction. If imm is set, target is a
// direct address, otherwise the index of the register holding it.
func MakeCodeD(op Opcode, imm bool, target uint32, dest uint32) uint32 {
	return MakeCodeA(op) |
		(b2u(imm) << IMM1_SHIFT) |
		((target << O1_SHIFT) & O1_MASK) |
		(dest & R2_MASK)
}

// MakeCodeE creates a format E instruction. If imm is set, operand2 is a
// literal, otherwise a register index.
func MakeCodeE(op Opcode, r1 uint32, imm bool, operand2 uint32, dest uint32) uint32 {
	return MakeCodeA(op) |
		((r1 << R1_SHIFT) & R1_MASK) |
		(b2u(imm) << IMM2_SHIFT) |
		((operand2 << O2_SHIFT) & O2_MASK) |
		(dest & R2_MASK)
}

// Instruction is a decoded instruction word. Every field of every format is
// present; the opcode determines which are meaningful.
type Instruction struct {
	Opcode Opcode // Bits 31-27.
	Imm1   bool   // Bit 26, format D.
	O1     uint32 // Bits 25-5, format D target.
	R1     uint32 // Bits 26-22, format C and E.
	Imm2   bool   // Bit 21, format E.
	O2     uint32 // Bits 20-5, format E operand2.
	R2     uint32 // Bits 4-0, format D and E destination.
	A      uint32 // Bits 21-0, format C address.
	N      uint32 // Bits 26-0, format B value.
}

// Decode extracts all fields from an instruction word.
func Decode(word uint32) (inst Instruction) {
	inst = Instruction{
		Opcode: Opcode((word & OPCODE_MASK) >> OPCODE_SHIFT),
		Imm1:   (word & IMM1_MASK) != 0,
		O1:     (word & O1_MASK) >> O1_SHIFT,
		R1:     (word & R1_MASK) >> R1_SHIFT,
		Imm2:   (word & IMM2_MASK) != 0,
		O2:     (word & O2_MASK) >> O2_SHIFT,
		R2:     word & R2_MASK,
		A:      word & A_MASK,
		N:      word & N_MASK,
	}
	return
}

// Encode re-encodes the fields meaningful to the instruction's opcode.
func (inst Instruction) Encode() (word uint32) {
	op := inst.Opcode
	switch op.Format() {
	case FORMAT_A:
		word = MakeCodeA(op)
	case FORMAT_B:
		word = MakeCodeB(op, inst.N)
	case FORMAT_C:
		word = MakeCodeC(op, inst.R1, inst.A)
	case FORMAT_D:
		word = MakeCodeD(op, inst.Imm1, inst.O1, inst.R2)
	case FORMAT_E:
		word = MakeCodeE(op, inst.R1, inst.Imm2, inst.O2, inst.R2)
	}
	return
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() (out string) {
	op := inst.Opcode
	if !op.Valid() {
		return op.String()
	}

	switch op.Format() {
	case FORMAT_A:
		out = op.String()
	case FORMAT_B:
		out = fmt.Sprintf("%v %v", op, inst.N)
	case FORMAT_C:
		out = fmt.Sprintf("%v r%v,%v", op, inst.R1, inst.A)
	case FORMAT_D:
		if inst.Imm1 {
			out = fmt.Sprintf("%v %v,r%v", op, inst.O1, inst.R2)
		} else {
			out = fmt.Sprintf("%v r%v,r%v", op, inst.O1, inst.R2)
		}
	case FORMAT_E:
		if inst.Imm2 {
			out = fmt.Sprintf("%v r%v,#%v,r%v", op, inst.R1, inst.O2, inst.R2)
		} else {
			out = fmt.Sprintf("%v r%v,r%v,r%v", op, inst.R1, inst.O2, inst.R2)
		}
	}

	return
}
