package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		mnemonic string
		op       Opcode
		format   Format
		arity    int
	}){
		{"stop", OP_STOP, FORMAT_A, 0},
		{"add", OP_ADD, FORMAT_E, 3},
		{"sub", OP_SUB, FORMAT_E, 3},
		{"mul", OP_MUL, FORMAT_E, 3},
		{"div", OP_DIV, FORMAT_E, 3},
		{"and", OP_AND, FORMAT_E, 3},
		{"or", OP_OR, FORMAT_E, 3},
		{"xor", OP_XOR, FORMAT_E, 3},
		{"shl", OP_SHL, FORMAT_E, 3},
		{"shr", OP_SHR, FORMAT_E, 3},
		{"slt", OP_SLT, FORMAT_E, 3},
		{"sle", OP_SLE, FORMAT_E, 3},
		{"seq", OP_SEQ, FORMAT_E, 3},
		{"load", OP_LOAD, FORMAT_E, 3},
		{"store", OP_STORE, FORMAT_E, 3},
		{"jmp", OP_JMP, FORMAT_D, 2},
		{"braz", OP_BRAZ, FORMAT_C, 2},
		{"branz", OP_BRANZ, FORMAT_C, 2},
		{"scall", OP_SCALL, FORMAT_B, 1},
	}

	assert.Equal(OPCODE_COUNT, len(table))

	for n, entry := range table {
		op, ok := LookupMnemonic(entry.mnemonic)
		assert.True(ok, entry.mnemonic)
		assert.Equal(entry.op, op, entry.mnemonic)
		assert.Equal(Opcode(n), op, entry.mnemonic)
		assert.Equal(entry.mnemonic, op.String())
		assert.Equal(entry.format, op.Format(), entry.mnemonic)
		assert.Equal(entry.arity, op.Arity(), entry.mnemonic)
		assert.True(op.Valid(), entry.mnemonic)
	}

	_, ok := LookupMnemonic("nop")
	assert.False(ok)
	assert.False(Opcode(19).Valid())
	assert.Equal("Opcode(19)", Opcode(19).String())
}

func TestMakeCode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code uint32
		word uint32
	}){
		{"stop", MakeCodeA(OP_STOP), 0x00000000},
		{"scall 42", MakeCodeB(OP_SCALL, 42), 0x9000002a},
		{"scall 134217727", MakeCodeB(OP_SCALL, N_MAX), 0x97ffffff},
		{"braz r1,3", MakeCodeC(OP_BRAZ, 1, 3), 0x80400003},
		{"branz r1,0", MakeCodeC(OP_BRANZ, 1, 0), 0x88400000},
		{"jmp 0,r7", MakeCodeD(OP_JMP, true, 0, 7), 0x7c000007},
		{"jmp r2,r0", MakeCodeD(OP_JMP, false, 2, 0), 0x78000040},
		{"add r1,r2,r3", MakeCodeE(OP_ADD, 1, false, 2, 3), 0x08400043},
		{"add r1,#3,r3", MakeCodeE(OP_ADD, 1, true, 3, 3), 0x08600063},
		{"seq r7,#65535,r7", MakeCodeE(OP_SEQ, 7, true, O2_MAX, 7), 0x61ffffe7},
	}

	for _, entry := range table {
		assert.Equal(entry.word, entry.code, entry.name)
		assert.Equal(entry.name, Decode(entry.code).String(), entry.name)
	}
}

func TestMakeCodeMasksOverflow(t *testing.T) {
	assert := assert.New(t)

	// Oversized fields never leak into the opcode.
	assert.Equal(OP_SCALL, Decode(MakeCodeB(OP_SCALL, 0xffffffff)).Opcode)
	assert.Equal(OP_BRAZ, Decode(MakeCodeC(OP_BRAZ, 0xff, 0xffffffff)).Opcode)
	assert.Equal(OP_JMP, Decode(MakeCodeD(OP_JMP, true, 0xffffffff, 0xff)).Opcode)
	assert.Equal(OP_ADD, Decode(MakeCodeE(OP_ADD, 0xff, true, 0xffffffff, 0xff)).Opcode)
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	inst := Decode(0xffffffff)
	assert.Equal(Instruction{
		Opcode: Opcode(31),
		Imm1:   true,
		O1:     0x1fffff,
		R1:     0x1f,
		Imm2:   true,
		O2:     0xffff,
		R2:     0x1f,
		A:      0x3fffff,
		N:      0x7ffffff,
	}, inst)
	assert.Equal("Opcode(31)", inst.String())

	assert.Equal(Instruction{}, Decode(0))
	assert.Equal("stop", Decode(0).String())
}

func TestInstructionEncode(t *testing.T) {
	assert := assert.New(t)

	for _, word := range []uint32{
		0x00000000,
		0x9000002a,
		0x80400003,
		0x7c000007,
		0x78000040,
		0x08400043,
		0x08600063,
	} {
		assert.Equal(word, Decode(word).Encode(), "0x%08x", word)
	}
}
