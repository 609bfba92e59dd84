package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCodec(f *testing.F) {
	for op := range OPCODE_COUNT {
		f.Add(uint8(op), uint32(0), uint32(0), uint32(0), false)
		f.Add(uint8(op), uint32(0xffffffff), uint32(0xffffffff), uint32(0xffffffff), true)
	}

	f.Fuzz(func(t *testing.T, opcode uint8, x, y, z uint32, imm bool) {
		assert := assert.New(t)

		op := Opcode(opcode % OPCODE_COUNT)

		var word uint32
		var expected Instruction

		switch op.Format() {
		case FORMAT_A:
			word = MakeCodeA(op)
			expected = Instruction{Opcode: op}
		case FORMAT_B:
			n := x & N_MAX
			word = MakeCodeB(op, n)
			expected = Instruction{Opcode: op, N: n}
		case FORMAT_C:
			r := x % REGISTER_COUNT
			a := y & A_MAX
			word = MakeCodeC(op, r, a)
			expected = Instruction{Opcode: op, R1: r, A: a}
		case FORMAT_D:
			target := y & O1_MAX
			if !imm {
				target = y % REGISTER_COUNT
			}
			dest := z % REGISTER_COUNT
			word = MakeCodeD(op, imm, target, dest)
			expected = Instruction{Opcode: op, Imm1: imm, O1: target, R2: dest}
		case FORMAT_E:
			r1 := x % REGISTER_COUNT
			o2 := y & O2_MAX
			if !imm {
				o2 = y % REGISTER_COUNT
			}
			dest := z % REGISTER_COUNT
			word = MakeCodeE(op, r1, imm, o2, dest)
			expected = Instruction{Opcode: op, R1: r1, Imm2: imm, O2: o2, R2: dest}
		}

		inst := Decode(word)

		assert.Equal(expected.Opcode, inst.Opcode)
		switch op.Format() {
		case FORMAT_B:
			assert.Equal(expected.N, inst.N)
		case FORMAT_C:
			assert.Equal(expected.R1, inst.R1)
			assert.Equal(expected.A, inst.A)
		case FORMAT_D:
			assert.Equal(expected.Imm1, inst.Imm1)
			assert.Equal(expected.O1, inst.O1)
			assert.Equal(expected.R2, inst.R2)
		case FORMAT_E:
			assert.Equal(expected.R1, inst.R1)
			assert.Equal(expected.Imm2, inst.Imm2)
			assert.Equal(expected.O2, inst.O2)
			assert.Equal(expected.R2, inst.R2)
		}

		assert.Equal(word, inst.Encode())

		// The disassembly assembles back to the same word.
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(inst.String() + "\nstop"))
		if assert.NoError(err, inst.String()) {
			assert.Equal(word, prog.Statements[0].Code, inst.String())
		}
	})
}
