// Package cpu implements the virtual machine and assembler for isasim.
//
// The CPU has a program counter (PC) indexing a sequence of 32-bit words,
// eight 32-bit general-purpose registers (r0-r7), and no flags. Each word
// carries a 5-bit opcode in bits 31-27 and up to three operands packed in
// one of five layouts (formats A-E) chosen by the operand count.
//
// The assembler is a two pass assembler: the first pass assigns every
// instruction line an address and records labels, the second pass resolves
// operands and encodes one word per instruction line.
package cpu
