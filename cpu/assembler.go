// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"io"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/isasim/translate"
)

const (
	REGISTER_SIGIL = 'r' // Prefix of a register operand.
	LITERAL_SIGIL  = '#' // Optional prefix of an immediate operand.
	LABEL_SUFFIX   = ":" // Suffix of a label line.
	COMMENT        = ";" // Start of a comment.

	LINK_REGISTER = 7 // Link register of the single operand 'jmp target'.
)

// Line is a normalized line of source text.
type Line struct {
	LineNo int    // Source line number, starting at 1.
	Text   string // Trimmed text without comments.
}

// Normalize reads source text, dropping comments and blank lines.
func Normalize(input io.Reader) (lines []Line, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno += 1

		text, _, _ := strings.Cut(scanner.Text(), COMMENT)
		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}

		lines = append(lines, Line{LineNo: lineno, Text: text})
	}

	err = scanner.Err()
	return
}

// Operand is a resolved instruction operand. Labels and immediates both
// resolve to a plain value.
type Operand struct {
	Value    uint32 // Register index, immediate or label address.
	Register bool   // Set if Value is a register index.
}

// Assembler is a two pass assembler for the isasim instruction set.
type Assembler struct {
	Verbose   bool        // If set, echoes every assembled instruction.
	Statement []Statement // List of generated statements.

	Label map[string]uint32 // Map of labels to instruction addresses.
}

// labelOf returns the label defined by a line, if it is a label line.
func labelOf(text string) (label string, ok bool) {
	label, ok = strings.CutSuffix(text, LABEL_SUFFIX)
	return
}

// validLabel checks that a label can be referenced as an operand. Words
// starting with REGISTER_SIGIL always parse as registers.
func validLabel(label string) bool {
	if len(label) == 0 || label[0] == REGISTER_SIGIL {
		return false
	}
	return !strings.ContainsAny(label, " \t,:;()$#")
}

// splitInstruction splits an instruction line into mnemonic and operands.
func splitInstruction(text string) (mnemonic string, args []string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	mnemonic = words[0]
	if len(words) > 1 {
		args = splitOperands(strings.Join(words[1:], ""))
	}

	return
}

// splitOperands splits on commas that are not inside a $(...) expression.
func splitOperands(text string) (args []string) {
	var depth int
	var start int
	for n, c := range text {
		switch c {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				args = append(args, text[start:n])
				start = n + 1
			}
		}
	}
	args = append(args, text[start:])
	return
}

// Resolve is the first assembler pass. It assigns an address to every
// instruction line, and returns the map of labels to addresses.
func (asm *Assembler) Resolve(lines []Line) (labels map[string]uint32, err error) {
	labels = make(map[string]uint32, 16)

	var pc uint32
	for _, line := range lines {
		label, ok := labelOf(line.Text)
		if ok {
			switch {
			case !validLabel(label):
				err = ErrLabelInvalid
			case hasKey(labels, label):
				err = ErrLabelDuplicate
			}
			if err != nil {
				err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: err}
				return
			}
			labels[label] = pc
			continue
		}

		mnemonic, _ := splitInstruction(line.Text)
		_, ok = LookupMnemonic(mnemonic)
		if !ok {
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: ErrMnemonicUnknown(mnemonic)}
			return
		}
		pc += 1
	}

	return
}

func hasKey[K comparable, V any](m map[K]V, key K) (ok bool) {
	_, ok = m[key]
	return
}

// parenEval does compile-time $(...) evaluations, with labels predeclared.
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for label, addr := range asm.Label {
		if !isName(label) {
			continue
		}
		pred[label] = starlark.MakeUint(uint(addr))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_uint64, ok := st_int.Uint64()
	if !ok || st_uint64 > math.MaxUint32 {
		err = ErrImmediateRange
		return
	}
	value = uint32(st_uint64)
	return
}

// isIdentifier returns true if the word could only have been a label.
func isIdentifier(word string) bool {
	c, _ := utf8.DecodeRuneInString(word)
	return c == '_' || unicode.IsLetter(c)
}

// isName returns true if the label can be referenced from an expression.
func isName(label string) bool {
	for n, c := range label {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case n > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return len(label) > 0
}

// Operand resolves a single operand word: a register, a label, a $(...)
// expression, or an unsigned decimal immediate.
func (asm *Assembler) Operand(word string) (op Operand, err error) {
	if len(word) == 0 {
		err = ErrParseValue(word)
		return
	}

	if word[0] == REGISTER_SIGIL {
		var v64 uint64
		v64, err = strconv.ParseUint(word[1:], 10, 32)
		if err != nil {
			err = errors.Join(ErrRegisterInvalid, ErrParseNumber(word[1:]))
			return
		}
		if v64 >= REGISTER_COUNT {
			err = ErrRegisterRange
			return
		}
		op = Operand{Value: uint32(v64), Register: true}
		return
	}

	addr, ok := asm.Label[word]
	if ok {
		op = Operand{Value: addr}
		return
	}

	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		op.Value, err = asm.parenEval(word[2 : len(word)-1])
		return
	}

	if isIdentifier(word) {
		err = ErrLabelMissing(word)
		return
	}

	literal := strings.TrimPrefix(word, string(LITERAL_SIGIL))
	v64, err := strconv.ParseUint(literal, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			err = ErrImmediateRange
		} else {
			err = errors.Join(ErrImmediateInvalid, ErrParseNumber(literal))
		}
		return
	}

	op = Operand{Value: uint32(v64)}
	return
}

// operands resolves all operand words.
func (asm *Assembler) operands(args []string) (ops []Operand, err error) {
	ops = make([]Operand, len(args))
	for n, arg := range args {
		ops[n], err = asm.Operand(arg)
		if err != nil {
			err = &ErrOperand{Index: n, Word: arg, Err: err}
			return
		}
	}
	return
}

// expect checks the kind and width of a resolved operand.
func expect(ops []Operand, index int, register bool, max uint32) (err error) {
	op := ops[index]
	switch {
	case register && !op.Register:
		err = ErrRegisterExpected
	case !register && op.Register:
		err = ErrValueExpected
	case op.Value > max:
		err = ErrImmediateRange
	}
	if err != nil {
		err = &ErrOperand{Index: index, Err: err}
	}
	return
}

// encode builds the machine word for an opcode and its resolved operands.
func encode(op Opcode, ops []Operand) (code uint32, err error) {
	if len(ops) != op.Arity() {
		err = ErrOperandCount{Opcode: op, Want: op.Arity(), Have: len(ops)}
		return
	}

	reg := uint32(REGISTER_COUNT - 1)

	switch op.Format() {
	case FORMAT_A:
		code = MakeCodeA(op)
	case FORMAT_B:
		err = expect(ops, 0, false, N_MAX)
		if err != nil {
			return
		}
		code = MakeCodeB(op, ops[0].Value)
	case FORMAT_C:
		err = errors.Join(expect(ops, 0, true, reg), expect(ops, 1, false, A_MAX))
		if err != nil {
			return
		}
		code = MakeCodeC(op, ops[0].Value, ops[1].Value)
	case FORMAT_D:
		target := ops[0]
		err = errors.Join(expect(ops, 0, target.Register, O1_MAX), expect(ops, 1, true, reg))
		if err != nil {
			return
		}
		code = MakeCodeD(op, !target.Register, target.Value, ops[1].Value)
	case FORMAT_E:
		operand2 := ops[1]
		err = errors.Join(
			expect(ops, 0, true, reg),
			expect(ops, 1, operand2.Register, O2_MAX),
			expect(ops, 2, true, reg))
		if err != nil {
			return
		}
		code = MakeCodeE(op, ops[0].Value, !operand2.Register, operand2.Value, ops[2].Value)
	}

	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	lines, err := Normalize(input)
	if err != nil {
		return
	}

	prog, err = asm.Assemble(lines)
	return
}

// Assemble assembles normalized lines into a Program.
//
// Unknown mnemonics and malformed operands abort assembly at the first
// offending line. Operand count mismatches are logged and assembly carries
// on, so that all of them are reported, but no Program is returned.
func (asm *Assembler) Assemble(lines []Line) (prog *Program, err error) {
	asm.Statement = asm.Statement[:0]

	asm.Label, err = asm.Resolve(lines)
	if err != nil {
		return
	}

	var counts []error
	var has_stop bool
	var pc uint32

	for _, line := range lines {
		if _, ok := labelOf(line.Text); ok {
			continue
		}

		mnemonic, args := splitInstruction(line.Text)
		op, _ := LookupMnemonic(mnemonic)
		switch {
		case op == OP_STOP:
			has_stop = true
		case op == OP_JMP && len(args) == 1:
			// jmp TARGET => jmp TARGET,r7
			args = append(args, string(REGISTER_SIGIL)+strconv.Itoa(LINK_REGISTER))
		}

		var code uint32
		if len(args) != op.Arity() {
			err = ErrOperandCount{Opcode: op, Want: op.Arity(), Have: len(args)}
		} else {
			var ops []Operand
			ops, err = asm.operands(args)
			if err == nil {
				code, err = encode(op, ops)
			}
		}

		if err != nil {
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: err}
			if !errors.Is(err, ErrOperandCount{}) {
				err = errors.Join(append(counts, err)...)
				return
			}
			log.Print(err)
			counts = append(counts, err)
			err = nil
			pc += 1
			continue
		}

		if asm.Verbose {
			log.Printf("asm: %v: %v %v | %v", pc, op, args, line.Text)
			log.Printf("asm: pc: %v | hex: 0x%08x", pc, code)
		}

		asm.Statement = append(asm.Statement, Statement{
			LineNo: line.LineNo,
			Pc:     pc,
			Text:   line.Text,
			Code:   code,
		})
		pc += 1
	}

	if len(counts) > 0 {
		err = errors.Join(counts...)
		return
	}

	if !has_stop {
		translate.Logf("asm: warning: program has no 'stop' instruction, execution may run past its end")
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}
