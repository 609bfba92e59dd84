package cpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/olekukonko/tablewriter"
)

// WORD_SIZE is the size in bytes of an instruction word in a binary image.
const WORD_SIZE = 4

// Statement is an assembled source line and its machine word.
type Statement struct {
	LineNo int    // Source line number.
	Pc     uint32 // Instruction address.
	Text   string // Normalized source text.
	Code   uint32 // Machine word.
}

// Program is an assembled program, in execution order.
type Program struct {
	Statements []Statement
}

// NewProgram creates a Program from a machine word stream, using the
// disassembly of each word as its source text.
func NewProgram(words []uint32) (prog *Program) {
	prog = &Program{
		Statements: make([]Statement, len(words)),
	}
	for n, word := range words {
		prog.Statements[n] = Statement{
			LineNo: n + 1,
			Pc:     uint32(n),
			Text:   Decode(word).String(),
			Code:   word,
		}
	}
	return
}

// Debug returns the statement at pc, or nil if pc is outside the program.
func (prog *Program) Debug(pc uint32) (stmt *Statement) {
	for n := range prog.Statements {
		if prog.Statements[n].Pc == pc {
			stmt = &prog.Statements[n]
			break
		}
	}

	return
}

// Binary returns the machine word stream of the program.
func (prog *Program) Binary() (bins []uint32) {
	for _, code := range prog.Codes() {
		bins = append(bins, code)
	}

	return
}

// Codes iterates over the program's addresses and machine words.
func (prog *Program) Codes() iter.Seq2[uint32, uint32] {
	return func(yield func(pc uint32, code uint32) bool) {
		for _, stmt := range prog.Statements {
			if !yield(stmt.Pc, stmt.Code) {
				return
			}
		}
	}
}

// WriteTo writes the program as a big-endian binary image.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	buf := make([]byte, 0, WORD_SIZE*len(prog.Statements))
	for _, code := range prog.Codes() {
		buf = binary.BigEndian.AppendUint32(buf, code)
	}

	written, err := w.Write(buf)
	n = int64(written)
	return
}

// ReadBinary reads a big-endian binary image written by WriteTo.
func ReadBinary(r io.Reader) (words []uint32, err error) {
	var word [WORD_SIZE]byte
	for {
		_, err = io.ReadFull(r, word[:])
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrBinaryTruncated
			return
		}
		if err != nil {
			return
		}
		words = append(words, binary.BigEndian.Uint32(word[:]))
	}
}

// Listing writes a table of addresses, machine words and source lines.
func (prog *Program) Listing(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"pc", "hex", "line", "source"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, stmt := range prog.Statements {
		table.Append([]string{
			fmt.Sprintf("%d", stmt.Pc),
			fmt.Sprintf("0x%08x", stmt.Code),
			fmt.Sprintf("%d", stmt.LineNo),
			stmt.Text,
		})
	}

	table.Render()
}
