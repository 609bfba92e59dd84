package cpu

import (
	"errors"

	"github.com/ezrec/isasim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted        = errors.New(f("cpu halted"))
	ErrPcRange       = errors.New(f("program counter out of range"))
	ErrDivideByZero  = errors.New(f("division by zero"))
	ErrRegisterRange = errors.New(f("register index out of range"))
	ErrMemory        = errors.New(f("memory"))
	ErrSyscall       = errors.New(f("syscall"))

	// Program image errors
	ErrBinaryTruncated = errors.New(f("binary image truncated"))

	// Assembler errors
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelInvalid     = errors.New(f("label invalid"))
	ErrRegisterInvalid  = errors.New(f("invalid register index"))
	ErrImmediateInvalid = errors.New(f("invalid immediate"))
	ErrImmediateRange   = errors.New(f("immediate out of range"))
	ErrRegisterExpected = errors.New(f("register expected"))
	ErrValueExpected    = errors.New(f("value expected"))
)

// ErrMnemonicUnknown is returned for an instruction line whose mnemonic is
// not in the opcode table.
type ErrMnemonicUnknown string

func (em ErrMnemonicUnknown) Error() string {
	return f("unknown mnemonic '%v'", string(em))
}

func (em ErrMnemonicUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrMnemonicUnknown)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOperandCount is returned when an instruction has the wrong number of
// operands for its mnemonic.
type ErrOperandCount struct {
	Opcode Opcode
	Want   int
	Have   int
}

func (err ErrOperandCount) Error() string {
	return f("%v expects %d operands, found %d", err.Opcode, err.Want, err.Have)
}

func (err ErrOperandCount) Is(target error) (ok bool) {
	_, ok = target.(ErrOperandCount)
	return
}

// ErrOperand locates an error in the n'th operand of an instruction.
type ErrOperand struct {
	Index int
	Word  string
	Err   error
}

func (err ErrOperand) Error() string {
	if len(err.Word) == 0 {
		return f("operand %d %v", err.Index+1, err.Err)
	}
	return f("operand %d '%v' %v", err.Index+1, err.Word, err.Err)
}

func (err ErrOperand) Unwrap() error {
	return err.Err
}

type ErrOpcode Instruction

func (eo ErrOpcode) Error() string {
	return f("bad instruction %v", Instruction(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
