package cpu

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/isasim/io"
	"github.com/ezrec/isasim/translate"
)

// REGISTER_COUNT is the number of general purpose registers.
const REGISTER_COUNT = 8

// State is the execution state of the CPU.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	RUNNING = State(0) // running
	HALTED  = State(1) // halted
)

// Cpu is the simulation context of the virtual machine.
type Cpu struct {
	Verbose bool // Set to enable per-cycle tracing.

	Memory  io.Memory  // Optional memory for load and store.
	Syscall io.Syscall // Optional handler for scall.

	Text     []uint32               // Program words, indexed by Pc.
	Pc       uint32                 // Program counter.
	Register [REGISTER_COUNT]uint32 // Register bank.
	State    State                  // Execution state.

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new CPU ready to run a program.
func NewCpu(text []uint32) (cpu *Cpu) {
	cpu = &Cpu{
		Text: text,
	}

	return
}

// Reset the CPU state: registers cleared, PC at 0, running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Pc = 0
	cpu.State = RUNNING
	cpu.Ticks = 0
}

// Halted returns true once the CPU stops executing.
func (cpu *Cpu) Halted() bool {
	return cpu.State == HALTED
}

// String returns the register bank as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("pc = %04X regs =", cpu.Pc)
	for _, reg := range cpu.Register {
		text += fmt.Sprintf(" %04X", reg)
	}

	return
}

// Fetch returns the word at PC, and advances PC.
func (cpu *Cpu) Fetch() (word uint32, err error) {
	if uint64(cpu.Pc) >= uint64(len(cpu.Text)) {
		err = ErrPcRange
		return
	}

	word = cpu.Text[cpu.Pc]
	cpu.Pc += 1

	return
}

// Tick executes a single fetch, decode and execute cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.State == HALTED {
		err = ErrHalted
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %v", cpu)
	}

	pc := cpu.Pc
	word, err := cpu.Fetch()
	if err != nil {
		err = fmt.Errorf("%w: %v >= %v", err, pc, len(cpu.Text))
		cpu.State = HALTED
		return
	}

	inst := Decode(word)

	if cpu.Verbose {
		log.Printf("cpu: %03x: 0x%08x %v", pc, word, inst)
	}

	err = cpu.Execute(inst)
	if err != nil {
		cpu.State = HALTED
		return
	}

	cpu.Ticks += 1

	return
}

// Run ticks the CPU until it halts, or a fatal error occurs.
func (cpu *Cpu) Run() (err error) {
	for cpu.State == RUNNING {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// reg checks that a decoded register field names a register.
func reg(index uint32) (err error) {
	if index >= REGISTER_COUNT {
		err = fmt.Errorf("%w: r%v", ErrRegisterRange, index)
	}
	return
}

// Execute executes a single decoded instruction. The PC must already point
// to the next instruction.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(inst), err)
		}
	}()

	op := inst.Opcode
	if !op.Valid() {
		translate.Logf("cpu: %03x: unknown opcode %v, halting", cpu.Pc-1, uint8(op))
		cpu.State = HALTED
		return
	}

	switch op.Format() {
	case FORMAT_A:
		// stop
		if cpu.Verbose {
			log.Printf("cpu: halt")
		}
		cpu.State = HALTED
	case FORMAT_B:
		// scall
		translate.Logf("cpu: scall %v", inst.N)
		if cpu.Syscall != nil {
			err = cpu.Syscall.Syscall(inst.N)
			if err != nil {
				err = errors.Join(ErrSyscall, err)
			}
		}
	case FORMAT_C:
		err = reg(inst.R1)
		if err != nil {
			return
		}
		zero := cpu.Register[inst.R1] == 0
		if (op == OP_BRAZ) == zero {
			cpu.Pc = inst.A
		}
	case FORMAT_D:
		// jmp
		err = errors.Join(reg(inst.R2), cond(!inst.Imm1, reg(inst.O1)))
		if err != nil {
			return
		}
		cpu.Register[inst.R2] = cpu.Pc
		if inst.Imm1 {
			cpu.Pc = inst.O1
		} else {
			cpu.Pc = cpu.Register[inst.O1]
		}
	case FORMAT_E:
		err = errors.Join(reg(inst.R1), cond(!inst.Imm2, reg(inst.O2)), reg(inst.R2))
		if err != nil {
			return
		}
		input := cpu.Register[inst.R1]
		value := inst.O2
		if !inst.Imm2 {
			value = cpu.Register[inst.O2]
		}
		switch op {
		case OP_LOAD, OP_STORE:
			err = cpu.doMemory(op, input+value, inst.R2)
		default:
			var output uint32
			output, err = cpu.doAlu(op, input, value)
			if err != nil {
				return
			}
			cpu.Register[inst.R2] = output
		}
	}

	return
}

// cond returns err only if enabled.
func cond(enabled bool, err error) error {
	if enabled {
		return err
	}
	return nil
}

// doMemory performs a load or store against the attached memory. Without
// memory, both are reported and otherwise ignored.
func (cpu *Cpu) doMemory(op Opcode, addr uint32, dst uint32) (err error) {
	if cpu.Memory == nil {
		translate.Logf("cpu: %v [0x%x] r%v: no memory attached, ignored", op, addr, dst)
		return
	}

	switch op {
	case OP_LOAD:
		var value uint32
		value, err = cpu.Memory.Load(addr)
		if err != nil {
			err = errors.Join(ErrMemory, err)
			return
		}
		translate.Logf("cpu: load [0x%x] => r%v = 0x%x", addr, dst, value)
		cpu.Register[dst] = value
	case OP_STORE:
		value := cpu.Register[dst]
		err = cpu.Memory.Store(addr, value)
		if err != nil {
			err = errors.Join(ErrMemory, err)
			return
		}
		translate.Logf("cpu: store [0x%x] <= r%v = 0x%x", addr, dst, value)
	}

	return
}

// doAlu performs the requested arithmetic or compare, and returns the output value.
func (cpu *Cpu) doAlu(op Opcode, input uint32, value uint32) (output uint32, err error) {
	switch op {
	case OP_ADD:
		output = input + value
	case OP_SUB:
		output = input - value
	case OP_MUL:
		output = input * value
	case OP_DIV:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		output = input / value
	case OP_AND:
		output = input & value
	case OP_OR:
		output = input | value
	case OP_XOR:
		output = input ^ value
	case OP_SHL:
		value &= 0x1f // clamp to 31 bits of shift
		output = input << value
	case OP_SHR:
		value &= 0x1f // clamp to 31 bits of shift
		output = input >> value
	case OP_SLT:
		output = b2u(input < value)
	case OP_SLE:
		output = b2u(input <= value)
	case OP_SEQ:
		output = b2u(input == value)
	}

	return
}
