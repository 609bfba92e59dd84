// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/ezrec/isasim/cpu"
	"github.com/ezrec/isasim/io"
)

// Emulator state. CPU + optional memory + syscall monitor.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Ram     io.Ram     // Data memory, attached when Ram.Capacity > 0.
	Monitor io.Monitor // Syscall recorder.

	MaxTicks int // Tick limit for Run; 0 is unlimited.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(nil),
		Program: &cpu.Program{},
	}

	emu.Cpu.Syscall = &emu.Monitor

	return
}

// Reset loads the program into the CPU, and clears all machine state.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Text = emu.Program.Binary()

	emu.Cpu.Memory = nil
	if emu.Ram.Capacity > 0 {
		emu.Ram.Rewind()
		emu.Cpu.Memory = &emu.Ram
	}

	emu.Monitor.Reset()
	emu.Cpu.Syscall = &emu.Monitor

	emu.Cpu.Reset()

	return
}

// Statement returns the statement at the current PC, or nil.
func (emu *Emulator) Statement() *cpu.Statement {
	return emu.Program.Debug(emu.Cpu.Pc)
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	stmt := emu.Statement()
	if stmt == nil {
		return 0
	}

	return stmt.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Cpu.Halted()

	return
}

// Run ticks the emulator until the program halts, a runtime error occurs,
// or the tick limit is reached.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
