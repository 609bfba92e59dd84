// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/ezrec/isasim/cpu"
	"github.com/ezrec/isasim/emulator"
)

// openInput opens path for reading, with "-" as standard input.
func openInput(path string) (rc io.ReadCloser, err error) {
	if path == "-" {
		rc = io.NopCloser(os.Stdin)
		return
	}

	rc, err = os.Open(path)
	return
}

// loadProgram assembles, or reads as a binary image, the program at path.
func loadProgram(path string, cfg *isasimConfig) (prog *cpu.Program, err error) {
	inf, err := openInput(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if cfg.Binary {
		var words []uint32
		words, err = cpu.ReadBinary(inf)
		if err != nil {
			return
		}
		prog = cpu.NewProgram(words)
		return
	}

	asm := &cpu.Assembler{Verbose: cfg.Debug}
	prog, err = asm.Parse(inf)
	return
}

// saveProgram writes the binary image of prog to path.
func saveProgram(path string, prog *cpu.Program) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	_, err = prog.WriteTo(ouf)
	err = errors.Join(err, ouf.Close())
	return
}

// execute runs prog to completion, returning the halted emulator.
func execute(prog *cpu.Program, cfg *isasimConfig) (emu *emulator.Emulator, err error) {
	emu = emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = cfg.Debug
	emu.MaxTicks = cfg.MaxTicks
	emu.Ram.Capacity = cfg.RamSize

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run()
	return
}

func main() {
	cfg, path, err := makeConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	prog, err := loadProgram(path, &cfg)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if cfg.Listing {
		prog.Listing(os.Stdout)
	}

	if len(cfg.Output) != 0 {
		err = saveProgram(cfg.Output, prog)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Output, err)
		}
	}

	if cfg.Assemble {
		return
	}

	emu, err := execute(prog, &cfg)
	if cfg.Debug {
		log.Printf("isasim: %v ticks, %v", emu.Ticks, emu.Cpu)
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
}
