package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// isasimConfig holds every setting of the command. A TOML file may supply
// any of them, and command line flags take precedence.
type isasimConfig struct {
	Debug    bool   // Trace assembly and execution.
	Binary   bool   // Input is a binary image, not source text.
	Listing  bool   // Print the program listing.
	Assemble bool   // Assemble only, do not execute.
	Output   string // Binary image to write.
	MaxTicks int    // Tick limit; 0 is unlimited.
	RamSize  int    // Data memory size in words; 0 is no memory.
}

var errUsage = errors.New("expected exactly one input file")

func loadConfig(file string, cfg *isasimConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func newFlagSet(cfg *isasimConfig, file *string) (fs *flag.FlagSet) {
	fs = flag.NewFlagSet("isasim", flag.ContinueOnError)

	fs.StringVar(file, "config", "", "TOML configuration file")
	fs.BoolVar(&cfg.Debug, "d", cfg.Debug, "Debug trace of assembly and execution")
	fs.BoolVar(&cfg.Binary, "b", cfg.Binary, "Input file is a binary image")
	fs.BoolVar(&cfg.Listing, "l", cfg.Listing, "Print the program listing")
	fs.BoolVar(&cfg.Assemble, "s", cfg.Assemble, "Assemble only, do not execute")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "Binary image output file")
	fs.IntVar(&cfg.MaxTicks, "n", cfg.MaxTicks, "Tick limit (0 is unlimited)")
	fs.IntVar(&cfg.RamSize, "m", cfg.RamSize, "Data memory size in words (0 is no memory)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: isasim [flags] file\n")
		fs.PrintDefaults()
	}

	return
}

// makeConfig builds the configuration from the optional -config file and
// the command line, and returns the input file path.
func makeConfig(args []string) (cfg isasimConfig, path string, err error) {
	var file string

	// Find the configuration file. Errors are reported by the second pass.
	first := newFlagSet(&isasimConfig{}, &file)
	first.SetOutput(io.Discard)
	_ = first.Parse(args)

	if len(file) != 0 {
		err = loadConfig(file, &cfg)
		if err != nil {
			return
		}
	}

	// Apply flags.
	fs := newFlagSet(&cfg, &file)
	err = fs.Parse(args)
	if err != nil {
		return
	}

	if fs.NArg() != 1 {
		err = errUsage
		return
	}

	path = fs.Arg(0)
	return
}
