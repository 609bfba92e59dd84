package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, name string, content string) (path string) {
	path = filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestMakeConfig(t *testing.T) {
	assert := assert.New(t)

	cfg, path, err := makeConfig([]string{"-d", "-n", "50", "prog.s"})
	assert.NoError(err)
	assert.Equal("prog.s", path)
	assert.Equal(isasimConfig{Debug: true, MaxTicks: 50}, cfg)

	cfg, path, err = makeConfig([]string{"-b", "-l", "-s", "-o", "out.bin", "-m", "64", "in.bin"})
	assert.NoError(err)
	assert.Equal("in.bin", path)
	assert.Equal(isasimConfig{
		Binary:   true,
		Listing:  true,
		Assemble: true,
		Output:   "out.bin",
		RamSize:  64,
	}, cfg)
}

func TestMakeConfigUsage(t *testing.T) {
	assert := assert.New(t)

	_, _, err := makeConfig([]string{})
	assert.ErrorIs(err, errUsage)

	_, _, err = makeConfig([]string{"a.s", "b.s"})
	assert.ErrorIs(err, errUsage)

	_, _, err = makeConfig([]string{"-n", "many", "a.s"})
	assert.Error(err)

	_, _, err = makeConfig([]string{"-h"})
	assert.ErrorIs(err, flag.ErrHelp)
}

func TestMakeConfigFile(t *testing.T) {
	assert := assert.New(t)

	file := writeFile(t, "isasim.toml", `
Debug = true
MaxTicks = 1000
RamSize = 256
Output = "from-config.bin"
`)

	cfg, path, err := makeConfig([]string{"-config", file, "prog.s"})
	assert.NoError(err)
	assert.Equal("prog.s", path)
	assert.Equal(isasimConfig{
		Debug:    true,
		MaxTicks: 1000,
		RamSize:  256,
		Output:   "from-config.bin",
	}, cfg)

	// Flags take precedence, wherever they appear.
	cfg, _, err = makeConfig([]string{"-n", "5", "-config", file, "-o", "flag.bin", "prog.s"})
	assert.NoError(err)
	assert.Equal(5, cfg.MaxTicks)
	assert.Equal("flag.bin", cfg.Output)
	assert.Equal(256, cfg.RamSize)
	assert.True(cfg.Debug)

	cfg, _, err = makeConfig([]string{"-config", file, "-d=false", "prog.s"})
	assert.NoError(err)
	assert.False(cfg.Debug)
}

func TestMakeConfigFileErrors(t *testing.T) {
	assert := assert.New(t)

	_, _, err := makeConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.toml"), "prog.s"})
	assert.ErrorIs(err, os.ErrNotExist)

	file := writeFile(t, "bogus.toml", "Bogus = 1\n")
	_, _, err = makeConfig([]string{"-config", file, "prog.s"})
	if assert.Error(err) {
		assert.Contains(err.Error(), "Bogus")
	}
}
