// Package io provides the collaborators the isasim CPU delegates to for the
// reserved load/store opcodes and for scall: a word addressed memory (Ram)
// and a syscall recorder (Monitor).
package io

// Memory is a word addressed store reachable by the load and store opcodes.
type Memory interface {
	// Load returns the word at addr.
	Load(addr uint32) (value uint32, err error)
	// Store writes value to the word at addr.
	Store(addr uint32, value uint32) error
}

// Syscall receives the 27-bit syscall numbers issued by scall.
type Syscall interface {
	Syscall(number uint32) error
}
