package io

// Ram is a fixed capacity, zero initialized word memory.
type Ram struct {
	Capacity int // Capacity in 32-bit words.

	Data []uint32
}

var _ Memory = (*Ram)(nil)

// Rewind clears the memory, resizing it to Capacity.
func (ram *Ram) Rewind() {
	if cap(ram.Data) >= ram.Capacity {
		ram.Data = ram.Data[:ram.Capacity]
		clear(ram.Data)
		return
	}
	ram.Data = make([]uint32, ram.Capacity)
}

// check validates addr, lazily sizing the backing store.
func (ram *Ram) check(addr uint32) (err error) {
	if ram.Capacity <= 0 {
		err = ErrMemoryEmpty
		return
	}
	if len(ram.Data) != ram.Capacity {
		ram.Rewind()
	}
	if uint64(addr) >= uint64(ram.Capacity) {
		err = ErrAddressRange
		return
	}
	return
}

// Load returns the word at addr.
func (ram *Ram) Load(addr uint32) (value uint32, err error) {
	err = ram.check(addr)
	if err != nil {
		return
	}

	value = ram.Data[addr]
	return
}

// Store writes a word at addr.
func (ram *Ram) Store(addr uint32, value uint32) (err error) {
	err = ram.check(addr)
	if err != nil {
		return
	}

	ram.Data[addr] = value
	return
}
