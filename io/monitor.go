package io

// Monitor records syscall numbers in the order they were issued.
type Monitor struct {
	Calls []uint32
}

var _ Syscall = (*Monitor)(nil)

// Reset forgets all recorded syscalls.
func (mon *Monitor) Reset() {
	mon.Calls = nil
}

// Syscall records number.
func (mon *Monitor) Syscall(number uint32) (err error) {
	mon.Calls = append(mon.Calls, number)
	return
}

// Next removes and returns the oldest recorded syscall.
func (mon *Monitor) Next() (number uint32, ok bool) {
	if len(mon.Calls) > 0 {
		ok = true
		number = mon.Calls[0]
		mon.Calls = mon.Calls[1:]
	}
	return
}
