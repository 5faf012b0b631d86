// Package memcart models bank-switched cartridge memory. A cartridge
// exposes one or more fixed-size banks through a shared address window;
// switching banks is a side effect on the cartridge itself, so only one
// bank is reachable at a time.
package memcart

import (
	"io"
)

type MemCart interface {
	// NumBanks is the total number of banks, decoded from the cartridge
	// header. Banks are addressed 0..NumBanks()-1.
	NumBanks() int
	// CurrentBank returns the bank mapped in by the last SwitchBank
	// call (bank 0 before any switch).
	CurrentBank() MemBank
	SwitchBank(int) error
}

type MemBank interface {
	io.ReadWriteSeeker

	Name() string         // Implementation-specific name.
	Size() int64          // Size in bytes.
	AlwaysWritable() bool // RAM is always writable, ROM is sometimes writable.
}
