// Package shift drives a serial-in/parallel-out shift register through
// three GPIO lines. The cartridge's 16-bit address bus hangs off the
// register's parallel outputs, so the controller only spends three pins
// on addressing.
package shift

import "github.com/ThorbjoernSchulz/gameboy-dumper/gpio"

type BitOrder int

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

// Register is a 74HC595-style shift register. While the latch line is
// held low the parallel outputs keep their previous state; pulling it
// high commits whatever was shifted in.
type Register struct {
	data  gpio.OutputPin
	clock gpio.OutputPin
	latch gpio.OutputPin
}

func New(data, latch, clock gpio.OutputPin) *Register {
	return &Register{data: data, clock: clock, latch: latch}
}

// ShiftOut clocks one byte into the register, one bit per rising clock
// edge, with the data line held stable over the edge.
func (r *Register) ShiftOut(b byte, order BitOrder) {
	for i := 0; i < 8; i++ {
		var bit byte
		switch order {
		case MSBFirst:
			bit = (b >> (7 - i)) & 1
		case LSBFirst:
			bit = (b >> i) & 1
		}
		if bit == 0 {
			r.data.SetLow()
		} else {
			r.data.SetHigh()
		}
		r.clock.SetLow()
		r.clock.SetHigh()
	}
}

func (r *Register) LatchLow() {
	r.latch.SetLow()
}

func (r *Register) LatchHigh() {
	r.latch.SetHigh()
}
