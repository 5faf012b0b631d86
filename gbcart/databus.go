package gbcart

import "github.com/ThorbjoernSchulz/gameboy-dumper/gpio"

// The 8 data lines are wired in reverse: bus pin 0 carries value bit 7
// and bus pin 7 carries value bit 0.
//
// Direction is encoded in the bus type itself. An InputBus can only be
// sampled and an OutputBus can only be driven; switching direction
// consumes the old view, so driving the lines while the cartridge does
// is not expressible.

type InputBus struct {
	pins  [8]gpio.Pin
	lines [8]gpio.InputPin
}

// NewDataBus takes ownership of the data pins with the bus in its idle
// input direction.
func NewDataBus(pins [8]gpio.Pin) InputBus {
	var b InputBus
	b.pins = pins
	for i, p := range pins {
		b.lines[i] = p.AsInput()
	}
	return b
}

// ReadByte samples all 8 lines, packing pin 0 into bit 7.
func (b InputBus) ReadByte() byte {
	var v byte
	for _, l := range b.lines {
		v <<= 1
		if l.IsHigh() {
			v |= 1
		}
	}
	return v
}

func (b InputBus) ToOutput() OutputBus {
	var o OutputBus
	o.pins = b.pins
	for i, p := range b.pins {
		o.lines[i] = p.AsOutput()
	}
	return o
}

type OutputBus struct {
	pins  [8]gpio.Pin
	lines [8]gpio.OutputPin
}

// WriteByte drives every line at once; pin 7 carries bit 0.
func (b OutputBus) WriteByte(v byte) {
	for i := 0; i < 8; i++ {
		if v&(1<<i) != 0 {
			b.lines[7-i].SetHigh()
		} else {
			b.lines[7-i].SetLow()
		}
	}
}

// Clear drives all lines low.
func (b OutputBus) Clear() {
	for _, l := range b.lines {
		l.SetLow()
	}
}

func (b OutputBus) ToInput() InputBus {
	return NewDataBus(b.pins)
}
