// Package simcart is a Game Boy cartridge simulated at the GPIO level.
// It stands in for real hardware on the other side of the pins: it
// models the address shift register, the read/write strobes, the MBC
// control latches and the ROM/RAM arrays behind them, so the whole bus
// and protocol stack can run in process.
package simcart

import (
	"fmt"

	"github.com/ThorbjoernSchulz/gameboy-dumper/gbcart"
	"github.com/ThorbjoernSchulz/gameboy-dumper/gpio"
)

type Cartridge struct {
	rom []byte
	ram []byte
	mbc gbcart.MBC

	// shift register capture: last 16 bits in arrival order, committed
	// to addr on the latch rising edge
	bits  [16]byte
	sdata bool
	clock bool
	latch bool
	addr  uint16

	rdActive bool
	wrActive bool
	driven   [8]bool // levels driven by the controller on the data lines

	ramEnabled bool
	bankLow    byte // low ROM bank bits (variant-specific width)
	bankHigh   byte // MBC5 bit 8
	upper2     byte // MBC1 shared upper-bits/RAM-bank register
	mode       byte // MBC1 banking mode
	ramBank    byte
}

// New builds a cartridge around a ROM image. The image's own header
// determines the MBC variant and the amount of RAM. Like real silicon,
// the simulated MBC powers up with ROM bank 1 selected.
func New(rom []byte) (*Cartridge, error) {
	if len(rom) < gbcart.HeaderOffset+gbcart.HeaderSize {
		return nil, fmt.Errorf("ROM image too small for a header: %d bytes", len(rom))
	}
	h, err := gbcart.ParseHeader(rom[gbcart.HeaderOffset : gbcart.HeaderOffset+gbcart.HeaderSize])
	if err != nil {
		return nil, err
	}
	mbc, err := gbcart.MBCForType(h.CartridgeType)
	if err != nil {
		return nil, err
	}
	ramBanks, err := h.RAMBanks()
	if err != nil {
		return nil, err
	}
	return &Cartridge{
		rom:     rom,
		ram:     make([]byte, ramBanks*gbcart.RAMBankSize),
		mbc:     mbc,
		bankLow: 1,
	}, nil
}

// ShiftPins returns the three shift register lines.
func (c *Cartridge) ShiftPins() (data, latch, clock gpio.OutputPin) {
	return (*sdataPin)(c), (*latchPin)(c), (*clockPin)(c)
}

// StrobePins returns the active-low read and write strobes.
func (c *Cartridge) StrobePins() (rd, wr gpio.OutputPin) {
	return (*rdPin)(c), (*wrPin)(c)
}

// DataPins returns the 8 bidirectional data lines, pin 0 first.
func (c *Cartridge) DataPins() [8]gpio.Pin {
	var pins [8]gpio.Pin
	for i := range pins {
		pins[i] = &dataPin{cart: c, idx: i}
	}
	return pins
}

// Latch state accessors for tests.

func (c *Cartridge) ROMBank() int {
	switch c.mbc {
	case gbcart.MBC5:
		return int(c.bankHigh)<<8 | int(c.bankLow)
	case gbcart.MBC1:
		return int(c.upper2)<<5 | int(c.bankLow)
	default:
		return int(c.bankLow)
	}
}

func (c *Cartridge) RAMBank() int {
	if c.mbc == gbcart.MBC1 {
		if c.mode == 1 {
			return int(c.upper2)
		}
		return 0
	}
	return int(c.ramBank)
}

func (c *Cartridge) RAMEnabled() bool { return c.ramEnabled }

// RAM exposes the backing RAM array, for seeding and verification.
func (c *Cartridge) RAM() []byte { return c.ram }

func (c *Cartridge) read(addr uint16) byte {
	switch {
	case addr < gbcart.ROMBankBase:
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
	case addr < 0x8000:
		off := c.ROMBank()*gbcart.ROMBankSize + int(addr-gbcart.ROMBankBase)
		if off < len(c.rom) {
			return c.rom[off]
		}
	case addr >= gbcart.RAMBase && addr < 0xC000:
		if !c.ramEnabled {
			return 0xFF
		}
		off := c.RAMBank()*gbcart.RAMBankSize + int(addr-gbcart.RAMBase)
		if off < len(c.ram) {
			return c.ram[off]
		}
	}
	return 0xFF
}

func (c *Cartridge) write(addr uint16, v byte) {
	if addr >= gbcart.RAMBase && addr < 0xC000 {
		if !c.ramEnabled {
			return
		}
		off := c.RAMBank()*gbcart.RAMBankSize + int(addr-gbcart.RAMBase)
		if off < len(c.ram) {
			c.ram[off] = v
		}
		return
	}
	if addr >= 0x8000 {
		return
	}
	c.writeControl(addr, v)
}

func (c *Cartridge) writeControl(addr uint16, v byte) {
	switch c.mbc {
	case gbcart.RomOnly:
		// no registers

	case gbcart.MBC1:
		switch {
		case addr < 0x2000:
			c.ramEnabled = v&0x0F == 0x0A
		case addr < 0x4000:
			c.bankLow = v & 0x1F
			if c.bankLow == 0 {
				c.bankLow = 1
			}
		case addr < 0x6000:
			c.upper2 = v & 0x03
		case addr < 0x8000:
			c.mode = v & 0x01
		}

	case gbcart.MBC2:
		if addr < 0x4000 {
			// address bit 8 picks between the two registers
			if addr&0x0100 != 0 {
				c.bankLow = v & 0x0F
				if c.bankLow == 0 {
					c.bankLow = 1
				}
			} else {
				c.ramEnabled = v&0x0F == 0x0A
			}
		}

	case gbcart.MBC3:
		switch {
		case addr < 0x2000:
			c.ramEnabled = v&0x0F == 0x0A
		case addr < 0x4000:
			c.bankLow = v & 0x7F
			if c.bankLow == 0 {
				c.bankLow = 1
			}
		case addr < 0x6000:
			c.ramBank = v & 0x03
		}

	case gbcart.MBC5:
		switch {
		case addr < 0x2000:
			c.ramEnabled = v&0x0F == 0x0A
		case addr < 0x3000:
			c.bankLow = v
		case addr < 0x4000:
			c.bankHigh = v & 0x01
		case addr < 0x6000:
			c.ramBank = v & 0x0F
		}
	}
}

func (c *Cartridge) drivenByte() byte {
	var v byte
	for i, high := range c.driven {
		if high {
			v |= 1 << (7 - i)
		}
	}
	return v
}

// shift register lines

type sdataPin Cartridge

func (p *sdataPin) SetHigh() { (*Cartridge)(p).sdata = true }
func (p *sdataPin) SetLow()  { (*Cartridge)(p).sdata = false }

type clockPin Cartridge

func (p *clockPin) SetHigh() {
	c := (*Cartridge)(p)
	if !c.clock {
		copy(c.bits[0:], c.bits[1:])
		if c.sdata {
			c.bits[15] = 1
		} else {
			c.bits[15] = 0
		}
	}
	c.clock = true
}

func (p *clockPin) SetLow() { (*Cartridge)(p).clock = false }

type latchPin Cartridge

func (p *latchPin) SetHigh() {
	c := (*Cartridge)(p)
	if !c.latch {
		// bits arrived low byte first, LSB first within each byte
		var low, high uint16
		for i := 0; i < 8; i++ {
			low |= uint16(c.bits[i]) << i
			high |= uint16(c.bits[8+i]) << i
		}
		c.addr = high<<8 | low
	}
	c.latch = true
}

func (p *latchPin) SetLow() { (*Cartridge)(p).latch = false }

// strobes, active low

type rdPin Cartridge

func (p *rdPin) SetHigh() { (*Cartridge)(p).rdActive = false }
func (p *rdPin) SetLow()  { (*Cartridge)(p).rdActive = true }

type wrPin Cartridge

func (p *wrPin) SetHigh() { (*Cartridge)(p).wrActive = false }

func (p *wrPin) SetLow() {
	c := (*Cartridge)(p)
	if !c.wrActive {
		// falling edge captures whatever the controller drives
		c.write(c.addr, c.drivenByte())
	}
	c.wrActive = true
}

// data lines

type dataPin struct {
	cart *Cartridge
	idx  int
}

func (p *dataPin) AsInput() gpio.InputPin   { return (*dataIn)(p) }
func (p *dataPin) AsOutput() gpio.OutputPin { return (*dataOut)(p) }

type dataIn dataPin

// IsHigh returns the cartridge-driven level: pin idx carries bit 7-idx
// of the byte at the latched address while the read strobe is active.
// With the strobe inactive the line floats low.
func (p *dataIn) IsHigh() bool {
	c := p.cart
	if !c.rdActive {
		return false
	}
	return c.read(c.addr)&(1<<(7-p.idx)) != 0
}

type dataOut dataPin

func (p *dataOut) SetHigh() { p.cart.driven[p.idx] = true }
func (p *dataOut) SetLow()  { p.cart.driven[p.idx] = false }
