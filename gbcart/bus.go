// Package gbcart talks to a Game Boy cartridge over raw GPIO: a shift
// register for the 16-bit address bus, 8 bidirectional data lines and
// two active-low strobes. On top of the byte-level bus it decodes the
// cartridge header and performs MBC bank switching.
package gbcart

import (
	"time"

	"github.com/ThorbjoernSchulz/gameboy-dumper/gpio"
	"github.com/ThorbjoernSchulz/gameboy-dumper/shift"
)

const (
	// BlockSize is the unit of bulk reads, for header sniffing and
	// dumping alike.
	BlockSize = 512

	ROMBankSize = 0x4000
	RAMBankSize = 0x2000

	// ROMBankBase is where switchable ROM banks appear; bank 0 is fixed
	// at address 0.
	ROMBankBase = 0x4000
	// RAMBase is where the selected RAM bank appears.
	RAMBase = 0xA000
)

// settleTime is the cartridge bus settle/write-pulse setup time.
const settleTime = 2 * time.Millisecond

// Connection owns the cartridge bus. It is not safe for concurrent use;
// every operation assumes exclusive access to the pins.
type Connection struct {
	addr *shift.Register
	rd   gpio.OutputPin
	wr   gpio.OutputPin
	data InputBus

	header *Header
	mbc    MBC

	// Sleep implements the write settle delays. Tests against a
	// simulated cartridge replace it; on hardware leave it alone.
	Sleep func(time.Duration)
}

// Connect claims the cartridge pins, parks both strobes inactive and
// reads the header from bank 0. The header is read exactly once; it
// fixes the MBC variant for the life of the connection. Cartridges with
// an unknown type or RAM size code are rejected.
func Connect(addr *shift.Register, rd, wr gpio.OutputPin, data [8]gpio.Pin) (*Connection, error) {
	c := &Connection{
		addr:  addr,
		rd:    rd,
		wr:    wr,
		data:  NewDataBus(data),
		Sleep: time.Sleep,
	}
	c.rd.SetHigh()
	c.wr.SetHigh()

	var block [BlockSize]byte
	c.ReadBlock(0, block[:])

	h, err := ParseHeader(block[HeaderOffset : HeaderOffset+HeaderSize])
	if err != nil {
		return nil, err
	}
	mbc, err := MBCForType(h.CartridgeType)
	if err != nil {
		return nil, err
	}
	if _, err := h.RAMBanks(); err != nil {
		return nil, err
	}

	c.header = h
	c.mbc = mbc
	return c, nil
}

func (c *Connection) Header() *Header { return c.header }

func (c *Connection) MBC() MBC { return c.mbc }

func (c *Connection) setAddress(addr uint16) {
	c.addr.LatchLow()
	c.addr.ShiftOut(byte(addr), shift.LSBFirst)
	c.addr.ShiftOut(byte(addr>>8), shift.LSBFirst)
	c.addr.LatchHigh()
}

// ReadByte latches addr and samples the data bus with the read strobe
// active. Reads cannot fail; out-of-range addresses are masked by the
// hardware.
func (c *Connection) ReadByte(addr uint16) byte {
	c.wr.SetHigh()
	c.rd.SetLow()
	c.setAddress(addr)
	v := c.data.ReadByte()
	c.rd.SetHigh()
	return v
}

// WriteByte drives one byte at addr: bus to output, latch the address,
// drive the lines, wait, pulse the write strobe, wait, release, clear
// the lines and return the bus to input.
func (c *Connection) WriteByte(addr uint16, value byte) {
	out := c.data.ToOutput()

	c.setAddress(addr)
	out.WriteByte(value)

	c.Sleep(settleTime)

	c.rd.SetHigh()
	c.wr.SetLow()

	c.Sleep(settleTime)

	c.wr.SetHigh()

	out.Clear()
	c.data = out.ToInput()
}

// ReadBlock fills p with consecutive bytes starting at addr.
func (c *Connection) ReadBlock(addr uint16, p []byte) {
	for i := range p {
		p[i] = c.ReadByte(addr)
		addr++
	}
}
