package gbcart_test

import (
	"testing"
	"time"

	"github.com/ThorbjoernSchulz/gameboy-dumper/gbcart"
	"github.com/ThorbjoernSchulz/gameboy-dumper/shift"
	"github.com/ThorbjoernSchulz/gameboy-dumper/simcart"
)

// makeROM builds a ROM image whose header declares the given cartridge
// type and size codes. Bytes outside the header carry a position
// dependent pattern so reads from different banks are distinguishable.
func makeROM(t *testing.T, cartType, romCode, ramCode byte) []byte {
	t.Helper()
	banks := 2 << romCode
	rom := make([]byte, banks*gbcart.ROMBankSize)
	for i := range rom {
		rom[i] = byte(i ^ i>>8 ^ i>>16)
	}

	hdr := rom[gbcart.HeaderOffset : gbcart.HeaderOffset+gbcart.HeaderSize]
	for i := range hdr {
		hdr[i] = 0
	}
	copy(hdr[0x34:], "TESTCART")
	hdr[0x47] = cartType
	hdr[0x48] = romCode
	hdr[0x49] = ramCode

	var x byte
	for _, b := range hdr[0x34:0x4D] {
		x = x - b - 1
	}
	hdr[0x4D] = x
	return rom
}

// connectSim wires a Connection to a simulated cartridge, with the
// hardware settle delays stubbed out.
func connectSim(t *testing.T, rom []byte) (*gbcart.Connection, *simcart.Cartridge) {
	t.Helper()
	cart, err := simcart.New(rom)
	if err != nil {
		t.Fatal(err)
	}
	sdata, latch, clock := cart.ShiftPins()
	rd, wr := cart.StrobePins()
	conn, err := gbcart.Connect(shift.New(sdata, latch, clock), rd, wr, cart.DataPins())
	if err != nil {
		t.Fatal(err)
	}
	conn.Sleep = func(time.Duration) {}
	return conn, cart
}
