package gbcart_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ThorbjoernSchulz/gameboy-dumper/gbcart"
)

func TestConnectReadsHeader(t *testing.T) {
	conn, _ := connectSim(t, makeROM(t, 0x01, 1, 2))

	h := conn.Header()
	if got := h.TitleString(); got != "TESTCART" {
		t.Errorf("title: got %q", got)
	}
	if conn.MBC() != gbcart.MBC1 {
		t.Errorf("MBC: got %s, want MBC1", conn.MBC())
	}
	if got := h.ROMBanks(); got != 4 {
		t.Errorf("ROM banks: got %d, want 4", got)
	}
}

func TestReadBlockMatchesROM(t *testing.T) {
	rom := makeROM(t, 0x01, 0, 0)
	conn, _ := connectSim(t, rom)

	buf := make([]byte, gbcart.BlockSize)
	conn.ReadBlock(0x40, buf)
	if diff := cmp.Diff(rom[0x40:0x40+gbcart.BlockSize], buf); diff != "" {
		t.Errorf("block mismatch (-rom +read):\n%s", diff)
	}
}

func TestDataBusRoundTrip(t *testing.T) {
	conn, _ := connectSim(t, makeROM(t, 0x13, 0, 2))

	conn.EnableRAM()
	defer conn.DisableRAM()

	conn.WriteByte(gbcart.RAMBase, 0xA5)
	if got := conn.ReadByte(gbcart.RAMBase); got != 0xA5 {
		t.Errorf("round trip: got 0x%02X, want 0xA5", got)
	}

	// last byte of the bank
	conn.WriteByte(gbcart.RAMBase+gbcart.RAMBankSize-1, 0x5A)
	if got := conn.ReadByte(gbcart.RAMBase + gbcart.RAMBankSize - 1); got != 0x5A {
		t.Errorf("round trip at bank end: got 0x%02X, want 0x5A", got)
	}
}

func TestWriteIgnoredWhileRAMDisabled(t *testing.T) {
	conn, _ := connectSim(t, makeROM(t, 0x13, 0, 2))

	conn.WriteByte(gbcart.RAMBase, 0x42)
	if got := conn.ReadByte(gbcart.RAMBase); got != 0xFF {
		t.Errorf("disabled RAM read: got 0x%02X, want 0xFF", got)
	}
}
