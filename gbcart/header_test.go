package gbcart_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ThorbjoernSchulz/gameboy-dumper/gbcart"
)

func TestROMBanks(t *testing.T) {
	for code := byte(0); code <= 8; code++ {
		h := &gbcart.Header{ROMSizeCode: code}
		if got, want := h.ROMBanks(), uint16(2)<<code; got != want {
			t.Errorf("ROM size code %d: got %d banks, want %d", code, got, want)
		}
	}
}

func TestRAMBanks(t *testing.T) {
	want := map[byte]int{0: 0, 1: 0, 2: 1, 3: 4, 4: 16, 5: 8}
	for code, banks := range want {
		h := &gbcart.Header{RAMSizeCode: code}
		got, err := h.RAMBanks()
		if err != nil {
			t.Errorf("RAM size code %d: %v", code, err)
			continue
		}
		if got != banks {
			t.Errorf("RAM size code %d: got %d banks, want %d", code, got, banks)
		}
	}

	h := &gbcart.Header{RAMSizeCode: 6}
	if _, err := h.RAMBanks(); err == nil {
		t.Error("RAM size code 6: expected decode failure")
	}
}

func TestParseHeaderRoundTrip(t *testing.T) {
	rom := makeROM(t, 0x01, 0, 2)
	record := rom[gbcart.HeaderOffset : gbcart.HeaderOffset+gbcart.HeaderSize]
	// entry point and global checksum exercise the little-endian fields
	record[0x00], record[0x01], record[0x02], record[0x03] = 0x00, 0xC3, 0x50, 0x01
	record[0x4E], record[0x4F] = 0x34, 0x12

	h, err := gbcart.ParseHeader(record)
	if err != nil {
		t.Fatal(err)
	}
	if h.EntryPoint != 0x0150C300 {
		t.Errorf("entry point: got 0x%08X, want 0x0150C300", h.EntryPoint)
	}
	if h.GlobalChecksum != 0x1234 {
		t.Errorf("global checksum: got 0x%04X, want 0x1234", h.GlobalChecksum)
	}
	if h.CartridgeType != 0x01 || h.ROMSizeCode != 0 || h.RAMSizeCode != 2 {
		t.Errorf("type/size fields: got %02X/%02X/%02X", h.CartridgeType, h.ROMSizeCode, h.RAMSizeCode)
	}
	if diff := cmp.Diff(record, h.Bytes()); diff != "" {
		t.Errorf("re-serialized record differs (-want +got):\n%s", diff)
	}
}

func TestParseHeaderShortRecord(t *testing.T) {
	if _, err := gbcart.ParseHeader(make([]byte, gbcart.HeaderSize-1)); err == nil {
		t.Error("expected error for short record")
	}
}

func TestTitleString(t *testing.T) {
	rom := makeROM(t, 0x01, 0, 0)
	h, err := gbcart.ParseHeader(rom[gbcart.HeaderOffset : gbcart.HeaderOffset+gbcart.HeaderSize])
	if err != nil {
		t.Fatal(err)
	}
	if got := h.TitleString(); got != "TESTCART" {
		t.Errorf("title: got %q, want %q", got, "TESTCART")
	}
}

func TestChecksumOK(t *testing.T) {
	rom := makeROM(t, 0x01, 0, 0)
	h, err := gbcart.ParseHeader(rom[gbcart.HeaderOffset : gbcart.HeaderOffset+gbcart.HeaderSize])
	if err != nil {
		t.Fatal(err)
	}
	if !h.ChecksumOK() {
		t.Error("checksum should verify on a freshly built header")
	}
	h.Title[0]++
	if h.ChecksumOK() {
		t.Error("checksum should fail after corrupting the title")
	}
}
