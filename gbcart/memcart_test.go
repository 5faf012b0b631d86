package gbcart_test

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ThorbjoernSchulz/gameboy-dumper/gbcart"
)

func TestROMBankView(t *testing.T) {
	img := makeROM(t, 0x01, 1, 0) // 4 banks
	conn, _ := connectSim(t, img)

	rom := conn.ROM()
	if got := rom.NumBanks(); got != 4 {
		t.Fatalf("NumBanks: got %d, want 4", got)
	}

	buf := make([]byte, gbcart.ROMBankSize)
	for bank := 0; bank < rom.NumBanks(); bank++ {
		if err := rom.SwitchBank(bank); err != nil {
			t.Fatalf("SwitchBank(%d): %v", bank, err)
		}
		b := rom.CurrentBank()
		if _, err := io.ReadFull(b, buf); err != nil {
			t.Fatalf("bank %d: %v", bank, err)
		}
		want := img[bank*gbcart.ROMBankSize : (bank+1)*gbcart.ROMBankSize]
		if diff := cmp.Diff(want, buf); diff != "" {
			t.Fatalf("bank %d content mismatch (-rom +read):\n%s", bank, diff)
		}
	}
}

func TestROMBankViewLimits(t *testing.T) {
	conn, _ := connectSim(t, makeROM(t, 0x01, 0, 0))

	rom := conn.ROM()
	if err := rom.SwitchBank(2); err == nil {
		t.Error("switching past the last bank should fail")
	}
	if err := rom.SwitchBank(-1); err == nil {
		t.Error("switching to a negative bank should fail")
	}

	if err := rom.SwitchBank(1); err != nil {
		t.Fatal(err)
	}
	b := rom.CurrentBank()
	if got := b.Name(); got != "rom1" {
		t.Errorf("Name: got %q, want %q", got, "rom1")
	}
	if b.AlwaysWritable() {
		t.Error("ROM bank claims to be writable")
	}
	if _, err := b.Write([]byte{0}); !errors.Is(err, gbcart.ErrReadOnly) {
		t.Errorf("Write: got %v, want ErrReadOnly", err)
	}

	// read to the end, then one more
	if _, err := b.Seek(0, io.SeekEnd); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Read(make([]byte, 1)); err != io.EOF {
		t.Errorf("read at end: got %v, want io.EOF", err)
	}
}

func TestRAMBankView(t *testing.T) {
	conn, cart := connectSim(t, makeROM(t, 0x13, 0, 3)) // 4 RAM banks

	ram, err := conn.RAM()
	if err != nil {
		t.Fatal(err)
	}
	if got := ram.NumBanks(); got != 4 {
		t.Fatalf("NumBanks: got %d, want 4", got)
	}

	conn.EnableRAM()
	defer conn.DisableRAM()

	if err := ram.SwitchBank(2); err != nil {
		t.Fatal(err)
	}
	b := ram.CurrentBank()
	if !b.AlwaysWritable() {
		t.Error("RAM bank should be writable")
	}

	pattern := make([]byte, 64)
	for i := range pattern {
		pattern[i] = byte(i*7 + 3)
	}
	if _, err := b.Write(pattern); err != nil {
		t.Fatal(err)
	}

	// landed in the third 8KiB bank of the backing array
	got := cart.RAM()[2*gbcart.RAMBankSize : 2*gbcart.RAMBankSize+64]
	if diff := cmp.Diff(pattern, got); diff != "" {
		t.Errorf("backing RAM mismatch (-written +stored):\n%s", diff)
	}

	if _, err := b.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	back := make([]byte, 64)
	if _, err := io.ReadFull(b, back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pattern, back); diff != "" {
		t.Errorf("read back mismatch (-written +read):\n%s", diff)
	}
}

func TestRAMBankViewWithoutRAM(t *testing.T) {
	conn, _ := connectSim(t, makeROM(t, 0x01, 0, 0))

	ram, err := conn.RAM()
	if err != nil {
		t.Fatal(err)
	}
	if got := ram.NumBanks(); got != 0 {
		t.Fatalf("NumBanks: got %d, want 0", got)
	}
	if err := ram.SwitchBank(0); err == nil {
		t.Error("switching banks on a RAM-less cartridge should fail")
	}
}
