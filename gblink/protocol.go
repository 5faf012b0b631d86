// Package gblink implements both ends of the cartridge reader's serial
// protocol: the device-side dispatch loop (Server) and the host-side
// driver (Client).
//
// The wire format is raw binary with no checksums. Every command is the
// sync byte 0xCA followed by one command byte; responses are bulk data.
// The only control bytes are the flash acknowledgements, which appear in
// the FlashRAM stream only.
package gblink

import "github.com/ThorbjoernSchulz/gameboy-dumper/gbcart"

const (
	// Sync precedes every command byte.
	Sync byte = 0xCA

	CmdDumpHeader byte = 0
	CmdDumpROM    byte = 1
	CmdDumpRAM    byte = 2
	CmdFlashRAM   byte = 4

	// ChunkEnd acknowledges one flashed 32-byte chunk, BankEnd one
	// fully flashed RAM bank.
	ChunkEnd byte = 0xAB
	BankEnd  byte = 0xAA
)

const (
	BlockSize = gbcart.BlockSize
	ChunkSize = 32

	ROMBlocksPerBank = gbcart.ROMBankSize / BlockSize
	RAMBlocksPerBank = gbcart.RAMBankSize / BlockSize
	ChunksPerBank    = gbcart.RAMBankSize / ChunkSize
)
