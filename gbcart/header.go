package gbcart

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// HeaderOffset is where the header record starts in bank 0.
	HeaderOffset = 0x100
	// HeaderSize is the size of the packed record (0x100-0x14F).
	HeaderSize = 0x50
)

// Header is the fixed-layout cartridge metadata record. Multi-byte
// fields are little-endian; Bytes re-serializes to the exact raw record,
// so a header dump is byte-identical to the cartridge contents.
type Header struct {
	EntryPoint      uint32   // 0x00
	NintendoLogo    [48]byte // 0x04
	Title           [16]byte // 0x34, zero-padded ASCII
	LicenseeCode    [2]byte  // 0x44
	SGBFlag         byte     // 0x46
	CartridgeType   byte     // 0x47, selects the MBC variant
	ROMSizeCode     byte     // 0x48, log2-coded bank count
	RAMSizeCode     byte     // 0x49, enumerated
	DestinationCode byte     // 0x4A
	OldLicenseeCode byte     // 0x4B
	MaskROMVersion  byte     // 0x4C
	HeaderChecksum  byte     // 0x4D, over bytes 0x34-0x4C
	GlobalChecksum  uint16   // 0x4E
}

// ParseHeader decodes the 80-byte record. record must hold the header
// itself, i.e. the bytes starting at ROM offset 0x100.
func ParseHeader(record []byte) (*Header, error) {
	if len(record) < HeaderSize {
		return nil, fmt.Errorf("cartridge header: need %d bytes, got %d", HeaderSize, len(record))
	}
	h := &Header{
		EntryPoint:      binary.LittleEndian.Uint32(record[0x00:0x04]),
		SGBFlag:         record[0x46],
		CartridgeType:   record[0x47],
		ROMSizeCode:     record[0x48],
		RAMSizeCode:     record[0x49],
		DestinationCode: record[0x4A],
		OldLicenseeCode: record[0x4B],
		MaskROMVersion:  record[0x4C],
		HeaderChecksum:  record[0x4D],
		GlobalChecksum:  binary.LittleEndian.Uint16(record[0x4E:0x50]),
	}
	copy(h.NintendoLogo[:], record[0x04:0x34])
	copy(h.Title[:], record[0x34:0x44])
	copy(h.LicenseeCode[:], record[0x44:0x46])
	return h, nil
}

// Bytes packs the header back into its raw 80-byte wire form.
func (h *Header) Bytes() []byte {
	p := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(p[0x00:0x04], h.EntryPoint)
	copy(p[0x04:0x34], h.NintendoLogo[:])
	copy(p[0x34:0x44], h.Title[:])
	copy(p[0x44:0x46], h.LicenseeCode[:])
	p[0x46] = h.SGBFlag
	p[0x47] = h.CartridgeType
	p[0x48] = h.ROMSizeCode
	p[0x49] = h.RAMSizeCode
	p[0x4A] = h.DestinationCode
	p[0x4B] = h.OldLicenseeCode
	p[0x4C] = h.MaskROMVersion
	p[0x4D] = h.HeaderChecksum
	binary.LittleEndian.PutUint16(p[0x4E:0x50], h.GlobalChecksum)
	return p
}

// ROMBanks returns the number of 16KiB ROM banks.
func (h *Header) ROMBanks() uint16 {
	return 2 << h.ROMSizeCode
}

// RAMBanks returns the number of 8KiB RAM banks.
func (h *Header) RAMBanks() (int, error) {
	switch h.RAMSizeCode {
	case 0, 1:
		return 0, nil
	case 2:
		return 1, nil
	case 3:
		return 4, nil
	case 4:
		return 16, nil
	case 5:
		return 8, nil
	}
	return 0, fmt.Errorf("unknown RAM size code 0x%02X", h.RAMSizeCode)
}

// TitleString returns the title field as trimmed ASCII.
func (h *Header) TitleString() string {
	s := h.Title[:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(string(s), " ")
}

// ChecksumOK recomputes the header checksum over the title through mask
// ROM version fields and compares it against the stored value.
func (h *Header) ChecksumOK() bool {
	p := h.Bytes()
	var x byte
	for _, b := range p[0x34:0x4D] {
		x = x - b - 1
	}
	return x == h.HeaderChecksum
}
