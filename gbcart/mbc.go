package gbcart

import "fmt"

// MBC identifies the memory bank controller on the cartridge. The set is
// closed; it is fixed by the cartridge hardware that exists.
type MBC int

const (
	RomOnly MBC = iota
	MBC1
	MBC2
	MBC3
	MBC5
)

func (m MBC) String() string {
	switch m {
	case RomOnly:
		return "ROM only"
	case MBC1:
		return "MBC1"
	case MBC2:
		return "MBC2"
	case MBC3:
		return "MBC3"
	case MBC5:
		return "MBC5"
	}
	return fmt.Sprintf("MBC(%d)", int(m))
}

// MBCForType maps the header's cartridge type byte to its controller.
// Types outside the known ranges cannot be addressed safely, so decoding
// them is an error.
func MBCForType(cartridgeType byte) (MBC, error) {
	switch {
	case cartridgeType == 0x00:
		return RomOnly, nil
	case cartridgeType >= 0x01 && cartridgeType <= 0x03:
		return MBC1, nil
	case cartridgeType == 0x05 || cartridgeType == 0x06:
		return MBC2, nil
	case cartridgeType >= 0x0F && cartridgeType <= 0x13:
		return MBC3, nil
	case cartridgeType >= 0x19 && cartridgeType <= 0x1E:
		return MBC5, nil
	}
	return 0, fmt.Errorf("unknown cartridge type 0x%02X", cartridgeType)
}

// MBC control register pseudo-addresses. Writes to these land in the
// controller's latches, not in memory.
const (
	regRAMEnable   = 0x0000
	regROMBankLow  = 0x2FFF // low bank bits, anywhere in 0x2000-0x3FFF (0x2000-0x2FFF on MBC5)
	regROMBankHigh = 0x3000 // MBC5: bit 8 of the ROM bank
	regBankUpper   = 0x4000 // RAM bank, doubling as upper ROM bits on MBC1
	regMBC2Bank    = 0x0100 // MBC2 ROM bank; address bit 8 must be set
)

// SelectROMBank maps ROM bank number bank in at 0x4000. The bank latch
// lives on the cartridge and persists until the next select.
func (c *Connection) SelectROMBank(bank uint16) error {
	switch c.mbc {
	case RomOnly:
		return fmt.Errorf("select ROM bank %d: %s cartridge has no switchable banks", bank, c.mbc)
	case MBC1:
		c.WriteByte(regROMBankLow, byte(bank&0x1F))
		if upper := byte((bank >> 8) & 3); upper != 0 {
			c.WriteByte(regBankUpper, upper)
		}
	case MBC2:
		c.WriteByte(regMBC2Bank, byte(bank&0xF))
	case MBC3:
		c.WriteByte(regROMBankLow, byte(bank&0x7F))
	case MBC5:
		c.WriteByte(regROMBankHigh, byte((bank>>8)&1))
		c.WriteByte(regROMBankLow, byte(bank))
	}
	return nil
}

// SelectRAMBank maps RAM bank number bank in at 0xA000. RAM must be
// enabled for the mapping to be readable.
func (c *Connection) SelectRAMBank(bank byte) error {
	switch c.mbc {
	case RomOnly, MBC2:
		return fmt.Errorf("select RAM bank %d: %s cartridge has no RAM banking", bank, c.mbc)
	case MBC1, MBC3:
		c.WriteByte(regBankUpper, bank&3)
	case MBC5:
		c.WriteByte(regBankUpper, bank&0xF)
	}
	return nil
}

// EnableRAM unlocks external RAM. The unlock value is the same on every
// variant.
func (c *Connection) EnableRAM() {
	c.WriteByte(regRAMEnable, 0x0A)
}

// DisableRAM locks external RAM again.
func (c *Connection) DisableRAM() {
	c.WriteByte(regRAMEnable, 0x00)
}
