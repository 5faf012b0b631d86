package gbcart

import (
	"errors"
	"fmt"
	"io"

	"github.com/ThorbjoernSchulz/gameboy-dumper/memcart"
)

// ErrReadOnly is returned by writes to a ROM bank view.
var ErrReadOnly = errors.New("gbcart: ROM bank is read-only")

// ROM returns a bank-switched view of cartridge ROM. Bank 0 is read at
// base 0 with no bank select; every other bank is selected and read at
// 0x4000.
func (c *Connection) ROM() memcart.MemCart {
	r := &romCart{banks: int(c.header.ROMBanks())}
	r.bank = romBank{conn: c}
	return r
}

// RAM returns a bank-switched view of external RAM, one 8KiB bank at
// 0xA000. The caller is responsible for EnableRAM/DisableRAM around any
// access.
func (c *Connection) RAM() (memcart.MemCart, error) {
	n, err := c.header.RAMBanks()
	if err != nil {
		return nil, err
	}
	r := &ramCart{banks: n}
	r.bank = ramBank{conn: c}
	return r, nil
}

type romCart struct {
	banks int
	bank  romBank
}

func (r *romCart) NumBanks() int { return r.banks }

func (r *romCart) CurrentBank() memcart.MemBank { return &r.bank }

func (r *romCart) SwitchBank(n int) error {
	if n < 0 || n >= r.banks {
		return fmt.Errorf("ROM bank %d out of range (0-%d)", n, r.banks-1)
	}
	if n != 0 {
		if err := r.bank.conn.SelectROMBank(uint16(n)); err != nil {
			return err
		}
	}
	r.bank.number = n
	r.bank.off = 0
	return nil
}

type romBank struct {
	conn   *Connection
	number int
	off    int64
}

func (b *romBank) Read(p []byte) (int, error) {
	if b.off >= ROMBankSize {
		return 0, io.EOF
	}
	if rest := ROMBankSize - b.off; int64(len(p)) > rest {
		p = p[:rest]
	}
	base := uint16(0)
	if b.number != 0 {
		base = ROMBankBase
	}
	b.conn.ReadBlock(base+uint16(b.off), p)
	b.off += int64(len(p))
	return len(p), nil
}

func (b *romBank) Write(p []byte) (int, error) {
	return 0, ErrReadOnly
}

func (b *romBank) Seek(offset int64, whence int) (int64, error) {
	return seekBank(&b.off, offset, whence, ROMBankSize)
}

func (b *romBank) Name() string { return fmt.Sprintf("rom%d", b.number) }

func (b *romBank) Size() int64 { return ROMBankSize }

func (b *romBank) AlwaysWritable() bool { return false }

type ramCart struct {
	banks int
	bank  ramBank
}

func (r *ramCart) NumBanks() int { return r.banks }

func (r *ramCart) CurrentBank() memcart.MemBank { return &r.bank }

func (r *ramCart) SwitchBank(n int) error {
	if n < 0 || n >= r.banks {
		return fmt.Errorf("RAM bank %d out of range (0-%d)", n, r.banks-1)
	}
	if err := r.bank.conn.SelectRAMBank(byte(n)); err != nil {
		return err
	}
	r.bank.number = n
	r.bank.off = 0
	return nil
}

type ramBank struct {
	conn   *Connection
	number int
	off    int64
}

func (b *ramBank) Read(p []byte) (int, error) {
	if b.off >= RAMBankSize {
		return 0, io.EOF
	}
	if rest := RAMBankSize - b.off; int64(len(p)) > rest {
		p = p[:rest]
	}
	b.conn.ReadBlock(RAMBase+uint16(b.off), p)
	b.off += int64(len(p))
	return len(p), nil
}

func (b *ramBank) Write(p []byte) (int, error) {
	if b.off+int64(len(p)) > RAMBankSize {
		return 0, fmt.Errorf("write of %d bytes at %d exceeds RAM bank size", len(p), b.off)
	}
	for i, v := range p {
		b.conn.WriteByte(RAMBase+uint16(b.off)+uint16(i), v)
	}
	b.off += int64(len(p))
	return len(p), nil
}

func (b *ramBank) Seek(offset int64, whence int) (int64, error) {
	return seekBank(&b.off, offset, whence, RAMBankSize)
}

func (b *ramBank) Name() string { return fmt.Sprintf("ram%d", b.number) }

func (b *ramBank) Size() int64 { return RAMBankSize }

func (b *ramBank) AlwaysWritable() bool { return true }

func seekBank(off *int64, offset int64, whence int, size int64) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = *off + offset
	case io.SeekEnd:
		pos = size + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position %d", pos)
	}
	*off = pos
	return pos, nil
}
