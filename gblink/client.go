package gblink

import (
	"fmt"
	"io"

	"github.com/jacobsa/go-serial/serial"
	"github.com/sirupsen/logrus"

	"github.com/ThorbjoernSchulz/gameboy-dumper/gbcart"
)

// Client is the host-side driver for a cartridge reader attached to a
// serial port. All operations are synchronous with respect to the link;
// a reader that stops responding blocks the calling goroutine.
type Client struct {
	fd  io.ReadWriteCloser
	opt serial.OpenOptions
	log *logrus.Entry
}

func New() *Client {
	return &Client{log: logrus.WithField("mod", "gblink")}
}

// NewWithPort wraps an already open transport. Used by tests and the
// simulator frontend; real ports go through SetOptions/Connect.
func NewWithPort(fd io.ReadWriteCloser) *Client {
	c := New()
	c.fd = fd
	return c
}

func (c *Client) SetOptions(options serial.OpenOptions) {
	c.opt = options
}

func (c *Client) Connect() error {
	f, err := serial.Open(c.opt)
	if err != nil {
		return err
	}
	c.fd = f
	return nil
}

func (c *Client) Disconnect() error {
	err := c.fd.Close()
	c.fd = nil
	return err
}

func (c *Client) command(cmd byte) error {
	_, err := c.fd.Write([]byte{Sync, cmd})
	return err
}

// Header requests and decodes the cartridge header record.
func (c *Client) Header() (*gbcart.Header, error) {
	if err := c.command(CmdDumpHeader); err != nil {
		return nil, err
	}
	record := make([]byte, gbcart.HeaderSize)
	if _, err := io.ReadFull(c.fd, record); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	return gbcart.ParseHeader(record)
}

// DumpROM streams the whole ROM into w. h must be the header previously
// read from the same cartridge; it decides how many banks arrive.
func (c *Client) DumpROM(h *gbcart.Header, w io.Writer) error {
	if err := c.command(CmdDumpROM); err != nil {
		return err
	}
	banks := int(h.ROMBanks())
	buf := make([]byte, BlockSize)
	for bank := 0; bank < banks; bank++ {
		c.log.WithFields(logrus.Fields{"bank": bank, "banks": banks}).Info("dumping ROM bank")
		for i := 0; i < ROMBlocksPerBank; i++ {
			if _, err := io.ReadFull(c.fd, buf); err != nil {
				return fmt.Errorf("ROM bank %d block %d: %w", bank, i, err)
			}
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// DumpRAM streams all RAM banks into w.
func (c *Client) DumpRAM(h *gbcart.Header, w io.Writer) error {
	banks, err := h.RAMBanks()
	if err != nil {
		return err
	}
	if err := c.command(CmdDumpRAM); err != nil {
		return err
	}
	buf := make([]byte, BlockSize)
	for bank := 0; bank < banks; bank++ {
		c.log.WithFields(logrus.Fields{"bank": bank, "banks": banks}).Info("dumping RAM bank")
		for i := 0; i < RAMBlocksPerBank; i++ {
			if _, err := io.ReadFull(c.fd, buf); err != nil {
				return fmt.Errorf("RAM bank %d block %d: %w", bank, i, err)
			}
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// FlashRAM writes r into cartridge RAM, 32 bytes at a time, verifying
// the reader's chunk and bank acknowledgements. r must supply 8KiB per
// RAM bank; running short leaves the reader stalled mid-command, so a
// short read is reported as an error without sending a partial chunk.
func (c *Client) FlashRAM(h *gbcart.Header, r io.Reader) error {
	banks, err := h.RAMBanks()
	if err != nil {
		return err
	}
	if err := c.command(CmdFlashRAM); err != nil {
		return err
	}
	chunk := make([]byte, ChunkSize)
	for bank := 0; bank < banks; bank++ {
		c.log.WithFields(logrus.Fields{"bank": bank, "banks": banks}).Info("flashing RAM bank")
		for i := 0; i < ChunksPerBank; i++ {
			if _, err := io.ReadFull(r, chunk); err != nil {
				return fmt.Errorf("RAM bank %d chunk %d: input: %w", bank, i, err)
			}
			if _, err := c.fd.Write(chunk); err != nil {
				return err
			}
			ack, err := c.readByte()
			if err != nil {
				return fmt.Errorf("RAM bank %d chunk %d: %w", bank, i, err)
			}
			if ack != ChunkEnd {
				return fmt.Errorf("RAM bank %d chunk %d: unexpected ack 0x%02X", bank, i, ack)
			}
		}
		mark, err := c.readByte()
		if err != nil {
			return fmt.Errorf("RAM bank %d: %w", bank, err)
		}
		if mark != BankEnd {
			return fmt.Errorf("RAM bank %d: unexpected end marker 0x%02X", bank, mark)
		}
	}
	return nil
}

func (c *Client) readByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(c.fd, b[:])
	return b[0], err
}
