package gblink

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ThorbjoernSchulz/gameboy-dumper/gbcart"
)

// Server runs the device side of the protocol: scan the transport for
// the sync byte, consume one command byte, execute it synchronously,
// repeat. Unknown command bytes are discarded without a response.
//
// Everything is blocking and single-threaded; a command that receives
// less data than it needs stalls until the host supplies it. The link
// has no timeouts.
type Server struct {
	cart *gbcart.Connection
	port io.ReadWriter
	log  *logrus.Entry
}

func NewServer(cart *gbcart.Connection, port io.ReadWriter) *Server {
	return &Server{
		cart: cart,
		port: port,
		log:  logrus.WithField("mod", "gblink"),
	}
}

// Serve dispatches commands until the transport reports EOF. A failed
// command aborts (and is logged), but does not end the loop; the bus is
// left in a consistent state and the next sync byte starts over.
func (s *Server) Serve() error {
	for {
		b, err := s.readByte()
		if err != nil {
			return serveErr(err)
		}
		if b != Sync {
			continue
		}
		cmd, err := s.readByte()
		if err != nil {
			return serveErr(err)
		}
		s.dispatch(cmd)
	}
}

func serveErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		return nil
	}
	return err
}

func (s *Server) dispatch(cmd byte) {
	var err error
	switch cmd {
	case CmdDumpHeader:
		err = s.dumpHeader()
	case CmdDumpROM:
		err = s.dumpROM()
	case CmdDumpRAM:
		err = s.dumpRAM()
	case CmdFlashRAM:
		err = s.flashRAM()
	default:
		// unknown commands are discarded, not answered
		s.log.WithField("cmd", cmd).Debug("ignoring unknown command")
		return
	}
	if err != nil {
		s.log.WithField("cmd", cmd).WithError(err).Error("command aborted")
	}
}

func (s *Server) dumpHeader() error {
	_, err := s.port.Write(s.cart.Header().Bytes())
	return err
}

func (s *Server) dumpROM() error {
	rom := s.cart.ROM()
	buf := make([]byte, BlockSize)
	for bank := 0; bank < rom.NumBanks(); bank++ {
		if err := rom.SwitchBank(bank); err != nil {
			return fmt.Errorf("ROM bank %d: %w", bank, err)
		}
		s.log.WithField("bank", bank).Debug("dumping ROM bank")
		b := rom.CurrentBank()
		for i := 0; i < ROMBlocksPerBank; i++ {
			if _, err := io.ReadFull(b, buf); err != nil {
				return fmt.Errorf("ROM bank %d: %w", bank, err)
			}
			if _, err := s.port.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Server) dumpRAM() error {
	ram, err := s.cart.RAM()
	if err != nil {
		return err
	}
	s.cart.EnableRAM()
	defer s.cart.DisableRAM()

	buf := make([]byte, BlockSize)
	for bank := 0; bank < ram.NumBanks(); bank++ {
		if err := ram.SwitchBank(bank); err != nil {
			return fmt.Errorf("RAM bank %d: %w", bank, err)
		}
		s.log.WithField("bank", bank).Debug("dumping RAM bank")
		b := ram.CurrentBank()
		for i := 0; i < RAMBlocksPerBank; i++ {
			if _, err := io.ReadFull(b, buf); err != nil {
				return fmt.Errorf("RAM bank %d: %w", bank, err)
			}
			if _, err := s.port.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Server) flashRAM() error {
	ram, err := s.cart.RAM()
	if err != nil {
		return err
	}
	s.cart.EnableRAM()
	defer s.cart.DisableRAM()

	chunk := make([]byte, ChunkSize)
	for bank := 0; bank < ram.NumBanks(); bank++ {
		if err := ram.SwitchBank(bank); err != nil {
			return fmt.Errorf("RAM bank %d: %w", bank, err)
		}
		s.log.WithField("bank", bank).Debug("flashing RAM bank")
		b := ram.CurrentBank()
		for i := 0; i < ChunksPerBank; i++ {
			if _, err := io.ReadFull(s.port, chunk); err != nil {
				return fmt.Errorf("RAM bank %d chunk %d: %w", bank, i, err)
			}
			if _, err := b.Write(chunk); err != nil {
				return fmt.Errorf("RAM bank %d chunk %d: %w", bank, i, err)
			}
			if err := s.writeByte(ChunkEnd); err != nil {
				return err
			}
		}
		if err := s.writeByte(BankEnd); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) readByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(s.port, b[:])
	return b[0], err
}

func (s *Server) writeByte(b byte) error {
	_, err := s.port.Write([]byte{b})
	return err
}
