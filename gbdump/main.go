// gbdump talks to a shift-register based Game Boy cartridge reader over
// a serial port: print header infos, dump ROM or RAM, flash save RAM.
package main

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jacobsa/go-serial/serial"
	"github.com/sirupsen/logrus"

	"github.com/ThorbjoernSchulz/gameboy-dumper/gbcart"
	"github.com/ThorbjoernSchulz/gameboy-dumper/gblink"
	"github.com/ThorbjoernSchulz/gameboy-dumper/shift"
	"github.com/ThorbjoernSchulz/gameboy-dumper/simcart"
)

type CLI struct {
	Info     InfoCmd     `cmd:"" help:"Print cartridge header infos."`
	DumpROM  DumpROMCmd  `cmd:"" name:"dumprom" help:"Dump cartridge ROM to a file."`
	DumpRAM  DumpRAMCmd  `cmd:"" name:"dumpram" help:"Dump cartridge RAM to a file."`
	FlashRAM FlashRAMCmd `cmd:"" name:"flashram" help:"Write a save file into cartridge RAM."`
	Sim      SimCmd      `cmd:"" hidden:""`

	Port    string `help:"Serial port the reader is attached to. (default /dev/ttyACM0)" placeholder:"DEV"`
	Baud    uint   `help:"Baud rate. (default 500000)"`
	Config  string `help:"TOML config file with port settings." type:"path"`
	Verbose bool   `short:"v" help:"Info logs to stderr."`
	Debug   bool   `help:"Debug logs to stderr. (implies --verbose)"`
}

type (
	InfoCmd    struct{}
	DumpROMCmd struct {
		Out string `arg:"" optional:"" help:"Output file. (defaults to <title>.rom)"`
	}
	DumpRAMCmd struct {
		Out string `arg:"" optional:"" help:"Output file. (defaults to <title>.ram)"`
	}
	FlashRAMCmd struct {
		In string `arg:"" type:"existingfile" help:"RAM image to flash."`
	}
	SimCmd struct {
		Rom string `arg:"" type:"existingfile" help:"ROM image backing the simulated cartridge."`
		Ram string `help:"RAM image to preload into the simulated cartridge." type:"existingfile"`
	}
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gbdump"),
		kong.Description("Dump and flash Game Boy cartridges through a serial cartridge reader."),
		kong.UsageOnError())

	switch {
	case cli.Debug:
		logrus.SetLevel(logrus.DebugLevel)
	case cli.Verbose:
		logrus.SetLevel(logrus.InfoLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
	logrus.SetOutput(os.Stderr)

	if err := applyConfig(&cli); err != nil {
		ctx.FatalIfErrorf(err)
	}

	ctx.FatalIfErrorf(ctx.Run(&cli))
}

// dial opens the serial port and hands back a connected protocol client.
func dial(cli *CLI) (*gblink.Client, error) {
	c := gblink.New()
	c.SetOptions(serial.OpenOptions{
		PortName:        cli.Port,
		BaudRate:        cli.Baud,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	})
	if err := c.Connect(); err != nil {
		return nil, fmt.Errorf("opening %s: %w", cli.Port, err)
	}
	return c, nil
}

func (cmd *InfoCmd) Run(cli *CLI) error {
	c, err := dial(cli)
	if err != nil {
		return err
	}
	defer c.Disconnect()

	h, err := c.Header()
	if err != nil {
		return err
	}
	printInfo(h)
	return nil
}

func printInfo(h *gbcart.Header) {
	mbc, err := gbcart.MBCForType(h.CartridgeType)
	controller := "unknown"
	if err == nil {
		controller = mbc.String()
	}
	ramBanks, _ := h.RAMBanks()

	fmt.Printf("Title:          %s\n", h.TitleString())
	fmt.Printf("Cartridge type: 0x%02X (%s)\n", h.CartridgeType, controller)
	fmt.Printf("ROM:            %d banks (%d KiB)\n", h.ROMBanks(), int(h.ROMBanks())*gbcart.ROMBankSize/1024)
	fmt.Printf("RAM:            %d banks (%d KiB)\n", ramBanks, ramBanks*gbcart.RAMBankSize/1024)
	if h.ChecksumOK() {
		fmt.Println("Header checksum OK")
	} else {
		fmt.Println("Header checksum BAD")
	}
}

func (cmd *DumpROMCmd) Run(cli *CLI) error {
	c, err := dial(cli)
	if err != nil {
		return err
	}
	defer c.Disconnect()

	h, err := c.Header()
	if err != nil {
		return err
	}
	out := cmd.Out
	if out == "" {
		out = autoname(h, ".rom")
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	logrus.WithField("file", out).Info("dumping ROM")
	return c.DumpROM(h, f)
}

func (cmd *DumpRAMCmd) Run(cli *CLI) error {
	c, err := dial(cli)
	if err != nil {
		return err
	}
	defer c.Disconnect()

	h, err := c.Header()
	if err != nil {
		return err
	}
	banks, err := h.RAMBanks()
	if err != nil {
		return err
	}
	if banks == 0 {
		return fmt.Errorf("cartridge reports no RAM")
	}
	out := cmd.Out
	if out == "" {
		out = autoname(h, ".ram")
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	logrus.WithField("file", out).Info("dumping RAM")
	return c.DumpRAM(h, f)
}

func (cmd *FlashRAMCmd) Run(cli *CLI) error {
	c, err := dial(cli)
	if err != nil {
		return err
	}
	defer c.Disconnect()

	h, err := c.Header()
	if err != nil {
		return err
	}
	banks, err := h.RAMBanks()
	if err != nil {
		return err
	}
	if banks == 0 {
		return fmt.Errorf("cartridge reports no RAM")
	}
	data, err := os.ReadFile(cmd.In)
	if err != nil {
		return err
	}
	if want := banks * gbcart.RAMBankSize; len(data) < want {
		return fmt.Errorf("%s holds %d bytes, cartridge wants %d", cmd.In, len(data), want)
	}

	logrus.WithField("file", cmd.In).Info("flashing RAM")
	return c.FlashRAM(h, bytes.NewReader(data))
}

// Run serves the wire protocol on stdin/stdout with a simulated
// cartridge behind it, so the client side can be exercised without
// hardware (e.g. through a pty or socat).
func (cmd *SimCmd) Run(cli *CLI) error {
	rom, err := os.ReadFile(cmd.Rom)
	if err != nil {
		return err
	}
	cart, err := simcart.New(rom)
	if err != nil {
		return err
	}
	if cmd.Ram != "" {
		ram, err := os.ReadFile(cmd.Ram)
		if err != nil {
			return err
		}
		copy(cart.RAM(), ram)
	}

	sdata, latch, clock := cart.ShiftPins()
	rd, wr := cart.StrobePins()
	conn, err := gbcart.Connect(shift.New(sdata, latch, clock), rd, wr, cart.DataPins())
	if err != nil {
		return err
	}
	conn.Sleep = func(time.Duration) {} // simulated bus, no settle time

	logrus.WithField("rom", cmd.Rom).Info("serving simulated cartridge on stdio")
	return gblink.NewServer(conn, stdio{}).Serve()
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

var unsafeChars = regexp.MustCompile(`[^0-9A-Za-z._-]+`)

// autoname derives an output filename from the cartridge title.
func autoname(h *gbcart.Header, ext string) string {
	name := unsafeChars.ReplaceAllString(strings.TrimSpace(h.TitleString()), "-")
	if name == "" {
		name = "cartridge"
	}
	return name + ext
}
