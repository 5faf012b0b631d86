package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	defaultPort = "/dev/ttyACM0"
	defaultBaud = 500000
)

// Config holds persistent port settings. Command-line flags win over the
// file, the file wins over the built-in defaults.
type Config struct {
	Port string `toml:"port"`
	Baud uint   `toml:"baud"`
}

// applyConfig fills unset --port/--baud flags from the config file. An
// explicitly passed --config must exist; the default location
// ($XDG_CONFIG_HOME/gbdump/gbdump.toml) is optional.
func applyConfig(cli *CLI) error {
	path := cli.Config
	optional := false
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		path = filepath.Join(dir, "gbdump", "gbdump.toml")
		optional = true
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !(optional && os.IsNotExist(err)) {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}

	if cli.Port == "" {
		cli.Port = cfg.Port
	}
	if cli.Port == "" {
		cli.Port = defaultPort
	}
	if cli.Baud == 0 {
		cli.Baud = cfg.Baud
	}
	if cli.Baud == 0 {
		cli.Baud = defaultBaud
	}
	return nil
}
