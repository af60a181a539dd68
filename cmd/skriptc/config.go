package main

import (
	"errors"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the optional skriptc.toml next to the scripts.
type Config struct {
	Debug      bool     `toml:"debug"`
	NoColor    bool     `toml:"no_color"`
	ScriptDirs []string `toml:"script_dirs"`
}

// loadConfig reads the config file, tolerating its absence.
func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
