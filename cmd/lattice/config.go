package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// cliConfig is the optional lattice.toml next to a snapshot tree:
//
//	cache_dir = ".lattice-cache"
//	names = "names.toml"
//	jobs = 4
type cliConfig struct {
	CacheDir string `toml:"cache_dir"`
	Names    string `toml:"names"`
	Jobs     int    `toml:"jobs"`
}

// loadConfig reads the --config file when set; a missing flag yields a
// zero config, a missing file is an error.
func loadConfig(cmd *cobra.Command) (cliConfig, error) {
	var cfg cliConfig
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil || path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}
