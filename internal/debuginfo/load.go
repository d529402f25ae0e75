package debuginfo

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// File is the on-disk shape of a debug-name registry:
//
//	[[arg]]
//	block = 2
//	index = 0
//	name = "x"
//
//	[[result]]
//	op = 5
//	index = 0
//	name = "sum"
type File struct {
	Args    []ArgName    `toml:"arg"`
	Results []ResultName `toml:"result"`
}

type ArgName struct {
	Block uint32 `toml:"block"`
	Index uint32 `toml:"index"`
	Name  string `toml:"name"`
}

type ResultName struct {
	Op    uint32 `toml:"op"`
	Index uint32 `toml:"index"`
	Name  string `toml:"name"`
}

// LoadFile reads a TOML debug-name file into a fresh Registry.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read debug names: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML debug-name data into a fresh Registry.
func Parse(data []byte) (*Registry, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode debug names: %w", err)
	}
	r := NewRegistry()
	for _, a := range f.Args {
		r.SetArgName(a.Block, a.Index, a.Name)
	}
	for _, res := range f.Results {
		r.SetResultName(res.Op, res.Index, res.Name)
	}
	return r, nil
}
