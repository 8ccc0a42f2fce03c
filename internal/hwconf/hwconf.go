// Package hwconf loads the hardware-configuration record that the codegen
// stage uses to size data memory and the register file. The format and
// field set are fixed by spec.md §6; the loading strategy (TOML, default
// then override) follows the teacher's config.Load/LoadFrom.
package hwconf

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Hardware is a plain read-only record describing the target machine.
// Only mem_addresses and registers currently influence codegen;
// extended_instructions is carried through but not yet consulted, per the
// original implementation's own note that it is informational for now.
type Hardware struct {
	MemAddresses         uint16 `toml:"mem_addresses"`
	Registers            uint8  `toml:"registers"`
	ExtendedInstructions bool   `toml:"extended_instructions"`
}

// Default returns the configuration used when no hardware-config file is
// supplied.
func Default() *Hardware {
	return &Hardware{
		MemAddresses:         256,
		Registers:            8,
		ExtendedInstructions: false,
	}
}

// Load reads a hardware config from path. A missing file is not an error:
// it yields the defaults, matching config.LoadFrom's behavior for the
// emulator's own settings file.
func Load(path string) (*Hardware, error) {
	hw := Default()

	if path == "" {
		return hw, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return hw, nil
	}

	if _, err := toml.DecodeFile(path, hw); err != nil {
		return nil, fmt.Errorf("failed to parse hardware config: %w", err)
	}

	return hw, nil
}
