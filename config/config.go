// Package config provides the emulator run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds machine construction and run-loop parameters.
type Config struct {
	// MemorySize is the RAM size in bytes, mapped from address 0.
	// Default: 1 MiB.
	MemorySize uint64 `json:"memory_size"`

	// MaxCycles bounds the driver loop. Default: 100000.
	MaxCycles int `json:"max_cycles"`

	// Peripherals maps the PPU, joystick and timer devices when true.
	// The batch driver runs with bare RAM. Default: false.
	Peripherals bool `json:"peripherals"`

	// Render enables terminal frame rendering in the interactive driver.
	// Default: true.
	Render bool `json:"render"`
}

// Default returns a Config with the standard values.
func Default() *Config {
	return &Config{
		MemorySize:  1 << 20,
		MaxCycles:   100000,
		Peripherals: false,
		Render:      true,
	}
}

// Load reads a Config from a JSON file. Absent fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the Config to a JSON file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.MemorySize == 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	if c.MaxCycles <= 0 {
		return fmt.Errorf("max_cycles must be > 0")
	}
	return nil
}
