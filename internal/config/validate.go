package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOrphans(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOrphans() error {
	if math.IsNaN(c.Orphans.Threshold) || c.Orphans.Threshold < 0 || c.Orphans.Threshold > 1 {
		return errors.New("orphans.threshold must be between 0 and 1")
	}
	for _, symbol := range c.Orphans.Symbols {
		switch symbol {
		case "n", "b", "u", "p":
		default:
			return fmt.Errorf("orphans.symbols: %q is not one of n, b, u, p", symbol)
		}
	}
	switch c.Orphans.FieldOrder {
	case "", "tff", "bff":
	default:
		return fmt.Errorf("orphans.field_order: unsupported value %q (use tff or bff)", c.Orphans.FieldOrder)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
