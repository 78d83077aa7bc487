package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrphans()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	// An empty score_cache disables the cache.
	if c.Paths.ScoreCache, err = expandPath(strings.TrimSpace(c.Paths.ScoreCache)); err != nil {
		return fmt.Errorf("paths.score_cache: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrphans() {
	symbols := make([]string, 0, len(c.Orphans.Symbols))
	for _, symbol := range c.Orphans.Symbols {
		symbol = strings.ToLower(strings.TrimSpace(symbol))
		if symbol == "" || slices.Contains(symbols, symbol) {
			continue
		}
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		symbols = slices.Clone(defaultOrphanSymbols)
	}
	c.Orphans.Symbols = symbols
	c.Orphans.FieldOrder = strings.ToLower(strings.TrimSpace(c.Orphans.FieldOrder))
}

func (c *Config) normalizeTools() {
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("WOBBLE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
