package config

import "slices"

const (
	defaultConfigPath          = "~/.config/wobble/config.toml"
	defaultLogDir              = "~/.local/share/wobble/logs"
	defaultScoreCache          = "~/.local/share/wobble/scores.db"
	defaultOrphanThreshold     = 0.0025
	defaultDeinterlaceUnscored = true
	defaultFFprobe             = "ffprobe"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

var defaultOrphanSymbols = []string{"n", "b"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:     defaultLogDir,
			ScoreCache: defaultScoreCache,
		},
		Orphans: Orphans{
			Threshold:           defaultOrphanThreshold,
			Symbols:             slices.Clone(defaultOrphanSymbols),
			DeinterlaceUnscored: defaultDeinterlaceUnscored,
		},
		Tools: Tools{
			FFprobe: defaultFFprobe,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
