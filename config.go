package terminteract

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// defaultRowsToScroll is the fallback rows-per-wheel-notch when the host
// environment does not supply a value.
const defaultRowsToScroll = 3

// Config carries the environment-derived parameters the router needs, so
// the core stays free of platform queries and testable with injected
// values. The zero value selects platform-typical defaults throughout.
type Config struct {
	// DoubleClickIntervalMs is the maximum gap between clicks of one
	// streak, in milliseconds. 0 means the 500ms default.
	DoubleClickIntervalMs int `toml:"double_click_interval_ms"`

	// RowsToScroll is the number of rows scrolled per wheel notch.
	// 0 means the usual default of 3.
	RowsToScroll int `toml:"rows_to_scroll"`
}

// LoadConfig reads a Config from a TOML file. Unknown keys are ignored so
// the file can be shared with other terminal settings.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load pointer config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) doubleClickInterval() time.Duration {
	if c.DoubleClickIntervalMs <= 0 {
		return defaultDoubleClickInterval
	}
	return time.Duration(c.DoubleClickIntervalMs) * time.Millisecond
}

func (c Config) rowsToScroll() int {
	if c.RowsToScroll <= 0 {
		return defaultRowsToScroll
	}
	return c.RowsToScroll
}
