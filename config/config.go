// Package config loads user-tunable terminal settings for the management
// console from a TOML file in the XDG config directory.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Settings holds the user-configurable knobs for terminal sessions.
// Zero values mean "use the built-in default".
type Settings struct {
	Terminal TerminalSettings `toml:"terminal"`
}

// TerminalSettings configures terminal session behavior.
type TerminalSettings struct {
	// Theme is the default color theme name for new sessions.
	Theme string `toml:"theme"`
	// ScrollbackLines is the emulator scrollback depth.
	ScrollbackLines int `toml:"scrollback_lines"`
	// FitDebounceMs delays local refits for large scrollback buffers.
	FitDebounceMs int `toml:"fit_debounce_ms"`
	// RemoteResizeDebounceMs coalesces resize calls to the process host.
	RemoteResizeDebounceMs int `toml:"remote_resize_debounce_ms"`
	// OutputFlushMs batches remote output before writing to the emulator.
	OutputFlushMs int `toml:"output_flush_ms"`
	// HistoryLimitKiB bounds the history tail requested on first open.
	HistoryLimitKiB int `toml:"history_limit_kib"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Terminal: TerminalSettings{
			Theme:                  "",
			ScrollbackLines:        10000,
			FitDebounceMs:          50,
			RemoteResizeDebounceMs: 100,
			OutputFlushMs:          8,
			HistoryLimitKiB:        256,
		},
	}
}

// GetConfigPath returns the path of the settings file.
func GetConfigPath() (string, error) {
	return filepath.Join(xdg.ConfigHome, "galley", "terminal.toml"), nil
}

// LoadSettings reads the settings file, falling back to defaults when the
// file does not exist. A malformed file is an error; silently ignoring it
// would make typos look like lost settings.
func LoadSettings() (*Settings, error) {
	path, err := GetConfigPath()
	if err != nil {
		return DefaultSettings(), nil
	}
	return loadSettingsFrom(path)
}

func loadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	s := DefaultSettings()
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	s.clamp()
	return s, nil
}

// clamp keeps user-provided values inside sane bounds.
func (s *Settings) clamp() {
	t := &s.Terminal
	if t.ScrollbackLines < 100 {
		t.ScrollbackLines = 100
	} else if t.ScrollbackLines > 1000000 {
		t.ScrollbackLines = 1000000
	}
	if t.FitDebounceMs < 0 {
		t.FitDebounceMs = 0
	}
	if t.RemoteResizeDebounceMs < 0 {
		t.RemoteResizeDebounceMs = 0
	}
	if t.OutputFlushMs < 0 {
		t.OutputFlushMs = 0
	}
	if t.HistoryLimitKiB < 1 {
		t.HistoryLimitKiB = 1
	} else if t.HistoryLimitKiB > 4096 {
		t.HistoryLimitKiB = 4096
	}
}

// FitDebounce returns the fit debounce as a duration.
func (t TerminalSettings) FitDebounce() time.Duration {
	return time.Duration(t.FitDebounceMs) * time.Millisecond
}

// RemoteResizeDebounce returns the remote resize debounce as a duration.
func (t TerminalSettings) RemoteResizeDebounce() time.Duration {
	return time.Duration(t.RemoteResizeDebounceMs) * time.Millisecond
}

// OutputFlush returns the output flush interval as a duration.
func (t TerminalSettings) OutputFlush() time.Duration {
	return time.Duration(t.OutputFlushMs) * time.Millisecond
}

// HistoryLimit returns the history tail limit in bytes.
func (t TerminalSettings) HistoryLimit() int {
	return t.HistoryLimitKiB * 1024
}
