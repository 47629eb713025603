package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dvaldron/inputmap/internal/input"
)

// Settings are the runtime options read from a TOML settings file.
type Settings struct {
	// PollTimeoutMS bounds each resolve poll in milliseconds. Zero polls
	// without blocking; a negative value blocks until input arrives.
	PollTimeoutMS int `toml:"poll_timeout_ms"`

	// ISOMode rotates directional results for isometric displays.
	ISOMode bool `toml:"iso_mode"`

	// LogLevel selects the minimum level emitted: debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// Bindings lists bindings documents loaded in order, later files
	// replacing the (context, action) pairs they name.
	Bindings []string `toml:"bindings"`

	// UserBindings is the document user edits save to. It loads after
	// Bindings with user-preference semantics, and may be absent.
	UserBindings string `toml:"user_bindings"`

	// CapturePath, when set, records every delivered event to a capture
	// file for later replay.
	CapturePath string `toml:"capture_path"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		PollTimeoutMS: -1,
		LogLevel:      "info",
	}
}

// PollTimeout converts PollTimeoutMS to a poll timeout. Negative values
// collapse to the block-forever sentinel.
func (s Settings) PollTimeout() time.Duration {
	if s.PollTimeoutMS < 0 {
		return input.NoTimeout
	}
	return time.Duration(s.PollTimeoutMS) * time.Millisecond
}

// LoadSettings reads the settings file at path. A missing file is not
// an error; defaults are returned unchanged.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return s, nil
}

// ApplyEnv overlays INPUTMAP_-prefixed environment variables onto s.
// Unset variables leave the corresponding field alone; malformed
// numeric values are ignored.
func (s *Settings) ApplyEnv() {
	if v, ok := os.LookupEnv("INPUTMAP_POLL_TIMEOUT_MS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.PollTimeoutMS = n
		}
	}
	if v, ok := os.LookupEnv("INPUTMAP_ISO_MODE"); ok {
		s.ISOMode = parseBool(v)
	}
	if v, ok := os.LookupEnv("INPUTMAP_LOG_LEVEL"); ok && v != "" {
		s.LogLevel = v
	}
	if v, ok := os.LookupEnv("INPUTMAP_BINDINGS"); ok && v != "" {
		s.Bindings = filepath.SplitList(v)
	}
	if v, ok := os.LookupEnv("INPUTMAP_USER_BINDINGS"); ok && v != "" {
		s.UserBindings = v
	}
	if v, ok := os.LookupEnv("INPUTMAP_CAPTURE"); ok {
		s.CapturePath = v
	}
}

// parseBool accepts true, yes, on, and 1 in any case; everything else
// is false.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true
	default:
		return false
	}
}
