package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

// WindowActive tracks whichever window currently has focus.
const WindowActive = "active"

const (
	DefaultPollInterval = 2 * time.Second
	MinPollInterval     = 100 * time.Millisecond
)

// Emulate configures synthetic content rects for layout testing.
type Emulate struct {
	// Screens is the number of regions to synthesize; 0 disables emulation.
	Screens int `yaml:"screens"`
	// Split is "vertical" (columns) or "horizontal" (rows).
	Split string `yaml:"split"`
}

// Enabled reports whether emulation is requested.
func (e Emulate) Enabled() bool {
	return e.Screens > 0
}

// SplitKind returns the parsed split. Invalid values are rejected by Validate.
func (e Emulate) SplitKind() screeninfo.SplitKind {
	kind, err := screeninfo.ParseSplitKind(e.Split)
	if err != nil {
		return screeninfo.SplitNone
	}
	return kind
}

// DefaultMaxEmulatedScreens bounds the cycle_emulation hotkey.
const DefaultMaxEmulatedScreens = 4

// Hotkeys configures global key bindings handled by the daemon. Empty
// sequences are not bound.
type Hotkeys struct {
	// CycleEmulation steps through 2..MaxScreens emulated screens, then off.
	CycleEmulation string `yaml:"cycle_emulation,omitempty"`
	// ToggleSplit flips the emulated split between vertical and horizontal.
	ToggleSplit string `yaml:"toggle_split,omitempty"`
	MaxScreens  int    `yaml:"max_screens,omitempty"`
}

// LoggingConfig configures daemon logging.
type LoggingConfig struct {
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// Format is "text" (default) or "json".
	Format string `yaml:"format,omitempty"`
	// File is an optional log file path; stderr when empty.
	File string `yaml:"file,omitempty"`
	// MaxSizeMB rotates File once it reaches this size.
	MaxSizeMB  int  `yaml:"max_size_mb,omitempty"`
	MaxBackups int  `yaml:"max_backups,omitempty"`
	MaxAgeDays int  `yaml:"max_age_days,omitempty"`
	Compress   bool `yaml:"compress,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Display        string        `yaml:"display,omitempty"`
	XAuthority     string        `yaml:"xauthority,omitempty"`
	Window         string        `yaml:"window"`
	MinRectSize    int           `yaml:"min_rect_size"`
	SplitTolerance int           `yaml:"split_tolerance"`
	UseWorkArea    bool          `yaml:"use_work_area"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	WatchConfig    bool          `yaml:"watch_config"`
	Emulate        Emulate       `yaml:"emulate,omitempty"`
	Hotkeys        Hotkeys       `yaml:"hotkeys,omitempty"`
	Logging        LoggingConfig `yaml:"logging,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Window:         WindowActive,
		MinRectSize:    screeninfo.DefaultMinRectSize,
		SplitTolerance: screeninfo.DefaultSplitTolerance,
		UseWorkArea:    true,
		PollInterval:   DefaultPollInterval,
		WatchConfig:    true,
		Emulate: Emulate{
			Split: "vertical",
		},
		Hotkeys: Hotkeys{
			MaxScreens: DefaultMaxEmulatedScreens,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if _, _, err := ParseWindow(c.Window); err != nil {
		return &ValidationError{Path: "window", Err: err}
	}
	if c.MinRectSize < 0 {
		return &ValidationError{Path: "min_rect_size", Err: fmt.Errorf("min_rect_size must be >= 0")}
	}
	if c.SplitTolerance < 0 {
		return &ValidationError{Path: "split_tolerance", Err: fmt.Errorf("split_tolerance must be >= 0")}
	}
	if c.PollInterval < MinPollInterval {
		return &ValidationError{Path: "poll_interval", Err: fmt.Errorf("poll_interval must be >= %s", MinPollInterval)}
	}
	if c.Emulate.Screens < 0 {
		return &ValidationError{Path: "emulate.screens", Err: fmt.Errorf("emulate.screens must be >= 0")}
	}
	kind, err := screeninfo.ParseSplitKind(c.Emulate.Split)
	if err != nil {
		return &ValidationError{Path: "emulate.split", Err: err}
	}
	if c.Emulate.Screens > 1 && kind != screeninfo.SplitVertical && kind != screeninfo.SplitHorizontal {
		return &ValidationError{Path: "emulate.split", Err: fmt.Errorf("emulating %d screens requires split vertical or horizontal", c.Emulate.Screens)}
	}
	if c.Hotkeys.MaxScreens < 2 {
		return &ValidationError{Path: "hotkeys.max_screens", Err: fmt.Errorf("hotkeys.max_screens must be >= 2")}
	}
	if c.Hotkeys.CycleEmulation != "" && c.Hotkeys.CycleEmulation == c.Hotkeys.ToggleSplit {
		return &ValidationError{Path: "hotkeys.toggle_split", Err: fmt.Errorf("hotkeys.toggle_split duplicates hotkeys.cycle_emulation")}
	}
	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Err: err}
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("logging.format must be one of: text, json")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("logging.max_size_mb must be >= 0")}
	}
	if c.Logging.MaxBackups < 0 {
		return &ValidationError{Path: "logging.max_backups", Err: fmt.Errorf("logging.max_backups must be >= 0")}
	}
	if c.Logging.MaxAgeDays < 0 {
		return &ValidationError{Path: "logging.max_age_days", Err: fmt.Errorf("logging.max_age_days must be >= 0")}
	}
	return nil
}

// ParseWindow interprets the window setting. It returns follow=true for
// "active", otherwise the explicit window id (decimal or 0x-prefixed hex).
func ParseWindow(value string) (id uint32, follow bool, err error) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, WindowActive) {
		return 0, true, nil
	}
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil || n == 0 {
		return 0, false, fmt.Errorf("window must be %q or a non-zero window id, got %q", WindowActive, value)
	}
	return uint32(n), false, nil
}

// ParseLogLevel maps debug/info/warn/error onto slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log level must be one of: debug, info, warn, error")
	}
}

// NewLogger builds the daemon logger described by the logging section. A log
// file is rotated by size. The returned closer releases the log file, if any.
func (c *Config) NewLogger(stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLogLevel(c.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	out := stderr
	var closer io.Closer = nopCloser{}
	if c.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Logging.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   c.Logging.File,
			MaxSize:    c.Logging.MaxSizeMB,
			MaxBackups: c.Logging.MaxBackups,
			MaxAge:     c.Logging.MaxAgeDays,
			Compress:   c.Logging.Compress,
		}
		out, closer = fileWriter, fileWriter
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.Logging.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), closer, nil
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
