package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawEmulate struct {
	Screens *int    `yaml:"screens"`
	Split   *string `yaml:"split"`
}

type RawHotkeys struct {
	CycleEmulation *string `yaml:"cycle_emulation"`
	ToggleSplit    *string `yaml:"toggle_split"`
	MaxScreens     *int    `yaml:"max_screens"`
}

type RawLogging struct {
	Level      *string `yaml:"level"`
	Format     *string `yaml:"format"`
	File       *string `yaml:"file"`
	MaxSizeMB  *int    `yaml:"max_size_mb"`
	MaxBackups *int    `yaml:"max_backups"`
	MaxAgeDays *int    `yaml:"max_age_days"`
	Compress   *bool   `yaml:"compress"`
}

// RawConfig mirrors Config with every field optional so that files can be
// layered: a nil field leaves the lower layer untouched.
type RawConfig struct {
	Include        IncludeList    `yaml:"include"`
	Display        *string        `yaml:"display"`
	XAuthority     *string        `yaml:"xauthority"`
	Window         *string        `yaml:"window"`
	MinRectSize    *int           `yaml:"min_rect_size"`
	SplitTolerance *int           `yaml:"split_tolerance"`
	UseWorkArea    *bool          `yaml:"use_work_area"`
	PollInterval   *time.Duration `yaml:"poll_interval"`
	WatchConfig    *bool          `yaml:"watch_config"`
	Emulate        *RawEmulate    `yaml:"emulate"`
	Hotkeys        *RawHotkeys    `yaml:"hotkeys"`
	Logging        *RawLogging    `yaml:"logging"`
}

// merge returns base overlaid with every field set in over.
func (base RawConfig) merge(over RawConfig) RawConfig {
	out := base
	out.Include = nil
	setIf(&out.Display, over.Display)
	setIf(&out.XAuthority, over.XAuthority)
	setIf(&out.Window, over.Window)
	setIf(&out.MinRectSize, over.MinRectSize)
	setIf(&out.SplitTolerance, over.SplitTolerance)
	setIf(&out.UseWorkArea, over.UseWorkArea)
	setIf(&out.PollInterval, over.PollInterval)
	setIf(&out.WatchConfig, over.WatchConfig)

	if over.Emulate != nil {
		em := RawEmulate{}
		if out.Emulate != nil {
			em = *out.Emulate
		}
		setIf(&em.Screens, over.Emulate.Screens)
		setIf(&em.Split, over.Emulate.Split)
		out.Emulate = &em
	}
	if over.Hotkeys != nil {
		hk := RawHotkeys{}
		if out.Hotkeys != nil {
			hk = *out.Hotkeys
		}
		setIf(&hk.CycleEmulation, over.Hotkeys.CycleEmulation)
		setIf(&hk.ToggleSplit, over.Hotkeys.ToggleSplit)
		setIf(&hk.MaxScreens, over.Hotkeys.MaxScreens)
		out.Hotkeys = &hk
	}
	if over.Logging != nil {
		lg := RawLogging{}
		if out.Logging != nil {
			lg = *out.Logging
		}
		setIf(&lg.Level, over.Logging.Level)
		setIf(&lg.Format, over.Logging.Format)
		setIf(&lg.File, over.Logging.File)
		setIf(&lg.MaxSizeMB, over.Logging.MaxSizeMB)
		setIf(&lg.MaxBackups, over.Logging.MaxBackups)
		setIf(&lg.MaxAgeDays, over.Logging.MaxAgeDays)
		setIf(&lg.Compress, over.Logging.Compress)
		out.Logging = &lg
	}
	return out
}

func setIf[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()
	applyIf(&cfg.Display, raw.Display)
	applyIf(&cfg.XAuthority, raw.XAuthority)
	applyIf(&cfg.Window, raw.Window)
	applyIf(&cfg.MinRectSize, raw.MinRectSize)
	applyIf(&cfg.SplitTolerance, raw.SplitTolerance)
	applyIf(&cfg.UseWorkArea, raw.UseWorkArea)
	applyIf(&cfg.PollInterval, raw.PollInterval)
	applyIf(&cfg.WatchConfig, raw.WatchConfig)
	if raw.Emulate != nil {
		applyIf(&cfg.Emulate.Screens, raw.Emulate.Screens)
		applyIf(&cfg.Emulate.Split, raw.Emulate.Split)
	}
	if raw.Hotkeys != nil {
		applyIf(&cfg.Hotkeys.CycleEmulation, raw.Hotkeys.CycleEmulation)
		applyIf(&cfg.Hotkeys.ToggleSplit, raw.Hotkeys.ToggleSplit)
		applyIf(&cfg.Hotkeys.MaxScreens, raw.Hotkeys.MaxScreens)
	}
	if raw.Logging != nil {
		applyIf(&cfg.Logging.Level, raw.Logging.Level)
		applyIf(&cfg.Logging.Format, raw.Logging.Format)
		applyIf(&cfg.Logging.File, raw.Logging.File)
		applyIf(&cfg.Logging.MaxSizeMB, raw.Logging.MaxSizeMB)
		applyIf(&cfg.Logging.MaxBackups, raw.Logging.MaxBackups)
		applyIf(&cfg.Logging.MaxAgeDays, raw.Logging.MaxAgeDays)
		applyIf(&cfg.Logging.Compress, raw.Logging.Compress)
	}
	return cfg
}

func applyIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
