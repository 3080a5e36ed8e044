package config

import (
	"fmt"
	"sort"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths are the keys of the config file, for example:
//
//	window
//	min_rect_size
//	split_tolerance
//	emulate.screens
//	logging.level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	lookup, ok := explainPaths[path]
	if !ok {
		return nil, Source{}, fmt.Errorf("unknown path: %s", path)
	}
	value := lookup(res.Config)

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

// ExplainPaths lists the paths accepted by Explain, sorted.
func ExplainPaths() []string {
	out := make([]string, 0, len(explainPaths))
	for p := range explainPaths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

var explainPaths = map[string]func(*Config) any{
	"display":                 func(c *Config) any { return c.Display },
	"xauthority":              func(c *Config) any { return c.XAuthority },
	"window":                  func(c *Config) any { return c.Window },
	"min_rect_size":           func(c *Config) any { return c.MinRectSize },
	"split_tolerance":         func(c *Config) any { return c.SplitTolerance },
	"use_work_area":           func(c *Config) any { return c.UseWorkArea },
	"watch_config":            func(c *Config) any { return c.WatchConfig },
	"poll_interval":           func(c *Config) any { return c.PollInterval.String() },
	"emulate":                 func(c *Config) any { return c.Emulate },
	"emulate.screens":         func(c *Config) any { return c.Emulate.Screens },
	"emulate.split":           func(c *Config) any { return c.Emulate.Split },
	"hotkeys":                 func(c *Config) any { return c.Hotkeys },
	"hotkeys.cycle_emulation": func(c *Config) any { return c.Hotkeys.CycleEmulation },
	"hotkeys.toggle_split":    func(c *Config) any { return c.Hotkeys.ToggleSplit },
	"hotkeys.max_screens":     func(c *Config) any { return c.Hotkeys.MaxScreens },
	"logging":                 func(c *Config) any { return c.Logging },
	"logging.level":           func(c *Config) any { return c.Logging.Level },
	"logging.format":          func(c *Config) any { return c.Logging.Format },
	"logging.file":            func(c *Config) any { return c.Logging.File },
	"logging.max_size_mb":     func(c *Config) any { return c.Logging.MaxSizeMB },
	"logging.max_backups":     func(c *Config) any { return c.Logging.MaxBackups },
	"logging.max_age_days":    func(c *Config) any { return c.Logging.MaxAgeDays },
	"logging.compress":        func(c *Config) any { return c.Logging.Compress },
}
