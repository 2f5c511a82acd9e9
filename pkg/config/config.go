// Package config loads canopy's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/canopy/config.toml (falling back to
// ~/.config/canopy/config.toml). A missing file means defaults; keys absent
// from the file keep their default values. Command-line flags override
// whatever the file sets.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/transition"
	"github.com/matzehuels/canopy/pkg/viewport"
	"github.com/matzehuels/canopy/pkg/widget"
)

// Config holds canopy configuration.
type Config struct {
	Layout     LayoutConfig     `toml:"layout"`
	Transition TransitionConfig `toml:"transition"`
	Viewport   ViewportConfig   `toml:"viewport"`
	Server     ServerConfig     `toml:"server"`
}

// LayoutConfig controls node spacing.
type LayoutConfig struct {
	NodeBreadth float64     `toml:"node_breadth"`
	NodeDepth   float64     `toml:"node_depth"`
	Margin      geom.Insets `toml:"margin"`
	Sibling     float64     `toml:"sibling_separation"`
	Cousin      float64     `toml:"cousin_separation"`
}

// TransitionConfig controls expand/collapse animations.
type TransitionConfig struct {
	DurationMS int    `toml:"duration_ms"`
	Easing     string `toml:"easing"` // "cubicInOut", "linear"
}

// ViewportConfig controls pan and zoom.
type ViewportConfig struct {
	MinScale        float64 `toml:"min_scale"`
	MaxScale        float64 `toml:"max_scale"`
	ResetDurationMS int     `toml:"reset_duration_ms"`
}

// ServerConfig controls `canopy serve`.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	Store      string `toml:"store"` // "memory", "file", "redis"
	StoreDir   string `toml:"store_dir"`
	RedisURL   string `toml:"redis_url"`
	SessionTTL string `toml:"session_ttl"`
	Watch      bool   `toml:"watch"`
}

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// DefaultSessionTTL bounds how long a saved session survives.
const DefaultSessionTTL = 24 * time.Hour

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			NodeBreadth: layout.DefaultNodeBreadth,
			NodeDepth:   layout.DefaultNodeDepth,
			Margin:      layout.DefaultMargin,
			Sibling:     1,
			Cousin:      2,
		},
		Transition: TransitionConfig{
			DurationMS: int(transition.DefaultDuration / time.Millisecond),
			Easing:     "cubicInOut",
		},
		Viewport: ViewportConfig{
			MinScale:        viewport.DefaultMinScale,
			MaxScale:        viewport.DefaultMaxScale,
			ResetDurationMS: int(viewport.DefaultResetDuration / time.Millisecond),
		},
		Server: ServerConfig{
			Addr:       "127.0.0.1:8080",
			Store:      StoreMemory,
			SessionTTL: DefaultSessionTTL.String(),
		},
	}
}

// Dir returns the canopy config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "canopy")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path, or at Path() when path is empty.
// A missing file yields defaults; a malformed or invalid one is an
// INVALID_CONFIG error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Layout.NodeBreadth <= 0 || c.Layout.NodeDepth <= 0:
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "layout node size must be positive")
	case c.Layout.Sibling <= 0 || c.Layout.Cousin <= 0:
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "layout separation must be positive")
	case c.Transition.DurationMS < 0 || c.Viewport.ResetDurationMS < 0:
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "durations cannot be negative")
	case c.Viewport.MinScale <= 0 || c.Viewport.MaxScale < c.Viewport.MinScale:
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "viewport scale extent [%g, %g] is invalid", c.Viewport.MinScale, c.Viewport.MaxScale)
	}
	if _, ok := transition.Easings[c.Transition.Easing]; !ok {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown easing %q", c.Transition.Easing)
	}
	switch c.Server.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown session store %q", c.Server.Store)
	}
	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	return nil
}

// SessionTTL parses Server.SessionTTL.
func (c *Config) SessionTTL() (time.Duration, error) {
	if c.Server.SessionTTL == "" {
		return DefaultSessionTTL, nil
	}
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil || d <= 0 {
		return 0, cerrors.New(cerrors.ErrCodeInvalidConfig, "invalid session_ttl %q", c.Server.SessionTTL)
	}
	return d, nil
}

// LayoutOptions converts the [layout] section.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		NodeSize:   geom.Size{W: c.Layout.NodeBreadth, H: c.Layout.NodeDepth},
		Margin:     c.Layout.Margin,
		Separation: layout.FixedSeparation(c.Layout.Sibling, c.Layout.Cousin),
	}
}

// ViewportOptions converts the [viewport] section.
func (c *Config) ViewportOptions() viewport.Options {
	return viewport.Options{
		MinScale:      c.Viewport.MinScale,
		MaxScale:      c.Viewport.MaxScale,
		ResetDuration: time.Duration(c.Viewport.ResetDurationMS) * time.Millisecond,
	}
}

// WidgetOptions assembles widget options from every section.
func (c *Config) WidgetOptions() widget.Options {
	opts := widget.DefaultOptions()
	opts.Layout = c.LayoutOptions()
	opts.Viewport = c.ViewportOptions()
	opts.Duration = time.Duration(c.Transition.DurationMS) * time.Millisecond
	opts.Ease = transition.ByName(c.Transition.Easing)
	opts.Scene.DefaultAnchor = geom.Point{X: c.Layout.Margin.Left, Y: c.Layout.Margin.Top}
	return opts
}
