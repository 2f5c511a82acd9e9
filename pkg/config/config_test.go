package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/viewport"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Layout.NodeBreadth != 100 || cfg.Layout.NodeDepth != 100 {
		t.Errorf("node size = %vx%v, want 100x100", cfg.Layout.NodeBreadth, cfg.Layout.NodeDepth)
	}
	if cfg.Transition.DurationMS != 250 {
		t.Errorf("duration = %d, want 250", cfg.Transition.DurationMS)
	}
	if cfg.Viewport.MinScale != 0.1 || cfg.Viewport.MaxScale != 4 {
		t.Errorf("scale extent = [%v, %v], want [0.1, 4]", cfg.Viewport.MinScale, cfg.Viewport.MaxScale)
	}
	if cfg.Server.Store != StoreMemory {
		t.Errorf("store = %q, want memory", cfg.Server.Store)
	}
	if ttl, _ := cfg.SessionTTL(); ttl != DefaultSessionTTL {
		t.Errorf("ttl = %v, want %v", ttl, DefaultSessionTTL)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if dir := Dir(); dir != "/tmp/test-xdg/canopy" {
		t.Errorf("expected /tmp/test-xdg/canopy, got %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", "canopy"); Dir() != want {
		t.Errorf("expected %q, got %q", want, Dir())
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Margin != Default().Layout.Margin {
		t.Errorf("margin = %+v", cfg.Layout.Margin)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[layout]
node_breadth = 140

[layout.margin]
top = 30
left = 60

[transition]
easing = "linear"

[server]
store = "file"
session_ttl = "2h"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.NodeBreadth != 140 || cfg.Layout.NodeDepth != 100 {
		t.Errorf("node size = %vx%v, want 140x100", cfg.Layout.NodeBreadth, cfg.Layout.NodeDepth)
	}
	if cfg.Layout.Margin.Top != 30 || cfg.Layout.Margin.Left != 60 || cfg.Layout.Margin.Right != 120 {
		t.Errorf("margin = %+v", cfg.Layout.Margin)
	}
	if ttl, _ := cfg.SessionTTL(); ttl != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", ttl)
	}

	opts := cfg.WidgetOptions()
	if opts.Layout.NodeSize != (geom.Size{W: 140, H: 100}) {
		t.Errorf("widget node size = %+v", opts.Layout.NodeSize)
	}
	if opts.Ease(0.3) != 0.3 {
		t.Error("easing should be linear")
	}
	if opts.Scene.DefaultAnchor != (geom.Point{X: 60, Y: 30}) {
		t.Errorf("default anchor = %+v", opts.Scene.DefaultAnchor)
	}
	sep := opts.Layout.Separation
	a := tree.Node{Parent: 1}
	if sep(a, tree.Node{Parent: 1}) != 1 || sep(a, tree.Node{Parent: 2}) != 2 {
		t.Error("separation should be 1 for siblings and 2 for cousins")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[layout\nnode_breadth = "},
		{"negative size", "[layout]\nnode_depth = -5"},
		{"easing", "[transition]\neasing = \"bounce\""},
		{"scale", "[viewport]\nmin_scale = 5\nmax_scale = 1"},
		{"store", "[server]\nstore = \"mongo\""},
		{"ttl", "[server]\nsession_ttl = \"soon\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
				t.Errorf("Load() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Viewport.MaxScale = 8
	cfg.Server.Addr = ":9000"
	if err := Save(cfg, ""); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Viewport.MaxScale != 8 || loaded.Server.Addr != ":9000" {
		t.Errorf("loaded = %+v", loaded)
	}
	if got := loaded.ViewportOptions(); got.ResetDuration != viewport.DefaultResetDuration {
		t.Errorf("reset duration = %v", got.ResetDuration)
	}
}
