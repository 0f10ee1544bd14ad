package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flyer.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.InitialRunning {
		t.Error("game should start paused by default")
	}
	if got := c.Timestep(); got != 0.1 {
		t.Errorf("Timestep() = %v, want 0.1", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
fps: 25
initial_running: true
window:
  width: 640
world:
  wind_x: -3.5
  seed: 42
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.FPS != 25 || !c.InitialRunning || c.Window.Width != 640 {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.Window.Height != Default().Window.Height {
		t.Errorf("unset height should keep default, got %d", c.Window.Height)
	}
	if c.World.WindX != -3.5 || c.World.Seed != 42 {
		t.Errorf("world overrides not applied: %+v", c.World)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c != Default() {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"negative fps", "fps: -1\n", "fps"},
		{"bad zoom", "zoom: 7\n", "zoom"},
		{"inverted world", "world:\n  left: 10\n  right: -10\n", "inverted"},
		{"bad yaml", "fps: [\n", "flyer.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
