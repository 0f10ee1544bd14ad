package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the game settings. Zero fields in a YAML file keep the
// values from Default.
type Config struct {
	FPS            float64 `yaml:"fps"`
	InitialRunning bool    `yaml:"initial_running"`
	Zoom           int     `yaml:"zoom"` // 1 closeup, 2 normal, 3 far

	Window Window `yaml:"window"`
	Log    Log    `yaml:"log"`
	World  World  `yaml:"world"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Log struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// World describes the playable area in meters and the ambient conditions.
type World struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Top    float64 `yaml:"top"`
	Seed   int64   `yaml:"seed"`
	WindX  float64 `yaml:"wind_x"`
	WindY  float64 `yaml:"wind_y"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FPS:            10,
		InitialRunning: false,
		Zoom:           1,
		Window: Window{
			Width:  1000,
			Height: 700,
			Title:  "Flyer",
		},
		Log: Log{Level: "info"},
		World: World{
			Left:   -10000,
			Right:  10000,
			Bottom: -100,
			Top:    3000,
			Seed:   1,
		},
	}
}

// Load reads a YAML file on top of Default. A missing path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks that the settings can drive a simulation.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %g", c.FPS)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Zoom < 1 || c.Zoom > 3 {
		return fmt.Errorf("zoom must be 1, 2 or 3, got %d", c.Zoom)
	}
	if c.World.Right <= c.World.Left || c.World.Top <= c.World.Bottom {
		return fmt.Errorf("world boundary is inverted: x [%g, %g], y [%g, %g]",
			c.World.Left, c.World.Right, c.World.Bottom, c.World.Top)
	}
	return nil
}

// Timestep returns the simulated seconds per tick.
func (c Config) Timestep() float64 {
	return 1 / c.FPS
}
