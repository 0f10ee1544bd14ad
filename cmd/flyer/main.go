package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"flyer/internal/camera"
	"flyer/internal/common"
	"flyer/internal/config"
	"flyer/internal/log"
	"flyer/internal/objects"
	"flyer/internal/render"
	"flyer/internal/scene"
	"flyer/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	logLevel   = flag.String("loglevel", "", "logging level: debug, info, warn, error")
	logDir     = flag.String("logdir", "", "directory for log files (default: user config dir)")
	running    = flag.Bool("running", false, "start with the simulation running")
	steps      = flag.Int("steps", 0, "run this many steps without a window, print the world state and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logDir != "" {
		cfg.Log.Dir = *logDir
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "running" {
			cfg.InitialRunning = *running
		}
	})

	lg := log.New(cfg.Log.Level, cfg.Log.Dir)
	lg.Info("configuration", "fps", cfg.FPS, "zoom", cfg.Zoom, "running", cfg.InitialRunning,
		"window", fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height))

	env := simulation.DefaultEnvironment()
	env.Wind = r2.Vec{X: cfg.World.WindX, Y: cfg.World.WindY}
	wc := cfg.World
	world := simulation.NewWorld(simulation.Options{
		Boundary:    common.NewRect(wc.Left, wc.Bottom, wc.Right-wc.Left, wc.Top-wc.Bottom),
		Environment: env,
		Timestep:    cfg.Timestep(),
		Logger:      lg,
	})

	rng := rand.New(rand.NewPCG(uint64(wc.Seed), uint64(wc.Seed)>>32))
	player, err := objects.Setup(world, rng)
	if err != nil {
		lg.Errorf("Error setting up the world: %v", err)
		fmt.Fprintf(os.Stderr, "Error setting up the world: %v\n", err)
		os.Exit(1)
	}

	if *steps > 0 {
		runHeadless(world, *steps, cfg.Timestep(), lg)
		return
	}

	sc := scene.New(world, player, scene.Options{
		FPS:     cfg.FPS,
		Zoom:    camera.Zoom(cfg.Zoom - 1),
		Width:   float64(cfg.Window.Width),
		Height:  float64(cfg.Window.Height),
		Running: cfg.InitialRunning,
		Logger:  lg,
	})

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(max(1, int(math.Round(cfg.FPS))))
	// the scene redraws only when something changed
	ebiten.SetScreenClearedEveryFrame(false)

	if err := ebiten.RunGame(render.NewGame(sc, lg)); err != nil {
		lg.Errorf("Game loop: %v", err)
		os.Exit(1)
	}
	lg.Info("exiting", "time", world.Time(), "steps", world.Steps())
}

// runHeadless simulates without opening a window.
func runHeadless(world *simulation.World, n int, dt float64, lg *log.Logger) {
	fmt.Println("Initial state:")
	world.PrintState(os.Stdout)

	if err := world.Run(n, dt); err != nil {
		lg.Errorf("Headless run: %v", err)
		fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAfter %d steps:\n", n)
	world.PrintState(os.Stdout)
}
