// Package scene drives the simulation clock and turns the world and the
// player's plane into what is shown on screen. It is independent of the
// windowing library: input arrives as plain events and the HUD is returned
// as data for the renderer.
package scene

import (
	"time"

	"flyer/internal/camera"
	"flyer/internal/common"
	"flyer/internal/log"
	"flyer/internal/objects"
	"flyer/internal/simulation"

	"gonum.org/v1/gonum/spatial/r2"
)

// Aircraft is what the scene needs from the player's plane.
type Aircraft interface {
	simulation.Machine

	Position() r2.Vec
	Velocity() r2.Vec
	Angle() float64
	Orientation() float64
	Airspeed(env simulation.Environment) float64

	Throttle() float64
	SetThrottle(float64)
	Flaps() float64
	SetFlaps(float64)
	Autopilot() bool
	SetAutopilot(bool)
	SetElevator(float64)
	SetFiring(bool)
	ReleaseWeapon()
	FlipPlane()
	ApplyWheelBrake(bool)

	Messages() []objects.Message
}

// Options configures a Scene.
type Options struct {
	FPS     float64 // simulation steps per second
	Zoom    camera.Zoom
	Width   float64
	Height  float64
	Running bool
	Logger  *log.Logger
}

// Scene owns the camera and the clock for one world.
type Scene struct {
	world  *simulation.World
	plane  Aircraft
	camera *camera.Camera
	meter  *FrameMeter

	fps     float64
	running bool
	frames  int
	dirty   bool

	overlay Consumer
	focused bool

	lg *log.Logger
}

// New creates a scene showing world from the point of view of plane.
func New(world *simulation.World, plane Aircraft, opts Options) *Scene {
	if opts.FPS <= 0 {
		opts.FPS = 10
	}
	s := &Scene{
		world:   world,
		plane:   plane,
		camera:  camera.New(opts.Zoom, opts.Width, opts.Height),
		meter:   NewFrameMeter(),
		fps:     opts.FPS,
		running: opts.Running,
		dirty:   true,
		lg:      opts.Logger,
	}
	s.adjustTransform()
	return s
}

func (s *Scene) World() *simulation.World { return s.world }

func (s *Scene) Plane() Aircraft { return s.plane }

func (s *Scene) Camera() *camera.Camera { return s.camera }

// Start resumes the simulation clock.
func (s *Scene) Start() {
	if s.running {
		return
	}
	s.running = true
	s.dirty = true
	s.lg.Info("simulation started", "time", s.world.Time())
}

// Stop pauses the simulation clock. The view keeps redrawing to show the
// paused banner.
func (s *Scene) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.dirty = true
	s.meter.Reset()
	s.lg.Info("simulation stopped", "time", s.world.Time(), "steps", s.world.Steps())
}

// Toggle starts a stopped clock and stops a running one.
func (s *Scene) Toggle() {
	if s.running {
		s.Stop()
	} else {
		s.Start()
	}
}

func (s *Scene) IsRunning() bool { return s.running }

// Step advances a stopped simulation by a single tick.
func (s *Scene) Step() {
	if !s.running {
		s.OnTimer()
	}
}

// Tick is called by the clock source at FPS. It advances the simulation
// only while running.
func (s *Scene) Tick() {
	if s.running {
		s.OnTimer()
	}
}

// OnTimer runs one simulation step of 1/FPS seconds and moves the camera.
func (s *Scene) OnTimer() {
	if err := s.world.Simulate(1 / s.fps); err != nil {
		s.lg.Error("simulation step failed", "error", err)
		return
	}
	s.adjustTransform()
	s.frames++
	s.dirty = true
}

// Frames returns the number of ticks simulated through this scene.
func (s *Scene) Frames() int { return s.frames }

// Dirty reports whether the view changed since the last call, and clears
// the flag.
func (s *Scene) Dirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

func (s *Scene) adjustTransform() {
	s.camera.Adjust(s.plane.Position(), s.plane.Velocity(), s.world.Timestep())
}

// Resized recenters the plane for a new viewport size.
func (s *Scene) Resized(width, height float64) {
	if w, h := s.camera.Viewport(); w == width && h == height {
		return
	}
	s.camera.Resize(width, height)
	s.adjustTransform()
	s.dirty = true
	s.lg.Debug("viewport resized", "width", width, "height", height)
}

// Transform maps world coordinates to the screen.
func (s *Scene) Transform() camera.Transform { return s.camera.Transform() }

// MapTransform maps world coordinates to the minimap in the bottom-left
// corner.
func (s *Scene) MapTransform() camera.Transform {
	_, h := s.camera.Viewport()
	return camera.MapTransform(s.world.Boundary(), h)
}

// VisibleArea is the world clip rectangle for the current frame.
func (s *Scene) VisibleArea() common.Rect { return s.camera.VisibleArea() }

// FrameRendered records a redraw for the FPS counter.
func (s *Scene) FrameRendered(now time.Time) {
	s.meter.Frame(now)
}

// FPS returns the measured redraw rate.
func (s *Scene) FPS() float64 { return s.meter.FPS() }
