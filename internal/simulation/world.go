package simulation

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"slices"

	"flyer/internal/common"
	"flyer/internal/log"
	"flyer/internal/physics"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrDuplicateObject is returned when an object is registered twice.
	ErrDuplicateObject = errors.New("object already registered")
	// ErrUnknownObject is returned when removing an unregistered object.
	ErrUnknownObject = errors.New("object not registered")
	// ErrInvalidTimestep is returned by Simulate for dt <= 0, NaN or Inf.
	ErrInvalidTimestep = errors.New("invalid timestep")
)

// timer1Period is the interval of the periodic timer, in seconds.
const timer1Period = 1.0

// registration is the World's bookkeeping for one object.
type registration struct {
	id      string
	mask    ObjectType
	timer1  bool
	pending bool // queued for removal at the end of the current step
	destroy bool
}

// Options configures a new World.
type Options struct {
	Boundary    common.Rect
	Environment Environment
	// Timestep is reported by Timestep before the first step.
	Timestep float64
	Logger   *log.Logger
}

// World holds the physics space and every object in the game, and drives
// the simulation.
type World struct {
	space *physics.Space

	allObjects    []WorldObject
	objects       map[ObjectType][]WorldObject // one list per single-bit flag
	timer1Objects []WorldObject
	registered    map[WorldObject]*registration

	// objects to be removed once the current step finishes
	objectsToDestroy []WorldObject
	simulating       bool

	boundary    common.Rect
	environment Environment
	playerPlane Machine
	ground      Terrain

	steps      int
	time       float64
	timestep   float64
	timer1Time float64 // in [0, timer1Period) between steps

	lg *log.Logger
}

// NewWorld creates an empty world.
func NewWorld(opts Options) *World {
	if opts.Timestep <= 0 {
		opts.Timestep = 0.1
	}
	return &World{
		space:       physics.NewSpace(opts.Environment.Gravity),
		objects:     make(map[ObjectType][]WorldObject),
		registered:  make(map[WorldObject]*registration),
		boundary:    opts.Boundary.Canon(),
		environment: opts.Environment,
		timestep:    opts.Timestep,
		lg:          opts.Logger,
	}
}

// AddObject registers obj under every flag set in mask. Objects
// implementing Ticker are also subscribed to the 1-second timer.
func (w *World) AddObject(obj WorldObject, mask ObjectType) error {
	if obj == nil {
		return fmt.Errorf("add nil object: %w", ErrUnknownObject)
	}
	if _, ok := w.registered[obj]; ok {
		return fmt.Errorf("%T: %w", obj, ErrDuplicateObject)
	}

	reg := &registration{
		id:   fmt.Sprintf("obj-%s", uuid.NewString()[:8]),
		mask: mask,
	}
	w.registered[obj] = reg
	w.allObjects = append(w.allObjects, obj)
	for _, bit := range mask.Bits() {
		w.objects[bit] = append(w.objects[bit], obj)
	}
	if _, ok := obj.(Ticker); ok {
		reg.timer1 = true
		w.timer1Objects = append(w.timer1Objects, obj)
	}

	w.lg.Debug("object added", slog.String("id", reg.id), slog.String("type", fmt.Sprintf("%T", obj)),
		slog.String("mask", mask.String()))
	return nil
}

// AddToTimer1 subscribes a registered object to the 1-second timer even
// if it does not implement Ticker; such objects are simply skipped when
// the timer fires. Subscribing twice is a no-op.
func (w *World) AddToTimer1(obj WorldObject) error {
	reg, ok := w.registered[obj]
	if !ok {
		return fmt.Errorf("%T: %w", obj, ErrUnknownObject)
	}
	if !reg.timer1 {
		reg.timer1 = true
		w.timer1Objects = append(w.timer1Objects, obj)
	}
	return nil
}

// RemoveObject unregisters obj from every list. With destroy set the
// object's resources are released; otherwise ownership returns to the
// caller. During Simulate the request is queued and carried out when the
// step ends; queuing the same object again is a no-op apart from
// upgrading the request to destroy.
func (w *World) RemoveObject(obj WorldObject, destroy bool) error {
	reg, ok := w.registered[obj]
	if !ok {
		return fmt.Errorf("%T: %w", obj, ErrUnknownObject)
	}

	if w.simulating {
		if reg.pending {
			reg.destroy = reg.destroy || destroy
			return nil
		}
		reg.pending = true
		reg.destroy = destroy
		w.objectsToDestroy = append(w.objectsToDestroy, obj)
		return nil
	}

	w.unregister(obj, reg)
	if destroy {
		obj.Destroy()
	}
	w.lg.Debug("object removed", slog.String("id", reg.id), slog.Bool("destroyed", destroy))
	return nil
}

func (w *World) unregister(obj WorldObject, reg *registration) {
	is := func(o WorldObject) bool { return o == obj }

	w.allObjects = slices.DeleteFunc(w.allObjects, is)
	for _, bit := range reg.mask.Bits() {
		w.objects[bit] = slices.DeleteFunc(w.objects[bit], is)
		if len(w.objects[bit]) == 0 {
			delete(w.objects, bit)
		}
	}
	if reg.timer1 {
		w.timer1Objects = slices.DeleteFunc(w.timer1Objects, is)
	}
	delete(w.registered, obj)

	if w.playerPlane != nil && WorldObject(w.playerPlane) == obj {
		w.playerPlane = nil
	}
	if w.ground != nil && WorldObject(w.ground) == obj {
		w.ground = nil
	}
}

// Pending reports whether obj is queued for removal.
func (w *World) Pending(obj WorldObject) bool {
	reg, ok := w.registered[obj]
	return ok && reg.pending
}

// Simulate advances the world by dt seconds: physics first, then every
// simulated object, then the 1-second timer. Removals requested during
// the step are carried out after all of that.
func (w *World) Simulate(dt float64) error {
	if dt <= 0 || !common.IsFinite(dt) {
		w.lg.Warn("rejected simulation step", slog.Float64("dt", dt))
		return fmt.Errorf("%g: %w", dt, ErrInvalidTimestep)
	}

	w.simulating = true
	w.space.Step(dt)
	w.time += dt
	w.timestep = dt

	for _, obj := range w.objects[ObjectSimulated] {
		if w.registered[obj].pending {
			continue
		}
		obj.Simulate(w, dt)
	}

	w.timer1Time += dt
	for w.timer1Time >= timer1Period {
		w.timer1Time -= timer1Period
		for _, obj := range w.timer1Objects {
			if w.registered[obj].pending {
				continue
			}
			if t, ok := obj.(Ticker); ok {
				t.Timer1(w)
			}
		}
	}

	w.steps++
	w.simulating = false

	w.flush()
	return nil
}

// flush carries out removals queued during the step.
func (w *World) flush() {
	for len(w.objectsToDestroy) > 0 {
		obj := w.objectsToDestroy[0]
		w.objectsToDestroy = w.objectsToDestroy[1:]

		reg, ok := w.registered[obj]
		if !ok {
			continue
		}
		w.unregister(obj, reg)
		if reg.destroy {
			obj.Destroy()
		}
		w.lg.Debug("object removed after step", slog.String("id", reg.id),
			slog.Bool("destroyed", reg.destroy), slog.Int("step", w.steps))
	}
	w.objectsToDestroy = nil
}

// Render draws every object registered with ObjectRendered.
func (w *World) Render(p Painter, clip common.Rect) {
	w.renderAtmosphere(p, clip)
	for _, obj := range w.objects[ObjectRendered] {
		obj.Render(p, clip)
	}
}

// RenderMap draws every object registered with ObjectRenderedMap.
func (w *World) RenderMap(p Painter, clip common.Rect) {
	for _, obj := range w.objects[ObjectRenderedMap] {
		obj.RenderOnMap(p, clip)
	}
}

const atmosphereBands = 16

var (
	skyLow  = color.RGBA{170, 210, 240, 255}
	skyHigh = color.RGBA{60, 100, 180, 255}
)

// renderAtmosphere paints the sky as horizontal bands darkening with
// altitude up to the top of the world.
func (w *World) renderAtmosphere(p Painter, clip common.Rect) {
	clip = clip.Canon()
	h := common.Height(clip)
	if h <= 0 {
		return
	}
	band := h / atmosphereBands
	top := w.boundary.Max.Y
	for i := 0; i < atmosphereBands; i++ {
		y := clip.Min.Y + float64(i)*band
		f := 0.0
		if top > 0 {
			f = common.Clamp((y+band/2)/top, 0, 1)
		}
		p.FillRect(common.NewRect(clip.Min.X, y, common.Width(clip), band), mix(skyLow, skyHigh, f))
	}
}

func mix(a, b color.RGBA, f float64) color.RGBA {
	l := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
	return color.RGBA{l(a.R, b.R), l(a.G, b.G), l(a.B, b.B), 255}
}

// FindMachines returns registered machines whose bounds intersect area.
// types selects classes and sides: an object matches when it carries one
// of the requested class flags (if any class was requested) and one of
// the requested side flags (if any side was requested). The result is a
// new slice in registration order. Objects queued for removal are
// skipped.
func (w *World) FindMachines(area common.Rect, types ObjectType) []Machine {
	classes := types & MachineClasses
	sides := types & Sides
	if classes == 0 && sides == 0 {
		return nil
	}

	var found []Machine
	for _, obj := range w.allObjects {
		reg := w.registered[obj]
		if reg.pending || reg.mask&MachineClasses == 0 {
			continue
		}
		if classes != 0 && reg.mask&classes == 0 {
			continue
		}
		if sides != 0 && reg.mask&sides == 0 {
			continue
		}
		m, ok := obj.(Machine)
		if !ok || !common.Intersects(m.Bounds(), area) {
			continue
		}
		found = append(found, m)
	}
	return found
}

// Objects returns the objects registered under a single flag, in
// registration order. The slice is a copy.
func (w *World) Objects(flag ObjectType) []WorldObject {
	return slices.Clone(w.objects[flag])
}

// AllObjects returns every registered object in registration order.
func (w *World) AllObjects() []WorldObject {
	return slices.Clone(w.allObjects)
}

// Timer1Objects returns the objects subscribed to the 1-second timer.
func (w *World) Timer1Objects() []WorldObject {
	return slices.Clone(w.timer1Objects)
}

// Classification returns the mask obj was registered with.
func (w *World) Classification(obj WorldObject) (ObjectType, bool) {
	reg, ok := w.registered[obj]
	if !ok {
		return 0, false
	}
	return reg.mask, true
}

// SetPlayerPlane marks a registered machine as the player's plane.
func (w *World) SetPlayerPlane(m Machine) error {
	if _, ok := w.registered[m]; !ok {
		return fmt.Errorf("player plane: %w", ErrUnknownObject)
	}
	w.playerPlane = m
	return nil
}

// SetGround marks a registered object as the ground.
func (w *World) SetGround(t Terrain) error {
	if _, ok := w.registered[t]; !ok {
		return fmt.Errorf("ground: %w", ErrUnknownObject)
	}
	w.ground = t
	return nil
}

func (w *World) PlayerPlane() Machine { return w.playerPlane }

func (w *World) Ground() Terrain { return w.ground }

// GroundHeight returns the terrain elevation at x, or 0 without terrain.
func (w *World) GroundHeight(x float64) float64 {
	if w.ground == nil {
		return 0
	}
	return w.ground.Height(x)
}

func (w *World) Environment() Environment { return w.environment }

func (w *World) Boundary() common.Rect { return w.boundary }

func (w *World) Physics() *physics.Space { return w.space }

// Time returns the simulated time in seconds.
func (w *World) Time() float64 { return w.time }

// Timestep returns the dt of the last step.
func (w *World) Timestep() float64 { return w.timestep }

// Steps returns the number of completed steps.
func (w *World) Steps() int { return w.steps }

// Timer1Time returns the time accumulated towards the next 1-second tick.
func (w *World) Timer1Time() float64 { return w.timer1Time }

// Logger returns the world's logger; it may be nil.
func (w *World) Logger() *log.Logger { return w.lg }

// Center returns the middle of the world boundary.
func (w *World) Center() r2.Vec { return w.boundary.Center() }
