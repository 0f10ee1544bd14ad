package scene

import (
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"flyer/internal/camera"
	"flyer/internal/common"
	"flyer/internal/objects"
	"flyer/internal/simulation"

	"gonum.org/v1/gonum/spatial/r2"
)

type fakePlane struct {
	pos, vel    r2.Vec
	angle       float64
	orientation float64

	elevator  float64
	throttle  float64
	flaps     float64
	autopilot bool
	firing    bool
	brake     bool
	released  int
	flips     int
	messages  []objects.Message
}

func (f *fakePlane) Render(p simulation.Painter, clip common.Rect)      {}
func (f *fakePlane) RenderOnMap(p simulation.Painter, clip common.Rect) {}
func (f *fakePlane) Simulate(w *simulation.World, dt float64)           {}
func (f *fakePlane) Destroy()                                           {}
func (f *fakePlane) Bounds() common.Rect                                { return common.RectAround(f.pos, 8, 8) }

func (f *fakePlane) Position() r2.Vec     { return f.pos }
func (f *fakePlane) Velocity() r2.Vec     { return f.vel }
func (f *fakePlane) Angle() float64       { return f.angle }
func (f *fakePlane) Orientation() float64 { return f.orientation }
func (f *fakePlane) Airspeed(env simulation.Environment) float64 {
	return r2.Norm(env.Airflow(f.vel))
}

func (f *fakePlane) Throttle() float64       { return f.throttle }
func (f *fakePlane) SetThrottle(t float64)   { f.throttle = common.Clamp(t, 0, 1) }
func (f *fakePlane) Flaps() float64          { return f.flaps }
func (f *fakePlane) SetFlaps(v float64)      { f.flaps = common.Clamp(v, 0, 1) }
func (f *fakePlane) Autopilot() bool         { return f.autopilot }
func (f *fakePlane) SetAutopilot(on bool)    { f.autopilot = on }
func (f *fakePlane) SetElevator(e float64)   { f.elevator = e }
func (f *fakePlane) SetFiring(on bool)       { f.firing = on }
func (f *fakePlane) ReleaseWeapon()          { f.released++ }
func (f *fakePlane) FlipPlane()              { f.flips++; f.orientation = -f.orientation }
func (f *fakePlane) ApplyWheelBrake(on bool) { f.brake = on }

func (f *fakePlane) Messages() []objects.Message { return f.messages }

// acceptAll swallows every event.
type acceptAll struct{ seen int }

func (a *acceptAll) PointerMove(PointerEvent) bool    { a.seen++; return true }
func (a *acceptAll) PointerPress(PointerEvent) bool   { a.seen++; return true }
func (a *acceptAll) PointerRelease(PointerEvent) bool { a.seen++; return true }
func (a *acceptAll) Wheel(WheelEvent) bool            { a.seen++; return true }
func (a *acceptAll) KeyPress(KeyEvent) bool           { a.seen++; return true }
func (a *acceptAll) KeyRelease(KeyEvent) bool         { a.seen++; return true }

func newTestScene(running bool) (*Scene, *fakePlane) {
	w := simulation.NewWorld(simulation.Options{
		Boundary:    common.NewRect(-1000, 0, 2000, 1000),
		Environment: simulation.DefaultEnvironment(),
		Timestep:    0.1,
	})
	p := &fakePlane{pos: r2.Vec{X: 100, Y: 200}, vel: r2.Vec{X: 10}, orientation: 1, throttle: 0.5}
	s := New(w, p, Options{FPS: 20, Zoom: camera.Zoom2, Width: 1000, Height: 700, Running: running})
	return s, p
}

func labelTexts(h HUD) []string {
	var out []string
	for _, l := range h.Labels {
		out = append(out, l.Text)
	}
	return out
}

func TestClock(t *testing.T) {
	s, _ := newTestScene(false)
	w := s.World()

	s.Tick()
	if w.Steps() != 0 {
		t.Fatal("stopped clock advanced the simulation")
	}
	s.Step()
	if w.Steps() != 1 || math.Abs(w.Time()-0.05) > 1e-12 {
		t.Errorf("Step: steps %d time %v, want 1 step of 1/FPS", w.Steps(), w.Time())
	}

	s.Start()
	if !s.IsRunning() {
		t.Fatal("Start did not start")
	}
	s.Tick()
	s.Step() // ignored while running
	if w.Steps() != 2 {
		t.Errorf("steps = %d, want 2", w.Steps())
	}

	s.Toggle()
	if s.IsRunning() {
		t.Error("Toggle did not stop")
	}
	s.Toggle()
	if !s.IsRunning() {
		t.Error("Toggle did not restart")
	}
	if s.Frames() != 2 {
		t.Errorf("frames = %d", s.Frames())
	}
}

func TestStopResetsFrameMeter(t *testing.T) {
	s, _ := newTestScene(true)
	now := time.Unix(100, 0)
	for i := 0; i < 5; i++ {
		s.FrameRendered(now.Add(time.Duration(i) * 50 * time.Millisecond))
	}
	if math.Abs(s.FPS()-20) > 1e-9 {
		t.Fatalf("FPS = %v, want 20", s.FPS())
	}
	s.Stop()
	if s.FPS() != 0 {
		t.Errorf("FPS after stop = %v", s.FPS())
	}
}

func TestFrameMeter(t *testing.T) {
	m := NewFrameMeter()
	if m.FPS() != 0 {
		t.Fatal("FPS before any frame")
	}
	start := time.Unix(0, 0)
	m.Frame(start)
	if m.FPS() != 0 {
		t.Fatal("FPS after a single frame")
	}

	// 20 slow frames, then 10 fast ones push the slow ones out of the window
	at := start
	for i := 0; i < 20; i++ {
		at = at.Add(time.Second)
		m.Frame(at)
	}
	for i := 0; i < frameWindow; i++ {
		at = at.Add(100 * time.Millisecond)
		m.Frame(at)
	}
	if math.Abs(m.FPS()-10) > 1e-9 {
		t.Errorf("FPS = %v, want 10", m.FPS())
	}

	// frames with the same timestamp are not counted
	m.Frame(at)
	if math.Abs(m.FPS()-10) > 1e-9 {
		t.Errorf("FPS = %v after a duplicate frame", m.FPS())
	}
}

func TestTransformFollowsPlane(t *testing.T) {
	s, p := newTestScene(true)
	for i := 0; i < 5; i++ {
		p.pos.X += 1
		s.Tick()
		got := s.Transform().Map(p.pos)
		a := s.Camera().Anchor()
		if math.Abs(got.X-a.X) > 1e-9 || math.Abs(got.Y-a.Y) > 1e-9 {
			t.Fatalf("plane drawn at %v, anchor %v", got, a)
		}
	}
	if !s.Dirty() || s.Dirty() {
		t.Error("Dirty should report a change once")
	}
	if !s.VisibleArea().Contains(p.pos) {
		t.Error("visible area does not contain the plane")
	}
}

func TestResized(t *testing.T) {
	s, _ := newTestScene(true)
	s.Resized(800, 600)
	if a := s.Camera().Anchor(); a != (r2.Vec{X: 400, Y: 300}) {
		t.Errorf("anchor = %v after resize", a)
	}
	if w, h := s.Camera().Viewport(); w != 800 || h != 600 {
		t.Errorf("viewport = %vx%v", w, h)
	}
	m := s.MapTransform().Map(s.World().Boundary().Min)
	if math.Abs(m.X-10) > 1e-9 || math.Abs(m.Y-590) > 1e-9 {
		t.Errorf("minimap corner at %v", m)
	}
}

func TestHUDLabels(t *testing.T) {
	s, p := newTestScene(false)
	p.vel = r2.Vec{X: 100}
	p.pos = r2.Vec{X: 2500, Y: 321.5}
	p.throttle = 0.5
	p.flaps = 0.66

	texts := labelTexts(s.HUD())
	want := []string{
		"airspeed: 360.00 km/h",
		"altitude: 321.50 m",
		"location: 2.5 km",
		"FPS: 0.0",
		"throttle: 50%",
		"flaps: 66%",
		pausedBanner,
	}
	if !slices.Equal(texts, want) {
		t.Errorf("labels = %q\nwant %q", texts, want)
	}

	p.autopilot = true
	s.Start()
	texts = labelTexts(s.HUD())
	if !slices.Contains(texts, "autopilot") {
		t.Error("autopilot label missing")
	}
	if slices.Contains(texts, pausedBanner) {
		t.Error("paused banner shown while running")
	}
}

func TestHUDPlacement(t *testing.T) {
	s, _ := newTestScene(false)
	h := s.HUD()
	for _, l := range h.Labels {
		switch {
		case l.Text == pausedBanner:
			if !l.Centered || l.Pos.X != 500 {
				t.Errorf("paused banner at %v centered=%v", l.Pos, l.Centered)
			}
		case strings.HasPrefix(l.Text, "FPS:"):
			if l.Pos != (r2.Vec{X: 10, Y: 685}) {
				t.Errorf("FPS label at %v", l.Pos)
			}
		case strings.HasPrefix(l.Text, "throttle:"):
			if l.Pos != (r2.Vec{X: 900, Y: 10}) {
				t.Errorf("throttle label at %v", l.Pos)
			}
		}
	}
	box := h.MessageBox
	if math.Abs(box.Min.Y-490) > 1e-9 || math.Abs(common.Height(box)-210) > 1e-9 || common.Width(box) != 1000 {
		t.Errorf("message box %v", box)
	}
}

func TestHeadingLines(t *testing.T) {
	lines := headingLines(r2.Vec{X: 500, Y: 350}, 0, 1)
	want := [2][2]r2.Vec{
		{{X: 500, Y: 310}, {X: 500, Y: 250}},
		{{X: 540, Y: 350}, {X: 700, Y: 350}},
	}
	if lines != want {
		t.Errorf("level flight lines = %v", lines)
	}

	// nose up 90 degrees, flipped: "up" points right on screen
	lines = headingLines(r2.Vec{}, math.Pi/2, -1)
	up := lines[0][1]
	if math.Abs(up.X-100) > 1e-9 || math.Abs(up.Y) > 1e-9 {
		t.Errorf("up line ends at %v", up)
	}
	fwd := lines[1][1]
	if math.Abs(fwd.X) > 1e-9 || math.Abs(fwd.Y+200) > 1e-9 {
		t.Errorf("forward line ends at %v", fwd)
	}
}

func TestRecentMessages(t *testing.T) {
	s, p := newTestScene(true)
	for i := 0; i < 120; i++ { // world time 6
		s.Tick()
	}
	p.messages = []objects.Message{
		{Time: 0, Text: "old"},
		{Time: 1.5, Text: "a"},
		{Time: 2, Text: "b"},
		{Time: 3, Text: "c"},
		{Time: 4, Text: "d"},
		{Time: 5, Text: "e"},
		{Time: 5.5, Text: "f"},
	}
	h := s.HUD()
	if want := []string{"b", "c", "d", "e", "f"}; !slices.Equal(h.Messages, want) {
		t.Errorf("messages = %q, want %q", h.Messages, want)
	}
	if h.MessageText() != "b\nc\nd\ne\nf" {
		t.Errorf("message text %q", h.MessageText())
	}

	p.messages = p.messages[:2]
	if got := s.HUD().Messages; len(got) != 1 || got[0] != "a" {
		t.Errorf("messages = %q, want only the one younger than 5 s", got)
	}
}

func TestPointerSteering(t *testing.T) {
	tests := []struct {
		y    float64
		want float64
	}{
		{0, 1},
		{175, 0.5},
		{350, 0},
		{700, -1},
	}
	for _, tt := range tests {
		s, p := newTestScene(true)
		if !s.PointerMove(PointerEvent{Pos: r2.Vec{X: 10, Y: tt.y}}) {
			t.Errorf("y=%v: move not accepted", tt.y)
		}
		if math.Abs(p.elevator-tt.want) > 1e-9 {
			t.Errorf("y=%v: elevator %v, want %v", tt.y, p.elevator, tt.want)
		}
		if !s.HasFocus() {
			t.Error("focus not claimed")
		}
	}

	s, p := newTestScene(true)
	p.autopilot = true
	p.elevator = 0.2
	s.PointerMove(PointerEvent{Pos: r2.Vec{Y: 0}})
	if p.elevator != 0.2 {
		t.Error("pointer steered while the autopilot was on")
	}
}

func TestPointerButtons(t *testing.T) {
	s, p := newTestScene(true)
	s.PointerPress(PointerEvent{Button: ButtonLeft})
	if !p.firing {
		t.Error("left press did not start firing")
	}
	s.PointerRelease(PointerEvent{Button: ButtonLeft})
	if p.firing {
		t.Error("left release did not stop firing")
	}
	s.PointerPress(PointerEvent{Button: ButtonRight})
	s.PointerRelease(PointerEvent{Button: ButtonRight})
	if p.released != 1 {
		t.Errorf("weapons released = %d", p.released)
	}
	if s.PointerPress(PointerEvent{Button: ButtonMiddle}) {
		t.Error("middle button accepted")
	}
}

func TestWheelThrottle(t *testing.T) {
	s, p := newTestScene(true)
	s.Wheel(WheelEvent{Delta: 120})
	if math.Abs(p.throttle-0.6) > 1e-9 {
		t.Errorf("throttle = %v after one notch up", p.throttle)
	}
	s.Wheel(WheelEvent{Delta: -360})
	if math.Abs(p.throttle-0.3) > 1e-9 {
		t.Errorf("throttle = %v after three notches down", p.throttle)
	}
}

func TestKeys(t *testing.T) {
	s, p := newTestScene(false)

	press := func(k Key) bool { return s.KeyPress(KeyEvent{Key: k}) }

	press(KeyV)
	press(KeyV)
	if math.Abs(p.flaps-0.66) > 1e-9 {
		t.Errorf("flaps = %v after two V presses", p.flaps)
	}
	press(KeyF)
	if math.Abs(p.flaps-0.33) > 1e-9 {
		t.Errorf("flaps = %v after F", p.flaps)
	}

	press(KeyB)
	if !p.brake {
		t.Error("B did not apply the brake")
	}
	s.KeyRelease(KeyEvent{Key: KeyB, AutoRepeat: true})
	if !p.brake {
		t.Error("auto-repeat release let go of the brake")
	}
	s.KeyRelease(KeyEvent{Key: KeyB})
	if p.brake {
		t.Error("B release kept the brake")
	}

	press(KeySpace)
	s.KeyPress(KeyEvent{Key: KeySpace, AutoRepeat: true})
	if p.flips != 1 {
		t.Errorf("flips = %d, auto-repeat should be ignored", p.flips)
	}

	press(KeyA)
	if !p.autopilot {
		t.Error("A did not engage the autopilot")
	}
	press(KeyA)
	if p.autopilot {
		t.Error("A did not disengage the autopilot")
	}

	press(KeyPageUp)
	if s.Camera().Zoom() != camera.Zoom3 {
		t.Errorf("PageUp: zoom %d", s.Camera().Zoom())
	}
	press(KeyPageDown)
	press(KeyPageDown)
	press(KeyPageDown)
	if s.Camera().Zoom() != camera.Zoom1 {
		t.Errorf("PageDown: zoom %d", s.Camera().Zoom())
	}

	press(KeyP)
	if !s.IsRunning() {
		t.Error("P did not start the clock")
	}
	press(KeyP)
	if s.IsRunning() {
		t.Error("P did not stop the clock")
	}

	if press(KeyUnknown) {
		t.Error("unknown key accepted")
	}
}

func TestOverlayConsumesFirst(t *testing.T) {
	s, p := newTestScene(true)
	overlay := &acceptAll{}
	s.SetOverlay(overlay)

	s.PointerMove(PointerEvent{Pos: r2.Vec{Y: 0}})
	s.PointerPress(PointerEvent{Button: ButtonLeft})
	s.Wheel(WheelEvent{Delta: 120})
	s.KeyPress(KeyEvent{Key: KeyP})
	s.KeyRelease(KeyEvent{Key: KeyB})

	if overlay.seen != 5 {
		t.Errorf("overlay saw %d events", overlay.seen)
	}
	if p.elevator != 0 || p.firing || p.throttle != 0.5 || !s.IsRunning() {
		t.Error("scene acted on events the overlay accepted")
	}
	if s.HasFocus() {
		t.Error("focus claimed for accepted events")
	}
}
