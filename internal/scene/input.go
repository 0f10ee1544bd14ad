package scene

import (
	"flyer/internal/common"

	"gonum.org/v1/gonum/spatial/r2"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Key identifies the keys the scene reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyV
	KeyF
	KeyB
	KeyA
	KeyPageUp
	KeyPageDown
	KeyP
)

const (
	// flapsStep is the flaps change per key press.
	flapsStep = 0.33
	// wheelUnitsPerThrottle: one wheel notch is 120 units and moves the
	// throttle by 0.1.
	wheelUnitsPerThrottle = 1200.0
)

// PointerEvent is a pointer move, press or release at a screen position.
type PointerEvent struct {
	Pos    r2.Vec
	Button Button
}

// WheelEvent carries wheel rotation, 120 units per notch.
type WheelEvent struct {
	Delta float64
}

// KeyEvent is a key press or release.
type KeyEvent struct {
	Key        Key
	AutoRepeat bool
}

// Consumer handles input events. Each method reports whether the event
// was accepted.
type Consumer interface {
	PointerMove(e PointerEvent) bool
	PointerPress(e PointerEvent) bool
	PointerRelease(e PointerEvent) bool
	Wheel(e WheelEvent) bool
	KeyPress(e KeyEvent) bool
	KeyRelease(e KeyEvent) bool
}

// SetOverlay installs a consumer that sees every event before the scene.
// Events it accepts are not acted upon by the scene.
func (s *Scene) SetOverlay(c Consumer) { s.overlay = c }

// HasFocus reports whether the scene has claimed input focus.
func (s *Scene) HasFocus() bool { return s.focused }

// PointerMove steers: the vertical offset from the viewport center maps
// linearly to the elevator, unless the autopilot flies.
func (s *Scene) PointerMove(e PointerEvent) bool {
	if s.overlay != nil && s.overlay.PointerMove(e) {
		return false
	}
	if _, h := s.camera.Viewport(); h > 0 && !s.plane.Autopilot() {
		s.plane.SetElevator(common.Clamp(2*(-e.Pos.Y/h+0.5), -1, 1))
	}
	s.focused = true
	return true
}

// PointerPress starts firing on the left button and drops a weapon on the
// right one.
func (s *Scene) PointerPress(e PointerEvent) bool {
	if s.overlay != nil && s.overlay.PointerPress(e) {
		return false
	}
	accepted := true
	switch e.Button {
	case ButtonLeft:
		s.plane.SetFiring(true)
	case ButtonRight:
		s.plane.ReleaseWeapon()
	default:
		accepted = false
	}
	s.focused = true
	return accepted
}

// PointerRelease stops firing.
func (s *Scene) PointerRelease(e PointerEvent) bool {
	if s.overlay != nil && s.overlay.PointerRelease(e) {
		return false
	}
	accepted := e.Button == ButtonLeft
	if accepted {
		s.plane.SetFiring(false)
	}
	s.focused = true
	return accepted
}

// Wheel moves the throttle by 0.1 per notch.
func (s *Scene) Wheel(e WheelEvent) bool {
	if s.overlay != nil && s.overlay.Wheel(e) {
		return false
	}
	s.plane.SetThrottle(s.plane.Throttle() + e.Delta/wheelUnitsPerThrottle)
	s.focused = true
	return true
}

// KeyPress handles the keyboard controls. Auto-repeated presses are
// ignored.
func (s *Scene) KeyPress(e KeyEvent) bool {
	if s.overlay != nil && s.overlay.KeyPress(e) {
		return false
	}
	s.focused = true
	if e.AutoRepeat {
		return false
	}

	switch e.Key {
	case KeySpace:
		s.plane.FlipPlane()
	case KeyV:
		s.plane.SetFlaps(s.plane.Flaps() + flapsStep)
	case KeyF:
		s.plane.SetFlaps(s.plane.Flaps() - flapsStep)
	case KeyB:
		s.plane.ApplyWheelBrake(true)
	case KeyA:
		s.plane.SetAutopilot(!s.plane.Autopilot())
	case KeyPageUp:
		s.camera.SetZoom(s.camera.Zoom().ZoomOut())
		s.adjustTransform()
	case KeyPageDown:
		s.camera.SetZoom(s.camera.Zoom().ZoomIn())
		s.adjustTransform()
	case KeyP:
		s.Toggle()
	default:
		return false
	}
	s.dirty = true
	return true
}

// KeyRelease lets go of the wheel brake.
func (s *Scene) KeyRelease(e KeyEvent) bool {
	if s.overlay != nil && s.overlay.KeyRelease(e) {
		return false
	}
	s.focused = true
	if e.AutoRepeat || e.Key != KeyB {
		return false
	}
	s.plane.ApplyWheelBrake(false)
	return true
}
