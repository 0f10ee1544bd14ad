package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestFreeFall(t *testing.T) {
	s := NewSpace(r2.Vec{Y: -10})
	b := s.NewBox(100, 2, 1, r2.Vec{X: 5, Y: 100}, 0.5)

	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}
	if s.Steps() != 10 {
		t.Errorf("Steps() = %d, want 10", s.Steps())
	}
	v := b.Velocity()
	if math.Abs(v.Y+10) > 0.5 || math.Abs(v.X) > 1e-9 {
		t.Errorf("after 1s of free fall velocity = %v, want ~[0, -10]", v)
	}
	if p := b.Position(); p.Y >= 100 || p.X != 5 {
		t.Errorf("body did not fall straight down: %v", p)
	}
}

func TestRestsOnPolyline(t *testing.T) {
	s := NewSpace(r2.Vec{Y: -10})
	s.NewStaticPolyline([]r2.Vec{{X: -100, Y: 0}, {X: 0, Y: 0}, {X: 100, Y: 0}}, 1)
	b := s.NewBox(10, 2, 2, r2.Vec{Y: 5}, 1)

	for i := 0; i < 200; i++ {
		s.Step(0.02)
	}
	if y := b.Position().Y; y < 0.5 || y > 1.5 {
		t.Errorf("box should rest on the ground at y~1, got %v", y)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewSpace(r2.Vec{})
	b := s.NewBox(1, 1, 1, r2.Vec{}, 0)
	s.Remove(b)
	s.Remove(b)
	if !b.Removed() {
		t.Error("body should be marked removed")
	}
	s.Step(0.1)
}

func TestApplyForce(t *testing.T) {
	s := NewSpace(r2.Vec{})
	b := s.NewBox(2, 1, 1, r2.Vec{}, 0)
	b.ApplyForce(r2.Vec{X: 20})
	s.Step(0.5)
	if v := b.Velocity(); math.Abs(v.X-5) > 1e-6 {
		t.Errorf("velocity after F=20N on 2kg for 0.5s = %v, want 5", v.X)
	}
}
