// Package physics adapts the Chipmunk2D port to the game's float64/r2
// vocabulary. Units are meters, kilograms, seconds and radians.
package physics

import (
	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/spatial/r2"
)

// Space owns the rigid-body world. All bodies created through it are
// destroyed through it.
type Space struct {
	space *cp.Space
	steps int
}

// NewSpace creates an empty space with the given gravity.
func NewSpace(gravity r2.Vec) *Space {
	s := cp.NewSpace()
	s.SetGravity(toCP(gravity))
	return &Space{space: s}
}

// Step advances every body by dt seconds.
func (s *Space) Step(dt float64) {
	s.space.Step(dt)
	s.steps++
}

// Steps returns how many times Step was called.
func (s *Space) Steps() int {
	return s.steps
}

// Gravity returns the space gravity vector.
func (s *Space) Gravity() r2.Vec {
	return fromCP(s.space.Gravity())
}

// NewBox creates a dynamic box body of the given mass and size at pos.
func (s *Space) NewBox(mass, width, height float64, pos r2.Vec, friction float64) *Body {
	body := s.space.AddBody(cp.NewBody(mass, cp.MomentForBox(mass, width, height)))
	body.SetPosition(toCP(pos))
	shape := s.space.AddShape(cp.NewBox(body, width, height, 0))
	shape.SetFriction(friction)
	return &Body{body: body, space: s}
}

// NewStaticPolyline adds a chain of static segments to the space. It is
// used for terrain.
func (s *Space) NewStaticPolyline(points []r2.Vec, friction float64) *Body {
	static := s.space.AddBody(cp.NewStaticBody())
	for i := 1; i < len(points); i++ {
		seg := s.space.AddShape(cp.NewSegment(static, toCP(points[i-1]), toCP(points[i]), 0))
		seg.SetFriction(friction)
		seg.SetElasticity(0.1)
	}
	return &Body{body: static, space: s}
}

// Remove detaches a body and all its shapes from the space. Removing a
// body twice is a no-op.
func (s *Space) Remove(b *Body) {
	if b == nil || b.removed {
		return
	}
	var shapes []*cp.Shape
	b.body.EachShape(func(shape *cp.Shape) {
		shapes = append(shapes, shape)
	})
	for _, shape := range shapes {
		s.space.RemoveShape(shape)
	}
	s.space.RemoveBody(b.body)
	b.removed = true
}

func toCP(v r2.Vec) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromCP(v cp.Vector) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}
