package physics

import (
	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a handle to a rigid body living in a Space.
type Body struct {
	body    *cp.Body
	space   *Space
	removed bool
}

func (b *Body) Position() r2.Vec {
	return fromCP(b.body.Position())
}

func (b *Body) SetPosition(p r2.Vec) {
	b.body.SetPosition(toCP(p))
}

// Velocity returns the linear velocity in m/s.
func (b *Body) Velocity() r2.Vec {
	return fromCP(b.body.Velocity())
}

func (b *Body) SetVelocity(v r2.Vec) {
	b.body.SetVelocityVector(toCP(v))
}

// Angle returns the body rotation in radians, counter-clockwise.
func (b *Body) Angle() float64 {
	return b.body.Angle()
}

func (b *Body) SetAngle(a float64) {
	b.body.SetAngle(a)
}

func (b *Body) AngularVelocity() float64 {
	return b.body.AngularVelocity()
}

func (b *Body) SetAngularVelocity(w float64) {
	b.body.SetAngularVelocity(w)
}

func (b *Body) Mass() float64 {
	return b.body.Mass()
}

// ApplyForce applies a force at the body's center of gravity until the
// next step.
func (b *Body) ApplyForce(f r2.Vec) {
	b.body.ApplyForceAtWorldPoint(toCP(f), b.body.Position())
}

// ApplyForceAt applies a world-space force at a point given in body-local
// coordinates, producing torque around the center of gravity.
func (b *Body) ApplyForceAt(f r2.Vec, local r2.Vec) {
	b.body.ApplyForceAtWorldPoint(toCP(f), b.body.LocalToWorld(toCP(local)))
}

// SetTorque sets the torque applied until the next step.
func (b *Body) SetTorque(t float64) {
	b.body.SetTorque(t)
}

// LocalToWorld converts a body-local point to world coordinates.
func (b *Body) LocalToWorld(p r2.Vec) r2.Vec {
	return fromCP(b.body.LocalToWorld(toCP(p)))
}

// Removed reports whether the body was taken out of its space.
func (b *Body) Removed() bool {
	return b.removed
}
