package common

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rect is an axis-aligned rectangle in world or screen coordinates.
// It is a thin alias over gonum's r2.Box so the rest of the code can share
// gonum's vector helpers.
type Rect = r2.Box

// NewRect creates a rectangle from its left/bottom corner and size.
// Negative sizes are normalized.
func NewRect(x, y, w, h float64) Rect {
	return r2.NewBox(x, y, x+w, y+h)
}

// RectAround returns a rectangle of the given size centered at c.
func RectAround(c r2.Vec, w, h float64) Rect {
	return r2.NewBox(c.X-w/2, c.Y-h/2, c.X+w/2, c.Y+h/2)
}

// Intersects reports whether two rectangles overlap. Touching edges count
// as overlap, which matches how point-sized objects on a boundary are found.
func Intersects(a, b Rect) bool {
	a, b = a.Canon(), b.Canon()
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

// Width returns the horizontal extent of r.
func Width(r Rect) float64 {
	return math.Abs(r.Max.X - r.Min.X)
}

// Height returns the vertical extent of r.
func Height(r Rect) float64 {
	return math.Abs(r.Max.Y - r.Min.Y)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// FromPolar returns a unit vector pointing at angle a (radians).
func FromPolar(a float64) r2.Vec {
	return r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FormatVec formats a vector with limited precision for log output.
func FormatVec(v r2.Vec) string {
	return fmt.Sprintf("[%.3f, %.3f]", v.X, v.Y)
}
