package camera

import (
	"flyer/internal/common"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform is an axis-aligned affine map: scale, then offset.
// It maps world meters to screen pixels.
type Transform struct {
	Scale  r2.Vec
	Offset r2.Vec
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Scale: r2.Vec{X: 1, Y: 1}}
}

// Map applies the transform to a point.
func (t Transform) Map(p r2.Vec) r2.Vec {
	return r2.Vec{X: t.Scale.X*p.X + t.Offset.X, Y: t.Scale.Y*p.Y + t.Offset.Y}
}

// MapRect maps a rectangle; the result is normalized.
func (t Transform) MapRect(r common.Rect) common.Rect {
	return common.Rect{Min: t.Map(r.Min), Max: t.Map(r.Max)}.Canon()
}

// Inverted returns the inverse transform. ok is false when a scale
// component is zero.
func (t Transform) Inverted() (inv Transform, ok bool) {
	if t.Scale.X == 0 || t.Scale.Y == 0 {
		return Identity(), false
	}
	sx, sy := 1/t.Scale.X, 1/t.Scale.Y
	return Transform{
		Scale:  r2.Vec{X: sx, Y: sy},
		Offset: r2.Vec{X: -t.Offset.X * sx, Y: -t.Offset.Y * sy},
	}, true
}

// MapTransform returns the minimap transform: the world boundary is drawn
// 40 pixels tall in the bottom-left corner of a viewport of the given
// height, with the y axis pointing up.
func MapTransform(boundary common.Rect, viewportHeight float64) Transform {
	const margin, mapHeight = 10.0, 40.0
	boundary = boundary.Canon()
	h := common.Height(boundary)
	if h <= 0 {
		return Transform{Scale: r2.Vec{X: 1, Y: -1}, Offset: r2.Vec{X: margin, Y: viewportHeight - margin}}
	}
	s := mapHeight / h
	return Transform{
		Scale: r2.Vec{X: s, Y: -s},
		Offset: r2.Vec{
			X: margin - s*boundary.Min.X,
			Y: viewportHeight - margin + s*boundary.Min.Y,
		},
	}
}
