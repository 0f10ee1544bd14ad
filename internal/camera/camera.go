// Package camera keeps the view on the player's plane.
package camera

import (
	"math"

	"flyer/internal/common"

	"gonum.org/v1/gonum/spatial/r2"
)

// Zoom is one of three fixed view distances.
type Zoom int

const (
	Zoom1 Zoom = iota // closeup
	Zoom2             // normal
	Zoom3             // far view
)

// MetersVisible returns how many meters fit along the longer viewport side.
func (z Zoom) MetersVisible() float64 {
	switch z {
	case Zoom1:
		return 100
	case Zoom3:
		return 625
	default:
		return 250
	}
}

// ZoomOut returns the next farther level, saturating at Zoom3.
func (z Zoom) ZoomOut() Zoom {
	return min(z+1, Zoom3)
}

// ZoomIn returns the next closer level, saturating at Zoom1.
func (z Zoom) ZoomIn() Zoom {
	return max(z-1, Zoom1)
}

const (
	// MaxAnchorSpeedX and MaxAnchorSpeedY limit how fast the on-screen
	// plane anchor moves, in pixels per simulated second.
	MaxAnchorSpeedX = 300.0
	MaxAnchorSpeedY = 50.0

	// fastSpeed is the horizontal speed (m/s) above which the plane is
	// drawn higher up the screen.
	fastSpeed = 30.0
)

// Camera tracks a moving body and produces the world-to-screen
// transform.
type Camera struct {
	zoom   Zoom
	width  float64
	height float64
	anchor r2.Vec // smoothed on-screen plane position, pixels
	scale  float64
	xform  Transform
}

// New creates a camera at the given zoom level for a viewport.
func New(zoom Zoom, width, height float64) *Camera {
	c := &Camera{zoom: zoom, xform: Identity()}
	c.Resize(width, height)
	return c
}

// Resize sets the viewport size and recenters the anchor.
func (c *Camera) Resize(width, height float64) {
	c.width, c.height = width, height
	c.anchor = r2.Vec{X: width / 2, Y: height / 2}
}

func (c *Camera) Zoom() Zoom { return c.zoom }

func (c *Camera) SetZoom(z Zoom) {
	c.zoom = min(max(z, Zoom1), Zoom3)
}

// Anchor returns the smoothed on-screen plane position.
func (c *Camera) Anchor() r2.Vec { return c.anchor }

// Transform returns the transform computed by the last Adjust.
func (c *Camera) Transform() Transform { return c.xform }

// PixelsPerMeter returns the scale computed by the last Adjust.
func (c *Camera) PixelsPerMeter() float64 { return c.scale }

// Viewport returns the viewport size.
func (c *Camera) Viewport() (w, h float64) { return c.width, c.height }

// Adjust recomputes the transform so the body at pos, moving with vel,
// appears near the anchor. The anchor drifts towards its desired place by
// at most MaxAnchorSpeed*dt per call. A viewport without area leaves the
// previous transform in place.
func (c *Camera) Adjust(pos, vel r2.Vec, dt float64) Transform {
	viewportSize := math.Max(c.width, c.height)
	if c.width <= 0 || c.height <= 0 {
		return c.xform
	}
	zoom := viewportSize / c.zoom.MetersVisible()

	// desired plane position, in pixels
	desired := r2.Vec{X: c.width * 0.5, Y: c.height * 0.5}
	if math.Abs(vel.X) > fastSpeed {
		desired.Y = c.height * 0.35
	}

	if dt < 0 || !common.IsFinite(dt) {
		dt = 0
	}
	maxX := MaxAnchorSpeedX * dt
	maxY := MaxAnchorSpeedY * dt
	c.anchor.X -= common.Clamp(c.anchor.X-desired.X, -maxX, maxX)
	c.anchor.Y -= common.Clamp(c.anchor.Y-desired.Y, -maxY, maxY)

	c.scale = zoom
	c.xform = Transform{
		Scale: r2.Vec{X: zoom, Y: -zoom},
		Offset: r2.Vec{
			X: c.anchor.X - zoom*pos.X,
			Y: c.anchor.Y + zoom*pos.Y,
		},
	}
	return c.xform
}

// VisibleArea returns the world rectangle covered by the viewport.
func (c *Camera) VisibleArea() common.Rect {
	inv, ok := c.xform.Inverted()
	if !ok {
		return common.Rect{}
	}
	return inv.MapRect(common.NewRect(0, 0, c.width, c.height))
}
