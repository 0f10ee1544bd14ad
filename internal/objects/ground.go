package objects

import (
	"image/color"
	"sort"

	"flyer/internal/common"
	"flyer/internal/physics"
	"flyer/internal/simulation"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	groundColor    = color.RGBA{96, 140, 64, 255}
	groundMapColor = color.RGBA{40, 90, 20, 255}
)

// Ground is the terrain: a polyline of points sorted by x, backed by
// static segments in the physics space.
type Ground struct {
	points []r2.Vec
	space  *physics.Space
	body   *physics.Body
}

// NewGround creates terrain through the given points, which are sorted by
// x. At least two points are required.
func NewGround(space *physics.Space, points []r2.Vec) *Ground {
	pts := make([]r2.Vec, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	return &Ground{
		points: pts,
		space:  space,
		body:   space.NewStaticPolyline(pts, 0.9),
	}
}

// Height returns the ground elevation at x, interpolated linearly.
// Beyond the ends the nearest end point is used.
func (g *Ground) Height(x float64) float64 {
	n := len(g.points)
	if n == 0 {
		return 0
	}
	i := sort.Search(n, func(i int) bool { return g.points[i].X >= x })
	switch {
	case i == 0:
		return g.points[0].Y
	case i == n:
		return g.points[n-1].Y
	}
	a, b := g.points[i-1], g.points[i]
	if b.X == a.X {
		return b.Y
	}
	t := (x - a.X) / (b.X - a.X)
	return a.Y + t*(b.Y-a.Y)
}

// Points returns a copy of the terrain profile.
func (g *Ground) Points() []r2.Vec {
	return append([]r2.Vec(nil), g.points...)
}

// visible returns the points covering [x0, x1], including one point on
// each side so the polygon reaches the clip edges.
func (g *Ground) visible(x0, x1 float64) []r2.Vec {
	lo := sort.Search(len(g.points), func(i int) bool { return g.points[i].X >= x0 })
	hi := sort.Search(len(g.points), func(i int) bool { return g.points[i].X > x1 })
	lo = max(lo-1, 0)
	hi = min(hi+1, len(g.points))
	return g.points[lo:hi]
}

func (g *Ground) Render(p simulation.Painter, clip common.Rect) {
	clip = clip.Canon()
	pts := g.visible(clip.Min.X, clip.Max.X)
	if len(pts) < 2 {
		return
	}
	bottom := clip.Min.Y
	for _, pt := range pts {
		bottom = min(bottom, pt.Y)
	}
	bottom -= 1

	poly := make([]r2.Vec, 0, len(pts)+2)
	poly = append(poly, pts...)
	poly = append(poly, r2.Vec{X: pts[len(pts)-1].X, Y: bottom}, r2.Vec{X: pts[0].X, Y: bottom})
	p.FillPolygon(poly, groundColor)
}

func (g *Ground) RenderOnMap(p simulation.Painter, clip common.Rect) {
	// every 10th point is plenty at minimap scale
	const stride = 10
	for i := stride; i < len(g.points); i += stride {
		p.Line(g.points[i-stride], g.points[i], 1, groundMapColor)
	}
}

func (g *Ground) Simulate(w *simulation.World, dt float64) {}

func (g *Ground) Destroy() {
	g.space.Remove(g.body)
}
