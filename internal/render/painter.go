// Package render draws the scene with ebiten.
package render

import (
	"image"
	"image/color"

	"flyer/internal/camera"
	"flyer/internal/common"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Painter draws world geometry onto an ebiten image through a transform.
// Line widths are in screen pixels.
type Painter struct {
	dst   *ebiten.Image
	xform camera.Transform

	// reused between polygons
	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewPainter returns a painter drawing onto dst with world coordinates
// mapped by xform.
func NewPainter(dst *ebiten.Image, xform camera.Transform) *Painter {
	return &Painter{dst: dst, xform: xform}
}

// SetTransform changes the world-to-screen mapping for subsequent calls.
func (p *Painter) SetTransform(xform camera.Transform) { p.xform = xform }

func (p *Painter) Line(a, b r2.Vec, width float64, c color.Color) {
	sa, sb := p.xform.Map(a), p.xform.Map(b)
	vector.StrokeLine(p.dst, float32(sa.X), float32(sa.Y), float32(sb.X), float32(sb.Y), float32(width), c, true)
}

func (p *Painter) FillRect(r common.Rect, c color.Color) {
	s := p.xform.MapRect(r)
	w, h := common.Width(s), common.Height(s)
	// keep tiny objects visible when zoomed out
	w, h = max(w, 1), max(h, 1)
	vector.DrawFilledRect(p.dst, float32(s.Min.X), float32(s.Min.Y), float32(w), float32(h), c, true)
}

// StrokeRect outlines r.
func (p *Painter) StrokeRect(r common.Rect, width float64, c color.Color) {
	s := p.xform.MapRect(r)
	vector.StrokeRect(p.dst, float32(s.Min.X), float32(s.Min.Y), float32(common.Width(s)), float32(common.Height(s)), float32(width), c, true)
}

// FillPolygon fills an arbitrary, possibly concave polygon.
func (p *Painter) FillPolygon(points []r2.Vec, c color.Color) {
	if len(points) < 3 {
		return
	}
	p.path = vector.Path{}
	for i, pt := range points {
		s := p.xform.Map(pt)
		if i == 0 {
			p.path.MoveTo(float32(s.X), float32(s.Y))
		} else {
			p.path.LineTo(float32(s.X), float32(s.Y))
		}
	}
	p.path.Close()

	p.vertices, p.indices = p.path.AppendVerticesAndIndicesForFilling(p.vertices[:0], p.indices[:0])
	r, g, b, a := c.RGBA()
	for i := range p.vertices {
		p.vertices[i].SrcX = 1
		p.vertices[i].SrcY = 1
		p.vertices[i].ColorR = float32(r) / 0xffff
		p.vertices[i].ColorG = float32(g) / 0xffff
		p.vertices[i].ColorB = float32(b) / 0xffff
		p.vertices[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	op.FillRule = ebiten.FillRuleNonZero
	p.dst.DrawTriangles(p.vertices, p.indices, whiteSubImage, op)
}

// FillCircle draws a circle; radius is in world units, at least a pixel.
func (p *Painter) FillCircle(center r2.Vec, radius float64, c color.Color) {
	s := p.xform.Map(center)
	r := max(radius*max(abs(p.xform.Scale.X), abs(p.xform.Scale.Y)), 1)
	vector.DrawFilledCircle(p.dst, float32(s.X), float32(s.Y), float32(r), c, true)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
