package objects

import (
	"fmt"
	"image/color"

	"flyer/internal/common"
	"flyer/internal/simulation"

	"gonum.org/v1/gonum/spatial/r2"
)

// InstallationKind selects the look and toughness of an installation.
type InstallationKind int

const (
	House InstallationKind = iota
	Building
	Runway
)

func (k InstallationKind) String() string {
	switch k {
	case House:
		return "house"
	case Building:
		return "building"
	case Runway:
		return "runway"
	default:
		return fmt.Sprintf("installation(%d)", int(k))
	}
}

var (
	wallColor   = color.RGBA{200, 190, 160, 255}
	roofColor   = color.RGBA{150, 60, 40, 255}
	runwayColor = color.RGBA{90, 90, 90, 255}
	mapColor    = color.RGBA{120, 30, 30, 255}
)

// Installation is a static ground target.
type Installation struct {
	kind      InstallationKind
	bounds    common.Rect
	health    float64
	destroyed bool
}

// NewInstallation places an installation of the given size standing on
// the ground at x.
func NewInstallation(kind InstallationKind, x, ground, width, height float64) *Installation {
	health := 100.0
	switch kind {
	case Building:
		health = 300
	case Runway:
		health = 1000
	}
	return &Installation{
		kind:   kind,
		bounds: common.NewRect(x-width/2, ground, width, height),
		health: health,
	}
}

func (i *Installation) Kind() InstallationKind { return i.kind }

func (i *Installation) Bounds() common.Rect { return i.bounds }

func (i *Installation) Health() float64 { return i.health }

func (i *Installation) Destroyed() bool { return i.destroyed }

// Damage reduces health. An installation with no health left is removed
// from the world at the end of the step, and the player is told.
func (i *Installation) Damage(w *simulation.World, amount float64) {
	if i.destroyed {
		return
	}
	i.health -= amount
	if i.health > 0 {
		return
	}
	i.destroyed = true
	if err := w.RemoveObject(i, true); err != nil {
		w.Logger().Warn("removing destroyed installation", "error", err)
	}
	if m, ok := w.PlayerPlane().(messenger); ok {
		m.AddMessage(w.Time(), fmt.Sprintf("%s destroyed", i.kind))
	}
}

func (i *Installation) Render(p simulation.Painter, clip common.Rect) {
	if !common.Intersects(i.bounds, clip) {
		return
	}
	switch i.kind {
	case Runway:
		p.FillRect(i.bounds, runwayColor)
	case House:
		// walls take the lower two thirds, the roof the rest
		walls := i.bounds
		walls.Max.Y = walls.Min.Y + common.Height(i.bounds)*2/3
		p.FillRect(walls, wallColor)
		p.FillPolygon([]r2.Vec{
			{X: walls.Min.X - 0.5, Y: walls.Max.Y},
			{X: walls.Max.X + 0.5, Y: walls.Max.Y},
			{X: i.bounds.Center().X, Y: i.bounds.Max.Y},
		}, roofColor)
	default:
		p.FillRect(i.bounds, wallColor)
		// windows
		for y := i.bounds.Min.Y + 2; y+2 < i.bounds.Max.Y; y += 4 {
			p.Line(r2.Vec{X: i.bounds.Min.X + 1, Y: y}, r2.Vec{X: i.bounds.Max.X - 1, Y: y}, 1, roofColor)
		}
	}
}

func (i *Installation) RenderOnMap(p simulation.Painter, clip common.Rect) {
	p.FillRect(i.bounds, mapColor)
}

func (i *Installation) Simulate(w *simulation.World, dt float64) {}

func (i *Installation) Destroy() {}
