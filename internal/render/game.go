package render

import (
	"image/color"
	"strings"
	"time"

	"flyer/internal/common"
	"flyer/internal/log"
	"flyer/internal/scene"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// debug font cell size
	glyphWidth  = 6
	glyphHeight = 16

	// wheel units per notch, as reported by most desktop toolkits
	wheelNotch = 120
)

var (
	mapBackground = color.RGBA{255, 255, 0, 255}
	mapFrame      = color.RGBA{0, 0, 0, 255}
	hudLineColor  = color.RGBA{128, 128, 128, 128}
)

var keyMap = map[ebiten.Key]scene.Key{
	ebiten.KeySpace:    scene.KeySpace,
	ebiten.KeyV:        scene.KeyV,
	ebiten.KeyF:        scene.KeyF,
	ebiten.KeyB:        scene.KeyB,
	ebiten.KeyA:        scene.KeyA,
	ebiten.KeyPageUp:   scene.KeyPageUp,
	ebiten.KeyPageDown: scene.KeyPageDown,
	ebiten.KeyP:        scene.KeyP,
}

var buttonMap = map[ebiten.MouseButton]scene.Button{
	ebiten.MouseButtonLeft:   scene.ButtonLeft,
	ebiten.MouseButtonRight:  scene.ButtonRight,
	ebiten.MouseButtonMiddle: scene.ButtonMiddle,
}

// Game implements ebiten.Game on top of a scene. Update runs at the
// configured TPS and drives the simulation clock.
type Game struct {
	scene *scene.Scene

	screenWidth  int
	screenHeight int
	cursor       r2.Vec

	lg *log.Logger
}

// NewGame creates the ebiten adapter for s.
func NewGame(s *scene.Scene, lg *log.Logger) *Game {
	return &Game{scene: s, cursor: r2.Vec{X: -1, Y: -1}, lg: lg}
}

// Update polls input, then advances the simulation if it is running.
func (g *Game) Update() error {
	g.pollInput()
	g.scene.Tick()
	return nil
}

func (g *Game) pollInput() {
	x, y := ebiten.CursorPosition()
	pos := r2.Vec{X: float64(x), Y: float64(y)}
	if pos != g.cursor {
		g.cursor = pos
		g.scene.PointerMove(scene.PointerEvent{Pos: pos})
	}

	for eb, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(eb) {
			g.scene.PointerPress(scene.PointerEvent{Pos: pos, Button: b})
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			g.scene.PointerRelease(scene.PointerEvent{Pos: pos, Button: b})
		}
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.scene.Wheel(scene.WheelEvent{Delta: dy * wheelNotch})
	}

	// inpututil reports a held key once, so there is no auto-repeat
	for ek, k := range keyMap {
		if inpututil.IsKeyJustPressed(ek) {
			g.scene.KeyPress(scene.KeyEvent{Key: k})
		}
		if inpututil.IsKeyJustReleased(ek) {
			g.scene.KeyRelease(scene.KeyEvent{Key: k})
		}
	}
}

// Draw renders the world, the minimap and the HUD. The screen is kept
// between frames, so nothing is drawn when the scene did not change.
func (g *Game) Draw(screen *ebiten.Image) {
	if !g.scene.Dirty() {
		return
	}
	screen.Clear()

	world := g.scene.World()
	p := NewPainter(screen, g.scene.Transform())
	world.Render(p, g.scene.VisibleArea())

	boundary := world.Boundary()
	p.SetTransform(g.scene.MapTransform())
	p.FillRect(boundary, mapBackground)
	p.StrokeRect(boundary, 1, mapFrame)
	world.RenderMap(p, boundary)

	g.drawHUD(screen, g.scene.HUD())
	g.scene.FrameRendered(time.Now())
}

func (g *Game) drawHUD(screen *ebiten.Image, hud scene.HUD) {
	for _, l := range hud.Labels {
		for i, line := range strings.Split(l.Text, "\n") {
			x := l.Pos.X
			if l.Centered {
				x -= float64(len(line)*glyphWidth) / 2
			}
			ebitenutil.DebugPrintAt(screen, line, int(x), int(l.Pos.Y)+i*glyphHeight)
		}
	}

	for _, line := range hud.Heading {
		vector.StrokeLine(screen, float32(line[0].X), float32(line[0].Y), float32(line[1].X), float32(line[1].Y), 1, hudLineColor, true)
	}

	// messages are centered and bottom aligned in their box
	box := hud.MessageBox
	center := box.Center().X
	for i, msg := range hud.Messages {
		y := box.Max.Y - float64((len(hud.Messages)-i)*glyphHeight)
		x := center - float64(len(msg)*glyphWidth)/2
		ebitenutil.DebugPrintAt(screen, msg, int(x), int(y))
	}
}

// Layout follows the window size and tells the scene about changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.screenWidth || outsideHeight != g.screenHeight {
		g.screenWidth, g.screenHeight = outsideWidth, outsideHeight
		g.scene.Resized(float64(outsideWidth), float64(outsideHeight))
		g.lg.Debug("layout", "width", outsideWidth, "height", outsideHeight, "visible", common.FormatVec(g.scene.VisibleArea().Size()))
	}
	return outsideWidth, outsideHeight
}
