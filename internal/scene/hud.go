package scene

import (
	"fmt"
	"math"
	"strings"

	"flyer/internal/common"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	maxDisplayedMessages = 5
	maxMessageAge        = 5.0 // s

	headingSpacing   = 40.0 // px from the plane to the start of a line
	headingShortLine = 100.0
	headingLongLine  = 200.0

	pausedBanner = "PAUSED\nPress P to resume."
)

// Label is a piece of HUD text. Pos is the top-left corner, or the top
// center when Centered is set.
type Label struct {
	Pos      r2.Vec
	Text     string
	Centered bool
}

// HUD is everything drawn over the world, in screen pixels.
type HUD struct {
	Labels []Label
	// Heading holds the "up" and "forward" reference lines around the plane.
	Heading [2][2]r2.Vec
	// Messages are the recent pilot messages, oldest first.
	Messages []string
	// MessageBox is the screen area the messages are bottom-aligned in.
	MessageBox common.Rect
}

// HUD composes the overlay for the current state.
func (s *Scene) HUD() HUD {
	w, h := s.camera.Viewport()
	p := s.plane
	pos := p.Position()

	hud := HUD{
		Labels: []Label{
			{Pos: r2.Vec{X: 10, Y: 10}, Text: fmt.Sprintf("airspeed: %.2f km/h", p.Airspeed(s.world.Environment())*3.6)},
			{Pos: r2.Vec{X: 10, Y: 25}, Text: fmt.Sprintf("altitude: %.2f m", pos.Y)},
			{Pos: r2.Vec{X: 10, Y: 40}, Text: fmt.Sprintf("location: %.1f km", pos.X/1000)},
		},
	}
	if p.Autopilot() {
		hud.Labels = append(hud.Labels, Label{Pos: r2.Vec{X: 10, Y: 55}, Text: "autopilot"})
	}
	hud.Labels = append(hud.Labels,
		Label{Pos: r2.Vec{X: 10, Y: h - 15}, Text: fmt.Sprintf("FPS: %.1f", s.FPS())},
		Label{Pos: r2.Vec{X: w - 100, Y: 10}, Text: fmt.Sprintf("throttle: %d%%", int(p.Throttle()*100))},
		Label{Pos: r2.Vec{X: w - 100, Y: 25}, Text: fmt.Sprintf("flaps: %d%%", int(p.Flaps()*100))},
	)
	if !s.running {
		hud.Labels = append(hud.Labels, Label{Pos: r2.Vec{X: w / 2, Y: 10}, Text: pausedBanner, Centered: true})
	}

	hud.Heading = headingLines(s.camera.Anchor(), p.Angle(), p.Orientation())
	hud.Messages = s.recentMessages()
	hud.MessageBox = common.NewRect(0, h*0.7, w, h*0.3)
	return hud
}

// headingLines returns a short line towards the pilot's "up" and a long one
// along the nose, both starting a little away from the anchor. Screen y
// grows downwards.
func headingLines(anchor r2.Vec, angle, orientation float64) [2][2]r2.Vec {
	s, c := math.Sincos(angle)
	o := orientation
	x, y := anchor.X, anchor.Y
	return [2][2]r2.Vec{
		{
			{X: x - headingSpacing*s*o, Y: y - headingSpacing*c*o},
			{X: x - headingShortLine*s*o, Y: y - headingShortLine*c*o},
		},
		{
			{X: x + headingSpacing*c, Y: y - headingSpacing*s},
			{X: x + headingLongLine*c, Y: y - headingLongLine*s},
		},
	}
}

// recentMessages returns up to maxDisplayedMessages messages younger than
// maxMessageAge, oldest first.
func (s *Scene) recentMessages() []string {
	msgs := s.plane.Messages()
	minTime := s.world.Time() - maxMessageAge

	var out []string
	for i := len(msgs) - 1; i >= 0 && len(out) < maxDisplayedMessages; i-- {
		if msgs[i].Time <= minTime {
			break
		}
		out = append(out, msgs[i].Text)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// MessageText joins the messages for drawing as one block.
func (h HUD) MessageText() string {
	return strings.Join(h.Messages, "\n")
}
