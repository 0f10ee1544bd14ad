package objects

import (
	"fmt"
	"math"
	"math/rand/v2"

	"flyer/internal/simulation"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	groundStep      = 20.0 // m between terrain points
	hillAmplitude   = 60.0
	flatZoneBlend   = 200.0 // m over which hills fade into a flat zone
	airfieldLength  = 1000.0
	playerAltitude  = 300.0
	playerSpeed     = 60.0
	enemyDistance   = 2500.0
	enemyAltitude   = 500.0
	installationTag = simulation.ObjectInstallation | simulation.ObjectStatic |
		simulation.ObjectRendered | simulation.ObjectRenderedMap
)

type zone struct{ start, end float64 }

// town describes a stretch of houses.
type town struct {
	zone
	small bool
}

// Setup populates an empty world: terrain, the home airfield, towns on both
// sides, the player's plane and one enemy. It returns the player's plane.
func Setup(w *simulation.World, rng *rand.Rand) (*Plane, error) {
	b := w.Boundary()
	airfield := zone{0, airfieldLength}
	towns := []town{
		{zone{-3000, -2400}, true},
		{zone{2000, 2600}, true},
		{zone{4000, 5200}, false},
	}
	flat := []zone{airfield}
	for _, t := range towns {
		flat = append(flat, t.zone)
	}

	ground := NewGround(w.Physics(), terrain(b.Min.X, b.Max.X, flat, rng))
	if err := w.AddObject(ground, simulation.ObjectStatic|simulation.ObjectRendered|simulation.ObjectRenderedMap); err != nil {
		return nil, fmt.Errorf("adding ground: %w", err)
	}
	if err := w.SetGround(ground); err != nil {
		return nil, err
	}

	runway := NewInstallation(Runway, airfield.start+airfieldLength/2, ground.Height(airfield.start), airfieldLength, 0.5)
	if err := w.AddObject(runway, installationTag|simulation.ObjectAirfield|simulation.ObjectSide1); err != nil {
		return nil, fmt.Errorf("adding runway: %w", err)
	}

	for _, t := range towns {
		side := simulation.ObjectSide2
		if t.end < 0 {
			side = simulation.ObjectSide1
		}
		if err := createTown(w, ground, t, side, rng); err != nil {
			return nil, err
		}
	}

	player := NewPlane(w.Physics(), "player", simulation.ObjectSide1,
		r2.Vec{X: airfield.start, Y: ground.Height(airfield.start) + playerAltitude},
		r2.Vec{X: playerSpeed})
	player.SetThrottle(0.6)
	if err := w.AddObject(player, planeTag(simulation.ObjectSide1)); err != nil {
		return nil, fmt.Errorf("adding player plane: %w", err)
	}
	if err := w.SetPlayerPlane(player); err != nil {
		return nil, err
	}

	enemyX := airfield.end + enemyDistance
	enemy := NewPlane(w.Physics(), "enemy", simulation.ObjectSide2,
		r2.Vec{X: enemyX, Y: ground.Height(enemyX) + enemyAltitude},
		r2.Vec{X: -playerSpeed})
	enemy.SetThrottle(0.6)
	enemy.SetAutopilot(true)
	if err := w.AddObject(enemy, planeTag(simulation.ObjectSide2)); err != nil {
		return nil, fmt.Errorf("adding enemy plane: %w", err)
	}

	w.Logger().Info("world set up", "objects", len(w.AllObjects()), "terrain_points", len(ground.Points()))
	return player, nil
}

func planeTag(side simulation.ObjectType) simulation.ObjectType {
	return simulation.ObjectPlane | side | simulation.ObjectSimulated |
		simulation.ObjectRendered | simulation.ObjectRenderedMap
}

// terrain generates rolling hills between left and right, flattened to
// height 0 inside the given zones.
func terrain(left, right float64, flat []zone, rng *rand.Rand) []r2.Vec {
	// a few random sine waves of decreasing wavelength
	type wave struct{ length, amp, phase float64 }
	waves := make([]wave, 4)
	for i := range waves {
		waves[i] = wave{
			length: 3000 / math.Pow(2.2, float64(i)),
			amp:    hillAmplitude / math.Pow(2, float64(i)),
			phase:  rng.Float64() * 2 * math.Pi,
		}
	}

	var pts []r2.Vec
	for x := left; x <= right; x += groundStep {
		h := 0.0
		for _, wv := range waves {
			h += wv.amp * (1 + math.Sin(2*math.Pi*x/wv.length+wv.phase))
		}
		pts = append(pts, r2.Vec{X: x, Y: h * flatness(x, flat)})
	}
	return pts
}

// flatness is 0 inside a flat zone, rising to 1 over flatZoneBlend meters.
func flatness(x float64, flat []zone) float64 {
	f := 1.0
	for _, z := range flat {
		var d float64
		switch {
		case x < z.start:
			d = z.start - x
		case x > z.end:
			d = x - z.end
		}
		f = math.Min(f, d/flatZoneBlend)
	}
	return f
}

// createTown fills t with houses, or with a mix of houses and tall
// buildings when t is not small.
func createTown(w *simulation.World, ground *Ground, t town, side simulation.ObjectType, rng *rand.Rand) error {
	x := t.start
	for {
		kind, width, height := House, 8+rng.Float64()*4, 6+rng.Float64()*2
		if !t.small && rng.IntN(3) == 0 {
			kind, width, height = Building, 15+rng.Float64()*10, 20+rng.Float64()*30
		}
		if x+width > t.end {
			return nil
		}
		cx := x + width/2
		inst := NewInstallation(kind, cx, ground.Height(cx), width, height)
		if err := w.AddObject(inst, installationTag|side); err != nil {
			return fmt.Errorf("adding %s at %.0f: %w", kind, cx, err)
		}
		x += width + 5 + rng.Float64()*15
	}
}
