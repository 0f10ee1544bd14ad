package objects

import (
	"image/color"

	"flyer/internal/common"
	"flyer/internal/simulation"

	"gonum.org/v1/gonum/spatial/r2"
)

// ProjectileKind tells bullets from bombs.
type ProjectileKind int

const (
	Bullet ProjectileKind = iota
	Bomb
)

const (
	bulletSpeed    = 400.0 // m/s, added to the shooter's velocity
	bulletLifetime = 3.0   // s
	bulletDamage   = 10.0
	bombLifetime   = 60.0
	bombDamage     = 250.0
	bombBlast      = 15.0 // m, blast radius
)

var (
	bulletColor = color.RGBA{60, 60, 20, 255}
	bombColor   = color.RGBA{30, 30, 30, 255}
)

// damageable is implemented by machines that can be hit.
type damageable interface {
	Damage(w *simulation.World, amount float64)
}

// Projectile is a bullet or a bomb flying ballistically.
type Projectile struct {
	kind    ProjectileKind
	pos     r2.Vec
	vel     r2.Vec
	age     float64
	targets simulation.ObjectType // sides it can damage
	shooter simulation.WorldObject
	spent   bool
}

// NewProjectile creates a projectile that can damage machines of the given
// sides. shooter, if not nil, is never hit by its own bullets.
func NewProjectile(kind ProjectileKind, pos, vel r2.Vec, targets simulation.ObjectType, shooter simulation.WorldObject) *Projectile {
	return &Projectile{
		kind:    kind,
		pos:     pos,
		vel:     vel,
		targets: targets & simulation.Sides,
		shooter: shooter,
	}
}

func (p *Projectile) Kind() ProjectileKind { return p.kind }

func (p *Projectile) Position() r2.Vec { return p.pos }

func (p *Projectile) Spent() bool { return p.spent }

func (p *Projectile) Simulate(w *simulation.World, dt float64) {
	if p.spent {
		return
	}
	prev := p.pos
	p.vel = r2.Add(p.vel, r2.Scale(dt, w.Environment().Gravity))
	p.pos = r2.Add(p.pos, r2.Scale(dt, p.vel))
	p.age += dt

	switch p.kind {
	case Bullet:
		// the bullet's whole path during this step
		path := common.Rect{Min: prev, Max: p.pos}.Canon()
		for _, m := range w.FindMachines(path, simulation.MachineClasses|p.targets) {
			if simulation.WorldObject(m) == p.shooter {
				continue
			}
			if d, ok := m.(damageable); ok {
				d.Damage(w, bulletDamage)
				p.expire(w)
				return
			}
		}
		if p.pos.Y <= w.GroundHeight(p.pos.X) || p.age > bulletLifetime {
			p.expire(w)
			return
		}
	case Bomb:
		if p.pos.Y <= w.GroundHeight(p.pos.X) {
			p.explode(w)
			return
		}
		if p.age > bombLifetime {
			p.expire(w)
			return
		}
	}

	b := w.Boundary()
	if p.pos.X < b.Min.X || p.pos.X > b.Max.X {
		p.expire(w)
	}
}

func (p *Projectile) explode(w *simulation.World) {
	area := common.RectAround(p.pos, 2*bombBlast, 2*bombBlast)
	for _, m := range w.FindMachines(area, simulation.MachineClasses|p.targets) {
		if d, ok := m.(damageable); ok {
			d.Damage(w, bombDamage)
		}
	}
	p.expire(w)
}

func (p *Projectile) expire(w *simulation.World) {
	p.spent = true
	if err := w.RemoveObject(p, true); err != nil {
		w.Logger().Warn("removing projectile", "error", err)
	}
}

func (p *Projectile) Render(pt simulation.Painter, clip common.Rect) {
	if !clip.Contains(p.pos) {
		return
	}
	switch p.kind {
	case Bullet:
		tail := r2.Sub(p.pos, r2.Scale(0.01, p.vel))
		pt.Line(tail, p.pos, 1, bulletColor)
	case Bomb:
		pt.FillCircle(p.pos, 0.3, bombColor)
	}
}

func (p *Projectile) RenderOnMap(pt simulation.Painter, clip common.Rect) {}

func (p *Projectile) Destroy() {}
