package objects

import (
	"image/color"
	"math"

	"flyer/internal/common"
	"flyer/internal/physics"
	"flyer/internal/simulation"

	"gonum.org/v1/gonum/spatial/r2"
)

// Airframe constants for a light single-engine plane.
const (
	planeMass      = 1000.0 // kg
	planeLength    = 8.0    // m
	planeHeight    = 1.5    // m
	wingArea       = 16.0   // m^2
	maxThrust      = 6000.0 // N
	liftSlope      = 4.5    // per radian
	camberLift     = 0.25
	flapsLift      = 0.6
	stallAngle     = 0.28 // rad, ~16 degrees
	parasiticDrag  = 0.03
	inducedDrag    = 0.05
	flapsDrag      = 0.08
	elevatorPower  = 12.0  // torque per unit of dynamic pressure
	pitchStability = 8.0   // restoring torque per rad of AoA per dynamic pressure
	pitchDamping   = 9000. // N*m per rad/s
	brakeForce     = 4000. // N
	planeHealth    = 100.0
	fireInterval   = 0.1 // s between bullets
	initialBombs   = 4

	messageKeep   = 60.0 // s
	lowAltitude   = 50.0 // m above ground
	onGroundLevel = 2.0  // m above ground
)

var (
	side1Color = color.RGBA{40, 60, 120, 255}
	side2Color = color.RGBA{130, 40, 40, 255}
	wingColor  = color.RGBA{20, 20, 20, 255}
)

// Message is a timestamped note for the pilot.
type Message struct {
	Time float64
	Text string
}

type messenger interface {
	AddMessage(time float64, text string)
}

// Plane is a flying machine with a physics body and pilot controls.
type Plane struct {
	name  string
	side  simulation.ObjectType
	space *physics.Space
	body  *physics.Body

	elevator    float64 // -1..1, positive pulls the nose up
	throttle    float64 // 0..1
	flaps       float64 // 0..1
	orientation float64 // 1 upright when heading right, -1 when flipped
	wheelBrake  bool
	autopilot   bool
	firing      bool

	autopilotAltitude float64
	weaponRequested   bool
	bombs             int
	fireCooldown      float64
	health            float64
	shotDown          bool

	messages []Message
}

// NewPlane creates a plane at pos moving with vel, pointing along vel.
func NewPlane(space *physics.Space, name string, side simulation.ObjectType, pos, vel r2.Vec) *Plane {
	body := space.NewBox(planeMass, planeLength, planeHeight, pos, 0.7)
	body.SetVelocity(vel)
	orientation := 1.0
	if vel.X < 0 {
		body.SetAngle(math.Pi)
		orientation = -1
	}
	return &Plane{
		name:        name,
		side:        side & simulation.Sides,
		space:       space,
		body:        body,
		orientation: orientation,
		bombs:       initialBombs,
		health:      planeHealth,
	}
}

func (p *Plane) Name() string { return p.name }

func (p *Plane) Position() r2.Vec { return p.body.Position() }

// Velocity returns the ground velocity in m/s.
func (p *Plane) Velocity() r2.Vec { return p.body.Velocity() }

// Angle returns the fuselage angle in radians.
func (p *Plane) Angle() float64 { return p.body.Angle() }

// Orientation is 1 or -1.
func (p *Plane) Orientation() float64 { return p.orientation }

func (p *Plane) Bounds() common.Rect {
	return common.RectAround(p.Position(), planeLength, planeLength)
}

// Airspeed returns the speed relative to the air, given the environment.
func (p *Plane) Airspeed(env simulation.Environment) float64 {
	return r2.Norm(env.Airflow(p.Velocity()))
}

func (p *Plane) Elevator() float64 { return p.elevator }

func (p *Plane) SetElevator(e float64) { p.elevator = common.Clamp(e, -1, 1) }

func (p *Plane) Throttle() float64 { return p.throttle }

func (p *Plane) SetThrottle(t float64) { p.throttle = common.Clamp(t, 0, 1) }

func (p *Plane) Flaps() float64 { return p.flaps }

func (p *Plane) SetFlaps(f float64) { p.flaps = common.Clamp(f, 0, 1) }

func (p *Plane) Autopilot() bool { return p.autopilot }

// SetAutopilot engages the autopilot, which holds the current altitude.
func (p *Plane) SetAutopilot(on bool) {
	if on && !p.autopilot {
		p.autopilotAltitude = p.Position().Y
	}
	p.autopilot = on
}

func (p *Plane) Firing() bool { return p.firing }

func (p *Plane) SetFiring(on bool) { p.firing = on }

// ReleaseWeapon drops a bomb during the next step.
func (p *Plane) ReleaseWeapon() { p.weaponRequested = true }

func (p *Plane) Bombs() int { return p.bombs }

func (p *Plane) WheelBrake() bool { return p.wheelBrake }

func (p *Plane) ApplyWheelBrake(on bool) { p.wheelBrake = on }

// FlipPlane rolls the plane over so it flies upright in the other
// direction.
func (p *Plane) FlipPlane() { p.orientation = -p.orientation }

func (p *Plane) Health() float64 { return p.health }

func (p *Plane) ShotDown() bool { return p.shotDown }

func (p *Plane) Messages() []Message { return p.messages }

func (p *Plane) AddMessage(time float64, text string) {
	p.messages = append(p.messages, Message{Time: time, Text: text})
}

// Damage takes hits. A shot down plane loses its engine; planes other
// than the player's leave the world.
func (p *Plane) Damage(w *simulation.World, amount float64) {
	if p.shotDown {
		return
	}
	p.health -= amount
	if p.health > 0 {
		return
	}
	p.shotDown = true
	p.throttle = 0
	p.firing = false
	if w.PlayerPlane() == simulation.Machine(p) {
		p.AddMessage(w.Time(), "You have been shot down")
		return
	}
	if m, ok := w.PlayerPlane().(messenger); ok {
		m.AddMessage(w.Time(), p.name+" shot down")
	}
	if err := w.RemoveObject(p, true); err != nil {
		w.Logger().Warn("removing shot down plane", "error", err)
	}
}

// worldUp is 1 when the pilot's "up" points up in the world.
func (p *Plane) worldUp() float64 {
	if math.Cos(p.Angle())*p.orientation >= 0 {
		return 1
	}
	return -1
}

func (p *Plane) runAutopilot() {
	const maxClimb = 5.0 // m/s
	climb := common.Clamp((p.autopilotAltitude-p.Position().Y)*0.1, -maxClimb, maxClimb)
	err := climb - p.Velocity().Y
	p.SetElevator(p.worldUp() * err * 0.1)
}

func (p *Plane) Simulate(w *simulation.World, dt float64) {
	if p.autopilot {
		p.runAutopilot()
	}

	env := w.Environment()
	pos := p.Position()
	vel := p.Velocity()
	heading := common.FromPolar(p.Angle())

	// velocity relative to the air
	air := r2.Sub(vel, env.Wind)
	speed := r2.Norm(air)
	q := 0.5 * env.AirDensity(pos.Y) * speed * speed

	force := r2.Scale(p.throttle*maxThrust, heading)
	torque := -p.body.AngularVelocity() * pitchDamping

	if speed > 1 {
		flow := r2.Scale(1/speed, air)
		aoa := math.Atan2(r2.Cross(flow, heading), r2.Dot(flow, heading))

		cl := liftSlope*aoa + p.orientation*(camberLift+p.flaps*flapsLift)
		if a := math.Abs(aoa); a > stallAngle {
			cl *= math.Max(0, 1-(a-stallAngle)/stallAngle)
		}
		cd := parasiticDrag + inducedDrag*cl*cl + p.flaps*flapsDrag

		liftDir := r2.Vec{X: -flow.Y, Y: flow.X}
		force = r2.Add(force, r2.Scale(q*wingArea*cl, liftDir))
		force = r2.Add(force, r2.Scale(-q*wingArea*cd, flow))

		torque += p.orientation * p.elevator * elevatorPower * q
		torque -= pitchStability * aoa * q
	}

	onGround := pos.Y-w.GroundHeight(pos.X) < onGroundLevel+planeHeight/2
	if onGround && p.wheelBrake && math.Abs(vel.X) > 0.1 {
		force.X -= math.Copysign(brakeForce, vel.X)
	}

	p.body.SetTorque(torque)
	p.body.ApplyForce(force)

	p.fireCooldown = math.Max(0, p.fireCooldown-dt)
	if p.firing && !p.shotDown && p.fireCooldown == 0 {
		p.fire(w, heading)
		p.fireCooldown = fireInterval
	}
	if p.weaponRequested {
		p.weaponRequested = false
		p.dropBomb(w)
	}
}

func (p *Plane) enemies() simulation.ObjectType {
	return simulation.Sides &^ p.side
}

func (p *Plane) fire(w *simulation.World, heading r2.Vec) {
	nose := r2.Add(p.Position(), r2.Scale(planeLength/2+0.5, heading))
	vel := r2.Add(p.Velocity(), r2.Scale(bulletSpeed, heading))
	b := NewProjectile(Bullet, nose, vel, p.enemies(), p)
	if err := w.AddObject(b, simulation.ObjectSimulated|simulation.ObjectRendered); err != nil {
		w.Logger().Warn("adding bullet", "error", err)
	}
}

func (p *Plane) dropBomb(w *simulation.World) {
	if p.bombs == 0 {
		p.AddMessage(w.Time(), "No bombs left")
		return
	}
	p.bombs--
	below := p.body.LocalToWorld(r2.Vec{Y: -p.orientation * planeHeight})
	b := NewProjectile(Bomb, below, p.Velocity(), p.enemies(), p)
	if err := w.AddObject(b, simulation.ObjectSimulated|simulation.ObjectRendered|simulation.ObjectRenderedMap); err != nil {
		w.Logger().Warn("adding bomb", "error", err)
		return
	}
	p.AddMessage(w.Time(), "Bomb away")
}

// Timer1 drops old messages and warns about flying too low.
func (p *Plane) Timer1(w *simulation.World) {
	cutoff := w.Time() - messageKeep
	i := 0
	for i < len(p.messages) && p.messages[i].Time < cutoff {
		i++
	}
	p.messages = p.messages[i:]

	pos := p.Position()
	alt := pos.Y - w.GroundHeight(pos.X)
	if !p.shotDown && alt > onGroundLevel+planeHeight && alt < lowAltitude && p.Velocity().Y < -5 {
		p.AddMessage(w.Time(), "Pull up!")
	}
}

// outline is the fuselage in body coordinates for orientation 1.
var outline = []r2.Vec{
	{X: 4, Y: 0}, {X: 2.5, Y: 0.6}, {X: -3, Y: 0.4}, {X: -4, Y: 1.5},
	{X: -4.4, Y: 1.5}, {X: -4, Y: -0.3}, {X: 2.5, Y: -0.5},
}

func (p *Plane) Render(pt simulation.Painter, clip common.Rect) {
	if !common.Intersects(p.Bounds(), clip) {
		return
	}
	c := side1Color
	if p.side&simulation.ObjectSide2 != 0 {
		c = side2Color
	}
	poly := make([]r2.Vec, len(outline))
	for i, v := range outline {
		poly[i] = p.body.LocalToWorld(r2.Vec{X: v.X, Y: v.Y * p.orientation})
	}
	pt.FillPolygon(poly, c)
	pt.Line(p.body.LocalToWorld(r2.Vec{X: 1.5}), p.body.LocalToWorld(r2.Vec{X: -0.5}), 3, wingColor)
}

func (p *Plane) RenderOnMap(pt simulation.Painter, clip common.Rect) {
	c := side1Color
	if p.side&simulation.ObjectSide2 != 0 {
		c = side2Color
	}
	pt.FillCircle(p.Position(), common.Height(clip)*0.03, c)
}

func (p *Plane) Destroy() {
	p.space.Remove(p.body)
}
