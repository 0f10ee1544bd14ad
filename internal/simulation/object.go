package simulation

import (
	"image/color"
	"strings"

	"flyer/internal/common"

	"gonum.org/v1/gonum/spatial/r2"
)

// ObjectType is a bag of classification flags. An object is registered
// with a combination of them; the same concrete type may be registered
// under different combinations.
type ObjectType int

const (
	// general properties
	ObjectSimulated ObjectType = 0x000001
	ObjectStatic    ObjectType = 0x000002

	ObjectRendered    ObjectType = 0x000004 // drawn on the game screen
	ObjectRenderedMap ObjectType = 0x000008 // drawn on the minimap

	// class
	ObjectPlane        ObjectType = 0x000080
	ObjectInstallation ObjectType = 0x000100
	ObjectVehicle      ObjectType = 0x000200
	ObjectAirfield     ObjectType = 0x000400

	// conflict side
	ObjectSide1 ObjectType = 0x010000
	ObjectSide2 ObjectType = 0x020000
)

const (
	// MachineClasses are the classes answered by FindMachines.
	MachineClasses = ObjectPlane | ObjectInstallation | ObjectVehicle | ObjectAirfield
	// Sides holds all conflict side flags.
	Sides = ObjectSide1 | ObjectSide2
)

var objectTypeNames = []struct {
	t    ObjectType
	name string
}{
	{ObjectSimulated, "simulated"},
	{ObjectStatic, "static"},
	{ObjectRendered, "rendered"},
	{ObjectRenderedMap, "rendered-map"},
	{ObjectPlane, "plane"},
	{ObjectInstallation, "installation"},
	{ObjectVehicle, "vehicle"},
	{ObjectAirfield, "airfield"},
	{ObjectSide1, "side1"},
	{ObjectSide2, "side2"},
}

// Bits returns every single-bit flag set in t, lowest first.
func (t ObjectType) Bits() []ObjectType {
	var bits []ObjectType
	for b := ObjectType(1); b != 0 && b <= t; b <<= 1 {
		if t&b != 0 {
			bits = append(bits, b)
		}
	}
	return bits
}

// Has reports whether all flags in f are set.
func (t ObjectType) Has(f ObjectType) bool {
	return t&f == f
}

func (t ObjectType) String() string {
	var names []string
	for _, n := range objectTypeNames {
		if t&n.t != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Painter is the drawing surface handed to objects. Coordinates are in
// world units; the painter applies the current view transform. Line
// widths are in screen pixels.
type Painter interface {
	Line(a, b r2.Vec, width float64, c color.Color)
	FillRect(r common.Rect, c color.Color)
	FillPolygon(points []r2.Vec, c color.Color)
	FillCircle(center r2.Vec, radius float64, c color.Color)
}

// WorldObject is anything placed in the world.
type WorldObject interface {
	// Render draws the object on the game screen. clip is the visible
	// world area; objects outside it may skip drawing.
	Render(p Painter, clip common.Rect)
	// RenderOnMap draws the object on the minimap.
	RenderOnMap(p Painter, clip common.Rect)
	// Simulate runs the object's own logic for one step of dt seconds.
	// It is called after the physics step.
	Simulate(w *World, dt float64)
	// Destroy releases the object's resources. The object is unusable
	// afterwards.
	Destroy()
}

// Ticker is implemented by objects that want the 1-second timer.
type Ticker interface {
	Timer1(w *World)
}

// Machine is a world object with a position that can be found by area
// queries: planes, vehicles, installations, airfields.
type Machine interface {
	WorldObject
	Bounds() common.Rect
}

// Terrain is the ground the world stands on.
type Terrain interface {
	WorldObject
	// Height returns the ground elevation at x, in meters.
	Height(x float64) float64
}
