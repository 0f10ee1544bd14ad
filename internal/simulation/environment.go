package simulation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Environment holds ambient parameters consumed by simulated objects.
// The World owns one value and hands it out read-only.
type Environment struct {
	Gravity         r2.Vec  // m/s^2
	Wind            r2.Vec  // m/s, air movement relative to ground
	SeaLevelDensity float64 // kg/m^3
	ScaleHeight     float64 // m, altitude at which density drops by 1/e
}

// DefaultEnvironment returns a calm standard atmosphere.
func DefaultEnvironment() Environment {
	return Environment{
		Gravity:         r2.Vec{Y: -9.81},
		SeaLevelDensity: 1.225,
		ScaleHeight:     8500,
	}
}

// AirDensity returns the air density at the given altitude.
func (e Environment) AirDensity(altitude float64) float64 {
	if e.ScaleHeight <= 0 {
		return e.SeaLevelDensity
	}
	if altitude < 0 {
		altitude = 0
	}
	return e.SeaLevelDensity * math.Exp(-altitude/e.ScaleHeight)
}

// Airflow returns the velocity of the air relative to a body moving with
// velocity v.
func (e Environment) Airflow(v r2.Vec) r2.Vec {
	return r2.Sub(e.Wind, v)
}
