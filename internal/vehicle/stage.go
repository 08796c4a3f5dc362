// Package vehicle models a multi-stage rocket: per-stage mass budgets with a
// propellant choice, and the ideal rocket-equation delta-v they produce.
// Stage and Rocket are immutable value types; a different propellant choice
// means a new Stage, never an in-place edit.
package vehicle

import (
	"errors"
	"fmt"
	"math"

	"github.com/papapumpkin/apogee/internal/propellant"
)

// G0 is standard gravity in m/s², used to convert specific impulse in
// seconds into an effective exhaust velocity.
const G0 = 9.80665

// ErrInvalidConfiguration is returned when a stage's masses make the rocket
// equation undefined. This is a caller input bug, not a search condition.
var ErrInvalidConfiguration = errors.New("invalid stage configuration")

// Stage holds one stage's mass budget and its propellant choice. All masses
// are in kilograms and must be non-negative.
type Stage struct {
	Propellant     propellant.Propellant
	DryMass        float64
	PropellantMass float64
	PayloadMass    float64
}

// TotalMass returns the stage's fully fueled mass.
func (s Stage) TotalMass() float64 {
	return s.DryMass + s.PropellantMass + s.PayloadMass
}

// MassRatio returns total mass divided by burnout mass (dry + payload).
// A stage with no propellant has ratio exactly 1.
func (s Stage) MassRatio() (float64, error) {
	burnout := s.DryMass + s.PayloadMass
	if burnout <= 0 {
		return 0, fmt.Errorf("%w: dry+payload mass is %g kg (mass ratio undefined)",
			ErrInvalidConfiguration, burnout)
	}
	return s.TotalMass() / burnout, nil
}

// DeltaV returns the stage's ideal delta-v in m/s per the Tsiolkovsky
// equation: g0 · isp · ln(mass ratio). Zero propellant mass yields exactly
// zero. Masses that make the ratio undefined or non-positive return
// ErrInvalidConfiguration.
func (s Stage) DeltaV() (float64, error) {
	ratio, err := s.MassRatio()
	if err != nil {
		return 0, err
	}
	// Unreachable with non-negative masses, but checked so the logarithm
	// argument is always positive.
	if ratio <= 0 {
		return 0, fmt.Errorf("%w: propellant %q mass ratio %g is not positive",
			ErrInvalidConfiguration, s.Propellant.Name, ratio)
	}
	return G0 * s.Propellant.Isp * math.Log(ratio), nil
}

// PropellantVolume returns the tank volume in m³ required for the stage's
// propellant mass. It feeds the optimizer's volume-limit filter only; it
// does not enter the delta-v formula.
func (s Stage) PropellantVolume() float64 {
	return s.PropellantMass / s.Propellant.Density
}
