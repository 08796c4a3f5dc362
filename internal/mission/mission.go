// Package mission defines the mission file: the TOML document that supplies
// a search's inputs — stage mass budgets, optional per-stage tank volume
// limits, and optional custom propellants merged over the builtin catalog.
package mission

import (
	"fmt"
	"math"

	"github.com/papapumpkin/apogee/internal/optimizer"
	"github.com/papapumpkin/apogee/internal/propellant"
	"github.com/papapumpkin/apogee/internal/vehicle"
)

// DefaultPath is the conventional location for the mission file.
const DefaultPath = "mission.toml"

// StageSpec is one stage's entry in the mission file. Propellant names the
// as-written assignment used by `apogee eval`; the optimizer ignores it and
// searches all assignments. MaxVolume of 0 means unconstrained.
type StageSpec struct {
	Label          string  `toml:"label,omitempty"`
	Propellant     string  `toml:"propellant,omitempty"`
	DryMass        float64 `toml:"dry_mass"`
	PropellantMass float64 `toml:"propellant_mass"`
	PayloadMass    float64 `toml:"payload_mass,omitempty"`
	MaxVolume      float64 `toml:"max_volume,omitempty"` // m³
}

// PropellantSpec defines a custom propellant added to the builtin catalog.
type PropellantSpec struct {
	Name    string  `toml:"name"`
	Isp     float64 `toml:"isp"`
	Density float64 `toml:"density"`
}

// Mission is the root of a mission file.
type Mission struct {
	Name        string           `toml:"name"`
	Stages      []StageSpec      `toml:"stages"`
	Propellants []PropellantSpec `toml:"propellants,omitempty"`
}

// Validate checks the mission for input errors the physics model would only
// reject candidate-by-candidate: negative masses, stages with no burnout
// mass, negative volume limits, malformed custom propellants.
func (m *Mission) Validate() error {
	if len(m.Stages) == 0 {
		return fmt.Errorf("mission %q has no stages", m.Name)
	}
	for i, s := range m.Stages {
		if s.DryMass < 0 || s.PropellantMass < 0 || s.PayloadMass < 0 {
			return fmt.Errorf("stage %d (%s): masses must be non-negative", i, s.displayLabel(i))
		}
		if s.DryMass+s.PayloadMass <= 0 {
			return fmt.Errorf("stage %d (%s): dry + payload mass must be positive", i, s.displayLabel(i))
		}
		if s.MaxVolume < 0 {
			return fmt.Errorf("stage %d (%s): max_volume must be non-negative", i, s.displayLabel(i))
		}
	}
	for _, p := range m.Propellants {
		if p.Name == "" {
			return fmt.Errorf("custom propellant with empty name")
		}
		if p.Isp <= 0 || p.Density <= 0 {
			return fmt.Errorf("custom propellant %q: isp and density must be positive", p.Name)
		}
	}
	return nil
}

func (s StageSpec) displayLabel(i int) string {
	if s.Label != "" {
		return s.Label
	}
	return fmt.Sprintf("#%d", i+1)
}

// Budgets returns the stage mass figures in optimizer form.
func (m *Mission) Budgets() []optimizer.StageBudget {
	budgets := make([]optimizer.StageBudget, len(m.Stages))
	for i, s := range m.Stages {
		budgets[i] = optimizer.StageBudget{
			DryMass:        s.DryMass,
			PropellantMass: s.PropellantMass,
			PayloadMass:    s.PayloadMass,
		}
	}
	return budgets
}

// VolumeLimits returns one limit per stage, or nil when no stage sets one.
// Stages without a limit get +Inf so the optimizer's whole-candidate filter
// sees a uniform slice.
func (m *Mission) VolumeLimits() []float64 {
	limited := false
	for _, s := range m.Stages {
		if s.MaxVolume > 0 {
			limited = true
			break
		}
	}
	if !limited {
		return nil
	}
	limits := make([]float64, len(m.Stages))
	for i, s := range m.Stages {
		if s.MaxVolume > 0 {
			limits[i] = s.MaxVolume
		} else {
			limits[i] = math.Inf(1)
		}
	}
	return limits
}

// Catalog returns the builtin catalog extended with the mission's custom
// propellants. Name collisions with builtin entries are rejected.
func (m *Mission) Catalog() (*propellant.Catalog, error) {
	props := propellant.Builtin().All()
	for _, p := range m.Propellants {
		props = append(props, propellant.Propellant{Name: p.Name, Isp: p.Isp, Density: p.Density})
	}
	c, err := propellant.NewCatalog(props...)
	if err != nil {
		return nil, fmt.Errorf("mission catalog: %w", err)
	}
	return c, nil
}

// Rocket assembles the mission as written, using each stage's declared
// propellant. Every stage must name a propellant known to the catalog.
func (m *Mission) Rocket() (vehicle.Rocket, error) {
	catalog, err := m.Catalog()
	if err != nil {
		return vehicle.Rocket{}, err
	}
	stages := make([]vehicle.Stage, len(m.Stages))
	for i, s := range m.Stages {
		if s.Propellant == "" {
			return vehicle.Rocket{}, fmt.Errorf("stage %d (%s): no propellant assigned", i, s.displayLabel(i))
		}
		p, err := catalog.Lookup(s.Propellant)
		if err != nil {
			return vehicle.Rocket{}, fmt.Errorf("stage %d (%s): %w", i, s.displayLabel(i), err)
		}
		stages[i] = vehicle.Stage{
			Propellant:     p,
			DryMass:        s.DryMass,
			PropellantMass: s.PropellantMass,
			PayloadMass:    s.PayloadMass,
		}
	}
	return vehicle.Rocket{Stages: stages}, nil
}

// Sample returns the Saturn V demonstration mission: S-IC, S-II, and S-IVB
// mass budgets with their historical propellant assignments.
func Sample() *Mission {
	return &Mission{
		Name: "Saturn V",
		Stages: []StageSpec{
			{Label: "S-IC", Propellant: "RP-1/LOX", DryMass: 137000, PropellantMass: 2214000 - 137000, PayloadMass: 73706.5601077},
			{Label: "S-II", Propellant: "LH2/LOX", DryMass: 40100, PropellantMass: 496200 - 40100},
			{Label: "S-IVB", Propellant: "LH2/LOX", DryMass: 15200, PropellantMass: 123000 - 15200},
		},
	}
}
