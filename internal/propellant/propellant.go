// Package propellant provides the propellant catalog: a fixed, ordered
// registry of propellant types with their physical constants. Catalogs are
// built once and never mutated; Propellant values are shared by reference
// across every stage that selects them.
package propellant

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Lookup for a propellant name the catalog does
// not contain.
var ErrNotFound = errors.New("propellant not found")

// Propellant describes one propellant combination by its physical constants.
type Propellant struct {
	Name    string  // unique identifier within a catalog
	Isp     float64 // specific impulse in seconds, > 0
	Density float64 // fuel density in kg/m³, > 0
}

// Catalog is an ordered, read-only set of propellants. Iteration order is
// insertion order, which also fixes the optimizer's candidate generation
// order.
type Catalog struct {
	props  []Propellant
	byName map[string]int
}

// NewCatalog builds a catalog from the given propellants, preserving order.
// Duplicate names and non-positive isp or density values are construction
// errors.
func NewCatalog(props ...Propellant) (*Catalog, error) {
	c := &Catalog{
		props:  make([]Propellant, 0, len(props)),
		byName: make(map[string]int, len(props)),
	}
	for _, p := range props {
		if p.Name == "" {
			return nil, fmt.Errorf("propellant with empty name")
		}
		if p.Isp <= 0 {
			return nil, fmt.Errorf("propellant %q: isp must be positive, got %g", p.Name, p.Isp)
		}
		if p.Density <= 0 {
			return nil, fmt.Errorf("propellant %q: density must be positive, got %g", p.Name, p.Density)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate propellant %q", p.Name)
		}
		c.byName[p.Name] = len(c.props)
		c.props = append(c.props, p)
	}
	return c, nil
}

// Builtin returns the standard catalog of common propellant combinations.
// Constants are typical vacuum-adjacent figures used for comparative
// staging studies, not engine-specific data.
func Builtin() *Catalog {
	c, err := NewCatalog(
		Propellant{Name: "RP-1/LOX", Isp: 263, Density: 806},  // first stage typical
		Propellant{Name: "LH2/LOX", Isp: 421, Density: 71},    // upper stages typical
		Propellant{Name: "N2O4/UDMH", Isp: 320, Density: 793}, // hypergolic
		Propellant{Name: "Solid", Isp: 280, Density: 1500},    // solid rocket motor
	)
	if err != nil {
		// The builtin table is a compile-time constant set; a failure here
		// is a programming error.
		panic(err)
	}
	return c
}

// Lookup returns the propellant with the given name, or ErrNotFound.
func (c *Catalog) Lookup(name string) (Propellant, error) {
	i, ok := c.byName[name]
	if !ok {
		return Propellant{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.props[i], nil
}

// All returns the catalog's propellants in iteration order. The returned
// slice is a copy; mutating it does not affect the catalog.
func (c *Catalog) All() []Propellant {
	out := make([]Propellant, len(c.props))
	copy(out, c.props)
	return out
}

// Names returns the propellant names in iteration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.props))
	for i, p := range c.props {
		names[i] = p.Name
	}
	return names
}

// At returns the propellant at position i in iteration order.
func (c *Catalog) At(i int) Propellant {
	return c.props[i]
}

// Len returns the number of propellants in the catalog.
func (c *Catalog) Len() int {
	return len(c.props)
}
