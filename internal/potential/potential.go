// Package potential implements pair potentials: pure functions of two
// particles and their squared separation, returning energy in thermal
// units (kT). Potentials compose by summation and may be tabulated for
// speed.
package potential

import "github.com/sarat-asymmetrica/faunus-mc/internal/particle"

// Pair is the capability every pair potential implements.
type Pair interface {
	// Energy returns the pair energy in kT given the squared distance
	// between a and b (already computed by the caller via the active
	// Geometry, so periodic boundaries are handled once, not per-term).
	Energy(a, b particle.Particle, r2 float64) float64

	// ToKT is a historical scale factor (most potentials fix it at 1);
	// kept so table-driven configs can override it per term.
	ToKT() float64
}

// Sum composes potentials additively.
type Sum []Pair

func (s Sum) Energy(a, b particle.Particle, r2 float64) float64 {
	total := 0.0
	for _, p := range s {
		total += p.Energy(a, b, r2) * p.ToKT()
	}
	return total
}

func (s Sum) ToKT() float64 { return 1 }
