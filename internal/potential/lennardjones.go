package potential

import (
	"math"

	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
)

// LennardJones uses Lorentz-Berthelot combining rules: sigma_ij is the
// arithmetic mean, epsilon_ij the geometric mean of the per-type
// parameters.
type LennardJones struct {
	Sigma   func(id int) float64
	Epsilon func(id int) float64
}

func (lj LennardJones) Energy(a, b particle.Particle, r2 float64) float64 {
	sigma := 0.5 * (lj.Sigma(a.ID) + lj.Sigma(b.ID))
	eps := math.Sqrt(lj.Epsilon(a.ID) * lj.Epsilon(b.ID))
	s2 := sigma * sigma / r2
	s6 := s2 * s2 * s2
	return 4 * eps * (s6*s6 - s6)
}

func (lj LennardJones) ToKT() float64 { return 1 }
