package potential

import (
	"math"

	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
)

// Harmonic is a harmonic pair potential: U = 1/2 k (r - r0)^2.
type Harmonic struct {
	K  float64
	R0 float64
}

func (h Harmonic) Energy(a, b particle.Particle, r2 float64) float64 {
	r := math.Sqrt(r2)
	d := r - h.R0
	return 0.5 * h.K * d * d
}

func (h Harmonic) ToKT() float64 { return 1 }
