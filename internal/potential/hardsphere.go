package potential

import (
	"math"

	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
)

// HardSphere is the hard-sphere potential: +Inf if the particles overlap
// (r² < (ra+rb)²), else 0.
type HardSphere struct {
	Radius func(id int) float64
}

func (h HardSphere) Energy(a, b particle.Particle, r2 float64) float64 {
	sum := h.Radius(a.ID) + h.Radius(b.ID)
	if r2 < sum*sum {
		return math.Inf(1)
	}
	return 0
}

func (h HardSphere) ToKT() float64 { return 1 }
