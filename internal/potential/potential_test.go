package potential

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
)

func particleZero() r3.Vec { return r3.Vec{} }

func TestHardSphereOverlap(t *testing.T) {
	hs := HardSphere{Radius: func(id int) float64 { return 1.5 }}
	a := particle.New(particleZero(), 0, 0)
	b := particle.New(particleZero(), 0, 0)

	assert.True(t, math.IsInf(hs.Energy(a, b, (2.9)*(2.9)), 1))
	assert.Equal(t, 0.0, hs.Energy(a, b, (3.1)*(3.1)))
}

func TestHarmonicMinimumIsZero(t *testing.T) {
	h := Harmonic{K: 10, R0: 2}
	a := particle.New(particleZero(), 0, 0)
	b := particle.New(particleZero(), 0, 0)
	assert.InDelta(t, 0, h.Energy(a, b, 4), 1e-9)
	assert.Greater(t, h.Energy(a, b, 9), 0.0)
}

func TestLennardJonesMinimumIsNegativeEpsilon(t *testing.T) {
	lj := LennardJones{
		Sigma:   func(id int) float64 { return 3.0 },
		Epsilon: func(id int) float64 { return 0.5 },
	}
	a := particle.New(particleZero(), 0, 0)
	b := particle.New(particleZero(), 0, 0)
	sigma := 3.0
	rMin2 := math.Pow(2, 1.0/3) * sigma * sigma // r_min = 2^(1/6) sigma
	e := lj.Energy(a, b, rMin2)
	assert.InDelta(t, -0.5, e, 1e-2)
}

func TestCoulombSumOfOppositeChargesIsNegative(t *testing.T) {
	c := Coulomb{Lb: 7.1, Cutoff: 20}
	a := particle.New(particleZero(), 1, 0)
	b := particle.New(particleZero(), -1, 0)
	assert.Less(t, c.Energy(a, b, 25), 0.0)
}

func TestCoulombBeyondCutoffIsZero(t *testing.T) {
	c := Coulomb{Lb: 7.1, Cutoff: 10}
	a := particle.New(particleZero(), 1, 0)
	b := particle.New(particleZero(), -1, 0)
	assert.Equal(t, 0.0, c.Energy(a, b, 400))
}

func TestSumComposesAdditively(t *testing.T) {
	a := particle.New(particleZero(), 1, 0)
	b := particle.New(particleZero(), -1, 0)
	s := Sum{
		Harmonic{K: 1, R0: 0},
		Coulomb{Lb: 1, Cutoff: 100},
	}
	sum := s.Energy(a, b, 4)
	expected := Harmonic{K: 1, R0: 0}.Energy(a, b, 4) + Coulomb{Lb: 1, Cutoff: 100}.Energy(a, b, 4)
	assert.InDelta(t, expected, sum, 1e-9)
}

func TestTabulatedReproducesDirectWithinTolerance(t *testing.T) {
	lj := LennardJones{
		Sigma:   func(id int) float64 { return 3.0 },
		Epsilon: func(id int) float64 { return 1.0 },
	}
	a := particle.New(particleZero(), 0, 0)
	b := particle.New(particleZero(), 0, 0)
	tab := NewTabulated(lj, a, b, 9, 400, 2000)

	maxErr := tab.MaxError(500)
	require.Less(t, maxErr, 1e-3)
}
