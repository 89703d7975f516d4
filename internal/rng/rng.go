// Package rng provides the single explicitly-threaded random source moves
// draw from. There is no ambient/global random state (spec.md §5, §9):
// every move receives the *Source it should use.
package rng

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source wraps a deterministic math/rand generator (which draws the uniform
// half-displacements directly) plus the gonum distributions used for
// Gaussian draws and random unit vectors, so callers never reach for math/rand or gonum directly
// and the sequence stays reproducible under a fixed seed.
type Source struct {
	R *rand.Rand
}

// New returns a Source seeded deterministically.
func New(seed int64) *Source {
	return &Source{R: rand.New(rand.NewSource(seed))}
}

// Uniform01 draws a uniform deviate in [0,1).
func (s *Source) Uniform01() float64 { return s.R.Float64() }

// Half draws a uniform deviate in [-0.5, 0.5).
func (s *Source) Half() float64 { return s.R.Float64() - 0.5 }

// Int draws a uniform integer in [0, n).
func (s *Source) Int(n int) int { return s.R.Intn(n) }

// Gaussian draws from N(mean, sigma) using gonum's distuv.Normal, seeded
// from this Source's own generator so the whole sequence stays driven by
// one seed.
func (s *Source) Gaussian(mean, sigma float64) float64 {
	d := distuv.Normal{Mu: mean, Sigma: sigma, Src: s.R}
	return d.Rand()
}

// UnitVector draws a uniformly distributed direction on the unit sphere via
// Marsaglia's rejection method.
func (s *Source) UnitVector() (x, y, z float64) {
	for {
		u := distuv.Uniform{Min: -1, Max: 1, Src: s.R}
		a, b := u.Rand(), u.Rand()
		s2 := a*a + b*b
		if s2 >= 1 {
			continue
		}
		root := 2 * math.Sqrt(1-s2)
		return a * root, b * root, 1 - 2*s2
	}
}
