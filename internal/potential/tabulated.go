package potential

import (
	"math"

	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
)

// Tabulated wraps an inner Pair with a precomputed linear-interpolation
// table over squared distance, for a single fixed pair of atom types. It
// exists purely for speed: values must reproduce the direct evaluation
// within a tolerance that callers check with MaxError (used in tests).
type Tabulated struct {
	inner  Pair
	typeA  particle.Particle
	typeB  particle.Particle
	rMin2  float64
	rMax2  float64
	table  []float64
	nBins  int
	toKT   float64
}

// NewTabulated builds a table of n bins over [rMin2, rMax2] for the given
// inner potential, fixed at representative particles a,b (only their Charge
// and ID matter to most potentials).
func NewTabulated(inner Pair, a, b particle.Particle, rMin2, rMax2 float64, n int) *Tabulated {
	t := &Tabulated{inner: inner, typeA: a, typeB: b, rMin2: rMin2, rMax2: rMax2, nBins: n, toKT: inner.ToKT()}
	t.table = make([]float64, n+1)
	for i := 0; i <= n; i++ {
		r2 := rMin2 + (rMax2-rMin2)*float64(i)/float64(n)
		t.table[i] = inner.Energy(a, b, r2)
	}
	return t
}

func (t *Tabulated) Energy(a, b particle.Particle, r2 float64) float64 {
	if r2 <= t.rMin2 {
		return t.table[0]
	}
	if r2 >= t.rMax2 {
		return t.table[len(t.table)-1]
	}
	x := (r2 - t.rMin2) / (t.rMax2 - t.rMin2) * float64(t.nBins)
	i := int(x)
	if i >= t.nBins {
		i = t.nBins - 1
	}
	frac := x - float64(i)
	return t.table[i]*(1-frac) + t.table[i+1]*frac
}

func (t *Tabulated) ToKT() float64 { return t.toKT }

// MaxError samples the table against the original inner potential at n
// points and returns the largest absolute discrepancy; used by tests to
// confirm tabulation reproduces the direct evaluation within tolerance.
func (t *Tabulated) MaxError(n int) float64 {
	maxErr := 0.0
	for i := 0; i < n; i++ {
		r2 := t.rMin2 + (t.rMax2-t.rMin2)*float64(i)/float64(n-1)
		direct := t.inner.Energy(t.typeA, t.typeB, r2)
		tabulated := t.Energy(t.typeA, t.typeB, r2)
		if math.IsInf(direct, 1) {
			continue
		}
		if d := math.Abs(direct - tabulated); d > maxErr {
			maxErr = d
		}
	}
	return maxErr
}
