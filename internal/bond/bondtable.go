// Package bond implements the symmetric sparse bond table used by the
// Bonded energy term: a mapping (i,j) -> potential with i != j, reachable
// from either ordering of the pair.
package bond

import "math"

// Potential evaluates a bonded interaction given the current squared
// distance between the two bonded particles, returning energy in thermal
// units (kT).
type Potential interface {
	Energy(r2 float64) float64
}

// Harmonic is a harmonic bond potential: U = 1/2 k (r - r0)^2.
type Harmonic struct {
	K  float64 // spring constant, kT/Å²
	R0 float64 // equilibrium length, Å
}

func (h Harmonic) Energy(r2 float64) float64 {
	r := math.Sqrt(r2)
	d := r - h.R0
	return 0.5 * h.K * d * d
}

type pairKey struct{ i, j int }

func normalize(i, j int) pairKey {
	if i > j {
		i, j = j, i
	}
	return pairKey{i, j}
}

// Table is a symmetric sparse (i,j) -> Potential map, i != j, with an
// adjacency index so Bonded.i2all can find a particle's bond partners
// without scanning every registered pair.
type Table struct {
	m    map[pairKey]Potential
	adj  map[int][]int
}

// NewTable returns an empty bond table.
func NewTable() *Table { return &Table{m: make(map[pairKey]Potential), adj: make(map[int][]int)} }

// Add registers a bond potential between particle indices i and j (i != j).
// Add panics on i == j: a particle cannot bond to itself.
func (t *Table) Add(i, j int, pot Potential) {
	if i == j {
		panic("bond: self-bond not allowed")
	}
	k := normalize(i, j)
	if _, exists := t.m[k]; !exists {
		t.adj[i] = append(t.adj[i], j)
		t.adj[j] = append(t.adj[j], i)
	}
	t.m[k] = pot
}

// Get returns the potential registered for (i,j), checked under either
// ordering, and whether one exists.
func (t *Table) Get(i, j int) (Potential, bool) {
	p, ok := t.m[normalize(i, j)]
	return p, ok
}

// Remove deletes the bond between i and j, if any.
func (t *Table) Remove(i, j int) {
	k := normalize(i, j)
	if _, ok := t.m[k]; !ok {
		return
	}
	delete(t.m, k)
	t.adj[i] = removeVal(t.adj[i], j)
	t.adj[j] = removeVal(t.adj[j], i)
}

func removeVal(s []int, v int) []int {
	for idx, x := range s {
		if x == v {
			return append(s[:idx], s[idx+1:]...)
		}
	}
	return s
}

// Neighbors returns the indices bonded to i.
func (t *Table) Neighbors(i int) []int { return t.adj[i] }

// Pairs returns every registered (i,j) pair with i<j.
func (t *Table) Pairs() [][2]int {
	out := make([][2]int, 0, len(t.m))
	for k := range t.m {
		out = append(out, [2]int{k.i, k.j})
	}
	return out
}

// Len reports the number of registered bonds.
func (t *Table) Len() int { return len(t.m) }
