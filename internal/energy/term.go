// Package energy implements the polymorphic energy contributors dispatched
// by the Hamiltonian: nonbonded pair sums, the bond table, external
// pressure/restraint terms, and an accounting term absorbing delayed-commit
// bookkeeping drift.
//
// Every Term exposes the full capability contract from spec.md §4.6
// (p2p/all2p/all2all/i2i/i2g/i2all/g2g/g2all/i_external/g_external/
// external/i_internal/g_internal) even though most concrete terms only
// contribute through one or two of them — an open trait-object set
// (spec.md §9 Design Notes), so a Base embedded by every term supplies
// zero-valued defaults and concrete terms override only what they need,
// the same pattern net/http uses for optional Handler behavior.
package energy

import (
	"github.com/sarat-asymmetrica/faunus-mc/internal/group"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

// Term is the capability set every energy contributor implements, all
// values in kT.
type Term interface {
	P2P(sp *space.Space, a, b particle.Particle) float64
	All2P(sp *space.Space, st *space.State, a particle.Particle) float64
	All2All(sp *space.Space, st *space.State) float64
	I2I(sp *space.Space, st *space.State, i, j int) float64
	I2G(sp *space.Space, st *space.State, g *group.Group, i int) float64
	I2All(sp *space.Space, st *space.State, i int) float64
	G2G(sp *space.Space, st *space.State, g1, g2 *group.Group) float64
	G2All(sp *space.Space, st *space.State, g *group.Group) float64
	IExternal(sp *space.Space, st *space.State, i int) float64
	GExternal(sp *space.Space, st *space.State, g *group.Group) float64
	External(sp *space.Space, st *space.State) float64
	IInternal(sp *space.Space, st *space.State, i int) float64
	GInternal(sp *space.Space, st *space.State, g *group.Group) float64

	// Name identifies the term in logging and the drift-audit report.
	Name() string
}

// Base supplies zero-valued defaults for every Term method. Concrete terms
// embed Base and override only the methods relevant to them.
type Base struct{}

func (Base) P2P(*space.Space, particle.Particle, particle.Particle) float64      { return 0 }
func (Base) All2P(*space.Space, *space.State, particle.Particle) float64         { return 0 }
func (Base) All2All(*space.Space, *space.State) float64                         { return 0 }
func (Base) I2I(*space.Space, *space.State, int, int) float64                    { return 0 }
func (Base) I2G(*space.Space, *space.State, *group.Group, int) float64           { return 0 }
func (Base) I2All(*space.Space, *space.State, int) float64                      { return 0 }
func (Base) G2G(*space.Space, *space.State, *group.Group, *group.Group) float64 { return 0 }
func (Base) G2All(*space.Space, *space.State, *group.Group) float64             { return 0 }
func (Base) IExternal(*space.Space, *space.State, int) float64                  { return 0 }
func (Base) GExternal(*space.Space, *space.State, *group.Group) float64         { return 0 }
func (Base) External(*space.Space, *space.State) float64                       { return 0 }
func (Base) IInternal(*space.Space, *space.State, int) float64                 { return 0 }
func (Base) GInternal(*space.Space, *space.State, *group.Group) float64        { return 0 }

// forEachActive visits every active particle's global arena index across
// every group of st, in group order — the system's "all" for all2all/i2all.
func forEachActive(st *space.State, f func(idx int, p particle.Particle)) {
	for _, g := range st.Groups {
		off, end := g.ToIndex()
		for i := off; i < end; i++ {
			f(i, st.Particles[i])
		}
	}
}

// groupOf reports whether arena index i belongs to g's active range.
func groupOf(g *group.Group, i int) bool {
	return g.Contains(i, false)
}
