package energy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sarat-asymmetrica/faunus-mc/internal/bond"
	"github.com/sarat-asymmetrica/faunus-mc/internal/geometry"
	"github.com/sarat-asymmetrica/faunus-mc/internal/group"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
	"github.com/sarat-asymmetrica/faunus-mc/internal/potential"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

func twoParticleSpace(sep float64) *space.Space {
	geo := geometry.NewCuboid(100, 100, 100)
	sp := space.New(geo, nil)
	ps := []particle.Particle{
		particle.New(r3.Vec{X: 0}, 1, 0),
		particle.New(r3.Vec{X: sep}, -1, 0),
	}
	sp.PushGroup(ps, group.Meta{}, 0)
	return sp
}

func TestNonbondedHardSphereG2AllScansFullGroupNotJustFirst(t *testing.T) {
	geo := geometry.NewCuboid(100, 100, 100)
	sp := space.New(geo, nil)
	// group A: two particles; the first (index 0) does not overlap group
	// B's particle, the second (index 1) does.
	a := []particle.Particle{
		particle.New(r3.Vec{X: 0}, 0, 0),
		particle.New(r3.Vec{X: 10}, 0, 0),
	}
	b := []particle.Particle{particle.New(r3.Vec{X: 10.1}, 0, 0)}
	sp.PushGroup(a, group.Meta{}, 0)
	sp.PushGroup(b, group.Meta{}, 0)

	hs := Nonbonded[potential.HardSphere]{Pot: potential.HardSphere{Radius: func(int) float64 { return 1.0 }}}
	e := hs.G2All(sp, &sp.Committed, sp.Committed.Groups[0])
	assert.True(t, math.IsInf(e, 1))
}

func TestNonbondedCMCutoffSkipsDistantMolecularGroups(t *testing.T) {
	geo := geometry.NewCuboid(1000, 1000, 1000)
	sp := space.New(geo, nil)
	a := []particle.Particle{particle.New(r3.Vec{X: 0}, 1, 0)}
	b := []particle.Particle{particle.New(r3.Vec{X: 500}, -1, 0)}
	sp.PushGroup(a, group.Meta{Molecular: true}, 0)
	sp.PushGroup(b, group.Meta{Molecular: true}, 0)
	sp.Committed.Groups[0].CM = r3.Vec{X: 0}
	sp.Committed.Groups[1].CM = r3.Vec{X: 500}

	lj := potential.LennardJones{Sigma: func(int) float64 { return 3 }, Epsilon: func(int) float64 { return 1 }}
	n := Nonbonded[potential.LennardJones]{Pot: lj, CMCutoff: 50}
	e := n.G2G(sp, &sp.Committed, sp.Committed.Groups[0], sp.Committed.Groups[1])
	assert.Equal(t, 0.0, e)
}

func TestNonbondedCoulombAll2AllSumsDistinctPairsOnce(t *testing.T) {
	sp := twoParticleSpace(5)
	c := Nonbonded[potential.Coulomb]{Pot: potential.Coulomb{Lb: 7.1, Cutoff: 50}}
	pairEnergy := c.P2P(sp, sp.Committed.Particles[0], sp.Committed.Particles[1])
	all := c.All2All(sp, &sp.Committed)
	assert.InDelta(t, pairEnergy, all, 1e-9)
}

func TestBondedI2AllAndGInternal(t *testing.T) {
	geo := geometry.NewCuboid(100, 100, 100)
	sp := space.New(geo, nil)
	ps := []particle.Particle{
		particle.New(r3.Vec{X: 0}, 0, 0),
		particle.New(r3.Vec{X: 2}, 0, 0),
		particle.New(r3.Vec{X: 4}, 0, 0),
	}
	sp.PushGroup(ps, group.Meta{Molecular: true}, 0)

	table := bond.NewTable()
	table.Add(0, 1, bond.Harmonic{K: 10, R0: 2})
	table.Add(1, 2, bond.Harmonic{K: 10, R0: 2})
	b := Bonded{Table: table}

	assert.InDelta(t, 0, b.I2All(sp, &sp.Committed, 0), 1e-9)
	assert.Greater(t, b.GInternal(sp, &sp.Committed, sp.Committed.Groups[0]), -1e-9)

	table.Remove(0, 1)
	assert.Equal(t, 0.0, b.I2All(sp, &sp.Committed, 0))
}

func TestExternalPressureTerm(t *testing.T) {
	geo := geometry.NewCuboid(10, 10, 10)
	sp := space.New(geo, nil)
	ep := ExternalPressure{P: 0.01}
	v := sp.Geo.Volume()
	expected := 0.01*v - math.Log(v)
	assert.InDelta(t, expected, ep.External(sp, &sp.Committed), 1e-9)
}

func TestRestrictedVolumeInfOutsideBox(t *testing.T) {
	geo := geometry.NewCuboid(100, 100, 100)
	sp := space.New(geo, nil)
	ps := []particle.Particle{particle.New(r3.Vec{X: 20}, 0, 0)}
	sp.PushGroup(ps, group.Meta{}, 0)

	rv := RestrictedVolume{Lower: r3.Vec{X: -5, Y: -5, Z: -5}, Upper: r3.Vec{X: 5, Y: 5, Z: 5}}
	e := rv.GExternal(sp, &sp.Committed, sp.Committed.Groups[0])
	assert.True(t, math.IsInf(e, 1))
}

func TestMassCenterConstrainEnforcesDistanceWindow(t *testing.T) {
	geo := geometry.NewCuboid(1000, 1000, 1000)
	sp := space.New(geo, nil)
	a := []particle.Particle{particle.New(r3.Vec{}, 0, 0)}
	b := []particle.Particle{particle.New(r3.Vec{X: 100}, 0, 0)}
	sp.PushGroup(a, group.Meta{}, 0)
	sp.PushGroup(b, group.Meta{}, 0)
	sp.Committed.Groups[0].CM = r3.Vec{}
	sp.Committed.Groups[1].CM = r3.Vec{X: 100}

	m := MassCenterConstrain{Pairs: []GroupPairConstraint{{G1: 0, G2: 1, Min: 10, Max: 50}}}
	e := m.GExternal(sp, &sp.Committed, sp.Committed.Groups[0])
	assert.True(t, math.IsInf(e, 1))
}

func TestEnergyRestAccumulatesIntoExternal(t *testing.T) {
	sp := twoParticleSpace(5)
	er := &EnergyRest{}
	er.Add(1.5)
	er.Add(-0.5)
	assert.InDelta(t, 1.0, er.External(sp, &sp.Committed), 1e-9)
}

func TestHamiltonianSystemEnergyMatchesManualSum(t *testing.T) {
	sp := twoParticleSpace(5)
	c := Nonbonded[potential.Coulomb]{Pot: potential.Coulomb{Lb: 7.1, Cutoff: 50}}
	ep := ExternalPressure{P: 0.001}
	h := New(c, ep)

	got := h.SystemEnergy(sp, &sp.Committed)
	g := sp.Committed.Groups[0]
	want := ep.External(sp, &sp.Committed) + ep.GExternal(sp, &sp.Committed, g) + c.GInternal(sp, &sp.Committed, g)
	assert.InDelta(t, want, got, 1e-9)
	require.Len(t, h.Terms, 2)
}
