package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
)

func mkArena(vals ...float64) *[]particle.Particle {
	arena := make([]particle.Particle, len(vals))
	for i, v := range vals {
		arena[i] = particle.New(r3.Vec{X: v}, 0, 0)
	}
	return &arena
}

func values(arena *[]particle.Particle, from, to int) []float64 {
	out := make([]float64, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, (*arena)[i].Pos.X)
	}
	return out
}

// Scenario 1 from spec.md §8: ElasticRange.
func TestElasticRangeScenario(t *testing.T) {
	arena := mkArena(10, 20, 30, 40, 50, 60)
	g := &Group{Arena: arena, Offset: 0, End: 6, CapEnd: 6}

	require.Equal(t, 6, g.Size())

	// deactivate middle two starting at index 1 (values 20,30)
	require.NoError(t, g.Deactivate(1, 3))
	assert.Equal(t, 4, g.Size())

	active := values(arena, g.Offset, g.End)
	assert.NotContains(t, active, 20.0)
	assert.NotContains(t, active, 30.0)

	inactiveTail := values(arena, g.End, g.CapEnd)
	assert.ElementsMatch(t, []float64{20, 30}, inactiveTail)

	require.NoError(t, g.Activate(2))
	assert.Equal(t, 6, g.Size())
	assert.ElementsMatch(t, []float64{10, 20, 30, 40, 50, 60}, values(arena, g.Offset, g.End))
}

func TestDeactivateNoOp(t *testing.T) {
	arena := mkArena(1, 2, 3)
	g := &Group{Arena: arena, Offset: 0, End: 3, CapEnd: 3}
	require.NoError(t, g.Deactivate(1, 1))
	assert.Equal(t, 3, g.Size())
}

func TestDeactivateOutOfRange(t *testing.T) {
	arena := mkArena(1, 2, 3)
	g := &Group{Arena: arena, Offset: 0, End: 3, CapEnd: 3}
	assert.Error(t, g.Deactivate(0, 10))
}

// Scenario 2 from spec.md §8: Rotate.
func TestRotateQuarterTurnAboutX(t *testing.T) {
	arena := make([]particle.Particle, 1)
	arena[0] = particle.New(r3.Vec{X: 0, Y: 1, Z: 0}, 0, 0)
	arena[0].Ext().Mu = r3.Vec{X: 0, Y: 1, Z: 0}
	g := &Group{Arena: &arena, Offset: 0, End: 1, CapEnd: 1}
	g.CM = r3.Vec{}

	// 90 degree rotation about x axis: q = (cos45, sin45, 0, 0)
	half := 0.7071067811865476
	q := quat.Number{Real: half, Imag: half}

	identity := func(p r3.Vec) r3.Vec { return p }
	vdist := func(a, b r3.Vec) r3.Vec { return r3.Sub(b, a) }

	g.Rotate(q, vdist, identity)

	assert.InDelta(t, 0, arena[0].Pos.X, 1e-9)
	assert.InDelta(t, 0, arena[0].Pos.Y, 1e-9)
	assert.InDelta(t, 1, arena[0].Pos.Z, 1e-9)

	ext := arena[0].ExtOrNil()
	require.NotNil(t, ext)
	assert.InDelta(t, 0, ext.Mu.X, 1e-9)
	assert.InDelta(t, 0, ext.Mu.Y, 1e-9)
	assert.InDelta(t, 1, ext.Mu.Z, 1e-9)
}

func TestRotateEmptyGroupIsNoOp(t *testing.T) {
	arena := mkArena()
	g := &Group{Arena: arena, Offset: 0, End: 0, CapEnd: 0}
	identity := func(p r3.Vec) r3.Vec { return p }
	vdist := func(a, b r3.Vec) r3.Vec { return r3.Sub(b, a) }
	g.Rotate(quat.Number{Real: 1}, vdist, identity)
	assert.Equal(t, 0, g.Size())
}

// Scenario 3 from spec.md §8: Group deep copy.
func TestCloneIntoCopiesContentsNotArena(t *testing.T) {
	src := mkArena(1, 2, 3, 4, 5)
	dst := mkArena(9, 9, 9, 9, 9)

	sg := &Group{Arena: src, Offset: 0, End: 5, CapEnd: 5, Meta: Meta{MoleculeID: 7}}
	dg := &Group{Arena: dst, Offset: 0, End: 5, CapEnd: 5}

	require.NoError(t, sg.CloneInto(dg))

	assert.Equal(t, []float64{1, 2, 3, 4, 5}, values(dst, 0, 5))
	assert.Equal(t, 7, dg.MoleculeID)
	// source and destination arenas remain distinct slices
	assert.NotSame(t, src, dst)
}

func TestSelectorsNeutralAndFull(t *testing.T) {
	arena := make([]particle.Particle, 2)
	arena[0] = particle.New(r3.Vec{}, 1, 0)
	arena[1] = particle.New(r3.Vec{}, -1, 0)
	g := &Group{Arena: &arena, Offset: 0, End: 2, CapEnd: 2, Meta: Meta{Molecular: true}}

	pred := Filter(Active, Full, Neutral, Molecular)
	assert.True(t, pred(g))

	require.NoError(t, g.Deactivate(1, 2))
	assert.False(t, Filter(Full)(g))
	assert.True(t, Filter(Inactive)(g) == false) // one particle still active
}
