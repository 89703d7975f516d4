package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sarat-asymmetrica/faunus-mc/internal/geometry"
	"github.com/sarat-asymmetrica/faunus-mc/internal/group"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
)

func newTestSpace() *Space {
	geo := geometry.NewCuboid(30, 30, 30)
	return New(geo, nil)
}

func TestPushGroupMirrorsBothStates(t *testing.T) {
	s := newTestSpace()
	ps := []particle.Particle{
		particle.New(r3.Vec{X: 1}, 1, 0),
		particle.New(r3.Vec{X: 2}, -1, 0),
	}
	idx := s.PushGroup(ps, group.Meta{Molecular: true}, 0)
	require.Equal(t, 0, idx)
	assert.Equal(t, 2, s.Committed.Groups[0].Size())
	assert.Equal(t, 2, s.Trial.Groups[0].Size())
	// distinct backing arrays
	s.Trial.Particles[0].Charge = 99
	assert.NotEqual(t, s.Trial.Particles[0].Charge, s.Committed.Particles[0].Charge)
}

func TestSyncIndicesPropagatesAcceptedMove(t *testing.T) {
	s := newTestSpace()
	ps := []particle.Particle{particle.New(r3.Vec{}, 1, 0)}
	s.PushGroup(ps, group.Meta{}, 0)

	s.Trial.Particles[0].Pos = r3.Vec{X: 5}
	s.SyncIndices([]int{0})
	assert.Equal(t, 5.0, s.Committed.Particles[0].Pos.X)
}

func TestRevertIndicesDiscardsRejectedMove(t *testing.T) {
	s := newTestSpace()
	ps := []particle.Particle{particle.New(r3.Vec{}, 1, 0)}
	s.PushGroup(ps, group.Meta{}, 0)

	s.Trial.Particles[0].Pos = r3.Vec{X: 5}
	s.RevertIndices([]int{0})
	assert.Equal(t, 0.0, s.Trial.Particles[0].Pos.X)
}

func TestSyncGroupAndRevertGroupRoundTrip(t *testing.T) {
	s := newTestSpace()
	ps := []particle.Particle{particle.New(r3.Vec{}, 1, 0), particle.New(r3.Vec{X: 1}, -1, 0)}
	s.PushGroup(ps, group.Meta{Molecular: true}, 0)

	s.Trial.Groups[0].Translate(r3.Vec{X: 10}, func(v r3.Vec) r3.Vec { return v })
	require.NoError(t, s.SyncGroup(0))
	assert.Equal(t, 10.0, s.Committed.Particles[0].Pos.X)

	s.Trial.Groups[0].Translate(r3.Vec{X: -3}, func(v r3.Vec) r3.Vec { return v })
	require.NoError(t, s.RevertGroup(0))
	assert.Equal(t, 10.0, s.Trial.Particles[0].Pos.X)
}

func TestGrandCanonicalInsertAcceptFlow(t *testing.T) {
	s := newTestSpace()
	ps := []particle.Particle{particle.New(r3.Vec{}, 1, 0)}
	s.PushGroup(ps, group.Meta{}, 2) // reserve 2 inactive slots

	newP := particle.New(r3.Vec{X: 7}, -1, 3)
	require.NoError(t, s.TrialInsert(0, newP))
	assert.Equal(t, 2, s.Trial.Groups[0].Size())
	assert.Equal(t, 1, s.Committed.Groups[0].Size())

	require.NoError(t, s.CommitInsert(0, newP))
	assert.Equal(t, 2, s.Committed.Groups[0].Size())
	assert.Equal(t, 7.0, s.Committed.Particles[s.Committed.Groups[0].Offset+1].Pos.X)
}

func TestGrandCanonicalInsertRejectFlow(t *testing.T) {
	s := newTestSpace()
	ps := []particle.Particle{particle.New(r3.Vec{}, 1, 0)}
	s.PushGroup(ps, group.Meta{}, 2)

	newP := particle.New(r3.Vec{X: 7}, -1, 3)
	require.NoError(t, s.TrialInsert(0, newP))
	require.NoError(t, s.RevertInsert(0))
	assert.Equal(t, 1, s.Trial.Groups[0].Size())
}

func TestGrandCanonicalRemoveAcceptAndRejectFlow(t *testing.T) {
	s := newTestSpace()
	ps := []particle.Particle{particle.New(r3.Vec{}, 1, 0), particle.New(r3.Vec{X: 2}, -1, 0)}
	s.PushGroup(ps, group.Meta{}, 0)

	removed, err := s.TrialRemove(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, removed.Pos.X)
	assert.Equal(t, 1, s.Trial.Groups[0].Size())

	require.NoError(t, s.RevertRemove(0, removed))
	assert.Equal(t, 2, s.Trial.Groups[0].Size())

	_, err = s.TrialRemove(0, 1)
	require.NoError(t, err)
	require.NoError(t, s.CommitRemove(0, 1))
	assert.Equal(t, 1, s.Committed.Groups[0].Size())
}

func TestScaleVolumeAndObserver(t *testing.T) {
	s := newTestSpace()
	notified := false
	s.RegisterVolumeScaler(func(sc geometry.Scale) { notified = true })

	sc, err := s.ScaleVolume(2 * s.Geo.Volume())
	require.NoError(t, err)
	s.CommitVolume(sc)
	assert.True(t, notified)
}
