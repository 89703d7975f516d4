package persist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sarat-asymmetrica/faunus-mc/internal/geometry"
	"github.com/sarat-asymmetrica/faunus-mc/internal/group"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

func newTestSpace() *space.Space {
	sp := space.New(geometry.NewCuboid(30, 30, 30), nil)
	ps := []particle.Particle{
		particle.New(r3.Vec{X: 1, Y: 2, Z: 3}, 1, 0),
		particle.New(r3.Vec{X: -1}, -1, 1),
	}
	ps[1].Ext().Mu = r3.Vec{X: 0.5, Y: 0.1}
	ps[1].Ext().MuScalar = 1.4
	sp.PushGroup(ps, group.Meta{Molecular: true, ConfID: 7, CM: r3.Vec{X: 0.5}}, 1)
	return sp
}

func TestSaveLoadRoundTrip(t *testing.T) {
	sp := newTestSpace()
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, FromState(sp, 42.5)))

	got, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, sp.Committed.Particles, got.Particles)
	assert.Equal(t, 42.5, got.DUSum)
	require.Len(t, got.Bounds, 1)
	assert.Equal(t, sp.Committed.Groups[0].Offset, got.Bounds[0].Offset)
	assert.Equal(t, sp.Committed.Groups[0].End, got.Bounds[0].End)
	assert.Equal(t, sp.Committed.Groups[0].CapEnd, got.Bounds[0].CapEnd)
	assert.Equal(t, sp.Committed.Groups[0].Meta, got.Groups[0])
	assert.Equal(t, sp.Geo.String(), got.Geometry.String())
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	sp := newTestSpace()
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, FromState(sp, 0)))

	raw := buf.Bytes()
	raw[0] ^= 0xFF // corrupt the version stamp

	_, err := Load(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrVersionMismatch)
}

func TestToSpaceRebuildsGroupLayout(t *testing.T) {
	sp := newTestSpace()
	st := FromState(sp, 0)

	rebuilt := ToSpace(st, nil)
	require.Len(t, rebuilt.Committed.Groups, 1)
	g := rebuilt.Committed.Groups[0]
	assert.Equal(t, sp.Committed.Groups[0].Offset, g.Offset)
	assert.Equal(t, sp.Committed.Groups[0].End, g.End)
	assert.Equal(t, sp.Committed.Groups[0].CapEnd, g.CapEnd)
	assert.Equal(t, 2, g.Size())
}

func TestGeometryRoundTripPerShape(t *testing.T) {
	shapes := []geometry.Geometry{
		geometry.NewCuboid(10, 20, 30),
		geometry.NewSphere(15),
		geometry.NewCylinder(5, 40),
		geometry.NewSlit(10, 10, 25),
		geometry.NewHexagonalPrism(8, 12),
		geometry.NewTruncatedOctahedron(50),
	}
	for _, geo := range shapes {
		var buf bytes.Buffer
		require.NoError(t, writeGeometry(&buf, geo))
		got, err := readGeometry(&buf)
		require.NoError(t, err)
		assert.Equal(t, geo.String(), got.String())
		assert.InDelta(t, geo.Volume(), got.Volume(), 1e-9)
	}
}

func TestParticleExtendedRecordRoundTrips(t *testing.T) {
	p := particle.New(r3.Vec{X: 1}, 2, 3)
	p.Ext().Mu = r3.Vec{X: 1, Y: 2, Z: 3}
	p.Ext().MuScalar = 9.5
	p.Ext().Direction = r3.Vec{Z: 1}

	var buf bytes.Buffer
	require.NoError(t, writeParticles(&buf, []particle.Particle{p}))
	got, err := readParticles(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].HasExt())
	assert.Equal(t, p.Ext().Mu, got[0].Ext().Mu)
	assert.Equal(t, p.Ext().MuScalar, got[0].Ext().MuScalar)
	assert.Equal(t, p.Ext().Direction, got[0].Ext().Direction)
}
