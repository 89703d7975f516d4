package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCuboidSqDistSymmetric(t *testing.T) {
	c := NewCuboid(10, 10, 10)
	a := r3.Vec{X: 4.9, Y: -4.9, Z: 0.1}
	b := r3.Vec{X: -4.8, Y: 4.8, Z: -0.2}

	d1 := c.SqDist(a, b)
	d2 := c.SqDist(b, a)
	assert.InDelta(t, d1, d2, 1e-9)

	maxAllowed := 3 * (10.0 / 2) * (10.0 / 2)
	assert.LessOrEqual(t, d1, maxAllowed+1e-9)
}

func TestCuboidMinimumImageUsesRounding(t *testing.T) {
	c := NewCuboid(10, 10, 10)
	// separated by 6 in x: nearest image is -4, not +6 (truncation would give 6)
	d := c.VDist(r3.Vec{}, r3.Vec{X: 6})
	assert.InDelta(t, -4, d.X, 1e-9)
}

func TestCuboidScaleIsotropic(t *testing.T) {
	c := NewCuboid(10, 10, 10)
	before := c.Volume()
	require.InDelta(t, 1000, before, 1e-9)

	s, err := c.ScaleVolume(2000)
	require.NoError(t, err)
	assert.InDelta(t, 2000, c.Volume(), 1e-6)
	assert.InDelta(t, 2000, s.NewVol, 1e-6)
}

func TestCuboidScaleRejectsNonPositive(t *testing.T) {
	c := NewCuboid(10, 10, 10)
	_, err := c.ScaleVolume(0)
	assert.Error(t, err)
	_, err = c.ScaleVolume(-5)
	assert.Error(t, err)
}

func TestSphereCollisionAndRandomInside(t *testing.T) {
	s := NewSphere(5)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := s.RandomInside(rng)
		assert.False(t, s.Collision(p))
	}
	assert.True(t, s.Collision(r3.Vec{X: 6}))
	assert.False(t, s.Collision(r3.Vec{X: 4}))
}

func TestHexagonalPrismRoundTrip(t *testing.T) {
	h := NewHexagonalPrism(8, 20)
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		p := h.RandomInside(rng)
		require.False(t, h.Collision(p))
	}
	d1 := h.SqDist(r3.Vec{X: 1, Y: 1}, r3.Vec{X: -1, Y: -1})
	d2 := h.SqDist(r3.Vec{X: -1, Y: -1}, r3.Vec{X: 1, Y: 1})
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestTruncatedOctahedronVolumeAndFold(t *testing.T) {
	to := NewTruncatedOctahedron(10)
	assert.InDelta(t, 500, to.Volume(), 1e-9)

	// A displacement well inside the cell should be unchanged by folding.
	d := to.VDist(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
	assert.InDelta(t, 1, d.X, 1e-9)
	assert.InDelta(t, 1, d.Y, 1e-9)
	assert.InDelta(t, 1, d.Z, 1e-9)
}

func TestCylinderScale(t *testing.T) {
	cy := NewCylinder(5, 10)
	before := cy.Volume()
	_, err := cy.ScaleVolume(before * 2)
	require.NoError(t, err)
	assert.InDelta(t, before*2, cy.Volume(), 1e-6)
}

func TestSlitNonPeriodicZ(t *testing.T) {
	s := NewSlit(10, 10, 10)
	assert.True(t, s.Collision(r3.Vec{Z: 6}))
	assert.False(t, s.Collision(r3.Vec{Z: 4}))
	// x,y periodic
	d := s.Boundary(r3.Vec{X: 6})
	assert.InDelta(t, -4, d.X, 1e-9)
}

func TestRoundToNearestNotTruncation(t *testing.T) {
	assert.Equal(t, 1.0, round(0.6))
	assert.Equal(t, -1.0, round(-0.6))
	assert.True(t, math.Abs(round(2.5)-3) < 1e-9 || math.Abs(round(2.5)-2) < 1e-9)
}
