// Package geometry implements the simulation container: volume, boundary
// wrapping, minimum-image distances, random point sampling and volume
// scaling. Six concrete shapes are provided: Cuboid, Sphere, Cylinder, Slit,
// HexagonalPrism and TruncatedOctahedron.
package geometry

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Scale describes a volume-change transform: a per-axis multiplicative
// factor applied to points, plus the resulting volume. Atomic groups scale
// every member point; molecular (incompressible) groups scale only the
// center of mass and rigidly translate members by the resulting cm delta —
// that policy lives in the group package, not here.
type Scale struct {
	Factor r3.Vec
	NewVol float64
}

// Point applies the scale factor component-wise.
func (s Scale) Point(p r3.Vec) r3.Vec {
	return r3.Vec{X: p.X * s.Factor.X, Y: p.Y * s.Factor.Y, Z: p.Z * s.Factor.Z}
}

// Geometry is the capability set every simulation container implements.
type Geometry interface {
	// Volume returns the container volume in Å³.
	Volume() float64

	// SqDist returns the minimum-image squared distance between a and b.
	SqDist(a, b r3.Vec) float64

	// VDist returns the minimum-image displacement b-a (nearest image of b
	// relative to a).
	VDist(a, b r3.Vec) r3.Vec

	// Boundary wraps p into the primary cell.
	Boundary(p r3.Vec) r3.Vec

	// Collision reports whether p lies outside the container.
	Collision(p r3.Vec) bool

	// RandomInside draws a uniformly distributed point inside the
	// container using rng.
	RandomInside(rng *rand.Rand) r3.Vec

	// ScaleVolume returns the per-axis transform taking the container from
	// its current volume to newVol, following the geometry's scaling
	// policy (isotropic unless otherwise configured).
	ScaleVolume(newVol float64) (Scale, error)

	// String names the geometry for logging/persistence.
	String() string
}

// round implements round-to-nearest-integer, used by minimum-image folding.
// math.Round already rounds half away from zero, which is the convention
// the minimum image formula needs (not truncation).
func round(x float64) float64 { return math.Round(x) }
