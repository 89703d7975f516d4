package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// TruncatedOctahedron is periodic in all three dimensions with the minimum
// image convention of a space-filling truncated-octahedral cell: fold each
// axis as a cube of side Len, then apply the corner-cutting correction
// (fold again along the body diagonal whenever the Manhattan distance
// exceeds 3/4 of Len). This is the standard two-step algorithm used for
// this cell shape (e.g. in GROMACS/DL_POLY), rather than a closed-form
// single modulo.
type TruncatedOctahedron struct {
	Len float64 // distance between opposite square faces
}

func NewTruncatedOctahedron(len float64) *TruncatedOctahedron {
	return &TruncatedOctahedron{Len: len}
}

func (t *TruncatedOctahedron) Volume() float64 { return 0.5 * t.Len * t.Len * t.Len }

func (t *TruncatedOctahedron) String() string {
	return fmt.Sprintf("truncoct(l=%.3f)", t.Len)
}

func (t *TruncatedOctahedron) foldCorrection(d r3.Vec) r3.Vec {
	L := t.Len
	dx := d.X - L*round(d.X/L)
	dy := d.Y - L*round(d.Y/L)
	dz := d.Z - L*round(d.Z/L)
	if math.Abs(dx)+math.Abs(dy)+math.Abs(dz) > 0.75*L {
		dx -= math.Copysign(0.5*L, dx)
		dy -= math.Copysign(0.5*L, dy)
		dz -= math.Copysign(0.5*L, dz)
	}
	return r3.Vec{X: dx, Y: dy, Z: dz}
}

func (t *TruncatedOctahedron) VDist(a, b r3.Vec) r3.Vec {
	return t.foldCorrection(r3.Sub(b, a))
}

func (t *TruncatedOctahedron) SqDist(a, b r3.Vec) float64 {
	d := t.VDist(a, b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Boundary wraps the absolute position the same way VDist wraps a
// displacement from the origin.
func (t *TruncatedOctahedron) Boundary(p r3.Vec) r3.Vec {
	return t.foldCorrection(p)
}

// Collision approximates the truncated-octahedron wall as the condition
// that the point's own minimum image from the origin equals itself; a
// point requiring correction lies outside the primary cell.
func (t *TruncatedOctahedron) Collision(p r3.Vec) bool {
	return t.foldCorrection(p) != p
}

func (t *TruncatedOctahedron) RandomInside(rng *rand.Rand) r3.Vec {
	for {
		p := r3.Vec{
			X: t.Len * (rng.Float64() - 0.5),
			Y: t.Len * (rng.Float64() - 0.5),
			Z: t.Len * (rng.Float64() - 0.5),
		}
		if !t.Collision(p) {
			return p
		}
	}
}

func (t *TruncatedOctahedron) ScaleVolume(newVol float64) (Scale, error) {
	if newVol <= 0 {
		return Scale{}, errors.New("geometry: scale to non-positive volume")
	}
	f := cbrtPositive(newVol / t.Volume())
	t.Len *= f
	return Scale{Factor: r3.Vec{X: f, Y: f, Z: f}, NewVol: t.Volume()}, nil
}
