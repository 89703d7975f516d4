package geometry

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// ScalePolicy controls which axes ScaleVolume touches, supporting NPT in one,
// two or three dimensions.
type ScalePolicy int

const (
	ScaleIsotropic ScalePolicy = iota // all three axes
	ScaleXY                           // xy only, z fixed (membrane-like NPT)
	ScaleZ                            // z only, xy fixed
)

// Cuboid is a rectangular box, periodic on the axes listed in Periodic.
type Cuboid struct {
	Len      r3.Vec  // side lengths Lx, Ly, Lz
	Periodic [3]bool // periodicity per axis
	Policy   ScalePolicy
}

// NewCuboid returns a fully periodic cubic/orthorhombic box.
func NewCuboid(lx, ly, lz float64) *Cuboid {
	return &Cuboid{Len: r3.Vec{X: lx, Y: ly, Z: lz}, Periodic: [3]bool{true, true, true}}
}

func (c *Cuboid) Volume() float64 { return c.Len.X * c.Len.Y * c.Len.Z }

func (c *Cuboid) String() string {
	return fmt.Sprintf("cuboid(%.3f,%.3f,%.3f)", c.Len.X, c.Len.Y, c.Len.Z)
}

// minimumImage folds d onto [-L/2, L/2] along one axis using round-to-
// nearest, per spec.md §4.1: d - L*round(d/L).
func minimumImage(d, l float64, periodic bool) float64 {
	if !periodic || l == 0 {
		return d
	}
	return d - l*round(d/l)
}

func (c *Cuboid) VDist(a, b r3.Vec) r3.Vec {
	return r3.Vec{
		X: minimumImage(b.X-a.X, c.Len.X, c.Periodic[0]),
		Y: minimumImage(b.Y-a.Y, c.Len.Y, c.Periodic[1]),
		Z: minimumImage(b.Z-a.Z, c.Len.Z, c.Periodic[2]),
	}
}

func (c *Cuboid) SqDist(a, b r3.Vec) float64 {
	d := c.VDist(a, b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

func (c *Cuboid) Boundary(p r3.Vec) r3.Vec {
	wrap := func(x, l float64, periodic bool) float64 {
		if !periodic || l == 0 {
			return x
		}
		return x - l*round(x/l)
	}
	return r3.Vec{
		X: wrap(p.X, c.Len.X, c.Periodic[0]),
		Y: wrap(p.Y, c.Len.Y, c.Periodic[1]),
		Z: wrap(p.Z, c.Len.Z, c.Periodic[2]),
	}
}

// Collision is always false for a fully periodic cuboid; a non-periodic
// axis is treated as a hard wall at +/- L/2.
func (c *Cuboid) Collision(p r3.Vec) bool {
	half := r3.Vec{X: c.Len.X / 2, Y: c.Len.Y / 2, Z: c.Len.Z / 2}
	if !c.Periodic[0] && (p.X < -half.X || p.X > half.X) {
		return true
	}
	if !c.Periodic[1] && (p.Y < -half.Y || p.Y > half.Y) {
		return true
	}
	if !c.Periodic[2] && (p.Z < -half.Z || p.Z > half.Z) {
		return true
	}
	return false
}

func (c *Cuboid) RandomInside(rng *rand.Rand) r3.Vec {
	return r3.Vec{
		X: c.Len.X * (rng.Float64() - 0.5),
		Y: c.Len.Y * (rng.Float64() - 0.5),
		Z: c.Len.Z * (rng.Float64() - 0.5),
	}
}

func (c *Cuboid) ScaleVolume(newVol float64) (Scale, error) {
	if newVol <= 0 {
		return Scale{}, errors.New("geometry: scale to non-positive volume")
	}
	oldVol := c.Volume()
	ratio := newVol / oldVol

	var factor r3.Vec
	switch c.Policy {
	case ScaleXY:
		xy := ratio // area scales by ratio since z is fixed
		f := sqrtPositive(xy)
		factor = r3.Vec{X: f, Y: f, Z: 1}
	case ScaleZ:
		factor = r3.Vec{X: 1, Y: 1, Z: ratio}
	default:
		f := cbrtPositive(ratio)
		factor = r3.Vec{X: f, Y: f, Z: f}
	}

	c.Len = r3.Vec{X: c.Len.X * factor.X, Y: c.Len.Y * factor.Y, Z: c.Len.Z * factor.Z}
	return Scale{Factor: factor, NewVol: c.Volume()}, nil
}
