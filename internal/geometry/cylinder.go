package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Cylinder is a non-periodic cylindrical container: radius in xy, length
// along z, centered on the origin.
type Cylinder struct {
	Radius float64
	Length float64
}

func NewCylinder(radius, length float64) *Cylinder {
	return &Cylinder{Radius: radius, Length: length}
}

func (c *Cylinder) Volume() float64 { return math.Pi * c.Radius * c.Radius * c.Length }

func (c *Cylinder) String() string {
	return fmt.Sprintf("cylinder(r=%.3f,l=%.3f)", c.Radius, c.Length)
}

func (c *Cylinder) VDist(a, b r3.Vec) r3.Vec { return r3.Sub(b, a) }

func (c *Cylinder) SqDist(a, b r3.Vec) float64 {
	d := c.VDist(a, b)
	return r3.Dot(d, d)
}

func (c *Cylinder) Boundary(p r3.Vec) r3.Vec { return p }

func (c *Cylinder) Collision(p r3.Vec) bool {
	if p.Z < -c.Length/2 || p.Z > c.Length/2 {
		return true
	}
	return p.X*p.X+p.Y*p.Y > c.Radius*c.Radius
}

func (c *Cylinder) RandomInside(rng *rand.Rand) r3.Vec {
	for {
		p := r3.Vec{
			X: 2 * c.Radius * (rng.Float64() - 0.5),
			Y: 2 * c.Radius * (rng.Float64() - 0.5),
			Z: c.Length * (rng.Float64() - 0.5),
		}
		if !c.Collision(p) {
			return p
		}
	}
}

func (c *Cylinder) ScaleVolume(newVol float64) (Scale, error) {
	if newVol <= 0 {
		return Scale{}, errors.New("geometry: scale to non-positive volume")
	}
	ratio := newVol / c.Volume()
	// Scale the radius only, keeping length fixed: area (and hence volume)
	// scales as the square of the radius factor.
	f := math.Sqrt(ratio)
	c.Radius *= f
	return Scale{Factor: r3.Vec{X: f, Y: f, Z: 1}, NewVol: c.Volume()}, nil
}
