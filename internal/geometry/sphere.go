package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere is a non-periodic spherical container of radius Radius, centered
// on the origin.
type Sphere struct {
	Radius float64
}

func NewSphere(radius float64) *Sphere { return &Sphere{Radius: radius} }

func (s *Sphere) Volume() float64 { return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius }

func (s *Sphere) String() string { return fmt.Sprintf("sphere(r=%.3f)", s.Radius) }

// VDist has no periodic images in a sphere: the displacement is exact.
func (s *Sphere) VDist(a, b r3.Vec) r3.Vec { return r3.Sub(b, a) }

func (s *Sphere) SqDist(a, b r3.Vec) float64 {
	d := s.VDist(a, b)
	return r3.Dot(d, d)
}

// Boundary is a no-op: there is no periodic image to fold into.
func (s *Sphere) Boundary(p r3.Vec) r3.Vec { return p }

func (s *Sphere) Collision(p r3.Vec) bool {
	r2 := p.X*p.X + p.Y*p.Y + p.Z*p.Z
	return r2 > s.Radius*s.Radius
}

func (s *Sphere) RandomInside(rng *rand.Rand) r3.Vec {
	for {
		p := r3.Vec{
			X: 2 * s.Radius * (rng.Float64() - 0.5),
			Y: 2 * s.Radius * (rng.Float64() - 0.5),
			Z: 2 * s.Radius * (rng.Float64() - 0.5),
		}
		if !s.Collision(p) {
			return p
		}
	}
}

func (s *Sphere) ScaleVolume(newVol float64) (Scale, error) {
	if newVol <= 0 {
		return Scale{}, errors.New("geometry: scale to non-positive volume")
	}
	ratio := newVol / s.Volume()
	f := cbrtPositive(ratio)
	s.Radius *= f
	return Scale{Factor: r3.Vec{X: f, Y: f, Z: f}, NewVol: s.Volume()}, nil
}
