package geometry

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Slit is periodic in x and y, bounded by two hard walls in z at +/- Lz/2
// (a slab/membrane geometry).
type Slit struct {
	Lx, Ly, Lz float64
}

func NewSlit(lx, ly, lz float64) *Slit { return &Slit{Lx: lx, Ly: ly, Lz: lz} }

func (s *Slit) Volume() float64 { return s.Lx * s.Ly * s.Lz }

func (s *Slit) String() string { return fmt.Sprintf("slit(%.3f,%.3f,%.3f)", s.Lx, s.Ly, s.Lz) }

func (s *Slit) VDist(a, b r3.Vec) r3.Vec {
	return r3.Vec{
		X: minimumImage(b.X-a.X, s.Lx, true),
		Y: minimumImage(b.Y-a.Y, s.Ly, true),
		Z: b.Z - a.Z,
	}
}

func (s *Slit) SqDist(a, b r3.Vec) float64 {
	d := s.VDist(a, b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

func (s *Slit) Boundary(p r3.Vec) r3.Vec {
	wrap := func(x, l float64) float64 { return x - l*round(x/l) }
	return r3.Vec{X: wrap(p.X, s.Lx), Y: wrap(p.Y, s.Ly), Z: p.Z}
}

func (s *Slit) Collision(p r3.Vec) bool {
	return p.Z < -s.Lz/2 || p.Z > s.Lz/2
}

func (s *Slit) RandomInside(rng *rand.Rand) r3.Vec {
	return r3.Vec{
		X: s.Lx * (rng.Float64() - 0.5),
		Y: s.Ly * (rng.Float64() - 0.5),
		Z: s.Lz * (rng.Float64() - 0.5),
	}
}

func (s *Slit) ScaleVolume(newVol float64) (Scale, error) {
	if newVol <= 0 {
		return Scale{}, errors.New("geometry: scale to non-positive volume")
	}
	ratio := newVol / s.Volume()
	f := sqrtPositive(ratio)
	s.Lx *= f
	s.Ly *= f
	return Scale{Factor: r3.Vec{X: f, Y: f, Z: 1}, NewVol: s.Volume()}, nil
}
