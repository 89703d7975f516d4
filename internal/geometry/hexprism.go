package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// HexagonalPrism is a regular hexagonal cross-section (periodic in xy under
// the triangular lattice dual to the hexagon) extruded along z (periodic).
// Circumradius is the center-to-vertex distance of the hexagon.
type HexagonalPrism struct {
	Circumradius float64
	Len          float64 // height along z

	a1, a2 r3.Vec // triangular lattice basis generating the hex Voronoi cell
}

func NewHexagonalPrism(circumradius, length float64) *HexagonalPrism {
	h := &HexagonalPrism{Circumradius: circumradius, Len: length}
	h.rebuildLattice()
	return h
}

func (h *HexagonalPrism) rebuildLattice() {
	s := math.Sqrt(3) * h.Circumradius
	h.a1 = r3.Vec{X: s, Y: 0}
	h.a2 = r3.Vec{X: s * 0.5, Y: s * math.Sqrt(3) / 2}
}

func (h *HexagonalPrism) apothem() float64 { return h.Circumradius * math.Sqrt(3) / 2 }

func (h *HexagonalPrism) Volume() float64 {
	area := 3 * math.Sqrt(3) / 2 * h.Circumradius * h.Circumradius
	return area * h.Len
}

func (h *HexagonalPrism) String() string {
	return fmt.Sprintf("hexprism(R=%.3f,l=%.3f)", h.Circumradius, h.Len)
}

// foldXY folds the planar component (x,y) to the nearest point of the
// triangular lattice spanned by a1,a2 and returns the correction vector
// (the lattice translation subtracted). Rounding the oblique lattice
// coordinates gives a corner of the lattice cell that holds the point, but
// not always the nearest one, so that rounded point and its eight lattice
// neighbours are compared and the closest is used (the Voronoi cell of a
// triangular lattice is exactly the regular hexagon).
func (h *HexagonalPrism) foldXY(x, y float64) (float64, float64) {
	// Solve (x,y) = u*a1 + v*a2 for (u,v), then round to a nearby lattice point.
	det := h.a1.X*h.a2.Y - h.a1.Y*h.a2.X
	u := (x*h.a2.Y - y*h.a2.X) / det
	v := (h.a1.X*y - h.a1.Y*x) / det
	uw := round(u)
	vw := round(v)
	bx, by := x-(uw*h.a1.X+vw*h.a2.X), y-(uw*h.a1.Y+vw*h.a2.Y)
	best := bx*bx + by*by
	for du := -1.0; du <= 1; du++ {
		for dv := -1.0; dv <= 1; dv++ {
			cx := (uw+du)*h.a1.X + (vw+dv)*h.a2.X
			cy := (uw+du)*h.a1.Y + (vw+dv)*h.a2.Y
			if d := (x-cx)*(x-cx) + (y-cy)*(y-cy); d < best {
				best, bx, by = d, x-cx, y-cy
			}
		}
	}
	return bx, by
}

func (h *HexagonalPrism) VDist(a, b r3.Vec) r3.Vec {
	dx, dy := h.foldXY(b.X-a.X, b.Y-a.Y)
	return r3.Vec{X: dx, Y: dy, Z: minimumImage(b.Z-a.Z, h.Len, true)}
}

func (h *HexagonalPrism) SqDist(a, b r3.Vec) float64 {
	d := h.VDist(a, b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

func (h *HexagonalPrism) Boundary(p r3.Vec) r3.Vec {
	dx, dy := h.foldXY(p.X, p.Y)
	z := p.Z - h.Len*round(p.Z/h.Len)
	return r3.Vec{X: dx, Y: dy, Z: z}
}

// Collision uses the three-axis apothem test for a regular hexagon:
// a point is inside iff its projection onto each of three axes 60° apart
// does not exceed the apothem.
func (h *HexagonalPrism) Collision(p r3.Vec) bool {
	if p.Z < -h.Len/2 || p.Z > h.Len/2 {
		return true
	}
	ap := h.apothem()
	for _, theta := range [3]float64{0, math.Pi / 3, 2 * math.Pi / 3} {
		proj := p.X*math.Cos(theta) + p.Y*math.Sin(theta)
		if math.Abs(proj) > ap {
			return true
		}
	}
	return false
}

func (h *HexagonalPrism) RandomInside(rng *rand.Rand) r3.Vec {
	for {
		p := r3.Vec{
			X: 2 * h.Circumradius * (rng.Float64() - 0.5),
			Y: 2 * h.Circumradius * (rng.Float64() - 0.5),
			Z: h.Len * (rng.Float64() - 0.5),
		}
		if !h.Collision(p) {
			return p
		}
	}
}

func (h *HexagonalPrism) ScaleVolume(newVol float64) (Scale, error) {
	if newVol <= 0 {
		return Scale{}, errors.New("geometry: scale to non-positive volume")
	}
	f := cbrtPositive(newVol / h.Volume())
	h.Circumradius *= f
	h.Len *= f
	h.rebuildLattice()
	return Scale{Factor: r3.Vec{X: f, Y: f, Z: f}, NewVol: h.Volume()}, nil
}
