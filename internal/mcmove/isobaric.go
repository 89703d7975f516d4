package mcmove

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sarat-asymmetrica/faunus-mc/internal/energy"
	"github.com/sarat-asymmetrica/faunus-mc/internal/geometry"
	"github.com/sarat-asymmetrica/faunus-mc/internal/rng"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

// Isobaric implements the NPT volume move: draw a log-volume displacement,
// scale the geometry and every group's positions, and accept against the
// full system energy including the P·V − (N+1)·ln V bias (spec.md §4.8).
//
// Geometry is shared between trial and committed (space.Space.ScaleVolume
// mutates it in place), so the committed-state energy used for ΔU must be
// captured before the scale is applied; Isobaric snapshots it in uOld
// during TrialMove rather than recomputing it later under the wrong
// volume. Because that snapshot needs the Hamiltonian, Isobaric holds its
// own reference to it (set via NewIsobaric), unlike moves that only see
// the Hamiltonian in EnergyChange.
type Isobaric struct {
	H        *energy.Hamiltonian
	Dv       float64
	Fraction float64

	oldVol float64
	uOld   float64
	scale  geometry.Scale
}

func NewIsobaric(h *energy.Hamiltonian, dv float64) *Isobaric {
	return &Isobaric{H: h, Dv: dv, Fraction: 1}
}

func (m *Isobaric) Name() string        { return "isobaric" }
func (m *Isobaric) RunFraction() float64 { return m.Fraction }

func (m *Isobaric) TrialMove(sp *space.Space, r *rng.Source) {
	m.oldVol = sp.Geo.Volume()
	m.uOld = m.H.SystemEnergy(sp, &sp.Committed)

	delta := m.Dv * r.Half()
	newVol := math.Exp(math.Log(m.oldVol) + delta)

	sc, err := sp.ScaleVolume(newVol)
	if err != nil {
		// leave committed/trial untouched; EnergyChange sees a unit scale
		// and ΔU = 0, so the attempt is accepted as a no-op.
		m.scale = geometry.Scale{Factor: r3.Vec{X: 1, Y: 1, Z: 1}, NewVol: m.oldVol}
		return
	}
	m.scale = sc
	for _, g := range sp.Trial.Groups {
		g.ScaleVolume(sc.Factor, sp.Geo.Boundary)
	}
}

// EnergyChange recomputes the full trial system energy under the new,
// already-scaled geometry and compares it to the pre-scale snapshot —
// together these equal spec.md §4.8's (U'_nb + P·V' − (N+1)·ln V') minus
// (U_nb + P·V − (N+1)·ln V), since ExternalPressure.External plus every
// group's GExternal sum to exactly P·V − (N+1)·ln V across the whole
// system (spec.md §4.6).
func (m *Isobaric) EnergyChange(sp *space.Space, h *energy.Hamiltonian) float64 {
	uNew := h.SystemEnergy(sp, &sp.Trial)
	return uNew - m.uOld
}

func (m *Isobaric) Accept(sp *space.Space) {
	for i := range sp.Trial.Groups {
		_ = sp.SyncGroup(i)
	}
	sp.CommitVolume(m.scale)
}

func (m *Isobaric) Reject(sp *space.Space) {
	if _, err := sp.ScaleVolume(m.oldVol); err == nil {
		for i := range sp.Trial.Groups {
			_ = sp.RevertGroup(i)
		}
	}
}
