package mcmove

import (
	"math"

	"github.com/sarat-asymmetrica/faunus-mc/internal/energy"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
	"github.com/sarat-asymmetrica/faunus-mc/internal/rng"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

// GrandCanonical implements the salt-bath move (gcbath, spec.md §4.8):
// with probability ½ attempt inserting a neutral cation/anion pair at
// random positions, else deleting one existing ion of each species.
// Acceptance uses the grand-canonical criterion min(1, κ·exp(−ΔU)) with
// κ derived from both species' chemical activities and current counts.
//
// The enrolled salt group must be the last group in the array (Space's
// AppendParticle/RemoveParticle precondition). Group.FindID already
// provides the "active indices of a given atom type" bookkeeping the
// original's AtomTracker names — no separate tracker is needed.
//
// Salt ions carry no bonded terms, so the exact arena position a deleted
// ion is later re-inserted at on a rejected attempt is irrelevant to any
// other energy term; only the active count and per-particle values matter
// (spec.md §4.3's own admission that deactivate/reactivate order is not
// significant applies equally here).
type GrandCanonical struct {
	SaltGroupIdx             int
	CationID, AnionID        int
	CationCharge, AnionCharge float64
	ActivityCation, ActivityAnion float64 // number density in Å^-3 (config converts it from mM)
	Fraction                 float64

	isInsertion                bool
	skip                       bool
	insCation, insAnion        particle.Particle
	delLocalHi, delLocalLo     int
	delRemovedHi, delRemovedLo particle.Particle
	nCatBefore, nAnBefore      int
}

func NewGrandCanonical(saltGroupIdx, cationID, anionID int, cationQ, anionQ, aCation, aAnion float64) *GrandCanonical {
	return &GrandCanonical{
		SaltGroupIdx: saltGroupIdx, CationID: cationID, AnionID: anionID,
		CationCharge: cationQ, AnionCharge: anionQ,
		ActivityCation: aCation, ActivityAnion: aAnion, Fraction: 1,
	}
}

func (m *GrandCanonical) Name() string        { return "grand-canonical-salt" }
func (m *GrandCanonical) RunFraction() float64 { return m.Fraction }

func (m *GrandCanonical) TrialMove(sp *space.Space, r *rng.Source) {
	m.skip = false
	g := sp.Trial.Groups[m.SaltGroupIdx]
	m.nCatBefore = len(g.FindID(m.CationID))
	m.nAnBefore = len(g.FindID(m.AnionID))
	m.isInsertion = r.Uniform01() < 0.5

	if m.isInsertion {
		posC := sp.Geo.RandomInside(r.R)
		posA := sp.Geo.RandomInside(r.R)
		m.insCation = particle.New(posC, m.CationCharge, m.CationID)
		m.insAnion = particle.New(posA, m.AnionCharge, m.AnionID)
		_ = sp.TrialInsert(m.SaltGroupIdx, m.insCation)
		_ = sp.TrialInsert(m.SaltGroupIdx, m.insAnion)
		return
	}

	catAbs := g.FindID(m.CationID)
	anAbs := g.FindID(m.AnionID)
	if len(catAbs) == 0 || len(anAbs) == 0 {
		m.skip = true
		return
	}
	cat := catAbs[r.Int(len(catAbs))]
	an := anAbs[r.Int(len(anAbs))]
	hi, lo := cat, an
	if lo > hi {
		hi, lo = lo, hi
	}
	off, _ := g.ToIndex()
	m.delLocalHi = hi - off
	m.delLocalLo = lo - off
	m.delRemovedHi, _ = sp.TrialRemove(m.SaltGroupIdx, m.delLocalHi)
	m.delRemovedLo, _ = sp.TrialRemove(m.SaltGroupIdx, m.delLocalLo)
}

func (m *GrandCanonical) EnergyChange(sp *space.Space, h *energy.Hamiltonian) float64 {
	if m.skip {
		return 0 // no candidates to delete; treated as a no-op accepted attempt
	}
	v := sp.Geo.Volume()

	if m.isInsertion {
		g := sp.Trial.Groups[m.SaltGroupIdx]
		_, end := g.ToIndex()
		catAbs := end - 2 // the two particles TrialMove just appended
		anAbs := end - 1

		du := h.I2All(sp, &sp.Trial, catAbs) + h.I2All(sp, &sp.Trial, anAbs) - h.I2I(sp, &sp.Trial, catAbs, anAbs)
		lnKappa := 2*math.Log(v) + math.Log(m.ActivityCation) + math.Log(m.ActivityAnion) -
			math.Log(float64(m.nCatBefore+1)) - math.Log(float64(m.nAnBefore+1))
		return du - lnKappa
	}

	du := -(h.All2P(sp, &sp.Trial, m.delRemovedHi) + h.All2P(sp, &sp.Trial, m.delRemovedLo) +
		h.P2P(sp, m.delRemovedHi, m.delRemovedLo))
	lnKappa := math.Log(float64(m.nCatBefore)) + math.Log(float64(m.nAnBefore)) -
		2*math.Log(v) - math.Log(m.ActivityCation) - math.Log(m.ActivityAnion)
	return du - lnKappa
}

func (m *GrandCanonical) Accept(sp *space.Space) {
	if m.skip {
		return
	}
	if m.isInsertion {
		_ = sp.CommitInsert(m.SaltGroupIdx, m.insCation)
		_ = sp.CommitInsert(m.SaltGroupIdx, m.insAnion)
		return
	}
	_ = sp.CommitRemove(m.SaltGroupIdx, m.delLocalHi)
	_ = sp.CommitRemove(m.SaltGroupIdx, m.delLocalLo)
}

func (m *GrandCanonical) Reject(sp *space.Space) {
	if m.skip {
		return
	}
	if m.isInsertion {
		_ = sp.RevertInsert(m.SaltGroupIdx)
		_ = sp.RevertInsert(m.SaltGroupIdx)
		return
	}
	_ = sp.RevertRemove(m.SaltGroupIdx, m.delRemovedLo)
	_ = sp.RevertRemove(m.SaltGroupIdx, m.delRemovedHi)
}
