package mcmove

import (
	"math"

	"github.com/sarat-asymmetrica/faunus-mc/internal/energy"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
	"github.com/sarat-asymmetrica/faunus-mc/internal/rng"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

// Titration toggles a titratable site's charge between its protonated and
// deprotonated values, biased by pH − pKa, and couples the flip to an
// insert-or-delete of one paired counter-ion so the system stays
// electroneutral overall (spec.md §4.8): protonating the site raises its
// charge by one unit, so a counter-ion carrying the opposite unit charge is
// inserted to absorb it; deprotonating removes one instead. The counter-ion
// bookkeeping mirrors GrandCanonical's single-species insert/delete, just
// with one ion per attempt instead of a cation/anion pair.
type Titration struct {
	SiteIdx                    int
	ProtonatedQ, DeprotonatedQ float64
	PKa, PH                    float64
	Fraction                   float64

	CounterIonGroupIdx int
	CounterIonID       int
	CounterIonCharge   float64
	CounterIonActivity float64 // number density in Å^-3 (config converts it from mM)

	protonating bool
	oldCharge   float64
	inserting   bool
	skip        bool
	insIon      particle.Particle
	delLocal    int
	delRemoved  particle.Particle
	nIonBefore  int
}

func NewTitration(siteIdx int, protonatedQ, deprotonatedQ, pKa, pH float64, counterIonGroupIdx, counterIonID int, counterIonCharge, counterIonActivity float64) *Titration {
	return &Titration{
		SiteIdx: siteIdx, ProtonatedQ: protonatedQ, DeprotonatedQ: deprotonatedQ, PKa: pKa, PH: pH, Fraction: 1,
		CounterIonGroupIdx: counterIonGroupIdx, CounterIonID: counterIonID,
		CounterIonCharge: counterIonCharge, CounterIonActivity: counterIonActivity,
	}
}

func (m *Titration) Name() string        { return "titration" }
func (m *Titration) RunFraction() float64 { return m.Fraction }

func (m *Titration) TrialMove(sp *space.Space, r *rng.Source) {
	m.skip = false
	cur := sp.Trial.Particles[m.SiteIdx].Charge
	m.oldCharge = cur
	m.protonating = math.Abs(cur-m.DeprotonatedQ) < math.Abs(cur-m.ProtonatedQ)
	m.inserting = m.protonating

	g := sp.Trial.Groups[m.CounterIonGroupIdx]
	ionAbs := g.FindID(m.CounterIonID)
	m.nIonBefore = len(ionAbs)

	if !m.inserting && len(ionAbs) == 0 {
		// deprotonating needs an existing counter-ion to remove; none
		// present, so the attempt is a no-op accepted trial.
		m.skip = true
		return
	}

	if m.protonating {
		sp.Trial.Particles[m.SiteIdx].Charge = m.ProtonatedQ
	} else {
		sp.Trial.Particles[m.SiteIdx].Charge = m.DeprotonatedQ
	}

	if m.inserting {
		pos := sp.Geo.RandomInside(r.R)
		m.insIon = particle.New(pos, m.CounterIonCharge, m.CounterIonID)
		_ = sp.TrialInsert(m.CounterIonGroupIdx, m.insIon)
		return
	}
	idx := ionAbs[r.Int(len(ionAbs))]
	off, _ := g.ToIndex()
	m.delLocal = idx - off
	m.delRemoved, _ = sp.TrialRemove(m.CounterIonGroupIdx, m.delLocal)
}

func (m *Titration) EnergyChange(sp *space.Space, h *energy.Hamiltonian) float64 {
	if m.skip {
		return 0
	}
	newU := h.I2All(sp, &sp.Trial, m.SiteIdx)
	oldU := h.I2All(sp, &sp.Committed, m.SiteIdx)
	duSite := newU - oldU

	bias := math.Ln10 * (m.PKa - m.PH)
	if !m.protonating {
		bias = -bias
	}

	v := sp.Geo.Volume()
	if m.inserting {
		g := sp.Trial.Groups[m.CounterIonGroupIdx]
		_, end := g.ToIndex()
		ionAbs := end - 1 // the ion TrialMove just appended
		duIon := h.I2All(sp, &sp.Trial, ionAbs)
		lnKappa := math.Log(v) + math.Log(m.CounterIonActivity) - math.Log(float64(m.nIonBefore+1))
		return duSite + duIon - bias - lnKappa
	}

	duIon := -h.All2P(sp, &sp.Trial, m.delRemoved)
	lnKappa := math.Log(float64(m.nIonBefore)) - math.Log(v) - math.Log(m.CounterIonActivity)
	return duSite + duIon - bias - lnKappa
}

func (m *Titration) Accept(sp *space.Space) {
	sp.SyncIndices([]int{m.SiteIdx})
	if m.skip {
		return
	}
	if m.inserting {
		_ = sp.CommitInsert(m.CounterIonGroupIdx, m.insIon)
		return
	}
	_ = sp.CommitRemove(m.CounterIonGroupIdx, m.delLocal)
}

func (m *Titration) Reject(sp *space.Space) {
	sp.RevertIndices([]int{m.SiteIdx})
	if m.skip {
		return
	}
	if m.inserting {
		_ = sp.RevertInsert(m.CounterIonGroupIdx)
		return
	}
	_ = sp.RevertRemove(m.CounterIonGroupIdx, m.delRemoved)
}
