package energy

import (
	"github.com/sarat-asymmetrica/faunus-mc/internal/group"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

// Hamiltonian is the sum of registered energy terms; every query is
// dispatched to all terms and the results summed (spec.md §4.7).
type Hamiltonian struct {
	Terms []Term
}

func New(terms ...Term) *Hamiltonian { return &Hamiltonian{Terms: terms} }

func (h *Hamiltonian) P2P(sp *space.Space, a, b particle.Particle) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.P2P(sp, a, b)
	}
	return total
}

func (h *Hamiltonian) All2P(sp *space.Space, st *space.State, a particle.Particle) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.All2P(sp, st, a)
	}
	return total
}

func (h *Hamiltonian) All2All(sp *space.Space, st *space.State) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.All2All(sp, st)
	}
	return total
}

func (h *Hamiltonian) I2I(sp *space.Space, st *space.State, i, j int) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.I2I(sp, st, i, j)
	}
	return total
}

func (h *Hamiltonian) I2G(sp *space.Space, st *space.State, g *group.Group, i int) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.I2G(sp, st, g, i)
	}
	return total
}

func (h *Hamiltonian) I2All(sp *space.Space, st *space.State, i int) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.I2All(sp, st, i)
	}
	return total
}

func (h *Hamiltonian) G2G(sp *space.Space, st *space.State, g1, g2 *group.Group) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.G2G(sp, st, g1, g2)
	}
	return total
}

func (h *Hamiltonian) G2All(sp *space.Space, st *space.State, g *group.Group) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.G2All(sp, st, g)
	}
	return total
}

func (h *Hamiltonian) IExternal(sp *space.Space, st *space.State, i int) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.IExternal(sp, st, i)
	}
	return total
}

func (h *Hamiltonian) GExternal(sp *space.Space, st *space.State, g *group.Group) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.GExternal(sp, st, g)
	}
	return total
}

func (h *Hamiltonian) External(sp *space.Space, st *space.State) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.External(sp, st)
	}
	return total
}

func (h *Hamiltonian) IInternal(sp *space.Space, st *space.State, i int) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.IInternal(sp, st, i)
	}
	return total
}

func (h *Hamiltonian) GInternal(sp *space.Space, st *space.State, g *group.Group) float64 {
	total := 0.0
	for _, t := range h.Terms {
		total += t.GInternal(sp, st, g)
	}
	return total
}

// SystemEnergy recomputes the total energy of st from scratch, summing
// every group's internal energy, every distinct group pair's g2g energy,
// each group's external energy, and the Hamiltonian-wide External() terms
// once. Used by the MC loop's drift audit (spec.md §4.9).
func (h *Hamiltonian) SystemEnergy(sp *space.Space, st *space.State) float64 {
	total := h.External(sp, st)
	for i, g := range st.Groups {
		total += h.GInternal(sp, st, g)
		total += h.GExternal(sp, st, g)
		for j := i + 1; j < len(st.Groups); j++ {
			total += h.G2G(sp, st, g, st.Groups[j])
		}
	}
	return total
}

// SetVolume propagates a volume change to every term that caches
// geometry-derived state, via Space's registered volume-scaler list
// (spec.md §4.4 expansion). Terms needing notification should register
// through sp.RegisterVolumeScaler when constructed.
func (h *Hamiltonian) SetVolume(sp *space.Space, newVol float64) error {
	sc, err := sp.ScaleVolume(newVol)
	if err != nil {
		return err
	}
	sp.CommitVolume(sc)
	return nil
}
