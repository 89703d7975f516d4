package energy

import (
	"github.com/sarat-asymmetrica/faunus-mc/internal/bond"
	"github.com/sarat-asymmetrica/faunus-mc/internal/group"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

// Bonded consults the bond table: I2All sums over every (i,j) bond
// involving i, GInternal sums over bonds fully inside g (spec.md §4.6).
type Bonded struct {
	Base
	Table *bond.Table
}

func (Bonded) Name() string { return "bonded" }

func (b Bonded) pairEnergy(sp *space.Space, st *space.State, i, j int) float64 {
	pot, ok := b.Table.Get(i, j)
	if !ok {
		return 0
	}
	r2 := sp.Geo.SqDist(st.Particles[i].Pos, st.Particles[j].Pos)
	return pot.Energy(r2)
}

func (b Bonded) I2I(sp *space.Space, st *space.State, i, j int) float64 {
	return b.pairEnergy(sp, st, i, j)
}

func (b Bonded) I2All(sp *space.Space, st *space.State, i int) float64 {
	total := 0.0
	for _, j := range b.Table.Neighbors(i) {
		total += b.pairEnergy(sp, st, i, j)
	}
	return total
}

func (b Bonded) I2G(sp *space.Space, st *space.State, g *group.Group, i int) float64 {
	total := 0.0
	for _, j := range b.Table.Neighbors(i) {
		if j == i || !groupOf(g, j) {
			continue
		}
		total += b.pairEnergy(sp, st, i, j)
	}
	return total
}

func (b Bonded) GInternal(sp *space.Space, st *space.State, g *group.Group) float64 {
	total := 0.0
	off, end := g.ToIndex()
	for i := off; i < end; i++ {
		for _, j := range b.Table.Neighbors(i) {
			if j > i && groupOf(g, j) {
				total += b.pairEnergy(sp, st, i, j)
			}
		}
	}
	return total
}

func (b Bonded) IInternal(sp *space.Space, st *space.State, i int) float64 {
	total := 0.0
	for _, j := range b.Table.Neighbors(i) {
		if j > i {
			total += b.pairEnergy(sp, st, i, j)
		}
	}
	return total
}
