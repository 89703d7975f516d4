// Package space owns the particle array and the groups partitioning it, in
// two shadow copies — committed (the accepted simulation state) and trial
// (the shadow a move mutates before Metropolis decides its fate).
//
// Both states share the arena-of-groups model from the group package: each
// State owns one particle slice, and every Group's Arena field points at
// that slice (spec.md §9 Design Notes — a single owning arena, no iterator
// relocation). Sync/Revert copy the touched index range between the two
// states; nothing is ever rebound.
package space

import (
	"errors"
	"fmt"

	"github.com/sarat-asymmetrica/faunus-mc/internal/atomtable"
	"github.com/sarat-asymmetrica/faunus-mc/internal/geometry"
	"github.com/sarat-asymmetrica/faunus-mc/internal/group"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
)

// State is one shadow (trial or committed) of the simulation: a particle
// arena and the groups partitioning it.
type State struct {
	Particles []particle.Particle
	Groups    []*group.Group
}

// newGroup appends a new Group to st bound to st's own arena pointer.
func (st *State) newGroup(particles []particle.Particle, meta group.Meta, extraCapacity int) *group.Group {
	offset := len(st.Particles)
	st.Particles = append(st.Particles, particles...)
	for i := 0; i < extraCapacity; i++ {
		st.Particles = append(st.Particles, particle.Particle{})
	}
	g := &group.Group{
		Arena:  &st.Particles,
		Offset: offset,
		End:    offset + len(particles),
		CapEnd: offset + len(particles) + extraCapacity,
		Meta:   meta,
	}
	st.Groups = append(st.Groups, g)
	return g
}

// Space is the owner of the committed and trial States plus the active
// Geometry.
type Space struct {
	Atoms *atomtable.Table
	Geo   geometry.Geometry

	Committed State
	Trial     State

	scaleObservers []func(geometry.Scale)
}

// New returns an empty Space over the given geometry and atom table.
func New(geo geometry.Geometry, atoms *atomtable.Table) *Space {
	return &Space{Geo: geo, Atoms: atoms}
}

// PushGroup appends a new group, identically, to both committed and trial
// states, and returns its index. extraCapacity reserves inactive slots for
// later Activate calls without reallocating the arena.
func (s *Space) PushGroup(particles []particle.Particle, meta group.Meta, extraCapacity int) int {
	s.Committed.newGroup(clone(particles), meta, extraCapacity)
	s.Trial.newGroup(clone(particles), meta, extraCapacity)
	return len(s.Committed.Groups) - 1
}

func clone(in []particle.Particle) []particle.Particle {
	out := make([]particle.Particle, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// RegisterVolumeScaler registers a callback invoked whenever CommitVolume
// accepts a new volume (e.g. an energy term that caches geometry-derived
// cutoffs).
func (s *Space) RegisterVolumeScaler(f func(geometry.Scale)) {
	s.scaleObservers = append(s.scaleObservers, f)
}

// SyncIndices copies committed[idx] = trial[idx] for every index in idx —
// used after an accepted move that only touched individual particle
// positions (ParticleTranslation).
func (s *Space) SyncIndices(idx []int) {
	for _, i := range idx {
		s.Committed.Particles[i] = s.Trial.Particles[i].Clone()
	}
}

// RevertIndices copies trial[idx] = committed[idx] for every index in idx —
// used after a rejected move.
func (s *Space) RevertIndices(idx []int) {
	for _, i := range idx {
		s.Trial.Particles[i] = s.Committed.Particles[i].Clone()
	}
}

// SyncGroup copies a whole group's reserved range, bounds and metadata from
// trial into committed — used after an accepted move that changed a
// group's positions or CM (RotateGroup, Isobaric, ClusterTranslation).
func (s *Space) SyncGroup(gIdx int) error {
	if gIdx < 0 || gIdx >= len(s.Trial.Groups) {
		return fmt.Errorf("space: group index %d out of range", gIdx)
	}
	tg, cg := s.Trial.Groups[gIdx], s.Committed.Groups[gIdx]
	return tg.CloneInto(cg)
}

// RevertGroup is the mirror of SyncGroup for rejected moves.
func (s *Space) RevertGroup(gIdx int) error {
	if gIdx < 0 || gIdx >= len(s.Committed.Groups) {
		return fmt.Errorf("space: group index %d out of range", gIdx)
	}
	cg, tg := s.Committed.Groups[gIdx], s.Trial.Groups[gIdx]
	return cg.CloneInto(tg)
}

// ScaleVolume applies a volume change to the shared geometry in place; the
// caller (the Isobaric move) is responsible for scaling group positions
// before committing. Call CommitVolume after acceptance to notify any
// registered scale observers.
func (s *Space) ScaleVolume(newVol float64) (geometry.Scale, error) {
	return s.Geo.ScaleVolume(newVol)
}

// CommitVolume notifies registered scale observers that sc has been
// accepted. The geometry itself is mutated in place by ScaleVolume, shared
// between trial and committed since both read the same *Space.Geo — moves
// must restore the prior geometry themselves on rejection (Isobaric does
// this by keeping the pre-move lengths and re-scaling back).
func (s *Space) CommitVolume(sc geometry.Scale) {
	for _, f := range s.scaleObservers {
		f(sc)
	}
}

// ErrNotLastGroup is returned by AppendParticle/RemoveParticle: both
// require the target group to be the last in the array so that no other
// group's index range needs shifting (spec.md §4.8's grand-canonical
// requirement that the enrolled salt group sits at the end).
var ErrNotLastGroup = errors.New("space: group is not last; cannot append/remove without relocating later groups")

// AppendParticle appends p to the end of gIdx's active range in st,
// growing both its End and CapEnd by one. gIdx must name the last group in
// st.
func (st *State) AppendParticle(gIdx int, p particle.Particle) error {
	if gIdx != len(st.Groups)-1 {
		return ErrNotLastGroup
	}
	g := st.Groups[gIdx]
	// Shift any existing inactive tail right by one to make room, then
	// place the new particle at the (old) End, extending both bounds.
	st.Particles = append(st.Particles, particle.Particle{})
	copy(st.Particles[g.End+1:], st.Particles[g.End:len(st.Particles)-1])
	st.Particles[g.End] = p
	g.End++
	g.CapEnd++
	return nil
}

// RemoveParticle deletes the active particle at local offset idx (relative
// to the group's Offset) from gIdx, which must be the last group in st.
// The particle is swapped to the end of the group's active range, that
// slot is cut out, and the arena is physically shortened by one.
func (st *State) RemoveParticle(gIdx, idx int) error {
	if gIdx != len(st.Groups)-1 {
		return ErrNotLastGroup
	}
	g := st.Groups[gIdx]
	abs := g.Offset + idx
	if abs < g.Offset || abs >= g.End {
		return group.ErrOutOfRange
	}
	if err := g.Deactivate(abs, abs+1); err != nil {
		return err
	}
	// Deactivate's swap always leaves the orphaned particle at arena index
	// g.End (the new, post-shrink boundary), regardless of how much
	// reserved inactive capacity follows it. Drop exactly that slot and
	// shift the remaining reserved tail down by one.
	st.Particles = append(st.Particles[:g.End], st.Particles[g.End+1:]...)
	g.CapEnd--
	return nil
}

// TrialInsert appends p to gIdx's active range in the trial state only, so
// a move (GrandCanonical insertion) can evaluate the energy of the
// proposed configuration before deciding to commit it.
func (s *Space) TrialInsert(gIdx int, p particle.Particle) error {
	return s.Trial.AppendParticle(gIdx, p)
}

// CommitInsert mirrors a trial-inserted particle into the committed state,
// keeping both arenas the same shape again. Callers pass the exact
// particle value they inserted into trial (TrialInsert's argument) rather
// than having CommitInsert re-read trial, so the call order is unambiguous
// when a move inserts more than one particle per attempt.
func (s *Space) CommitInsert(gIdx int, p particle.Particle) error {
	return s.Committed.AppendParticle(gIdx, p.Clone())
}

// RevertInsert undoes a rejected TrialInsert by removing the particle it
// added from the trial state.
func (s *Space) RevertInsert(gIdx int) error {
	tg := s.Trial.Groups[gIdx]
	return s.Trial.RemoveParticle(gIdx, tg.Size()-1)
}

// TrialRemove removes the particle at local offset localIdx from gIdx in
// the trial state only, returning a copy of it so a rejected move can
// restore it.
func (s *Space) TrialRemove(gIdx, localIdx int) (particle.Particle, error) {
	tg := s.Trial.Groups[gIdx]
	abs := tg.Offset + localIdx
	if abs < tg.Offset || abs >= tg.End {
		return particle.Particle{}, group.ErrOutOfRange
	}
	removed := (*tg.Arena)[abs].Clone()
	if err := s.Trial.RemoveParticle(gIdx, localIdx); err != nil {
		return particle.Particle{}, err
	}
	return removed, nil
}

// CommitRemove mirrors an accepted TrialRemove into the committed state.
func (s *Space) CommitRemove(gIdx, localIdx int) error {
	return s.Committed.RemoveParticle(gIdx, localIdx)
}

// RevertRemove undoes a rejected TrialRemove by re-appending the removed
// particle to the trial state's group.
func (s *Space) RevertRemove(gIdx int, removed particle.Particle) error {
	return s.Trial.AppendParticle(gIdx, removed)
}
