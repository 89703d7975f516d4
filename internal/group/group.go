// Package group implements Faunus's Group: a contiguous range of particles
// inside a shared arena, with an activation window distinguishing "active"
// members from physically-retained-but-logically-removed ones, plus a
// cached center of mass and identity metadata.
//
// A Group models the original iterator-pair design (spec.md §3/§4.3) as a
// plain offset/length/capacity triple into a single owning arena
// (spec.md §9 Design Notes): there is nothing to relocate when the arena
// grows, and cross-arena copies become an explicit CloneInto rather than an
// iterator rebind.
package group

import (
	"errors"

	"github.com/jinzhu/copier"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
)

// ChargeEpsilon is the tolerance used by the NEUTRAL selector.
const ChargeEpsilon = 1e-9

// Group is a [Offset, End) active window inside capacity [Offset, CapEnd)
// of an arena owned elsewhere (typically a space.Space).
type Group struct {
	Arena *[]particle.Particle // shared owning slice

	Offset int // first index belonging to this group
	End    int // exclusive end of the active range
	CapEnd int // exclusive end of the reserved (active+inactive) range

	Meta
}

// Meta holds the copiable identity/cache fields of a Group, split out so
// CloneInto can hand them to copier.Copy without also touching the
// structural fields (Arena, Offset, End, CapEnd) that must stay bound to
// the destination's own arena.
type Meta struct {
	MoleculeID   int // identity of the molecule type
	Molecular    bool
	Compressible bool // false => rigid-body scaling (molecular groups)
	ConfID       int

	CM r3.Vec // cached center of mass of the active range
}

var (
	// ErrOutOfRange is returned when an operation names indices outside the
	// group's legal bounds.
	ErrOutOfRange = errors.New("group: index out of range")
)

// Size returns the number of active particles.
func (g *Group) Size() int { return g.End - g.Offset }

// Capacity returns the number of active+inactive (reserved) particles.
func (g *Group) Capacity() int { return g.CapEnd - g.Offset }

// Empty reports whether the active range is empty.
func (g *Group) Empty() bool { return g.Size() == 0 }

// Full reports whether every reserved slot is active.
func (g *Group) Full() bool { return g.End == g.CapEnd }

// Active returns the active particles as a slice view into the arena.
func (g *Group) Active() []particle.Particle {
	return (*g.Arena)[g.Offset:g.End]
}

// All returns active+inactive particles (the full reserved range).
func (g *Group) All() []particle.Particle {
	return (*g.Arena)[g.Offset:g.CapEnd]
}

// ToIndex returns the (first, last) offsets of the active range into the
// enclosing arena.
func (g *Group) ToIndex() (int, int) { return g.Offset, g.End }

// Contains reports whether arena index idx belongs to this group — the
// active range, or optionally the full reserved range.
func (g *Group) Contains(idx int, includeInactive bool) bool {
	if includeInactive {
		return idx >= g.Offset && idx < g.CapEnd
	}
	return idx >= g.Offset && idx < g.End
}

// Charge returns the total charge of the active range.
func (g *Group) Charge() float64 {
	total := 0.0
	for _, p := range g.Active() {
		total += p.Charge
	}
	return total
}

// Deactivate logically removes the sub-range [first,last) (arena-relative
// absolute indices) by swapping it with the tail of the active range, then
// shrinking End. Particles in [Offset,first) keep their positions; other
// surviving active particles may be moved to fill the gap, so their order
// is not preserved. The order of the now-inactive tail is not significant,
// but it holds exactly the removed particles. Deactivate(x, x) is a no-op.
func (g *Group) Deactivate(first, last int) error {
	if first == last {
		return nil
	}
	if first < g.Offset || last > g.End || first > last {
		return ErrOutOfRange
	}
	n := last - first
	arena := *g.Arena
	tailStart := g.End - n
	switch {
	case first == tailStart:
		// the range to remove already is the tail: nothing to swap in.
	case tailStart < last:
		// [first,last) overlaps the tail-swap zone without being exactly
		// the tail: the indices in [tailStart,last) belong to the range
		// being removed, not to surviving tail data, so pairing them up
		// for a swap would pull already-removed elements back into the
		// active range. Only arena[last:End] are real survivors outside
		// [first,last); copy them down to close the gap, then place the
		// removed block (saved first) in the new inactive tail.
		removed := append([]particle.Particle(nil), arena[first:last]...)
		copy(arena[first:], arena[last:g.End])
		copy(arena[tailStart:], removed)
	default:
		for i := 0; i < n; i++ {
			arena[first+i], arena[tailStart+i] = arena[tailStart+i], arena[first+i]
		}
	}
	g.End -= n
	g.recomputeCM()
	return nil
}

// Activate restores a contiguous prefix of the inactive region starting at
// the current End; count is the number of slots to reactivate. The
// restored elements' relative order is whatever the inactive tail held —
// no ordering is guaranteed, only that the multiset of contents reappears.
func (g *Group) Activate(count int) error {
	if count < 0 || g.End+count > g.CapEnd {
		return ErrOutOfRange
	}
	g.End += count
	g.recomputeCM()
	return nil
}

// FindID returns the arena indices of active particles with the given atom
// type id — a lazy filtered view, materialized here as a slice since Go has
// no native lazy-iterator idiom as light as a C++ filtered range.
func (g *Group) FindID(typeID int) []int {
	var out []int
	arena := *g.Arena
	for i := g.Offset; i < g.End; i++ {
		if arena[i].ID == typeID {
			out = append(out, i)
		}
	}
	return out
}

// recomputeCM recomputes the (unweighted-by-default) center of mass of the
// active range. Callers needing mass-weighted CM under periodic boundaries
// should use CenterOfMass instead; this cheap version is used after
// structural changes that don't move particles (Activate/Deactivate).
func (g *Group) recomputeCM() {
	if g.Empty() {
		g.CM = r3.Vec{}
		return
	}
	var sum r3.Vec
	for _, p := range g.Active() {
		sum = r3.Add(sum, p.Pos)
	}
	g.CM = r3.Scale(1/float64(g.Size()), sum)
}

// CenterOfMass computes the periodic-aware mass-weighted mean position of
// the active range, per spec.md §3: for molecular groups cm is the
// boundary-aware mean, computed by accumulating displacements from an
// arbitrary reference (the first active particle) so that wrapped
// coordinates don't average incorrectly across a periodic boundary.
func (g *Group) CenterOfMass(mass func(id int) float64, vdist func(a, b r3.Vec) r3.Vec, boundary func(r3.Vec) r3.Vec) r3.Vec {
	active := g.Active()
	if len(active) == 0 {
		return r3.Vec{}
	}
	ref := active[0].Pos
	var wsum, msum float64
	var acc r3.Vec
	for _, p := range active {
		m := mass(p.ID)
		d := vdist(ref, p.Pos) // displacement from ref to p.Pos, nearest image
		acc = r3.Add(acc, r3.Scale(m, d))
		msum += m
		wsum += m
	}
	if msum == 0 {
		msum = 1
	}
	cm := r3.Add(ref, r3.Scale(1/wsum, acc))
	g.CM = boundary(cm)
	return g.CM
}

// Rotate rotates every active particle's position about CM by q, using a
// boundary-aware displacement from CM to each particle before rewrapping,
// and rotates each particle's extended dipole/orientation vectors by the
// same quaternion. Rotate on an empty group is a no-op.
func (g *Group) Rotate(q quat.Number, vdist func(a, b r3.Vec) r3.Vec, boundary func(r3.Vec) r3.Vec) {
	if g.Empty() {
		return
	}
	arena := *g.Arena
	for i := g.Offset; i < g.End; i++ {
		d := vdist(g.CM, arena[i].Pos)
		rotated := rotateVec(q, d)
		arena[i].Pos = boundary(r3.Add(g.CM, rotated))
		if e := arena[i].ExtOrNil(); e != nil {
			e.Rotate(q)
		}
	}
}

func rotateVec(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Translate adds delta to every active particle's position and to CM, then
// rewraps each position through boundary.
func (g *Group) Translate(delta r3.Vec, boundary func(r3.Vec) r3.Vec) {
	arena := *g.Arena
	for i := g.Offset; i < g.End; i++ {
		arena[i].Pos = boundary(r3.Add(arena[i].Pos, delta))
	}
	g.CM = boundary(r3.Add(g.CM, delta))
}

// ScaleVolume applies a container volume change to this group's positions,
// following the policy named by Compressible: an atomic (Compressible)
// group scales every member point directly; a molecular (rigid) group
// scales only its center of mass and rigidly translates every member by
// the resulting cm delta, preserving internal bond lengths and geometry
// (spec.md §4.8 Isobaric move; the scaling policy split is named in the
// geometry package's Scale doc comment but implemented here since it
// needs Group.Translate).
func (g *Group) ScaleVolume(factor r3.Vec, boundary func(r3.Vec) r3.Vec) {
	if g.Empty() {
		return
	}
	if g.Compressible {
		arena := *g.Arena
		for i := g.Offset; i < g.End; i++ {
			p := arena[i].Pos
			arena[i].Pos = boundary(r3.Vec{X: p.X * factor.X, Y: p.Y * factor.Y, Z: p.Z * factor.Z})
		}
		g.recomputeCM()
		return
	}
	oldCM := g.CM
	newCM := boundary(r3.Vec{X: oldCM.X * factor.X, Y: oldCM.Y * factor.Y, Z: oldCM.Z * factor.Z})
	g.Translate(r3.Sub(newCM, oldCM), boundary)
}

// CloneInto deep-copies this group's active+inactive particle contents into
// dst's reserved range. Both groups must already have equal capacity; only
// particle contents are copied through dst's own arena (dst's Arena pointer
// is never rebound), matching the copy-assignment semantics in spec.md
// §4.3. Metadata is copied via copier.Copy, which only reaches exported
// struct fields — exactly Meta's fields, none of which alias the source
// arena, so a shallow copier.Copy is sufficient for them. Particle.Clone is
// used for the particle contents instead of copier because Particle's
// extended record is an unexported pointer that copier's reflection-based
// copy cannot see; Clone is the type's own deep-copy primitive.
func (g *Group) CloneInto(dst *Group) error {
	if g.Capacity() != dst.Capacity() {
		return errors.New("group: CloneInto requires equal capacity")
	}
	if err := copier.Copy(&dst.Meta, &g.Meta); err != nil {
		return err
	}
	src := g.All()
	dstSlice := dst.All()
	for i := range src {
		dstSlice[i] = src[i].Clone()
	}
	dst.End = dst.Offset + g.Size()
	return nil
}
