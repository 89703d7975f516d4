// Package persist implements the binary state format named in spec.md §6:
// a version stamp, the particle array, the group array, the geometry
// tag+lengths, and the Hamiltonian's accumulated dusum. The layout is
// fixed little-endian (encoding/binary), matching the wire format's
// "stable within a version" contract — Load refuses to read a mismatched
// version stamp rather than guess at a newer layout.
package persist

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sarat-asymmetrica/faunus-mc/internal/atomtable"
	"github.com/sarat-asymmetrica/faunus-mc/internal/geometry"
	"github.com/sarat-asymmetrica/faunus-mc/internal/group"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

// Version is the format version stamped at offset 0. Bump it and add a
// migration path (or a hard refusal, per spec.md §6/§7) before changing
// the layout below.
const Version uint32 = 1

// ErrVersionMismatch is returned by Load when the file's version stamp
// does not match Version.
var ErrVersionMismatch = errors.New("persist: version mismatch")

// geometry tags identify the concrete Geometry implementation in the
// persisted stream.
const (
	tagCuboid = iota + 1
	tagSphere
	tagCylinder
	tagSlit
	tagHexagonalPrism
	tagTruncatedOctahedron
)

// State is everything persist round-trips: one Space shadow (committed,
// by convention — Save never persists the trial shadow) plus the
// Hamiltonian's accumulated dusum for resuming a drift audit.
type State struct {
	Particles []particle.Particle
	Groups    []group.Meta // CloneInto-style metadata; offsets are persisted separately in Bounds
	Bounds    []Bounds     // (begin,end,capend) parallel to Groups
	Geometry  geometry.Geometry
	DUSum     float64
}

// Bounds is one group's [Offset, End, CapEnd) triple, persisted alongside
// its Meta since the arena offsets aren't part of group.Meta.
type Bounds struct {
	Offset, End, CapEnd int
}

// Save writes st to w in the binary format of spec.md §6. Save always
// succeeds or returns the write error, wrapped with the field being
// written (spec.md §7: I/O failures
// propagate, the MC loop never catches them).
func Save(w io.Writer, st State) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, Version); err != nil {
		return fmt.Errorf("persist: write version: %w", err)
	}
	if err := writeParticles(bw, st.Particles); err != nil {
		return err
	}
	if err := writeGroups(bw, st.Groups, st.Bounds); err != nil {
		return err
	}
	if err := writeGeometry(bw, st.Geometry); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, st.DUSum); err != nil {
		return fmt.Errorf("persist: write dusum: %w", err)
	}
	return bw.Flush()
}

// Load reads a State from r, refusing (ErrVersionMismatch) if the stamped
// version doesn't match Version.
func Load(r io.Reader) (State, error) {
	br := bufio.NewReader(r)
	var version uint32
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return State{}, fmt.Errorf("persist: read version: %w", err)
	}
	if version != Version {
		return State{}, fmt.Errorf("%w: file has %d, expected %d", ErrVersionMismatch, version, Version)
	}
	particles, err := readParticles(br)
	if err != nil {
		return State{}, err
	}
	metas, bounds, err := readGroups(br)
	if err != nil {
		return State{}, err
	}
	geo, err := readGeometry(br)
	if err != nil {
		return State{}, err
	}
	var dusum float64
	if err := binary.Read(br, binary.LittleEndian, &dusum); err != nil {
		return State{}, fmt.Errorf("persist: read dusum: %w", err)
	}
	return State{Particles: particles, Groups: metas, Bounds: bounds, Geometry: geo, DUSum: dusum}, nil
}

func writeParticles(w io.Writer, ps []particle.Particle) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(ps))); err != nil {
		return fmt.Errorf("persist: write particle count: %w", err)
	}
	for i, p := range ps {
		if err := writeVec(w, p.Pos); err != nil {
			return fmt.Errorf("persist: particle %d pos: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, p.Charge); err != nil {
			return fmt.Errorf("persist: particle %d charge: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, int32(p.ID)); err != nil {
			return fmt.Errorf("persist: particle %d id: %w", i, err)
		}
		hasExt := byte(0)
		if p.HasExt() {
			hasExt = 1
		}
		if err := binary.Write(w, binary.LittleEndian, hasExt); err != nil {
			return fmt.Errorf("persist: particle %d has-ext flag: %w", i, err)
		}
		if p.HasExt() {
			e := p.ExtOrNil()
			if err := writeVec(w, e.Mu); err != nil {
				return fmt.Errorf("persist: particle %d ext.mu: %w", i, err)
			}
			if err := binary.Write(w, binary.LittleEndian, e.MuScalar); err != nil {
				return fmt.Errorf("persist: particle %d ext.muscalar: %w", i, err)
			}
			if err := writeVec(w, e.Direction); err != nil {
				return fmt.Errorf("persist: particle %d ext.direction: %w", i, err)
			}
		}
	}
	return nil
}

func readParticles(r io.Reader) ([]particle.Particle, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("persist: read particle count: %w", err)
	}
	out := make([]particle.Particle, n)
	for i := range out {
		pos, err := readVec(r)
		if err != nil {
			return nil, fmt.Errorf("persist: particle %d pos: %w", i, err)
		}
		var charge float64
		if err := binary.Read(r, binary.LittleEndian, &charge); err != nil {
			return nil, fmt.Errorf("persist: particle %d charge: %w", i, err)
		}
		var id32 int32
		if err := binary.Read(r, binary.LittleEndian, &id32); err != nil {
			return nil, fmt.Errorf("persist: particle %d id: %w", i, err)
		}
		var hasExt byte
		if err := binary.Read(r, binary.LittleEndian, &hasExt); err != nil {
			return nil, fmt.Errorf("persist: particle %d has-ext flag: %w", i, err)
		}
		p := particle.New(pos, charge, int(id32))
		if hasExt == 1 {
			mu, err := readVec(r)
			if err != nil {
				return nil, fmt.Errorf("persist: particle %d ext.mu: %w", i, err)
			}
			var muScalar float64
			if err := binary.Read(r, binary.LittleEndian, &muScalar); err != nil {
				return nil, fmt.Errorf("persist: particle %d ext.muscalar: %w", i, err)
			}
			dir, err := readVec(r)
			if err != nil {
				return nil, fmt.Errorf("persist: particle %d ext.direction: %w", i, err)
			}
			ext := p.Ext()
			ext.Mu, ext.MuScalar, ext.Direction = mu, muScalar, dir
		}
		out[i] = p
	}
	return out, nil
}

func writeGroups(w io.Writer, metas []group.Meta, bounds []Bounds) error {
	if len(metas) != len(bounds) {
		return fmt.Errorf("persist: %d group metas but %d bounds", len(metas), len(bounds))
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(metas))); err != nil {
		return fmt.Errorf("persist: write group count: %w", err)
	}
	for i, m := range metas {
		b := bounds[i]
		fields := []any{
			int32(b.Offset), int32(b.End), int32(b.CapEnd),
			int32(m.MoleculeID), boolByte(m.Molecular), boolByte(m.Compressible),
		}
		for _, f := range fields {
			if err := binary.Write(w, binary.LittleEndian, f); err != nil {
				return fmt.Errorf("persist: group %d: %w", i, err)
			}
		}
		if err := writeVec(w, m.CM); err != nil {
			return fmt.Errorf("persist: group %d cm: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, int32(m.ConfID)); err != nil {
			return fmt.Errorf("persist: group %d confid: %w", i, err)
		}
	}
	return nil
}

func readGroups(r io.Reader) ([]group.Meta, []Bounds, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, nil, fmt.Errorf("persist: read group count: %w", err)
	}
	metas := make([]group.Meta, n)
	bounds := make([]Bounds, n)
	for i := range metas {
		var begin, end, capEnd, moleculeID int32
		var molecular, compressible byte
		for _, dst := range []any{&begin, &end, &capEnd, &moleculeID, &molecular, &compressible} {
			if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
				return nil, nil, fmt.Errorf("persist: group %d: %w", i, err)
			}
		}
		cm, err := readVec(r)
		if err != nil {
			return nil, nil, fmt.Errorf("persist: group %d cm: %w", i, err)
		}
		var confID int32
		if err := binary.Read(r, binary.LittleEndian, &confID); err != nil {
			return nil, nil, fmt.Errorf("persist: group %d confid: %w", i, err)
		}
		bounds[i] = Bounds{Offset: int(begin), End: int(end), CapEnd: int(capEnd)}
		metas[i] = group.Meta{
			MoleculeID:   int(moleculeID),
			Molecular:    molecular == 1,
			Compressible: compressible == 1,
			ConfID:       int(confID),
			CM:           cm,
		}
	}
	return metas, bounds, nil
}

func writeGeometry(w io.Writer, g geometry.Geometry) error {
	tag, lengths, radius := geometryTag(g)
	if err := binary.Write(w, binary.LittleEndian, tag); err != nil {
		return fmt.Errorf("persist: geometry tag: %w", err)
	}
	if err := writeVec(w, lengths); err != nil {
		return fmt.Errorf("persist: geometry lengths: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, radius); err != nil {
		return fmt.Errorf("persist: geometry radius: %w", err)
	}
	return nil
}

// geometryTag extracts the (tag, length-vector, radius) triple spec.md §6
// asks for from a concrete Geometry. Length/radius fields that don't apply
// to a given shape are written as zero so the layout stays fixed-size.
func geometryTag(g geometry.Geometry) (byte, r3.Vec, float64) {
	switch t := g.(type) {
	case *geometry.Cuboid:
		return tagCuboid, t.Len, 0
	case *geometry.Sphere:
		return tagSphere, r3.Vec{}, t.Radius
	case *geometry.Cylinder:
		return tagCylinder, r3.Vec{Z: t.Length}, t.Radius
	case *geometry.Slit:
		return tagSlit, r3.Vec{X: t.Lx, Y: t.Ly, Z: t.Lz}, 0
	case *geometry.HexagonalPrism:
		return tagHexagonalPrism, r3.Vec{Z: t.Len}, t.Circumradius
	case *geometry.TruncatedOctahedron:
		return tagTruncatedOctahedron, r3.Vec{X: t.Len}, 0
	default:
		panic(fmt.Sprintf("persist: unknown geometry type %T", g))
	}
}

func readGeometry(r io.Reader) (geometry.Geometry, error) {
	var tag byte
	if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
		return nil, fmt.Errorf("persist: geometry tag: %w", err)
	}
	lengths, err := readVec(r)
	if err != nil {
		return nil, fmt.Errorf("persist: geometry lengths: %w", err)
	}
	var radius float64
	if err := binary.Read(r, binary.LittleEndian, &radius); err != nil {
		return nil, fmt.Errorf("persist: geometry radius: %w", err)
	}
	switch tag {
	case tagCuboid:
		return geometry.NewCuboid(lengths.X, lengths.Y, lengths.Z), nil
	case tagSphere:
		return geometry.NewSphere(radius), nil
	case tagCylinder:
		return geometry.NewCylinder(radius, lengths.Z), nil
	case tagSlit:
		return geometry.NewSlit(lengths.X, lengths.Y, lengths.Z), nil
	case tagHexagonalPrism:
		return geometry.NewHexagonalPrism(radius, lengths.Z), nil
	case tagTruncatedOctahedron:
		return geometry.NewTruncatedOctahedron(lengths.X), nil
	default:
		return nil, fmt.Errorf("persist: unknown geometry tag %d", tag)
	}
}

func writeVec(w io.Writer, v r3.Vec) error {
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func readVec(r io.Reader) (r3.Vec, error) {
	var x, y, z float64
	for _, dst := range []*float64{&x, &y, &z} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return r3.Vec{}, err
		}
	}
	return r3.Vec{X: x, Y: y, Z: z}, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// FromState extracts a persist.State from a Space's committed shadow,
// flattening each Group's Offset/End/CapEnd into a parallel Bounds slice
// (group.Meta alone doesn't carry arena position).
func FromState(sp *space.Space, dusum float64) State {
	metas := make([]group.Meta, len(sp.Committed.Groups))
	bounds := make([]Bounds, len(sp.Committed.Groups))
	for i, g := range sp.Committed.Groups {
		metas[i] = g.Meta
		bounds[i] = Bounds{Offset: g.Offset, End: g.End, CapEnd: g.CapEnd}
	}
	return State{
		Particles: sp.Committed.Particles,
		Groups:    metas,
		Bounds:    bounds,
		Geometry:  sp.Geo,
		DUSum:     dusum,
	}
}

// ToSpace rebuilds a *space.Space (both committed and trial shadows
// initialized identically, per space.Space's invariant) from a loaded
// State and an already-frozen atom table.
func ToSpace(st State, atoms *atomtable.Table) *space.Space {
	sp := space.New(st.Geometry, atoms)
	for i := range st.Bounds {
		b := st.Bounds[i]
		particles := st.Particles[b.Offset:b.End]
		extra := b.CapEnd - b.End
		sp.PushGroup(particles, st.Groups[i], extra)
	}
	return sp
}
