// Package particle defines the basic Faunus particle type: a position, a
// charge, an atom-type id, and an optional extended record for dipolar or
// patchy particles.
//
// The extended record is lazily allocated (Ext) so that plain atomic
// particles — the overwhelming majority in most systems — don't pay for
// fields they never use. Presence/absence of the extended record is itself
// meaningful and must round-trip through persistence.
package particle

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Extended holds the optional dipolar/patchy fields of a Particle.
type Extended struct {
	Mu        r3.Vec  // unit dipole direction
	MuScalar  float64 // dipole magnitude
	Direction r3.Vec  // patch/orientation direction
}

// Rotate applies q to both vector fields of the extended record.
func (e *Extended) Rotate(q quat.Number) {
	e.Mu = rotateVec(q, e.Mu)
	e.Direction = rotateVec(q, e.Direction)
}

// rotateVec rotates v by the unit quaternion q using p' = q p q⁻¹.
func rotateVec(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Particle is the atomic unit Faunus operates on.
type Particle struct {
	Pos    r3.Vec
	Charge float64
	ID     int // index into an atomtable.Table

	ext *Extended
}

// New returns a plain (non-extended) particle.
func New(pos r3.Vec, charge float64, id int) Particle {
	return Particle{Pos: pos, Charge: charge, ID: id}
}

// HasExt reports whether the extended record has been materialized.
func (p *Particle) HasExt() bool { return p.ext != nil }

// Ext materializes (if needed) and returns the extended record.
func (p *Particle) Ext() *Extended {
	if p.ext == nil {
		p.ext = &Extended{}
	}
	return p.ext
}

// ExtOrNil returns the extended record without materializing it, or nil.
func (p *Particle) ExtOrNil() *Extended { return p.ext }

// ClearExt drops the extended record, reverting the particle to plain.
func (p *Particle) ClearExt() { p.ext = nil }

// Clone returns a deep copy; the extended record, if present, is copied by
// value so mutating the clone never aliases the source.
func (p Particle) Clone() Particle {
	out := p
	if p.ext != nil {
		e := *p.ext
		out.ext = &e
	}
	return out
}
