// Package mcmove implements the trial-move algorithms dispatched by the MC
// loop: particle translation, group rotation, isobaric volume change,
// grand-canonical salt insertion/deletion, titration, and a cluster
// translation. Every move implements the shared accept/reject contract
// from spec.md §4.8; the Metropolis decision itself lives in this package
// so every move shares one implementation of the special-case rules.
package mcmove

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/sarat-asymmetrica/faunus-mc/internal/energy"
	"github.com/sarat-asymmetrica/faunus-mc/internal/rng"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

var log = logrus.WithField("pkg", "mcmove")

// Move is the capability every trial-move algorithm implements.
type Move interface {
	// Name identifies the move in logging and acceptance statistics.
	Name() string

	// RunFraction is the probability (in [0,1]) that an attempt scheduled
	// for this move actually runs; 1.0 for moves without a throttle.
	RunFraction() float64

	// TrialMove mutates the trial state in sp and records whatever
	// bookkeeping Accept/Reject/EnergyChange will need.
	TrialMove(sp *space.Space, r *rng.Source)

	// EnergyChange returns the Metropolis-effective ΔU: the physical
	// energy change plus any additive bias (log-Jacobian, chemical
	// potential), already combined, in kT.
	EnergyChange(sp *space.Space, h *energy.Hamiltonian) float64

	// Accept commits the trial mutation into the committed state.
	Accept(sp *space.Space)

	// Reject discards the trial mutation, restoring trial from committed.
	Reject(sp *space.Space)
}

// Metropolis applies the acceptance criterion from spec.md §4.8: accept if
// du <= 0, else accept with probability exp(-du). du == +Inf always
// rejects; NaN always rejects and is logged, since it signals a bug
// upstream rather than a legitimate infeasible configuration.
func Metropolis(du float64, r *rng.Source) bool {
	if math.IsNaN(du) {
		log.WithField("du", "NaN").Warn("metropolis: NaN energy change, rejecting")
		return false
	}
	if du <= 0 {
		return true
	}
	if math.IsInf(du, 1) {
		return false
	}
	return r.Uniform01() < math.Exp(-du)
}

// Result is the outcome of one Attempt, returned to the MC loop for
// acceptance-ratio and dusum bookkeeping.
type Result struct {
	Ran      bool // false if RunFraction skipped this attempt
	Accepted bool
	DU       float64
}

// Attempt runs one full move(n)-style cycle: runfraction check,
// trial_move, energy_change, Metropolis decision, accept or reject
// (spec.md §4.8).
func Attempt(m Move, sp *space.Space, h *energy.Hamiltonian, r *rng.Source) Result {
	if r.Uniform01() >= m.RunFraction() {
		return Result{}
	}
	m.TrialMove(sp, r)
	du := m.EnergyChange(sp, h)
	if Metropolis(du, r) {
		m.Accept(sp)
		return Result{Ran: true, Accepted: true, DU: du}
	}
	m.Reject(sp)
	return Result{Ran: true, Accepted: false, DU: du}
}
