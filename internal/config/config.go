// Package config defines the Go structs for the JSON-shaped input schema
// named in spec.md §6 (geometry, atomlist, moleculelist, energy, moves,
// analysis, reactionlist) and a Build factory that wires a decoded Config
// into a live object graph: a *space.Space, an *energy.Hamiltonian and the
// ordered []mcloop.WeightedMove list the MC loop runs.
//
// This is the boundary the external front-end, the analysis layer and the
// reaction-coordinate collaborator attach to (spec.md §6 only specifies the
// schema's top-level shape; Build is this rewrite's concrete wiring path).
// Analysis and ReactionList are kept as raw json.RawMessage — both are
// explicitly out of scope for the core (spec.md §1) and are handed back to
// the caller unparsed.
package config

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sarat-asymmetrica/faunus-mc/internal/atomtable"
	"github.com/sarat-asymmetrica/faunus-mc/internal/bond"
	"github.com/sarat-asymmetrica/faunus-mc/internal/energy"
	"github.com/sarat-asymmetrica/faunus-mc/internal/geometry"
	"github.com/sarat-asymmetrica/faunus-mc/internal/group"
	"github.com/sarat-asymmetrica/faunus-mc/internal/mcloop"
	"github.com/sarat-asymmetrica/faunus-mc/internal/mcmove"
	"github.com/sarat-asymmetrica/faunus-mc/internal/particle"
	"github.com/sarat-asymmetrica/faunus-mc/internal/potential"
	"github.com/sarat-asymmetrica/faunus-mc/internal/rng"
	"github.com/sarat-asymmetrica/faunus-mc/internal/space"
)

// Config is the top-level decoded shape of the input JSON (spec.md §6).
type Config struct {
	Geometry     GeometrySpec      `json:"geometry"`
	AtomList     []AtomSpec        `json:"atomlist"`
	MoleculeList []MoleculeSpec    `json:"moleculelist"`
	Energy       []EnergyTermSpec  `json:"energy"`
	Moves        []MoveSpec        `json:"moves"`
	Analysis     json.RawMessage   `json:"analysis,omitempty"`
	ReactionList json.RawMessage   `json:"reactionlist,omitempty"`
	Seed         int64             `json:"seed"`
}

// GeometrySpec names one of the six concrete geometries and the
// parameters it needs.
type GeometrySpec struct {
	Type     string  `json:"type"` // cuboid|sphere|cylinder|slit|hexagonal|truncoct
	Lx       float64 `json:"lx"`
	Ly       float64 `json:"ly"`
	Lz       float64 `json:"lz"`
	Radius   float64 `json:"radius"`
	Length   float64 `json:"length"`
}

// AtomSpec is one atomtable.Params entry in wire form.
type AtomSpec struct {
	Name     string  `json:"name"`
	Mass     float64 `json:"mass"`
	Radius   float64 `json:"radius"`
	Charge   float64 `json:"charge"`
	Activity float64 `json:"activity"`
}

// ParticleSpec places one particle of a named atom type at a position,
// used inside MoleculeSpec to seed a group's initial configuration.
type ParticleSpec struct {
	Atom string  `json:"atom"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// MoleculeSpec describes one group to push into Space: its member
// particles, whether it is molecular (rigid CM scaling) or atomic, and
// whether NPT volume moves may compress it internally.
type MoleculeSpec struct {
	Name          string         `json:"name"`
	Molecular     bool           `json:"molecular"`
	Compressible  bool           `json:"compressible"`
	Particles     []ParticleSpec `json:"particles"`
	ExtraCapacity int            `json:"extra_capacity"`
}

// EnergyTermSpec names one ordered entry of the "energy" list (spec.md
// §4.6); Kind selects the concrete Term and Params carries its
// kind-specific fields, decoded lazily by Build via json.RawMessage so
// unknown future kinds don't break decoding of the rest of the list.
type EnergyTermSpec struct {
	Kind   string          `json:"kind"`
	Params json.RawMessage `json:"params"`
}

// MoveSpec names one ordered, weighted entry of the "moves" list.
type MoveSpec struct {
	Kind   string          `json:"kind"`
	Weight float64         `json:"weight"`
	Params json.RawMessage `json:"params"`
}

// Built is the live object graph Build assembles from a Config.
type Built struct {
	Space       *space.Space
	Hamiltonian *energy.Hamiltonian
	Moves       []mcloop.WeightedMove
	RNG         *rng.Source
	Atoms       *atomtable.Table
	Bonds       *bond.Table
}

// Build wires a decoded Config into a Space, Hamiltonian and move list.
// Configuration errors (spec.md §7) are returned rather than panicking —
// no partial run starts.
func Build(cfg Config) (*Built, error) {
	atoms, atomIdx, err := buildAtoms(cfg.AtomList)
	if err != nil {
		return nil, fmt.Errorf("config: atomlist: %w", err)
	}
	atoms.Freeze()

	geo, err := buildGeometry(cfg.Geometry)
	if err != nil {
		return nil, fmt.Errorf("config: geometry: %w", err)
	}

	sp := space.New(geo, atoms)
	groupNames := make(map[int]string)
	for _, ms := range cfg.MoleculeList {
		particles := make([]particle.Particle, 0, len(ms.Particles))
		for _, ps := range ms.Particles {
			id, ok := atomIdx[ps.Atom]
			if !ok {
				return nil, fmt.Errorf("config: moleculelist %q: unknown atom %q", ms.Name, ps.Atom)
			}
			p, ok := atoms.ByID(id)
			if !ok {
				return nil, fmt.Errorf("config: moleculelist %q: atom %q not registered", ms.Name, ps.Atom)
			}
			particles = append(particles, particle.New(r3.Vec{X: ps.X, Y: ps.Y, Z: ps.Z}, p.Charge, id))
		}
		meta := group.Meta{Molecular: ms.Molecular, Compressible: ms.Compressible}
		idx := sp.PushGroup(particles, meta, ms.ExtraCapacity)
		groupNames[idx] = ms.Name
	}

	bonds := bond.NewTable()
	h := energy.New()
	for _, spec := range cfg.Energy {
		term, err := buildEnergyTerm(spec, atoms, bonds)
		if err != nil {
			return nil, fmt.Errorf("config: energy[%s]: %w", spec.Kind, err)
		}
		h.Terms = append(h.Terms, term)
	}

	moves, err := buildMoves(cfg.Moves, groupNames, h)
	if err != nil {
		return nil, fmt.Errorf("config: moves: %w", err)
	}

	return &Built{
		Space:       sp,
		Hamiltonian: h,
		Moves:       moves,
		RNG:         rng.New(cfg.Seed),
		Atoms:       atoms,
		Bonds:       bonds,
	}, nil
}

func buildAtoms(specs []AtomSpec) (*atomtable.Table, map[string]int, error) {
	t := atomtable.New()
	idx := make(map[string]int, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			return nil, nil, fmt.Errorf("atom entry missing name")
		}
		if _, dup := idx[s.Name]; dup {
			return nil, nil, fmt.Errorf("duplicate atom name %q", s.Name)
		}
		id := t.Add(atomtable.Params{
			Name: s.Name, Mass: s.Mass, Radius: s.Radius,
			Charge: s.Charge, Activity: s.Activity,
		})
		idx[s.Name] = id
	}
	return t, idx, nil
}

func buildGeometry(g GeometrySpec) (geometry.Geometry, error) {
	switch g.Type {
	case "cuboid", "":
		if g.Lx <= 0 || g.Ly <= 0 || g.Lz <= 0 {
			return nil, fmt.Errorf("cuboid requires positive lx,ly,lz")
		}
		return geometry.NewCuboid(g.Lx, g.Ly, g.Lz), nil
	case "sphere":
		if g.Radius <= 0 {
			return nil, fmt.Errorf("sphere requires positive radius")
		}
		return geometry.NewSphere(g.Radius), nil
	case "cylinder":
		if g.Radius <= 0 || g.Length <= 0 {
			return nil, fmt.Errorf("cylinder requires positive radius and length")
		}
		return geometry.NewCylinder(g.Radius, g.Length), nil
	case "slit":
		if g.Lx <= 0 || g.Ly <= 0 || g.Lz <= 0 {
			return nil, fmt.Errorf("slit requires positive lx,ly,lz")
		}
		return geometry.NewSlit(g.Lx, g.Ly, g.Lz), nil
	case "hexagonal":
		if g.Radius <= 0 || g.Length <= 0 {
			return nil, fmt.Errorf("hexagonal requires positive radius and length")
		}
		return geometry.NewHexagonalPrism(g.Radius, g.Length), nil
	case "truncoct":
		if g.Lx <= 0 {
			return nil, fmt.Errorf("truncoct requires positive lx")
		}
		return geometry.NewTruncatedOctahedron(g.Lx), nil
	default:
		return nil, fmt.Errorf("unknown geometry type %q", g.Type)
	}
}

// radiusLookup returns a func(id int) float64 closing over atoms, the
// shape potential.HardSphere/LennardJones expect for per-type radii.
func radiusLookup(atoms *atomtable.Table) func(int) float64 {
	return func(id int) float64 { return atoms.MustByID(id).Radius }
}

func buildEnergyTerm(spec EnergyTermSpec, atoms *atomtable.Table, bonds *bond.Table) (energy.Term, error) {
	switch spec.Kind {
	case "hardsphere":
		return energy.Nonbonded[potential.HardSphere]{
			Pot: potential.HardSphere{Radius: radiusLookup(atoms)},
		}, nil

	case "lennardjones":
		var p struct {
			CMCutoff float64            `json:"cm_cutoff"`
			Sigma    map[string]float64 `json:"sigma"`
			Epsilon  map[string]float64 `json:"epsilon"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		sigma, eps := perTypeLookup(atoms, p.Sigma), perTypeLookup(atoms, p.Epsilon)
		return energy.Nonbonded[potential.LennardJones]{
			Pot:      potential.LennardJones{Sigma: sigma, Epsilon: eps},
			CMCutoff: p.CMCutoff,
		}, nil

	case "coulomb":
		var p struct {
			Lb       float64 `json:"bjerrum_length"`
			Cutoff   float64 `json:"cutoff"`
			Split    string  `json:"splitting"`
			Kappa    float64 `json:"kappa"`
			Epsilon  float64 `json:"epsilon"`
			CMCutoff float64 `json:"cm_cutoff"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		split := potential.Plain
		switch p.Split {
		case "wolf":
			split = potential.Wolf
		case "reactionfield":
			split = potential.ReactionField
		}
		return energy.Nonbonded[potential.Coulomb]{
			Pot: potential.Coulomb{
				Lb: p.Lb, Cutoff: p.Cutoff, Split: split, Kappa: p.Kappa, Epsilon: p.Epsilon,
			},
			CMCutoff: p.CMCutoff,
		}, nil

	case "bonded":
		var p struct {
			Bonds []struct {
				I    int     `json:"i"`
				J    int     `json:"j"`
				K    float64 `json:"k"`
				R0   float64 `json:"r0"`
			} `json:"bonds"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		for _, b := range p.Bonds {
			if b.I == b.J {
				return nil, fmt.Errorf("config: self-bond %d-%d", b.I, b.J)
			}
			bonds.Add(b.I, b.J, bond.Harmonic{K: b.K, R0: b.R0})
		}
		return energy.Bonded{Table: bonds}, nil

	case "externalpressure":
		var p struct {
			P float64 `json:"pressure"` // mM
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		return energy.ExternalPressure{P: mMToInverseCubicAngstrom(p.P)}, nil

	case "restrictedvolume":
		var p struct {
			Lower  [3]float64 `json:"lower"`
			Upper  [3]float64 `json:"upper"`
			CMOnly bool       `json:"cm_only"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		return energy.RestrictedVolume{
			Lower:  r3.Vec{X: p.Lower[0], Y: p.Lower[1], Z: p.Lower[2]},
			Upper:  r3.Vec{X: p.Upper[0], Y: p.Upper[1], Z: p.Upper[2]},
			CMOnly: p.CMOnly,
		}, nil

	case "masscenterconstrain":
		var p struct {
			Pairs []struct {
				G1  int     `json:"g1"`
				G2  int     `json:"g2"`
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"pairs"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		term := energy.MassCenterConstrain{}
		for _, pr := range p.Pairs {
			term.Pairs = append(term.Pairs, energy.GroupPairConstraint{G1: pr.G1, G2: pr.G2, Min: pr.Min, Max: pr.Max})
		}
		return term, nil

	default:
		return nil, fmt.Errorf("unknown energy kind %q", spec.Kind)
	}
}

func perTypeLookup(atoms *atomtable.Table, byName map[string]float64) func(int) float64 {
	return func(id int) float64 {
		p, ok := atoms.ByID(id)
		if !ok {
			return 0
		}
		if v, ok := byName[p.Name]; ok {
			return v
		}
		return 0
	}
}

// mMToInverseCubicAngstrom converts a pressure/concentration given in mM
// to the internal unit 1/Å³ (spec.md §6 Units).
func mMToInverseCubicAngstrom(mM float64) float64 {
	const avogadro = 6.02214076e23
	const litersPerCubicAngstrom = 1e-27
	return mM * 1e-3 * avogadro * litersPerCubicAngstrom
}

func nameToGroupIdx(groupNames map[int]string, name string) (int, bool) {
	for idx, n := range groupNames {
		if n == name {
			return idx, true
		}
	}
	return 0, false
}

func buildMoves(specs []MoveSpec, groupNames map[int]string, h *energy.Hamiltonian) ([]mcloop.WeightedMove, error) {
	out := make([]mcloop.WeightedMove, 0, len(specs))
	for _, spec := range specs {
		mv, err := buildMove(spec, groupNames, h)
		if err != nil {
			return nil, fmt.Errorf("moves[%s]: %w", spec.Kind, err)
		}
		out = append(out, mcloop.WeightedMove{Move: mv, Weight: spec.Weight})
	}
	return out, nil
}

func buildMove(spec MoveSpec, groupNames map[int]string, h *energy.Hamiltonian) (mcmove.Move, error) {
	switch spec.Kind {
	case "translation":
		var p struct {
			Group string  `json:"group"`
			Dp    float64 `json:"dp"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		idx, ok := nameToGroupIdx(groupNames, p.Group)
		if !ok {
			return nil, fmt.Errorf("unknown group %q", p.Group)
		}
		return mcmove.NewParticleTranslation(idx, p.Dp), nil

	case "rotategroup":
		var p struct {
			Group     string  `json:"group"`
			DTheta    float64 `json:"dtheta"`
			Translate bool    `json:"translate"`
			Dp        float64 `json:"dp"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		idx, ok := nameToGroupIdx(groupNames, p.Group)
		if !ok {
			return nil, fmt.Errorf("unknown group %q", p.Group)
		}
		mv := mcmove.NewRotateGroup(idx, p.DTheta)
		mv.Translate = p.Translate
		mv.Dp = p.Dp
		return mv, nil

	case "isobaric":
		var p struct {
			Dv float64 `json:"dv"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		return mcmove.NewIsobaric(h, p.Dv), nil

	case "grandcanonical":
		var p struct {
			SaltGroup      string  `json:"salt_group"`
			CationID       int     `json:"cation_id"`
			AnionID        int     `json:"anion_id"`
			CationCharge   float64 `json:"cation_charge"`
			AnionCharge    float64 `json:"anion_charge"`
			ActivityCation float64 `json:"activity_cation"`
			ActivityAnion  float64 `json:"activity_anion"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		idx, ok := nameToGroupIdx(groupNames, p.SaltGroup)
		if !ok {
			return nil, fmt.Errorf("unknown group %q", p.SaltGroup)
		}
		return mcmove.NewGrandCanonical(idx, p.CationID, p.AnionID, p.CationCharge, p.AnionCharge,
			mMToInverseCubicAngstrom(p.ActivityCation), mMToInverseCubicAngstrom(p.ActivityAnion)), nil

	case "titration":
		var p struct {
			SiteIdx            int     `json:"site_idx"`
			ProtonatedQ        float64 `json:"protonated_q"`
			DeprotonatedQ      float64 `json:"deprotonated_q"`
			PKa                float64 `json:"pka"`
			PH                 float64 `json:"ph"`
			CounterIonGroup    string  `json:"counter_ion_group"`
			CounterIonID       int     `json:"counter_ion_id"`
			CounterIonCharge   float64 `json:"counter_ion_charge"`
			ActivityCounterIon float64 `json:"activity_counter_ion"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		idx, ok := nameToGroupIdx(groupNames, p.CounterIonGroup)
		if !ok {
			return nil, fmt.Errorf("unknown group %q", p.CounterIonGroup)
		}
		return mcmove.NewTitration(p.SiteIdx, p.ProtonatedQ, p.DeprotonatedQ, p.PKa, p.PH,
			idx, p.CounterIonID, p.CounterIonCharge, mMToInverseCubicAngstrom(p.ActivityCounterIon)), nil

	case "cluster":
		var p struct {
			Groups []string `json:"groups"`
			Dp     float64  `json:"dp"`
			Cutoff float64  `json:"cutoff"`
		}
		if err := json.Unmarshal(spec.Params, &p); err != nil {
			return nil, err
		}
		idxs := make([]int, 0, len(p.Groups))
		for _, name := range p.Groups {
			idx, ok := nameToGroupIdx(groupNames, name)
			if !ok {
				return nil, fmt.Errorf("unknown group %q", name)
			}
			idxs = append(idxs, idx)
		}
		return mcmove.NewClusterTranslation(idxs, p.Dp, p.Cutoff), nil

	default:
		return nil, fmt.Errorf("unknown move kind %q", spec.Kind)
	}
}
