package config

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// ForceFieldTOML is a standalone, TOML-configured per-atom parameter table
// (SPEC_FULL.md §2): an alternative to inlining "sigma"/"epsilon" maps
// directly in an EnergyTermSpec's JSON params, for force-field tables
// maintained as their own file. Grounded on kpotier-molsolvent's
// `Volume` struct (other_examples), which parses an identical
// `atoms = [...]` / `sigma = {...}` shape from TOML for a per-atom
// Lennard-Jones-like radius table.
type ForceFieldTOML struct {
	Atoms   []string           `toml:"atoms"`
	Sigma   map[string]float64 `toml:"sigma"`
	Epsilon map[string]float64 `toml:"epsilon"`
}

// LoadForceFieldTOML decodes a ForceFieldTOML document and validates that
// every name in Atoms has both a Sigma and an Epsilon entry, returning the
// two maps ready for perTypeLookup.
func LoadForceFieldTOML(r io.Reader) (sigma, epsilon map[string]float64, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("config: read force field toml: %w", err)
	}
	var ff ForceFieldTOML
	if err := toml.Unmarshal(raw, &ff); err != nil {
		return nil, nil, fmt.Errorf("config: decode force field toml: %w", err)
	}
	for _, name := range ff.Atoms {
		if _, ok := ff.Sigma[name]; !ok {
			return nil, nil, fmt.Errorf("config: force field toml: atom %q missing sigma", name)
		}
		if _, ok := ff.Epsilon[name]; !ok {
			return nil, nil, fmt.Errorf("config: force field toml: atom %q missing epsilon", name)
		}
	}
	return ff.Sigma, ff.Epsilon, nil
}
