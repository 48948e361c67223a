package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/statecraft/precinctgraph/pkg/adjacency"
)

// fileConfig mirrors the TOML config file. All fields are optional;
// unset fields keep their defaults.
//
//	min_shared_boundary_feet = 200.0
//	proximity_tolerance_feet = 200.0
//	fuzz_meters = 1.0
//	id_attribute = "GEOID"
//	workers = 4
type fileConfig struct {
	MinSharedBoundaryFeet  *float64 `toml:"min_shared_boundary_feet"`
	ProximityToleranceFeet *float64 `toml:"proximity_tolerance_feet"`
	FuzzMeters             *float64 `toml:"fuzz_meters"`
	IDAttribute            *string  `toml:"id_attribute"`
	Workers                *int     `toml:"workers"`
}

// applyConfigFile overlays values from the TOML file at path onto cfg.
// Unknown keys are rejected so typos surface instead of silently using
// defaults.
func applyConfigFile(path string, cfg *adjacency.Config) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}

	if fc.MinSharedBoundaryFeet != nil {
		cfg.MinSharedBoundaryFeet = *fc.MinSharedBoundaryFeet
	}
	if fc.ProximityToleranceFeet != nil {
		cfg.ProximityToleranceFeet = *fc.ProximityToleranceFeet
	}
	if fc.FuzzMeters != nil {
		cfg.FuzzMeters = *fc.FuzzMeters
	}
	if fc.IDAttribute != nil {
		cfg.IDAttribute = *fc.IDAttribute
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	return nil
}
