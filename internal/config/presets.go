package config

import (
	"sort"

	"github.com/san-kum/magsim/internal/grid"
)

func angle(deg float64) *float64 { return &deg }

var Presets = map[string]*Scene{
	"coil_magnet": {
		Name: "coil_magnet",
		Grid: GridConfig{X: rng(-0.20, 0.20), Y: rng(-0.15, 0.35), Resolution: 50},
		Sources: []SourceConfig{
			{Kind: KindSolenoid, X: -0.05, Y: 0, Radius: 0.05, Length: 0.20, Turns: 100, Current: 2.0},
			{Kind: KindDipole, X: 0.1, Y: 0.2, Moment: 0.1},
		},
	},
	"single_coil": {
		Name: "single_coil",
		Grid: GridConfig{X: rng(-0.20, 0.20), Y: rng(-0.25, 0.25), Resolution: 40},
		Sources: []SourceConfig{
			{Kind: KindSolenoid, X: 0, Y: 0, Radius: 0.05, Length: 0.20, Turns: 100, Current: 1.0},
		},
	},
	"opposed_pair": {
		Name: "opposed_pair",
		Grid: GridConfig{X: rng(-0.20, 0.20), Y: rng(-0.40, 0.40), Resolution: 40},
		Sources: []SourceConfig{
			{Kind: KindSolenoid, X: 0, Y: 0.15, Radius: 0.05, Length: 0.20, Turns: 100, Current: 1.0},
			{Kind: KindSolenoid, X: 0, Y: -0.15, Radius: 0.05, Length: 0.20, Turns: 100, Current: -1.0},
		},
	},
	"helmholtz": {
		Name: "helmholtz",
		Grid: GridConfig{X: rng(-0.20, 0.20), Y: rng(-0.20, 0.20), Resolution: 40},
		Sources: []SourceConfig{
			{Kind: KindLoop, X: 0, Y: -0.05, Radius: 0.10, Current: 1.0},
			{Kind: KindLoop, X: 0, Y: 0.05, Radius: 0.10, Current: 1.0},
		},
	},
	"dipole": {
		Name: "dipole",
		Grid: GridConfig{X: rng(-0.20, 0.20), Y: rng(-0.20, 0.20), Resolution: 30},
		Sources: []SourceConfig{
			{Kind: KindDipole, X: 0, Y: 0, Moment: 0.1, Orientation: angle(45)},
		},
	},
}

func rng(lo, hi float64) grid.Range { return grid.Range{Min: lo, Max: hi} }

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Scene {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	cp.Sources = append([]SourceConfig(nil), p.Sources...)
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
