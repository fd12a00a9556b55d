package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/superpose"
)

const (
	DefaultResolution = 30
	DefaultXMin       = -0.20
	DefaultXMax       = 0.20
	DefaultYMin       = -0.15
	DefaultYMax       = 0.35
)

const (
	KindSolenoid = "solenoid"
	KindDipole   = "dipole"
	KindLoop     = "loop"
)

var (
	ErrUnknownKind = errors.New("config: unknown source kind")
	ErrInvalidName = errors.New("config: scene name must not contain path separators")
)

// Scene describes a set of sources and the mesh to sample them on.
type Scene struct {
	Name    string         `json:"name" yaml:"name"`
	Grid    GridConfig     `json:"grid" yaml:"grid"`
	Workers int            `json:"workers,omitempty" yaml:"workers,omitempty"`
	Sources []SourceConfig `json:"sources" yaml:"sources"`
}

type GridConfig struct {
	X          grid.Range `json:"x" yaml:"x"`
	Y          grid.Range `json:"y" yaml:"y"`
	Resolution int        `json:"resolution" yaml:"resolution"`
}

// SourceConfig is a tagged union over the source kinds; fields that do not
// apply to Kind are ignored.
type SourceConfig struct {
	Kind        string   `json:"kind" yaml:"kind"`
	X           float64  `json:"x" yaml:"x"`
	Y           float64  `json:"y" yaml:"y"`
	Radius      float64  `json:"radius,omitempty" yaml:"radius,omitempty"`
	Length      float64  `json:"length,omitempty" yaml:"length,omitempty"`
	Turns       float64  `json:"turns,omitempty" yaml:"turns,omitempty"`
	Current     float64  `json:"current,omitempty" yaml:"current,omitempty"`
	Moment      float64  `json:"moment,omitempty" yaml:"moment,omitempty"`
	Orientation *float64 `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Mu          float64  `json:"mu,omitempty" yaml:"mu,omitempty"`
}

func DefaultScene() *Scene {
	return &Scene{
		Name: "scene",
		Grid: GridConfig{
			X:          grid.Range{Min: DefaultXMin, Max: DefaultXMax},
			Y:          grid.Range{Min: DefaultYMin, Max: DefaultYMax},
			Resolution: DefaultResolution,
		},
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML scene on top of DefaultScene.
func Parse(data []byte) (*Scene, error) {
	sc := DefaultScene()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func Save(path string, sc *Scene) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SampleGrid builds the sampling mesh described by the scene.
func (sc *Scene) SampleGrid() (*grid.Grid, error) {
	return grid.Square(sc.Grid.X, sc.Grid.Y, sc.Grid.Resolution)
}

// Validate checks the scene name and mesh settings. Source parameters are checked by
// their constructors during Build.
func (sc *Scene) Validate() error {
	if strings.ContainsAny(sc.Name, `/\`) || sc.Name == "." || sc.Name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, sc.Name)
	}
	if _, err := sc.SampleGrid(); err != nil {
		return fmt.Errorf("scene %s: %w", sc.Name, err)
	}
	if sc.Workers < 0 {
		return fmt.Errorf("scene %s: negative worker count %d", sc.Name, sc.Workers)
	}
	return nil
}

// Build constructs every source and registers it, in order, with a new
// engine. The first invalid source aborts the build.
func (sc *Scene) Build() (*superpose.Engine, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	var opts []superpose.Option
	if sc.Workers > 0 {
		opts = append(opts, superpose.WithWorkers(sc.Workers))
	}
	eng := superpose.New(opts...)

	for i, sr := range sc.Sources {
		src, err := sr.Source()
		if err != nil {
			return nil, fmt.Errorf("source %d (%s): %w", i, sr.Kind, err)
		}
		eng.AddSource(src)
	}
	return eng, nil
}

// Source constructs the field source described by c.
func (c SourceConfig) Source() (field.Source, error) {
	var opts []field.Option
	if c.Mu != 0 {
		opts = append(opts, field.WithPermeability(c.Mu))
	}

	switch c.Kind {
	case KindSolenoid:
		s, err := field.NewSolenoid(c.X, c.Y, c.Radius, c.Length, c.Turns, c.Current, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindDipole:
		if c.Orientation != nil {
			opts = append(opts, field.WithOrientation(*c.Orientation))
		}
		d, err := field.NewDipole(c.X, c.Y, c.Moment, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case KindLoop:
		l, err := field.NewLoop(c.X, c.Y, c.Radius, c.Current, opts...)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
}
