// Package grid builds the rectangular sampling meshes the superposition
// engine evaluates on.
package grid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrInvalidResolution = errors.New("grid: resolution must be at least 1")
	ErrInvalidRange      = errors.New("grid: range bounds must be finite")
)

// Range is a closed interval [Min, Max]. Min > Max is allowed and yields
// descending samples.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (r Range) Span() float64 { return r.Max - r.Min }

func (r Range) validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Linspace returns n evenly spaced samples covering r, both ends included.
// n == 1 yields [r.Min].
func Linspace(r Range, n int) []float64 {
	if n < 1 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = r.Min
		return out
	}
	floats.Span(out, r.Min, r.Max)
	out[n-1] = r.Max
	return out
}

// Grid is a rectangular mesh given by its 1D axes. Row i of the mesh holds
// y = Y[i]; column j holds x = X[j].
type Grid struct {
	X []float64
	Y []float64
}

func New(xr, yr Range, nx, ny int) (*Grid, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidResolution, nx, ny)
	}
	if err := xr.validate(); err != nil {
		return nil, err
	}
	if err := yr.validate(); err != nil {
		return nil, err
	}
	return &Grid{X: Linspace(xr, nx), Y: Linspace(yr, ny)}, nil
}

// Square builds a resolution×resolution grid.
func Square(xr, yr Range, resolution int) (*Grid, error) {
	return New(xr, yr, resolution, resolution)
}

func (g *Grid) Rows() int { return len(g.Y) }
func (g *Grid) Cols() int { return len(g.X) }
func (g *Grid) Len() int  { return len(g.X) * len(g.Y) }

// Flatten expands the mesh into row-major point lists.
func (g *Grid) Flatten() (xs, ys []float64) {
	n := g.Len()
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	for _, y := range g.Y {
		for _, x := range g.X {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// Reshape wraps a flat row-major slice of length Len() as a Rows×Cols
// matrix. The slice is used as the backing store, not copied.
func (g *Grid) Reshape(flat []float64) *mat.Dense {
	if len(flat) != g.Len() {
		panic(fmt.Sprintf("grid: reshape of %d values into %dx%d", len(flat), g.Rows(), g.Cols()))
	}
	return mat.NewDense(g.Rows(), g.Cols(), flat)
}

// Point returns the coordinates of mesh node (i, j).
func (g *Grid) Point(i, j int) (x, y float64) {
	return g.X[j], g.Y[i]
}
