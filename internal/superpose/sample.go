package superpose

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/magsim/internal/grid"
)

// Sample is one evaluation of the total field. Bx and By have one row per
// y sample and one column per x sample.
type Sample struct {
	Grid *grid.Grid
	Bx   *mat.Dense
	By   *mat.Dense
}

// Point returns the coordinates and field at mesh node (i, j).
func (s *Sample) Point(i, j int) (x, y, bx, by float64) {
	x, y = s.Grid.Point(i, j)
	return x, y, s.Bx.At(i, j), s.By.At(i, j)
}

// Magnitude returns |B| at every node.
func (s *Sample) Magnitude() *mat.Dense {
	r, c := s.Bx.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		return math.Hypot(s.Bx.At(i, j), s.By.At(i, j))
	}, out)
	return out
}

type Stats struct {
	Points    int     `json:"points"`
	NonFinite int     `json:"non_finite"`
	MinMag    float64 `json:"min_magnitude"`
	MaxMag    float64 `json:"max_magnitude"`
	MeanMag   float64 `json:"mean_magnitude"`
}

// Stats summarises |B| over the finite nodes and counts the others.
func (s *Sample) Stats() Stats {
	r, c := s.Bx.Dims()
	st := Stats{Points: r * c, MinMag: math.Inf(1)}

	sum := 0.0
	finite := 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m := math.Hypot(s.Bx.At(i, j), s.By.At(i, j))
			if math.IsNaN(m) || math.IsInf(m, 0) {
				st.NonFinite++
				continue
			}
			finite++
			sum += m
			st.MinMag = math.Min(st.MinMag, m)
			st.MaxMag = math.Max(st.MaxMag, m)
		}
	}

	if finite == 0 {
		st.MinMag = 0
		return st
	}
	st.MeanMag = sum / float64(finite)
	return st
}
