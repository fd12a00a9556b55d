package superpose

import (
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/magsim/internal/field"
)

// batch evaluates src over all points. Large point sets are cut into
// contiguous chunks evaluated concurrently; each chunk writes a disjoint
// range of the output, so the result does not depend on scheduling.
func (e *Engine) batch(src field.Source, x, y []float64) (bx, by []float64) {
	n := len(x)
	workers := e.workers
	if n/e.minChunk < workers {
		workers = n / e.minChunk
	}
	if workers <= 1 {
		return src.Field(x, y)
	}

	bx = make([]float64, n)
	by = make([]float64, n)
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			cx, cy := src.Field(x[start:end], y[start:end])
			copy(bx[start:end], cx)
			copy(by[start:end], cy)
			return nil
		})
	}
	_ = g.Wait()

	return bx, by
}
