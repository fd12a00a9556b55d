package fieldline

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/magsim/internal/grid"
)

const (
	DefaultMaxSteps = 2000
	DefaultMinField = 1e-20

	// Fraction of the smaller bounds span used as the default step.
	defaultStepFraction = 0.005
	ctxCheckInterval    = 64
)

// FieldFunc evaluates a field at a single point; superpose.Engine.At fits.
type FieldFunc func(x, y float64) (bx, by float64)

type Point struct {
	X, Y float64
}

type Bounds struct {
	X grid.Range
	Y grid.Range
}

func (b Bounds) contains(p Point) bool {
	return between(p.X, b.X) && between(p.Y, b.Y)
}

func between(v float64, r grid.Range) bool {
	lo, hi := math.Min(r.Min, r.Max), math.Max(r.Min, r.Max)
	return v >= lo && v <= hi
}

type StopReason int

const (
	StopNone StopReason = iota
	StopMaxSteps
	StopBounds
	StopWeakField
	StopNonFinite
)

func (s StopReason) String() string {
	switch s {
	case StopMaxSteps:
		return "max_steps"
	case StopBounds:
		return "bounds"
	case StopWeakField:
		return "weak_field"
	case StopNonFinite:
		return "non_finite"
	}
	return "none"
}

// Line is a traced field line ordered from its backward end, through the
// seed, to its forward end.
type Line struct {
	Seed     Point
	Points   []Point
	Forward  StopReason
	Backward StopReason
}

// Length returns the polyline arc length.
func (l Line) Length() float64 {
	total := 0.0
	for i := 1; i < len(l.Points); i++ {
		total += math.Hypot(l.Points[i].X-l.Points[i-1].X, l.Points[i].Y-l.Points[i-1].Y)
	}
	return total
}

type Tracer struct {
	Field    FieldFunc
	Bounds   Bounds
	Step     float64
	MaxSteps int
	MinField float64
}

// New returns a tracer with a step of half a percent of the smaller bounds
// span and the default step budget.
func New(f FieldFunc, b Bounds) *Tracer {
	span := math.Min(math.Abs(b.X.Span()), math.Abs(b.Y.Span()))
	return &Tracer{
		Field:    f,
		Bounds:   b,
		Step:     defaultStepFraction * span,
		MaxSteps: DefaultMaxSteps,
		MinField: DefaultMinField,
	}
}

// Trace integrates the field line through seed in both directions. A seed
// outside the bounds yields a single-point line.
func (t *Tracer) Trace(ctx context.Context, seed Point) (Line, error) {
	line := Line{Seed: seed}
	if !t.Bounds.contains(seed) {
		line.Points = []Point{seed}
		line.Forward, line.Backward = StopBounds, StopBounds
		return line, nil
	}

	back, backStop, err := t.walk(ctx, seed, -t.Step)
	if err != nil {
		return line, err
	}
	fwd, fwdStop, err := t.walk(ctx, seed, t.Step)
	if err != nil {
		return line, err
	}

	pts := make([]Point, 0, len(back)+len(fwd)+1)
	for i := len(back) - 1; i >= 0; i-- {
		pts = append(pts, back[i])
	}
	pts = append(pts, seed)
	pts = append(pts, fwd...)

	line.Points = pts
	line.Forward, line.Backward = fwdStop, backStop
	return line, nil
}

func (t *Tracer) walk(ctx context.Context, seed Point, h float64) ([]Point, StopReason, error) {
	pts := make([]Point, 0, 64)
	p := seed

	for i := 0; i < t.MaxSteps; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return pts, StopNone, err
			}
		}

		next, stop := t.step(p, h)
		if stop != StopNone {
			return pts, stop, nil
		}
		if !t.Bounds.contains(next) {
			return pts, StopBounds, nil
		}
		pts = append(pts, next)
		p = next
	}
	return pts, StopMaxSteps, nil
}

// TraceAll traces every seed concurrently. Lines come back in seed order.
func (t *Tracer) TraceAll(ctx context.Context, seeds []Point) ([]Line, error) {
	lines := make([]Line, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, seed := range seeds {
		g.Go(func() error {
			line, err := t.Trace(gctx, seed)
			if err != nil {
				return err
			}
			lines[i] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Seeds lays out an nx×ny lattice of seed points over the given ranges.
func Seeds(xr, yr grid.Range, nx, ny int) []Point {
	xs := grid.Linspace(xr, nx)
	ys := grid.Linspace(yr, ny)
	out := make([]Point, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			out = append(out, Point{x, y})
		}
	}
	return out
}
