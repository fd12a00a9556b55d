package field

import (
	"math"

	"github.com/san-kum/magsim/internal/elliptic"
)

// Loop is a single circular current loop of radius a lying in the plane
// y = cy, its axis along y.
type Loop struct {
	x, y    float64
	radius  float64
	current float64
	mu      float64
}

func NewLoop(x, y, radius, current float64, opts ...Option) (*Loop, error) {
	const name = "loop"
	for _, p := range []struct {
		param string
		v     float64
	}{{"x", x}, {"y", y}, {"current", current}} {
		if err := requireFinite(name, p.param, p.v); err != nil {
			return nil, err
		}
	}
	if err := requirePositive(name, "radius", radius); err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	if err := requireFinite(name, "mu", o.mu); err != nil {
		return nil, err
	}
	return &Loop{x: x, y: y, radius: radius, current: current, mu: o.mu}, nil
}

func (l *Loop) Kind() string           { return "loop" }
func (l *Loop) Center() (x, y float64) { return l.x, l.y }
func (l *Loop) Radius() float64        { return l.radius }
func (l *Loop) Current() float64       { return l.current }
func (l *Loop) Permeability() float64  { return l.mu }

func (l *Loop) Params() map[string]float64 {
	return map[string]float64{"x": l.x, "y": l.y, "radius": l.radius, "current": l.current, "mu": l.mu}
}

// Field returns the loop field at each (x[i], y[i]). On the axis Br is 0
// and Bz takes the textbook on-axis value μIa²/(2(a²+z²)^{3/2}).
func (l *Loop) Field(x, y []float64) (bx, by []float64) {
	checkLen(x, y)

	bx = make([]float64, len(x))
	by = make([]float64, len(x))
	a := l.radius
	c := l.mu * l.current / (2 * math.Pi)

	for i := range x {
		dx := x[i] - l.x
		r := math.Abs(dx)
		z := y[i] - l.y

		if r <= axisTolerance {
			by[i] = l.mu * l.current * a * a / (2 * math.Pow(a*a+z*z, 1.5))
			continue
		}

		k := modulus(a, r, z)
		m := k * k
		bigK := elliptic.CompleteK(m)
		bigE := elliptic.CompleteE(m)

		q := math.Sqrt((a+r)*(a+r) + z*z)
		// Zero on the wire itself; left unguarded.
		near := (a-r)*(a-r) + z*z

		br := c * z / (r * q) * (-bigK + (a*a+r*r+z*z)/near*bigE)
		bz := c / q * (bigK + (a*a-r*r-z*z)/near*bigE)

		bx[i] = br * radialSign(dx)
		by[i] = bz
	}
	return bx, by
}

// At is the scalar form of Field.
func (l *Loop) At(x, y float64) (bx, by float64) {
	bxs, bys := l.Field([]float64{x}, []float64{y})
	return bxs[0], bys[0]
}

// Potential returns A_φ = (μI/(πk))·sqrt(a/r)·[(1 - k²/2)K - E], signed by
// the side of the axis the point lies on. It is 0 on the axis and where the
// modulus underflows.
func (l *Loop) Potential(x, y []float64) []float64 {
	checkLen(x, y)

	out := make([]float64, len(x))
	a := l.radius
	for i := range x {
		dx := x[i] - l.x
		r := math.Abs(dx)
		if r < axisTolerance {
			continue
		}
		k := modulus(a, r, y[i]-l.y)
		if k <= minModulus {
			continue
		}
		m := k * k
		term := (1-m/2)*elliptic.CompleteK(m) - elliptic.CompleteE(m)
		out[i] = (l.mu * l.current / (math.Pi * k)) * math.Sqrt(a/r) * term * radialSign(dx)
	}
	return out
}
