package field

import (
	"math"

	"github.com/san-kum/magsim/internal/elliptic"
)

// Solenoid is a finite, uniformly wound coil with its axis along y,
// modelled as a cylindrical current sheet. It is the difference of two
// semi-infinite solenoids starting at the end caps ξ_high = z + L/2 and
// ξ_low = z - L/2.
type Solenoid struct {
	x, y    float64
	radius  float64
	length  float64
	turns   float64
	current float64
	mu      float64
	n       float64
}

// NewSolenoid builds a solenoid centred at (x, y). radius, length and turns
// must be strictly positive.
func NewSolenoid(x, y, radius, length, turns, current float64, opts ...Option) (*Solenoid, error) {
	const name = "solenoid"
	for _, p := range []struct {
		param string
		v     float64
	}{{"x", x}, {"y", y}, {"current", current}} {
		if err := requireFinite(name, p.param, p.v); err != nil {
			return nil, err
		}
	}
	for _, p := range []struct {
		param string
		v     float64
	}{{"radius", radius}, {"length", length}, {"turns", turns}} {
		if err := requirePositive(name, p.param, p.v); err != nil {
			return nil, err
		}
	}

	o := applyOptions(opts)
	if err := requireFinite(name, "mu", o.mu); err != nil {
		return nil, err
	}

	return &Solenoid{
		x:       x,
		y:       y,
		radius:  radius,
		length:  length,
		turns:   turns,
		current: current,
		mu:      o.mu,
		n:       turns / length,
	}, nil
}

func (s *Solenoid) Kind() string           { return "solenoid" }
func (s *Solenoid) Center() (x, y float64) { return s.x, s.y }
func (s *Solenoid) Radius() float64        { return s.radius }
func (s *Solenoid) Length() float64        { return s.length }
func (s *Solenoid) Turns() float64         { return s.turns }
func (s *Solenoid) Current() float64       { return s.current }
func (s *Solenoid) Permeability() float64  { return s.mu }
func (s *Solenoid) TurnDensity() float64   { return s.n }
func (s *Solenoid) axialOnAxis() float64   { return s.mu * s.n * s.current }

func (s *Solenoid) Params() map[string]float64 {
	return map[string]float64{
		"x": s.x, "y": s.y, "radius": s.radius, "length": s.length,
		"turns": s.turns, "current": s.current, "mu": s.mu,
	}
}

// Field returns the Cartesian field at each (x[i], y[i]).
func (s *Solenoid) Field(x, y []float64) (bx, by []float64) {
	checkLen(x, y)

	r := make([]float64, len(x))
	z := make([]float64, len(x))
	for i := range x {
		r[i] = math.Abs(x[i] - s.x)
		z[i] = y[i] - s.y
	}

	br, bz := s.Cylindrical(r, z)
	for i := range br {
		br[i] *= radialSign(x[i] - s.x)
	}
	return br, bz
}

// At is the scalar form of Field.
func (s *Solenoid) At(x, y float64) (bx, by float64) {
	bxs, bys := s.Field([]float64{x}, []float64{y})
	return bxs[0], bys[0]
}

// Cylindrical returns the outward radial and the axial components at
// radial distance r[i] and axial offset z[i] from the centre.
//
// Points within 1e-10 of the axis get br = 0 and bz = μnI, the ideal
// infinite-solenoid value, regardless of z.
func (s *Solenoid) Cylindrical(r, z []float64) (br, bz []float64) {
	checkLen(r, z)

	br = make([]float64, len(r))
	bz = make([]float64, len(r))

	axis, regular := partition(r)
	for _, i := range axis {
		bz[i] = s.axialOnAxis()
	}
	if len(regular) == 0 {
		return br, bz
	}

	rr := make([]float64, len(regular))
	zz := make([]float64, len(regular))
	for j, i := range regular {
		rr[j] = r[i]
		zz[j] = z[i]
	}

	rb, zb := s.offAxis(rr, zz)
	for j, i := range regular {
		br[i] = rb[j]
		bz[i] = zb[j]
	}
	return br, bz
}

// partition splits indices into near-axis and regular points.
func partition(r []float64) (axis, regular []int) {
	regular = make([]int, 0, len(r))
	for i, v := range r {
		if v <= axisTolerance {
			axis = append(axis, i)
		} else {
			regular = append(regular, i)
		}
	}
	return axis, regular
}

// edge holds the per-point elliptic quantities of one end cap.
type edge struct {
	ksi    []float64
	k      []float64
	m      []float64
	phi    []float64
	bigK   []float64
	bigE   []float64
	lambda []float64
}

func newEdge(n int) *edge {
	return &edge{
		ksi:    make([]float64, n),
		k:      make([]float64, n),
		m:      make([]float64, n),
		phi:    make([]float64, n),
		bigK:   make([]float64, n),
		bigE:   make([]float64, n),
		lambda: make([]float64, n),
	}
}

func (e *edge) eval(a float64, r []float64) {
	for i := range r {
		e.k[i] = modulus(a, r[i], e.ksi[i])
		e.m[i] = e.k[i] * e.k[i]
		// Singular at r == a; left unguarded.
		e.phi[i] = math.Atan(math.Abs(e.ksi[i] / (a - r[i])))
	}
	elliptic.CompleteKs(e.bigK, e.m)
	elliptic.CompleteEs(e.bigE, e.m)
	elliptic.HeumanLambdas(e.lambda, e.phi, e.k)
}

// radial is the bracketed Br term of one end cap.
func (e *edge) radial(i int) float64 {
	k := e.k[i]
	return ((2-e.m[i])/(2*k))*e.bigK[i] - e.bigE[i]/k
}

// axial is the bracketed Bz term of one end cap.
func (e *edge) axial(i int, a, r, sqrtAR float64) float64 {
	ksi := e.ksi[i]
	return ksi*e.k[i]/(math.Pi*sqrtAR)*e.bigK[i] + sign((a-r)*ksi)*e.lambda[i]
}

func (s *Solenoid) offAxis(r, z []float64) (br, bz []float64) {
	n := len(r)
	a := s.radius
	half := s.length / 2

	high, low := newEdge(n), newEdge(n)
	for i := range z {
		high.ksi[i] = z[i] + half
		low.ksi[i] = z[i] - half
	}
	high.eval(a, r)
	low.eval(a, r)

	base := s.mu * s.n * s.current
	br = make([]float64, n)
	bz = make([]float64, n)
	for i, ri := range r {
		// The closed form yields the inward component; flip to outward.
		br[i] = -(base / math.Pi) * math.Sqrt(a/ri) * (high.radial(i) - low.radial(i))

		sqrtAR := math.Max(math.Sqrt(a*ri), minSqrtAR)
		bz[i] = (base / 4) * (high.axial(i, a, ri, sqrtAR) - low.axial(i, a, ri, sqrtAR))
	}
	return br, bz
}
