package field

import "math"

// Mu0 is the vacuum permeability in H/m.
const Mu0 = 4 * math.Pi * 1e-7

const (
	// Points closer than this to a symmetry axis are treated as on-axis.
	axisTolerance = 1e-10

	maxModulusSq   = 0.9999
	minDenominator = 1e-12
	minModulus     = 1e-10
	minSqrtAR      = 1e-10

	// Radius of the region around a dipole where the field is forced to zero.
	dipoleCore = 1e-10
)

// Source is anything that can evaluate its field over a batch of points.
// Field panics if len(x) != len(y); the returned slices are freshly
// allocated and have the same length as the input.
type Source interface {
	Field(x, y []float64) (bx, by []float64)
}

// PotentialSource is implemented by sources exposing the azimuthal vector
// potential A_φ, mapped onto the plane with the sign of x - center.
type PotentialSource interface {
	Source
	Potential(x, y []float64) []float64
}

// Kinded sources report a short, stable type name ("solenoid", "dipole", ...).
type Kinded interface {
	Kind() string
}

// Parameterized sources expose their construction parameters by name.
type Parameterized interface {
	Params() map[string]float64
}

type Option func(*options)

type options struct {
	mu          float64
	orientation float64
	oriented    bool
}

func defaultOptions() options {
	return options{mu: Mu0}
}

// WithPermeability overrides the default vacuum permeability.
func WithPermeability(mu float64) Option {
	return func(o *options) { o.mu = mu }
}

// WithOrientation sets a dipole's moment direction in degrees from +x
// (90 is +y, the default). Sources without an orientation ignore it.
func WithOrientation(deg float64) Option {
	return func(o *options) {
		o.orientation = deg
		o.oriented = true
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func checkLen(x, y []float64) {
	if len(x) != len(y) {
		panic("field: x and y length mismatch")
	}
}

// radialSign maps a signed displacement from the axis to ±1, with +1 on
// the axis itself. The tie-break is arbitrary and only kept stable.
func radialSign(dx float64) float64 {
	if dx < 0 {
		return -1
	}
	return 1
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	case v == 0:
		return 0
	}
	return math.NaN()
}

func requireFinite(source, param string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ParameterError{Source: source, Param: param, Value: v, Wrapped: ErrNonFinite}
	}
	return nil
}

func requirePositive(source, param string, v float64) error {
	if err := requireFinite(source, param, v); err != nil {
		return err
	}
	if v <= 0 {
		return &ParameterError{Source: source, Param: param, Value: v, Wrapped: ErrInvalidGeometry}
	}
	return nil
}

// modulus returns the clamped elliptic modulus k(r, ξ) for a ring of
// radius a seen from radial distance r and axial offset ξ.
func modulus(a, r, ksi float64) float64 {
	d := ksi*ksi + (a+r)*(a+r)
	if d == 0 {
		d = minDenominator
	}
	m := 4 * a * r / d
	if m < 0 {
		m = 0
	} else if m > maxModulusSq {
		m = maxModulusSq
	}
	return math.Max(math.Sqrt(m), minModulus)
}
