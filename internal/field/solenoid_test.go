package field

import (
	"errors"
	"math"
	"testing"
)

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

func testCoil(t *testing.T) *Solenoid {
	t.Helper()
	s, err := NewSolenoid(0, 0, 0.05, 0.20, 100, 1.0)
	if err != nil {
		t.Fatalf("new solenoid: %v", err)
	}
	return s
}

func TestNewSolenoidRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name    string
		radius  float64
		length  float64
		turns   float64
		param   string
		wantErr error
	}{
		{"zero radius", 0, 0.2, 100, "radius", ErrInvalidGeometry},
		{"negative radius", -0.05, 0.2, 100, "radius", ErrInvalidGeometry},
		{"zero length", 0.05, 0, 100, "length", ErrInvalidGeometry},
		{"negative length", 0.05, -1, 100, "length", ErrInvalidGeometry},
		{"zero turns", 0.05, 0.2, 0, "turns", ErrInvalidGeometry},
		{"nan radius", math.NaN(), 0.2, 100, "radius", ErrNonFinite},
		{"inf length", 0.05, math.Inf(1), 100, "length", ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSolenoid(0, 0, tt.radius, tt.length, tt.turns, 1.0)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if s != nil {
				t.Error("expected nil solenoid on error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			var pe *ParameterError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParameterError, got %T", err)
			}
			if pe.Param != tt.param {
				t.Errorf("expected param %s, got %s", tt.param, pe.Param)
			}
		})
	}
}

func TestSolenoidDerivedDensity(t *testing.T) {
	s := testCoil(t)
	if s.TurnDensity() != 500 {
		t.Errorf("expected n=500, got %f", s.TurnDensity())
	}
	if s.Permeability() != Mu0 {
		t.Errorf("expected vacuum permeability, got %g", s.Permeability())
	}

	custom, err := NewSolenoid(0, 0, 0.05, 0.2, 100, 1, WithPermeability(2*Mu0))
	if err != nil {
		t.Fatal(err)
	}
	if custom.Permeability() != 2*Mu0 {
		t.Errorf("expected 2*Mu0, got %g", custom.Permeability())
	}
}

func TestSolenoidOnAxisExact(t *testing.T) {
	s := testCoil(t)
	want := Mu0 * s.TurnDensity() * s.Current()

	for _, y := range []float64{-1, -0.1, 0, 0.05, 0.3, 10} {
		for _, x := range []float64{0, 1e-10, -1e-10, 5e-11} {
			bx, by := s.At(x, y)
			if bx != 0 {
				t.Errorf("(%g, %g): expected Bx=0, got %g", x, y, bx)
			}
			if by != want {
				t.Errorf("(%g, %g): expected By=%g exactly, got %g", x, y, want, by)
			}
		}
	}
}

func TestSolenoidCentreScenario(t *testing.T) {
	s := testCoil(t)
	bx, by := s.At(0, 0)

	if math.Abs(bx) > 1e-15 {
		t.Errorf("expected Bx≈0, got %g", bx)
	}
	if relErr(by, 6.283e-4) > 0.01 {
		t.Errorf("expected By≈6.283e-4, got %g", by)
	}
}

func TestSolenoidReflectionSymmetry(t *testing.T) {
	s := testCoil(t)
	xs := []float64{0.01, 0.03, 0.049, 0.07, 0.12, 0.4}
	ys := []float64{-0.25, -0.1, -0.03, 0, 0.02, 0.15, 0.5}

	for _, x := range xs {
		for _, y := range ys {
			bx1, by1 := s.At(x, y)
			bx2, by2 := s.At(-x, y)
			if math.Abs(bx1+bx2) > 1e-12*math.Max(1, math.Abs(bx1)) {
				t.Errorf("(%g, %g): radial not antisymmetric: %g vs %g", x, y, bx1, bx2)
			}
			if math.Abs(by1-by2) > 1e-12*math.Max(1, math.Abs(by1)) {
				t.Errorf("(%g, %g): axial not symmetric: %g vs %g", x, y, by1, by2)
			}
		}
	}
}

func TestSolenoidMidplaneHasNoRadialField(t *testing.T) {
	s := testCoil(t)
	for _, x := range []float64{0.01, 0.03, 0.08, 0.2} {
		bx, _ := s.At(x, 0)
		if math.Abs(bx) > 1e-12 {
			t.Errorf("x=%g: expected Bx≈0 on the midplane, got %g", x, bx)
		}
	}
}

func TestSolenoidNearAxisMatchesFiniteAxisFormula(t *testing.T) {
	s := testCoil(t)
	a, half := s.Radius(), s.Length()/2
	base := Mu0 * s.TurnDensity() * s.Current()

	for _, z := range []float64{-0.3, -0.05, 0, 0.08, 0.25} {
		hi, lo := z+half, z-half
		want := base / 2 * (hi/math.Hypot(hi, a) - lo/math.Hypot(lo, a))

		_, by := s.At(1e-4, z)
		if relErr(by, want) > 1e-3 {
			t.Errorf("z=%g: expected By≈%g, got %g", z, want, by)
		}
	}
}

func TestSolenoidFarFieldApproachesDipole(t *testing.T) {
	s := testCoil(t)
	moment := s.Turns() * s.Current() * math.Pi * s.Radius() * s.Radius()
	d, err := NewDipole(0, 0, moment)
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range [][2]float64{{1.2, 1.6}, {-1.2, 1.6}, {2.0, 0.3}, {0.4, -2.0}} {
		sx, sy := s.At(p[0], p[1])
		dx, dy := d.At(p[0], p[1])
		diff := math.Hypot(sx-dx, sy-dy)
		if diff > 0.05*math.Hypot(dx, dy) {
			t.Errorf("%v: solenoid (%g, %g) far from dipole (%g, %g)", p, sx, sy, dx, dy)
		}
	}
}

func TestSolenoidFieldFlaresOutwardAboveCoil(t *testing.T) {
	s := testCoil(t)
	bx, _ := s.At(0.03, 0.12)
	if bx <= 0 {
		t.Errorf("expected outward Bx above the coil for positive current, got %g", bx)
	}
	bx, _ = s.At(-0.03, 0.12)
	if bx >= 0 {
		t.Errorf("expected outward (negative) Bx left of the axis, got %g", bx)
	}
}

func TestSolenoidBatchMatchesScalar(t *testing.T) {
	s := testCoil(t)
	xs := []float64{0, 0.01, -0.02, 0.1, 0, 0.3}
	ys := []float64{0, 0.05, -0.2, 0.1, 0.4, -0.01}

	bx, by := s.Field(xs, ys)
	if len(bx) != len(xs) || len(by) != len(xs) {
		t.Fatalf("expected %d outputs, got %d/%d", len(xs), len(bx), len(by))
	}
	for i := range xs {
		sx, sy := s.At(xs[i], ys[i])
		if bx[i] != sx || by[i] != sy {
			t.Errorf("point %d: batch (%g, %g) != scalar (%g, %g)", i, bx[i], by[i], sx, sy)
		}
	}

	ex, ey := s.Field(nil, nil)
	if len(ex) != 0 || len(ey) != 0 {
		t.Error("expected empty output for empty input")
	}
}

func TestSolenoidCylindricalAgreesWithField(t *testing.T) {
	s := testCoil(t)
	br, bz := s.Cylindrical([]float64{0.02}, []float64{0.09})
	bx, by := s.At(-0.02, 0.09)
	if bx != -br[0] || by != bz[0] {
		t.Errorf("cylindrical (%g, %g) disagrees with field (%g, %g)", br[0], bz[0], bx, by)
	}
}

func TestSolenoidWindingCornerIsIsolatedNaN(t *testing.T) {
	s := testCoil(t)

	bx, by := s.Field([]float64{0.05, 0.02}, []float64{0.1, 0.1})
	if !math.IsNaN(by[0]) {
		t.Errorf("expected NaN at the winding corner, got %g", by[0])
	}
	if math.IsNaN(bx[0]) {
		t.Error("expected finite radial component at the winding corner")
	}
	if math.IsNaN(bx[1]) || math.IsNaN(by[1]) {
		t.Error("expected neighbouring point to stay finite")
	}

	// On the winding radius but away from the end caps the field is finite.
	ax, ay := s.At(0.05, 0)
	if math.IsNaN(ax) || math.IsNaN(ay) || math.IsInf(ay, 0) {
		t.Errorf("expected finite field at (a, 0), got (%g, %g)", ax, ay)
	}
}

func TestFieldLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on mismatched lengths")
		}
	}()
	testCoil(t).Field([]float64{0, 1}, []float64{0})
}
