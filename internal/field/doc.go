// Package field provides closed-form magnetostatic sources in a 2D
// axisymmetric plane.
//
// Each source implements [Source], a batch evaluation over coordinate
// slices returning the Cartesian components (Bx, By):
//
//   - [Solenoid]: finite solenoid, elliptic-integral solution with the
//     Heuman Lambda correction off axis
//   - [Dipole]: point magnetic dipole, far-field approximation
//   - [Loop]: single circular current loop
//
// The symmetry axis of every source points along y; the radial distance
// is measured along x. Numerical degeneracies (points on an axis, a query
// at a dipole's own position) are resolved by flooring and clamping, never
// by returning an error. Points lying exactly on a solenoid's or loop's
// winding radius are a known singular boundary and may produce NaN or Inf.
//
// # Example
//
//	coil, err := field.NewSolenoid(0, 0, 0.05, 0.20, 100, 1.0)
//	if err != nil {
//	    return err
//	}
//	bx, by := coil.At(0.02, 0.05)
package field
