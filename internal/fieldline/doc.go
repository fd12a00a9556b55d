// Package fieldline traces magnetic field lines through a static field.
//
// A line is integrated along the unit field direction B/|B| with classic
// fourth-order Runge–Kutta, forward and backward from its seed, until it
// leaves the bounds, the field vanishes or becomes non-finite, or the
// step budget runs out. The result is a polyline a renderer can draw as a
// streamline; nothing here draws.
//
//	eng := superpose.New().AddSource(coil)
//	tr := fieldline.New(eng.At, fieldline.Bounds{X: xr, Y: yr})
//	lines, err := tr.TraceAll(ctx, fieldline.Seeds(xr, yr, 8, 8))
package fieldline
