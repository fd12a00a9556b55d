package fieldline

import "math"

// direction returns the unit field direction at p, or the reason no
// direction is defined there.
func (t *Tracer) direction(p Point) (dx, dy float64, stop StopReason) {
	bx, by := t.Field(p.X, p.Y)
	mag := math.Hypot(bx, by)
	switch {
	case math.IsNaN(mag) || math.IsInf(mag, 0):
		return 0, 0, StopNonFinite
	case mag < t.MinField:
		return 0, 0, StopWeakField
	}
	return bx / mag, by / mag, StopNone
}

// step advances p by h along the signed field direction.
func (t *Tracer) step(p Point, h float64) (Point, StopReason) {
	k1x, k1y, s := t.direction(p)
	if s != StopNone {
		return p, s
	}
	k2x, k2y, s := t.direction(Point{p.X + 0.5*h*k1x, p.Y + 0.5*h*k1y})
	if s != StopNone {
		return p, s
	}
	k3x, k3y, s := t.direction(Point{p.X + 0.5*h*k2x, p.Y + 0.5*h*k2y})
	if s != StopNone {
		return p, s
	}
	k4x, k4y, s := t.direction(Point{p.X + h*k3x, p.Y + h*k3y})
	if s != StopNone {
		return p, s
	}

	h6 := h / 6.0
	return Point{
		X: p.X + h6*(k1x+2*k2x+2*k3x+k4x),
		Y: p.Y + h6*(k1y+2*k2y+2*k3y+k4y),
	}, StopNone
}
