package elliptic

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

func inDomain(m float64) bool {
	return m >= 0 && m <= 1
}

// CompleteK returns K(m) for 0 ≤ m ≤ 1.
func CompleteK(m float64) float64 {
	if !inDomain(m) {
		return math.NaN()
	}
	return mathext.CompleteK(m)
}

// CompleteE returns E(m) for 0 ≤ m ≤ 1.
func CompleteE(m float64) float64 {
	if !inDomain(m) {
		return math.NaN()
	}
	return mathext.CompleteE(m)
}

// IncompleteF returns F(phi|m). phi is expected in [0, π/2].
func IncompleteF(phi, m float64) float64 {
	if !inDomain(m) || math.IsNaN(phi) {
		return math.NaN()
	}
	if phi == 0 {
		return 0
	}
	return mathext.EllipticF(phi, m)
}

// IncompleteE returns E(phi|m). phi is expected in [0, π/2].
func IncompleteE(phi, m float64) float64 {
	if !inDomain(m) || math.IsNaN(phi) {
		return math.NaN()
	}
	if phi == 0 {
		return 0
	}
	return mathext.EllipticE(phi, m)
}

// HeumanLambda returns Λ₀(phi, k) for modulus k:
//
//	Λ₀(phi, k) = 2/π · [E(k²)·F(phi|k′²) + K(k²)·E(phi|k′²) − K(k²)·F(phi|k′²)]
//
// with k′² = 1 − k². Λ₀(0, k) = 0, Λ₀(π/2, k) = 1 and Λ₀(phi, 0) = sin(phi).
func HeumanLambda(phi, k float64) float64 {
	m := k * k
	mc := 1 - m

	bigK := CompleteK(m)
	bigE := CompleteE(m)
	f := IncompleteF(phi, mc)
	e := IncompleteE(phi, mc)

	return (2 / math.Pi) * (bigE*f + bigK*e - bigK*f)
}
