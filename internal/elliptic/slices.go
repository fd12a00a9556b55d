package elliptic

func checkLen(dst []float64, src ...[]float64) {
	for _, s := range src {
		if len(s) != len(dst) {
			panic("elliptic: slice length mismatch")
		}
	}
}

// CompleteKs stores K(m[i]) in dst[i] and returns dst.
func CompleteKs(dst, m []float64) []float64 {
	checkLen(dst, m)
	for i, v := range m {
		dst[i] = CompleteK(v)
	}
	return dst
}

// CompleteEs stores E(m[i]) in dst[i] and returns dst.
func CompleteEs(dst, m []float64) []float64 {
	checkLen(dst, m)
	for i, v := range m {
		dst[i] = CompleteE(v)
	}
	return dst
}

// IncompleteFs stores F(phi[i]|m[i]) in dst[i] and returns dst.
func IncompleteFs(dst, phi, m []float64) []float64 {
	checkLen(dst, phi, m)
	for i := range dst {
		dst[i] = IncompleteF(phi[i], m[i])
	}
	return dst
}

// IncompleteEs stores E(phi[i]|m[i]) in dst[i] and returns dst.
func IncompleteEs(dst, phi, m []float64) []float64 {
	checkLen(dst, phi, m)
	for i := range dst {
		dst[i] = IncompleteE(phi[i], m[i])
	}
	return dst
}

// HeumanLambdas stores Λ₀(phi[i], k[i]) in dst[i] and returns dst.
func HeumanLambdas(dst, phi, k []float64) []float64 {
	checkLen(dst, phi, k)
	for i := range dst {
		dst[i] = HeumanLambda(phi[i], k[i])
	}
	return dst
}
