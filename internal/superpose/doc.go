// Package superpose combines independent field sources into a single
// field sample.
//
// An [Engine] holds an ordered list of [field.Source] values. [Engine.Evaluate]
// samples a resolution×resolution mesh, hands every source the whole
// flattened point set in one batch call (split into contiguous chunks for
// large meshes) and sums the contributions in registration order:
//
//	eng := superpose.New().
//	    AddSource(coil).
//	    AddSource(magnet)
//	sample, err := eng.Evaluate(grid.Range{Min: -0.2, Max: 0.2}, grid.Range{Min: -0.15, Max: 0.35}, 50)
//
// # Thread Safety
//
// Evaluation only reads source geometry and may run concurrently with other
// evaluations; the most recent sample behind [Engine.Last] is guarded by a
// mutex. AddSource and Remove must not race with evaluation.
package superpose
