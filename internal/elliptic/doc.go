// Package elliptic exposes the elliptic integrals used by the closed-form
// field models.
//
// Every function takes the PARAMETER m = k², never the modulus k, except
// [HeumanLambda] which is conventionally written in terms of k:
//
//   - [CompleteK], [CompleteE]: complete integrals of the first and second kind
//   - [IncompleteF], [IncompleteE]: incomplete integrals at amplitude phi
//   - [HeumanLambda]: Heuman's Lambda function Λ₀(phi, k)
//
// The slice variants ([CompleteKs] and friends) evaluate element-wise into
// a destination slice, in the style of gonum's floats package.
//
// Nothing here clamps its input. A parameter outside [0, 1] or a NaN
// argument yields NaN; K(1) is +Inf. Callers that need to stay clear of the
// logarithmic singularity at m = 1 clamp before calling.
package elliptic
