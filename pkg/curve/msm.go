package curve

import bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

// SumOfProductsG1 computes Σ scalars[i]*points[i] in G1. gnark-crypto does
// not expose a ready-made multi-scalar-multiplication entry point for this
// scheme's ad hoc per-call point sets (its own MSM machinery targets SRS-
// sized, precomputed point tables), so this accumulates in Jacobian
// coordinates directly, batching additions to keep cache locality on large
// statements such as a presentation's combined generator sum.
func SumOfProductsG1(points []G1, scalars []Scalar) (G1, error) {
	if len(points) != len(scalars) {
		return G1{}, ErrMismatchedLengths
	}
	if len(points) == 0 {
		return G1{}, nil
	}

	const batchSize = 8
	var acc bls12381.G1Jac
	acc.X.SetOne()
	acc.Y.SetOne()
	acc.Z.SetZero() // identity in Jacobian form

	accumulate := func(i int) {
		if scalars[i].Sign() == 0 || points[i].p.IsInfinity() {
			return
		}
		var tmp bls12381.G1Jac
		tmp.FromAffine(&points[i].p)
		tmp.ScalarMultiplication(&tmp, scalars[i])
		acc.AddAssign(&tmp)
	}

	full := (len(points) / batchSize) * batchSize
	for i := 0; i < full; i += batchSize {
		for j := i; j < i+batchSize; j++ {
			accumulate(j)
		}
	}
	for i := full; i < len(points); i++ {
		accumulate(i)
	}

	var r bls12381.G1Affine
	r.FromJacobian(&acc)
	return G1{p: r}, nil
}

// SumOfProductsG2 is the G2 analog of SumOfProductsG1, used for the
// Σ Y~_i·m_i term of PS verification in ps.Verify and ps.BatchVerify.
func SumOfProductsG2(points []G2, scalars []Scalar) (G2, error) {
	if len(points) != len(scalars) {
		return G2{}, ErrMismatchedLengths
	}
	if len(points) == 0 {
		return G2{}, nil
	}

	var acc bls12381.G2Jac
	acc.X.SetOne()
	acc.Y.SetOne()
	acc.Z.SetZero()

	for i := range points {
		if scalars[i].Sign() == 0 || points[i].p.IsInfinity() {
			continue
		}
		var tmp bls12381.G2Jac
		tmp.FromAffine(&points[i].p)
		tmp.ScalarMultiplication(&tmp, scalars[i])
		acc.AddAssign(&tmp)
	}

	var r bls12381.G2Affine
	r.FromJacobian(&acc)
	return G2{p: r}, nil
}
