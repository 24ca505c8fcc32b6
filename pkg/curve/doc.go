// Package curve wraps gnark-crypto's BLS12-381 group and scalar arithmetic
// in the shapes the rest of this module needs: scalars as *big.Int reduced
// modulo the group order, affine G1/G2 points with multi-scalar
// multiplication, and a deterministic generator derivation used wherever the
// scheme needs a second, third, ... independent generator rather than a
// true random oracle hash-to-curve.
package curve
