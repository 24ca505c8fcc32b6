package curve

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/anupsv/ps-anoncred/internal/common"
)

// Scalar is an element of the BLS12-381 scalar field, always kept reduced
// modulo Order.
type Scalar = *big.Int

// Order returns the scalar field order shared by G1, G2 and GT.
func Order() *big.Int {
	return new(big.Int).Set(common.Order)
}

// RandomScalar draws a non-zero scalar from reader by reducing 64 bytes of
// entropy modulo Order, so the result is not measurably biased toward small
// residues; a zero result is replaced by 1. If reader is nil,
// crypto/rand.Reader is used.
func RandomScalar(reader io.Reader) (Scalar, error) {
	if reader == nil {
		reader = rand.Reader
	}

	// 64 bytes (512 bits) gives ~256 bits of slack over the ~255-bit order,
	// so reducing modulo Order introduces no measurable bias.
	buf := make([]byte, 64)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return nil, fmt.Errorf("curve: failed to read random bytes: %w", err)
	}

	n := new(big.Int).SetBytes(buf)
	n.Mod(n, common.Order)
	if n.Sign() == 0 {
		n.SetInt64(1)
	}
	return n, nil
}

// ScalarFromWideBytes reduces a 64-byte (or longer) digest into a scalar,
// the same wide-reduction technique used for Fiat-Shamir challenges so no
// single byte of the hash output dominates the result.
func ScalarFromWideBytes(b []byte) Scalar {
	n := new(big.Int).SetBytes(b)
	return n.Mod(n, common.Order)
}

// AddMod returns (a + b) mod Order.
func AddMod(a, b Scalar) Scalar {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, common.Order)
}

// SubMod returns (a - b) mod Order.
func SubMod(a, b Scalar) Scalar {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, common.Order)
}

// MulMod returns (a * b) mod Order.
func MulMod(a, b Scalar) Scalar {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, common.Order)
}

// NegMod returns (-a) mod Order.
func NegMod(a Scalar) Scalar {
	r := new(big.Int).Neg(a)
	return r.Mod(r, common.Order)
}

// InverseMod returns the modular inverse of a modulo Order, computed via
// Fermat's little theorem (a^(Order-2) mod Order) since Order is prime.
func InverseMod(a Scalar) Scalar {
	exp := new(big.Int).Sub(common.Order, big.NewInt(2))
	return new(big.Int).Exp(a, exp, common.Order)
}
