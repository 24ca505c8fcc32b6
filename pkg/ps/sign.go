package ps

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/anupsv/ps-anoncred/internal/common"
	"github.com/anupsv/ps-anoncred/pkg/curve"
)

// Signature is a Pointcheval-Sanders signature (sigma_1, sigma_2, m_tick)
// over a fixed-length message vector. m_tick is a per-signing nonce bound
// into sigma_2 via the reserved Y[0]/Ytilde[0] slot; it travels alongside
// the signature as public metadata rather than as a hidden message, so
// pkg/pok and pkg/blind treat it as always disclosed.
type Signature struct {
	Sigma1 curve.G1
	Sigma2 curve.G1
	MTick  curve.Scalar
}

// Sign computes a PS signature over messages, which must have exactly
// pk.MessageCount() entries. A fresh nonzero m_tick is sampled per call and
// folded into the exponent via the reserved Y[0] slot.
func Sign(sk *SecretKey, pk *PublicKey, messages []curve.Scalar, rng io.Reader) (*Signature, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if len(messages) != len(sk.Y)-1 {
		return nil, fmt.Errorf("ps: %w: expected %d messages, got %d", common.ErrMismatchedLengths, len(sk.Y)-1, len(messages))
	}

	mTick, err := nonzeroScalar(rng)
	if err != nil {
		return nil, err
	}

	u, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	h := curve.G1Generator().ScalarMul(u)
	if h.IsIdentity() {
		return nil, fmt.Errorf("ps: %w: sampled identity for sigma_1", common.ErrInvalidSignature)
	}

	exp := curve.AddMod(sk.X, curve.MulMod(sk.TickY(), mTick))
	for i, m := range messages {
		exp = curve.AddMod(exp, curve.MulMod(sk.MessageY(i), m))
	}

	return &Signature{
		Sigma1: h,
		Sigma2: h.ScalarMul(exp),
		MTick:  mTick,
	}, nil
}

func nonzeroScalar(rng io.Reader) (curve.Scalar, error) {
	for {
		s, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		if s.Sign() != 0 {
			return s, nil
		}
	}
}

// Verify checks a PS signature against pk and messages via
// e(sigma_1, X~ * Ytilde[0]^m_tick * Pi Y~_i^{m_i}) == e(sigma_2, g~),
// rejecting sigma_1 == 1, which the PS security proof requires: an identity
// sigma_1 makes the pairing equation trivially satisfiable by any sigma_2.
func Verify(pk *PublicKey, sig *Signature, messages []curve.Scalar) error {
	if len(messages) != pk.MessageCount() {
		return fmt.Errorf("ps: %w: expected %d messages, got %d", common.ErrMismatchedLengths, pk.MessageCount(), len(messages))
	}
	if sig.Sigma1.IsIdentity() {
		return fmt.Errorf("ps: %w: sigma_1 is the identity element", common.ErrInvalidSignature)
	}

	// X~ and the m_tick term contribute with a fixed structure, so they're
	// added directly rather than folded into the multi-scalar sum over the
	// per-message Y~_i.
	acc, err := curve.SumOfProductsG2(pk.Ytilde[1:], messages)
	if err != nil {
		return fmt.Errorf("ps: %w: %v", common.ErrInvalidSignature, err)
	}
	rhs := pk.Xtilde.Add(pk.TickYtilde().ScalarMul(sig.MTick)).Add(acc)

	ok, err := curve.MultiPairingIsIdentity(
		[]curve.G1{sig.Sigma1, sig.Sigma2.Neg()},
		[]curve.G2{rhs, pk.G2Gen},
	)
	if err != nil {
		return fmt.Errorf("ps: %w: %v", common.ErrInvalidSignature, err)
	}
	if !ok {
		return fmt.Errorf("ps: %w", common.ErrInvalidSignature)
	}
	return nil
}

// Randomize re-randomizes sig with a fresh random scalar r, returning a
// signature that verifies under the same public key and messages but is
// unlinkable to the prior one. m_tick is carried through unchanged: it is
// not part of the (sigma_1, sigma_2) pair being rescaled, just a scalar
// that rescaling leaves untouched. This is exposed standalone from the
// proof construction in pkg/pok, which performs the same rerandomization
// as a distinct step before building its proof-of-knowledge commitment.
func Randomize(sig *Signature, rng io.Reader) (*Signature, curve.Scalar, error) {
	r, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	return &Signature{
		Sigma1: sig.Sigma1.ScalarMul(r),
		Sigma2: sig.Sigma2.ScalarMul(r),
		MTick:  sig.MTick,
	}, r, nil
}
