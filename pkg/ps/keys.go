package ps

import (
	"fmt"
	"io"

	"github.com/anupsv/ps-anoncred/internal/common"
	"github.com/anupsv/ps-anoncred/pkg/curve"
)

// SecretKey is a Pointcheval-Sanders signing key for a fixed message count.
// Y holds one more entry than the message count: Y[0] is reserved for the
// per-signature m_tick nonce every signature carries, and Y[1:] are the
// per-message exponents.
type SecretKey struct {
	X curve.Scalar
	Y []curve.Scalar
}

// PublicKey is the corresponding verification key. G2Gen is carried
// explicitly (rather than assumed to be the global BLS12-381 base point) so
// a key pair is self-describing. Ytilde and YBlinds carry the same
// Y[0]-reserved-for-m_tick layout as SecretKey.Y.
type PublicKey struct {
	G2Gen  curve.G2
	Xtilde curve.G2
	Ytilde []curve.G2

	// YBlinds[i] = G1Generator^{Y[i]}, the G1-side public copy of the i-th
	// secret exponent. Required for blind issuance (pkg/blind): the
	// recipient's commitment must be built from the same y_i the signer's
	// exponent uses, since an independently derived G1 generator would break
	// the algebraic relation Unblind depends on to recover a valid signature.
	YBlinds []curve.G1
}

// KeyPair bundles a secret key with its public key.
type KeyPair struct {
	SecretKey *SecretKey
	PublicKey *PublicKey
}

// MessageCount returns the number of message slots this key pair supports,
// not counting the reserved m_tick slot.
func (pk *PublicKey) MessageCount() int { return len(pk.Ytilde) - 1 }

// MessageYtilde returns Y~ for message slot i (0-indexed over the
// MessageCount() message slots, not the underlying Y~[0] m_tick slot).
func (pk *PublicKey) MessageYtilde(i int) curve.G2 { return pk.Ytilde[i+1] }

// MessageYBlind returns y_blinds for message slot i.
func (pk *PublicKey) MessageYBlind(i int) curve.G1 { return pk.YBlinds[i+1] }

// TickYtilde returns Y~[0], the base the m_tick nonce is exponentiated
// against in the verification equation.
func (pk *PublicKey) TickYtilde() curve.G2 { return pk.Ytilde[0] }

// MessageY returns Y for message slot i.
func (sk *SecretKey) MessageY(i int) curve.Scalar { return sk.Y[i+1] }

// TickY returns Y[0], the exponent applied to a signature's m_tick.
func (sk *SecretKey) TickY() curve.Scalar { return sk.Y[0] }

// GenerateKeyPair creates a fresh PS key pair supporting messageCount
// message slots (plus one reserved slot for the m_tick nonce every
// signature carries). rng defaults to crypto/rand.Reader if nil.
func GenerateKeyPair(messageCount int, rng io.Reader) (*KeyPair, error) {
	if messageCount < 1 {
		return nil, fmt.Errorf("ps: %w: message count must be at least 1", common.ErrInvalidKeyGeneration)
	}

	x, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("ps: %w: %v", common.ErrInvalidKeyGeneration, err)
	}

	slots := messageCount + 1
	y := make([]curve.Scalar, slots)
	ytilde := make([]curve.G2, slots)
	yblinds := make([]curve.G1, slots)

	g2 := curve.G2Generator()
	g1 := curve.G1Generator()

	for i := 0; i < slots; i++ {
		yi, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("ps: %w: %v", common.ErrInvalidKeyGeneration, err)
		}
		y[i] = yi
		ytilde[i] = g2.ScalarMul(yi)
		yblinds[i] = g1.ScalarMul(yi)
	}

	sk := &SecretKey{X: x, Y: y}
	pk := &PublicKey{
		G2Gen:   g2,
		Xtilde:  g2.ScalarMul(x),
		Ytilde:  ytilde,
		YBlinds: yblinds,
	}

	return &KeyPair{SecretKey: sk, PublicKey: pk}, nil
}
