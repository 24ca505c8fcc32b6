package subproof

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// rangeBitWidth bounds the bit-decomposition this builder supports; spans
// wider than 2^rangeBitWidth are rejected rather than silently truncated.
const rangeBitWidth = 64

// RangeBuilder proves lower <= m <= upper for the value m committed by a
// referenced CommitmentBuilder, via bit-decomposition of low = m - lower and
// high = upper - m. Each bit is committed individually with a blinder drawn
// so that the place-value-weighted sum of the low-bit blinders equals the
// referenced commitment's own blinder r, and the high-bit blinders sum to
// -r. That makes Σ 2^i·C_low_i equal the referenced commitment shifted by
// -lower·g, and Σ 2^i·C_high_i equal upper·g minus the referenced
// commitment -- an identity the verifier checks using only public points.
// A range statement can only be built once its referenced commitment
// exists, since it needs that commitment's own value and blinder.
type RangeBuilder struct {
	lower, upper int64
	bitsLow      []*CommitmentBuilder
	bitsHigh     []*CommitmentBuilder
}

// RangeProof is the transmitted sub-proof.
type RangeProof struct {
	Lower, Upper int64
	BitsLow      []*CommitmentProof
	BitsHigh     []*CommitmentProof
}

func decomposeBits(v int64, width int) ([]curve.Scalar, error) {
	// Every non-negative int64 fits 63 bits; the shift is only evaluated for
	// narrower widths, since int64(1)<<63 and <<64 do not yield 2^width.
	if v < 0 || (width < 63 && v >= int64(1)<<uint(width)) {
		return nil, fmt.Errorf("subproof: %w: value %d does not fit %d bits", ErrRangeBitWidth, v, width)
	}
	bits := make([]curve.Scalar, width)
	for i := 0; i < width; i++ {
		if v&(int64(1)<<uint(i)) != 0 {
			bits[i] = big.NewInt(1)
		} else {
			bits[i] = big.NewInt(0)
		}
	}
	return bits, nil
}

// weightedBlinds draws width-1 random blinders and solves the last one so
// that Σ 2^i·blind_i == target (mod curve order).
func weightedBlinds(target curve.Scalar, width int, rng io.Reader) ([]curve.Scalar, error) {
	blinds := make([]curve.Scalar, width)
	partial := big.NewInt(0)
	for i := 0; i < width-1; i++ {
		b, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		blinds[i] = b
		partial = curve.AddMod(partial, curve.MulMod(pow2(i), b))
	}
	lastWeight := pow2(width - 1)
	remainder := curve.SubMod(target, partial)
	blinds[width-1] = curve.MulMod(remainder, curve.InverseMod(lastWeight))
	return blinds, nil
}

func pow2(i int) curve.Scalar {
	return new(big.Int).Lsh(big.NewInt(1), uint(i))
}

func commitBits(bits, blinds []curve.Scalar, rng io.Reader) ([]*CommitmentBuilder, error) {
	out := make([]*CommitmentBuilder, len(bits))
	for i := range bits {
		cb, err := NewCommitmentWithBlind(bits[i], blinds[i], rng)
		if err != nil {
			return nil, err
		}
		out[i] = cb
	}
	return out, nil
}

// NewRange builds the bit-decomposition commitments for a Range statement
// over the value and blinder of a referenced Commitment builder.
func NewRange(referencedValue, referencedBlind curve.Scalar, lower, upper int64, rng io.Reader) (*RangeBuilder, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if upper < lower {
		return nil, fmt.Errorf("subproof: %w: upper %d below lower %d", ErrRangeBitWidth, upper, lower)
	}

	v := referencedValue.Int64()
	low := v - lower
	high := upper - v

	lowBits, err := decomposeBits(low, rangeBitWidth)
	if err != nil {
		return nil, err
	}
	highBits, err := decomposeBits(high, rangeBitWidth)
	if err != nil {
		return nil, err
	}

	lowBlinds, err := weightedBlinds(referencedBlind, rangeBitWidth, rng)
	if err != nil {
		return nil, err
	}
	highBlinds, err := weightedBlinds(curve.NegMod(referencedBlind), rangeBitWidth, rng)
	if err != nil {
		return nil, err
	}

	bitsLow, err := commitBits(lowBits, lowBlinds, rng)
	if err != nil {
		return nil, err
	}
	bitsHigh, err := commitBits(highBits, highBlinds, rng)
	if err != nil {
		return nil, err
	}

	return &RangeBuilder{lower: lower, upper: upper, bitsLow: bitsLow, bitsHigh: bitsHigh}, nil
}

// AddChallengeContribution absorbs every bit commitment's contribution, in
// low-then-high, low-order-to-high-order bit sequence.
func (b *RangeBuilder) AddChallengeContribution(tr *transcript.Transcript) error {
	tr.AppendUint64("range lower", uint64(b.lower))
	tr.AppendUint64("range upper", uint64(b.upper))
	for _, cb := range b.bitsLow {
		if err := cb.AddChallengeContribution(tr); err != nil {
			return err
		}
	}
	for _, cb := range b.bitsHigh {
		if err := cb.AddChallengeContribution(tr); err != nil {
			return err
		}
	}
	return nil
}

// GenerateProof emits each bit's opening proof.
func (b *RangeBuilder) GenerateProof(challenge curve.Scalar) (*RangeProof, error) {
	low := make([]*CommitmentProof, len(b.bitsLow))
	for i, cb := range b.bitsLow {
		p, err := cb.GenerateProof(challenge)
		if err != nil {
			return nil, err
		}
		low[i] = p
	}
	high := make([]*CommitmentProof, len(b.bitsHigh))
	for i, cb := range b.bitsHigh {
		p, err := cb.GenerateProof(challenge)
		if err != nil {
			return nil, err
		}
		high[i] = p
	}
	return &RangeProof{Lower: b.lower, Upper: b.upper, BitsLow: low, BitsHigh: high}, nil
}

// AddProofContribution absorbs p the way a RangeBuilder would.
func (p *RangeProof) AddProofContribution(challenge curve.Scalar, tr *transcript.Transcript) error {
	tr.AppendUint64("range lower", uint64(p.Lower))
	tr.AppendUint64("range upper", uint64(p.Upper))
	for _, bp := range p.BitsLow {
		if err := bp.AddProofContribution(challenge, tr); err != nil {
			return err
		}
	}
	for _, bp := range p.BitsHigh {
		if err := bp.AddProofContribution(challenge, tr); err != nil {
			return err
		}
	}
	return nil
}

func weightedSum(bits []*CommitmentProof) (curve.G1, error) {
	cs := make([]curve.G1, len(bits))
	weights := make([]curve.Scalar, len(bits))
	for i, bp := range bits {
		cs[i] = bp.C
		weights[i] = pow2(i)
	}
	return curve.SumOfProductsG1(cs, weights)
}

// CheckConsistency verifies p's bit decomposition reconstructs the
// referenced commitment shifted by lower and upper: Σ low_i·2^i ==
// referencedCommitment - lower·g, and Σ high_i·2^i == upper·g -
// referencedCommitment. It uses only the transmitted commitments and public
// bounds; the individual bit-opening Schnorr proofs are checked separately
// via each bit's AddProofContribution feeding the shared transcript the
// presentation-level challenge recomputation validates.
func (p *RangeProof) CheckConsistency(referencedCommitment curve.G1) bool {
	sumLow, err := weightedSum(p.BitsLow)
	if err != nil {
		return false
	}
	sumHigh, err := weightedSum(p.BitsHigh)
	if err != nil {
		return false
	}

	lowTarget := referencedCommitment.Add(commitmentGBase.ScalarMul(curve.NegMod(big.NewInt(p.Lower))))
	if !sumLow.Equal(lowTarget) {
		return false
	}

	highTarget := commitmentGBase.ScalarMul(big.NewInt(p.Upper)).Add(referencedCommitment.Neg())
	return sumHigh.Equal(highTarget)
}
