package blind

import (
	"crypto/rand"
	"fmt"
	"io"
	"sort"

	"github.com/anupsv/ps-anoncred/internal/common"
	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/ps"
	"github.com/anupsv/ps-anoncred/pkg/schnorr"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// Context is a recipient's commitment to a set of blinded messages, along
// with a Schnorr proof that the commitment opens to those messages, sent to
// the signer as the blind signing request. Only Commitment, Challenge, and
// Responses cross the wire, since the verifier re-derives the random
// commitment from them.
type Context struct {
	Commitment curve.G1
	Challenge  curve.Scalar
	Responses  []curve.Scalar
}

// BlindSignature is the signer's output over a commitment plus any messages
// supplied in the clear. It is not yet a valid ps.Signature; the recipient
// must call Unblind with the blinding factor it generated in NewContext.
// MTick is the nonce the signer sampled for this issuance, always disclosed
// as public metadata rather than hidden behind the recipient's blinding.
type BlindSignature struct {
	Sigma1 curve.G1
	Sigma2 curve.G1
	MTick  curve.Scalar
}

func sortedIndices(blinded map[int]curve.Scalar) []int {
	indices := make([]int, 0, len(blinded))
	for i := range blinded {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

func blindBases(pk *ps.PublicKey, indices []int) ([]curve.G1, error) {
	bases := make([]curve.G1, 0, len(indices)+1)
	for _, i := range indices {
		if i < 0 || i >= pk.MessageCount() {
			return nil, fmt.Errorf("blind: %w: index %d out of range", common.ErrInvalidBlindIndex, i)
		}
		bases = append(bases, pk.MessageYBlind(i))
	}
	bases = append(bases, curve.G1Generator())
	return bases, nil
}

func absorbContextPreamble(pk *ps.PublicKey, nonce curve.Scalar) (*transcript.Transcript, error) {
	tr := transcript.New("new blind signature")
	pkBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	tr.AppendMessage("public key", pkBytes)
	tr.AppendScalar("nonce", nonce)
	return tr, nil
}

// NewContext builds a blind signing request over the messages in blinded
// (keyed by message index), committing to Σ m_i*YBlinds[i] + blinding*G1
// and proving knowledge of the opening. It returns the context to send to
// the signer and the blinding factor the recipient must keep to unblind the
// resulting signature.
func NewContext(pk *ps.PublicKey, blinded map[int]curve.Scalar, nonce curve.Scalar, rng io.Reader) (*Context, curve.Scalar, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if len(blinded) == 0 {
		return nil, nil, fmt.Errorf("blind: %w: no messages to blind", common.ErrInvalidBlindIndex)
	}

	indices := sortedIndices(blinded)
	bases, err := blindBases(pk, indices)
	if err != nil {
		return nil, nil, err
	}

	committer := schnorr.NewCommitter()
	for _, base := range bases {
		if _, err := committer.CommitRandom(rng, base); err != nil {
			return nil, nil, err
		}
	}

	blinding, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}

	secrets := make([]curve.Scalar, 0, len(indices)+1)
	for _, i := range indices {
		secrets = append(secrets, blinded[i])
	}
	secrets = append(secrets, blinding)

	commitment, err := curve.SumOfProductsG1(bases, secrets)
	if err != nil {
		return nil, nil, err
	}

	tr, err := absorbContextPreamble(pk, nonce)
	if err != nil {
		return nil, nil, err
	}
	if err := committer.AddChallengeContribution(tr, "random commitment"); err != nil {
		return nil, nil, err
	}
	tr.AppendG1("blind commitment", commitment)
	challenge := tr.ChallengeScalar("blind signature context challenge")

	responses, err := committer.GenerateProof(challenge, secrets)
	if err != nil {
		return nil, nil, err
	}

	return &Context{
		Commitment: commitment,
		Challenge:  challenge,
		Responses:  responses,
	}, blinding, nil
}

// VerifyContext checks that ctx proves knowledge of an opening of its
// commitment over the messages at indices, re-deriving the commitment's
// random component from the responses and challenge, then re-deriving the
// challenge itself and checking it matches what ctx carries. This is the
// signer's check of the recipient's opening proof before it issues anything.
func VerifyContext(pk *ps.PublicKey, indices []int, ctx *Context, nonce curve.Scalar) error {
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	bases, err := blindBases(pk, sorted)
	if err != nil {
		return err
	}
	if len(ctx.Responses) != len(bases) {
		return fmt.Errorf("blind: %w: expected %d responses, got %d", common.ErrMismatchedLengths, len(bases), len(ctx.Responses))
	}

	randomCommitment, err := schnorr.RecomputeCommitment(bases, ctx.Responses, ctx.Challenge, ctx.Commitment)
	if err != nil {
		return fmt.Errorf("blind: %w: %v", ErrContextVerificationFailed, err)
	}

	tr, err := absorbContextPreamble(pk, nonce)
	if err != nil {
		return err
	}
	tr.AppendG1("random commitment", randomCommitment)
	tr.AppendG1("blind commitment", ctx.Commitment)
	challenge := tr.ChallengeScalar("blind signature context challenge")

	if challenge.Cmp(ctx.Challenge) != 0 {
		return fmt.Errorf("blind: %w", ErrContextVerificationFailed)
	}
	return nil
}

// Sign issues a blind signature over ctx's commitment plus any messages the
// signer was given directly (keyed by index, disjoint from the blinded
// indices ctx covers): sigma_1 = H = g1^u for fresh random u, and
// sigma_2 = Cm^u + H^(x + y_tick*m_tick + Σ y_j*m_j) over the revealed
// messages, which the recipient's Unblind later reduces to an ordinary PS
// signature. A fresh nonzero m_tick is sampled here, the same way direct
// ps.Sign does, and disclosed on the returned BlindSignature.
func Sign(ctx *Context, sk *ps.SecretKey, revealed map[int]curve.Scalar, rng io.Reader) (*BlindSignature, error) {
	if rng == nil {
		rng = rand.Reader
	}

	u, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	h := curve.G1Generator().ScalarMul(u)
	if h.IsIdentity() {
		return nil, fmt.Errorf("blind: %w: sampled identity for sigma_1", common.ErrInvalidSignature)
	}

	mTick, err := nonzeroScalar(rng)
	if err != nil {
		return nil, err
	}

	exp := curve.AddMod(sk.X, curve.MulMod(sk.TickY(), mTick))
	for i, m := range revealed {
		if i < 0 || i >= len(sk.Y)-1 {
			return nil, fmt.Errorf("blind: %w: index %d out of range", common.ErrInvalidBlindIndex, i)
		}
		exp = curve.AddMod(exp, curve.MulMod(sk.MessageY(i), m))
	}

	sigma2 := ctx.Commitment.ScalarMul(u).Add(h.ScalarMul(exp))

	return &BlindSignature{Sigma1: h, Sigma2: sigma2, MTick: mTick}, nil
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

// Unblind removes the recipient's blinding contribution from sig, yielding
// an ordinary PS signature over the full message vector (blinded messages
// plus whatever the signer was told directly). blinding must be the scalar
// NewContext returned alongside the context this signature answers.
func Unblind(sig *BlindSignature, blinding curve.Scalar) *ps.Signature {
	return &ps.Signature{
		Sigma1: sig.Sigma1,
		Sigma2: sig.Sigma2.Add(sig.Sigma1.ScalarMul(blinding).Neg()),
		MTick:  sig.MTick,
	}
}
