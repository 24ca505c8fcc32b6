package pok

import (
	"crypto/rand"
	"fmt"
	"io"
	"sort"

	"github.com/anupsv/ps-anoncred/internal/common"
	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/ps"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// Builder accumulates the state needed to produce a Proof: the randomized
// signature, the per-hidden-message Schnorr blinds, and the GT commitment
// they imply.
type Builder struct {
	sigma1, sigma2 curve.G1
	mTick          curve.Scalar
	pk             *ps.PublicKey

	hiddenIndices []int
	secrets       []curve.Scalar // one per hidden index, then t
	blinds        []curve.Scalar // matching secrets
	bases         []curve.Gt     // matching secrets
	commitment    curve.Gt
}

// Proof is the transmitted proof of knowledge: the randomized signature,
// the Schnorr responses for each hidden message and the blinding exponent
// t, and the challenge they were computed against.
type Proof struct {
	Sigma1          curve.G1
	Sigma2          curve.G1
	MTick           curve.Scalar
	HiddenIndices   []int
	HiddenResponses []curve.Scalar
	TResponse       curve.Scalar
	Challenge       curve.Scalar
}

func partitionIndices(messageCount int, revealed map[int]curve.Scalar, hidden []int) ([]int, error) {
	seen := make(map[int]bool, messageCount)
	for i := range revealed {
		seen[i] = true
	}
	sortedHidden := append([]int(nil), hidden...)
	sort.Ints(sortedHidden)
	for _, i := range sortedHidden {
		if seen[i] {
			return nil, fmt.Errorf("pok: %w: index %d both hidden and revealed", ErrDisclosureCoverage, i)
		}
		seen[i] = true
	}
	if len(seen) != messageCount {
		return nil, fmt.Errorf("pok: %w: expected %d distinct indices, got %d", ErrDisclosureCoverage, messageCount, len(seen))
	}
	for i := 0; i < messageCount; i++ {
		if !seen[i] {
			return nil, fmt.Errorf("pok: %w: index %d not covered", ErrDisclosureCoverage, i)
		}
	}
	return sortedHidden, nil
}

// Commit re-randomizes sig and builds a Schnorr commitment over the hidden
// messages (messages whose index is not a key of revealed) plus the
// re-randomization exponent t. externalBlinds supplies a fixed blinding
// factor for a hidden index instead of a freshly drawn one, enabling
// equality sub-proofs that reuse the same blind across two independent
// commitments sharing one Fiat-Shamir challenge.
func Commit(sig *ps.Signature, pk *ps.PublicKey, messages map[int]curve.Scalar, revealed map[int]curve.Scalar, externalBlinds map[int]curve.Scalar, rng io.Reader) (*Builder, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if len(messages) != pk.MessageCount() {
		return nil, fmt.Errorf("pok: %w: expected %d messages, got %d", common.ErrMismatchedLengths, pk.MessageCount(), len(messages))
	}

	allHidden := make([]int, 0, len(messages))
	for i := range messages {
		if _, ok := revealed[i]; !ok {
			allHidden = append(allHidden, i)
		}
	}
	hiddenIndices, err := partitionIndices(pk.MessageCount(), revealed, allHidden)
	if err != nil {
		return nil, err
	}

	r, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	t, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	sigma1p := sig.Sigma1.ScalarMul(r)
	sigma2p := sig.Sigma2.Add(sig.Sigma1.ScalarMul(t)).ScalarMul(r)
	if sigma1p.IsIdentity() {
		return nil, fmt.Errorf("pok: %w: re-randomization produced an identity sigma_1", common.ErrInvalidSignature)
	}

	secrets := make([]curve.Scalar, 0, len(hiddenIndices)+1)
	blinds := make([]curve.Scalar, 0, len(hiddenIndices)+1)
	bases := make([]curve.Gt, 0, len(hiddenIndices)+1)

	for _, i := range hiddenIndices {
		base, err := curve.PairSingle(sigma1p, pk.MessageYtilde(i))
		if err != nil {
			return nil, err
		}
		blind, ok := externalBlinds[i]
		if !ok {
			blind, err = curve.RandomScalar(rng)
			if err != nil {
				return nil, err
			}
		}
		secrets = append(secrets, messages[i])
		blinds = append(blinds, blind)
		bases = append(bases, base)
	}

	baseT, err := curve.PairSingle(sigma1p, pk.G2Gen)
	if err != nil {
		return nil, err
	}
	blindT, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	secrets = append(secrets, t)
	blinds = append(blinds, blindT)
	bases = append(bases, baseT)

	commitment, err := curve.MultiExpGt(bases, blinds)
	if err != nil {
		return nil, err
	}

	return &Builder{
		sigma1: sigma1p, sigma2: sigma2p, mTick: sig.MTick, pk: pk,
		hiddenIndices: hiddenIndices,
		secrets:       secrets, blinds: blinds, bases: bases,
		commitment: commitment,
	}, nil
}

// AddChallengeContribution absorbs the randomized signature and GT
// commitment into tr under the labels scheme.rs's PokSignature adds.
func (b *Builder) AddChallengeContribution(tr *transcript.Transcript) {
	tr.AppendG1("sigma_1", b.sigma1)
	tr.AppendG1("sigma_2", b.sigma2)
	tr.AppendMessage("commitment", b.commitment.Marshal())
}

// GenerateProof computes the Schnorr responses r_i = b_i - c*secret_i for
// each hidden message and for t, against challenge.
func (b *Builder) GenerateProof(challenge curve.Scalar) *Proof {
	responses := make([]curve.Scalar, len(b.secrets))
	for i, secret := range b.secrets {
		responses[i] = curve.SubMod(b.blinds[i], curve.MulMod(challenge, secret))
	}
	return &Proof{
		Sigma1:          b.sigma1,
		Sigma2:          b.sigma2,
		MTick:           b.mTick,
		HiddenIndices:   b.hiddenIndices,
		HiddenResponses: responses[:len(responses)-1],
		TResponse:       responses[len(responses)-1],
		Challenge:       challenge,
	}
}

// computeZ computes the public side of the GT relation Z = Π_hidden
// Base_i^m_i * BaseT^t, using the revealed messages, the signature's
// disclosed m_tick, and the public key -- which must equal the same value
// the prover's hidden-side commitment blinds. m_tick is always treated as
// known public metadata, so its contribution is folded in unconditionally
// rather than gated on the revealed map.
func computeZ(sigma1, sigma2 curve.G1, mTick curve.Scalar, pk *ps.PublicKey, revealed map[int]curve.Scalar) (curve.Gt, error) {
	lhs, err := curve.PairSingle(sigma2, pk.G2Gen)
	if err != nil {
		return curve.Gt{}, err
	}
	xPart, err := curve.PairSingle(sigma1, pk.Xtilde)
	if err != nil {
		return curve.Gt{}, err
	}
	tickPart, err := curve.PairSingle(sigma1, pk.TickYtilde())
	if err != nil {
		return curve.Gt{}, err
	}
	z := lhs.Mul(xPart.Inverse()).Mul(tickPart.Exp(mTick).Inverse())

	for i, m := range revealed {
		if i < 0 || i >= pk.MessageCount() {
			return curve.Gt{}, fmt.Errorf("pok: %w: revealed index %d out of range", common.ErrInvalidClaimData, i)
		}
		base, err := curve.PairSingle(sigma1, pk.MessageYtilde(i))
		if err != nil {
			return curve.Gt{}, err
		}
		z = z.Mul(base.Exp(m).Inverse())
	}
	return z, nil
}

// recomputeCommitment reconstructs the GT random commitment implied by p's
// responses, challenge, and the recomputed target Z, the GT analog of
// schnorr.RecomputeCommitment.
func (p *Proof) recomputeCommitment(pk *ps.PublicKey, revealed map[int]curve.Scalar, challenge curve.Scalar) (curve.Gt, error) {
	if len(p.HiddenIndices) != len(p.HiddenResponses) {
		return curve.Gt{}, fmt.Errorf("pok: %w: hidden index/response count mismatch", common.ErrMismatchedLengths)
	}

	bases := make([]curve.Gt, 0, len(p.HiddenIndices)+1)
	responses := make([]curve.Scalar, 0, len(p.HiddenIndices)+1)
	for idx, i := range p.HiddenIndices {
		base, err := curve.PairSingle(p.Sigma1, pk.MessageYtilde(i))
		if err != nil {
			return curve.Gt{}, err
		}
		bases = append(bases, base)
		responses = append(responses, p.HiddenResponses[idx])
	}
	baseT, err := curve.PairSingle(p.Sigma1, pk.G2Gen)
	if err != nil {
		return curve.Gt{}, err
	}
	bases = append(bases, baseT)
	responses = append(responses, p.TResponse)

	sum, err := curve.MultiExpGt(bases, responses)
	if err != nil {
		return curve.Gt{}, err
	}

	z, err := computeZ(p.Sigma1, p.Sigma2, p.MTick, pk, revealed)
	if err != nil {
		return curve.Gt{}, err
	}
	return sum.Mul(z.Exp(challenge)), nil
}

// AddProofContribution absorbs p into tr the way a Builder would, but
// reconstructing the GT commitment from the transmitted responses instead
// of holding it directly -- what lets a verifier, or a larger presentation
// sharing one transcript across several sub-proofs, re-derive the same
// challenge the prover committed to.
func (p *Proof) AddProofContribution(pk *ps.PublicKey, revealed map[int]curve.Scalar, challenge curve.Scalar, tr *transcript.Transcript) error {
	commitment, err := p.recomputeCommitment(pk, revealed, challenge)
	if err != nil {
		return err
	}
	tr.AppendG1("sigma_1", p.Sigma1)
	tr.AppendG1("sigma_2", p.Sigma2)
	tr.AppendMessage("commitment", commitment.Marshal())
	return nil
}

// Verify checks p as a self-contained, nonce-bound proof of knowledge: it
// rebuilds the transcript from p's own fields and confirms the redrawn
// challenge matches p.Challenge, and rejects a degenerate identity sigma_1
// (which would make every GT base in the relation trivial).
func Verify(p *Proof, pk *ps.PublicKey, revealed map[int]curve.Scalar, nonce curve.Scalar) error {
	if p.Sigma1.IsIdentity() {
		return fmt.Errorf("pok: %w: sigma_1 is the identity element", common.ErrProofVerificationFailed)
	}

	tr := transcript.New("signature proof of knowledge")
	if err := p.AddProofContribution(pk, revealed, p.Challenge, tr); err != nil {
		return err
	}
	tr.AppendScalar("nonce", nonce)
	recomputed := tr.ChallengeScalar("signature proof of knowledge")

	if recomputed.Cmp(p.Challenge) != 0 {
		return fmt.Errorf("pok: %w", common.ErrProofVerificationFailed)
	}
	return nil
}
