package schnorr

import (
	"io"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// Committer accumulates (base, blind) pairs for a multi-base Schnorr
// commitment over G1: C_rand = Σ blind_i * base_i.
type Committer struct {
	bases  []curve.G1
	blinds []curve.Scalar
}

// NewCommitter returns an empty committer.
func NewCommitter() *Committer {
	return &Committer{}
}

// CommitRandom draws a fresh random blinding factor for base and records the
// pair, returning the blind so the caller can keep it for response
// generation (or supply an externally-fixed blind, e.g. for a shared
// equality blinder across multiple statements, via CommitWithBlind).
func (c *Committer) CommitRandom(rng io.Reader, base curve.G1) (curve.Scalar, error) {
	b, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	c.CommitWithBlind(base, b)
	return b, nil
}

// CommitWithBlind records a (base, blind) pair using a caller-supplied
// blinding factor, used when a blind must be shared across multiple
// Schnorr commitments to later prove two secrets are equal.
func (c *Committer) CommitWithBlind(base curve.G1, blind curve.Scalar) {
	c.bases = append(c.bases, base)
	c.blinds = append(c.blinds, blind)
}

// Commitment returns C_rand = Σ blind_i * base_i.
func (c *Committer) Commitment() (curve.G1, error) {
	return curve.SumOfProductsG1(c.bases, c.blinds)
}

// AddChallengeContribution absorbs the commitment point (not its bases) into
// tr under the given label, so the challenge the caller later draws from tr
// binds to this commitment.
func (c *Committer) AddChallengeContribution(tr *transcript.Transcript, label string) error {
	comm, err := c.Commitment()
	if err != nil {
		return err
	}
	tr.AppendG1(label, comm)
	return nil
}

// GenerateProof computes the response r_i = b_i - c*secret_i for each
// recorded base, in the order bases were committed.
func (c *Committer) GenerateProof(challenge curve.Scalar, secrets []curve.Scalar) ([]curve.Scalar, error) {
	if len(secrets) != len(c.blinds) {
		return nil, ErrSecretCountMismatch
	}
	responses := make([]curve.Scalar, len(secrets))
	for i, secret := range secrets {
		responses[i] = curve.SubMod(c.blinds[i], curve.MulMod(challenge, secret))
	}
	return responses, nil
}

// Bases returns the bases committed so far, in commitment order.
func (c *Committer) Bases() []curve.G1 {
	return c.bases
}

// RecomputeCommitment reconstructs the random commitment C_rand implied by a
// set of responses, a challenge, and the secret's commitment, using the
// identity Σ r_i*base_i + c*secretCommitment == C_rand that the subtraction-
// form response guarantees. Self-contained Fiat-Shamir proofs (where only
// the secret commitment, challenge, and responses are transmitted, not
// C_rand itself) use this to re-derive C_rand before re-deriving the
// challenge and checking it matches what was transmitted.
func RecomputeCommitment(bases []curve.G1, responses []curve.Scalar, challenge curve.Scalar, secretCommitment curve.G1) (curve.G1, error) {
	if len(bases) != len(responses) {
		return curve.G1{}, ErrSecretCountMismatch
	}
	sum, err := curve.SumOfProductsG1(bases, responses)
	if err != nil {
		return curve.G1{}, err
	}
	return sum.Add(secretCommitment.ScalarMul(challenge)), nil
}

// VerifyResponses checks Σ responses_i·bases_i + challenge*secretCommitment
// == commitment, the equation the subtraction-form response makes true: with
// r_i = b_i - c*s_i, Σ r_i*base_i = Σ b_i*base_i - c*Σ s_i*base_i
// = commitment - c*secretCommitment, so adding back c*secretCommitment must
// reproduce commitment.
func VerifyResponses(bases []curve.G1, responses []curve.Scalar, challenge curve.Scalar, secretCommitment curve.G1, commitment curve.G1) (bool, error) {
	if len(bases) != len(responses) {
		return false, ErrSecretCountMismatch
	}
	lhs, err := curve.SumOfProductsG1(bases, responses)
	if err != nil {
		return false, err
	}
	lhs = lhs.Add(secretCommitment.ScalarMul(challenge))
	return lhs.Equal(commitment), nil
}
