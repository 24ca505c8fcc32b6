package subproof

import (
	"crypto/rand"
	"io"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/schnorr"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// commitmentGBase and commitmentHBase are the two independent G1 generators
// every Pedersen commitment in this package is built over: C = g·m + h·r.
// They're domain-separated from the PS public key's own generators (and from
// each other) via curve.HashDerivedGenerator so no party can know a
// discrete-log relation between g, h, and the BLS12-381 base point beyond
// the derivation itself.
var (
	commitmentGBase = curve.HashDerivedGenerator("subproof-commitment", 0)
	commitmentHBase = curve.HashDerivedGenerator("subproof-commitment", 1)
)

// CommitmentBuilder proves knowledge of the opening (m, r) of a Pedersen
// commitment C = g·m + h·r without revealing either. Its blinder r is
// exposed via Blind so a Range builder referencing this commitment by id
// can reuse it to prove a bound on m without a second, independent opening.
type CommitmentBuilder struct {
	c         curve.G1
	m, r      curve.Scalar
	committer *schnorr.Committer
}

// CommitmentProof is the transmitted sub-proof: the commitment itself and
// Schnorr responses over (m, r).
type CommitmentProof struct {
	C         curve.G1
	ResponseM curve.Scalar
	ResponseR curve.Scalar
}

// NewCommitment builds a Pedersen commitment to m with a freshly drawn
// blinder r, and opens a Schnorr commitment over (m, r) ready to absorb into
// a shared transcript.
func NewCommitment(m curve.Scalar, rng io.Reader) (*CommitmentBuilder, error) {
	if rng == nil {
		rng = rand.Reader
	}
	r, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	return NewCommitmentWithBlind(m, r, rng)
}

// NewCommitmentWithBlind builds a Pedersen commitment to m using a
// caller-supplied blinder r instead of a freshly drawn one. RangeBuilder
// uses this to construct its bit commitments with blinders that are chosen
// to sum to a target value rather than drawn independently.
func NewCommitmentWithBlind(m, r curve.Scalar, rng io.Reader) (*CommitmentBuilder, error) {
	if rng == nil {
		rng = rand.Reader
	}
	schnorrBlindM, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	return NewCommitmentShared(m, r, schnorrBlindM, rng)
}

// NewCommitmentShared is like NewCommitmentWithBlind but additionally pins
// the Schnorr nonce backing m's opening response to schnorrBlindM rather
// than drawing it at random. Presenting the same nonce the owning pkg/pok
// proof used for this claim's hidden message makes the two proofs emit the
// identical response under the shared presentation challenge, which is how
// pkg/presentation binds a Commitment statement's value to the signed claim
// it discloses without a dedicated linking proof.
func NewCommitmentShared(m, r, schnorrBlindM curve.Scalar, rng io.Reader) (*CommitmentBuilder, error) {
	if rng == nil {
		rng = rand.Reader
	}
	c, err := curve.SumOfProductsG1([]curve.G1{commitmentGBase, commitmentHBase}, []curve.Scalar{m, r})
	if err != nil {
		return nil, err
	}

	committer := schnorr.NewCommitter()
	committer.CommitWithBlind(commitmentGBase, schnorrBlindM)
	if _, err := committer.CommitRandom(rng, commitmentHBase); err != nil {
		return nil, err
	}

	return &CommitmentBuilder{c: c, m: m, r: r, committer: committer}, nil
}

// Commitment returns the Pedersen commitment C.
func (b *CommitmentBuilder) Commitment() curve.G1 { return b.c }

// Blind returns the blinder r a Range builder referencing this commitment by
// id must reuse to bind its bit-decomposition proof to the same opening.
func (b *CommitmentBuilder) Blind() curve.Scalar { return b.r }

// Value returns the committed message m.
func (b *CommitmentBuilder) Value() curve.Scalar { return b.m }

// AddChallengeContribution absorbs the commitment and its random commitment
// into tr.
func (b *CommitmentBuilder) AddChallengeContribution(tr *transcript.Transcript) error {
	tr.AppendG1("commitment value", b.c)
	return b.committer.AddChallengeContribution(tr, "commitment random commitment")
}

// GenerateProof emits the Schnorr responses for (m, r) under challenge.
func (b *CommitmentBuilder) GenerateProof(challenge curve.Scalar) (*CommitmentProof, error) {
	responses, err := b.committer.GenerateProof(challenge, []curve.Scalar{b.m, b.r})
	if err != nil {
		return nil, err
	}
	return &CommitmentProof{C: b.c, ResponseM: responses[0], ResponseR: responses[1]}, nil
}

// AddProofContribution absorbs p into tr the way a CommitmentBuilder would,
// reconstructing the random commitment from the transmitted responses.
func (p *CommitmentProof) AddProofContribution(challenge curve.Scalar, tr *transcript.Transcript) error {
	randomCommitment, err := schnorr.RecomputeCommitment(
		[]curve.G1{commitmentGBase, commitmentHBase},
		[]curve.Scalar{p.ResponseM, p.ResponseR},
		challenge,
		p.C,
	)
	if err != nil {
		return err
	}
	tr.AppendG1("commitment value", p.C)
	tr.AppendG1("commitment random commitment", randomCommitment)
	return nil
}

