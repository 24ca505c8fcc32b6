package subproof

import (
	"strconv"

	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// EqualityBuilder proves m_a = m_b across two credentials. The actual proof
// work happens upstream: the presentation orchestrator arranges for both
// positions' pkg/pok builders to commit with the same externally-supplied
// blinder (via Commit's externalBlinds parameter), so a single pair of
// Schnorr responses simultaneously opens both commitments only if the
// underlying messages are equal. EqualityBuilder itself carries no secret
// state; it exists to contribute a deterministic, statement-identifying tag
// to the shared transcript so the claimed linkage is bound into the
// challenge, and so a reordering of Equality statements is detectable.
type EqualityBuilder struct {
	refA, refB     string
	claimA, claimB int
}

// EqualityProof is the transmitted sub-proof: just the statement's own
// identity, since the cryptographic binding lives in the shared blinder
// consumed by the linked pkg/pok proofs.
type EqualityProof struct {
	RefA, RefB     string
	ClaimA, ClaimB int
}

// NewEquality records the two (credential id, claim index) positions an
// Equality statement links.
func NewEquality(refA string, claimA int, refB string, claimB int) *EqualityBuilder {
	return &EqualityBuilder{refA: refA, claimA: claimA, refB: refB, claimB: claimB}
}

func (b *EqualityBuilder) tag() string {
	return "equality:" + b.refA + "#" + strconv.Itoa(b.claimA) + "=" + b.refB + "#" + strconv.Itoa(b.claimB)
}

func (p *EqualityProof) tag() string {
	return "equality:" + p.RefA + "#" + strconv.Itoa(p.ClaimA) + "=" + p.RefB + "#" + strconv.Itoa(p.ClaimB)
}

// AddChallengeContribution absorbs this statement's identity tag into tr.
func (b *EqualityBuilder) AddChallengeContribution(tr *transcript.Transcript) {
	tr.AppendMessage("equality statement", []byte(b.tag()))
}

// GenerateProof emits the sub-proof; Equality has no challenge-dependent
// response of its own, the linkage is enforced by the shared blinder in the
// linked pkg/pok proofs.
func (b *EqualityBuilder) GenerateProof() *EqualityProof {
	return &EqualityProof{RefA: b.refA, RefB: b.refB, ClaimA: b.claimA, ClaimB: b.claimB}
}

// AddProofContribution absorbs p into tr the way an EqualityBuilder would.
func (p *EqualityProof) AddProofContribution(tr *transcript.Transcript) {
	tr.AppendMessage("equality statement", []byte(p.tag()))
}
