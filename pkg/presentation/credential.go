package presentation

import (
	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/ps"
	"github.com/anupsv/ps-anoncred/pkg/subproof"
)

// Credential is one of the two kinds of material a presentation can be
// built over: a signed message vector, or an accumulator witness.
// isCredential keeps the set closed to this package.
type Credential interface {
	isCredential()
}

// SignatureCredential is a PS signature plus the message vector it signs,
// supplied by the holder so the orchestrator can build a pkg/pok proof
// without needing the claims re-derived from anywhere else.
type SignatureCredential struct {
	Signature *ps.Signature
	PublicKey *ps.PublicKey
	Claims    []curve.Scalar
}

// MembershipCredential carries an accumulator witness. Witness is set when
// the credential backs a MembershipStatement; NonWitness is set when it
// backs a RevocationStatement. Exactly one must be non-nil for whichever
// statement references this credential's id.
type MembershipCredential struct {
	Key         subproof.AccumulatorKey
	Accumulator curve.G1
	Witness     *subproof.MembershipWitness
	NonWitness  *subproof.NonMembershipWitness
}

func (SignatureCredential) isCredential()  {}
func (MembershipCredential) isCredential() {}

// DisclosureKind selects how a claim participates in a presentation.
type DisclosureKind int

const (
	// Revealed discloses the claim's value in the clear.
	Revealed DisclosureKind = iota
	// HiddenProofSpecific hides the claim behind a blind the orchestrator
	// draws itself, used for positions no other statement links to.
	HiddenProofSpecific
	// HiddenExternalBlinding hides the claim behind a caller-supplied
	// blind, letting the same scalar appear in two statements (or a PoK
	// proof and a sub-proof) bound by a shared Schnorr response.
	HiddenExternalBlinding
)

// ProofMessage is the disclosure decision for one (credential, claim index)
// position.
type ProofMessage struct {
	Kind  DisclosureKind
	Blind curve.Scalar // meaningful only when Kind == HiddenExternalBlinding
}

// Disclosures maps credential id -> claim index -> ProofMessage. A position
// left unset defaults to HiddenProofSpecific.
type Disclosures map[string]map[int]ProofMessage

func (d Disclosures) lookup(credentialID string, claim int) (ProofMessage, bool) {
	byClaim, ok := d[credentialID]
	if !ok {
		return ProofMessage{}, false
	}
	pm, ok := byClaim[claim]
	return pm, ok
}
