package subproof

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// AccumulatorKey is an accumulator manager's public parameters: Alpha =
// g2^alpha for a secret alpha the manager never reveals. Maintaining the
// accumulated set itself and issuing or revoking witnesses is the
// manager's job, not this package's; this package only consumes witnesses
// the manager already issued.
type AccumulatorKey struct {
	Alpha curve.G2
	G2Gen curve.G2
}

// MembershipWitness is issued by the accumulator manager for an element
// currently in the accumulated set Acc: W such that
// e(W, Alpha + g2^e) == e(Acc, g2), the same pairing linearization PS
// signatures use for their own verification equation.
type MembershipWitness struct {
	W curve.G1
}

// NonMembershipWitness is issued by the accumulator manager for an element
// known not to be in the accumulated set: (U, D) such that
// e(U, Alpha)·e(U, g2)^e·e(g1, g2)^D == e(g1, g2), i.e. u·(alpha+e)+d == 1.
type NonMembershipWitness struct {
	U curve.G1
	D curve.Scalar
}

// MembershipBuilder proves knowledge of e such that e matches the value
// committed by the owning pkg/pok builder (via a shared blind) and a
// membership witness for e exists under key, without revealing e or the
// witness.
type MembershipBuilder struct {
	wp, accR  curve.G1 // W' = r*W, r*Acc
	e, blindE curve.Scalar
	baseE     curve.Gt
}

// MembershipProof is the transmitted sub-proof.
type MembershipProof struct {
	WitnessPrime curve.G1
	AccR         curve.G1
	Response     curve.Scalar
}

// NewMembership rerandomizes witness against accumulator acc under key, and
// opens a GT Schnorr commitment proving knowledge of e. blindE must be the
// same blind the owning pkg/pok.Builder used for this claim's position, so
// the two proofs' responses can be checked against each other later.
func NewMembership(key AccumulatorKey, acc curve.G1, witness MembershipWitness, e, blindE curve.Scalar, rng io.Reader) (*MembershipBuilder, error) {
	if rng == nil {
		rng = rand.Reader
	}
	r, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	wp := witness.W.ScalarMul(r)
	accR := acc.ScalarMul(r)

	baseE, err := curve.PairSingle(wp, key.G2Gen)
	if err != nil {
		return nil, err
	}

	return &MembershipBuilder{wp: wp, accR: accR, e: e, blindE: blindE, baseE: baseE}, nil
}

func (b *MembershipBuilder) commitment() curve.Gt {
	return b.baseE.Exp(b.blindE)
}

// AddChallengeContribution absorbs the rerandomized witness, rerandomized
// accumulator, and GT commitment into tr.
func (b *MembershipBuilder) AddChallengeContribution(tr *transcript.Transcript) {
	tr.AppendG1("membership witness", b.wp)
	tr.AppendG1("membership accumulator", b.accR)
	tr.AppendMessage("membership commitment", b.commitment().Marshal())
}

// GenerateProof emits the Schnorr response for e under challenge.
func (b *MembershipBuilder) GenerateProof(challenge curve.Scalar) *MembershipProof {
	response := curve.SubMod(b.blindE, curve.MulMod(challenge, b.e))
	return &MembershipProof{WitnessPrime: b.wp, AccR: b.accR, Response: response}
}

// AddProofContribution absorbs p into tr, recomputing Z from key and
// p.WitnessPrime/p.AccR and then the commitment from the response.
func (p *MembershipProof) AddProofContribution(key AccumulatorKey, challenge curve.Scalar, tr *transcript.Transcript) error {
	z, err := membershipTarget(key, p.WitnessPrime, p.AccR)
	if err != nil {
		return err
	}
	baseE, err := curve.PairSingle(p.WitnessPrime, key.G2Gen)
	if err != nil {
		return err
	}
	commitment := baseE.Exp(p.Response).Mul(z.Exp(challenge))
	tr.AppendG1("membership witness", p.WitnessPrime)
	tr.AppendG1("membership accumulator", p.AccR)
	tr.AppendMessage("membership commitment", commitment.Marshal())
	return nil
}

func membershipTarget(key AccumulatorKey, witnessPrime, accR curve.G1) (curve.Gt, error) {
	lhs, err := curve.PairSingle(accR, key.G2Gen)
	if err != nil {
		return curve.Gt{}, err
	}
	alphaPart, err := curve.PairSingle(witnessPrime, key.Alpha)
	if err != nil {
		return curve.Gt{}, err
	}
	return lhs.Mul(alphaPart.Inverse()), nil
}

// RevocationBuilder proves that e -- shared with the owning pkg/pok builder
// via blindE -- is not a member of the accumulated set the manager
// maintains, by knowledge of a non-membership witness (U, D) without
// revealing e, U's rerandomization, or D.
type RevocationBuilder struct {
	up                curve.G1 // U' = r*U
	e, blindE         curve.Scalar
	dDoublePrime      curve.Scalar // d'' = r*(D-1)
	blindDDoublePrime curve.Scalar
	baseE, baseD      curve.Gt
}

// RevocationProof is the transmitted sub-proof.
type RevocationProof struct {
	UPrime        curve.G1
	ResponseE     curve.Scalar
	ResponseDPrPr curve.Scalar
}

// NewRevocation rerandomizes witness under key, and opens a GT Schnorr
// commitment proving knowledge of (e, d'') satisfying the non-membership
// relation e(U', Alpha)·e(U', g2)^e·e(g1, g2)^d'' == 1.
func NewRevocation(key AccumulatorKey, witness NonMembershipWitness, e, blindE curve.Scalar, rng io.Reader) (*RevocationBuilder, error) {
	if rng == nil {
		rng = rand.Reader
	}
	r, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	up := witness.U.ScalarMul(r)
	dDoublePrime := curve.MulMod(r, curve.SubMod(witness.D, big.NewInt(1)))

	baseE, err := curve.PairSingle(up, key.G2Gen)
	if err != nil {
		return nil, err
	}
	baseD, err := curve.PairSingle(curve.G1Generator(), key.G2Gen)
	if err != nil {
		return nil, err
	}

	blindDDoublePrime, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}

	return &RevocationBuilder{
		up: up, e: e, blindE: blindE,
		dDoublePrime: dDoublePrime, blindDDoublePrime: blindDDoublePrime,
		baseE: baseE, baseD: baseD,
	}, nil
}

func (b *RevocationBuilder) commitment() curve.Gt {
	return b.baseE.Exp(b.blindE).Mul(b.baseD.Exp(b.blindDDoublePrime))
}

// AddChallengeContribution absorbs the rerandomized witness and GT
// commitment into tr.
func (b *RevocationBuilder) AddChallengeContribution(tr *transcript.Transcript) {
	tr.AppendG1("revocation witness", b.up)
	tr.AppendMessage("revocation commitment", b.commitment().Marshal())
}

// GenerateProof emits the Schnorr responses for (e, d'') under challenge.
func (b *RevocationBuilder) GenerateProof(challenge curve.Scalar) *RevocationProof {
	return &RevocationProof{
		UPrime:        b.up,
		ResponseE:     curve.SubMod(b.blindE, curve.MulMod(challenge, b.e)),
		ResponseDPrPr: curve.SubMod(b.blindDDoublePrime, curve.MulMod(challenge, b.dDoublePrime)),
	}
}

// AddProofContribution absorbs p into tr, recomputing the commitment from
// the target Z == e(U', Alpha)^-1 (the relation collapses to the Gt
// identity) and p's responses.
func (p *RevocationProof) AddProofContribution(key AccumulatorKey, challenge curve.Scalar, tr *transcript.Transcript) error {
	baseE, err := curve.PairSingle(p.UPrime, key.G2Gen)
	if err != nil {
		return err
	}
	baseD, err := curve.PairSingle(curve.G1Generator(), key.G2Gen)
	if err != nil {
		return err
	}
	alphaPart, err := curve.PairSingle(p.UPrime, key.Alpha)
	if err != nil {
		return err
	}
	z := alphaPart.Inverse()
	commitment := baseE.Exp(p.ResponseE).Mul(baseD.Exp(p.ResponseDPrPr)).Mul(z.Exp(challenge))
	tr.AppendG1("revocation witness", p.UPrime)
	tr.AppendMessage("revocation commitment", commitment.Marshal())
	return nil
}
