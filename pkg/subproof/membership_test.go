package subproof

import (
	"math/big"
	"testing"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

func TestMembershipRoundTrip(t *testing.T) {
	alpha, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	key := AccumulatorKey{Alpha: curve.G2Generator().ScalarMul(alpha), G2Gen: curve.G2Generator()}

	e, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	// Single-element accumulated set {e}: Acc = g1^(e+alpha), and the
	// witness for the sole member is g1^1 = the G1 generator.
	acc := curve.G1Generator().ScalarMul(curve.AddMod(e, alpha))
	witness := MembershipWitness{W: curve.G1Generator()}

	blindE, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	builder, err := NewMembership(key, acc, witness, e, blindE, nil)
	if err != nil {
		t.Fatalf("NewMembership: %v", err)
	}

	tr := transcript.New("test membership")
	builder.AddChallengeContribution(tr)
	challenge := tr.ChallengeScalar("challenge")

	proof := builder.GenerateProof(challenge)

	tr2 := transcript.New("test membership")
	if err := proof.AddProofContribution(key, challenge, tr2); err != nil {
		t.Fatalf("AddProofContribution: %v", err)
	}
	challenge2 := tr2.ChallengeScalar("challenge")

	if challenge.Cmp(challenge2) != 0 {
		t.Fatal("recomputed challenge does not match")
	}
}

func TestMembershipRejectsWrongAccumulator(t *testing.T) {
	alpha, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	key := AccumulatorKey{Alpha: curve.G2Generator().ScalarMul(alpha), G2Gen: curve.G2Generator()}

	e, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	acc := curve.G1Generator().ScalarMul(curve.AddMod(e, alpha))
	witness := MembershipWitness{W: curve.G1Generator()}

	blindE, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	builder, err := NewMembership(key, acc, witness, e, blindE, nil)
	if err != nil {
		t.Fatalf("NewMembership: %v", err)
	}

	tr := transcript.New("test membership")
	builder.AddChallengeContribution(tr)
	challenge := tr.ChallengeScalar("challenge")
	proof := builder.GenerateProof(challenge)

	// Tamper with the rerandomized accumulator, simulating a witness for a
	// different (or absent) element.
	proof.AccR = proof.AccR.Add(curve.G1Generator())

	tr2 := transcript.New("test membership")
	if err := proof.AddProofContribution(key, challenge, tr2); err != nil {
		t.Fatalf("AddProofContribution: %v", err)
	}
	challenge2 := tr2.ChallengeScalar("challenge")

	if challenge.Cmp(challenge2) == 0 {
		t.Fatal("tampered accumulator should not reproduce the original challenge")
	}
}

func TestRevocationRoundTrip(t *testing.T) {
	alpha, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	key := AccumulatorKey{Alpha: curve.G2Generator().ScalarMul(alpha), G2Gen: curve.G2Generator()}

	e, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	// u*(alpha+e) + d == 1; pick d = 0 and solve u = (alpha+e)^-1.
	u := curve.InverseMod(curve.AddMod(alpha, e))
	witness := NonMembershipWitness{U: curve.G1Generator().ScalarMul(u), D: big.NewInt(0)}

	blindE, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	builder, err := NewRevocation(key, witness, e, blindE, nil)
	if err != nil {
		t.Fatalf("NewRevocation: %v", err)
	}

	tr := transcript.New("test revocation")
	builder.AddChallengeContribution(tr)
	challenge := tr.ChallengeScalar("challenge")

	proof := builder.GenerateProof(challenge)

	tr2 := transcript.New("test revocation")
	if err := proof.AddProofContribution(key, challenge, tr2); err != nil {
		t.Fatalf("AddProofContribution: %v", err)
	}
	challenge2 := tr2.ChallengeScalar("challenge")

	if challenge.Cmp(challenge2) != 0 {
		t.Fatal("recomputed challenge does not match")
	}
}
