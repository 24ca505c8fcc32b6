package presentation

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/ps"
	"github.com/anupsv/ps-anoncred/pkg/subproof"
)

func signCredential(t *testing.T, n int, values []curve.Scalar) (*ps.KeyPair, SignatureCredential) {
	t.Helper()
	kp, err := ps.GenerateKeyPair(n, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	sig, err := ps.Sign(kp.SecretKey, kp.PublicKey, values, rand.Reader)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return kp, SignatureCredential{Signature: sig, PublicKey: kp.PublicKey, Claims: values}
}

func scalarOf(v int64) curve.Scalar { return big.NewInt(v) }

func TestPresentationSelectiveDisclosureRoundTrip(t *testing.T) {
	values := []curve.Scalar{scalarOf(10), scalarOf(20), scalarOf(30), scalarOf(40), scalarOf(50)}
	kp, cred := signCredential(t, 5, values)

	schema := NewSchema()
	if err := schema.Add("cred", SignatureStatement{}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	disclosures := Disclosures{"cred": {3: {Kind: Revealed}, 4: {Kind: Revealed}}}

	nonce := []byte("verifier-nonce")
	presentation, err := Create(schema, map[string]Credential{"cred": cred}, disclosures, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	keys := VerifierKeys{PublicKeys: map[string]*ps.PublicKey{"cred": kp.PublicKey}}
	if err := Verify(schema, keys, presentation, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	// Mutating the disclosed value must break verification.
	presentation.DisclosedMessages["cred"][3] = scalarOf(999)
	if err := Verify(schema, keys, presentation, nonce); err == nil {
		t.Fatal("verify should fail once a disclosed message is tampered with")
	}
}

func TestPresentationWrongNonceFails(t *testing.T) {
	values := []curve.Scalar{scalarOf(1), scalarOf(2)}
	kp, cred := signCredential(t, 2, values)

	schema := NewSchema()
	if err := schema.Add("cred", SignatureStatement{}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	presentation, err := Create(schema, map[string]Credential{"cred": cred}, nil, []byte("nonce-a"), rand.Reader)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	keys := VerifierKeys{PublicKeys: map[string]*ps.PublicKey{"cred": kp.PublicKey}}
	if err := Verify(schema, keys, presentation, []byte("nonce-b")); err == nil {
		t.Fatal("verify should fail with a different nonce")
	}
}

func TestPresentationEqualityAcrossCredentials(t *testing.T) {
	shared := scalarOf(77)
	valuesA := []curve.Scalar{scalarOf(1), shared, scalarOf(3)}
	valuesB := []curve.Scalar{scalarOf(4), shared, scalarOf(6)}
	kpA, credA := signCredential(t, 3, valuesA)
	kpB, credB := signCredential(t, 3, valuesB)

	schema := NewSchema()
	mustAdd(t, schema, "a", SignatureStatement{})
	mustAdd(t, schema, "b", SignatureStatement{})
	mustAdd(t, schema, "eq", EqualityStatement{RefA: "a", ClaimA: 1, RefB: "b", ClaimB: 1})

	credentials := map[string]Credential{"a": credA, "b": credB}
	nonce := []byte("nonce")
	presentation, err := Create(schema, credentials, nil, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	keys := VerifierKeys{PublicKeys: map[string]*ps.PublicKey{"a": kpA.PublicKey, "b": kpB.PublicKey}}
	if err := Verify(schema, keys, presentation, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestPresentationEqualityRejectsUnequalClaims(t *testing.T) {
	valuesA := []curve.Scalar{scalarOf(1), scalarOf(100), scalarOf(3)}
	valuesB := []curve.Scalar{scalarOf(4), scalarOf(200), scalarOf(6)}
	kpA, credA := signCredential(t, 3, valuesA)
	kpB, credB := signCredential(t, 3, valuesB)

	schema := NewSchema()
	mustAdd(t, schema, "a", SignatureStatement{})
	mustAdd(t, schema, "b", SignatureStatement{})
	mustAdd(t, schema, "eq", EqualityStatement{RefA: "a", ClaimA: 1, RefB: "b", ClaimB: 1})

	credentials := map[string]Credential{"a": credA, "b": credB}
	nonce := []byte("nonce")
	presentation, err := Create(schema, credentials, nil, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	keys := VerifierKeys{PublicKeys: map[string]*ps.PublicKey{"a": kpA.PublicKey, "b": kpB.PublicKey}}
	if err := Verify(schema, keys, presentation, nonce); err == nil {
		t.Fatal("verify should fail when the two claims linked by equality differ")
	}
}

func TestPresentationRangeOverCommitment(t *testing.T) {
	values := []curve.Scalar{scalarOf(100), scalarOf(2)}
	kp, cred := signCredential(t, 2, values)

	schema := NewSchema()
	mustAdd(t, schema, "cred", SignatureStatement{})
	mustAdd(t, schema, "commit", CommitmentStatement{RefID: "cred", Claim: 0})
	mustAdd(t, schema, "range", RangeStatement{SignatureID: "cred", CommitmentID: "commit", Claim: 0, Lower: 50, Upper: 200})

	nonce := []byte("nonce")
	presentation, err := Create(schema, map[string]Credential{"cred": cred}, nil, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	keys := VerifierKeys{PublicKeys: map[string]*ps.PublicKey{"cred": kp.PublicKey}}
	if err := Verify(schema, keys, presentation, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestPresentationRangeOutOfBoundsFailsAtCreate(t *testing.T) {
	values := []curve.Scalar{scalarOf(300), scalarOf(2)}
	_, cred := signCredential(t, 2, values)

	schema := NewSchema()
	mustAdd(t, schema, "cred", SignatureStatement{})
	mustAdd(t, schema, "commit", CommitmentStatement{RefID: "cred", Claim: 0})
	mustAdd(t, schema, "range", RangeStatement{SignatureID: "cred", CommitmentID: "commit", Claim: 0, Lower: 50, Upper: 200})

	if _, err := Create(schema, map[string]Credential{"cred": cred}, nil, []byte("nonce"), rand.Reader); err == nil {
		t.Fatal("expected an error building a range proof for an out-of-bounds value")
	}
}

func TestPresentationDuplicateStatementIDRejected(t *testing.T) {
	schema := NewSchema()
	mustAdd(t, schema, "cred", SignatureStatement{})
	if err := schema.Add("cred", SignatureStatement{}); err == nil {
		t.Fatal("expected duplicate statement id to be rejected")
	}
}

func TestPresentationRevealedClaimCannotBackCommitment(t *testing.T) {
	values := []curve.Scalar{scalarOf(100), scalarOf(2)}
	_, cred := signCredential(t, 2, values)

	schema := NewSchema()
	mustAdd(t, schema, "cred", SignatureStatement{})
	mustAdd(t, schema, "commit", CommitmentStatement{RefID: "cred", Claim: 0})

	disclosures := Disclosures{"cred": {0: {Kind: Revealed}}}
	if _, err := Create(schema, map[string]Credential{"cred": cred}, disclosures, []byte("nonce"), rand.Reader); err == nil {
		t.Fatal("expected a Revealed claim referenced by a Commitment statement to be rejected")
	}
}

func TestPresentationMembershipRoundTrip(t *testing.T) {
	values := []curve.Scalar{scalarOf(42), scalarOf(2)}
	kp, cred := signCredential(t, 2, values)

	alpha, err := curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	accKey := subproof.AccumulatorKey{Alpha: curve.G2Generator().ScalarMul(alpha), G2Gen: curve.G2Generator()}

	e := values[0]
	// W = g1^(1/(e+alpha)) so that e(W, Alpha + g2^e) == e(g1, g2) == e(Acc, g2)
	// for Acc = g1 (the trivial single-element accumulator used in this test).
	exponent := curve.InverseMod(curve.AddMod(e, alpha))
	witness := subproof.MembershipWitness{W: curve.G1Generator().ScalarMul(exponent)}
	acc := curve.G1Generator()

	memberCred := MembershipCredential{Key: accKey, Accumulator: acc, Witness: &witness}

	schema := NewSchema()
	mustAdd(t, schema, "cred", SignatureStatement{})
	mustAdd(t, schema, "member", MembershipStatement{WitnessID: "witness", RefID: "cred", Claim: 0})

	credentials := map[string]Credential{"cred": cred, "witness": memberCred}
	nonce := []byte("nonce")
	presentation, err := Create(schema, credentials, nil, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	keys := VerifierKeys{
		PublicKeys:      map[string]*ps.PublicKey{"cred": kp.PublicKey},
		AccumulatorKeys: map[string]subproof.AccumulatorKey{"witness": accKey},
	}
	if err := Verify(schema, keys, presentation, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestPresentationRevocationRoundTrip(t *testing.T) {
	values := []curve.Scalar{scalarOf(42), scalarOf(2)}
	kp, cred := signCredential(t, 2, values)

	alpha, err := curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	accKey := subproof.AccumulatorKey{Alpha: curve.G2Generator().ScalarMul(alpha), G2Gen: curve.G2Generator()}

	e := values[0]
	// Pick u, d with u*(e+alpha)+d == 1, witnessing that e is outside the
	// (here empty) accumulated set.
	u, err := curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	d := curve.SubMod(big.NewInt(1), curve.MulMod(u, curve.AddMod(e, alpha)))
	nonWitness := subproof.NonMembershipWitness{U: curve.G1Generator().ScalarMul(u), D: d}

	revokedCred := MembershipCredential{Key: accKey, NonWitness: &nonWitness}

	schema := NewSchema()
	mustAdd(t, schema, "cred", SignatureStatement{})
	mustAdd(t, schema, "revoked", RevocationStatement{WitnessID: "witness", RefID: "cred", Claim: 0})

	credentials := map[string]Credential{"cred": cred, "witness": revokedCred}
	nonce := []byte("nonce")
	presentation, err := Create(schema, credentials, nil, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	keys := VerifierKeys{
		PublicKeys:      map[string]*ps.PublicKey{"cred": kp.PublicKey},
		AccumulatorKeys: map[string]subproof.AccumulatorKey{"witness": accKey},
	}
	if err := Verify(schema, keys, presentation, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func mustAdd(t *testing.T, schema *PresentationSchema, id string, st Statement) {
	t.Helper()
	if err := schema.Add(id, st); err != nil {
		t.Fatalf("Add(%q): %v", id, err)
	}
}
