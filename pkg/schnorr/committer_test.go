package schnorr

import (
	"crypto/rand"
	"testing"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

func TestCommitAndVerifySingleBase(t *testing.T) {
	base := curve.G1Generator()
	secret, _ := curve.RandomScalar(rand.Reader)
	secretCommitment := base.ScalarMul(secret)

	c := NewCommitter()
	if _, err := c.CommitRandom(rand.Reader, base); err != nil {
		t.Fatalf("CommitRandom: %v", err)
	}
	commitment, err := c.Commitment()
	if err != nil {
		t.Fatalf("Commitment: %v", err)
	}

	tr := transcript.New("schnorr-test")
	tr.AppendG1("secret-commitment", secretCommitment)
	if err := c.AddChallengeContribution(tr, "commitment"); err != nil {
		t.Fatalf("AddChallengeContribution: %v", err)
	}
	challenge := tr.ChallengeScalar("challenge")

	responses, err := c.GenerateProof(challenge, []curve.Scalar{secret})
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}

	ok, err := VerifyResponses(c.Bases(), responses, challenge, secretCommitment, commitment)
	if err != nil {
		t.Fatalf("VerifyResponses: %v", err)
	}
	if !ok {
		t.Fatalf("expected verification to succeed")
	}
}

func TestVerifyFailsOnWrongSecret(t *testing.T) {
	base := curve.G1Generator()
	secret, _ := curve.RandomScalar(rand.Reader)
	wrong, _ := curve.RandomScalar(rand.Reader)
	secretCommitment := base.ScalarMul(secret)

	c := NewCommitter()
	c.CommitRandom(rand.Reader, base)
	commitment, _ := c.Commitment()

	tr := transcript.New("schnorr-test")
	tr.AppendG1("commitment", commitment)
	challenge := tr.ChallengeScalar("challenge")

	responses, err := c.GenerateProof(challenge, []curve.Scalar{wrong})
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}

	ok, err := VerifyResponses(c.Bases(), responses, challenge, secretCommitment, commitment)
	if err != nil {
		t.Fatalf("VerifyResponses: %v", err)
	}
	if ok {
		t.Fatalf("expected verification to fail for a mismatched secret")
	}
}

func TestCommitMultiBase(t *testing.T) {
	bases := []curve.G1{curve.G1Generator(), curve.HashDerivedGenerator("test", 1)}
	secrets := make([]curve.Scalar, len(bases))
	secretCommitment := curve.G1{}
	for i, b := range bases {
		s, _ := curve.RandomScalar(rand.Reader)
		secrets[i] = s
		secretCommitment = secretCommitment.Add(b.ScalarMul(s))
	}

	c := NewCommitter()
	for _, b := range bases {
		c.CommitRandom(rand.Reader, b)
	}
	commitment, _ := c.Commitment()

	tr := transcript.New("schnorr-multi")
	tr.AppendG1("commitment", commitment)
	challenge := tr.ChallengeScalar("challenge")

	responses, err := c.GenerateProof(challenge, secrets)
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	ok, err := VerifyResponses(c.Bases(), responses, challenge, secretCommitment, commitment)
	if err != nil {
		t.Fatalf("VerifyResponses: %v", err)
	}
	if !ok {
		t.Fatalf("expected multi-base verification to succeed")
	}
}

func TestGenerateProofSecretCountMismatch(t *testing.T) {
	c := NewCommitter()
	c.CommitRandom(rand.Reader, curve.G1Generator())
	if _, err := c.GenerateProof(curve.Order(), nil); err != ErrSecretCountMismatch {
		t.Fatalf("expected ErrSecretCountMismatch, got %v", err)
	}
}
