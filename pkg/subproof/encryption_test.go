package subproof

import (
	"math/big"
	"testing"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

func TestEncryptionRoundTrip(t *testing.T) {
	privateKey, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	publicKey := encryptionGBase.ScalarMul(privateKey)

	m := big.NewInt(7)
	builder, err := NewEncryption(publicKey, m, nil)
	if err != nil {
		t.Fatalf("NewEncryption: %v", err)
	}

	tr := transcript.New("test encryption")
	if err := builder.AddChallengeContribution(tr); err != nil {
		t.Fatalf("AddChallengeContribution: %v", err)
	}
	challenge := tr.ChallengeScalar("challenge")

	proof, err := builder.GenerateProof(challenge)
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}

	tr2 := transcript.New("test encryption")
	if err := proof.AddProofContribution(publicKey, challenge, tr2); err != nil {
		t.Fatalf("AddProofContribution: %v", err)
	}
	challenge2 := tr2.ChallengeScalar("challenge")

	if challenge.Cmp(challenge2) != 0 {
		t.Fatal("recomputed challenge does not match")
	}
}

func TestDecryptionProofRoundTrip(t *testing.T) {
	privateKey, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	publicKey := encryptionGBase.ScalarMul(privateKey)

	m := big.NewInt(99)
	builder, err := NewEncryption(publicKey, m, nil)
	if err != nil {
		t.Fatalf("NewEncryption: %v", err)
	}
	ct := builder.Ciphertext()

	proof, _, err := BuildDecryptionProof(privateKey, publicKey, ct, m, nil)
	if err != nil {
		t.Fatalf("BuildDecryptionProof: %v", err)
	}

	if !VerifyDecryptionProof(proof, publicKey) {
		t.Fatal("valid decryption proof rejected")
	}
}

func TestDecryptionProofRejectsWrongPlaintext(t *testing.T) {
	privateKey, err := curve.RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	publicKey := encryptionGBase.ScalarMul(privateKey)

	m := big.NewInt(99)
	builder, err := NewEncryption(publicKey, m, nil)
	if err != nil {
		t.Fatalf("NewEncryption: %v", err)
	}
	ct := builder.Ciphertext()

	proof, _, err := BuildDecryptionProof(privateKey, publicKey, ct, m, nil)
	if err != nil {
		t.Fatalf("BuildDecryptionProof: %v", err)
	}
	proof.Plaintext = big.NewInt(100)

	if VerifyDecryptionProof(proof, publicKey) {
		t.Fatal("decryption proof with wrong plaintext should be rejected")
	}
}
