package ps

import (
	"crypto/rand"
	"testing"

	"github.com/anupsv/ps-anoncred/pkg/curve"
)

func randomMessages(n int) []curve.Scalar {
	msgs := make([]curve.Scalar, n)
	for i := range msgs {
		msgs[i], _ = curve.RandomScalar(rand.Reader)
	}
	return msgs
}

func TestSignAndVerify(t *testing.T) {
	kp, err := GenerateKeyPair(5, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msgs := randomMessages(5)

	sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, rand.Reader)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if err := Verify(kp.PublicKey, sig, msgs); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	kp, _ := GenerateKeyPair(3, rand.Reader)
	msgs := randomMessages(3)
	sig, _ := Sign(kp.SecretKey, kp.PublicKey, msgs, rand.Reader)

	tampered := make([]curve.Scalar, len(msgs))
	copy(tampered, msgs)
	tampered[1], _ = curve.RandomScalar(rand.Reader)

	if err := Verify(kp.PublicKey, sig, tampered); err == nil {
		t.Fatalf("expected verification to fail for a tampered message")
	}
}

func TestVerifyRejectsWrongMessageCount(t *testing.T) {
	kp, _ := GenerateKeyPair(3, rand.Reader)
	msgs := randomMessages(3)
	sig, _ := Sign(kp.SecretKey, kp.PublicKey, msgs, rand.Reader)

	if err := Verify(kp.PublicKey, sig, msgs[:2]); err == nil {
		t.Fatalf("expected verification to fail for mismatched message count")
	}
}

func TestRandomizePreservesValidity(t *testing.T) {
	kp, _ := GenerateKeyPair(4, rand.Reader)
	msgs := randomMessages(4)
	sig, _ := Sign(kp.SecretKey, kp.PublicKey, msgs, rand.Reader)

	randomized, _, err := Randomize(sig, rand.Reader)
	if err != nil {
		t.Fatalf("Randomize: %v", err)
	}
	if randomized.Sigma1.Equal(sig.Sigma1) {
		t.Fatalf("randomized signature reused the original sigma_1")
	}
	if err := Verify(kp.PublicKey, randomized, msgs); err != nil {
		t.Fatalf("randomized signature failed to verify: %v", err)
	}
}

func TestBatchVerify(t *testing.T) {
	const n = 4
	pks := make([]*PublicKey, n)
	sigs := make([]*Signature, n)
	msgsList := make([][]curve.Scalar, n)

	for i := 0; i < n; i++ {
		kp, _ := GenerateKeyPair(3, rand.Reader)
		msgs := randomMessages(3)
		sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, rand.Reader)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		pks[i] = kp.PublicKey
		sigs[i] = sig
		msgsList[i] = msgs
	}

	if err := BatchVerify(pks, sigs, msgsList, rand.Reader); err != nil {
		t.Fatalf("BatchVerify: %v", err)
	}

	// Corrupt one entry's messages and confirm the batch now fails.
	msgsList[2][0], _ = curve.RandomScalar(rand.Reader)
	if err := BatchVerify(pks, sigs, msgsList, rand.Reader); err == nil {
		t.Fatalf("expected BatchVerify to fail with one corrupted entry")
	}
}

func TestSignatureMarshalRoundTrip(t *testing.T) {
	kp, _ := GenerateKeyPair(2, rand.Reader)
	msgs := randomMessages(2)
	sig, _ := Sign(kp.SecretKey, kp.PublicKey, msgs, rand.Reader)

	data, err := sig.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var back Signature
	if err := back.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if err := Verify(kp.PublicKey, &back, msgs); err != nil {
		t.Fatalf("unmarshaled signature failed to verify: %v", err)
	}
}

func TestPublicKeyMarshalRoundTrip(t *testing.T) {
	kp, _ := GenerateKeyPair(3, rand.Reader)
	data, err := kp.PublicKey.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var back PublicKey
	if err := back.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}

	msgs := randomMessages(3)
	sig, _ := Sign(kp.SecretKey, kp.PublicKey, msgs, rand.Reader)
	if err := Verify(&back, sig, msgs); err != nil {
		t.Fatalf("signature did not verify against round-tripped public key: %v", err)
	}
}
