package pok

import (
	"crypto/rand"
	"testing"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/ps"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// TestProofOfKnowledgeSelectiveDisclosure covers a mixed disclosure
// scenario: five messages, two proof-specific hidden, one
// externally-blinded hidden, two revealed.
func TestProofOfKnowledgeSelectiveDisclosure(t *testing.T) {
	kp, err := ps.GenerateKeyPair(5, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	messages := make(map[int]curve.Scalar, 5)
	for i := 0; i < 5; i++ {
		messages[i], _ = curve.RandomScalar(rand.Reader)
	}
	msgSlice := make([]curve.Scalar, 5)
	for i, m := range messages {
		msgSlice[i] = m
	}

	sig, err := ps.Sign(kp.SecretKey, kp.PublicKey, msgSlice, rand.Reader)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	revealed := map[int]curve.Scalar{3: messages[3], 4: messages[4]}
	externalBlind, _ := curve.RandomScalar(rand.Reader)
	externalBlinds := map[int]curve.Scalar{2: externalBlind}

	builder, err := Commit(sig, kp.PublicKey, messages, revealed, externalBlinds, rand.Reader)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	tr := transcript.New("signature proof of knowledge")
	builder.AddChallengeContribution(tr)
	nonce, _ := curve.RandomScalar(rand.Reader)
	tr.AppendScalar("nonce", nonce)
	challenge := tr.ChallengeScalar("signature proof of knowledge")

	proof := builder.GenerateProof(challenge)

	if err := Verify(proof, kp.PublicKey, revealed, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedRevealedMessage(t *testing.T) {
	kp, _ := ps.GenerateKeyPair(3, rand.Reader)
	messages := map[int]curve.Scalar{}
	msgSlice := make([]curve.Scalar, 3)
	for i := 0; i < 3; i++ {
		m, _ := curve.RandomScalar(rand.Reader)
		messages[i] = m
		msgSlice[i] = m
	}
	sig, _ := ps.Sign(kp.SecretKey, kp.PublicKey, msgSlice, rand.Reader)

	revealed := map[int]curve.Scalar{2: messages[2]}
	builder, err := Commit(sig, kp.PublicKey, messages, revealed, nil, rand.Reader)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	tr := transcript.New("signature proof of knowledge")
	builder.AddChallengeContribution(tr)
	nonce, _ := curve.RandomScalar(rand.Reader)
	tr.AppendScalar("nonce", nonce)
	challenge := tr.ChallengeScalar("signature proof of knowledge")
	proof := builder.GenerateProof(challenge)

	tampered, _ := curve.RandomScalar(rand.Reader)
	wrongRevealed := map[int]curve.Scalar{2: tampered}
	if err := Verify(proof, kp.PublicKey, wrongRevealed, nonce); err == nil {
		t.Fatalf("expected Verify to fail when a revealed message is tampered with")
	}
}

func TestCommitAcceptsFullyRevealedMessages(t *testing.T) {
	kp, _ := ps.GenerateKeyPair(3, rand.Reader)
	messages := map[int]curve.Scalar{}
	msgSlice := make([]curve.Scalar, 3)
	for i := 0; i < 3; i++ {
		m, _ := curve.RandomScalar(rand.Reader)
		messages[i] = m
		msgSlice[i] = m
	}
	sig, _ := ps.Sign(kp.SecretKey, kp.PublicKey, msgSlice, rand.Reader)

	// Every index in [0,3) is revealed, leaving no hidden message: the
	// revealed set alone covers the message vector, and Commit still builds
	// a proof over just the re-randomization exponent t.
	revealed := map[int]curve.Scalar{0: messages[0], 1: messages[1], 2: messages[2]}
	if _, err := Commit(sig, kp.PublicKey, messages, revealed, nil, rand.Reader); err != nil {
		t.Fatalf("Commit with fully revealed messages should still succeed: %v", err)
	}
}
