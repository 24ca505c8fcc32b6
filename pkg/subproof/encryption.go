package subproof

import (
	"crypto/rand"
	"io"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/schnorr"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// encryptionGBase is the El Gamal generator ciphertexts are built over,
// independent of the Pedersen commitment bases so the two statement kinds
// can't be confused inside one transcript.
var encryptionGBase = curve.HashDerivedGenerator("subproof-elgamal", 0)

// Ciphertext is an El Gamal-style encryption of a message under an
// encryption public key: c1 = g·r, c2 = pk·r + g·m, following the
// Chaum-Pedersen construction other_examples' crypto/elgamal package builds
// its decryption proof around.
type Ciphertext struct {
	C1, C2 curve.G1
}

// EncryptionBuilder proves knowledge of (m, r) for a ciphertext encrypted
// under an issuer-published encryption key, without revealing either.
type EncryptionBuilder struct {
	pk        curve.G1
	ct        Ciphertext
	m, r      curve.Scalar
	committer *schnorr.Committer
}

// EncryptionProof is the transmitted sub-proof.
type EncryptionProof struct {
	Ciphertext Ciphertext
	ResponseM  curve.Scalar
	ResponseR  curve.Scalar
}

// NewEncryption encrypts m under encryptionKey with a freshly drawn nonce r,
// and opens a Schnorr commitment proving knowledge of (m, r). The proof
// relation is c1 = g·r, c2 = pk·r + g·m: committing with base g for r
// reproduces c1's structure, and bases (pk, g) for (r, m) reproduce c2's, so
// one committer records all three (base, blind) pairs, the two r terms
// sharing one blind.
func NewEncryption(encryptionKey curve.G1, m curve.Scalar, rng io.Reader) (*EncryptionBuilder, error) {
	if rng == nil {
		rng = rand.Reader
	}
	blindM, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	return NewEncryptionShared(encryptionKey, m, blindM, rng)
}

// NewEncryptionShared is like NewEncryption but pins the Schnorr nonce
// backing m's response to schnorrBlindM instead of drawing it at random, so
// pkg/presentation can bind this ciphertext's plaintext to a claim a
// pkg/pok proof already hides the same way NewCommitmentShared does.
func NewEncryptionShared(encryptionKey curve.G1, m, schnorrBlindM curve.Scalar, rng io.Reader) (*EncryptionBuilder, error) {
	if rng == nil {
		rng = rand.Reader
	}
	r, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	c1 := encryptionGBase.ScalarMul(r)
	c2 := encryptionKey.ScalarMul(r).Add(encryptionGBase.ScalarMul(m))

	blindR, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	blindM := schnorrBlindM
	committer := schnorr.NewCommitter()
	committer.CommitWithBlind(encryptionGBase, blindR) // c1 = g·r
	committer.CommitWithBlind(encryptionKey, blindR)    // c2's pk·r term
	committer.CommitWithBlind(encryptionGBase, blindM)  // c2's g·m term

	return &EncryptionBuilder{pk: encryptionKey, ct: Ciphertext{C1: c1, C2: c2}, m: m, r: r, committer: committer}, nil
}

// Ciphertext returns the encrypted value.
func (b *EncryptionBuilder) Ciphertext() Ciphertext { return b.ct }

// AddChallengeContribution absorbs the ciphertext and random commitments.
func (b *EncryptionBuilder) AddChallengeContribution(tr *transcript.Transcript) error {
	tr.AppendG1("elgamal c1", b.ct.C1)
	tr.AppendG1("elgamal c2", b.ct.C2)
	return b.committer.AddChallengeContribution(tr, "elgamal random commitment")
}

// GenerateProof emits responses for (r, m): the committer holds three
// (base, blind) pairs sharing two secrets, so the shared responses cover
// both the c1 and c2 relations at once.
func (b *EncryptionBuilder) GenerateProof(challenge curve.Scalar) (*EncryptionProof, error) {
	responses, err := b.committer.GenerateProof(challenge, []curve.Scalar{b.r, b.r, b.m})
	if err != nil {
		return nil, err
	}
	return &EncryptionProof{Ciphertext: b.ct, ResponseR: responses[0], ResponseM: responses[2]}, nil
}

// AddProofContribution absorbs p into tr, reconstructing the random
// commitment from encryptionKey, p's responses, and p's ciphertext.
func (p *EncryptionProof) AddProofContribution(encryptionKey curve.G1, challenge curve.Scalar, tr *transcript.Transcript) error {
	bases := []curve.G1{encryptionGBase, encryptionKey, encryptionGBase}
	responses := []curve.Scalar{p.ResponseR, p.ResponseR, p.ResponseM}

	// The combined secret commitment for this base/response layout is
	// c1 + c2, since c1 binds (g, r) and c2 binds (pk, r)+(g, m): summing
	// lets one RecomputeCommitment call validate all three terms together.
	combined := p.Ciphertext.C1.Add(p.Ciphertext.C2)
	randomCommitment, err := schnorr.RecomputeCommitment(bases, responses, challenge, combined)
	if err != nil {
		return err
	}
	tr.AppendG1("elgamal c1", p.Ciphertext.C1)
	tr.AppendG1("elgamal c2", p.Ciphertext.C2)
	tr.AppendG1("elgamal random commitment", randomCommitment)
	return nil
}

// DecryptionProof additionally proves that plaintext is the correct
// decryption of ciphertext under the holder of privateKey, following the
// Chaum-Pedersen equality-of-discrete-logs construction: log_g(pk) =
// log_c1(c2 - plaintext·g).
type DecryptionProof struct {
	Ciphertext Ciphertext
	Plaintext  curve.Scalar
	A1, A2     curve.G1
	Response   curve.Scalar
}

// BuildDecryptionProof proves ciphertext decrypts to plaintext under
// privateKey (whose public counterpart is encryptionKey = g·privateKey),
// without revealing privateKey.
func BuildDecryptionProof(privateKey curve.Scalar, encryptionKey curve.G1, ciphertext Ciphertext, plaintext curve.Scalar, rng io.Reader) (*DecryptionProof, *transcript.Transcript, error) {
	if rng == nil {
		rng = rand.Reader
	}
	d := ciphertext.C2.Add(encryptionGBase.ScalarMul(plaintext).Neg())

	k, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, err
	}
	a1 := encryptionGBase.ScalarMul(k)
	a2 := ciphertext.C1.ScalarMul(k)

	tr := decryptionTranscript(encryptionKey, ciphertext, d, a1, a2)
	challenge := tr.ChallengeScalar("decryption challenge")

	response := curve.AddMod(k, curve.MulMod(challenge, privateKey))

	return &DecryptionProof{Ciphertext: ciphertext, Plaintext: plaintext, A1: a1, A2: a2, Response: response}, tr, nil
}

func decryptionTranscript(encryptionKey curve.G1, ct Ciphertext, d, a1, a2 curve.G1) *transcript.Transcript {
	tr := transcript.New("verifiable decryption")
	tr.AppendG1("encryption key", encryptionKey)
	tr.AppendG1("elgamal c1", ct.C1)
	tr.AppendG1("elgamal c2", ct.C2)
	tr.AppendG1("shared secret", d)
	tr.AppendG1("a1", a1)
	tr.AppendG1("a2", a2)
	return tr
}

// VerifyDecryptionProof checks p against encryptionKey, the two checks
// being z·g == a1 + e·pk and z·c1 == a2 + e·d.
func VerifyDecryptionProof(p *DecryptionProof, encryptionKey curve.G1) bool {
	d := p.Ciphertext.C2.Add(encryptionGBase.ScalarMul(p.Plaintext).Neg())
	tr := decryptionTranscript(encryptionKey, p.Ciphertext, d, p.A1, p.A2)
	challenge := tr.ChallengeScalar("decryption challenge")

	lhs1 := encryptionGBase.ScalarMul(p.Response)
	rhs1 := p.A1.Add(encryptionKey.ScalarMul(challenge))
	if !lhs1.Equal(rhs1) {
		return false
	}
	lhs2 := p.Ciphertext.C1.ScalarMul(p.Response)
	rhs2 := p.A2.Add(d.ScalarMul(challenge))
	return lhs2.Equal(rhs2)
}
