package presentation

import (
	"bytes"
	"fmt"

	"github.com/anupsv/ps-anoncred/internal/common"
	"github.com/anupsv/ps-anoncred/pkg/curve"
)

// Statement is one predicate (or signature-possession claim) a
// PresentationSchema names. The concrete types below are the closed set a
// schema can hold; isStatement keeps the set closed to this package.
type Statement interface {
	isStatement()
	encode(buf *bytes.Buffer)
}

// SignatureStatement claims possession of a valid signature over the
// credential keyed by this statement's own schema id in the presentation's
// credential map -- a signature statement's id doubles as its credential
// id, so there is exactly one name for "this credential" anywhere in a
// schema.
type SignatureStatement struct{}

// EqualityStatement claims the claim at index ClaimA of credential RefA
// equals the claim at index ClaimB of credential RefB, without revealing
// either.
type EqualityStatement struct {
	RefA   string
	ClaimA int
	RefB   string
	ClaimB int
}

// CommitmentStatement claims a Pedersen commitment, built and proved by the
// orchestrator, opens to the claim at index Claim of credential RefID.
type CommitmentStatement struct {
	RefID string
	Claim int
}

// VerifiableEncryptionStatement claims an El Gamal ciphertext, built and
// proved by the orchestrator under EncryptionKey, encrypts the claim at
// index Claim of credential RefID.
type VerifiableEncryptionStatement struct {
	RefID         string
	Claim         int
	EncryptionKey curve.G1
}

// VerifiableEncryptionDecryptionStatement is the escrow variant of
// VerifiableEncryptionStatement: the holder proves the same ciphertext
// opening at presentation time, and a party holding the private key
// matching EncryptionKey can later run subproof.BuildDecryptionProof /
// VerifyDecryptionProof against the resulting ciphertext out of band. The
// orchestrator never sees that private key, so it proves exactly what
// VerifiableEncryptionStatement proves.
type VerifiableEncryptionDecryptionStatement struct {
	RefID         string
	Claim         int
	EncryptionKey curve.G1
}

// RangeStatement claims lower <= claim <= upper for the claim a
// CommitmentStatement (identified by CommitmentID, a schema id) already
// commits to. SignatureID names the credential the claim itself lives on,
// for claim-index bound checking.
type RangeStatement struct {
	SignatureID  string
	CommitmentID string
	Claim        int
	Lower        int64
	Upper        int64
}

// MembershipStatement claims the claim at index Claim of credential RefID
// is a member of the accumulated set described by the credential keyed by
// WitnessID (a MembershipCredential carrying a MembershipWitness).
type MembershipStatement struct {
	WitnessID string
	RefID     string
	Claim     int
}

// RevocationStatement claims the claim at index Claim of credential RefID
// is absent from the accumulated set described by the credential keyed by
// WitnessID (a MembershipCredential carrying a NonMembershipWitness).
// WitnessID is carried explicitly for the same reason Membership carries
// one: a credential only ever attaches a witness by id, never implicitly.
type RevocationStatement struct {
	WitnessID string
	RefID     string
	Claim     int
}

func (SignatureStatement) isStatement()                     {}
func (EqualityStatement) isStatement()                      {}
func (CommitmentStatement) isStatement()                    {}
func (VerifiableEncryptionStatement) isStatement()          {}
func (VerifiableEncryptionDecryptionStatement) isStatement() {}
func (RangeStatement) isStatement()                         {}
func (MembershipStatement) isStatement()                    {}
func (RevocationStatement) isStatement()                    {}

func writeString(buf *bytes.Buffer, s string) {
	fmt.Fprintf(buf, "%d:%s", len(s), s)
}

func writeInt(buf *bytes.Buffer, v int) {
	fmt.Fprintf(buf, "%d", v)
}

func (s SignatureStatement) encode(buf *bytes.Buffer) {
	buf.WriteString("signature")
}

func (s EqualityStatement) encode(buf *bytes.Buffer) {
	buf.WriteString("equality|")
	writeString(buf, s.RefA)
	buf.WriteByte('|')
	writeInt(buf, s.ClaimA)
	buf.WriteByte('|')
	writeString(buf, s.RefB)
	buf.WriteByte('|')
	writeInt(buf, s.ClaimB)
}

func (s CommitmentStatement) encode(buf *bytes.Buffer) {
	buf.WriteString("commitment|")
	writeString(buf, s.RefID)
	buf.WriteByte('|')
	writeInt(buf, s.Claim)
}

func (s VerifiableEncryptionStatement) encode(buf *bytes.Buffer) {
	buf.WriteString("verifiable-encryption|")
	writeString(buf, s.RefID)
	buf.WriteByte('|')
	writeInt(buf, s.Claim)
	buf.WriteByte('|')
	buf.Write(s.EncryptionKey.Marshal())
}

func (s VerifiableEncryptionDecryptionStatement) encode(buf *bytes.Buffer) {
	buf.WriteString("verifiable-encryption-decryption|")
	writeString(buf, s.RefID)
	buf.WriteByte('|')
	writeInt(buf, s.Claim)
	buf.WriteByte('|')
	buf.Write(s.EncryptionKey.Marshal())
}

func (s RangeStatement) encode(buf *bytes.Buffer) {
	buf.WriteString("range|")
	writeString(buf, s.SignatureID)
	buf.WriteByte('|')
	writeString(buf, s.CommitmentID)
	buf.WriteByte('|')
	writeInt(buf, s.Claim)
	fmt.Fprintf(buf, "|%d|%d", s.Lower, s.Upper)
}

func (s MembershipStatement) encode(buf *bytes.Buffer) {
	buf.WriteString("membership|")
	writeString(buf, s.WitnessID)
	buf.WriteByte('|')
	writeString(buf, s.RefID)
	buf.WriteByte('|')
	writeInt(buf, s.Claim)
}

func (s RevocationStatement) encode(buf *bytes.Buffer) {
	buf.WriteString("revocation|")
	writeString(buf, s.WitnessID)
	buf.WriteByte('|')
	writeString(buf, s.RefID)
	buf.WriteByte('|')
	writeInt(buf, s.Claim)
}

// schemaEntry is one insertion-ordered (id, Statement) pair.
type schemaEntry struct {
	id        string
	statement Statement
}

// PresentationSchema is the insertion-ordered id -> Statement mapping a
// presentation is built and verified against. Statements are looked up by
// id in O(1) but iterated in insertion order, since both Create and Verify
// absorb statements into their transcript in that same order.
type PresentationSchema struct {
	entries []schemaEntry
	index   map[string]int
}

// NewSchema returns an empty schema.
func NewSchema() *PresentationSchema {
	return &PresentationSchema{index: make(map[string]int)}
}

// Add appends a statement under id. It fails with ErrInvalidPresentationData
// if id was already used, since the schema is a map and duplicate
// signature-statement ids would otherwise silently collide with the
// credential map's own ids.
func (s *PresentationSchema) Add(id string, st Statement) error {
	if _, exists := s.index[id]; exists {
		return fmt.Errorf("presentation: %w: duplicate statement id %q", common.ErrInvalidPresentationData, id)
	}
	s.index[id] = len(s.entries)
	s.entries = append(s.entries, schemaEntry{id: id, statement: st})
	return nil
}

// Len returns the number of statements in the schema.
func (s *PresentationSchema) Len() int { return len(s.entries) }

// Get returns the statement registered under id.
func (s *PresentationSchema) Get(id string) (Statement, bool) {
	idx, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.entries[idx].statement, true
}

// CanonicalBytes returns a deterministic encoding of the schema's
// statements in insertion order, absorbed into the transcript as the first
// thing both Create and Verify bind the challenge to. Bit-exact wire
// compatibility with any other implementation is not required; only that
// the same PresentationSchema value encodes identically on the create and
// verify sides, which this achieves since both run the same Go code over
// the same in-memory statements.
func (s *PresentationSchema) CanonicalBytes() []byte {
	var buf bytes.Buffer
	for _, e := range s.entries {
		writeString(&buf, e.id)
		buf.WriteByte('=')
		e.statement.encode(&buf)
		buf.WriteByte(';')
	}
	return buf.Bytes()
}
