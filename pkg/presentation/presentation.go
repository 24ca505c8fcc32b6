package presentation

import (
	"crypto/rand"
	"fmt"
	"io"
	"sort"

	"github.com/anupsv/ps-anoncred/internal/common"
	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/pok"
	"github.com/anupsv/ps-anoncred/pkg/ps"
	"github.com/anupsv/ps-anoncred/pkg/subproof"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

const (
	transcriptLabel = "credential presentation"
	curveDomainTag  = "BLS12-381"
)

// SubProof is one statement's proof payload: exactly one field is non-nil,
// selected by Kind, matching whichever Statement subtype the owning schema
// entry holds.
type SubProof struct {
	Kind       string
	Signature  *pok.Proof                `json:"signature,omitempty"`
	Equality   *subproof.EqualityProof   `json:"equality,omitempty"`
	Commitment *subproof.CommitmentProof `json:"commitment,omitempty"`
	Encryption *subproof.EncryptionProof `json:"encryption,omitempty"`
	Range      *subproof.RangeProof      `json:"range,omitempty"`
	Membership *subproof.MembershipProof `json:"membership,omitempty"`
	Revocation *subproof.RevocationProof `json:"revocation,omitempty"`
}

// Presentation is the value Create emits and Verify checks: the sub-proofs
// keyed by statement id, the Fiat-Shamir challenge they were all computed
// against, and whatever claims were disclosed in the clear.
type Presentation struct {
	Proofs            map[string]SubProof
	Challenge         curve.Scalar
	DisclosedMessages map[string]map[int]curve.Scalar
}

// VerifierKeys bundles the public material Verify needs beyond the schema
// and presentation themselves: a PS public key per signature-statement id,
// and an accumulator key per membership/revocation witness id.
type VerifierKeys struct {
	PublicKeys      map[string]*ps.PublicKey
	AccumulatorKeys map[string]subproof.AccumulatorKey
}

func partition(schema *PresentationSchema) (signatures, predicates []schemaEntry) {
	for _, e := range schema.entries {
		if _, ok := e.statement.(SignatureStatement); ok {
			signatures = append(signatures, e)
		} else {
			predicates = append(predicates, e)
		}
	}
	return signatures, predicates
}

func absorbDisclosed(tr *transcript.Transcript, credentialID string, disclosed map[int]curve.Scalar) {
	tr.AppendMessage("disclosed credential", []byte(credentialID))
	indices := make([]int, 0, len(disclosed))
	for idx := range disclosed {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	tr.AppendUint64("disclosed count", uint64(len(indices)))
	for _, idx := range indices {
		tr.AppendUint64("disclosed index", uint64(idx))
		tr.AppendScalar("disclosed value", disclosed[idx])
	}
}

// directClaimRef returns the (credential, claim) position a predicate
// statement directly names, or ok=false for statements (Equality, Range)
// handled separately.
func directClaimRef(st Statement) (claimRef, bool) {
	switch s := st.(type) {
	case CommitmentStatement:
		return claimRef{s.RefID, s.Claim}, true
	case VerifiableEncryptionStatement:
		return claimRef{s.RefID, s.Claim}, true
	case VerifiableEncryptionDecryptionStatement:
		return claimRef{s.RefID, s.Claim}, true
	case MembershipStatement:
		return claimRef{s.RefID, s.Claim}, true
	case RevocationStatement:
		return claimRef{s.RefID, s.Claim}, true
	default:
		return claimRef{}, false
	}
}

// Create builds a Presentation proving every statement in schema against
// credentials: it assembles the per-claim disclosure table, resolves
// equality and shared-blind links, builds each statement's sub-proof in
// schema order (deferring range statements until the commitments they
// reference exist), draws one Fiat-Shamir challenge over the whole
// transcript, and generates every sub-proof's response against it.
func Create(schema *PresentationSchema, credentials map[string]Credential, disclosures Disclosures, nonce []byte, rng io.Reader) (*Presentation, error) {
	if rng == nil {
		rng = rand.Reader
	}

	tr := transcript.New(transcriptLabel)
	tr.AppendMessage("curve", []byte(curveDomainTag))
	tr.AppendMessage("nonce", nonce)
	tr.AppendMessage("schema", schema.CanonicalBytes())

	sigStatements, predicateStatements := partition(schema)
	if len(sigStatements) > len(credentials) {
		return nil, fmt.Errorf("presentation: %w: %d signature statements but only %d credentials", common.ErrInvalidPresentationData, len(sigStatements), len(credentials))
	}

	table, err := buildMessageTable(sigStatements, credentials, disclosures)
	if err != nil {
		return nil, err
	}

	var equalities []EqualityStatement
	for _, e := range predicateStatements {
		if eq, ok := e.statement.(EqualityStatement); ok {
			equalities = append(equalities, eq)
		}
	}
	if err := applyEqualities(table, equalities, rng); err != nil {
		return nil, err
	}
	for _, e := range predicateStatements {
		if ref, ok := directClaimRef(e.statement); ok {
			if err := ensureSharedBlind(table, ref, rng); err != nil {
				return nil, err
			}
		}
	}

	proofs := make(map[string]SubProof, schema.Len())
	disclosed := make(map[string]map[int]curve.Scalar)

	pokBuilders := make(map[string]*pok.Builder, len(sigStatements))

	// Phase 1: signature statements.
	for _, e := range sigStatements {
		cred := credentials[e.id].(SignatureCredential)
		perClaim := table[e.id]

		messages := make(map[int]curve.Scalar, len(perClaim))
		revealed := make(map[int]curve.Scalar)
		externalBlinds := make(map[int]curve.Scalar)
		discl := make(map[int]curve.Scalar)
		for idx, entry := range perClaim {
			messages[idx] = entry.value
			switch entry.kind {
			case Revealed:
				revealed[idx] = entry.value
				discl[idx] = entry.value
			case HiddenExternalBlinding:
				externalBlinds[idx] = entry.blind
			}
		}
		if len(discl) > 0 {
			disclosed[e.id] = discl
		}
		absorbDisclosed(tr, e.id, discl)

		builder, err := pok.Commit(cred.Signature, cred.PublicKey, messages, revealed, externalBlinds, rng)
		if err != nil {
			return nil, fmt.Errorf("presentation: signature statement %q: %w", e.id, err)
		}
		builder.AddChallengeContribution(tr)

		pokBuilders[e.id] = builder
	}

	// Phase 2: non-range predicate statements, in schema order.
	commitmentBuilders := make(map[string]*subproof.CommitmentBuilder)
	encryptionBuilders := make(map[string]*subproof.EncryptionBuilder)
	encryptionKind := make(map[string]string)
	equalityBuilders := make(map[string]*subproof.EqualityBuilder)
	membershipBuilders := make(map[string]*subproof.MembershipBuilder)
	revocationBuilders := make(map[string]*subproof.RevocationBuilder)
	var rangeEntries []schemaEntry

	for _, e := range predicateStatements {
		switch st := e.statement.(type) {
		case EqualityStatement:
			b := subproof.NewEquality(st.RefA, st.ClaimA, st.RefB, st.ClaimB)
			b.AddChallengeContribution(tr)
			equalityBuilders[e.id] = b

		case CommitmentStatement:
			entry, err := table.entry(st.RefID, st.Claim)
			if err != nil {
				return nil, err
			}
			r, err := curve.RandomScalar(rng)
			if err != nil {
				return nil, err
			}
			b, err := subproof.NewCommitmentShared(entry.value, r, entry.blind, rng)
			if err != nil {
				return nil, err
			}
			if err := b.AddChallengeContribution(tr); err != nil {
				return nil, err
			}
			commitmentBuilders[e.id] = b

		case VerifiableEncryptionStatement:
			entry, err := table.entry(st.RefID, st.Claim)
			if err != nil {
				return nil, err
			}
			b, err := subproof.NewEncryptionShared(st.EncryptionKey, entry.value, entry.blind, rng)
			if err != nil {
				return nil, err
			}
			if err := b.AddChallengeContribution(tr); err != nil {
				return nil, err
			}
			encryptionBuilders[e.id] = b
			encryptionKind[e.id] = "verifiable-encryption"

		case VerifiableEncryptionDecryptionStatement:
			entry, err := table.entry(st.RefID, st.Claim)
			if err != nil {
				return nil, err
			}
			b, err := subproof.NewEncryptionShared(st.EncryptionKey, entry.value, entry.blind, rng)
			if err != nil {
				return nil, err
			}
			if err := b.AddChallengeContribution(tr); err != nil {
				return nil, err
			}
			encryptionBuilders[e.id] = b
			encryptionKind[e.id] = "verifiable-encryption-decryption"

		case MembershipStatement:
			entry, err := table.entry(st.RefID, st.Claim)
			if err != nil {
				return nil, err
			}
			witnessCred, ok := credentials[st.WitnessID].(MembershipCredential)
			if !ok || witnessCred.Witness == nil {
				return nil, fmt.Errorf("presentation: %w: credential %q is not a membership-witness credential", common.ErrInvalidPresentationData, st.WitnessID)
			}
			b, err := subproof.NewMembership(witnessCred.Key, witnessCred.Accumulator, *witnessCred.Witness, entry.value, entry.blind, rng)
			if err != nil {
				return nil, err
			}
			b.AddChallengeContribution(tr)
			membershipBuilders[e.id] = b

		case RevocationStatement:
			entry, err := table.entry(st.RefID, st.Claim)
			if err != nil {
				return nil, err
			}
			witnessCred, ok := credentials[st.WitnessID].(MembershipCredential)
			if !ok || witnessCred.NonWitness == nil {
				return nil, fmt.Errorf("presentation: %w: credential %q is not a non-membership-witness credential", common.ErrInvalidPresentationData, st.WitnessID)
			}
			b, err := subproof.NewRevocation(witnessCred.Key, *witnessCred.NonWitness, entry.value, entry.blind, rng)
			if err != nil {
				return nil, err
			}
			b.AddChallengeContribution(tr)
			revocationBuilders[e.id] = b

		case RangeStatement:
			rangeEntries = append(rangeEntries, e)

		default:
			return nil, fmt.Errorf("presentation: %w: unknown statement kind for id %q", common.ErrInvalidPresentationData, e.id)
		}
	}

	// Phase 3: range statements, appended last per the ordering rule.
	rangeBuilders := make(map[string]*subproof.RangeBuilder, len(rangeEntries))
	for _, e := range rangeEntries {
		st := e.statement.(RangeStatement)
		claimEntry, err := table.entry(st.SignatureID, st.Claim)
		if err != nil {
			return nil, err
		}
		if claimEntry.kind == Revealed {
			return nil, fmt.Errorf("presentation: %w: claim %d of %q is Revealed and cannot back a range statement", common.ErrInvalidClaimData, st.Claim, st.SignatureID)
		}
		commitmentBuilder, ok := commitmentBuilders[st.CommitmentID]
		if !ok {
			return nil, fmt.Errorf("presentation: %w: range statement %q references unknown commitment %q", common.ErrInvalidPresentationData, e.id, st.CommitmentID)
		}
		b, err := subproof.NewRange(commitmentBuilder.Value(), commitmentBuilder.Blind(), st.Lower, st.Upper, rng)
		if err != nil {
			return nil, err
		}
		if err := b.AddChallengeContribution(tr); err != nil {
			return nil, err
		}
		rangeBuilders[e.id] = b
	}

	challenge := tr.ChallengeScalar("challenge bytes")

	for id, b := range pokBuilders {
		proofs[id] = SubProof{Kind: "signature", Signature: b.GenerateProof(challenge)}
	}
	for id, b := range equalityBuilders {
		proofs[id] = SubProof{Kind: "equality", Equality: b.GenerateProof()}
	}
	for id, b := range commitmentBuilders {
		p, err := b.GenerateProof(challenge)
		if err != nil {
			return nil, err
		}
		proofs[id] = SubProof{Kind: "commitment", Commitment: p}
	}
	for id, b := range encryptionBuilders {
		p, err := b.GenerateProof(challenge)
		if err != nil {
			return nil, err
		}
		proofs[id] = SubProof{Kind: encryptionKind[id], Encryption: p}
	}
	for id, b := range membershipBuilders {
		proofs[id] = SubProof{Kind: "membership", Membership: b.GenerateProof(challenge)}
	}
	for id, b := range revocationBuilders {
		proofs[id] = SubProof{Kind: "revocation", Revocation: b.GenerateProof(challenge)}
	}
	for id, b := range rangeBuilders {
		p, err := b.GenerateProof(challenge)
		if err != nil {
			return nil, err
		}
		proofs[id] = SubProof{Kind: "range", Range: p}
	}

	return &Presentation{Proofs: proofs, Challenge: challenge, DisclosedMessages: disclosed}, nil
}
