package presentation

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/anupsv/ps-anoncred/internal/common"
	"github.com/anupsv/ps-anoncred/pkg/curve"
)

// claimEntry is the frozen per-claim disclosure decision Create builds,
// for every claim of every signature credential in the schema, before
// touching any sub-proof builder. Equality statements rewrite the affected
// positions to share one proof-specific blinder before this table is
// frozen, so every builder that later reads an entry sees its final blind.
type claimEntry struct {
	value curve.Scalar
	kind  DisclosureKind
	blind curve.Scalar // set once kind == HiddenExternalBlinding
}

// messageTable maps credential id -> claim index -> *claimEntry.
type messageTable map[string]map[int]*claimEntry

func (t messageTable) entry(id string, claim int) (*claimEntry, error) {
	byClaim, ok := t[id]
	if !ok {
		return nil, fmt.Errorf("presentation: %w: no signature credential %q in schema", common.ErrInvalidPresentationData, id)
	}
	e, ok := byClaim[claim]
	if !ok {
		return nil, fmt.Errorf("presentation: %w: claim index %d out of range for credential %q", common.ErrInvalidPresentationData, claim, id)
	}
	return e, nil
}

// buildMessageTable populates one entry per claim of every signature
// credential the schema's signature statements reference, applying the
// caller's disclosure policy (or HiddenProofSpecific by default).
func buildMessageTable(sigStatements []schemaEntry, credentials map[string]Credential, disclosures Disclosures) (messageTable, error) {
	table := make(messageTable, len(sigStatements))
	for _, e := range sigStatements {
		cred, ok := credentials[e.id]
		if !ok {
			return nil, fmt.Errorf("presentation: %w: no credential for signature statement %q", common.ErrInvalidPresentationData, e.id)
		}
		sigCred, ok := cred.(SignatureCredential)
		if !ok {
			return nil, fmt.Errorf("presentation: %w: credential %q is not a Signature credential", common.ErrInvalidPresentationData, e.id)
		}
		if len(sigCred.Claims) != sigCred.PublicKey.MessageCount() {
			return nil, fmt.Errorf("presentation: %w: credential %q has %d claims, key expects %d", common.ErrInvalidPresentationData, e.id, len(sigCred.Claims), sigCred.PublicKey.MessageCount())
		}

		perClaim := make(map[int]*claimEntry, len(sigCred.Claims))
		for idx, v := range sigCred.Claims {
			pm := ProofMessage{Kind: HiddenProofSpecific}
			if declared, ok := disclosures.lookup(e.id, idx); ok {
				pm = declared
			}
			perClaim[idx] = &claimEntry{value: v, kind: pm.Kind, blind: pm.Blind}
		}
		table[e.id] = perClaim
	}
	return table, nil
}

// claimRef names one (credential, claim index) position a predicate
// statement points at.
type claimRef struct {
	id    string
	claim int
}

// shareBlind forces ref's entry into HiddenExternalBlinding with blind,
// rejecting a Revealed position: a claim marked Revealed cannot also back a
// commitment, range, membership, revocation, verifiable-encryption, or
// equality statement, since there is no hidden value left to bind.
func shareBlind(table messageTable, ref claimRef, blind curve.Scalar) error {
	entry, err := table.entry(ref.id, ref.claim)
	if err != nil {
		return err
	}
	if entry.kind == Revealed {
		return fmt.Errorf("presentation: %w: claim %d of %q is Revealed and cannot back a hiding statement", common.ErrInvalidClaimData, ref.claim, ref.id)
	}
	entry.kind = HiddenExternalBlinding
	entry.blind = blind
	return nil
}

// ensureSharedBlind is like shareBlind but reuses an already-assigned
// external blind rather than overwriting it, so a position already linked
// by an Equality statement keeps participating in that link when a second,
// independent predicate statement (Commitment, Membership, ...) also
// references it.
func ensureSharedBlind(table messageTable, ref claimRef, rng io.Reader) error {
	entry, err := table.entry(ref.id, ref.claim)
	if err != nil {
		return err
	}
	if entry.kind == Revealed {
		return fmt.Errorf("presentation: %w: claim %d of %q is Revealed and cannot back a hiding statement", common.ErrInvalidClaimData, ref.claim, ref.id)
	}
	if entry.kind == HiddenExternalBlinding {
		return nil
	}
	blind, err := curve.RandomScalar(rng)
	if err != nil {
		return err
	}
	entry.kind = HiddenExternalBlinding
	entry.blind = blind
	return nil
}

// applyEqualities rewrites the positions named by every EqualityStatement
// to share one freshly drawn blind, before any other predicate statement's
// shared blind is assigned -- so a position that is also referenced by a
// Commitment, Membership, or similar statement keeps participating in its
// equality link rather than getting a second, independent blind.
func applyEqualities(table messageTable, equalities []EqualityStatement, rng io.Reader) error {
	if rng == nil {
		rng = rand.Reader
	}
	for _, eq := range equalities {
		blind, err := curve.RandomScalar(rng)
		if err != nil {
			return err
		}
		if err := shareBlind(table, claimRef{eq.RefA, eq.ClaimA}, blind); err != nil {
			return err
		}
		if err := shareBlind(table, claimRef{eq.RefB, eq.ClaimB}, blind); err != nil {
			return err
		}
	}
	return nil
}
