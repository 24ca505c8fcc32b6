package presentation

import (
	"fmt"

	"github.com/anupsv/ps-anoncred/internal/common"
	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/anupsv/ps-anoncred/pkg/transcript"
)

// Verify rebuilds the transcript Create would have produced for schema,
// presentation's disclosed messages, and nonce, checks the recomputed
// challenge equals presentation.Challenge, and checks every sub-proof's
// algebraic relation against that challenge. Any structural mismatch
// (missing proof, missing key, dangling reference) fails with
// ErrInvalidPresentationData; any algebraic or challenge mismatch fails
// with ErrProofVerificationFailed.
func Verify(schema *PresentationSchema, keys VerifierKeys, presentation *Presentation, nonce []byte) error {
	tr := transcript.New(transcriptLabel)
	tr.AppendMessage("curve", []byte(curveDomainTag))
	tr.AppendMessage("nonce", nonce)
	tr.AppendMessage("schema", schema.CanonicalBytes())

	sigStatements, predicateStatements := partition(schema)

	// hiddenResponses[id][claim] is the Schnorr response the signature
	// statement id's proof emitted for claim, keyed the same way
	// HiddenIndices/HiddenResponses pair up. A predicate statement that
	// names (id, claim) directly must reproduce this same response in its
	// own sub-proof, since both were built from the same external blind;
	// that equality is what binds the sub-proof to the signed value rather
	// than to an arbitrary one the holder substituted.
	hiddenResponses := make(map[string]map[int]curve.Scalar, len(sigStatements))

	// Phase 1: signature statements.
	for _, e := range sigStatements {
		pk, ok := keys.PublicKeys[e.id]
		if !ok {
			return fmt.Errorf("presentation: %w: no public key for signature statement %q", common.ErrInvalidPresentationData, e.id)
		}
		proof, ok := presentation.Proofs[e.id]
		if !ok || proof.Signature == nil {
			return fmt.Errorf("presentation: %w: missing signature proof for %q", common.ErrInvalidPresentationData, e.id)
		}
		revealed := presentation.DisclosedMessages[e.id]
		absorbDisclosed(tr, e.id, revealed)

		if err := proof.Signature.AddProofContribution(pk, revealed, presentation.Challenge, tr); err != nil {
			return fmt.Errorf("presentation: signature statement %q: %w", e.id, err)
		}

		byClaim := make(map[int]curve.Scalar, len(proof.Signature.HiddenIndices))
		for i, claim := range proof.Signature.HiddenIndices {
			byClaim[claim] = proof.Signature.HiddenResponses[i]
		}
		hiddenResponses[e.id] = byClaim
	}

	// boundResponse looks up the hidden-claim response a signature
	// statement's proof emitted for (id, claim), failing structurally if
	// no signature statement over id was proved or the claim was not
	// hidden there.
	boundResponse := func(id string, claim int) (curve.Scalar, error) {
		byClaim, ok := hiddenResponses[id]
		if !ok {
			return nil, fmt.Errorf("presentation: %w: no signature statement proof for credential %q", common.ErrInvalidPresentationData, id)
		}
		r, ok := byClaim[claim]
		if !ok {
			return nil, fmt.Errorf("presentation: %w: claim %d of %q was not proved hidden", common.ErrInvalidPresentationData, claim, id)
		}
		return r, nil
	}

	// Phase 2: non-range predicate statements, in schema order.
	var rangeEntries []schemaEntry
	for _, e := range predicateStatements {
		switch st := e.statement.(type) {
		case EqualityStatement:
			proof, ok := presentation.Proofs[e.id]
			if !ok || proof.Equality == nil {
				return fmt.Errorf("presentation: %w: missing equality proof for %q", common.ErrInvalidPresentationData, e.id)
			}
			if proof.Equality.RefA != st.RefA || proof.Equality.ClaimA != st.ClaimA ||
				proof.Equality.RefB != st.RefB || proof.Equality.ClaimB != st.ClaimB {
				return fmt.Errorf("presentation: %w: equality proof %q does not match its statement", common.ErrInvalidPresentationData, e.id)
			}
			responseA, err := boundResponse(st.RefA, st.ClaimA)
			if err != nil {
				return err
			}
			responseB, err := boundResponse(st.RefB, st.ClaimB)
			if err != nil {
				return err
			}
			if responseA.Cmp(responseB) != 0 {
				return fmt.Errorf("presentation: %w: equality statement %q: linked claims carry different responses", common.ErrProofVerificationFailed, e.id)
			}
			proof.Equality.AddProofContribution(tr)

		case CommitmentStatement:
			proof, ok := presentation.Proofs[e.id]
			if !ok || proof.Commitment == nil {
				return fmt.Errorf("presentation: %w: missing commitment proof for %q", common.ErrInvalidPresentationData, e.id)
			}
			bound, err := boundResponse(st.RefID, st.Claim)
			if err != nil {
				return err
			}
			if bound.Cmp(proof.Commitment.ResponseM) != 0 {
				return fmt.Errorf("presentation: %w: commitment statement %q: response does not match the signed claim", common.ErrProofVerificationFailed, e.id)
			}
			if err := proof.Commitment.AddProofContribution(presentation.Challenge, tr); err != nil {
				return fmt.Errorf("presentation: commitment statement %q: %w", e.id, err)
			}

		case VerifiableEncryptionStatement:
			proof, ok := presentation.Proofs[e.id]
			if !ok || proof.Encryption == nil {
				return fmt.Errorf("presentation: %w: missing encryption proof for %q", common.ErrInvalidPresentationData, e.id)
			}
			bound, err := boundResponse(st.RefID, st.Claim)
			if err != nil {
				return err
			}
			if bound.Cmp(proof.Encryption.ResponseM) != 0 {
				return fmt.Errorf("presentation: %w: verifiable-encryption statement %q: response does not match the signed claim", common.ErrProofVerificationFailed, e.id)
			}
			if err := proof.Encryption.AddProofContribution(st.EncryptionKey, presentation.Challenge, tr); err != nil {
				return fmt.Errorf("presentation: verifiable-encryption statement %q: %w", e.id, err)
			}

		case VerifiableEncryptionDecryptionStatement:
			proof, ok := presentation.Proofs[e.id]
			if !ok || proof.Encryption == nil {
				return fmt.Errorf("presentation: %w: missing encryption proof for %q", common.ErrInvalidPresentationData, e.id)
			}
			bound, err := boundResponse(st.RefID, st.Claim)
			if err != nil {
				return err
			}
			if bound.Cmp(proof.Encryption.ResponseM) != 0 {
				return fmt.Errorf("presentation: %w: verifiable-encryption-decryption statement %q: response does not match the signed claim", common.ErrProofVerificationFailed, e.id)
			}
			if err := proof.Encryption.AddProofContribution(st.EncryptionKey, presentation.Challenge, tr); err != nil {
				return fmt.Errorf("presentation: verifiable-encryption-decryption statement %q: %w", e.id, err)
			}

		case MembershipStatement:
			accKey, ok := keys.AccumulatorKeys[st.WitnessID]
			if !ok {
				return fmt.Errorf("presentation: %w: no accumulator key for witness %q", common.ErrInvalidPresentationData, st.WitnessID)
			}
			proof, ok := presentation.Proofs[e.id]
			if !ok || proof.Membership == nil {
				return fmt.Errorf("presentation: %w: missing membership proof for %q", common.ErrInvalidPresentationData, e.id)
			}
			bound, err := boundResponse(st.RefID, st.Claim)
			if err != nil {
				return err
			}
			if bound.Cmp(proof.Membership.Response) != 0 {
				return fmt.Errorf("presentation: %w: membership statement %q: response does not match the signed claim", common.ErrProofVerificationFailed, e.id)
			}
			if err := proof.Membership.AddProofContribution(accKey, presentation.Challenge, tr); err != nil {
				return fmt.Errorf("presentation: membership statement %q: %w", e.id, err)
			}

		case RevocationStatement:
			accKey, ok := keys.AccumulatorKeys[st.WitnessID]
			if !ok {
				return fmt.Errorf("presentation: %w: no accumulator key for witness %q", common.ErrInvalidPresentationData, st.WitnessID)
			}
			proof, ok := presentation.Proofs[e.id]
			if !ok || proof.Revocation == nil {
				return fmt.Errorf("presentation: %w: missing revocation proof for %q", common.ErrInvalidPresentationData, e.id)
			}
			bound, err := boundResponse(st.RefID, st.Claim)
			if err != nil {
				return err
			}
			if bound.Cmp(proof.Revocation.ResponseE) != 0 {
				return fmt.Errorf("presentation: %w: revocation statement %q: response does not match the signed claim", common.ErrProofVerificationFailed, e.id)
			}
			if err := proof.Revocation.AddProofContribution(accKey, presentation.Challenge, tr); err != nil {
				return fmt.Errorf("presentation: revocation statement %q: %w", e.id, err)
			}

		case RangeStatement:
			rangeEntries = append(rangeEntries, e)

		default:
			return fmt.Errorf("presentation: %w: unknown statement kind for id %q", common.ErrInvalidPresentationData, e.id)
		}
	}

	// Phase 3: range statements, appended last, checked for structural
	// consistency against the commitment they reference.
	for _, e := range rangeEntries {
		st := e.statement.(RangeStatement)
		commitmentProof, ok := presentation.Proofs[st.CommitmentID]
		if !ok || commitmentProof.Commitment == nil {
			return fmt.Errorf("presentation: %w: range statement %q references unknown commitment %q", common.ErrInvalidPresentationData, e.id, st.CommitmentID)
		}
		proof, ok := presentation.Proofs[e.id]
		if !ok || proof.Range == nil {
			return fmt.Errorf("presentation: %w: missing range proof for %q", common.ErrInvalidPresentationData, e.id)
		}
		if proof.Range.Lower != st.Lower || proof.Range.Upper != st.Upper {
			return fmt.Errorf("presentation: %w: range proof %q bounds do not match its statement", common.ErrInvalidPresentationData, e.id)
		}
		if !proof.Range.CheckConsistency(commitmentProof.Commitment.C) {
			return fmt.Errorf("presentation: %w: range proof %q is inconsistent with its referenced commitment", common.ErrProofVerificationFailed, e.id)
		}
		if err := proof.Range.AddProofContribution(presentation.Challenge, tr); err != nil {
			return fmt.Errorf("presentation: range statement %q: %w", e.id, err)
		}
	}

	recomputed := tr.ChallengeScalar("challenge bytes")
	if recomputed.Cmp(presentation.Challenge) != 0 {
		return fmt.Errorf("presentation: %w: recomputed challenge does not match", common.ErrProofVerificationFailed)
	}
	return nil
}
