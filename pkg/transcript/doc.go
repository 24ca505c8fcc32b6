// Package transcript wraps github.com/gtank/merlin's labeled Merlin
// transcript for the Fiat-Shamir challenges this module derives. Every
// proof component (Schnorr commitments, PS signature proofs of knowledge,
// the multi-statement presentation challenge) absorbs its public values into
// one shared transcript instance instead of hashing an ad hoc byte buffer,
// so composing several sub-proofs under a single challenge is just a matter
// of feeding them all into the same *Transcript before calling
// ChallengeScalar once.
package transcript
