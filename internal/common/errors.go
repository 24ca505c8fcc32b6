// Package common holds shared constants and sentinel errors used across the
// ps, blind, pok, subproof and presentation packages. It is an internal
// package, not meant for direct use by applications.
package common

import "errors"

// Error kinds raised by the cryptographic core. Callers should compare
// against these with errors.Is; packages wrap them with context via %w.
var (
	// ErrInvalidKeyGeneration covers malformed or out-of-range key material.
	ErrInvalidKeyGeneration = errors.New("invalid key generation parameters")

	// ErrInvalidSignature covers a signature that fails to verify or is
	// structurally malformed (e.g. an identity-element component).
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidBlindIndex covers an out-of-range message index, or an empty
	// set of blinded messages, passed to blind issuance. Duplicate indices
	// are not checked for.
	ErrInvalidBlindIndex = errors.New("invalid blind message index")

	// ErrInvalidOpeningProof covers a Pedersen/Schnorr opening proof that
	// fails to verify.
	ErrInvalidOpeningProof = errors.New("invalid opening proof")

	// ErrInvalidClaimData covers a disclosed or committed claim value that
	// doesn't meet the shape a statement requires (e.g. a non-numeric claim
	// fed to a range statement).
	ErrInvalidClaimData = errors.New("invalid claim data")

	// ErrInvalidPresentationData covers a structurally inconsistent
	// presentation: a statement referencing a credential id that doesn't
	// exist, or of the wrong kind for the statement.
	ErrInvalidPresentationData = errors.New("invalid presentation data")

	// ErrProofVerificationFailed covers a Fiat-Shamir challenge mismatch or
	// failed final pairing/Schnorr check during verification.
	ErrProofVerificationFailed = errors.New("proof verification failed")

	// ErrMismatchedLengths covers parallel-slice arguments of different
	// lengths.
	ErrMismatchedLengths = errors.New("mismatched lengths")
)
