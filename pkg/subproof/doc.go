// Package subproof implements the per-predicate sub-proof builders a
// presentation assembles alongside its pkg/pok signature proofs: Commitment,
// Equality, VerifiableEncryption (+Decryption), Range, and Membership /
// Revocation. Each builder follows the same two-phase shape pkg/pok does --
// commit against a shared transcript, then emit a proof once the
// presentation-wide challenge is known -- so pkg/presentation can interleave
// them in schema order on one Fiat-Shamir transcript.
package subproof
