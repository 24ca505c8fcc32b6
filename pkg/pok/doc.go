// Package pok implements a zero-knowledge proof of knowledge of a PS
// signature with selective disclosure: given a signature over L messages,
// a prover reveals a chosen subset in the clear and proves, without
// revealing the rest, that it holds a valid signature over the full vector.
//
// The signature is first re-randomized as sigma_1' = sigma_1^r,
// sigma_2' = (sigma_2 + t*sigma_1)^r for fresh random r, t, which turns the
// PS verification equation into a discrete-log relation in GT:
//
//	e(sigma_2', g~) * e(sigma_1', X~)^-1 * e(sigma_1', Y~_0)^-m_tick
//	    * Π_revealed e(sigma_1', Y~_i)^-m_i
//	    == Π_hidden e(sigma_1', Y~_i)^m_i * e(sigma_1', g~)^t
//
// The left side (Z) is computable by anyone who knows the revealed messages,
// the signature's disclosed m_tick and the randomized signature; the right
// side is a multi-base discrete-log
// statement over GT in the hidden messages and t, proved with the same
// subtraction-form Schnorr technique pkg/schnorr uses over G1, just carried
// out in GT by hand since pkg/schnorr is specific to G1 bases.
//
// A hidden message may supply an externally-fixed blinding factor instead
// of a freshly drawn one, so the same committed value can be proved equal
// across two independent proofs sharing one Fiat-Shamir challenge -- the
// building block pkg/subproof's equality builder uses.
package pok
