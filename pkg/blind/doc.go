// Package blind implements blind issuance over a subset of committed
// messages for the PS scheme: a recipient commits to the messages it wants
// to keep hidden from the signer, proves knowledge of the opening with a
// Schnorr proof, and the signer issues a signature over the commitment plus
// any messages it was told directly, without ever learning the committed
// ones. The recipient then removes its own blinding contribution to recover
// an ordinary ps.Signature.
//
// The commitment is Σ_i y_blinds[i]*m_i + blinding*G1Generator, proved open
// with one Schnorr commitment per blinded index plus the blinding factor,
// bound into a Merlin transcript under fixed labels ("new blind signature",
// "public key", "random commitment", "blind commitment", "nonce",
// "blind signature context challenge").
package blind
