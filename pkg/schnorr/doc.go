// Package schnorr implements the multi-base Schnorr commitment building
// block every proof-of-knowledge in this module is assembled from: commit to
// random blinding factors for a set of secrets, absorb the commitment into a
// shared transcript, then once a challenge is drawn, compute the responses
// and later verify them against the commitment.
//
// Responses use the subtraction form: r_i = b_i - c*s_i, verified by
// checking Σ r_i·P_i + c·C_secret == C_rand. This is a deliberate, explicit
// choice: elsewhere in the surrounding ecosystem (including this repo's own
// curve-adjacent reference material) the addition form r_i = b_i + c*s_i is
// more common, but the two are not interchangeable without also flipping the
// verification equation's sign, and this package commits to one consistently
// across every caller.
package schnorr
