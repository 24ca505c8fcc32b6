// Package ps implements the Pointcheval-Sanders short-group signature
// scheme over BLS12-381: key generation, direct signing and verification,
// and re-randomization. Multi-message signatures are supported directly
// (one y_i exponent per message slot): a secret key is (x, y_0, y_1..y_L)
// with y_0 reserved for the per-signature nonce m_tick, a public key
// publishes X~ = g~^x and Y~_i = g~^{y_i} on G2, and a signature
// (sigma_1, sigma_2, m_tick) satisfies
//
//	e(sigma_1, X~ * Y~_0^{m_tick} * Π Y~_i^{m_i}) == e(sigma_2, g~)
//
// with sigma_1 required to not be the G1 identity element.
package ps
