package common

import "math/big"

// Order is the scalar field order of the BLS12-381 r-order subgroup, shared
// by G1, G2 and GT. Every scalar in this package family is reduced modulo
// Order.
var Order, _ = new(big.Int).SetString("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

// Domain separation tags, each naming a distinct purpose. No code in this
// module references them: the generator derivations in pkg/subproof pass
// their own literal labels ("subproof-commitment", "subproof-elgamal").
const (
	DSTMessageGenerator = "PS-h"
	DSTBlindGenerator   = "PS-y-blind"
	DSTPedersenBlind    = "PS-pedersen-h"
	DSTNonce            = "anoncred-presentation-nonce"
)
