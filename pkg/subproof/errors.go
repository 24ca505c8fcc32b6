package subproof

import "errors"

// ErrRangeBitWidth covers a Range statement whose [lower, upper] span
// doesn't fit the builder's fixed bit width.
var ErrRangeBitWidth = errors.New("subproof: range exceeds supported bit width")

// ErrUnknownAccumulatorElement covers a Membership/Revocation witness that
// doesn't correspond to the claim it's presented against.
var ErrUnknownAccumulatorElement = errors.New("subproof: accumulator witness does not match claim")
