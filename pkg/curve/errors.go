package curve

import "errors"

// ErrMismatchedPairingInputs is returned when the G1 and G2 slices passed to
// a multi-pairing check have different lengths.
var ErrMismatchedPairingInputs = errors.New("curve: mismatched pairing input lengths")

// ErrMismatchedLengths is returned by multi-scalar multiplication when the
// point and scalar slices passed in have different lengths.
var ErrMismatchedLengths = errors.New("curve: mismatched point/scalar slice lengths")
