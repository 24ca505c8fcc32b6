package blind

import "errors"

// ErrContextVerificationFailed is returned by VerifyContext when the
// recipient's opening proof for the blind commitment doesn't check out.
var ErrContextVerificationFailed = errors.New("blind: context proof verification failed")
