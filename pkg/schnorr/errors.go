package schnorr

import "errors"

// ErrSecretCountMismatch is returned when the number of secrets or
// responses passed to a Committer call doesn't match the number of bases
// committed.
var ErrSecretCountMismatch = errors.New("schnorr: secret/response count does not match committed base count")
