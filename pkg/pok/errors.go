package pok

import "errors"

// ErrDisclosureCoverage is returned when the hidden and revealed message
// indices passed to Commit/Verify don't exactly partition [0, messageCount).
var ErrDisclosureCoverage = errors.New("pok: hidden and revealed indices must exactly partition the message vector")
