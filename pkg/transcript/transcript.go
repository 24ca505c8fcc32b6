package transcript

import (
	"encoding/binary"

	"github.com/anupsv/ps-anoncred/pkg/curve"
	"github.com/gtank/merlin"
)

// Transcript is a labeled Fiat-Shamir transcript. It is not safe for
// concurrent use by multiple goroutines.
type Transcript struct {
	t *merlin.Transcript
}

// New starts a fresh transcript under the given protocol label. Every
// protocol in this module opens its own transcript this way, under its own
// fixed label ("new blind signature", "signature proof of knowledge",
// "credential presentation", ...).
func New(label string) *Transcript {
	return &Transcript{t: merlin.NewTranscript(label)}
}

// AppendMessage absorbs an arbitrary labeled byte string.
func (tr *Transcript) AppendMessage(label string, data []byte) {
	tr.t.AppendMessage([]byte(label), data)
}

// AppendUint64 absorbs a fixed-width integer, used for lengths and indices
// that must be domain-separated from opaque byte strings of the same value.
func (tr *Transcript) AppendUint64(label string, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	tr.AppendMessage(label, buf[:])
}

// AppendScalar absorbs a scalar's big-endian byte representation.
func (tr *Transcript) AppendScalar(label string, s curve.Scalar) {
	tr.AppendMessage(label, s.Bytes())
}

// AppendG1 absorbs a compressed G1 point.
func (tr *Transcript) AppendG1(label string, p curve.G1) {
	tr.AppendMessage(label, p.Marshal())
}

// AppendG2 absorbs a compressed G2 point.
func (tr *Transcript) AppendG2(label string, p curve.G2) {
	tr.AppendMessage(label, p.Marshal())
}

// ChallengeScalar draws a labeled 64-byte challenge from the transcript and
// wide-reduces it into a scalar, giving the reduction enough excess entropy
// over the curve order to keep the result statistically close to uniform.
func (tr *Transcript) ChallengeScalar(label string) curve.Scalar {
	out := tr.t.ExtractBytes([]byte(label), 64)
	return curve.ScalarFromWideBytes(out)
}
