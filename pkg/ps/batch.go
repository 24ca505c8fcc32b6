package ps

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/anupsv/ps-anoncred/internal/common"
	"github.com/anupsv/ps-anoncred/pkg/curve"
)

// BatchVerify verifies n (publicKey, signature, messages) triples with one
// random-linear-combination pairing check instead of n independent ones: a
// fresh random scalar per signature makes a forged or mismatched triple
// detectable with overwhelming probability while collapsing all the
// pairings into a single multi-pairing product. A failing batch does not
// identify which signature was invalid; callers that need that should fall
// back to Verify per-signature.
func BatchVerify(pks []*PublicKey, sigs []*Signature, messagesList [][]curve.Scalar, rng io.Reader) error {
	if rng == nil {
		rng = rand.Reader
	}
	if len(pks) != len(sigs) || len(sigs) != len(messagesList) {
		return fmt.Errorf("ps: %w: pks/sigs/messages count mismatch", common.ErrMismatchedLengths)
	}
	if len(pks) == 0 {
		return nil
	}

	for i := range sigs {
		if sigs[i].Sigma1.IsIdentity() {
			return fmt.Errorf("ps: %w: sigma_1 is the identity element at index %d", common.ErrInvalidSignature, i)
		}
	}

	g1terms := make([]curve.G1, 0, 2*len(sigs))
	g2terms := make([]curve.G2, 0, 2*len(sigs))

	for i := range sigs {
		ri, err := curve.RandomScalar(rng)
		if err != nil {
			return err
		}

		pk := pks[i]
		if len(messagesList[i]) != pk.MessageCount() {
			return fmt.Errorf("ps: %w: signature %d expected %d messages, got %d",
				common.ErrMismatchedLengths, i, pk.MessageCount(), len(messagesList[i]))
		}

		acc, err := curve.SumOfProductsG2(pk.Ytilde[1:], messagesList[i])
		if err != nil {
			return fmt.Errorf("ps: %w: %v", common.ErrInvalidSignature, err)
		}
		rhs := pk.Xtilde.Add(pk.TickYtilde().ScalarMul(sigs[i].MTick)).Add(acc)

		g1terms = append(g1terms, sigs[i].Sigma1.ScalarMul(ri))
		g2terms = append(g2terms, rhs)

		g1terms = append(g1terms, sigs[i].Sigma2.ScalarMul(ri).Neg())
		g2terms = append(g2terms, pk.G2Gen)
	}

	ok, err := curve.MultiPairingIsIdentity(g1terms, g2terms)
	if err != nil {
		return fmt.Errorf("ps: %w: %v", common.ErrInvalidSignature, err)
	}
	if !ok {
		return fmt.Errorf("ps: %w: batch verification failed", common.ErrInvalidSignature)
	}
	return nil
}
