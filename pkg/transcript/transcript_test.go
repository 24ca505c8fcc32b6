package transcript

import (
	"crypto/rand"
	"testing"

	"github.com/anupsv/ps-anoncred/pkg/curve"
)

func TestChallengeScalarDeterministic(t *testing.T) {
	g := curve.G1Generator()

	build := func() curve.Scalar {
		tr := New("test-protocol")
		tr.AppendG1("commitment", g)
		tr.AppendUint64("count", 3)
		return tr.ChallengeScalar("challenge")
	}

	a := build()
	b := build()
	if a.Cmp(b) != 0 {
		t.Fatalf("same transcript inputs produced different challenges")
	}
}

func TestChallengeScalarSensitiveToInput(t *testing.T) {
	g := curve.G1Generator()
	s, _ := curve.RandomScalar(rand.Reader)
	h := g.ScalarMul(s)

	tr1 := New("test-protocol")
	tr1.AppendG1("commitment", g)
	c1 := tr1.ChallengeScalar("challenge")

	tr2 := New("test-protocol")
	tr2.AppendG1("commitment", h)
	c2 := tr2.ChallengeScalar("challenge")

	if c1.Cmp(c2) == 0 {
		t.Fatalf("different transcript inputs produced the same challenge")
	}
}

func TestChallengeScalarSensitiveToLabel(t *testing.T) {
	g := curve.G1Generator()

	tr1 := New("protocol-a")
	tr1.AppendG1("commitment", g)
	c1 := tr1.ChallengeScalar("challenge")

	tr2 := New("protocol-b")
	tr2.AppendG1("commitment", g)
	c2 := tr2.ChallengeScalar("challenge")

	if c1.Cmp(c2) == 0 {
		t.Fatalf("different protocol labels produced the same challenge")
	}
}
