package curve

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestRandomScalarInRange(t *testing.T) {
	s, err := RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	if s.Sign() == 0 {
		t.Fatalf("RandomScalar returned zero")
	}
	if s.Cmp(Order()) >= 0 {
		t.Fatalf("RandomScalar returned a value >= Order")
	}
}

func TestScalarFieldArithmetic(t *testing.T) {
	a, _ := RandomScalar(rand.Reader)
	b, _ := RandomScalar(rand.Reader)

	sum := AddMod(a, b)
	back := SubMod(sum, b)
	if back.Cmp(a) != 0 {
		t.Fatalf("AddMod/SubMod round trip failed")
	}

	inv := InverseMod(a)
	one := MulMod(a, inv)
	if one.Cmp(bigIntOne) != 0 {
		t.Fatalf("a * a^-1 != 1, got %s", one.String())
	}
}

func TestG1AddNegIdentity(t *testing.T) {
	g := G1Generator()
	s, _ := RandomScalar(rand.Reader)
	p := g.ScalarMul(s)
	sum := p.Add(p.Neg())
	if !sum.IsIdentity() {
		t.Fatalf("p + (-p) did not collapse to identity")
	}
}

func TestG1MarshalRoundTrip(t *testing.T) {
	g := G1Generator()
	s, _ := RandomScalar(rand.Reader)
	p := g.ScalarMul(s)

	data := p.Marshal()
	back, err := UnmarshalG1(data)
	if err != nil {
		t.Fatalf("UnmarshalG1: %v", err)
	}
	if !p.Equal(back) {
		t.Fatalf("G1 marshal round trip mismatch")
	}
}

func TestSumOfProductsMatchesSequentialSum(t *testing.T) {
	n := 5
	points := make([]G1, n)
	scalars := make([]Scalar, n)
	g := G1Generator()

	expected := G1{}
	for i := 0; i < n; i++ {
		s, _ := RandomScalar(rand.Reader)
		points[i] = g.ScalarMul(s)
		sc, _ := RandomScalar(rand.Reader)
		scalars[i] = sc
		expected = expected.Add(points[i].ScalarMul(sc))
	}

	got, err := SumOfProductsG1(points, scalars)
	if err != nil {
		t.Fatalf("SumOfProductsG1: %v", err)
	}
	if !got.Equal(expected) {
		t.Fatalf("SumOfProductsG1 mismatch")
	}
}

func TestSumOfProductsMismatchedLengths(t *testing.T) {
	_, err := SumOfProductsG1([]G1{G1Generator()}, nil)
	if err != ErrMismatchedLengths {
		t.Fatalf("expected ErrMismatchedLengths, got %v", err)
	}
}

func TestHashDerivedGeneratorDeterministicAndDistinct(t *testing.T) {
	a := HashDerivedGenerator("label-a", 0)
	aAgain := HashDerivedGenerator("label-a", 0)
	if !a.Equal(aAgain) {
		t.Fatalf("HashDerivedGenerator is not deterministic")
	}

	b := HashDerivedGenerator("label-a", 1)
	if a.Equal(b) {
		t.Fatalf("generators at different indices collided")
	}

	c := HashDerivedGenerator("label-b", 0)
	if a.Equal(c) {
		t.Fatalf("generators under different labels collided")
	}
}

func TestMultiPairingIsIdentityOnCanceledTerms(t *testing.T) {
	g1 := G1Generator()
	g2 := G2Generator()
	s, _ := RandomScalar(rand.Reader)

	// e(s*g1, g2) * e(g1, -s*g2) == 1
	ok, err := MultiPairingIsIdentity([]G1{g1.ScalarMul(s), g1}, []G2{g2, g2.ScalarMul(s).Neg()})
	if err != nil {
		t.Fatalf("MultiPairingIsIdentity: %v", err)
	}
	if !ok {
		t.Fatalf("expected multi-pairing to collapse to identity")
	}
}

func TestScratchPoolReuse(t *testing.T) {
	p := NewScratchPool()
	s := p.GetG1Slice()
	s = append(s, G1Generator())
	p.PutG1Slice(s)

	s2 := p.GetG1Slice()
	if len(s2) != 0 {
		t.Fatalf("expected zero-length slice from pool, got %d", len(s2))
	}
}

func TestScalarFromWideBytesStable(t *testing.T) {
	buf := bytes.Repeat([]byte{0x42}, 64)
	a := ScalarFromWideBytes(buf)
	b := ScalarFromWideBytes(buf)
	if a.Cmp(b) != 0 {
		t.Fatalf("ScalarFromWideBytes not stable across calls")
	}
}
