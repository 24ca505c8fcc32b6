package curve

import (
	"encoding/base64"
	"encoding/json"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// G1 is a point on the BLS12-381 G1 curve, always held in affine form.
type G1 struct {
	p bls12381.G1Affine
}

// G2 is a point on the BLS12-381 G2 curve, always held in affine form.
type G2 struct {
	p bls12381.G2Affine
}

// Gt is an element of the target group produced by a pairing.
type Gt struct {
	e bls12381.GT
}

// G1Generator returns the standard BLS12-381 G1 base point.
func G1Generator() G1 {
	_, _, g1, _ := bls12381.Generators()
	return G1{p: g1}
}

// G2Generator returns the standard BLS12-381 G2 base point.
func G2Generator() G2 {
	_, _, _, g2 := bls12381.Generators()
	return G2{p: g2}
}

// Affine exposes the underlying gnark-crypto point for callers that need to
// hand it directly to gnark-crypto APIs (e.g. batched pairing checks).
func (g G1) Affine() bls12381.G1Affine { return g.p }
func (g G2) Affine() bls12381.G2Affine { return g.p }

// G1FromAffine wraps a raw gnark-crypto point.
func G1FromAffine(p bls12381.G1Affine) G1 { return G1{p: p} }

// G2FromAffine wraps a raw gnark-crypto point.
func G2FromAffine(p bls12381.G2Affine) G2 { return G2{p: p} }

// IsIdentity reports whether the point is the group's identity element.
func (g G1) IsIdentity() bool { return g.p.IsInfinity() }
func (g G2) IsIdentity() bool { return g.p.IsInfinity() }

// Equal reports whether two points represent the same group element.
func (g G1) Equal(o G1) bool { return g.p.Equal(&o.p) }
func (g G2) Equal(o G2) bool { return g.p.Equal(&o.p) }

// Add returns g + o.
func (g G1) Add(o G1) G1 {
	var a, b bls12381.G1Jac
	a.FromAffine(&g.p)
	b.FromAffine(&o.p)
	a.AddAssign(&b)
	var r bls12381.G1Affine
	r.FromJacobian(&a)
	return G1{p: r}
}

func (g G2) Add(o G2) G2 {
	var a, b bls12381.G2Jac
	a.FromAffine(&g.p)
	b.FromAffine(&o.p)
	a.AddAssign(&b)
	var r bls12381.G2Affine
	r.FromJacobian(&a)
	return G2{p: r}
}

// Neg returns -g.
func (g G1) Neg() G1 {
	var j bls12381.G1Jac
	j.FromAffine(&g.p)
	j.Neg(&j)
	var r bls12381.G1Affine
	r.FromJacobian(&j)
	return G1{p: r}
}

func (g G2) Neg() G2 {
	var j bls12381.G2Jac
	j.FromAffine(&g.p)
	j.Neg(&j)
	var r bls12381.G2Affine
	r.FromJacobian(&j)
	return G2{p: r}
}

// ScalarMul returns s*g.
func (g G1) ScalarMul(s Scalar) G1 {
	var j bls12381.G1Jac
	j.FromAffine(&g.p)
	j.ScalarMultiplication(&j, s)
	var r bls12381.G1Affine
	r.FromJacobian(&j)
	return G1{p: r}
}

func (g G2) ScalarMul(s Scalar) G2 {
	var j bls12381.G2Jac
	j.FromAffine(&g.p)
	j.ScalarMultiplication(&j, s)
	var r bls12381.G2Affine
	r.FromJacobian(&j)
	return G2{p: r}
}

// Marshal returns the compressed byte encoding of the point (48 bytes for
// G1, 96 for G2).
func (g G1) Marshal() []byte { return g.p.Marshal() }
func (g G2) Marshal() []byte { return g.p.Marshal() }

// UnmarshalG1 parses a compressed G1 point.
func UnmarshalG1(data []byte) (G1, error) {
	var p bls12381.G1Affine
	if err := p.Unmarshal(data); err != nil {
		return G1{}, err
	}
	return G1{p: p}, nil
}

// UnmarshalG2 parses a compressed G2 point.
func UnmarshalG2(data []byte) (G2, error) {
	var p bls12381.G2Affine
	if err := p.Unmarshal(data); err != nil {
		return G2{}, err
	}
	return G2{p: p}, nil
}

// MarshalJSON encodes the point as a JSON string of its base64-encoded
// compressed bytes, so credentials and presentations built on these types
// can round-trip through encoding/json without a bespoke wire format.
func (g G1) MarshalJSON() ([]byte, error) { return json.Marshal(base64.StdEncoding.EncodeToString(g.Marshal())) }
func (g G2) MarshalJSON() ([]byte, error) { return json.Marshal(base64.StdEncoding.EncodeToString(g.Marshal())) }

func (g *G1) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	p, err := UnmarshalG1(raw)
	if err != nil {
		return err
	}
	*g = p
	return nil
}

func (g *G2) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	p, err := UnmarshalG2(raw)
	if err != nil {
		return err
	}
	*g = p
	return nil
}

// MultiPairingIsIdentity computes the product of pairings e(a[0],b[0])*e(a[1],b[1])*... and
// reports whether the result is the GT identity, i.e. whether the multi-
// pairing equation holds. This is the shape every verification equation in
// this module reduces to: gather the (G1, G2) factors on one side, negate
// one of them, and check the product collapses to 1.
func MultiPairingIsIdentity(a []G1, b []G2) (bool, error) {
	if len(a) != len(b) {
		return false, ErrMismatchedPairingInputs
	}
	g1s := make([]bls12381.G1Affine, len(a))
	g2s := make([]bls12381.G2Affine, len(b))
	for i := range a {
		g1s[i] = a[i].p
		g2s[i] = b[i].p
	}
	res, err := bls12381.Pair(g1s, g2s)
	if err != nil {
		return false, err
	}
	return res.IsOne(), nil
}

// PairSingle computes the single pairing e(a, b). Proof-of-knowledge-of-
// signature constructions (pkg/pok) need individual GT elements to build a
// Schnorr commitment over, rather than just a yes/no multi-pairing check.
func PairSingle(a G1, b G2) (Gt, error) {
	res, err := bls12381.Pair([]bls12381.G1Affine{a.p}, []bls12381.G2Affine{b.p})
	if err != nil {
		return Gt{}, err
	}
	return Gt{e: res}, nil
}

// GtIdentity returns the GT group's identity element.
func GtIdentity() Gt {
	var e bls12381.GT
	e.SetOne()
	return Gt{e: e}
}

// Mul returns g*o in GT.
func (g Gt) Mul(o Gt) Gt {
	var r bls12381.GT
	r.Mul(&g.e, &o.e)
	return Gt{e: r}
}

// Exp returns g^s in GT.
func (g Gt) Exp(s Scalar) Gt {
	var r bls12381.GT
	r.Exp(g.e, s)
	return Gt{e: r}
}

// Inverse returns g^-1 in GT.
func (g Gt) Inverse() Gt {
	var r bls12381.GT
	r.Inverse(&g.e)
	return Gt{e: r}
}

// Equal reports whether two GT elements are the same.
func (g Gt) Equal(o Gt) bool { return g.e.Equal(&o.e) }

// Marshal returns the canonical byte encoding of the GT element, used to
// absorb a GT-valued commitment into a Fiat-Shamir transcript.
func (g Gt) Marshal() []byte {
	b := g.e.Bytes()
	return b[:]
}

// IsIdentity reports whether g is the GT group's identity element.
func (g Gt) IsIdentity() bool { return g.e.IsOne() }

// MultiExpGt computes Π bases[i]^exponents[i] in GT. Proof-of-knowledge
// verification over a handful of hidden messages doesn't need the batched
// multi-scalar-multiplication machinery SumOfProductsG1/G2 use for larger
// message vectors, so this stays a straightforward sequential accumulation.
func MultiExpGt(bases []Gt, exponents []Scalar) (Gt, error) {
	if len(bases) != len(exponents) {
		return Gt{}, ErrMismatchedLengths
	}
	acc := GtIdentity()
	for i := range bases {
		acc = acc.Mul(bases[i].Exp(exponents[i]))
	}
	return acc, nil
}

// String renders the point using gnark-crypto's own debug format, useful
// only for logging/diagnostics, never for comparisons.
func (g G1) String() string { return g.p.String() }
func (g G2) String() string { return g.p.String() }

// bigIntZero is a convenience for callers needing an explicit zero scalar
// without importing math/big directly.
var bigIntZero = big.NewInt(0)
