package ps

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/anupsv/ps-anoncred/pkg/curve"
)

func writeLenPrefixed(buf *bytes.Buffer, b []byte) error {
	if err := binary.Write(buf, binary.BigEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := buf.Write(b)
	return err
}

func readLenPrefixed(r *bytes.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// MarshalBinary encodes a signature as [sigma1 len-prefixed][sigma2
// len-prefixed][m_tick len-prefixed].
func (s *Signature) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeLenPrefixed(buf, s.Sigma1.Marshal()); err != nil {
		return nil, err
	}
	if err := writeLenPrefixed(buf, s.Sigma2.Marshal()); err != nil {
		return nil, err
	}
	if err := writeLenPrefixed(buf, s.MTick.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a signature produced by MarshalBinary.
func (s *Signature) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	sigma1Bytes, err := readLenPrefixed(r)
	if err != nil {
		return fmt.Errorf("ps: failed to parse sigma_1: %w", err)
	}
	sigma2Bytes, err := readLenPrefixed(r)
	if err != nil {
		return fmt.Errorf("ps: failed to parse sigma_2: %w", err)
	}
	mTickBytes, err := readLenPrefixed(r)
	if err != nil {
		return fmt.Errorf("ps: failed to parse m_tick: %w", err)
	}
	sigma1, err := curve.UnmarshalG1(sigma1Bytes)
	if err != nil {
		return fmt.Errorf("ps: failed to unmarshal sigma_1: %w", err)
	}
	sigma2, err := curve.UnmarshalG1(sigma2Bytes)
	if err != nil {
		return fmt.Errorf("ps: failed to unmarshal sigma_2: %w", err)
	}
	s.Sigma1, s.Sigma2 = sigma1, sigma2
	s.MTick = new(big.Int).SetBytes(mTickBytes)
	return nil
}

// MarshalBinary encodes the public key as G2Gen, Xtilde, then each Ytilde_i,
// then each YBlinds_i, all length-prefixed.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeLenPrefixed(buf, pk.G2Gen.Marshal()); err != nil {
		return nil, err
	}
	if err := writeLenPrefixed(buf, pk.Xtilde.Marshal()); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, uint32(len(pk.Ytilde))); err != nil {
		return nil, err
	}
	for _, y := range pk.Ytilde {
		if err := writeLenPrefixed(buf, y.Marshal()); err != nil {
			return nil, err
		}
	}
	for _, yb := range pk.YBlinds {
		if err := writeLenPrefixed(buf, yb.Marshal()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a public key produced by MarshalBinary.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	g2genBytes, err := readLenPrefixed(r)
	if err != nil {
		return fmt.Errorf("ps: failed to parse g2 generator: %w", err)
	}
	xtildeBytes, err := readLenPrefixed(r)
	if err != nil {
		return fmt.Errorf("ps: failed to parse X~: %w", err)
	}

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return fmt.Errorf("ps: failed to parse message count: %w", err)
	}

	ytilde := make([]curve.G2, count)
	for i := range ytilde {
		b, err := readLenPrefixed(r)
		if err != nil {
			return fmt.Errorf("ps: failed to parse Y~[%d]: %w", i, err)
		}
		p, err := curve.UnmarshalG2(b)
		if err != nil {
			return fmt.Errorf("ps: failed to unmarshal Y~[%d]: %w", i, err)
		}
		ytilde[i] = p
	}

	yblinds := make([]curve.G1, count)
	for i := range yblinds {
		b, err := readLenPrefixed(r)
		if err != nil {
			return fmt.Errorf("ps: failed to parse YBlinds[%d]: %w", i, err)
		}
		p, err := curve.UnmarshalG1(b)
		if err != nil {
			return fmt.Errorf("ps: failed to unmarshal YBlinds[%d]: %w", i, err)
		}
		yblinds[i] = p
	}

	g2gen, err := curve.UnmarshalG2(g2genBytes)
	if err != nil {
		return fmt.Errorf("ps: failed to unmarshal g2 generator: %w", err)
	}
	xtilde, err := curve.UnmarshalG2(xtildeBytes)
	if err != nil {
		return fmt.Errorf("ps: failed to unmarshal X~: %w", err)
	}

	pk.G2Gen = g2gen
	pk.Xtilde = xtilde
	pk.Ytilde = ytilde
	pk.YBlinds = yblinds
	return nil
}

// MarshalBinary encodes the secret key as X, then each Y_i, all length-prefixed.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeLenPrefixed(buf, sk.X.Bytes()); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, uint32(len(sk.Y))); err != nil {
		return nil, err
	}
	for _, y := range sk.Y {
		if err := writeLenPrefixed(buf, y.Bytes()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a secret key produced by MarshalBinary.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	xBytes, err := readLenPrefixed(r)
	if err != nil {
		return fmt.Errorf("ps: failed to parse x: %w", err)
	}

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return fmt.Errorf("ps: failed to parse y count: %w", err)
	}

	y := make([]curve.Scalar, count)
	for i := range y {
		b, err := readLenPrefixed(r)
		if err != nil {
			return fmt.Errorf("ps: failed to parse y[%d]: %w", i, err)
		}
		y[i] = new(big.Int).SetBytes(b)
	}

	sk.X = new(big.Int).SetBytes(xBytes)
	sk.Y = y
	return nil
}
