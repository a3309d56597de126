// Copyright 2024 Canonical.

// Package keygen produces raw key material for JSON Web Keys using the
// Go standard cryptography packages. It knows nothing about JWK
// encoding; callers receive big-endian byte slices.
package keygen

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"

	"github.com/canonical/jwkset/internal/errors"
)

// RSAKey holds the big-endian components of an RSA private key.
type RSAKey struct {
	N, E, D, P, Q, DP, DQ, QI []byte
}

// ECKey holds the fixed-width big-endian coordinates and private scalar
// of an elliptic curve key.
type ECKey struct {
	X, Y, D []byte
}

// A Curve is a named NIST curve supported for key generation.
type Curve struct {
	// Name is the RFC 7518 "crv" value.
	Name string
	// OID is the ASN.1 object identifier of the curve.
	OID string

	size int
	ecdh func() ecdh.Curve
}

// Size returns the size in bytes of a coordinate on the curve.
func (c Curve) Size() int {
	return c.size
}

var (
	P256 = Curve{Name: "P-256", OID: "1.2.840.10045.3.1.7", size: 32, ecdh: ecdh.P256}
	P384 = Curve{Name: "P-384", OID: "1.3.132.0.34", size: 48, ecdh: ecdh.P384}
	P521 = Curve{Name: "P-521", OID: "1.3.132.0.35", size: 66, ecdh: ecdh.P521}
)

var curves = []Curve{P256, P384, P521}

// CurveByOID returns the curve with the given object identifier.
func CurveByOID(oid string) (Curve, bool) {
	for _, c := range curves {
		if c.OID == oid {
			return c, true
		}
	}
	return Curve{}, false
}

// Platform generates keys from a source of randomness.
type Platform struct {
	// Rand is the entropy source, crypto/rand.Reader when nil.
	Rand io.Reader
}

// New returns a Platform reading from crypto/rand.
func New() *Platform {
	return &Platform{Rand: rand.Reader}
}

func (p *Platform) rand() io.Reader {
	if p == nil || p.Rand == nil {
		return rand.Reader
	}
	return p.Rand
}

// GenerateRSA generates an RSA key of the given modulus size in bits.
func (p *Platform) GenerateRSA(bits int) (*RSAKey, error) {
	const op = errors.Op("keygen.GenerateRSA")

	key, err := rsa.GenerateKey(p.rand(), bits)
	if err != nil {
		return nil, errors.E(op, errors.CodeKeyGeneration, fmt.Sprintf("cannot generate %d bit RSA key", bits), err)
	}
	key.Precompute()
	if len(key.Primes) != 2 {
		return nil, errors.E(op, errors.CodeKeyGeneration, fmt.Sprintf("unexpected number of RSA primes %d", len(key.Primes)))
	}
	return &RSAKey{
		N:  key.N.Bytes(),
		E:  bigEndian(uint64(key.E)),
		D:  key.D.Bytes(),
		P:  key.Primes[0].Bytes(),
		Q:  key.Primes[1].Bytes(),
		DP: key.Precomputed.Dp.Bytes(),
		DQ: key.Precomputed.Dq.Bytes(),
		QI: key.Precomputed.Qinv.Bytes(),
	}, nil
}

// GenerateEC generates a key on the curve identified by oid.
func (p *Platform) GenerateEC(oid string) (*ECKey, error) {
	const op = errors.Op("keygen.GenerateEC")

	curve, ok := CurveByOID(oid)
	if !ok {
		return nil, errors.E(op, errors.CodeKeyGeneration, fmt.Sprintf("unsupported curve %q", oid))
	}
	key, err := curve.ecdh().GenerateKey(p.rand())
	if err != nil {
		return nil, errors.E(op, errors.CodeKeyGeneration, fmt.Sprintf("cannot generate %s key", curve.Name), err)
	}
	// The public key is encoded as 0x04 || X || Y.
	pub := key.PublicKey().Bytes()
	if len(pub) != 1+2*curve.size {
		return nil, errors.E(op, errors.CodeKeyGeneration, fmt.Sprintf("unexpected %s public key length %d", curve.Name, len(pub)))
	}
	return &ECKey{
		X: pub[1 : 1+curve.size],
		Y: pub[1+curve.size:],
		D: key.Bytes(),
	}, nil
}

// GenerateSymmetric returns n random bytes.
func (p *Platform) GenerateSymmetric(n int) ([]byte, error) {
	const op = errors.Op("keygen.GenerateSymmetric")

	if n <= 0 {
		return nil, errors.E(op, errors.CodeKeyGeneration, fmt.Sprintf("invalid symmetric key length %d", n))
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(p.rand(), b); err != nil {
		return nil, errors.E(op, errors.CodeKeyGeneration, "cannot read random key", err)
	}
	return b, nil
}

func bigEndian(v uint64) []byte {
	var b []byte
	for v > 0 {
		b = append([]byte{byte(v)}, b...)
		v >>= 8
	}
	return b
}
