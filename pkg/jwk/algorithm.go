// Copyright 2024 Canonical.

package jwk

import (
	"fmt"

	"github.com/canonical/jwkset/pkg/keygen"
)

// An Algorithm is a JSON Web Algorithm a key is intended for (RFC 7518
// section 7.1). The zero value means no algorithm is specified; AlgNone
// is the explicit "none" algorithm.
type Algorithm uint8

const (
	HS256 Algorithm = iota + 1
	HS384
	HS512
	RS256
	RS384
	RS512
	ES256
	ES384
	ES512
	A128GCMKW
	A192GCMKW
	A256GCMKW
	A128GCM
	A192GCM
	A256GCM
	AlgNone
)

type family uint8

const (
	familyNone family = iota
	familyHMAC
	familyRSA
	familyEC
	familyAES
)

type algorithmInfo struct {
	name      string
	keyType   KeyType
	family    family
	symmetric bool

	// size is the HMAC key length in bytes or the AES key length in
	// bits.
	size  int
	curve keygen.Curve
}

var algorithms = [...]algorithmInfo{
	HS256: {name: "HS256", keyType: OCT, family: familyHMAC, symmetric: true, size: 64},
	HS384: {name: "HS384", keyType: OCT, family: familyHMAC, symmetric: true, size: 128},
	HS512: {name: "HS512", keyType: OCT, family: familyHMAC, symmetric: true, size: 128},

	RS256: {name: "RS256", keyType: RSA, family: familyRSA},
	RS384: {name: "RS384", keyType: RSA, family: familyRSA},
	RS512: {name: "RS512", keyType: RSA, family: familyRSA},

	ES256: {name: "ES256", keyType: EC, family: familyEC, curve: keygen.P256},
	ES384: {name: "ES384", keyType: EC, family: familyEC, curve: keygen.P384},
	ES512: {name: "ES512", keyType: EC, family: familyEC, curve: keygen.P521},

	A128GCMKW: {name: "A128GCMKW", keyType: OCT, family: familyAES, symmetric: true, size: 128},
	A192GCMKW: {name: "A192GCMKW", keyType: OCT, family: familyAES, symmetric: true, size: 192},
	A256GCMKW: {name: "A256GCMKW", keyType: OCT, family: familyAES, symmetric: true, size: 256},
	A128GCM:   {name: "A128GCM", keyType: OCT, family: familyAES, symmetric: true, size: 128},
	A192GCM:   {name: "A192GCM", keyType: OCT, family: familyAES, symmetric: true, size: 192},
	A256GCM:   {name: "A256GCM", keyType: OCT, family: familyAES, symmetric: true, size: 256},

	AlgNone: {name: "none", keyType: OCT, family: familyNone},
}

func (a Algorithm) info() (algorithmInfo, bool) {
	if !a.IsValid() {
		return algorithmInfo{}, false
	}
	return algorithms[a], true
}

// String returns the "alg" token.
func (a Algorithm) String() string {
	if !a.IsValid() {
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
	return algorithms[a].name
}

// IsValid reports whether a is one of the defined algorithms.
func (a Algorithm) IsValid() bool {
	return a >= HS256 && a <= AlgNone
}

// KeyType returns the type of key the algorithm operates on. The "none"
// algorithm reports OCT.
func (a Algorithm) KeyType() KeyType {
	info, _ := a.info()
	return info.keyType
}

// IsSymmetric reports whether the algorithm uses a shared secret key.
func (a Algorithm) IsSymmetric() bool {
	info, _ := a.info()
	return info.symmetric
}

// ParseAlgorithm returns the algorithm with the given "alg" token.
func ParseAlgorithm(s string) (Algorithm, bool) {
	for a := HS256; a <= AlgNone; a++ {
		if algorithms[a].name == s {
			return a, true
		}
	}
	return 0, false
}

// Algorithms returns all defined algorithms.
func Algorithms() []Algorithm {
	algs := make([]Algorithm, 0, int(AlgNone))
	for a := HS256; a <= AlgNone; a++ {
		algs = append(algs, a)
	}
	return algs
}
