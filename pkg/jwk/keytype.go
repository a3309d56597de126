// Copyright 2024 Canonical.

package jwk

import "fmt"

// A KeyType identifies the cryptographic family of a key (RFC 7518
// section 6.1). The zero value is not a valid key type.
type KeyType uint8

const (
	// EC is an elliptic curve key.
	EC KeyType = iota + 1
	// RSA is an RSA key.
	RSA
	// OCT is an octet sequence, used for HMAC and AES keys.
	OCT
)

var keyTypeNames = [...]string{
	EC:  "EC",
	RSA: "RSA",
	OCT: "oct",
}

// String returns the "kty" token of the key type.
func (t KeyType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("KeyType(%d)", uint8(t))
	}
	return keyTypeNames[t]
}

// IsValid reports whether t is one of the defined key types.
func (t KeyType) IsValid() bool {
	return t >= EC && t <= OCT
}

// ParseKeyType returns the key type with the given "kty" token.
func ParseKeyType(s string) (KeyType, bool) {
	for t := EC; t <= OCT; t++ {
		if keyTypeNames[t] == s {
			return t, true
		}
	}
	return 0, false
}
