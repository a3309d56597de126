// Copyright 2024 Canonical.

package jwk

import "fmt"

// A PublicKeyUse is the intended use of a public key (RFC 7517 section
// 4.2). The zero value means the use is not specified.
type PublicKeyUse uint8

const (
	UseSignature PublicKeyUse = iota + 1
	UseEncryption
)

var useNames = [...]string{
	UseSignature:  "sig",
	UseEncryption: "enc",
}

// String returns the "use" token.
func (u PublicKeyUse) String() string {
	if !u.IsValid() {
		return fmt.Sprintf("PublicKeyUse(%d)", uint8(u))
	}
	return useNames[u]
}

// IsValid reports whether u is one of the defined uses.
func (u PublicKeyUse) IsValid() bool {
	return u == UseSignature || u == UseEncryption
}

// ParsePublicKeyUse returns the use with the given token.
func ParsePublicKeyUse(s string) (PublicKeyUse, bool) {
	for u := UseSignature; u <= UseEncryption; u++ {
		if useNames[u] == s {
			return u, true
		}
	}
	return 0, false
}
