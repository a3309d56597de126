// Copyright 2024 Canonical.

package jwk

import "fmt"

// A KeyOperation is an operation a key is intended to be used for (RFC
// 7517 section 4.3).
type KeyOperation uint8

const (
	OpSign KeyOperation = iota + 1
	OpVerify
	OpEncrypt
	OpDecrypt
	OpWrapKey
	OpUnwrapKey
	OpDeriveKey
	OpDeriveBits
)

var keyOperationNames = [...]string{
	OpSign:       "sign",
	OpVerify:     "verify",
	OpEncrypt:    "encrypt",
	OpDecrypt:    "decrypt",
	OpWrapKey:    "wrapKey",
	OpUnwrapKey:  "unwrapKey",
	OpDeriveKey:  "deriveKey",
	OpDeriveBits: "deriveBits",
}

// String returns the "key_ops" token.
func (o KeyOperation) String() string {
	if !o.IsValid() {
		return fmt.Sprintf("KeyOperation(%d)", uint8(o))
	}
	return keyOperationNames[o]
}

// IsValid reports whether o is one of the defined operations.
func (o KeyOperation) IsValid() bool {
	return o >= OpSign && o <= OpDeriveBits
}

// ParseKeyOperation returns the operation with the given token.
func ParseKeyOperation(s string) (KeyOperation, bool) {
	for o := OpSign; o <= OpDeriveBits; o++ {
		if keyOperationNames[o] == s {
			return o, true
		}
	}
	return 0, false
}

// uniqueOperations returns ops with duplicates removed, keeping the
// position of the first occurrence.
func uniqueOperations(ops []KeyOperation) []KeyOperation {
	if len(ops) == 0 {
		return nil
	}
	seen := make(map[KeyOperation]bool, len(ops))
	unique := make([]KeyOperation, 0, len(ops))
	for _, o := range ops {
		if seen[o] {
			continue
		}
		seen[o] = true
		unique = append(unique, o)
	}
	return unique
}
