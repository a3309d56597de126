// Copyright 2024 Canonical.

package jwk

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/canonical/jwkset/internal/errors"
)

// A JWKS is a non-empty, ordered JSON Web Key Set.
type JWKS struct {
	keys []*JWK
}

// NewJWKS returns a set holding keys. At least one key must be given.
func NewJWKS(keys ...*JWK) (*JWKS, error) {
	const op = errors.Op("jwk.NewJWKS")

	if len(keys) == 0 {
		return nil, errors.E(op, errors.CodeEmptyKeySet, "at least one JWK must be provided")
	}
	for i, k := range keys {
		if k == nil {
			return nil, errors.E(op, errors.CodeMissingRequiredField, fmt.Sprintf("key %d is nil", i))
		}
	}
	return &JWKS{keys: append([]*JWK(nil), keys...)}, nil
}

// ParseJWKS parses a {"keys": [...]} document.
func ParseJWKS(data []byte) (*JWKS, error) {
	const op = errors.Op("jwk.ParseJWKS")

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.E(op, errors.CodeMalformedJSON, "cannot parse JWKS", err)
	}
	raw, ok := obj["keys"]
	if !ok || isNull(raw) {
		return nil, errors.E(op, errors.CodeMissingRequiredField, `missing required member "keys"`)
	}
	var members []json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, errors.E(op, errors.CodeMalformedJSON, `member "keys" is not an array`, err)
	}
	if len(members) == 0 {
		return nil, errors.E(op, errors.CodeEmptyKeySet, "at least one JWK must be provided")
	}
	keys := make([]*JWK, len(members))
	for i, m := range members {
		k, err := Parse(m)
		if err != nil {
			return nil, errors.E(op, fmt.Sprintf("key %d", i), err)
		}
		keys[i] = k
	}
	return &JWKS{keys: keys}, nil
}

// ParseJWKSString parses a {"keys": [...]} document.
func ParseJWKSString(s string) (*JWKS, error) {
	return ParseJWKS([]byte(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *JWKS) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJWKS(data)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// Keys returns the keys of the set in order.
func (s *JWKS) Keys() []*JWK {
	return append([]*JWK(nil), s.keys...)
}

// Len returns the number of keys in the set.
func (s *JWKS) Len() int {
	return len(s.keys)
}

// KeyByID returns the first key with the given key ID.
func (s *JWKS) KeyByID(kid string) (*JWK, bool) {
	for _, k := range s.keys {
		if k.kid == kid {
			return k, true
		}
	}
	return nil, false
}

// Public returns a set holding the public form of every key. It fails
// if the set holds a symmetric key.
func (s *JWKS) Public() (*JWKS, error) {
	const op = errors.Op("jwk.JWKS.Public")

	keys := make([]*JWK, len(s.keys))
	for i, k := range s.keys {
		pk, err := k.Public()
		if err != nil {
			return nil, errors.E(op, err)
		}
		keys[i] = pk
	}
	return &JWKS{keys: keys}, nil
}

// Export returns the JSON representation of the set. includePrivate is
// passed to every key; if any key is symmetric and includePrivate is
// false the whole export fails with CodePrivateKeyRequired.
func (s *JWKS) Export(includePrivate bool) ([]byte, error) {
	const op = errors.Op("jwk.JWKS.Export")

	if !includePrivate {
		for _, k := range s.keys {
			if k.IsSymmetric() {
				return nil, errors.E(op, errors.CodePrivateKeyRequired, fmt.Sprintf("symmetric key of type %s cannot be exported without its private key", k.keyType))
			}
		}
	}
	var buf bytes.Buffer
	buf.WriteString(`{"keys":[`)
	for i, k := range s.keys {
		b, err := k.Export(includePrivate)
		if err != nil {
			return nil, errors.E(op, err)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(b)
	}
	buf.WriteString(`]}`)
	return buf.Bytes(), nil
}
