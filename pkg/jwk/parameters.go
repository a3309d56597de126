// Copyright 2024 Canonical.

package jwk

import (
	"fmt"

	"github.com/canonical/jwkset/internal/errors"
)

// KeyParameters holds the key material members of a JWK. Values are
// base64url encoded octets, or text in the case of "crv". The zero value
// holds no parameters.
type KeyParameters struct {
	values map[KeyParameter]string
}

// A Parameter is a serialized key parameter.
type Parameter struct {
	Name  string
	Value string
}

// NewKeyParameters returns KeyParameters holding a copy of values.
func NewKeyParameters(values map[KeyParameter]string) KeyParameters {
	if len(values) == 0 {
		return KeyParameters{}
	}
	kp := KeyParameters{values: make(map[KeyParameter]string, len(values))}
	for p, v := range values {
		kp.values[p] = v
	}
	return kp
}

// KeyParametersFromNames builds KeyParameters for a key of type kty
// from member names.
func KeyParametersFromNames(kty KeyType, values map[string]string) (KeyParameters, error) {
	const op = errors.Op("jwk.KeyParametersFromNames")

	m := make(map[KeyParameter]string, len(values))
	for name, v := range values {
		p, ok := ParseKeyParameter(kty, name)
		if !ok {
			return KeyParameters{}, errors.E(op, errors.CodeInvalidParameter, fmt.Sprintf("%q is not a parameter of %s keys", name, kty))
		}
		m[p] = v
	}
	return NewKeyParameters(m), nil
}

// Get returns the value of parameter p.
func (kp KeyParameters) Get(p KeyParameter) (string, bool) {
	v, ok := kp.values[p]
	return v, ok
}

// Len returns the number of parameters held.
func (kp KeyParameters) Len() int {
	return len(kp.values)
}

// Map returns a copy of the parameters.
func (kp KeyParameters) Map() map[KeyParameter]string {
	m := make(map[KeyParameter]string, len(kp.values))
	for p, v := range kp.values {
		m[p] = v
	}
	return m
}

// Serialize returns the parameters to be written to the wire, in
// canonical order. Empty values are always dropped and private
// parameters are dropped unless includePrivate is set.
func (kp KeyParameters) Serialize(includePrivate bool) []Parameter {
	var out []Parameter
	for p := RSAModulus; p <= OctKey; p++ {
		v, ok := kp.values[p]
		if !ok || v == "" {
			continue
		}
		if p.IsPrivate() && !includePrivate {
			continue
		}
		out = append(out, Parameter{Name: p.Name(), Value: v})
	}
	return out
}

// nonEmpty returns a copy without the parameters whose value is empty.
func (kp KeyParameters) nonEmpty() KeyParameters {
	m := make(map[KeyParameter]string, len(kp.values))
	for p, v := range kp.values {
		if v != "" {
			m[p] = v
		}
	}
	return NewKeyParameters(m)
}

// public returns a copy holding only the public parameters.
func (kp KeyParameters) public() KeyParameters {
	m := make(map[KeyParameter]string, len(kp.values))
	for p, v := range kp.values {
		if !p.IsPrivate() {
			m[p] = v
		}
	}
	return NewKeyParameters(m)
}
