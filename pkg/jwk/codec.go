// Copyright 2024 Canonical.

package jwk

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/canonical/jwkset/internal/errors"
)

// Export returns the JSON representation of the key. Private parameters
// are written only when includePrivate is set. A symmetric key cannot be
// exported without its private material and fails with
// CodePrivateKeyRequired.
func (k *JWK) Export(includePrivate bool) ([]byte, error) {
	const op = errors.Op("jwk.Export")

	if k.IsSymmetric() && !includePrivate {
		return nil, errors.E(op, errors.CodePrivateKeyRequired, fmt.Sprintf("symmetric key of type %s cannot be exported without its private key", k.keyType))
	}

	var w objectWriter
	w.str("kty", k.keyType.String())
	if k.use != 0 {
		w.str("use", k.use.String())
	}
	if len(k.ops) > 0 {
		ops := make([]string, len(k.ops))
		for i, o := range k.ops {
			ops[i] = o.String()
		}
		w.strs("key_ops", ops)
	}
	if k.alg != 0 {
		w.str("alg", k.alg.String())
	}
	if k.kid != "" {
		w.str("kid", k.kid)
	}
	for _, p := range k.params.Serialize(includePrivate) {
		w.str(p.Name, p.Value)
	}
	return w.bytes(), nil
}

// Parse parses the JSON representation of a single key. Members that are
// not part of the key model are ignored.
func Parse(data []byte) (*JWK, error) {
	const op = errors.Op("jwk.Parse")

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.E(op, errors.CodeMalformedJSON, "cannot parse JWK", err)
	}
	if obj == nil {
		return nil, errors.E(op, errors.CodeMalformedJSON, "JWK is not a JSON object")
	}

	kty, ok, err := stringMember(obj, "kty")
	if err != nil {
		return nil, errors.E(op, err)
	}
	if !ok {
		return nil, errors.E(op, errors.CodeMissingRequiredField, `missing required member "kty"`)
	}
	k := &JWK{}
	if k.keyType, ok = ParseKeyType(kty); !ok {
		return nil, errors.E(op, errors.CodeUnsupportedKeyType, fmt.Sprintf("unsupported key type %q", kty))
	}

	if use, ok, err := stringMember(obj, "use"); err != nil {
		return nil, errors.E(op, err)
	} else if ok {
		if k.use, ok = ParsePublicKeyUse(use); !ok {
			return nil, errors.E(op, errors.CodeInvalidParameter, fmt.Sprintf("invalid key use %q", use))
		}
	}

	if ops, ok, err := stringsMember(obj, "key_ops"); err != nil {
		return nil, errors.E(op, err)
	} else if ok {
		parsed := make([]KeyOperation, len(ops))
		for i, s := range ops {
			if parsed[i], ok = ParseKeyOperation(s); !ok {
				return nil, errors.E(op, errors.CodeInvalidParameter, fmt.Sprintf("invalid key operation %q", s))
			}
		}
		k.ops = uniqueOperations(parsed)
	}

	if alg, ok, err := stringMember(obj, "alg"); err != nil {
		return nil, errors.E(op, err)
	} else if ok {
		if k.alg, ok = ParseAlgorithm(alg); !ok {
			return nil, errors.E(op, errors.CodeUnsupportedAlgorithm, fmt.Sprintf("unsupported algorithm %q", alg))
		}
	}

	if k.kid, _, err = stringMember(obj, "kid"); err != nil {
		return nil, errors.E(op, err)
	}

	values := make(map[KeyParameter]string)
	for _, p := range ParametersFor(k.keyType) {
		v, ok, err := stringMember(obj, p.Name())
		if err != nil {
			return nil, errors.E(op, err)
		}
		if ok && v != "" {
			values[p] = v
		}
	}
	k.params = NewKeyParameters(values)
	if err := checkConsistency(k.keyType, k.params, k.alg); err != nil {
		return nil, errors.E(op, err)
	}
	return k, nil
}

// ParseString parses the JSON representation of a single key.
func ParseString(s string) (*JWK, error) {
	return Parse([]byte(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *JWK) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*k = *parsed
	return nil
}

// stringMember returns the string value of member name. A null member
// is treated as absent.
func stringMember(obj map[string]json.RawMessage, name string) (string, bool, error) {
	raw, ok := obj[name]
	if !ok || isNull(raw) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, errors.E(errors.CodeMalformedJSON, fmt.Sprintf("member %q is not a string", name), err)
	}
	return s, true, nil
}

func stringsMember(obj map[string]json.RawMessage, name string) ([]string, bool, error) {
	raw, ok := obj[name]
	if !ok || isNull(raw) {
		return nil, false, nil
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, false, errors.E(errors.CodeMalformedJSON, fmt.Sprintf("member %q is not an array of strings", name), err)
	}
	return ss, true, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// objectWriter writes JSON object members in the order they are added.
type objectWriter struct {
	buf bytes.Buffer
}

func (w *objectWriter) key(name string) {
	if w.buf.Len() == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	w.quote(name)
	w.buf.WriteByte(':')
}

func (w *objectWriter) str(name, value string) {
	w.key(name)
	w.quote(value)
}

func (w *objectWriter) strs(name string, values []string) {
	w.key(name)
	w.buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.quote(v)
	}
	w.buf.WriteByte(']')
}

func (w *objectWriter) quote(s string) {
	// Marshaling a string cannot fail.
	b, _ := json.Marshal(s)
	w.buf.Write(b)
}

func (w *objectWriter) bytes() []byte {
	if w.buf.Len() == 0 {
		return []byte("{}")
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}
