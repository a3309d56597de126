// Copyright 2024 Canonical.

package jwk

import "fmt"

// A KeyParameter is a key type specific member of a JWK holding key
// material (RFC 7518 section 6).
type KeyParameter uint8

const (
	RSAModulus KeyParameter = iota + 1
	RSAPublicExponent
	RSAPrivateExponent
	RSAFirstPrime
	RSASecondPrime
	RSAFirstFactorCRTExponent
	RSASecondFactorCRTExponent
	RSAFirstCRTCoefficient
	ECCurve
	ECX
	ECY
	ECPrivateKey
	OctKey
)

type parameterInfo struct {
	name     string
	keyType  KeyType
	private  bool
	required bool
}

// The order of this table is the order parameters are serialized in.
var parameters = [...]parameterInfo{
	RSAModulus:                 {name: "n", keyType: RSA, required: true},
	RSAPublicExponent:          {name: "e", keyType: RSA, required: true},
	RSAPrivateExponent:         {name: "d", keyType: RSA, private: true},
	RSAFirstPrime:              {name: "p", keyType: RSA, private: true},
	RSASecondPrime:             {name: "q", keyType: RSA, private: true},
	RSAFirstFactorCRTExponent:  {name: "dp", keyType: RSA, private: true},
	RSASecondFactorCRTExponent: {name: "dq", keyType: RSA, private: true},
	RSAFirstCRTCoefficient:     {name: "qi", keyType: RSA, private: true},
	ECCurve:                    {name: "crv", keyType: EC, required: true},
	ECX:                        {name: "x", keyType: EC, required: true},
	ECY:                        {name: "y", keyType: EC, required: true},
	ECPrivateKey:               {name: "d", keyType: EC, private: true},
	OctKey:                     {name: "k", keyType: OCT, private: true, required: true},
}

// String returns the member name of the parameter.
func (p KeyParameter) String() string {
	if !p.IsValid() {
		return fmt.Sprintf("KeyParameter(%d)", uint8(p))
	}
	return parameters[p].name
}

// Name returns the member name of the parameter.
func (p KeyParameter) Name() string {
	return p.String()
}

// IsValid reports whether p is one of the defined parameters.
func (p KeyParameter) IsValid() bool {
	return p >= RSAModulus && p <= OctKey
}

// IsPrivate reports whether the parameter is private key material.
func (p KeyParameter) IsPrivate() bool {
	return p.IsValid() && parameters[p].private
}

// KeyType returns the key type the parameter belongs to.
func (p KeyParameter) KeyType() KeyType {
	if !p.IsValid() {
		return 0
	}
	return parameters[p].keyType
}

// ParseKeyParameter returns the parameter of key type kty with the
// given member name.
func ParseKeyParameter(kty KeyType, name string) (KeyParameter, bool) {
	for _, p := range ParametersFor(kty) {
		if parameters[p].name == name {
			return p, true
		}
	}
	return 0, false
}

// ParametersFor returns the parameters of key type kty in serialization
// order.
func ParametersFor(kty KeyType) []KeyParameter {
	var ps []KeyParameter
	for p := RSAModulus; p <= OctKey; p++ {
		if parameters[p].keyType == kty {
			ps = append(ps, p)
		}
	}
	return ps
}

// requiredParameters returns the parameters a key of type kty cannot be
// built without.
func requiredParameters(kty KeyType) []KeyParameter {
	var ps []KeyParameter
	for _, p := range ParametersFor(kty) {
		if parameters[p].required {
			ps = append(ps, p)
		}
	}
	return ps
}
