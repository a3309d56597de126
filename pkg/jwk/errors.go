// Copyright 2024 Canonical.

package jwk

import "github.com/canonical/jwkset/internal/errors"

// Error codes attached to errors returned by this package.
const (
	CodeEmptyKeySet          = errors.CodeEmptyKeySet
	CodeInvalidEncoding      = errors.CodeInvalidEncoding
	CodeInvalidParameter     = errors.CodeInvalidParameter
	CodeKeyGeneration        = errors.CodeKeyGeneration
	CodeMalformedJSON        = errors.CodeMalformedJSON
	CodeMissingRequiredField = errors.CodeMissingRequiredField
	CodePrivateKeyRequired   = errors.CodePrivateKeyRequired
	CodeUnsupportedAlgorithm = errors.CodeUnsupportedAlgorithm
	CodeUnsupportedKeySize   = errors.CodeUnsupportedKeySize
	CodeUnsupportedKeyType   = errors.CodeUnsupportedKeyType
)

// ErrorCode returns the code classifying err, or the empty code when err
// was not returned by this module.
func ErrorCode(err error) errors.Code {
	return errors.ErrorCode(err)
}
