// Copyright 2024 Canonical.

package errors_test

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/canonical/jwkset/internal/errors"
)

func TestEEmptyArguments(t *testing.T) {
	c := qt.New(t)

	c.Assert(func() { errors.E() }, qt.PanicMatches, `call to errors.E with no arguments`)
}

func TestEUnknownType(t *testing.T) {
	c := qt.New(t)
	c.Check(errors.E(42), qt.ErrorMatches, `unknown type \(int\) passed to errors.E`)
}

func TestE(t *testing.T) {
	c := qt.New(t)

	code := errors.Code("test code")
	err := errors.E(errors.Op("test.op"), code, "an error happened")
	c.Check(err, qt.ErrorMatches, `an error happened`)
	c.Check(errors.ErrorCode(err), qt.Equals, code)

	err = errors.E(errors.Op("test.op2"), err)
	c.Check(err, qt.ErrorMatches, `an error happened`)
	c.Check(errors.ErrorCode(err), qt.Equals, code)
}

func TestEMessageWrapsUnderlyingError(t *testing.T) {
	c := qt.New(t)

	var v interface{}
	jsonErr := json.Unmarshal([]byte(`{`), &v)
	c.Assert(jsonErr, qt.Not(qt.IsNil))

	err := errors.E(errors.Op("test.parse"), errors.CodeMalformedJSON, "cannot parse JWK", jsonErr)
	c.Check(err, qt.ErrorMatches, `cannot parse JWK: unexpected end of JSON input`)
	c.Check(errors.ErrorCode(err), qt.Equals, errors.CodeMalformedJSON)
	c.Check(stderrors.Is(err, jsonErr), qt.IsTrue)
}

func TestErrorCodeOfForeignError(t *testing.T) {
	c := qt.New(t)

	c.Check(errors.ErrorCode(stderrors.New("boom")), qt.Equals, errors.Code(""))
	c.Check(errors.ErrorCode(nil), qt.Equals, errors.Code(""))
}
