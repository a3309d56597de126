// Copyright 2024 Canonical.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	yamlv3 "gopkg.in/yaml.v3"
	"sigs.k8s.io/yaml"

	"github.com/canonical/jwkset/pkg/jwk"
)

var (
	// stdinMarkers contains file names that are taken to be stdin.
	stdinMarkers = []string{"-"}

	// keyFormatters write exported key documents. JSON members keep
	// their wire order.
	keyFormatters = map[string]cmd.Formatter{
		"json": formatKeyJSON,
		"yaml": formatKeyYAML,
	}
)

// keyDocument is an exported JWK or JWKS.
type keyDocument []byte

func formatKeyJSON(writer io.Writer, value interface{}) error {
	doc, ok := value.(keyDocument)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", doc, value)
	}
	_, err := fmt.Fprintf(writer, "%s\n", doc)
	return err
}

func formatKeyYAML(writer io.Writer, value interface{}) error {
	doc, ok := value.(keyDocument)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", doc, value)
	}
	y, err := yaml.JSONToYAML(doc)
	if err != nil {
		return errors.Trace(err)
	}
	_, err = writer.Write(y)
	return err
}

// readKeys reads a JWK or a JWKS document from fv. Single keys are
// returned as a set of one key; isSet reports which form was read.
func readKeys(ctxt *cmd.Context, fv cmd.FileVar) (set *jwk.JWKS, isSet bool, err error) {
	buf, err := fv.Read(ctxt)
	if err != nil {
		return nil, false, errors.Trace(err)
	}
	buf, err = yamlToJSON(buf)
	if err != nil {
		return nil, false, errors.Annotate(err, "cannot parse key document")
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(buf, &members); err != nil {
		return nil, false, errors.Annotate(err, "cannot parse key document")
	}
	if _, ok := members["keys"]; ok {
		set, err := jwk.ParseJWKS(buf)
		if err != nil {
			return nil, false, errors.Trace(err)
		}
		return set, true, nil
	}
	k, err := jwk.Parse(buf)
	if err != nil {
		return nil, false, errors.Trace(err)
	}
	set, err = jwk.NewJWKS(k)
	if err != nil {
		return nil, false, errors.Trace(err)
	}
	return set, false, nil
}

// yamlToJSON returns the JSON form of a key document given in JSON or
// YAML. JSON is passed through unchanged. YAML is decoded with YAML 1.2
// rules, under which member names such as "y" and "n" stay strings.
func yamlToJSON(buf []byte) ([]byte, error) {
	if json.Valid(buf) {
		return buf, nil
	}
	var doc interface{}
	if err := yamlv3.Unmarshal(buf, &doc); err != nil {
		return nil, errors.Trace(err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return b, nil
}

// exportKeys exports set, or its only key when asSet is false.
func exportKeys(set *jwk.JWKS, asSet, includePrivate bool) (keyDocument, error) {
	var (
		b   []byte
		err error
	)
	if asSet {
		b, err = set.Export(includePrivate)
	} else {
		b, err = set.Keys()[0].Export(includePrivate)
	}
	if jwk.ErrorCode(err) == jwk.CodePrivateKeyRequired {
		return nil, errors.Annotate(err, "symmetric keys can only be written with --private")
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	return keyDocument(b), nil
}
