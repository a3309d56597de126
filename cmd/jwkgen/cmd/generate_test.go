// Copyright 2024 Canonical.

package cmd_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/cmd/v3/cmdtesting"
	gc "gopkg.in/check.v1"
	"sigs.k8s.io/yaml"

	"github.com/canonical/jwkset/cmd/jwkgen/cmd"
	"github.com/canonical/jwkset/pkg/jwk"
)

type generateSuite struct {
	jwkgenSuite
}

var _ = gc.Suite(&generateSuite{})

func (s *generateSuite) TestGeneratePrivate(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), "--alg", "RS256", "--kid", "k1", "--use", "sig", "--ops", "sign,verify,sign", "--private")
	c.Assert(err, gc.IsNil)
	c.Check(strings.TrimSpace(cmdtesting.Stdout(ctx)), gc.Equals, `{"kty":"RSA","use":"sig","key_ops":["sign","verify"],"alg":"RS256","kid":"k1","n":"AQ","e":"AQAB","d":"Ag","p":"Aw","q":"BA","dp":"BQ","dq":"Bg","qi":"Bw"}`)
}

func (s *generateSuite) TestGeneratePublic(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), "--alg", "ES512", "--kid", "e1")
	c.Assert(err, gc.IsNil)
	c.Check(strings.TrimSpace(cmdtesting.Stdout(ctx)), gc.Equals, `{"kty":"EC","alg":"ES512","kid":"e1","crv":"P-521","x":"-w","y":"_w"}`)
}

func (s *generateSuite) TestGenerateSet(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), "--alg", "RS256, ES256", "--count", "2")
	c.Assert(err, gc.IsNil)

	set, err := jwk.ParseJWKSString(cmdtesting.Stdout(ctx))
	c.Assert(err, gc.IsNil)
	c.Assert(set.Len(), gc.Equals, 4)
	for i, alg := range []jwk.Algorithm{jwk.RS256, jwk.ES256, jwk.RS256, jwk.ES256} {
		k := set.Keys()[i]
		c.Check(k.Algorithm(), gc.Equals, alg)
		c.Check(k.KeyID(), gc.Not(gc.Equals), "")
		_, ok := k.Parameters().Get(jwk.RSAPrivateExponent)
		c.Check(ok, gc.Equals, false)
	}
}

func (s *generateSuite) TestGenerateSingleKeyAsSet(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), "--alg", "ES256", "--kid", "only", "--set")
	c.Assert(err, gc.IsNil)
	c.Check(strings.TrimSpace(cmdtesting.Stdout(ctx)), gc.Equals, `{"keys":[{"kty":"EC","alg":"ES256","kid":"only","crv":"P-256","x":"-w","y":"_w"}]}`)
}

func (s *generateSuite) TestGenerateYAML(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), "--alg", "ES256", "--kid", "y1", "--format", "yaml")
	c.Assert(err, gc.IsNil)

	out := cmdtesting.Stdout(ctx)
	c.Check(out, gc.Matches, `(?s).*kty: EC\n.*`)
	b, err := yaml.YAMLToJSON([]byte(out))
	c.Assert(err, gc.IsNil)
	var got map[string]string
	c.Assert(json.Unmarshal(b, &got), gc.IsNil)
	c.Check(got, gc.DeepEquals, map[string]string{
		"kty": "EC",
		"alg": "ES256",
		"kid": "y1",
		"crv": "P-256",
		"x":   "-w",
		"y":   "_w",
	})
}

func (s *generateSuite) TestGenerateToFile(c *gc.C) {
	path := filepath.Join(s.dir, "key.json")
	ctx, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), "--alg", "HS256", "--kid", "h1", "--private", "--output", path)
	c.Assert(err, gc.IsNil)
	c.Check(cmdtesting.Stdout(ctx), gc.Equals, "")

	data, err := os.ReadFile(path)
	c.Assert(err, gc.IsNil)
	k, err := jwk.Parse(data)
	c.Assert(err, gc.IsNil)
	c.Check(k.KeyID(), gc.Equals, "h1")
	c.Check(k.IsSymmetric(), gc.Equals, true)
}

func (s *generateSuite) TestGenerateRealKey(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommand(), "--alg", "ES384", "--private")
	c.Assert(err, gc.IsNil)

	k, err := jwk.ParseString(cmdtesting.Stdout(ctx))
	c.Assert(err, gc.IsNil)
	c.Check(k.Algorithm(), gc.Equals, jwk.ES384)
	d, ok := k.Parameters().Get(jwk.ECPrivateKey)
	c.Check(ok, gc.Equals, true)
	c.Check(d, gc.HasLen, 64)
}

func (s *generateSuite) TestGenerateSymmetricRequiresPrivate(c *gc.C) {
	_, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), "--alg", "A128GCM")
	c.Assert(err, gc.ErrorMatches, `symmetric keys can only be written with --private: .*`)
}

func (s *generateSuite) TestGenerateInitErrors(c *gc.C) {
	tests := []struct {
		args        []string
		expectError string
	}{{
		args:        []string{"extra"},
		expectError: `too many args`,
	}, {
		args:        []string{"--alg", "PS256"},
		expectError: `unknown algorithm "PS256"`,
	}, {
		args:        []string{"--alg", ","},
		expectError: `no algorithm specified`,
	}, {
		args:        []string{"--count", "0"},
		expectError: `--count must be at least 1`,
	}, {
		args:        []string{"--count", "2", "--kid", "k"},
		expectError: `--kid can only be used when generating a single key`,
	}, {
		args:        []string{"--use", "both"},
		expectError: `unknown key use "both"`,
	}, {
		args:        []string{"--ops", "sign,frobnicate"},
		expectError: `unknown key operation "frobnicate"`,
	}}
	for i, test := range tests {
		c.Logf("test %d: %v", i, test.args)
		_, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), test.args...)
		c.Check(err, gc.ErrorMatches, test.expectError)
	}
}

func (s *generateSuite) TestGenerateRSAKeySizeTooLarge(c *gc.C) {
	_, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), "--alg", "RS256", "--rsa-key-size", "32768")
	c.Assert(err, gc.ErrorMatches, `cannot generate keys: RSA key size 32768 exceeds maximum of 16384`)
}
