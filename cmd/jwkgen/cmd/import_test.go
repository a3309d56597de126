// Copyright 2024 Canonical.

package cmd_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"

	"github.com/juju/cmd/v3/cmdtesting"
	gc "gopkg.in/check.v1"

	"github.com/canonical/jwkset/cmd/jwkgen/cmd"
	"github.com/canonical/jwkset/internal/jwxconv"
	"github.com/canonical/jwkset/pkg/jwk"
)

type importSuite struct {
	jwkgenSuite
}

var _ = gc.Suite(&importSuite{})

func ecPEM(c *gc.C) []byte {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	c.Assert(err, gc.IsNil)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	c.Assert(err, gc.IsNil)
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func rsaPublicPEM(c *gc.C) []byte {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	c.Assert(err, gc.IsNil)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	c.Assert(err, gc.IsNil)
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func (s *importSuite) TestImportECKey(c *gc.C) {
	path := s.writeFile(c, "key.pem", string(ecPEM(c)))

	ctx, err := cmdtesting.RunCommand(c, cmd.NewImportCommand(), "--alg", "ES256", "--use", "sig", "--ops", "verify", path)
	c.Assert(err, gc.IsNil)
	k, err := jwk.ParseString(cmdtesting.Stdout(ctx))
	c.Assert(err, gc.IsNil)
	c.Check(k.KeyType(), gc.Equals, jwk.EC)
	c.Check(k.Algorithm(), gc.Equals, jwk.ES256)
	c.Check(k.Use(), gc.Equals, jwk.UseSignature)
	c.Check(k.Operations(), gc.DeepEquals, []jwk.KeyOperation{jwk.OpVerify})
	_, ok := k.Parameters().Get(jwk.ECPrivateKey)
	c.Check(ok, gc.Equals, false)

	tp, err := jwxconv.Thumbprint(k)
	c.Assert(err, gc.IsNil)
	c.Check(k.KeyID(), gc.Equals, tp)
}

func (s *importSuite) TestImportPrivateWithKeyID(c *gc.C) {
	path := s.writeFile(c, "key.pem", string(ecPEM(c)))

	ctx, err := cmdtesting.RunCommand(c, cmd.NewImportCommand(), "--kid", "mykey", "--private", path)
	c.Assert(err, gc.IsNil)
	k, err := jwk.ParseString(cmdtesting.Stdout(ctx))
	c.Assert(err, gc.IsNil)
	c.Check(k.KeyID(), gc.Equals, "mykey")
	_, ok := k.Parameters().Get(jwk.ECPrivateKey)
	c.Check(ok, gc.Equals, true)
}

func (s *importSuite) TestImportFromStdin(c *gc.C) {
	ctx := cmdtesting.Context(c)
	ctx.Stdin = strings.NewReader(string(rsaPublicPEM(c)))

	com := cmd.NewImportCommand()
	err := cmdtesting.InitCommand(com, []string{"--set", "-"})
	c.Assert(err, gc.IsNil)
	err = com.Run(ctx)
	c.Assert(err, gc.IsNil)
	set, err := jwk.ParseJWKSString(cmdtesting.Stdout(ctx))
	c.Assert(err, gc.IsNil)
	c.Assert(set.Keys(), gc.HasLen, 1)
	c.Check(set.Keys()[0].KeyType(), gc.Equals, jwk.RSA)
}

func (s *importSuite) TestImportSeveralKeys(c *gc.C) {
	path := s.writeFile(c, "keys.pem", string(ecPEM(c))+string(rsaPublicPEM(c)))

	ctx, err := cmdtesting.RunCommand(c, cmd.NewImportCommand(), "--format", "yaml", path)
	c.Assert(err, gc.IsNil)
	c.Check(cmdtesting.Stdout(ctx), gc.Matches, `(?s)keys:\n- crv: P-256\n.*- e: AQAB\n.*`)
}

func (s *importSuite) TestImportKeyIDWithSeveralKeys(c *gc.C) {
	path := s.writeFile(c, "keys.pem", string(ecPEM(c))+string(rsaPublicPEM(c)))

	_, err := cmdtesting.RunCommand(c, cmd.NewImportCommand(), "--kid", "k1", path)
	c.Assert(err, gc.ErrorMatches, `--kid can only be used when importing a single key`)
}

func (s *importSuite) TestImportAlgorithmMismatch(c *gc.C) {
	path := s.writeFile(c, "key.pem", string(rsaPublicPEM(c)))

	_, err := cmdtesting.RunCommand(c, cmd.NewImportCommand(), "--alg", "ES256", path)
	c.Assert(err, gc.ErrorMatches, `cannot import keys: algorithm ES256 requires a EC key, not RSA`)
}

func (s *importSuite) TestImportInvalidPEM(c *gc.C) {
	path := s.writeFile(c, "key.pem", "not a key")

	_, err := cmdtesting.RunCommand(c, cmd.NewImportCommand(), path)
	c.Assert(err, gc.ErrorMatches, `cannot import keys: cannot parse PEM keys: .*`)
}

func (s *importSuite) TestImportInitErrors(c *gc.C) {
	tests := []struct {
		args        []string
		expectError string
	}{{
		args:        nil,
		expectError: `filename not specified`,
	}, {
		args:        []string{"a.pem", "b.pem"},
		expectError: `too many args`,
	}, {
		args:        []string{"--alg", "XS256", "a.pem"},
		expectError: `unknown algorithm "XS256"`,
	}, {
		args:        []string{"--use", "both", "a.pem"},
		expectError: `unknown key use "both"`,
	}, {
		args:        []string{"--ops", "sign,fold", "a.pem"},
		expectError: `unknown key operation "fold"`,
	}}
	for i, test := range tests {
		c.Logf("test %d: %v", i, test.args)
		err := cmdtesting.InitCommand(cmd.NewImportCommand(), test.args)
		c.Check(err, gc.ErrorMatches, test.expectError)
	}
}
