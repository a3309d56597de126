// Copyright 2024 Canonical.

package cmd_test

import (
	"strings"

	"github.com/juju/cmd/v3/cmdtesting"
	gc "gopkg.in/check.v1"

	"github.com/canonical/jwkset/cmd/jwkgen/cmd"
)

type publicSuite struct {
	jwkgenSuite
}

var _ = gc.Suite(&publicSuite{})

const privateRSAKey = `{"kty":"RSA","alg":"RS256","kid":"k1","n":"AQ","e":"AQAB","d":"Ag","p":"Aw","q":"BA","dp":"BQ","dq":"Bg","qi":"Bw"}`

func (s *publicSuite) TestPublicKey(c *gc.C) {
	path := s.writeFile(c, "key.json", privateRSAKey)

	ctx, err := cmdtesting.RunCommand(c, cmd.NewPublicCommand(), path)
	c.Assert(err, gc.IsNil)
	c.Check(strings.TrimSpace(cmdtesting.Stdout(ctx)), gc.Equals, `{"kty":"RSA","alg":"RS256","kid":"k1","n":"AQ","e":"AQAB"}`)
}

func (s *publicSuite) TestPublicSet(c *gc.C) {
	path := s.writeFile(c, "jwks.json", `{"keys":[`+privateRSAKey+`,{"kty":"EC","kid":"e1","crv":"P-256","x":"-w","y":"_w","d":"AA"}]}`)

	ctx, err := cmdtesting.RunCommand(c, cmd.NewPublicCommand(), path)
	c.Assert(err, gc.IsNil)
	c.Check(strings.TrimSpace(cmdtesting.Stdout(ctx)), gc.Equals, `{"keys":[{"kty":"RSA","alg":"RS256","kid":"k1","n":"AQ","e":"AQAB"},{"kty":"EC","kid":"e1","crv":"P-256","x":"-w","y":"_w"}]}`)
}

func (s *publicSuite) TestPublicYAMLInput(c *gc.C) {
	path := s.writeFile(c, "key.yaml", `
kty: EC
kid: e1
crv: P-256
x: "-w"
y: _w
d: AA
`)

	ctx, err := cmdtesting.RunCommand(c, cmd.NewPublicCommand(), path)
	c.Assert(err, gc.IsNil)
	c.Check(strings.TrimSpace(cmdtesting.Stdout(ctx)), gc.Equals, `{"kty":"EC","kid":"e1","crv":"P-256","x":"-w","y":"_w"}`)
}

func (s *publicSuite) TestPublicYAMLRSAInput(c *gc.C) {
	path := s.writeFile(c, "key.yaml", `
kty: RSA
kid: k1
n: AQ
e: AQAB
d: Ag
`)

	ctx, err := cmdtesting.RunCommand(c, cmd.NewPublicCommand(), path)
	c.Assert(err, gc.IsNil)
	c.Check(strings.TrimSpace(cmdtesting.Stdout(ctx)), gc.Equals, `{"kty":"RSA","kid":"k1","n":"AQ","e":"AQAB"}`)
}

func (s *publicSuite) TestPublicReadsGeneratedYAML(c *gc.C) {
	ctx, err := cmdtesting.RunCommand(c, cmd.NewGenerateCommandForTesting(fixedGenerator{}), "--alg", "ES256", "--kid", "e1", "--private", "--format", "yaml")
	c.Assert(err, gc.IsNil)
	path := s.writeFile(c, "key.yaml", cmdtesting.Stdout(ctx))

	ctx, err = cmdtesting.RunCommand(c, cmd.NewPublicCommand(), path)
	c.Assert(err, gc.IsNil)
	c.Check(strings.TrimSpace(cmdtesting.Stdout(ctx)), gc.Equals, `{"kty":"EC","alg":"ES256","kid":"e1","crv":"P-256","x":"-w","y":"_w"}`)
}

func (s *publicSuite) TestPublicFromStdin(c *gc.C) {
	ctx := cmdtesting.Context(c)
	ctx.Stdin = strings.NewReader(privateRSAKey)

	com := cmd.NewPublicCommand()
	err := cmdtesting.InitCommand(com, []string{"-"})
	c.Assert(err, gc.IsNil)
	err = com.Run(ctx)
	c.Assert(err, gc.IsNil)
	c.Check(strings.TrimSpace(cmdtesting.Stdout(ctx)), gc.Equals, `{"kty":"RSA","alg":"RS256","kid":"k1","n":"AQ","e":"AQAB"}`)
}

func (s *publicSuite) TestPublicSymmetricKey(c *gc.C) {
	path := s.writeFile(c, "key.json", `{"kty":"oct","k":"AQAB"}`)

	_, err := cmdtesting.RunCommand(c, cmd.NewPublicCommand(), path)
	c.Assert(err, gc.ErrorMatches, `cannot remove private key material: symmetric oct key has no public representation`)
}

func (s *publicSuite) TestPublicInvalidDocument(c *gc.C) {
	path := s.writeFile(c, "key.json", `{"n":"AQ"}`)

	_, err := cmdtesting.RunCommand(c, cmd.NewPublicCommand(), path)
	c.Assert(err, gc.ErrorMatches, `missing required member "kty"`)
}

func (s *publicSuite) TestPublicArgs(c *gc.C) {
	_, err := cmdtesting.RunCommand(c, cmd.NewPublicCommand())
	c.Check(err, gc.ErrorMatches, `filename not specified`)
	_, err = cmdtesting.RunCommand(c, cmd.NewPublicCommand(), "a", "b")
	c.Check(err, gc.ErrorMatches, `too many args`)
}
