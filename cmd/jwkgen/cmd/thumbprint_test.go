// Copyright 2024 Canonical.

package cmd_test

import (
	"encoding/json"

	"github.com/juju/cmd/v3/cmdtesting"
	gc "gopkg.in/check.v1"

	"github.com/canonical/jwkset/cmd/jwkgen/cmd"
)

type thumbprintSuite struct {
	jwkgenSuite
}

var _ = gc.Suite(&thumbprintSuite{})

// rfc7638Key is the example key from RFC 7638 section 3.1.
const rfc7638Key = `{"kty":"RSA","n":"0vx7agoebGcQSuuPiLJXZptN9nndrQmbXEps2aiAFbWhM78LhWx4cbbfAAtVT86zwu1RK7aPFFxuhDR1L6tSoc_BJECPebWKRXjBZCiFV4n3oknjhMstn64tZ_2W-5JsGY4Hc5n9yBXArwl93lqt7_RN5w6Cf0h4QyQ5v-65YGjQR0_FDW2QvzqY368QQMicAtaSqzs8KJZgnYb9c7d0zgdAZHzu6qMQvRL5hajrn1n91CbOpbISD08qNLyrdkt-bFTWhAI4vMQFh6WeZu0fM4lFd2NcRwr3XPksINHaQ-G_xBniIqbw0Ls1jF44-csFCur-kEgU8awapJzKnqDKgw","e":"AQAB","alg":"RS256","kid":"2011-04-29"}`

func (s *thumbprintSuite) TestThumbprintTabular(c *gc.C) {
	path := s.writeFile(c, "key.json", rfc7638Key)

	ctx, err := cmdtesting.RunCommand(c, cmd.NewThumbprintCommand(), path)
	c.Assert(err, gc.IsNil)
	c.Check(cmdtesting.Stdout(ctx), gc.Matches, `(?s)Key ID\s+Type\s+Thumbprint\s*\n2011-04-29\s+RSA\s+NzbLsXh8uDCcd-6MNwXF4W_7noWXFZAfHkxZsRGC9Xs\s*`)
}

func (s *thumbprintSuite) TestThumbprintJSON(c *gc.C) {
	path := s.writeFile(c, "jwks.json", `{"keys":[`+rfc7638Key+`,{"kty":"oct","k":"AQAB"}]}`)

	ctx, err := cmdtesting.RunCommand(c, cmd.NewThumbprintCommand(), "--format", "json", path)
	c.Assert(err, gc.IsNil)

	var tps []cmd.Thumbprint
	err = json.Unmarshal([]byte(cmdtesting.Stdout(ctx)), &tps)
	c.Assert(err, gc.IsNil)
	c.Assert(tps, gc.HasLen, 2)
	c.Check(tps[0], gc.Equals, cmd.Thumbprint{
		KeyID:      "2011-04-29",
		KeyType:    "RSA",
		Thumbprint: "NzbLsXh8uDCcd-6MNwXF4W_7noWXFZAfHkxZsRGC9Xs",
	})
	c.Check(tps[1].KeyID, gc.Equals, "")
	c.Check(tps[1].KeyType, gc.Equals, "oct")
	c.Check(tps[1].Thumbprint, gc.HasLen, 43)
}

func (s *thumbprintSuite) TestThumbprintInvalidKey(c *gc.C) {
	path := s.writeFile(c, "key.json", `{"kty":"EC","kid":"bad","crv":"P-999","x":"-w","y":"_w"}`)

	_, err := cmdtesting.RunCommand(c, cmd.NewThumbprintCommand(), path)
	c.Assert(err, gc.ErrorMatches, `cannot compute thumbprint of key "bad": .*`)
}

func (s *thumbprintSuite) TestThumbprintIncompleteKey(c *gc.C) {
	path := s.writeFile(c, "key.json", `{"kty":"EC","kid":"bad","crv":"P-256","x":"-w"}`)

	_, err := cmdtesting.RunCommand(c, cmd.NewThumbprintCommand(), path)
	c.Assert(err, gc.ErrorMatches, `EC key missing "y"`)
}
