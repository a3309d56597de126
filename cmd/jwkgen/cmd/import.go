// Copyright 2024 Canonical.

package cmd

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/canonical/jwkset/internal/jwxconv"
	"github.com/canonical/jwkset/pkg/jwk"
)

var importCommandDoc = `
	import converts PEM encoded keys into JSON Web Keys.

	Every PEM block in the file becomes one key. RSA and EC private keys
	(PKCS #1, PKCS #8 and SEC 1), public keys and certificates are
	understood. Keys are given their RFC 7638 thumbprint as key ID unless
	--kid is used. Private key material is only written when --private is
	given.

	Example:
		jwkgen import key.pem
		openssl ecparam -name prime256v1 -genkey | jwkgen import --alg ES256 --use sig -
`

// NewImportCommand returns a command that converts PEM keys to JWKs.
func NewImportCommand() cmd.Command {
	cmd := &importCommand{}
	cmd.file.StdinMarkers = stdinMarkers
	return cmd
}

// importCommand converts PEM keys to JWKs.
type importCommand struct {
	cmd.CommandBase
	out cmd.Output

	file    cmd.FileVar
	alg     string
	use     string
	ops     string
	kid     string
	private bool
	set     bool

	options []jwk.Option
}

// Info implements Command.Info.
func (c *importCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "import",
		Args:    "<filename>",
		Purpose: "Convert PEM encoded keys to JSON Web Keys",
		Doc:     importCommandDoc,
	}
}

// SetFlags implements Command.SetFlags.
func (c *importCommand) SetFlags(f *gnuflag.FlagSet) {
	c.CommandBase.SetFlags(f)
	c.out.AddFlags(f, "json", keyFormatters)
	f.StringVar(&c.alg, "alg", "", "Algorithm the keys are intended for")
	f.StringVar(&c.use, "use", "", "Intended key use, sig or enc")
	f.StringVar(&c.ops, "ops", "", "Comma separated key operations")
	f.StringVar(&c.kid, "kid", "", "Key ID, the key thumbprint is used when not given")
	f.BoolVar(&c.private, "private", false, "Include private key material")
	f.BoolVar(&c.set, "set", false, "Always write a JWK Set")
}

// Init implements the cmd.Command interface.
func (c *importCommand) Init(args []string) error {
	if len(args) < 1 {
		return errors.New("filename not specified")
	}
	c.file.Path = args[0]
	if len(args) > 1 {
		return errors.New("too many args")
	}
	if c.alg != "" {
		alg, ok := jwk.ParseAlgorithm(c.alg)
		if !ok {
			return errors.Errorf("unknown algorithm %q", c.alg)
		}
		c.options = append(c.options, jwk.WithAlgorithm(alg))
	}
	if c.use != "" {
		use, ok := jwk.ParsePublicKeyUse(c.use)
		if !ok {
			return errors.Errorf("unknown key use %q", c.use)
		}
		c.options = append(c.options, jwk.WithUse(use))
	}
	if c.ops != "" {
		var ops []jwk.KeyOperation
		for _, s := range splitList(c.ops) {
			op, ok := jwk.ParseKeyOperation(s)
			if !ok {
				return errors.Errorf("unknown key operation %q", s)
			}
			ops = append(ops, op)
		}
		c.options = append(c.options, jwk.WithOperations(ops...))
	}
	return nil
}

// Run implements Command.Run.
func (c *importCommand) Run(ctxt *cmd.Context) error {
	buf, err := c.file.Read(ctxt)
	if err != nil {
		return errors.Trace(err)
	}
	pemKeys, err := jwxconv.FromPEM(buf)
	if err != nil {
		return errors.Annotate(err, "cannot import keys")
	}
	if c.kid != "" && pemKeys.Len() > 1 {
		return errors.New("--kid can only be used when importing a single key")
	}

	keys := make([]*jwk.JWK, 0, pemKeys.Len())
	for _, k := range pemKeys.Keys() {
		kid := c.kid
		if kid == "" {
			kid, err = jwxconv.Thumbprint(k)
			if err != nil {
				return errors.Annotate(err, "cannot compute key ID")
			}
		}
		opts := append([]jwk.Option{jwk.WithKeyID(kid)}, c.options...)
		k, err = jwk.FromParameters(k.KeyType(), k.Parameters(), opts...)
		if err != nil {
			return errors.Annotate(err, "cannot import keys")
		}
		keys = append(keys, k)
	}
	set, err := jwk.NewJWKS(keys...)
	if err != nil {
		return errors.Trace(err)
	}
	doc, err := exportKeys(set, c.set || set.Len() > 1, c.private)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.out.Write(ctxt, doc))
}
