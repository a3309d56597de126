// Copyright 2024 Canonical.

package cmd

import (
	"context"
	"strings"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/canonical/jwkset/pkg/jwk"
)

var generateCommandDoc = `
	generate creates new JSON Web Keys.

	One key is generated for every algorithm given with --alg, repeated
	--count times. A single key is written as a JWK, several keys, or any
	key when --set is given, are written as a JWK Set. Private key
	material is only written when --private is given; symmetric keys
	(HMAC and AES) have no public form and always need --private.

	Example:
		jwkgen generate --alg ES256
		jwkgen generate --alg RS256,ES384 --use sig --format yaml
		jwkgen generate --alg RS512 --rsa-key-size 4096 --private --output key.json
		jwkgen generate --alg HS256 --ops sign,verify --private
`

// NewGenerateCommand returns a command that generates keys.
func NewGenerateCommand() cmd.Command {
	return &generateCommand{}
}

// generateCommand generates keys.
type generateCommand struct {
	cmd.CommandBase
	out cmd.Output

	algs       string
	use        string
	ops        string
	kid        string
	rsaKeySize int
	count      int
	private    bool
	set        bool

	generator jwk.KeyGenerator

	algorithms []jwk.Algorithm
	options    []jwk.Option
}

// Info implements Command.Info.
func (c *generateCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "generate",
		Purpose: "Generate JSON Web Keys",
		Doc:     generateCommandDoc,
	}
}

// SetFlags implements Command.SetFlags.
func (c *generateCommand) SetFlags(f *gnuflag.FlagSet) {
	c.CommandBase.SetFlags(f)
	c.out.AddFlags(f, "json", keyFormatters)
	f.StringVar(&c.algs, "alg", "ES256", "Comma separated algorithms to generate keys for")
	f.StringVar(&c.use, "use", "", "Intended key use, sig or enc")
	f.StringVar(&c.ops, "ops", "", "Comma separated key operations")
	f.StringVar(&c.kid, "kid", "", "Key ID, a random UUID is used when not given")
	f.IntVar(&c.rsaKeySize, "rsa-key-size", jwk.DefaultRSAKeySize, "Modulus size of RSA keys in bits")
	f.IntVar(&c.count, "count", 1, "Number of keys to generate for each algorithm")
	f.BoolVar(&c.private, "private", false, "Include private key material")
	f.BoolVar(&c.set, "set", false, "Always write a JWK Set")
}

// Init implements the cmd.Command interface.
func (c *generateCommand) Init(args []string) error {
	if len(args) > 0 {
		return errors.New("too many args")
	}
	for _, s := range splitList(c.algs) {
		alg, ok := jwk.ParseAlgorithm(s)
		if !ok {
			return errors.Errorf("unknown algorithm %q", s)
		}
		c.algorithms = append(c.algorithms, alg)
	}
	if len(c.algorithms) == 0 {
		return errors.New("no algorithm specified")
	}
	if c.count < 1 {
		return errors.New("--count must be at least 1")
	}
	if c.kid != "" && c.count*len(c.algorithms) > 1 {
		return errors.New("--kid can only be used when generating a single key")
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
	if c.kid != "" {
		c.options = append(c.options, jwk.WithKeyID(c.kid))
	}
	c.options = append(c.options, jwk.WithRSAKeySize(c.rsaKeySize))
	if c.generator != nil {
		c.options = append(c.options, jwk.WithGenerator(c.generator))
	}
	return nil
}

// Run implements Command.Run.
func (c *generateCommand) Run(ctxt *cmd.Context) error {
	ctx := context.Background()

	algs := make([]jwk.Algorithm, 0, c.count*len(c.algorithms))
	for i := 0; i < c.count; i++ {
		algs = append(algs, c.algorithms...)
	}
	set, err := jwk.GenerateSet(ctx, algs, c.options...)
	if err != nil {
		return errors.Annotate(err, "cannot generate keys")
	}
	doc, err := exportKeys(set, c.set || set.Len() > 1, c.private)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.out.Write(ctxt, doc))
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
