// Copyright 2024 Canonical.

package cmd

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
)

var publicCommandDoc = `
	public writes the public form of a JWK or JWK Set, removing all
	private key material. The input may be JSON or YAML and is read from
	stdin when the filename is "-". Symmetric keys have no public form.

	Example:
		jwkgen public private.json
		jwkgen generate --private | jwkgen public -
`

// NewPublicCommand returns a command that strips private key material.
func NewPublicCommand() cmd.Command {
	cmd := &publicCommand{}
	cmd.file.StdinMarkers = stdinMarkers
	return cmd
}

// publicCommand strips private key material.
type publicCommand struct {
	cmd.CommandBase
	out cmd.Output

	file cmd.FileVar
}

// Info implements Command.Info.
func (c *publicCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "public",
		Args:    "<filename>",
		Purpose: "Write the public form of keys",
		Doc:     publicCommandDoc,
	}
}

// SetFlags implements Command.SetFlags.
func (c *publicCommand) SetFlags(f *gnuflag.FlagSet) {
	c.CommandBase.SetFlags(f)
	c.out.AddFlags(f, "json", keyFormatters)
}

// Init implements the cmd.Command interface.
func (c *publicCommand) Init(args []string) error {
	if len(args) < 1 {
		return errors.New("filename not specified")
	}
	c.file.Path = args[0]
	if len(args) > 1 {
		return errors.New("too many args")
	}
	return nil
}

// Run implements Command.Run.
func (c *publicCommand) Run(ctxt *cmd.Context) error {
	set, isSet, err := readKeys(ctxt, c.file)
	if err != nil {
		return errors.Trace(err)
	}
	pub, err := set.Public()
	if err != nil {
		return errors.Annotate(err, "cannot remove private key material")
	}
	doc, err := exportKeys(pub, isSet, false)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.out.Write(ctxt, doc))
}
