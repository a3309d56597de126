// Copyright 2024 Canonical.

package cmd

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/canonical/jwkset/internal/jwxconv"
)

var thumbprintCommandDoc = `
	thumbprint computes the RFC 7638 SHA-256 thumbprint of every key in
	a JWK or JWK Set. The input may be JSON or YAML and is read from
	stdin when the filename is "-".

	Example:
		jwkgen thumbprint key.json
		jwkgen thumbprint --format yaml jwks.json
`

// NewThumbprintCommand returns a command that computes key thumbprints.
func NewThumbprintCommand() cmd.Command {
	cmd := &thumbprintCommand{}
	cmd.file.StdinMarkers = stdinMarkers
	return cmd
}

// thumbprintCommand computes key thumbprints.
type thumbprintCommand struct {
	cmd.CommandBase
	out cmd.Output

	file cmd.FileVar
}

// Thumbprint is the thumbprint of a single key.
type Thumbprint struct {
	KeyID      string `json:"kid,omitempty" yaml:"kid,omitempty"`
	KeyType    string `json:"kty" yaml:"kty"`
	Thumbprint string `json:"thumbprint" yaml:"thumbprint"`
}

// Info implements Command.Info.
func (c *thumbprintCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "thumbprint",
		Args:    "<filename>",
		Purpose: "Compute key thumbprints",
		Doc:     thumbprintCommandDoc,
	}
}

// SetFlags implements Command.SetFlags.
func (c *thumbprintCommand) SetFlags(f *gnuflag.FlagSet) {
	c.CommandBase.SetFlags(f)
	c.out.AddFlags(f, "tabular", map[string]cmd.Formatter{
		"json":    cmd.FormatJson,
		"yaml":    cmd.FormatYaml,
		"tabular": formatThumbprintsTabular,
	})
}

// Init implements the cmd.Command interface.
func (c *thumbprintCommand) Init(args []string) error {
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
func (c *thumbprintCommand) Run(ctxt *cmd.Context) error {
	set, _, err := readKeys(ctxt, c.file)
	if err != nil {
		return errors.Trace(err)
	}
	var tps []Thumbprint
	for _, k := range set.Keys() {
		tp, err := jwxconv.Thumbprint(k)
		if err != nil {
			return errors.Annotatef(err, "cannot compute thumbprint of key %q", k.KeyID())
		}
		tps = append(tps, Thumbprint{
			KeyID:      k.KeyID(),
			KeyType:    k.KeyType().String(),
			Thumbprint: tp,
		})
	}
	return errors.Trace(c.out.Write(ctxt, tps))
}

func formatThumbprintsTabular(writer io.Writer, value interface{}) error {
	tps, ok := value.([]Thumbprint)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", tps, value)
	}

	table := uitable.New()
	table.MaxColWidth = 50
	table.Wrap = true

	table.AddRow("Key ID", "Type", "Thumbprint")
	for _, tp := range tps {
		table.AddRow(tp.KeyID, tp.KeyType, tp.Thumbprint)
	}
	fmt.Fprintln(writer, table)
	return nil
}
