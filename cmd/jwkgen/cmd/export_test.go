// Copyright 2024 Canonical.

package cmd

import (
	"github.com/juju/cmd/v3"

	"github.com/canonical/jwkset/pkg/jwk"
)

// NewGenerateCommandForTesting returns a generate command taking its
// key material from g.
func NewGenerateCommandForTesting(g jwk.KeyGenerator) cmd.Command {
	return &generateCommand{generator: g}
}
