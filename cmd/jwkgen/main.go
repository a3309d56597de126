// Copyright 2024 Canonical.

package main

import (
	"fmt"
	"os"

	jujucmd "github.com/juju/cmd/v3"

	"github.com/canonical/jwkset/cmd/jwkgen/cmd"
	"github.com/canonical/jwkset/version"
)

var jwkgenDoc = `
jwkgen generates JSON Web Keys and inspects JWK and JWK Set documents.
`

func NewSuperCommand() *jujucmd.SuperCommand {
	jwkgencmd := jujucmd.NewSuperCommand(jujucmd.SuperCommandParams{
		Name:    "jwkgen",
		Doc:     jwkgenDoc,
		Version: version.VersionInfo.Version,
	})
	jwkgencmd.Register(cmd.NewGenerateCommand())
	jwkgencmd.Register(cmd.NewImportCommand())
	jwkgencmd.Register(cmd.NewPublicCommand())
	jwkgencmd.Register(cmd.NewThumbprintCommand())
	return jwkgencmd
}

func main() {
	ctx, err := jujucmd.DefaultContext()
	if err != nil {
		fmt.Printf("failed to get command context: %v\n", err)
		os.Exit(2)
	}
	superCmd := NewSuperCommand()
	args := os.Args

	os.Exit(jujucmd.Main(superCmd, ctx, args[1:]))
}
