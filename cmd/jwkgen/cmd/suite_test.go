// Copyright 2024 Canonical.

package cmd_test

import (
	"os"
	"path/filepath"

	"github.com/juju/zaputil/zapctx"
	"go.uber.org/zap"
	gc "gopkg.in/check.v1"

	"github.com/canonical/jwkset/internal/logger"
	"github.com/canonical/jwkset/pkg/keygen"
)

// jwkgenSuite is embedded by the command suites. It logs to the test
// log and provides a scratch directory.
type jwkgenSuite struct {
	dir           string
	defaultLogger *zap.Logger
}

func (s *jwkgenSuite) SetUpTest(c *gc.C) {
	s.dir = c.MkDir()
	s.defaultLogger = zapctx.Default
	zapctx.Default = logger.NewGoCheckLogger(c)
}

func (s *jwkgenSuite) TearDownTest(c *gc.C) {
	zapctx.Default = s.defaultLogger
}

// writeFile writes data to a file in the scratch directory and returns
// its path.
func (s *jwkgenSuite) writeFile(c *gc.C, name, data string) string {
	path := filepath.Join(s.dir, name)
	err := os.WriteFile(path, []byte(data), 0600)
	c.Assert(err, gc.IsNil)
	return path
}

// fixedGenerator returns the same key material every time.
type fixedGenerator struct{}

func (fixedGenerator) GenerateRSA(bits int) (*keygen.RSAKey, error) {
	return &keygen.RSAKey{
		N:  []byte{1},
		E:  []byte{1, 0, 1},
		D:  []byte{2},
		P:  []byte{3},
		Q:  []byte{4},
		DP: []byte{5},
		DQ: []byte{6},
		QI: []byte{7},
	}, nil
}

func (fixedGenerator) GenerateEC(oid string) (*keygen.ECKey, error) {
	return &keygen.ECKey{X: []byte{0xfb}, Y: []byte{0xff}, D: []byte{0}}, nil
}

func (fixedGenerator) GenerateSymmetric(n int) ([]byte, error) {
	return make([]byte, n), nil
}
