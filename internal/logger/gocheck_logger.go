// Copyright 2024 Canonical.

package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gc "gopkg.in/check.v1"
)

// NewGoCheckLogger returns a logger that writes to the log of the
// running gocheck test, so output is only shown when the test fails.
// Every level down to debug is written and entries are named after the
// test.
func NewGoCheckLogger(c *gc.C) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig()),
		testLogWriter{c},
		zap.DebugLevel,
	)
	return zap.New(core).Named(c.TestName())
}

// testLogWriter is a zapcore.WriteSyncer writing one test log line per
// entry.
type testLogWriter struct {
	c *gc.C
}

func (w testLogWriter) Write(buf []byte) (int, error) {
	w.c.Log(strings.TrimSuffix(string(buf), "\n"))
	return len(buf), nil
}

func (testLogWriter) Sync() error {
	return nil
}
