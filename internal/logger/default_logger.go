// Copyright 2024 Canonical.

// Package logger configures the zap loggers used by the JWKS server and
// tools.
package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/zaputil/zapctx"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogger sets up the default logger.
// The local logger is a colorized plain text logger.
// The production logger is a JSON structured logger.
func SetupLogger(ctx context.Context, logLevel string, devMode bool) {
	pLogLevel, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		fmt.Printf("ERROR: log level %q cannot be parsed, defaulting to info\n", logLevel)
		pLogLevel = zap.InfoLevel
	}
	zapctx.LogLevel.SetLevel(pLogLevel)
	if devMode {
		zapctx.Default = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.AddSync(colorable.NewColorableStdout()),
			zapctx.LogLevel,
		))
	} else {
		prodConfig := zap.NewProductionConfig()
		prodConfig.Level = zapctx.LogLevel
		// Build only fails on an invalid configuration.
		zapctx.Default = zap.Must(prodConfig.Build())
	}
	zapctx.Debug(ctx, "logger configured", zap.Stringer("level", pLogLevel), zap.Bool("dev-mode", devMode))
}

// consoleEncoderConfig returns the encoder configuration of the human
// readable logger.
func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = shortTimeEncoder
	return cfg
}

// shortTimeEncoder encodes time as 15:04:05.000
func shortTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}
