// Copyright 2024 Canonical.

package main

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"time"

	service "github.com/canonical/go-service"
	"github.com/juju/zaputil/zapctx"
	"go.uber.org/zap"

	jwkssvc "github.com/canonical/jwkset/cmd/jwksrv/service"
	"github.com/canonical/jwkset/internal/logger"
	"github.com/canonical/jwkset/version"
)

// rotationCheckInterval is how often the rotator checks whether the
// published keys have expired.
const rotationCheckInterval = time.Minute

func main() {
	ctx, s := service.NewService(context.Background(), os.Interrupt, syscall.SIGTERM)
	s.Go(func() error {
		return start(ctx, s)
	})
	err := s.Wait()

	zapctx.Error(context.Background(), "shutdown", zap.Error(err))
	if _, ok := err.(*service.SignalError); !ok {
		os.Exit(1)
	}
}

// start initialises the jwksrv service.
func start(ctx context.Context, s *service.Service) error {
	p, err := jwkssvc.ParamsFromEnv(os.Getenv)
	if err != nil {
		zapctx.Error(ctx, "invalid configuration", zap.Error(err))
		return err
	}
	logger.SetupLogger(ctx, p.LogLevel, p.DevMode)

	zapctx.Info(ctx, "jwksrv info",
		zap.String("version", version.VersionInfo.Version),
		zap.String("commit", version.VersionInfo.GitCommit),
	)

	jwkssrv, err := jwkssvc.NewService(ctx, p)
	if err != nil {
		return err
	}

	zapctx.Info(ctx, "starting JWKS rotator", zap.Duration("interval", p.RotationInterval))
	ticker := time.NewTicker(rotationCheckInterval)
	s.OnShutdown(ticker.Stop)
	if err := jwkssrv.StartJWKSRotator(ctx, ticker.C); err != nil {
		zapctx.Error(ctx, "failed to start JWKS rotator", zap.Error(err))
		return err
	}

	httpsrv := &http.Server{
		Addr:    p.ListenAddr,
		Handler: jwkssrv,
	}
	s.OnShutdown(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		zapctx.Warn(ctx, "server shutdown triggered")
		httpsrv.Shutdown(ctx)
	})
	s.Go(httpsrv.ListenAndServe)
	zapctx.Info(ctx, "Successfully started JWKS server", zap.String("addr", p.ListenAddr))
	return nil
}
