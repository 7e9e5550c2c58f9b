package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/linechat/linechat-server/internal/config"
	"github.com/linechat/linechat-server/internal/core"
	"github.com/linechat/linechat-server/internal/log"
	transporthttp "github.com/linechat/linechat-server/internal/transport/http"
	"github.com/linechat/linechat-server/internal/transport/tcp"
)

// App wires the shared chat state to its transports. Both transports
// register sessions against the same registry and room directory, so a
// TCP client and a websocket client can share a room.
type App struct {
	tcp             *tcp.Server
	http            *stdhttp.Server
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	registry := core.NewRegistry()
	directory := core.NewDirectory()
	tcpLog := log.Component(logger, "tcp")
	httpLog := log.Component(logger, "http")

	return &App{
		tcp:             tcp.NewServer(cfg.Addr, registry, directory, &tcpLog),
		http:            transporthttp.NewServer(registry, directory, cfg, &httpLog),
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
}

// Run starts both transports and blocks until context cancellation or a
// fatal error in either one.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		errCh <- a.tcp.Run(ctx)
	}()
	go func() {
		if err := a.http.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down")
		var firstErr error
		if err := a.http.Shutdown(shutdownCtx); err != nil {
			firstErr = err
		}
		for i := 0; i < 2; i++ {
			if err := <-errCh; err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
}
