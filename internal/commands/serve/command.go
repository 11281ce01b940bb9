package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artuross/tiny-compiler/internal/commandinit"
	"github.com/artuross/tiny-compiler/internal/commands/serve/config"
	"github.com/artuross/tiny-compiler/internal/compiler"
	"github.com/artuross/tiny-compiler/internal/server"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Compiles programs sent over a WebSocket connection.",
		Flags: []cli.Flag{
			// optional
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Address to listen on.",
				Value:   ":8080",
				EnvVars: []string{"TINYCOMPILER_ADDR"},
			},
			&cli.DurationFlag{
				Name:  "ping-interval",
				Usage: "How often connected clients are pinged. 0 disables pings.",
				Value: server.DefaultPingInterval,
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Export traces over OTLP. Also enabled by OTEL_EXPORTER_OTLP_ENDPOINT.",
			},
			commandinit.NewLogLevelFlag(),
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	cfg, err := config.Read(cliCtx, os.Getenv)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := commandinit.NewLogger(os.Stderr, cfg.LogLevel, "serve")

	if cfg.LogLevel <= zerolog.DebugLevel {
		config.Print(os.Stderr, cfg)
	}

	tracerProvider, tpShutdown, err := commandinit.NewOpenTelemetry(ctx, "tinycompiler", cfg.Trace)
	if err != nil {
		logger.Error().Err(err).Msg("init OTEL provider")
		return ErrCommandFailed
	}
	defer tpShutdown(context.WithoutCancel(ctx))

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	errInterrupted := errors.New("interrupted")

	go func() {
		stopChan := make(chan os.Signal, 1)
		signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stopChan)

		select {
		case <-stopChan:
			logger.Info().Msg("received cancel signal")
			cancel(errInterrupted)

		case <-ctx.Done():
		}
	}()

	ctx = logger.WithContext(ctx)

	handler := server.New(
		compiler.New(compiler.WithTracerProvider(tracerProvider)),
		server.WithPingInterval(cfg.PingInterval),
		server.WithTracerProvider(tracerProvider),
	)

	httpServer := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error().Err(err).Msg("serve")
		return ErrCommandFailed
	}

	return nil
}
