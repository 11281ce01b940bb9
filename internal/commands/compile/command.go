package compile

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/artuross/tiny-compiler/internal/commandinit"
	"github.com/artuross/tiny-compiler/internal/commands/compile/config"
	"github.com/artuross/tiny-compiler/internal/commands/compile/exec"
	"github.com/artuross/tiny-compiler/internal/compiler"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Compiles s-expression files to C-like statements.",
		ArgsUsage: "[file...]",
		Flags: []cli.Flag{
			// optional
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Write <name>.c files into this directory instead of printing to stdout.",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of files compiled in parallel.",
				Value:   4,
				EnvVars: []string{"TINYCOMPILER_JOBS"},
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

	cfg, err := config.Read(cliCtx, cliCtx.Args().Slice(), os.Getenv)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := commandinit.NewLogger(os.Stderr, cfg.LogLevel, "compile")

	if cfg.LogLevel <= zerolog.DebugLevel {
		config.Print(os.Stderr, cfg)
	}

	tracerProvider, tpShutdown, err := commandinit.NewOpenTelemetry(ctx, "tinycompiler", cfg.Trace)
	if err != nil {
		logger.Error().Err(err).Msg("init OTEL provider")
		return ErrCommandFailed
	}
	defer tpShutdown(context.WithoutCancel(ctx))

	ctx = logger.WithContext(ctx)

	execConfig := exec.Config{
		Files:     cfg.Files,
		Jobs:      cfg.Jobs,
		OutputDir: cfg.OutputDir,
	}

	c := compiler.New(compiler.WithTracerProvider(tracerProvider))

	executor := exec.NewExecutor(c, os.Stdin, os.Stdout)
	if err := executor.Run(ctx, execConfig); err != nil {
		logger.Error().Err(err).Msg("compile")
		return ErrCommandFailed
	}

	return nil
}
