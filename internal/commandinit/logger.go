package commandinit

import (
	"io"

	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

const (
	LogLevelFlagName = "log-level"
	logLevelEnvVar   = "TINYCOMPILER_LOG_LEVEL"
)

func NewLogLevelFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    LogLevelFlagName,
		Usage:   "Minimum level of log messages written to stderr: trace, debug, info, warn or error.",
		Value:   zerolog.LevelInfoValue,
		EnvVars: []string{logLevelEnvVar},
	}
}

// NewLogger writes human readable logs to w. Compiled output goes to stdout, so w is
// normally stderr.
func NewLogger(w io.Writer, level zerolog.Level, command string) zerolog.Logger {
	writer := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
	})

	return zerolog.New(writer).
		Level(level).
		With().Timestamp().Logger().
		With().Str("command", command).Logger()
}
